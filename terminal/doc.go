// Package terminal provides direct ANSI terminal control for the renderer.
//
// Features:
//   - Pure escape-sequence builders (cursor moves, truecolor/256 SGR, visibility)
//   - Raw-mode session lifecycle with guaranteed restoration
//   - Raw stdin input parsing with escape sequence handling
//   - SIGWINCH resize detection
//   - Color capability detection with 256-color downgrade
//
// This package bypasses terminfo/termcap entirely, emitting direct ANSI
// sequences. Target environments: Linux, macOS, BSDs with xterm-compatible
// terminals.
package terminal
