// Package tui provides the screen-stack navigator on top of the render
// engine: named layout regions, semantic theming, the Screen capability
// contract, and the single-threaded application loop.
//
// Design principles:
//   - Screens produce positioned fragments; they never write escape bytes
//   - The top of the stack exclusively owns input and rendering
//   - Every stack transition invalidates the frame cache
//   - The loop is synchronous with a bounded input poll; no true concurrency
//
// Usage pattern:
//
//	session := terminal.NewSession()
//	app := tui.NewApp(session, tui.Options{})
//	err := app.Run(newRootScreen(app.Layout(), app.Themes()))
package tui
