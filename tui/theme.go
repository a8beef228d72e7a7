package tui

import (
	"fmt"
	"path/filepath"
	"sync"

	"github.com/BurntSushi/toml"
	"github.com/lucasb-eyer/go-colorful"

	"github.com/lixenwraith/speedtui/terminal"
)

// Role is a semantic color slot resolved through the active theme.
type Role uint8

const (
	RoleBackground Role = iota
	RoleForeground
	RoleHeaderBg
	RoleHeaderFg
	RoleStatusBg
	RoleStatusFg
	RoleAccent
	RoleBorder
	RoleError
	RoleWarning
	RoleSelectionBg
	RoleSelectionFg
	RoleHint
	roleCount
)

// Palette maps every role to a concrete color.
type Palette [roleCount]terminal.RGB

// Built-in themes. External themes load from TOML files (see SetTheme).
var builtinThemes = map[string]Palette{
	"dark": {
		RoleBackground:  {R: 20, G: 20, B: 30},
		RoleForeground:  {R: 200, G: 200, B: 200},
		RoleHeaderBg:    {R: 40, G: 60, B: 90},
		RoleHeaderFg:    {R: 255, G: 255, B: 255},
		RoleStatusBg:    {R: 30, G: 35, B: 45},
		RoleStatusFg:    {R: 140, G: 140, B: 140},
		RoleAccent:      {R: 100, G: 200, B: 220},
		RoleBorder:      {R: 60, G: 80, B: 100},
		RoleError:       {R: 255, G: 80, B: 80},
		RoleWarning:     {R: 255, G: 180, B: 100},
		RoleSelectionBg: {R: 50, G: 50, B: 70},
		RoleSelectionFg: {R: 255, G: 255, B: 255},
		RoleHint:        {R: 100, G: 180, B: 200},
	},
	"light": {
		RoleBackground:  {R: 245, G: 245, B: 240},
		RoleForeground:  {R: 40, G: 40, B: 40},
		RoleHeaderBg:    {R: 70, G: 110, B: 160},
		RoleHeaderFg:    {R: 255, G: 255, B: 255},
		RoleStatusBg:    {R: 220, G: 220, B: 215},
		RoleStatusFg:    {R: 90, G: 90, B: 90},
		RoleAccent:      {R: 20, G: 120, B: 160},
		RoleBorder:      {R: 150, G: 160, B: 170},
		RoleError:       {R: 190, G: 30, B: 30},
		RoleWarning:     {R: 180, G: 110, B: 20},
		RoleSelectionBg: {R: 190, G: 205, B: 225},
		RoleSelectionFg: {R: 20, G: 20, B: 20},
		RoleHint:        {R: 60, G: 130, B: 150},
	},
}

// roleNames maps TOML keys to roles for theme files.
var roleNames = map[string]Role{
	"background":   RoleBackground,
	"foreground":   RoleForeground,
	"header_bg":    RoleHeaderBg,
	"header_fg":    RoleHeaderFg,
	"status_bg":    RoleStatusBg,
	"status_fg":    RoleStatusFg,
	"accent":       RoleAccent,
	"border":       RoleBorder,
	"error":        RoleError,
	"warning":      RoleWarning,
	"selection_bg": RoleSelectionBg,
	"selection_fg": RoleSelectionFg,
	"hint":         RoleHint,
}

type seqKey struct {
	role       Role
	background bool
}

// ThemeManager resolves semantic roles to colors and cached ANSI sequences.
//
// The sequence cache stores final escape bytes, so a theme switch silently
// changes what "unchanged" means to the frame cache downstream; SetTheme
// therefore fires the registered invalidation hook after dropping the cache.
type ThemeManager struct {
	mu        sync.RWMutex
	name      string
	palette   Palette
	colorMode terminal.ColorMode
	seqCache  map[seqKey][]byte
	themeDir  string

	onInvalidate func()
	watcher      *themeWatcher
}

// NewThemeManager creates a manager with the built-in dark theme.
func NewThemeManager(mode terminal.ColorMode) *ThemeManager {
	return &ThemeManager{
		name:      "dark",
		palette:   builtinThemes["dark"],
		colorMode: mode,
		seqCache:  make(map[seqKey][]byte, int(roleCount)*2),
	}
}

// OnInvalidate registers the hook fired when cached sequences become stale
// (theme switch or live reload). The hook may run on the watcher goroutine,
// so it must only request a repaint, never mutate render state directly;
// the application wires it to a flag the loop applies at the next frame.
func (tm *ThemeManager) OnInvalidate(fn func()) {
	tm.mu.Lock()
	tm.onInvalidate = fn
	tm.mu.Unlock()
}

// SetThemeDir sets the directory searched for <name>.toml theme files.
func (tm *ThemeManager) SetThemeDir(dir string) {
	tm.mu.Lock()
	tm.themeDir = dir
	tm.mu.Unlock()
}

// Name returns the active theme name.
func (tm *ThemeManager) Name() string {
	tm.mu.RLock()
	defer tm.mu.RUnlock()
	return tm.name
}

// Resolve returns the active palette's color for a role.
func (tm *ThemeManager) Resolve(role Role) terminal.RGB {
	tm.mu.RLock()
	defer tm.mu.RUnlock()
	if role >= roleCount {
		return terminal.RGB{}
	}
	return tm.palette[role]
}

// Dimmed returns the role's color blended halfway toward the background in
// a perceptual color space, for de-emphasized text.
func (tm *ThemeManager) Dimmed(role Role) terminal.RGB {
	fg := toColorful(tm.Resolve(role))
	bg := toColorful(tm.Resolve(RoleBackground))
	return fromColorful(fg.BlendLab(bg, 0.5))
}

// GetAnsiSequence returns the escape bytes selecting the role's color,
// cached per (role, isBackground) pair. Truecolor terminals get 24-bit
// sequences; others get the nearest 256-palette entry.
func (tm *ThemeManager) GetAnsiSequence(role Role, isBackground bool) []byte {
	key := seqKey{role: role, background: isBackground}

	tm.mu.RLock()
	if seq, ok := tm.seqCache[key]; ok {
		tm.mu.RUnlock()
		return seq
	}
	tm.mu.RUnlock()

	tm.mu.Lock()
	defer tm.mu.Unlock()
	if seq, ok := tm.seqCache[key]; ok {
		return seq
	}

	c := tm.palette[role]
	var seq []byte
	switch {
	case tm.colorMode == terminal.ColorModeTrueColor && isBackground:
		seq = terminal.SetBackground(c)
	case tm.colorMode == terminal.ColorModeTrueColor:
		seq = terminal.SetForeground(c)
	case isBackground:
		seq = terminal.AppendBackground256(nil, c)
	default:
		seq = terminal.AppendForeground256(nil, c)
	}
	tm.seqCache[key] = seq
	return seq
}

// Style wraps text with the foreground sequence for role plus a reset,
// producing fragment-ready pre-styled text.
func (tm *ThemeManager) Style(role Role, text string) string {
	return string(tm.GetAnsiSequence(role, false)) + text + string(terminal.Reset())
}

// StyleOn wraps text with both foreground and background sequences.
func (tm *ThemeManager) StyleOn(fg, bg Role, text string) string {
	return string(tm.GetAnsiSequence(fg, false)) +
		string(tm.GetAnsiSequence(bg, true)) +
		text + string(terminal.Reset())
}

// SetTheme activates a theme by name: built-in, or <themeDir>/<name>.toml.
// The sequence cache is dropped wholesale and the invalidation hook fires.
func (tm *ThemeManager) SetTheme(name string) error {
	palette, ok := builtinThemes[name]
	if !ok {
		tm.mu.RLock()
		dir := tm.themeDir
		tm.mu.RUnlock()
		if dir == "" {
			return fmt.Errorf("tui: unknown theme %q", name)
		}
		var err error
		palette, err = loadThemeFile(filepath.Join(dir, name+".toml"))
		if err != nil {
			return err
		}
	}

	tm.mu.Lock()
	tm.name = name
	tm.palette = palette
	clear(tm.seqCache)
	hook := tm.onInvalidate
	tm.mu.Unlock()

	if hook != nil {
		hook()
	}
	return nil
}

// ThemeNames lists the built-in theme names.
func ThemeNames() []string {
	return []string{"dark", "light"}
}

// themeFile is the on-disk TOML shape:
//
//	[colors]
//	background = "#141e1e"
//	foreground = "#c8c8c8"
type themeFile struct {
	Colors map[string]string `toml:"colors"`
}

func loadThemeFile(path string) (Palette, error) {
	var tf themeFile
	if _, err := toml.DecodeFile(path, &tf); err != nil {
		return Palette{}, fmt.Errorf("tui: load theme %s: %w", path, err)
	}

	// Unspecified roles keep the dark defaults
	palette := builtinThemes["dark"]
	for key, hex := range tf.Colors {
		role, ok := roleNames[key]
		if !ok {
			return Palette{}, fmt.Errorf("tui: theme %s: unknown role %q", path, key)
		}
		c, err := colorful.Hex(hex)
		if err != nil {
			return Palette{}, fmt.Errorf("tui: theme %s: role %q: %w", path, key, err)
		}
		palette[role] = fromColorful(c)
	}
	return palette, nil
}

func toColorful(c terminal.RGB) colorful.Color {
	return colorful.Color{
		R: float64(c.R) / 255.0,
		G: float64(c.G) / 255.0,
		B: float64(c.B) / 255.0,
	}
}

func fromColorful(c colorful.Color) terminal.RGB {
	cl := c.Clamped()
	return terminal.RGB{
		R: uint8(cl.R*255.0 + 0.5),
		G: uint8(cl.G*255.0 + 0.5),
		B: uint8(cl.B*255.0 + 0.5),
	}
}
