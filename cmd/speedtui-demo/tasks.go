package main

import (
	"fmt"

	"github.com/lixenwraith/speedtui/render"
	"github.com/lixenwraith/speedtui/terminal"
	"github.com/lixenwraith/speedtui/tui"
)

type task struct {
	Title string
	Done  bool
	Notes string
}

func sampleTasks() []task {
	return []task{
		{Title: "Wire the resize handler", Done: true,
			Notes: "SIGWINCH swaps the pending size so only the latest resize is delivered."},
		{Title: "Blank-fill on shrinking writes", Done: true,
			Notes: "A shorter replacement pads the width delta with spaces so no stale glyphs survive."},
		{Title: "Port the color detection heuristics", Done: false,
			Notes: "COLORTERM wins, then terminal program variables, then TERM suffix matching."},
		{Title: "Add 256-color downgrade path", Done: false,
			Notes: "Truecolor palettes map to the nearest cube or grayscale ramp entry."},
		{Title: "Document the frame protocol", Done: false,
			Notes: "BeginFrame, WriteAt per region, EndFrame. One atomic write per frame."},
	}
}

// taskListScreen is the root screen: a selectable task list with a
// menu overlay for theme switching.
type taskListScreen struct {
	tui.BaseScreen
	tui.Overlay

	app      *tui.App
	tasks    []task
	selected int

	menuItems    []string
	menuSelected int
}

func newTaskListScreen(app *tui.App, tasks []task) *taskListScreen {
	return &taskListScreen{
		BaseScreen: tui.NewBaseScreen(),
		app:        app,
		tasks:      tasks,
		menuItems:  append(tui.ThemeNames(), "close"),
	}
}

func (s *taskListScreen) HandleInput(ev terminal.Event) tui.NavigationIntent {
	if s.Overlay.Active() {
		return s.handleMenuInput(ev)
	}

	switch {
	case ev.Key == terminal.KeyRune && ev.Rune == 'q':
		return tui.QuitIntent()
	case ev.Key == terminal.KeyRune && ev.Rune == 'j', ev.Key == terminal.KeyDown:
		if s.selected < len(s.tasks)-1 {
			s.selected++
		}
	case ev.Key == terminal.KeyRune && ev.Rune == 'k', ev.Key == terminal.KeyUp:
		if s.selected > 0 {
			s.selected--
		}
	case ev.Key == terminal.KeyRune && ev.Rune == 'x':
		s.tasks[s.selected].Done = !s.tasks[s.selected].Done
	case ev.Key == terminal.KeyRune && ev.Rune == 'm':
		s.Overlay.Show(s.menuRect())
	case ev.Key == terminal.KeyEnter:
		return tui.PushIntent(newTaskDetailScreen(s.app, s.tasks[s.selected]))
	}
	return tui.NavigationIntent{}
}

func (s *taskListScreen) handleMenuInput(ev terminal.Event) tui.NavigationIntent {
	switch {
	case ev.Key == terminal.KeyEscape:
		s.Overlay.Dismiss()
	case ev.Key == terminal.KeyRune && ev.Rune == 'j', ev.Key == terminal.KeyDown:
		if s.menuSelected < len(s.menuItems)-1 {
			s.menuSelected++
		}
	case ev.Key == terminal.KeyRune && ev.Rune == 'k', ev.Key == terminal.KeyUp:
		if s.menuSelected > 0 {
			s.menuSelected--
		}
	case ev.Key == terminal.KeyEnter:
		choice := s.menuItems[s.menuSelected]
		s.Overlay.Dismiss()
		if choice != "close" {
			if err := s.app.Themes().SetTheme(choice); err != nil {
				s.app.SetStatus(err.Error())
			} else {
				s.app.SetStatus("theme: " + choice)
			}
		}
	}
	return tui.NavigationIntent{}
}

func (s *taskListScreen) menuRect() tui.Rect {
	return tui.Rect{X: 4, Y: 2, W: 24, H: len(s.menuItems) + 2}
}

func (s *taskListScreen) Render(area tui.Rect) []render.Fragment {
	th := s.app.Themes()
	frags := make([]render.Fragment, 0, len(s.tasks)+4)

	header := tui.PadRight("  Tasks", area.W)
	frags = append(frags, render.Fragment{
		Pos:  terminal.Position{Col: area.X, Row: area.Y},
		Text: th.StyleOn(tui.RoleHeaderFg, tui.RoleHeaderBg, header),
	})

	for i, t := range s.tasks {
		row := area.Y + 2 + i
		if row >= area.Y+area.H {
			break
		}
		mark := "[ ]"
		if t.Done {
			mark = "[x]"
		}
		line := fmt.Sprintf("  %s %s", mark, t.Title)
		line = tui.PadRight(line, area.W)

		var text string
		if i == s.selected {
			text = th.StyleOn(tui.RoleSelectionFg, tui.RoleSelectionBg, line)
		} else {
			text = th.Style(tui.RoleForeground, line)
		}
		frags = append(frags, render.Fragment{
			Pos:  terminal.Position{Col: area.X, Row: row},
			Text: text,
		})
	}

	hint := tui.PadRight("  j/k move  enter open  x toggle  m menu  q quit", area.W)
	frags = append(frags, render.Fragment{
		Pos:  terminal.Position{Col: area.X, Row: area.Y + area.H - 1},
		Text: th.Style(tui.RoleHint, hint),
	})

	if s.Overlay.Active() {
		frags = append(frags, s.renderMenu()...)
	}
	return frags
}

func (s *taskListScreen) renderMenu() []render.Fragment {
	th := s.app.Themes()
	rect := s.Overlay.Rect()
	frags := make([]render.Fragment, 0, rect.H)

	title := tui.PadRight(" Theme", rect.W)
	frags = append(frags, render.Fragment{
		Pos:  terminal.Position{Col: rect.X, Row: rect.Y},
		Text: th.StyleOn(tui.RoleHeaderFg, tui.RoleHeaderBg, title),
	})
	for i, item := range s.menuItems {
		line := tui.PadRight(" "+item, rect.W)
		var text string
		if i == s.menuSelected {
			text = th.StyleOn(tui.RoleSelectionFg, tui.RoleSelectionBg, line)
		} else {
			text = th.StyleOn(tui.RoleForeground, tui.RoleStatusBg, line)
		}
		frags = append(frags, render.Fragment{
			Pos:  terminal.Position{Col: rect.X, Row: rect.Y + 1 + i},
			Text: text,
		})
	}
	footer := tui.PadRight(" esc close", rect.W)
	frags = append(frags, render.Fragment{
		Pos:  terminal.Position{Col: rect.X, Row: rect.Y + rect.H - 1},
		Text: th.StyleOn(tui.RoleHint, tui.RoleStatusBg, footer),
	})
	return frags
}

// taskDetailScreen shows one task. Pop returns to the list.
type taskDetailScreen struct {
	tui.BaseScreen

	app  *tui.App
	task task
}

func newTaskDetailScreen(app *tui.App, t task) *taskDetailScreen {
	return &taskDetailScreen{
		BaseScreen: tui.NewBaseScreen(),
		app:        app,
		task:       t,
	}
}

func (s *taskDetailScreen) HandleInput(ev terminal.Event) tui.NavigationIntent {
	switch {
	case ev.Key == terminal.KeyEscape,
		ev.Key == terminal.KeyRune && ev.Rune == 'q':
		return tui.PopIntent()
	}
	return tui.NavigationIntent{}
}

func (s *taskDetailScreen) Render(area tui.Rect) []render.Fragment {
	th := s.app.Themes()
	var frags []render.Fragment

	header := tui.PadRight("  Task Detail", area.W)
	frags = append(frags, render.Fragment{
		Pos:  terminal.Position{Col: area.X, Row: area.Y},
		Text: th.StyleOn(tui.RoleHeaderFg, tui.RoleHeaderBg, header),
	})

	status := "open"
	if s.task.Done {
		status = "done"
	}
	frags = append(frags, render.Fragment{
		Pos:  terminal.Position{Col: area.X + 2, Row: area.Y + 2},
		Text: th.Style(tui.RoleAccent, s.task.Title),
	})
	frags = append(frags, render.Fragment{
		Pos:  terminal.Position{Col: area.X + 2, Row: area.Y + 3},
		Text: th.Style(tui.RoleStatusFg, "status: "+status),
	})

	row := area.Y + 5
	for _, line := range tui.Wrap(s.task.Notes, area.W-4) {
		if row >= area.Y+area.H-1 {
			break
		}
		frags = append(frags, render.Fragment{
			Pos:  terminal.Position{Col: area.X + 2, Row: row},
			Text: th.Style(tui.RoleForeground, line),
		})
		row++
	}

	hint := tui.PadRight("  esc back", area.W)
	frags = append(frags, render.Fragment{
		Pos:  terminal.Position{Col: area.X, Row: area.Y + area.H - 1},
		Text: th.Style(tui.RoleHint, hint),
	})
	return frags
}
