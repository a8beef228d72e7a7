// Command speedtui-demo shows the screen stack, layout, and theming in
// a small task browser.
package main

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/lixenwraith/speedtui/config"
	"github.com/lixenwraith/speedtui/terminal"
	"github.com/lixenwraith/speedtui/tui"
)

func main() {
	var (
		configPath string
		themeName  string
	)

	root := &cobra.Command{
		Use:           "speedtui-demo",
		Short:         "Task browser demo for the speedtui toolkit",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(configPath)
			if err != nil {
				return err
			}
			if themeName != "" {
				cfg.Theme = themeName
			}
			return run(cfg)
		},
	}
	root.Flags().StringVarP(&configPath, "config", "c", "", "config file (TOML)")
	root.Flags().StringVarP(&themeName, "theme", "t", "", "theme name")

	if err := root.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "speedtui-demo:", err)
		os.Exit(1)
	}
}

func run(cfg config.Config) error {
	logger, closeLog, err := newLogger(cfg.LogFile)
	if err != nil {
		return err
	}
	defer closeLog()

	session := terminal.NewSession()
	app := tui.NewApp(session, tui.Options{
		PollInterval: cfg.PollInterval(),
		MinCols:      cfg.MinCols,
		MinRows:      cfg.MinRows,
		Logger:       logger,
	})

	themes := app.Themes()
	if cfg.ThemeDir != "" {
		themes.SetThemeDir(cfg.ThemeDir)
		if err := themes.WatchThemeDir(); err != nil {
			logger.Warn("theme watch unavailable", "err", err)
		}
		defer themes.StopWatching()
	}
	if err := themes.SetTheme(cfg.Theme); err != nil {
		logger.Warn("falling back to dark theme", "err", err)
	}

	err = app.Run(newTaskListScreen(app, sampleTasks()))
	if errors.Is(err, terminal.ErrNonInteractive) {
		return fmt.Errorf("stdin is not a terminal")
	}
	return err
}

func newLogger(path string) (*slog.Logger, func(), error) {
	if path == "" {
		return slog.New(slog.NewTextHandler(io.Discard, nil)), func() {}, nil
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return nil, nil, fmt.Errorf("open log file: %w", err)
	}
	logger := slog.New(slog.NewTextHandler(io.Writer(f), nil))
	return logger, func() { f.Close() }, nil
}
