package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"

	"term-todo/internal/config"
	"term-todo/internal/logger"
	"term-todo/internal/tasks"
	"term-todo/internal/ui"
)

// stdinIsTerminal is swapped in tests.
var stdinIsTerminal = func() bool {
	fd := os.Stdin.Fd()
	return isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)
}

func main() {
	if err := run(os.Args[1:], os.Stdin, os.Stdout); err != nil {
		fmt.Fprintf(os.Stderr, "todo error: %v\n", err)
		os.Exit(1)
	}
}

type rootOptions struct {
	configPath string
	dbPath     string
	logLevel   string
	logFile    string
	ephemeral  bool
}

func run(args []string, in io.Reader, out io.Writer) error {
	opts := &rootOptions{}

	root := &cobra.Command{
		Use:   "todo",
		Short: "A terminal to-do list",
		Long: `todo keeps a list of pending and completed tasks in a local sqlite database.

Without a subcommand it opens the interactive list: a full-screen UI when
stdin is a terminal, a line-oriented prompt otherwise.`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runInteractive(cmd, opts)
		},
	}

	root.PersistentFlags().StringVar(&opts.configPath, "config", "", "Path to YAML config file")
	root.PersistentFlags().StringVar(&opts.dbPath, "db", "", "Path to sqlite database")
	root.PersistentFlags().StringVar(&opts.logLevel, "log-level", "", "Log level (debug, info, warn, error)")
	root.PersistentFlags().StringVar(&opts.logFile, "log-file", "", "Log file path ('-' for stderr)")
	root.PersistentFlags().BoolVar(&opts.ephemeral, "ephemeral", false, "Keep tasks in memory only")

	root.AddCommand(newListCmd(opts), newAddCmd(opts))

	root.SetArgs(args)
	root.SetIn(in)
	root.SetOut(out)
	root.SetErr(out)
	return root.Execute()
}

func newListCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "Print pending and completed tasks",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			a, err := openApp(opts)
			if err != nil {
				return err
			}
			defer func() {
				_ = a.Close()
			}()

			view := ui.NewListView()
			ui.NewController(a.store, view, logger.With("component", "ui")).RenderAll()
			_, err = fmt.Fprint(cmd.OutOrStdout(), view.View())
			return err
		},
	}
}

func newAddCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "add <title...>",
		Short: "Add a pending task",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := openApp(opts)
			if err != nil {
				return err
			}
			defer func() {
				_ = a.Close()
			}()

			task, added, err := a.store.Add(strings.Join(args, " "))
			if err != nil {
				return fmt.Errorf("save task: %w", err)
			}
			if !added {
				return fmt.Errorf("title must not be empty")
			}
			_, err = fmt.Fprintf(cmd.OutOrStdout(), "task_id=%s title=%q\n", task.ID, task.Title)
			return err
		},
	}
}

func runInteractive(cmd *cobra.Command, opts *rootOptions) error {
	a, err := openApp(opts)
	if err != nil {
		return err
	}
	defer func() {
		_ = a.Close()
	}()

	view := ui.NewListView()
	ctrl := ui.NewController(a.store, view, logger.With("component", "ui"))
	ctrl.RenderAll()

	if stdinIsTerminal() {
		return ui.RunTUI(ctrl, view, tea.WithAltScreen())
	}
	return ui.RunInteractive(ctrl, view, cmd.InOrStdin(), cmd.OutOrStdout())
}

type app struct {
	store   *tasks.Store
	closers []func() error
}

func openApp(opts *rootOptions) (*app, error) {
	cfg, err := config.Load(opts.configPath)
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	if opts.dbPath != "" {
		cfg.DBPath = opts.dbPath
	}
	if opts.logLevel != "" {
		cfg.Log.Level = opts.logLevel
	}
	if opts.logFile != "" {
		cfg.Log.File = opts.logFile
	}

	a := &app{}
	logOut, closeLog, err := openLogOutput(cfg.Log.File)
	if err != nil {
		return nil, err
	}
	a.closers = append(a.closers, closeLog)
	logger.Init(cfg.Log.Level, cfg.Log.JSON, logOut)

	var kv tasks.KV
	if opts.ephemeral {
		kv = tasks.NewMemoryKV()
	} else {
		sqliteKV, err := tasks.NewSQLiteKV(cfg.DBPath)
		if err != nil {
			_ = a.Close()
			return nil, fmt.Errorf("open sqlite kv: %w", err)
		}
		a.closers = append(a.closers, sqliteKV.Close)
		kv = sqliteKV
	}

	a.store = tasks.OpenStore(context.Background(), kv, cfg.SlotKey, logger.With("component", "store"))
	return a, nil
}

func (a *app) Close() error {
	var first error
	for i := len(a.closers) - 1; i >= 0; i-- {
		if err := a.closers[i](); err != nil && first == nil {
			first = err
		}
	}
	return first
}

func openLogOutput(path string) (io.Writer, func() error, error) {
	if path == "" || path == "-" {
		return os.Stderr, func() error { return nil }, nil
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o750); err != nil {
		return nil, nil, fmt.Errorf("create log dir: %w", err)
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o600)
	if err != nil {
		return nil, nil, fmt.Errorf("open log file: %w", err)
	}
	return f, f.Close, nil
}
