package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/aretw0/jot"
	"github.com/aretw0/jot/internal/config"
	"github.com/aretw0/jot/pkg/core"
)

// app carries the state shared by every command of one invocation.
type app struct {
	cfg    config.Config
	logger *slog.Logger
	nb     *jot.Notebook

	envFiles   []string
	dir        string
	adapter    string
	format     string
	historyCap int
	verbose    bool
	jsonOut    bool
}

func newRootCmd() *cobra.Command {
	a := &app{}

	root := &cobra.Command{
		Use:   "jot",
		Short: "A personal note keeper with categories, tags and history",
		Long: `jot keeps your notes in a single local storage area: a directory
(optionally versioned with git), a sqlite file or redis.
Every edit of a note's content is kept in its history.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.setup(cmd)
		},
		PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
			if a.nb != nil {
				return a.nb.Close()
			}
			return nil
		},
	}

	pf := root.PersistentFlags()
	pf.StringVar(&a.dir, "dir", "", "Storage directory (env JOT_DIR, default ~/.jot)")
	pf.StringVar(&a.adapter, "adapter", "", "Storage adapter: fs, memory, sqlite, redis, none (env JOT_ADAPTER)")
	pf.StringVar(&a.format, "format", "", "Storage format: json, yaml, cbor (env JOT_FORMAT)")
	pf.IntVar(&a.historyCap, "history-cap", 0, "History entries kept per note, 0 = uncapped (env JOT_HISTORY_CAP)")
	pf.BoolVarP(&a.verbose, "verbose", "v", false, "Enable verbose logging")
	pf.BoolVar(&a.jsonOut, "json", false, "Output in JSON format")
	pf.StringSliceVar(&a.envFiles, "env-file", nil, "Load configuration from these .env files (default .env)")

	root.AddCommand(
		newLoginCmd(a),
		newRegisterCmd(a),
		newLogoutCmd(a),
		newWhoamiCmd(a),
		newNewCmd(a),
		newListCmd(a),
		newShowCmd(a),
		newEditCmd(a),
		newDeleteCmd(a),
		newHistoryCmd(a),
		newCategoriesCmd(a),
		newTagsCmd(a),
		newWatchCmd(a),
		newStatusCmd(a),
	)
	return root
}

// setup installs the logger and resolves configuration: flags win over the
// environment, which wins over .env files.
func (a *app) setup(cmd *cobra.Command) error {
	level := slog.LevelInfo
	if a.verbose {
		level = slog.LevelDebug
	}
	a.logger = slog.New(slog.NewTextHandler(cmd.ErrOrStderr(), &slog.HandlerOptions{Level: level}))
	slog.SetDefault(a.logger)

	cfg, err := config.Load(a.envFiles...)
	if err != nil {
		return err
	}

	flags := cmd.Flags()
	if flags.Changed("dir") {
		cfg.Dir = a.dir
	}
	if flags.Changed("adapter") {
		cfg.Adapter = a.adapter
	}
	if flags.Changed("format") {
		cfg.Format = a.format
	}
	if flags.Changed("history-cap") {
		if a.historyCap < 0 {
			return fmt.Errorf("--history-cap must not be negative")
		}
		cfg.HistoryCap = a.historyCap
	}
	a.cfg = cfg
	return nil
}

// notebook opens the configured storage on first use.
func (a *app) notebook(ctx context.Context) (*jot.Notebook, error) {
	if a.nb != nil {
		return a.nb, nil
	}

	opts := []jot.Option{
		jot.WithLogger(a.logger),
		jot.WithAdapter(a.cfg.Adapter),
		jot.WithFormat(a.cfg.Format),
		jot.WithHistoryCap(a.cfg.HistoryCap),
		jot.WithStrict(a.cfg.Strict),
		jot.WithSQLitePath(a.cfg.SQLitePath),
		jot.WithRedis(jot.RedisConfig{Addr: a.cfg.RedisAddr, DB: a.cfg.RedisDB}),
	}
	if a.cfg.Versioning {
		opts = append(opts, jot.WithVersioning(true))
	}

	nb, err := jot.Open(ctx, a.cfg.Dir, opts...)
	if err != nil {
		return nil, err
	}
	a.nb = nb
	return nb, nil
}

// currentUser returns the logged-in user or a hint to log in.
func (a *app) currentUser(ctx context.Context, nb *jot.Notebook) (core.User, error) {
	u, err := nb.Session.Current(ctx)
	if err != nil {
		return core.User{}, fmt.Errorf("%w: run `jot login` first", err)
	}
	return u, nil
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
