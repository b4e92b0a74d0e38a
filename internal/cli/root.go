// Package cli implements the kanban command line.
package cli

import (
	"context"
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"localboard/internal/config"
)

// RootOptions holds global flags for all commands.
type RootOptions struct {
	DBPath   string
	LogLevel string
	Title    string
}

// NewRootCommand creates the root command. cfg supplies the flag defaults.
func NewRootCommand(cfg *config.Config) *cobra.Command {
	opts := &RootOptions{}

	cmd := &cobra.Command{
		Use:   "kanban",
		Short: "A local kanban board",
		Long: `kanban keeps a single kanban board in a local SQLite file.

Every change is one transaction; the board view and the terminal UI pick up
each committed change, including writes from other kanban processes sharing
the same file.

Use --db :memory: for a throwaway board.`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	cmd.PersistentFlags().StringVar(&opts.DBPath, "db", cfg.DBPath, "database file (:memory: for a throwaway board)")
	cmd.PersistentFlags().StringVar(&opts.LogLevel, "log-level", cfg.LogLevel, "log level (trace|debug|info|warn|error)")
	cmd.PersistentFlags().StringVar(&opts.Title, "title", cfg.BoardTitle, "title used when the board is first created")

	cmd.AddCommand(NewShowCommand(opts))
	cmd.AddCommand(NewWatchCommand(opts))
	cmd.AddCommand(NewTUICommand(opts))
	cmd.AddCommand(NewBoardCommand(opts))
	cmd.AddCommand(NewColumnCommand(opts))
	cmd.AddCommand(NewCardCommand(opts))
	cmd.AddCommand(NewSearchCommand(opts))

	return cmd
}

// withApp opens the app for the duration of one command.
func withApp(opts *RootOptions, fn func(ctx context.Context, cmd *cobra.Command, args []string, app *App) error) func(*cobra.Command, []string) error {
	return func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		if ctx == nil {
			ctx = context.Background()
		}
		app, err := OpenApp(ctx, opts, cmd.ErrOrStderr())
		if err != nil {
			return err
		}
		defer app.Close()
		return fn(ctx, cmd, args, app)
	}
}

func parseID(kind, arg string) (uint, error) {
	id, err := strconv.ParseUint(arg, 10, 0)
	if err != nil || id == 0 {
		return 0, fmt.Errorf("invalid %s id %q", kind, arg)
	}
	return uint(id), nil
}

func parseIndex(arg string) (int, error) {
	index, err := strconv.Atoi(arg)
	if err != nil {
		return 0, fmt.Errorf("invalid index %q", arg)
	}
	return index, nil
}

// report prints what happened, or that nothing did.
func report(cmd *cobra.Command, changed bool, format string, a ...interface{}) {
	if !changed {
		fmt.Fprintln(cmd.OutOrStdout(), "nothing changed")
		return
	}
	fmt.Fprintf(cmd.OutOrStdout(), format+"\n", a...)
}
