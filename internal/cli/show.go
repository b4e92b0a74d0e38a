package cli

import (
	"context"
	"fmt"
	"io"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"localboard/internal/live"
	"localboard/internal/tui"
)

// NewShowCommand prints the board once.
func NewShowCommand(opts *RootOptions) *cobra.Command {
	var width int

	cmd := &cobra.Command{
		Use:   "show",
		Short: "Print the board",
		Args:  cobra.NoArgs,
		RunE: withApp(opts, func(ctx context.Context, cmd *cobra.Command, args []string, app *App) error {
			view, err := app.StartView(ctx)
			if err != nil {
				return err
			}
			defer view.Close()

			fmt.Fprintln(cmd.OutOrStdout(), tui.RenderBoard(view.Snapshot(), width))
			return nil
		}),
	}

	cmd.Flags().IntVarP(&width, "width", "w", 120, "total width of the board")

	return cmd
}

// NewWatchCommand reprints the board after every committed change.
func NewWatchCommand(opts *RootOptions) *cobra.Command {
	var (
		width    int
		interval time.Duration
	)

	cmd := &cobra.Command{
		Use:   "watch",
		Short: "Print the board and reprint it whenever it changes",
		Long: `Print the board and reprint it whenever it changes.

Changes made by other kanban processes on the same database file are picked
up every --interval. Stop with Ctrl+C.`,
		Args: cobra.NoArgs,
		RunE: withApp(opts, func(ctx context.Context, cmd *cobra.Command, args []string, app *App) error {
			ctx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			view, err := app.StartView(ctx)
			if err != nil {
				return err
			}
			defer view.Close()

			out := cmd.OutOrStdout()
			render := func(s live.Snapshot) {
				fmt.Fprintf(out, "\n%s  %s\n", timestamp(), s.Commit)
				fmt.Fprintln(out, tui.RenderBoard(s, width))
			}

			updates := make(chan live.Snapshot, 16)
			unsubscribe := view.Subscribe(func(s live.Snapshot) {
				select {
				case updates <- s:
				case <-ctx.Done():
				}
			})
			defer unsubscribe()

			app.FollowExternal(ctx, interval)
			render(view.Snapshot())

			for {
				select {
				case <-ctx.Done():
					return nil
				case s := <-updates:
					render(s)
				}
			}
		}),
	}

	cmd.Flags().IntVarP(&width, "width", "w", 120, "total width of the board")
	cmd.Flags().DurationVar(&interval, "interval", time.Second, "how often to check for changes from other processes")

	return cmd
}

// NewTUICommand runs the interactive board.
func NewTUICommand(opts *RootOptions) *cobra.Command {
	var interval time.Duration

	cmd := &cobra.Command{
		Use:   "tui",
		Short: "Open the interactive board",
		Long: `Open the interactive board.

Pick up a card with m (a column with M), aim with the arrow keys and drop
with enter. esc cancels the drag. Press ? for all keys.`,
		Args: cobra.NoArgs,
		RunE: withApp(opts, func(ctx context.Context, cmd *cobra.Command, args []string, app *App) error {
			// Log lines would tear the full-screen board.
			app.Log.SetOutput(io.Discard)

			ctx, cancel := context.WithCancel(ctx)
			defer cancel()

			view, err := app.StartView(ctx)
			if err != nil {
				return err
			}
			defer view.Close()

			app.FollowExternal(ctx, interval)
			return tui.Run(ctx, app.Service, view)
		}),
	}

	cmd.Flags().DurationVar(&interval, "interval", time.Second, "how often to check for changes from other processes")

	return cmd
}

func timestamp() string {
	return time.Now().Format("15:04:05")
}
