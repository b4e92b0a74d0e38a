package cli

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"localboard/internal/model"
)

// NewBoardCommand groups the board-level commands.
func NewBoardCommand(opts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "board",
		Short: "Rename the board or change its background",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "rename <title>",
		Short: "Rename the board",
		Args:  cobra.MinimumNArgs(1),
		RunE: withApp(opts, func(ctx context.Context, cmd *cobra.Command, args []string, app *App) error {
			title := strings.Join(args, " ")
			changed, err := app.Service.RenameBoard(ctx, app.Board.ID, title)
			if err != nil {
				return err
			}
			report(cmd, changed, "board renamed to %q", strings.TrimSpace(title))
			return nil
		}),
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "background <path|none>",
		Short: "Set the board background to one of the bundled pictures",
		Args:  cobra.ExactArgs(1),
		RunE: withApp(opts, func(ctx context.Context, cmd *cobra.Command, args []string, app *App) error {
			path := args[0]
			if path == "none" {
				path = ""
			}
			changed, err := app.Service.SetBoardBackground(ctx, app.Board.ID, path)
			if err != nil {
				return fmt.Errorf("%w (see 'kanban board backgrounds')", err)
			}
			report(cmd, changed, "background set to %q", path)
			return nil
		}),
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "backgrounds",
		Short: "List the bundled background pictures",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			for _, path := range model.Backgrounds {
				fmt.Fprintln(cmd.OutOrStdout(), path)
			}
			return nil
		},
	})

	return cmd
}
