package cli

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

// NewColumnCommand groups the column commands.
func NewColumnCommand(opts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "column",
		Short: "Add, rename, delete and reorder columns",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "add <title>",
		Short: "Append a column to the board",
		Args:  cobra.MinimumNArgs(1),
		RunE: withApp(opts, func(ctx context.Context, cmd *cobra.Command, args []string, app *App) error {
			id, err := app.Service.AddColumn(ctx, app.Board.ID, strings.Join(args, " "))
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "column %d added\n", id)
			return nil
		}),
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "rename <id> <title>",
		Short: "Rename a column",
		Args:  cobra.MinimumNArgs(2),
		RunE: withApp(opts, func(ctx context.Context, cmd *cobra.Command, args []string, app *App) error {
			id, err := parseID("column", args[0])
			if err != nil {
				return err
			}
			changed, err := app.Service.RenameColumn(ctx, id, strings.Join(args[1:], " "))
			if err != nil {
				return err
			}
			report(cmd, changed, "column %d renamed", id)
			return nil
		}),
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "delete <id>",
		Short: "Delete a column together with its cards",
		Args:  cobra.ExactArgs(1),
		RunE: withApp(opts, func(ctx context.Context, cmd *cobra.Command, args []string, app *App) error {
			id, err := parseID("column", args[0])
			if err != nil {
				return err
			}
			changed, err := app.Service.DeleteColumn(ctx, id)
			if err != nil {
				return err
			}
			report(cmd, changed, "column %d deleted", id)
			return nil
		}),
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "move <id> <index>",
		Short: "Move a column to a zero-based position (-1 for last)",
		Args:  cobra.ExactArgs(2),
		RunE: withApp(opts, func(ctx context.Context, cmd *cobra.Command, args []string, app *App) error {
			id, err := parseID("column", args[0])
			if err != nil {
				return err
			}
			index, err := parseIndex(args[1])
			if err != nil {
				return err
			}
			changed, err := app.Service.MoveColumn(ctx, id, index)
			if err != nil {
				return err
			}
			report(cmd, changed, "column %d moved", id)
			return nil
		}),
	})

	return cmd
}
