package cli

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"localboard/internal/model"
	"localboard/internal/ordering"
)

const dueLayout = "2006-01-02"

// CardUpdateOptions holds flags for the card update command.
type CardUpdateOptions struct {
	Title       string
	Description string
	Due         string
	ClearDue    bool
	Done        bool
}

// NewCardCommand groups the card commands.
func NewCardCommand(opts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "card",
		Short: "Add, edit, move and delete cards",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "add <column-id> <title>",
		Short: "Append a card to a column",
		Args:  cobra.MinimumNArgs(2),
		RunE: withApp(opts, func(ctx context.Context, cmd *cobra.Command, args []string, app *App) error {
			columnID, err := parseID("column", args[0])
			if err != nil {
				return err
			}
			id, err := app.Service.AddCard(ctx, columnID, strings.Join(args[1:], " "))
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "card %d added\n", id)
			return nil
		}),
	})

	cmd.AddCommand(newCardUpdateCommand(opts))

	cmd.AddCommand(&cobra.Command{
		Use:   "toggle <id>",
		Short: "Flip a card between open and done",
		Args:  cobra.ExactArgs(1),
		RunE: withApp(opts, func(ctx context.Context, cmd *cobra.Command, args []string, app *App) error {
			id, err := parseID("card", args[0])
			if err != nil {
				return err
			}
			changed, err := app.Service.ToggleCard(ctx, id)
			if err != nil {
				return err
			}
			report(cmd, changed, "card %d toggled", id)
			return nil
		}),
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "delete <id>",
		Short: "Delete a card",
		Args:  cobra.ExactArgs(1),
		RunE: withApp(opts, func(ctx context.Context, cmd *cobra.Command, args []string, app *App) error {
			id, err := parseID("card", args[0])
			if err != nil {
				return err
			}
			changed, err := app.Service.DeleteCard(ctx, id)
			if err != nil {
				return err
			}
			report(cmd, changed, "card %d deleted", id)
			return nil
		}),
	})

	cmd.AddCommand(newCardMoveCommand(opts))

	return cmd
}

func newCardUpdateCommand(opts *RootOptions) *cobra.Command {
	upd := &CardUpdateOptions{}

	cmd := &cobra.Command{
		Use:   "update <id>",
		Short: "Edit a card's title, description, due date or done flag",
		Example: `  kanban card update 4 --title "Write release notes"
  kanban card update 4 --due 2026-11-01
  kanban card update 4 --clear-due --done`,
		Args: cobra.ExactArgs(1),
		RunE: withApp(opts, func(ctx context.Context, cmd *cobra.Command, args []string, app *App) error {
			id, err := parseID("card", args[0])
			if err != nil {
				return err
			}
			patch, err := upd.patch(cmd)
			if err != nil {
				return err
			}
			if patch.Empty() {
				return fmt.Errorf("nothing to update: pass at least one of --title, --description, --due, --clear-due, --done")
			}
			changed, err := app.Service.UpdateCard(ctx, id, patch)
			if err != nil {
				return err
			}
			report(cmd, changed, "card %d updated", id)
			return nil
		}),
	}

	cmd.Flags().StringVar(&upd.Title, "title", "", "new title")
	cmd.Flags().StringVar(&upd.Description, "description", "", "new description")
	cmd.Flags().StringVar(&upd.Due, "due", "", "due date (YYYY-MM-DD)")
	cmd.Flags().BoolVar(&upd.ClearDue, "clear-due", false, "remove the due date")
	cmd.Flags().BoolVar(&upd.Done, "done", false, "mark done (--done=false reopens)")
	cmd.MarkFlagsMutuallyExclusive("due", "clear-due")

	return cmd
}

// patch builds a CardPatch from the flags the user actually set.
func (o *CardUpdateOptions) patch(cmd *cobra.Command) (model.CardPatch, error) {
	var patch model.CardPatch
	flags := cmd.Flags()

	if flags.Changed("title") {
		patch.Title = &o.Title
	}
	if flags.Changed("description") {
		patch.Description = &o.Description
	}
	if flags.Changed("due") {
		due, err := time.ParseInLocation(dueLayout, o.Due, time.Local)
		if err != nil {
			return patch, fmt.Errorf("invalid --due %q: want YYYY-MM-DD", o.Due)
		}
		patch.DueDate = &due
	}
	patch.ClearDueDate = o.ClearDue
	if flags.Changed("done") {
		patch.Done = &o.Done
	}
	return patch, nil
}

func newCardMoveCommand(opts *RootOptions) *cobra.Command {
	var index int

	cmd := &cobra.Command{
		Use:   "move <id> <column-id>",
		Short: "Move a card to a position in a column",
		Long: `Move a card to a zero-based position in a column.

Without --index the card goes after the last card of the column.`,
		Args: cobra.ExactArgs(2),
		RunE: withApp(opts, func(ctx context.Context, cmd *cobra.Command, args []string, app *App) error {
			id, err := parseID("card", args[0])
			if err != nil {
				return err
			}
			to, err := parseID("column", args[1])
			if err != nil {
				return err
			}
			card, err := app.Store.Cards.GetByID(ctx, id)
			if err != nil {
				return err
			}
			changed, err := app.Service.MoveCard(ctx, id, card.ColumnID, to, index)
			if err != nil {
				return err
			}
			report(cmd, changed, "card %d moved to column %d", id, to)
			return nil
		}),
	}

	cmd.Flags().IntVar(&index, "index", ordering.Append, "zero-based position in the column (-1 for last)")

	return cmd
}
