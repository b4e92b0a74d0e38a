package cli

import (
	"context"
	"fmt"
	"strings"

	"github.com/muesli/reflow/indent"
	"github.com/muesli/reflow/wordwrap"
	"github.com/spf13/cobra"
)

// NewSearchCommand lists the cards matching a query.
func NewSearchCommand(opts *RootOptions) *cobra.Command {
	var width int

	cmd := &cobra.Command{
		Use:   "search <query>",
		Short: "Find cards by title or description",
		Args:  cobra.MinimumNArgs(1),
		RunE: withApp(opts, func(ctx context.Context, cmd *cobra.Command, args []string, app *App) error {
			view, err := app.StartView(ctx)
			if err != nil {
				return err
			}
			defer view.Close()

			snap := view.Snapshot()
			cards := snap.Search(strings.Join(args, " "))
			out := cmd.OutOrStdout()
			if len(cards) == 0 {
				fmt.Fprintln(out, "no cards found")
				return nil
			}

			columns := make(map[uint]string, len(snap.Columns))
			for _, c := range snap.Columns {
				columns[c.ID] = c.Title
			}
			for _, card := range cards {
				check := "[ ]"
				if card.IsDone() {
					check = "[x]"
				}
				fmt.Fprintf(out, "%s #%d %s  (%s)\n", check, card.ID, card.Title, columns[card.ColumnID])
				if card.Description != nil && *card.Description != "" {
					fmt.Fprintln(out, indent.String(wordwrap.String(*card.Description, width-4), 4))
				}
			}
			return nil
		}),
	}

	cmd.Flags().IntVarP(&width, "width", "w", 80, "wrap descriptions at this width")

	return cmd
}
