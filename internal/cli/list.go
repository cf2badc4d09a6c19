package cli

import (
	"fmt"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"

	"github.com/matzehuels/agentscape/pkg/dataset"
	"github.com/matzehuels/agentscape/pkg/pipeline"
	"github.com/matzehuels/agentscape/pkg/render/styles"
)

// listCommand prints the frameworks of a dataset as a table.
func (c *CLI) listCommand() *cobra.Command {
	var (
		opts    pipeline.Options
		asJSON  bool
		noCache bool
	)

	cmd := &cobra.Command{
		Use:   "list [dataset]",
		Short: "List the frameworks of a dataset",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			source, err := c.source(args)
			if err != nil {
				return err
			}
			opts.Source = source
			opts.Logger = c.Logger

			ctx := cmd.Context()
			runner, err := c.newRunner(ctx, noCache)
			if err != nil {
				return err
			}
			defer runner.Close()

			records, err := runner.Load(ctx, opts)
			if err != nil {
				return fmt.Errorf("load %s: %w", source, err)
			}
			records = runner.Filter(records, opts)

			w := cmd.OutOrStdout()
			if asJSON {
				return dataset.WriteJSON(w, records)
			}
			if len(records) == 0 {
				printInfo(w, "no frameworks match")
				return nil
			}
			fmt.Fprintln(w, recordTable(records).Render())
			printDetail(w, "%d frameworks in %d categories", len(records), len(dataset.Categories(records)))
			return nil
		},
	}

	cmd.Flags().StringVarP(&opts.Category, "category", "c", "", "only list this category")
	cmd.Flags().StringVarP(&opts.Query, "query", "q", "", "only list frameworks whose name or description contains this")
	cmd.Flags().BoolVar(&asJSON, "json", false, "print records as JSON")
	cmd.Flags().BoolVar(&noCache, "no-cache", false, "disable caching")
	cmd.Flags().BoolVar(&opts.Refresh, "refresh", false, "ignore the cached dataset")

	return cmd
}

func recordTable(records []dataset.Record) *table.Table {
	rows := make([][]string, len(records))
	for i, r := range records {
		category := r.Category
		if category == "" {
			category = "-"
		}
		rows[i] = []string{r.Name, category, formatAttr(r.CodeLevel), formatAttr(r.Complexity), formatAttr(r.LearningCurve)}
	}

	headerStyle := lipgloss.NewStyle().Foreground(colorGray).Bold(true).Padding(0, 1)
	cell := lipgloss.NewStyle().Padding(0, 1)

	return table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(colorDim)).
		Headers("Name", "Category", "Code level", "Complexity", "Learning curve").
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			switch {
			case row == table.HeaderRow:
				return headerStyle
			case col == 0:
				return cell.Foreground(colorCyan)
			case col >= 2:
				return cell.Foreground(colorWhite).Align(lipgloss.Right)
			default:
				return cell.Foreground(colorGray)
			}
		})
}

func formatAttr(v *float64) string {
	if v == nil {
		return styles.FormatValue(0, true)
	}
	return styles.FormatValue(*v, false)
}
