package cli

import (
	"fmt"

	"github.com/ashureev/quadlab/internal/i18n"
	"github.com/ashureev/quadlab/internal/plot"
	"github.com/ashureev/quadlab/internal/render"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"
)

func newPlotCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:     "plot A B C",
		Short:   "Print the sampled points of y = ax² + bx + c",
		Example: "  quadctl plot -- 1 -4 3",
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := coefficientArgs(args)
			if err != nil {
				return err
			}
			p := plot.Sample(c)
			out := cmd.OutOrStdout()

			if len(p.Points) == 0 {
				msg := i18n.Text(opts.tag(), i18n.PlotPlaceholder)
				if !p.Placeholder {
					msg = p.Title
				}
				_, err := fmt.Fprintln(out, msg)
				return err
			}

			_, err = fmt.Fprintln(out, titleStyle.Render(p.Title))
			if err != nil {
				return err
			}
			_, err = fmt.Fprintln(out, pointsTable(p))
			return err
		},
	}
}

func pointsTable(p plot.Plot) string {
	t := table.New().
		Border(lipgloss.NormalBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(muted)).
		Headers("x", "y")
	for _, pt := range p.Points {
		t.Row(render.Fixed(pt.X, 1), render.Number(render.Round(pt.Y, 4)))
	}
	return t.Render()
}
