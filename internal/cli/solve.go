package cli

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/ashureev/quadlab/internal/api"
	"github.com/ashureev/quadlab/internal/i18n"
	"github.com/ashureev/quadlab/internal/render"
	"github.com/ashureev/quadlab/internal/solver"
	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"
)

func newSolveCmd(opts *options) *cobra.Command {
	var asJSON bool
	cmd := &cobra.Command{
		Use:     "solve A B C",
		Short:   "Classify the equation and print its roots",
		Example: "  quadctl solve -- 1 -5 4\n  quadctl solve --json -l en -- 0 2 -4",
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := coefficientArgs(args)
			if err != nil {
				return err
			}
			s := c.Solve()
			text := i18n.CategoryText(opts.tag(), s.Category)

			if asJSON {
				enc := json.NewEncoder(cmd.OutOrStdout())
				enc.SetIndent("", "  ")
				return enc.Encode(api.NewSolveResponse(c, s, text))
			}
			_, err = fmt.Fprintln(cmd.OutOrStdout(), solutionCard(c, s, text))
			return err
		},
	}
	cmd.Flags().BoolVar(&asJSON, "json", false, "print the API JSON response instead of a card")
	return cmd
}

func solutionCard(c solver.Coefficients, s solver.Solution, text string) string {
	status := noneStyle
	if s.HasRealRoots() {
		status = okStyle
	}

	lines := []string{
		titleStyle.Render(render.EquationLaTeX(c)),
		"",
		status.Render(text),
		row("Δ", render.Number(render.Round(s.Delta, 4))),
	}
	if x1, x2, ok := s.Roots(); ok {
		lines = append(lines, row("x₁", render.Number(render.Round(x1, 4))))
		if s.Distinct() {
			lines = append(lines, row("x₂", render.Number(render.Round(x2, 4))))
		}
	}
	lines = append(lines, row("", lipgloss.NewStyle().Foreground(muted).Render(s.Category.String())))
	return cardStyle.Render(strings.Join(lines, "\n"))
}

func row(label, value string) string {
	return labelStyle.Render(label) + value
}
