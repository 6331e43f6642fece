// Package cli implements the quadctl command line tool.
package cli

import (
	"fmt"
	"io"

	"github.com/ashureev/quadlab/internal/i18n"
	"github.com/ashureev/quadlab/internal/solver"
	"github.com/spf13/cobra"
	"golang.org/x/text/language"
)

type options struct {
	lang string
}

// NewRootCmd builds the quadctl command tree writing to out.
func NewRootCmd(out io.Writer) *cobra.Command {
	opts := &options{}
	root := &cobra.Command{
		Use:   "quadctl",
		Short: "Solve and explain quadratic equations from the terminal",
		Long: `quadctl solves a·x² + b·x + c = 0, samples its graph and asks the
AI tutor for a step-by-step explanation.

Negative coefficients must follow "--" so they are not read as flags:

  quadctl solve -- 1 -5 4`,
		SilenceUsage: true,
	}
	root.SetOut(out)
	root.SetErr(out)
	root.PersistentFlags().StringVarP(&opts.lang, "lang", "l", "vi", "output language (vi, en)")

	root.AddCommand(
		newSolveCmd(opts),
		newPlotCmd(opts),
		newExplainCmd(opts),
	)
	return root
}

func (o *options) tag() language.Tag {
	return i18n.Parse(o.lang)
}

// coefficientArgs reads exactly three coefficients, coercing each like the
// web form does.
func coefficientArgs(args []string) (solver.Coefficients, error) {
	if len(args) != 3 {
		return solver.Coefficients{}, fmt.Errorf("expected 3 coefficients (a b c), got %d", len(args))
	}
	return solver.ParseCoefficients(args[0], args[1], args[2]), nil
}
