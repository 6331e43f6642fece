package cli

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/ashureev/quadlab/internal/explain"
	"github.com/spf13/cobra"
)

// explainerFactory builds the backend for the explain command. Replaced in
// tests.
var explainerFactory = func(ctx context.Context, addr, apiKey, model string) (explain.Explainer, error) {
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelWarn}))
	if addr != "" {
		client, err := explain.NewGrpcClient(explain.DefaultGrpcClientConfig(addr), logger)
		if err != nil {
			return nil, err
		}
		return client, nil
	}
	if apiKey != "" {
		gemini, err := explain.NewGeminiExplainer(ctx, apiKey, model, logger)
		if err != nil {
			return nil, err
		}
		return gemini, nil
	}
	return nil, nil
}

func newExplainCmd(opts *options) *cobra.Command {
	var (
		addr    string
		model   string
		timeout time.Duration
	)
	cmd := &cobra.Command{
		Use:   "explain A B C",
		Short: "Ask the AI tutor for a step-by-step explanation",
		Long: `Streams an explanation from the sidecar at --addr (EXPLAINER_ADDR) or
directly from Gemini using GEMINI_API_KEY. Failures print the same
fallback text the web app shows.`,
		Example: "  GEMINI_API_KEY=... quadctl explain -l en -- 1 -5 4",
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := coefficientArgs(args)
			if err != nil {
				return err
			}
			if c.AllZero() {
				return fmt.Errorf("nothing to explain: all coefficients are zero")
			}

			apiKey := os.Getenv("GEMINI_API_KEY")
			if apiKey == "" {
				apiKey = os.Getenv("API_KEY")
			}
			backend, err := explainerFactory(cmd.Context(), addr, apiKey, model)
			if err != nil {
				// The service turns a missing backend into the fallback text.
				fmt.Fprintln(cmd.ErrOrStderr(), "warning:", err)
				backend = nil
			}

			svc := explain.NewService(backend, nil, timeout, nil)
			defer svc.Close()

			out := cmd.OutOrStdout()
			req := explain.Request{Coefficients: c, Lang: opts.tag()}
			final := svc.Stream(cmd.Context(), req, func(chunk explain.Chunk) bool {
				if chunk.Fallback {
					fmt.Fprint(out, "\n")
					fmt.Fprint(out, noneStyle.Render(chunk.Text))
					return true
				}
				_, err := fmt.Fprint(out, chunk.Text)
				return err == nil
			})
			fmt.Fprintln(out)
			if final.Fallback {
				return fmt.Errorf("explanation unavailable")
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&addr, "addr", os.Getenv("EXPLAINER_ADDR"), "explanation sidecar address")
	cmd.Flags().StringVar(&model, "model", "gemini-2.5-flash", "Gemini model")
	cmd.Flags().DurationVar(&timeout, "timeout", explain.DefaultTimeout, "explanation timeout")
	return cmd
}
