package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"math"
	"os"
	"os/signal"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/leofalp/mathagent/agent"
	"github.com/leofalp/mathagent/internal/config"
	"github.com/leofalp/mathagent/internal/console"
	"github.com/leofalp/mathagent/providers/ai/gemini"
	"github.com/leofalp/mathagent/providers/ai/middleware"
	"github.com/leofalp/mathagent/providers/observability"
	"github.com/leofalp/mathagent/providers/observability/slogobs"
	"github.com/leofalp/mathagent/providers/tool"
	"github.com/leofalp/mathagent/providers/tool/calculator"
)

var version = "0.1.0"

const (
	appName      = "ToolEnabledApp"
	defaultQuery = "Multiply 15.5 by 4 and then tell me the result."
)

// errReported marks errors already shown to the user.
var errReported = errors.New("reported")

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := newRootCmd().ExecuteContext(ctx); err != nil {
		if !errors.Is(err, errReported) {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		}
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var envFiles []string

	rootCmd := &cobra.Command{
		Use:   "mathagent",
		Short: "A Gemini math assistant backed by a calculator tool",
		Long: `mathagent runs the MathAssistant agent, which answers arithmetic questions
by calling the basic_calculator tool instead of computing on its own.

Configuration is read from .env and the environment:
  GOOGLE__GENAI_USE_VERTEXAI  use Vertex AI instead of the Gemini API
  GOOGLE__API_KEY             API key (required for ask)
  GOOGLE__MODEL               model name (default gemini-2.5-flash)
  MATHAGENT__MAX_ITERATIONS   model round trips per question (default 5)
  MATHAGENT__MAX_RETRIES      retries of transient model failures (default 3)
  MATHAGENT__REQUEST_TIMEOUT  deadline of one model request (default 60s)`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	rootCmd.PersistentFlags().StringSliceVar(&envFiles, "env-file", nil, "dotenv files to load (default .env)")

	rootCmd.AddCommand(
		newAskCmd(&envFiles),
		newCalcCmd(),
		newConfigCmd(&envFiles),
		newVersionCmd(),
	)
	return rootCmd
}

func newAskCmd(envFiles *[]string) *cobra.Command {
	var (
		model     string
		userID    string
		sessionID string
	)

	cmd := &cobra.Command{
		Use:   "ask [query]",
		Short: "Ask the math assistant a question",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			query := defaultQuery
			if len(args) == 1 {
				query = args[0]
			}

			cfg, err := config.Load(*envFiles...)
			if err != nil {
				return fmt.Errorf("failed to load config: %w", err)
			}
			if err := cfg.Validate(); err != nil {
				return err
			}
			if model == "" {
				model = cfg.Google.Model
			}

			return ask(cmd.Context(), cmd.OutOrStdout(), cfg, model, userID, sessionID, query)
		},
	}

	cmd.Flags().StringVar(&model, "model", "", "model name (overrides GOOGLE__MODEL)")
	cmd.Flags().StringVar(&userID, "user", "math_user_01", "user ID owning the session")
	cmd.Flags().StringVar(&sessionID, "session", "math_session", "session ID")
	return cmd
}

func ask(ctx context.Context, out io.Writer, cfg *config.Config, model, userID, sessionID, query string) error {
	observer := slogobs.New()
	ctx = observability.ContextWithObserver(ctx, observer)

	geminiProvider, err := gemini.New(ctx,
		gemini.WithAPIKey(cfg.Google.APIKey.Value()),
		gemini.WithVertexAI(cfg.Google.UseVertexAI),
		gemini.WithBaseURL(cfg.Google.BaseURL),
		gemini.WithModel(model),
	)
	if err != nil {
		return err
	}

	middlewares := []middleware.Middleware{middleware.Timeout(cfg.Agent.RequestTimeout)}
	if cfg.Agent.MaxRetries > 0 {
		middlewares = append(middlewares, middleware.Retry(middleware.RetryConfig{
			MaxRetries:    cfg.Agent.MaxRetries,
			RetryableFunc: gemini.IsRetryable,
		}))
	}
	middlewares = append(middlewares, middleware.Logging(observer.Logger(), middleware.LogLevelStandard))
	provider := middleware.Wrap(geminiProvider, middlewares...)

	assistant, err := agent.NewMathAssistant(model)
	if err != nil {
		return err
	}

	sessions := agent.NewInMemorySessionService()
	if _, err := sessions.CreateSession(ctx, appName, userID, sessionID); err != nil {
		return err
	}

	runner := &agent.Runner{
		Agent:          assistant,
		AppName:        appName,
		SessionService: sessions,
		Provider:       provider,
		MaxIterations:  cfg.Agent.MaxIterations,
	}

	printer := console.New(out)
	printer.User(query)

	for event, err := range runner.Run(ctx, userID, sessionID, query) {
		printer.Event(event)
		if err != nil {
			return fmt.Errorf("%w: %w", errReported, err)
		}
	}
	return nil
}

func newCalcCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "calc <a> <b> <operation>",
		Short: "Run the calculator tool directly",
		Long: `calc invokes the basic_calculator tool with the given arguments, the same way
the agent does. Operations: add, subtract, multiply, divide.
Flags are not parsed, so negative operands can be passed as is; -h and
--help as the only argument print this help.`,
		DisableFlagParsing: true,
		Args: func(cmd *cobra.Command, args []string) error {
			if isHelp(args) {
				return nil
			}
			return cobra.ExactArgs(3)(cmd, args)
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			if isHelp(args) {
				return cmd.Help()
			}
			return calc(cmd.Context(), cmd.OutOrStdout(), args[0], args[1], args[2])
		},
	}
}

func isHelp(args []string) bool {
	return len(args) == 1 && (args[0] == "-h" || args[0] == "--help")
}

func calc(ctx context.Context, out io.Writer, a, b, operation string) error {
	payload, err := json.Marshal(map[string]any{
		"a":         operand(a),
		"b":         operand(b),
		"operation": operation,
	})
	if err != nil {
		return err
	}

	printer := console.New(out)
	output, err := calculator.NewCalculatorTool().Call(ctx, string(payload))
	if err != nil {
		if errors.Is(err, tool.ErrInvalidInput) {
			printer.Hallucination(err)
			return fmt.Errorf("%w: %w", errReported, err)
		}
		return err
	}
	printer.Output(output)
	return nil
}

// operand keeps numbers numeric in the payload so the tool sees what a
// model would send. Anything else is passed as a string and rejected by
// the tool.
func operand(s string) any {
	if f, err := strconv.ParseFloat(s, 64); err == nil && !math.IsNaN(f) && !math.IsInf(f, 0) {
		return f
	}
	return s
}

func newConfigCmd(envFiles *[]string) *cobra.Command {
	return &cobra.Command{
		Use:   "config",
		Short: "Show the resolved configuration",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(*envFiles...)
			if err != nil {
				return fmt.Errorf("failed to load config: %w", err)
			}
			fmt.Fprintln(cmd.OutOrStdout(), cfg.String())
			return nil
		},
	}
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Show version information",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "mathagent v%s\n", version)
		},
	}
}
