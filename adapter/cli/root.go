package cli

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/cobra"
)

var (
	verbose    bool
	logger     *slog.Logger
	appFactory AppFactory
)

// AppFactory builds the app on first use.
type AppFactory func(ctx context.Context) (*App, error)

// skipContainerAnnotation marks commands that run without the container.
const skipContainerAnnotation = "responder/skip-container"

type commandContext struct {
	correlationID uuid.UUID
	startedAt     time.Time
}

type commandContextKey struct{}

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "responder",
	Short: "Responder - first responder session coordination",
	Long: `Responder connects first responders in the field with on-call
specialists. It runs the telephony and data join endpoints, tracks
meetings and attendees, and keeps specialist availability current.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if logger == nil {
			logger = slog.Default()
		}
		ctx := cmd.Context()
		if app == nil && appFactory != nil && cmd.Annotations[skipContainerAnnotation] == "" {
			a, err := appFactory(ctx)
			if err != nil {
				return err
			}
			SetApp(a)
		}
		info := commandContext{
			correlationID: uuid.New(),
			startedAt:     time.Now(),
		}
		cmd.SetContext(context.WithValue(ctx, commandContextKey{}, info))
		logger.Debug("command start",
			"command", cmd.CommandPath(),
			"correlation_id", info.correlationID.String(),
		)
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if logger == nil {
			logger = slog.Default()
		}
		info, ok := cmd.Context().Value(commandContextKey{}).(commandContext)
		if !ok {
			return
		}
		logger.Debug("command end",
			"command", cmd.CommandPath(),
			"correlation_id", info.correlationID.String(),
			"duration_ms", time.Since(info.startedAt).Milliseconds(),
		)
	},
}

// Execute runs the root command with ctx and exits non-zero on error. The
// container built for the command is closed before returning.
func Execute(ctx context.Context) {
	err := rootCmd.ExecuteContext(ctx)
	if c := GetApp().Container(); c != nil {
		c.Close()
	}
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")
}

// AddCommand adds a command to the root command.
func AddCommand(cmd *cobra.Command) {
	rootCmd.AddCommand(cmd)
}

// SetAppFactory sets how the app is built for commands that need it.
func SetAppFactory(f AppFactory) {
	appFactory = f
}

// SetLogger sets the CLI logger.
func SetLogger(l *slog.Logger) {
	logger = l
}

// Logger returns the CLI logger.
func Logger() *slog.Logger {
	if logger == nil {
		return slog.Default()
	}
	return logger
}

// Verbose reports whether --verbose was given.
func Verbose() bool {
	return verbose
}
