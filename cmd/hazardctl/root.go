package main

import (
	"log/slog"
	"time"

	"github.com/spf13/cobra"

	"github.com/couchcryptid/hazard-verify-service/internal/adapter/reportstore"
	"github.com/couchcryptid/hazard-verify-service/internal/adapter/zeroshot"
	"github.com/couchcryptid/hazard-verify-service/internal/domain"
	"github.com/couchcryptid/hazard-verify-service/internal/observability"
	"github.com/couchcryptid/hazard-verify-service/internal/pipeline"
)

// version is set at build time via -ldflags.
var version = "dev"

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "hazardctl",
		Short: "Operate on ocean-hazard report histories",
		Long: "hazardctl verifies hazard reports against a report history file,\n" +
			"summarizes corroboration per (type, pincode), and writes fixtures.",
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
		CompletionOptions: cobra.CompletionOptions{
			HiddenDefaultCmd: true,
		},
	}
	root.PersistentFlags().String("log-level", "warn", "diagnostics level on stderr (debug, info, warn, error)")

	root.AddCommand(newVerifyCmd())
	root.AddCommand(newAggregateCmd())
	root.AddCommand(newGenmockCmd())
	return root
}

// cliLogger writes text diagnostics to stderr so stdout stays machine-readable.
func cliLogger(cmd *cobra.Command) *slog.Logger {
	level, _ := cmd.Flags().GetString("log-level")
	var lvl slog.Level
	if err := lvl.UnmarshalText([]byte(level)); err != nil {
		lvl = slog.LevelWarn
	}
	return slog.New(slog.NewTextHandler(cmd.ErrOrStderr(), &slog.HandlerOptions{Level: lvl}))
}

// classifierFlags configure an optional remote classifier for one-shot runs.
type classifierFlags struct {
	url     string
	token   string
	timeout time.Duration
}

func (f *classifierFlags) register(cmd *cobra.Command) {
	fl := cmd.Flags()
	fl.StringVar(&f.url, "classifier-url", "", "zero-shot classification endpoint (disabled when empty)")
	fl.StringVar(&f.token, "classifier-token", "", "bearer token for the classification endpoint")
	fl.DurationVar(&f.timeout, "classifier-timeout", 5*time.Second, "classification timeout")
}

func newLocalVerifier(cmd *cobra.Command, historyPath string, policy domain.FusionPolicy, cf classifierFlags) *pipeline.Verifier {
	logger := cliLogger(cmd)
	metrics := observability.NewUnregisteredMetrics()

	var classifier domain.Classifier
	if cf.url != "" {
		classifier = zeroshot.NewClient(cf.url, cf.token, cf.timeout, logger, metrics)
	}

	store := reportstore.NewFileStore(historyPath, logger, metrics)
	return pipeline.NewVerifier(store, classifier, policy, cf.timeout, logger, metrics).WithSource(pipeline.SourceCLI)
}
