// Command barbearia is the terminal client for the barbershop backend:
// notification watching, realtime chat, dashboard metrics and price
// management against a remote server.
package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/rfmelo/barbearia-client/internal/api"
	"github.com/rfmelo/barbearia-client/internal/auth"
	"github.com/rfmelo/barbearia-client/internal/config"
	"github.com/rfmelo/barbearia-client/pkg/observability"
)

var (
	cfgFile   string
	debugAddr string

	cfg            *config.Config
	logger         *observability.Logger
	authStore      = auth.NewStore()
	tracerShutdown func(context.Context) error
)

var rootCmd = &cobra.Command{
	Use:           "barbearia",
	Short:         "Terminal client for the barbershop scheduling and messaging server",
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		var err error
		cfg, err = config.Load(cfgFile)
		if err != nil {
			return fmt.Errorf("load config: %w", err)
		}

		logger = observability.NewLoggerWithOptions(
			"barbearia",
			os.Stderr,
			observability.ParseLevel(cfg.Log.Level),
			cfg.Log.Format == "text",
		)

		tracerShutdown, err = observability.InitTracer(cmd.Context(), observability.TracerConfig{
			ServiceName:    "barbearia-client",
			ServiceVersion: version,
			Endpoint:       cfg.Telemetry.OTLPEndpoint,
		})
		if err != nil {
			// Tracing is best-effort; the client works without a collector.
			logger.Warn("tracer init failed", "error", err)
			tracerShutdown = nil
		}

		if debugAddr != "" {
			cfg.Telemetry.DebugAddr = debugAddr
		}
		if cfg.Telemetry.DebugAddr != "" {
			startDebugListener(cfg.Telemetry.DebugAddr)
		}
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if tracerShutdown != nil {
			_ = tracerShutdown(cmd.Context())
		}
	},
}

const version = "1.2.0"

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is $HOME/.barbearia.yaml)")
	rootCmd.PersistentFlags().StringVar(&debugAddr, "debug-addr", "", "serve /metrics and /healthz on this address")
}

// newAPIClient builds a client resuming the stored session, if any.
func newAPIClient() *api.Client {
	opts := []api.Option{
		api.WithTimeout(cfg.Server.Timeout),
		api.WithLogger(logger),
	}
	if token, err := authStore.Token(); err == nil {
		opts = append(opts, api.WithSessionToken(token))
	}
	return api.NewClient(cfg.Server.BaseURL, opts...)
}

// currentSession parses the stored token; nil when logged out.
func currentSession() *auth.Session {
	token, err := authStore.Token()
	if err != nil {
		return nil
	}
	sess, err := auth.ParseSession(token)
	if err != nil {
		logger.Warn("stored session token unreadable", "error", err)
		return nil
	}
	return sess
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
