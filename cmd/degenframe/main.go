package main

import (
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/MarkoPoloResearchLab/degenframe/internal/frameapi"
	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

const (
	flagListenAddr      = "listen-addr"
	flagPublicURL       = "public-url"
	flagDegenBaseURL    = "degen-base-url"
	flagHubURL          = "hub-url"
	flagValidationMode  = "validation-mode"
	flagStateSigningKey = "state-signing-key"
	flagUpstreamTimeout = "upstream-timeout"
	flagAllowedOrigins  = "allowed-origins"
	flagOTelEndpoint    = "otel-endpoint"
	flagEnvFile         = "env-file"
	envPrefix           = "DEGENFRAME"
	envPublicURL        = "DEGENFRAME_PUBLIC_URL"
	envLegacyPublicHost = "NEXT_PUBLIC_HOST"
)

func main() {
	rootCmd := newRootCommand()
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "degenframe: %v\n", err)
		os.Exit(1)
	}
}

func newRootCommand() *cobra.Command {
	cfg := frameapi.Config{}
	cmd := &cobra.Command{
		Use:           "degenframe",
		Short:         "Farcaster frame showing $DEGEN tip allowance and airdrop points",
		SilenceUsage:  true,
		SilenceErrors: true,
		PreRunE: func(cmd *cobra.Command, args []string) error {
			return loadConfig(cmd, &cfg)
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()
			return frameapi.Run(ctx, cfg)
		},
	}

	cmd.Flags().String(flagListenAddr, ":3000", "HTTP listen address")
	cmd.Flags().String(flagPublicURL, "", "public base URL used in post_url and image links (falls back to NEXT_PUBLIC_HOST)")
	cmd.Flags().String(flagDegenBaseURL, "https://www.degen.tips", "degen.tips API origin")
	cmd.Flags().String(flagHubURL, "https://nemes.farcaster.xyz:2281", "Farcaster hub HTTP API used to validate frame actions")
	cmd.Flags().String(flagValidationMode, frameapi.ValidationModeHub, "frame action validation: hub or insecure")
	cmd.Flags().String(flagStateSigningKey, "", "HMAC key for signed frame state; unsigned JSON state when empty")
	cmd.Flags().Duration(flagUpstreamTimeout, 0, "timeout for each upstream call (0 disables)")
	cmd.Flags().String(flagAllowedOrigins, "*", "comma-separated list of allowed CORS origins")
	cmd.Flags().String(flagOTelEndpoint, "", "OTLP/HTTP trace endpoint (tracing disabled when empty)")
	cmd.Flags().String(flagEnvFile, "", "optional .env file loaded before reading the environment")

	return cmd
}

func loadConfig(cmd *cobra.Command, cfg *frameapi.Config) error {
	envFile, err := cmd.Flags().GetString(flagEnvFile)
	if err != nil {
		return err
	}
	if strings.TrimSpace(envFile) != "" {
		if err := godotenv.Load(envFile); err != nil {
			return fmt.Errorf("load %s: %w", envFile, err)
		}
	}

	v := viper.New()
	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()
	if err := v.BindEnv(flagPublicURL, envPublicURL, envLegacyPublicHost); err != nil {
		return err
	}

	for _, flagName := range []string{flagListenAddr, flagPublicURL, flagDegenBaseURL, flagHubURL, flagValidationMode, flagStateSigningKey, flagUpstreamTimeout, flagAllowedOrigins, flagOTelEndpoint} {
		if err := v.BindPFlag(flagName, cmd.Flags().Lookup(flagName)); err != nil {
			return err
		}
	}

	cfg.ListenAddr = strings.TrimSpace(v.GetString(flagListenAddr))
	cfg.PublicURL = strings.TrimSpace(v.GetString(flagPublicURL))
	cfg.DegenBaseURL = strings.TrimSpace(v.GetString(flagDegenBaseURL))
	cfg.HubURL = strings.TrimSpace(v.GetString(flagHubURL))
	cfg.ValidationMode = strings.TrimSpace(v.GetString(flagValidationMode))
	cfg.StateSigningKey = v.GetString(flagStateSigningKey)
	cfg.UpstreamTimeout = v.GetDuration(flagUpstreamTimeout)
	cfg.AllowedOrigins = frameapi.ParseAllowedOrigins(v.GetString(flagAllowedOrigins))
	cfg.OTelEndpoint = strings.TrimSpace(v.GetString(flagOTelEndpoint))

	return cfg.Validate()
}
