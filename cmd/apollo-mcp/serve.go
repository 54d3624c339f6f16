package main

import (
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/Spantree/apollo-io-mcp-server/apollo"
	"github.com/Spantree/apollo-io-mcp-server/internal/logutil"
	"github.com/Spantree/apollo-io-mcp-server/mcptools"
	"github.com/Spantree/apollo-io-mcp-server/ratelimit"
)

func newServeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve MCP tools over stdio",
		RunE: func(cmd *cobra.Command, args []string) error {
			logger, err := logutil.LoggerFromViper()
			if err != nil {
				return err
			}
			slog.SetDefault(logger)

			apiKey := resolveAPIKey()
			if apiKey == "" {
				return fmt.Errorf("missing Apollo API key (set --api-key, %s_API_KEY, APOLLO_API_KEY, or APOLLO_IO_API_KEY)", envPrefix)
			}

			limiter := ratelimit.New(rateLimitConfigFromViper())
			client := apollo.NewClient(apollo.ClientConfig{
				APIKey:  apiKey,
				BaseURL: viper.GetString("base_url"),
				Limiter: limiter,
				Logger:  logger,
			})

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			server := mcptools.New(mcptools.Deps{
				Client:  client,
				Logger:  logger,
				Version: version,
			})
			return server.Run(ctx)
		},
	}

	cmd.Flags().String("api-key", "", "Apollo API key (some tools need a master key).")
	cmd.Flags().String("base-url", apollo.DefaultBaseURL, "Apollo API base URL.")
	cmd.Flags().Bool("rate-limit-enabled", true, "Suspend requests that would exceed the local rate ceilings.")
	cmd.Flags().Int("rate-limit-per-minute", 200, "Standard request ceiling per minute.")
	cmd.Flags().Int("rate-limit-per-hour", 600, "Standard request ceiling per hour.")
	cmd.Flags().Int("rate-limit-per-day", 6000, "Standard request ceiling per day.")
	cmd.Flags().Int("bulk-rate-limit-per-minute", 20, "Bulk request ceiling per minute.")
	cmd.Flags().Int("bulk-rate-limit-per-hour", 100, "Bulk request ceiling per hour.")
	cmd.Flags().Int("bulk-rate-limit-per-day", 600, "Bulk request ceiling per day.")

	_ = viper.BindPFlag("api_key", cmd.Flags().Lookup("api-key"))
	_ = viper.BindPFlag("base_url", cmd.Flags().Lookup("base-url"))
	_ = viper.BindPFlag("rate_limit.enabled", cmd.Flags().Lookup("rate-limit-enabled"))
	_ = viper.BindPFlag("rate_limit.per_minute", cmd.Flags().Lookup("rate-limit-per-minute"))
	_ = viper.BindPFlag("rate_limit.per_hour", cmd.Flags().Lookup("rate-limit-per-hour"))
	_ = viper.BindPFlag("rate_limit.per_day", cmd.Flags().Lookup("rate-limit-per-day"))
	_ = viper.BindPFlag("rate_limit.bulk_per_minute", cmd.Flags().Lookup("bulk-rate-limit-per-minute"))
	_ = viper.BindPFlag("rate_limit.bulk_per_hour", cmd.Flags().Lookup("bulk-rate-limit-per-hour"))
	_ = viper.BindPFlag("rate_limit.bulk_per_day", cmd.Flags().Lookup("bulk-rate-limit-per-day"))

	return cmd
}

// resolveAPIKey checks the flag/config key first, then the plain env
// names commonly used in Apollo setups.
func resolveAPIKey() string {
	if key := strings.TrimSpace(viper.GetString("api_key")); key != "" {
		return key
	}
	for _, name := range []string{"APOLLO_API_KEY", "APOLLO_IO_API_KEY"} {
		if key := strings.TrimSpace(os.Getenv(name)); key != "" {
			return key
		}
	}
	return ""
}

func rateLimitConfigFromViper() ratelimit.Config {
	cfg := ratelimit.DefaultConfig()
	cfg.Enabled = viper.GetBool("rate_limit.enabled")
	if v := viper.GetInt("rate_limit.per_minute"); v > 0 {
		cfg.StandardPerMinute = v
	}
	if v := viper.GetInt("rate_limit.per_hour"); v > 0 {
		cfg.StandardPerHour = v
	}
	if v := viper.GetInt("rate_limit.per_day"); v > 0 {
		cfg.StandardPerDay = v
	}
	if v := viper.GetInt("rate_limit.bulk_per_minute"); v > 0 {
		cfg.BulkPerMinute = v
	}
	if v := viper.GetInt("rate_limit.bulk_per_hour"); v > 0 {
		cfg.BulkPerHour = v
	}
	if v := viper.GetInt("rate_limit.bulk_per_day"); v > 0 {
		cfg.BulkPerDay = v
	}
	return cfg
}
