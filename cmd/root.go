package cmd

import (
	"fmt"
	"os"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/guimove/loadoutfit/internal/config"
	"github.com/guimove/loadoutfit/internal/logging"
)

var (
	cfgFile string
	cfg     config.Config
	verbose bool
)

var rootCmd = &cobra.Command{
	Use:   "loadoutfit",
	Short: "Price-efficient equipment loadout optimizer",
	Long: `loadoutfit searches every way to fill a ship's or character's equipment
slots from a catalog of modules and market listings, and recommends the
combinations that give the most benefit for the price.

Combinations are ranked by how close they come to the best benefit any
loadout can reach at the same price, within capacity (CPU, power) limits
and a price range.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		return loadConfig()
	},
}

// Execute runs the root command.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default: loadoutfit.yaml)")
	rootCmd.PersistentFlags().BoolVar(&verbose, "verbose", false, "enable debug logging")

	// Global flags that map to config
	rootCmd.PersistentFlags().String("catalog", "", "catalog file (YAML or JSON)")
	rootCmd.PersistentFlags().String("catalog-url", "", "fetch the catalog from this URL instead of a file")
	rootCmd.PersistentFlags().String("log-level", "", "log level: debug, info, warn, error")
	rootCmd.PersistentFlags().String("log-format", "", "log format: console, json")

	_ = viper.BindPFlag("catalog.path", rootCmd.PersistentFlags().Lookup("catalog"))
	_ = viper.BindPFlag("catalog.url", rootCmd.PersistentFlags().Lookup("catalog-url"))
	_ = viper.BindPFlag("logging.level", rootCmd.PersistentFlags().Lookup("log-level"))
	_ = viper.BindPFlag("logging.format", rootCmd.PersistentFlags().Lookup("log-format"))
}

// bindFlag binds a command-local flag to a config key.
func bindFlag(c *cobra.Command, key, flag string) error {
	return viper.BindPFlag(key, c.Flags().Lookup(flag))
}

func loadConfig() error {
	// Start with defaults. Bound flags that were not set report "", so
	// their keys need explicit defaults to rank above the flag value.
	cfg = config.Default()
	viper.SetDefault("catalog.path", cfg.Catalog.Path)
	viper.SetDefault("catalog.url", cfg.Catalog.URL)
	viper.SetDefault("logging.level", cfg.Logging.Level)
	viper.SetDefault("logging.format", cfg.Logging.Format)
	viper.SetDefault("server.addr", cfg.Server.Addr)
	viper.SetDefault("server.max_concurrent", cfg.Server.MaxConcurrent)
	viper.SetDefault("server.request_timeout", cfg.Server.RequestTimeout)

	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.SetConfigName("loadoutfit")
		viper.SetConfigType("yaml")
		viper.AddConfigPath(".")
		viper.AddConfigPath("$HOME/.loadoutfit")
	}

	// Environment variable overrides
	viper.SetEnvPrefix("LOADOUTFIT")
	viper.AutomaticEnv()

	// Read config file (not an error if missing)
	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok && cfgFile != "" {
			return fmt.Errorf("reading config file: %w", err)
		}
	}

	// Unmarshal into config struct
	if err := viper.Unmarshal(&cfg); err != nil {
		return fmt.Errorf("parsing config: %w", err)
	}

	if verbose {
		cfg.Logging.Level = "debug"
	}

	return cfg.Validate()
}

// newLogger builds a component logger from the logging config.
func newLogger(component string) zerolog.Logger {
	return logging.New(component, logging.Options{
		Level:  cfg.Logging.Level,
		Format: cfg.Logging.Format,
	})
}
