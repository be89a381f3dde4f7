package cli

import (
	"fmt"
	"os"
	"strings"

	"github.com/ppiankov/neuroloc/internal/model"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"
)

// Version is overridden at build time with -ldflags "-X .../internal/cli.Version=..."
var Version = "v0.1.0"

var (
	cfgFile     string
	verbose     bool
	logLevel    string
	catalogPath string

	cfg    *model.Config
	logger = zap.NewNop()
)

// rootCmd represents the base command
var rootCmd = &cobra.Command{
	Use:   "neuroloc",
	Short: "Neuroloc - neurological finding extraction and lesion localization",
	Long: `Neuroloc scans free clinical text and interview transcripts for
cranial nerve, long tract and cerebellar/sympathetic findings, infers the
brainstem level, and matches the findings against a catalog of classic
brainstem syndromes.

Matching is deterministic keyword detection against a fixed catalog.
Negation and clinical context are not interpreted.

Neuroloc is a teaching aid, not a diagnostic device.`,
	SilenceErrors: true,
	SilenceUsage:  true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		c, err := loadConfig()
		if err != nil {
			return err
		}
		cfg = c

		l, err := newLogger(cfg.Log.Level, cfg.Output.Verbose)
		if err != nil {
			return err
		}
		logger = l

		if f := viper.ConfigFileUsed(); f != "" {
			logger.Debug("using config file", zap.String("path", f))
		}
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		_ = logger.Sync()
	},
}

// Execute runs the root command
func Execute() error {
	return rootCmd.Execute()
}

// versionCmd represents the version command
var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Fprintf(cmd.OutOrStdout(), "neuroloc %s\n", Version)
	},
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default: $HOME/.neuroloc/config.yaml)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output (debug logging)")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "log level (debug, info, warn, error)")
	rootCmd.PersistentFlags().StringVar(&catalogPath, "catalog", "", "knowledge base YAML (default: built-in catalog)")

	_ = viper.BindPFlag("output.verbose", rootCmd.PersistentFlags().Lookup("verbose"))
	_ = viper.BindPFlag("log.level", rootCmd.PersistentFlags().Lookup("log-level"))
	_ = viper.BindPFlag("knowledge.catalog_path", rootCmd.PersistentFlags().Lookup("catalog"))

	setDefaults(model.DefaultConfig())

	rootCmd.AddCommand(versionCmd)
}

// initConfig reads in config file and ENV variables
func initConfig() {
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		home, err := os.UserHomeDir()
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error finding home directory: %v\n", err)
			return
		}

		viper.AddConfigPath(home + "/.neuroloc")
		viper.SetConfigType("yaml")
		viper.SetConfigName("config")
	}

	// NEUROLOC_CACHE_ENABLED=false overrides cache.enabled, and so on
	viper.SetEnvPrefix("NEUROLOC")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err == nil && verbose {
		fmt.Fprintf(os.Stderr, "Using config file: %s\n", viper.ConfigFileUsed())
	}
}

// setDefaults registers every config key so env vars and Unmarshal see it
func setDefaults(d *model.Config) {
	// flag-bound keys get their defaults from the flag bindings
	viper.SetDefault("cache.enabled", d.Cache.Enabled)
	viper.SetDefault("cache.dir", d.Cache.Dir)
	viper.SetDefault("cache.memory_ttl", d.Cache.MemoryTTL)
	viper.SetDefault("cache.disk_ttl", d.Cache.DiskTTL)
	viper.SetDefault("concurrency.workers", d.Concurrency.Workers)
	viper.SetDefault("rate_limiting.requests_per_second", d.RateLimiting.RequestsPerSecond)
	viper.SetDefault("rate_limiting.burst_size", d.RateLimiting.BurstSize)
	viper.SetDefault("session.idle_ttl", d.Session.IdleTTL)
	viper.SetDefault("output.format", d.Output.Format)
	viper.SetDefault("output.include_footer", d.Output.IncludeFooter)
}

// loadConfig merges defaults, config file, env and flags into a Config
func loadConfig() (*model.Config, error) {
	c := model.DefaultConfig()
	if err := viper.Unmarshal(c); err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}
	if c.Log.Level == "" {
		c.Log.Level = model.DefaultConfig().Log.Level
	}
	return c, nil
}
