package cmd

import (
	"context"
	"log"

	"github.com/pkg/errors"
	"github.com/pkg/profile"
	"github.com/spf13/cobra"

	"github.com/cube2222/typewire/cache"
	"github.com/cube2222/typewire/config"
	"github.com/cube2222/typewire/logs"
)

// environment is what every subcommand runs against, built from the
// configuration file and global flags.
type environment struct {
	config *config.Config
	cache  *cache.Cache
}

var env *environment
var stopProfile func()

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "typewire",
	Short: "Encode, decode and inspect binary type descriptors.",
	Long: `Type descriptors are accepted either as type names, like Array(Nullable(String)),
or as hex of their binary encoding, like 1e2315 or 0x1E 0x23 0x15.`,
	Example: `typewire encode "Map(String, Array(UInt64))"
typewire decode 271515
typewire describe --tree "Tuple(a UInt8, b Nullable(String))"
typewire diff "Array(UInt8)" "Array(UInt16)"`,
	SilenceErrors: true,
	SilenceUsage:  true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Read(configPath)
		if err != nil {
			return errors.Wrap(err, "couldn't read config")
		}
		if cmd.Flags().Changed("max-depth") {
			cfg.MaxDepth = maxDepth
			if err := cfg.Validate(); err != nil {
				return err
			}
		}

		if err := logs.InitializeFileLogger(cfg.LogDirectory); err != nil {
			return errors.Wrap(err, "couldn't initialize logger")
		}

		switch profileMode {
		case "":
		case "cpu":
			stopProfile = profile.Start(profile.CPUProfile, profile.ProfilePath("."), profile.NoShutdownHook).Stop
		case "mem":
			stopProfile = profile.Start(profile.MemProfile, profile.ProfilePath("."), profile.NoShutdownHook).Stop
		default:
			return errors.Errorf("unknown profile '%s', expected cpu or mem", profileMode)
		}

		env, err = newEnvironment(cfg)
		return err
	},
}

// teardown runs after every command, including failed ones.
func teardown() {
	if stopProfile != nil {
		stopProfile()
		stopProfile = nil
	}
	if env != nil {
		env.Close()
		env = nil
	}
	logs.CloseLogger()
}

func newEnvironment(cfg *config.Config) (*environment, error) {
	c, err := cache.New(cfg.Cache, cfg.Decoder())
	if err != nil {
		return nil, err
	}
	return &environment{
		config: cfg,
		cache:  c,
	}, nil
}

func (e *environment) Close() {
	stats := e.cache.Stats()
	log.Printf("descriptor cache: %d hits, %d misses", stats.Hits, stats.Misses)
	e.cache.Close()
}

func Execute(ctx context.Context) {
	err := rootCmd.ExecuteContext(ctx)
	teardown()
	cobra.CheckErr(err)
}

var configPath string
var maxDepth int
var profileMode string

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "Configuration file, ~/.typewire/config.yml by default.")
	rootCmd.PersistentFlags().IntVar(&maxDepth, "max-depth", 0, "Maximum type nesting depth accepted when decoding.")
	rootCmd.PersistentFlags().StringVar(&profileMode, "profile", "", "Write a cpu or mem profile to the working directory.")
}
