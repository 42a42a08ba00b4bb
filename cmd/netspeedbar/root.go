package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/shini4i/netspeedbar/internal/config"
	"github.com/shini4i/netspeedbar/internal/engine"
	"github.com/shini4i/netspeedbar/internal/logging"
	"github.com/shini4i/netspeedbar/internal/stats"
)

// version is overridden at build time with -ldflags "-X main.version=...".
var version = "dev"

// globalFlags are shared by every subcommand.
type globalFlags struct {
	configPath string
	debug      bool
}

func newRootCmd() *cobra.Command {
	var global globalFlags
	// Flag values land here and only override the file when set explicitly.
	overrides := config.DefaultConfig()

	cmd := &cobra.Command{
		Use:   "netspeedbar",
		Short: "Print an animated network speed indicator for status bars",
		Long: `netspeedbar samples the byte counters of all network interfaces and prints
one status line per frame with the current upload and download speed.

With --animatedicons the icons cycle at a rate that grows with throughput,
and the frame delay adapts so the animation stays smooth.`,
		Version:       version,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			if global.debug {
				logging.Setup(logging.LevelDebug)
			}
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := resolveConfig(cmd, &global, overrides)
			if err != nil {
				return err
			}

			source := stats.NewSysfsSource(
				stats.WithInterfaces(cfg.Interfaces...),
				stats.WithLoopback(cfg.IncludeLoopback),
			)
			eng, err := engine.New(engine.Options{
				Config: cfg,
				Source: source,
				Output: cmd.OutOrStdout(),
			})
			if err != nil {
				return err
			}
			return eng.Run(cmd.Context())
		},
	}

	pf := cmd.PersistentFlags()
	pf.StringVar(&global.configPath, "config", "", "Path to the configuration file (default: XDG config dir)")
	pf.BoolVar(&global.debug, "debug", false, "Enable debug logging on stderr")

	f := cmd.Flags()
	f.Uint32VarP(&overrides.NRefresh, "nrefresh", "n", overrides.NRefresh, "Number of refreshes between information updates")
	f.Uint64VarP(&overrides.RefreshIntervalMs, "refreshinterval", "r", overrides.RefreshIntervalMs, "Interval between refreshes (ms)")
	f.BoolVarP(&overrides.CombineIcons, "combineicons", "c", overrides.CombineIcons, "Combine static and animated icons")
	f.BoolVarP(&overrides.AnimatedIcons, "animatedicons", "a", overrides.AnimatedIcons, "Enable animated icons")
	f.Float64Var(&overrides.SpeedMultiplierLin, "speed-multiplier-lin", overrides.SpeedMultiplierLin,
		"Animation speed, a in a*x+b*log10(x+1) (dominates at high speeds)")
	f.Float64Var(&overrides.SpeedMultiplierLog10, "speed-multiplier-log10", overrides.SpeedMultiplierLog10,
		"Animation speed, b in a*x+b*log10(x+1) (dominates at low speeds)")
	f.StringVar(&overrides.AnimatedIconList, "animatediconlist", overrides.AnimatedIconList,
		"Animated icon list (download order); must not be empty, needs at least two glyphs with --animatedicons")
	f.Uint64VarP(&overrides.BinSize, "binsize", "b", overrides.BinSize, "Size of bins for the dynamic icons in bytes (reserved)")
	f.StringVarP(&overrides.UpIcon, "upicon", "u", overrides.UpIcon, "Static up icon")
	f.StringVarP(&overrides.DownIcon, "downicon", "d", overrides.DownIcon, "Static down icon")
	f.StringSliceVarP(&overrides.Interfaces, "interface", "i", nil, "Only count these interfaces (repeatable)")
	f.BoolVar(&overrides.IncludeLoopback, "include-loopback", overrides.IncludeLoopback, "Count loopback traffic")

	cmd.AddCommand(newConfigCmd(&global), newVersionCmd())
	return cmd
}

// configFilePath returns the explicit --config path or the XDG default.
func configFilePath(global *globalFlags) (string, error) {
	if global.configPath != "" {
		return global.configPath, nil
	}
	paths, err := config.GetPaths()
	if err != nil {
		return "", fmt.Errorf("failed to get config paths: %w", err)
	}
	return paths.ConfigFile, nil
}

// resolveConfig merges defaults, the configuration file and explicitly set
// flags, in that order, and validates the result.
func resolveConfig(cmd *cobra.Command, global *globalFlags, overrides *config.Config) (*config.Config, error) {
	path, err := configFilePath(global)
	if err != nil {
		return nil, err
	}

	if global.configPath != "" {
		if _, err := os.Stat(path); errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("config file %s does not exist", path)
		}
	}

	cfg, err := config.Load(path)
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	flags := cmd.Flags()
	set := func(name string, apply func()) {
		if flags.Changed(name) {
			apply()
		}
	}
	set("nrefresh", func() { cfg.NRefresh = overrides.NRefresh })
	set("refreshinterval", func() { cfg.RefreshIntervalMs = overrides.RefreshIntervalMs })
	set("combineicons", func() { cfg.CombineIcons = overrides.CombineIcons })
	set("animatedicons", func() { cfg.AnimatedIcons = overrides.AnimatedIcons })
	set("speed-multiplier-lin", func() { cfg.SpeedMultiplierLin = overrides.SpeedMultiplierLin })
	set("speed-multiplier-log10", func() { cfg.SpeedMultiplierLog10 = overrides.SpeedMultiplierLog10 })
	set("animatediconlist", func() { cfg.AnimatedIconList = overrides.AnimatedIconList })
	set("binsize", func() { cfg.BinSize = overrides.BinSize })
	set("upicon", func() { cfg.UpIcon = overrides.UpIcon })
	set("downicon", func() { cfg.DownIcon = overrides.DownIcon })
	set("interface", func() { cfg.Interfaces = overrides.Interfaces })
	set("include-loopback", func() { cfg.IncludeLoopback = overrides.IncludeLoopback })

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}
