package main

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/chazu/facesvg/pkg/config"
	"github.com/chazu/facesvg/pkg/logging"
	"github.com/chazu/facesvg/pkg/relief"
	"github.com/chazu/facesvg/pkg/version"
)

var (
	configPath   string
	verbose      bool
	unitsFlag    string
	widthFlag    float64
	spacingFlag  float64
	bitFlag      float64
	depthFlag    float64
	reliefFlag   string
	pocketMaxFlg float64
)

var rootCmd = &cobra.Command{
	Use:   "facesvg",
	Short: "Lay out captured faces as Shaper Origin SVG cut profiles",
	Long: `facesvg reads capture scripts describing flat faces (outer loop, holes,
pockets, guides), lays them out on a sheet and writes an SVG document that
Shaper Origin reads as exterior, interior, pocket and guide cuts.`,
	Version:       version.GetFullVersion(),
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		if verbose {
			logging.SetLogger(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelDebug})))
		}
	},
}

func init() {
	pf := rootCmd.PersistentFlags()
	pf.StringVar(&configPath, "config", "", "config file (default ./"+config.DefaultFile+" when present)")
	pf.BoolVarP(&verbose, "verbose", "v", false, "log layout decisions to stderr")
	pf.StringVar(&unitsFlag, "units", config.Inches, "sheet units when no config file sets them (in or mm)")
	pf.Float64Var(&widthFlag, "width", 0, "sheet width")
	pf.Float64Var(&spacingFlag, "spacing", 0, "space between profiles")
	pf.Float64Var(&bitFlag, "bit", 0, "bit diameter")
	pf.Float64Var(&depthFlag, "cut-depth", 0, "default cut depth")
	pf.Float64Var(&pocketMaxFlg, "pocket-max", 0, "depth at which pocket gray saturates")
	pf.StringVar(&reliefFlag, "relief", "", "corner relief: none, symmetric, asymmetric, symmetric-auto")
}

// loadConfig reads the config file, if any, and applies flag overrides.
func loadConfig(cmd *cobra.Command) (config.Config, error) {
	cfg := config.Defaults(unitsFlag)

	file := configPath
	if file == "" {
		if _, err := os.Stat(config.DefaultFile); err == nil {
			file = config.DefaultFile
		}
	}
	if file != "" {
		loaded, err := config.Load(file)
		if err != nil && !(configPath == "" && errors.Is(err, fs.ErrNotExist)) {
			return cfg, err
		}
		if err == nil {
			cfg = loaded
		}
	}
	return applyFlags(cmd, cfg)
}

// applyFlags overrides cfg with every flag set on the command line.
func applyFlags(cmd *cobra.Command, cfg config.Config) (config.Config, error) {
	flags := cmd.Flags()
	if flags.Changed("width") {
		cfg.LayoutWidth = widthFlag
	}
	if flags.Changed("spacing") {
		cfg.LayoutSpacing = spacingFlag
	}
	if flags.Changed("bit") {
		cfg.BitDiameter = bitFlag
	}
	if flags.Changed("cut-depth") {
		cfg.CutDepth = depthFlag
	}
	if flags.Changed("pocket-max") {
		cfg.PocketMax = pocketMaxFlg
	}
	if flags.Changed("relief") {
		m, err := relief.ParseMode(reliefFlag)
		if err != nil {
			return cfg, err
		}
		cfg.CornerRelief = m
	}
	return cfg, cfg.Validate()
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
