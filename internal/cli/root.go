// Package cli is the bacalc command line: one-shot calculators plus the
// long-running serve command.
package cli

import (
	"context"
	"fmt"
	"os"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/xtding233/ba-companion/internal/calc"
	"github.com/xtding233/ba-companion/internal/config"
	"github.com/xtding233/ba-companion/internal/gamedata"
	"github.com/xtding233/ba-companion/internal/logger"
)

// app is the state shared by every subcommand once the root has loaded
// configuration.
type app struct {
	v       *viper.Viper
	cfgFile string
	cfg     *config.Config
	log     zerolog.Logger
	loader  *gamedata.Loader
}

// NewRootCommand builds the command tree.
func NewRootCommand() *cobra.Command {
	a := &app{v: config.NewViper()}

	root := &cobra.Command{
		Use:   "bacalc",
		Short: "Blue Archive resource calculators and banner feed.",
		Long: `bacalc works out the bond EXP, character EXP, books, credits, fragments and
Eligma a student still needs, and lists the recruitment banners currently running.`,
		SilenceUsage: true,
		CompletionOptions: cobra.CompletionOptions{
			DisableDefaultCmd: true,
		},
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.init()
		},
	}

	pf := root.PersistentFlags()
	pf.StringVar(&a.cfgFile, "config", "", "config file (default is $HOME/.bacalc.yaml)")
	pf.StringP("loglevel", "l", "info", "Set log level. Available: debug, info, warn, error")
	pf.String("data-dir", "", "Directory with bond.yaml, character.yaml and promotion.yaml overrides")
	_ = a.v.BindPFlag("log.level", pf.Lookup("loglevel"))
	_ = a.v.BindPFlag("data.dir", pf.Lookup("data-dir"))

	root.AddCommand(
		newBondCommand(a),
		newCharaCommand(a),
		newPromoCommand(a),
		newBannersCommand(a),
		newServeCommand(a),
	)
	return root
}

// Execute runs the root command and exits non-zero on error.
func Execute() {
	if err := NewRootCommand().ExecuteContext(context.Background()); err != nil {
		os.Exit(1)
	}
}

func (a *app) init() error {
	cfg, err := config.Load(a.v, a.cfgFile)
	if err != nil {
		return err
	}
	a.cfg = cfg
	a.log = logger.New(logger.Config{Level: cfg.Log.Level, Pretty: cfg.Log.Pretty})
	logger.SetGlobalLogger(a.log)
	a.loader = gamedata.NewLoader(cfg.Data.Dir)
	a.log.Debug().Str("data_dir", cfg.Data.Dir).Str("feed", cfg.Feed.Source).Msg("Configuration loaded")
	return nil
}

func (a *app) calculator() (*calc.Calculator, error) {
	c, err := a.loader.Calculator()
	if err != nil {
		return nil, fmt.Errorf("load game data: %w", err)
	}
	return c, nil
}

func (a *app) pace() calc.BondPace {
	return calc.BondPace{PatsPerDay: a.cfg.Pace.PatsPerDay, GiftsPerMonth: a.cfg.Pace.GiftsPerMonth}
}
