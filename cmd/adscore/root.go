package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"adscore-bot/config"
	"adscore-bot/internal/container"
	"adscore-bot/internal/infrastructure/docparse"
	"adscore-bot/internal/infrastructure/logging"
)

// version is set at build time via -ldflags.
var version = "dev"

// globalFlags общие флаги всех команд
type globalFlags struct {
	seed     uint64
	industry string
	tuning   string
	jsonOut  bool
	logLevel string
}

func newRootCmd() *cobra.Command {
	flags := &globalFlags{}

	root := &cobra.Command{
		Use:   "adscore",
		Short: "Predict ad creative performance before launch",
		Long: "adscore extracts colour palettes, simulates viewer attention, estimates CTR\n" +
			"against industry benchmarks and forecasts A/B tests between creative variants.",
		CompletionOptions: cobra.CompletionOptions{
			HiddenDefaultCmd: true,
		},
		SilenceUsage: true,
	}

	pf := root.PersistentFlags()
	pf.Uint64Var(&flags.seed, "seed", 0, "random seed for palette and Thompson sampling (0 = time based)")
	pf.StringVar(&flags.industry, "industry", "", "industry for CTR benchmarks")
	pf.StringVar(&flags.tuning, "tuning", "", "YAML file with benchmark overrides")
	pf.BoolVar(&flags.jsonOut, "json", false, "print JSON instead of tables")
	pf.StringVar(&flags.logLevel, "log-level", "warn", "log level")

	root.AddCommand(newPaletteCmd(flags))
	root.AddCommand(newScoreCmd(flags))
	root.AddCommand(newABTestCmd(flags))
	root.AddCommand(newCompareCmd(flags))
	root.AddCommand(newServeCmd(flags))
	root.Version = version

	return root
}

// build собирает контейнер из окружения с учётом флагов
func (f *globalFlags) build(cmd *cobra.Command, tweak func(*config.Config)) (*container.Container, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}
	if f.seed != 0 {
		cfg.RandomSeed = f.seed
	}
	if f.industry != "" {
		cfg.DefaultIndustry = f.industry
	}
	if f.tuning != "" {
		cfg.TuningFile = f.tuning
	}
	if tweak != nil {
		tweak(cfg)
	}

	log := logging.New(logging.Options{Level: f.logLevel, Output: cmd.ErrOrStderr()})
	return container.New(cfg, log, container.Deps{})
}

// print выводит отчёт таблицей или JSON
func (f *globalFlags) print(cmd *cobra.Command, v any, table func() string) error {
	if !f.jsonOut {
		_, err := fmt.Fprint(cmd.OutOrStdout(), table())
		return err
	}
	data, err := docparse.MarshalIndent(v)
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(cmd.OutOrStdout(), string(data))
	return err
}

func readInput(path string) ([]byte, error) {
	if path == "-" {
		return readAll(os.Stdin)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	return data, nil
}
