package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"runtime/debug"

	"github.com/spf13/cobra"

	"github.com/okarvonen/vaesto/internal/config"
	"github.com/okarvonen/vaesto/internal/domain"
	"github.com/okarvonen/vaesto/internal/output"
	"github.com/okarvonen/vaesto/internal/refdata"
	"github.com/okarvonen/vaesto/internal/sim"
	"github.com/okarvonen/vaesto/internal/spending"
)

var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

var (
	flagStartYear     int
	flagEndYear       int
	flagScenarioFile  string
	flagFormat        string
	flagLegacy        bool
	flagCompare       bool
	flagValidateSteps bool
	flagWithSpending  bool
	flagDataFile      string
	flagDataURL       string
	flagVerbose       bool
)

var rootCmd = &cobra.Command{
	Use:   "vaesto",
	Short: "Population and public finance projection CLI",
	Long:  "Deterministic country-level projection of demographics, immigration, public finances and debt",
}

func newLogger() *slog.Logger {
	level := slog.LevelWarn
	if flagVerbose {
		level = slog.LevelInfo
	}
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
}

// loadStore builds and loads the reference store from the default dataset,
// a local file, or a URL.
func loadStore(ctx context.Context, logger *slog.Logger) (*refdata.Store, error) {
	store := refdata.NewStore(logger)
	switch {
	case flagDataFile != "":
		return store, store.LoadFromFile(ctx, flagDataFile)
	case flagDataURL != "":
		return store, store.LoadFromURL(ctx, flagDataURL)
	default:
		return store, store.Load(ctx)
	}
}

// attachSpending wires a spending projector for the scenario. The baseline
// context comes from the reference base year, not the run's first year: the
// projector anchors its ratio factors there, so a run starting decades
// earlier must not feed it an older population structure.
func attachSpending(engine *sim.Engine, scenario *domain.Scenario) error {
	base, err := engine.InitializeState(engine.Ref.BaseYear(), sim.InitOptions{}, scenario)
	if err != nil {
		return err
	}
	projector, err := spending.NewProjector(engine.Ref, spending.BaselineFromState(base), scenario.Spending)
	if err != nil {
		return err
	}
	engine.AttachSpendingProjector(projector)
	return nil
}

var simulateCmd = &cobra.Command{
	Use:   "simulate",
	Short: "Run one or more projection scenarios",
	RunE: func(cmd *cobra.Command, args []string) error {
		logger := newLogger()
		ctx := cmd.Context()

		cfg, err := loadRunConfig(cmd)
		if err != nil {
			return err
		}

		store, err := loadStore(ctx, logger)
		if err != nil {
			return err
		}
		engine, err := sim.NewEngine(store, logger)
		if err != nil {
			return err
		}

		// With spending enabled each scenario gets its own projector, so
		// the runs happen one by one instead of through CompareScenarios.
		runs := make([]*domain.RunResult, 0, len(cfg.Scenarios))
		for _, scenario := range cfg.Scenarios {
			if flagWithSpending {
				if err := attachSpending(engine, scenario); err != nil {
					return err
				}
			}
			engine.Fiscal.ClearCache()
			run, err := engine.SimulateRange(cfg.StartYear, cfg.EndYear, scenario, cfg.ValidateSteps)
			if err != nil {
				return err
			}
			runs = append(runs, run)
		}

		if flagCompare || (len(runs) > 1 && (flagFormat == "console" || flagFormat == "table")) {
			fmt.Fprint(cmd.OutOrStdout(), output.FormatComparison(runs))
			fmt.Fprintln(cmd.OutOrStdout())
			if flagCompare {
				return nil
			}
		}

		for _, run := range runs {
			var rendered []byte
			if flagLegacy && flagFormat == "json" {
				rendered, err = output.LegacyJSON(run.Scenario, sim.ToLegacyTimeline(run), true)
			} else {
				var formatter output.Formatter
				formatter, err = output.ForFormat(flagFormat)
				if err == nil {
					rendered, err = formatter.Format(run)
				}
			}
			if err != nil {
				return err
			}
			if _, err := cmd.OutOrStdout().Write(rendered); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout())
		}
		return nil
	},
}

// loadRunConfig builds the run configuration from the scenario file or,
// without one, from the baseline scenario and the year flags. The year flags
// have non-zero defaults, so only flags the user actually set override the
// file's own range.
func loadRunConfig(cmd *cobra.Command) (*config.RunConfig, error) {
	if flagScenarioFile == "" {
		return &config.RunConfig{
			StartYear:     flagStartYear,
			EndYear:       flagEndYear,
			ValidateSteps: flagValidateSteps,
			Scenarios:     []*domain.Scenario{refdata.BaselineScenario()},
		}, nil
	}
	parser := config.NewInputParser()
	cfg, err := parser.LoadFromFile(flagScenarioFile)
	if err != nil {
		return nil, err
	}
	if cmd.Flags().Changed("start") {
		cfg.StartYear = flagStartYear
	}
	if cmd.Flags().Changed("end") {
		cfg.EndYear = flagEndYear
	}
	if flagValidateSteps {
		cfg.ValidateSteps = true
	}
	return cfg, nil
}

var validateCmd = &cobra.Command{
	Use:   "validate [scenario-file]",
	Short: "Validate a scenario file and smoke-test one simulated year",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		parser := config.NewInputParser()
		cfg, err := parser.LoadFromFile(args[0])
		if err != nil {
			return err
		}

		logger := newLogger()
		store, err := loadStore(cmd.Context(), logger)
		if err != nil {
			return err
		}
		engine, err := sim.NewEngine(store, logger)
		if err != nil {
			return err
		}

		// One advanced year per scenario catches data problems that static
		// validation cannot see.
		for _, scenario := range cfg.Scenarios {
			state, err := engine.InitializeState(cfg.StartYear-1, sim.InitOptions{}, scenario)
			if err != nil {
				return fmt.Errorf("scenario %q: %w", scenario.Name, err)
			}
			next, result, err := engine.AdvanceYear(state, scenario)
			if err != nil {
				return fmt.Errorf("scenario %q: %w", scenario.Name, err)
			}
			check := sim.ValidateState(next)
			check.Merge(sim.ValidateYearResult(nil, result))
			if !check.Valid {
				return fmt.Errorf("scenario %q failed the smoke year: %v", scenario.Name, check.Errors)
			}
			for _, w := range check.Warnings {
				fmt.Fprintf(cmd.OutOrStdout(), "%s: warning: %s\n", scenario.Name, w)
			}
		}

		fmt.Fprintf(cmd.OutOrStdout(), "%s: %d scenario(s), years %d-%d, ok\n",
			args[0], len(cfg.Scenarios), cfg.StartYear, cfg.EndYear)
		return nil
	},
}

func versionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "vaesto %s (commit %s, built %s)\n", version, commit, date)
			if bi, ok := debug.ReadBuildInfo(); ok && bi != nil {
				fmt.Fprintln(cmd.OutOrStdout(), bi.Main.Path, bi.GoVersion)
			}
		},
	}
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&flagVerbose, "verbose", "v", false, "enable info-level logging")
	rootCmd.PersistentFlags().StringVar(&flagDataFile, "data-file", "", "load reference data from a JSON file")
	rootCmd.PersistentFlags().StringVar(&flagDataURL, "data-url", "", "load reference data from a URL")

	simulateCmd.Flags().IntVar(&flagStartYear, "start", 1990, "first projected year")
	simulateCmd.Flags().IntVar(&flagEndYear, "end", 2060, "last projected year")
	simulateCmd.Flags().StringVarP(&flagScenarioFile, "scenarios", "s", "", "scenario YAML file")
	simulateCmd.Flags().StringVarP(&flagFormat, "format", "f", "console", "output format: console, csv, json")
	simulateCmd.Flags().BoolVar(&flagLegacy, "legacy", false, "emit the flat legacy JSON timeline")
	simulateCmd.Flags().BoolVar(&flagCompare, "compare", false, "print only the scenario comparison table")
	simulateCmd.Flags().BoolVar(&flagValidateSteps, "validate-steps", false, "validate every year's state and result")
	simulateCmd.Flags().BoolVar(&flagWithSpending, "spending", false, "attach the functional spending projection")

	rootCmd.AddCommand(simulateCmd)
	rootCmd.AddCommand(validateCmd)
	rootCmd.AddCommand(versionCmd())
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}
