// Command analyze plays headless AI-vs-AI matches for every rule preset in
// the configs directory and prints how the presets balance out: win rates
// per role, match length, and how often captures, escapes and bonus tiles
// happen.
package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"sort"

	log "github.com/sirupsen/logrus"
	"github.com/urfave/cli/v3"

	"github.com/wricardo/rabbit-chase-game/game/config"
	"github.com/wricardo/rabbit-chase-game/game/engine"
)

type simOptions struct {
	ConfigDir string
	Presets   []string
	Runs      int
	SeedBase  uint64
	MaxTicks  int
}

// runResult is the outcome of one simulated match
type runResult struct {
	Seed    uint64
	Winner  engine.Role
	Stalled bool
	Ticks   int
	Rounds  int
	Events  map[engine.EventType]int
	Scores  map[engine.Role]int
}

// presetReport aggregates every run of one preset
type presetReport struct {
	ConfigID    string
	Name        string
	PlayerCount int
	Threshold   int
	Runs        int
	Wins        map[engine.Role]int
	Stalled     int
	TotalTicks  int
	TotalRounds int
	Events      map[engine.EventType]int
	Roster      []engine.Role
}

func main() {
	cmd := &cli.Command{
		Name:      "analyze",
		Usage:     "simulate AI-only matches for each preset and report the balance",
		ArgsUsage: "[preset ...]",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "config-dir",
				Value:   "configs",
				Usage:   "directory containing rule presets",
				Sources: cli.EnvVars("CONFIG_DIR"),
			},
			&cli.IntFlag{
				Name:  "runs",
				Value: 20,
				Usage: "matches simulated per preset",
			},
			&cli.IntFlag{
				Name:  "seed-base",
				Value: 1,
				Usage: "seed of the first match, incremented per run",
			},
			&cli.IntFlag{
				Name:  "max-ticks",
				Value: 20000,
				Usage: "AI turns after which a match counts as stalled",
			},
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			opts := simOptions{
				ConfigDir: cmd.String("config-dir"),
				Presets:   cmd.Args().Slice(),
				Runs:      int(cmd.Int("runs")),
				SeedBase:  uint64(cmd.Int("seed-base")),
				MaxTicks:  int(cmd.Int("max-ticks")),
			}
			return run(os.Stdout, opts)
		},
	}

	if err := cmd.Run(context.Background(), os.Args); err != nil {
		log.Fatal(err)
	}
}

func run(w io.Writer, opts simOptions) error {
	if opts.Runs <= 0 {
		return fmt.Errorf("--runs must be > 0")
	}
	if opts.MaxTicks <= 0 {
		return fmt.Errorf("--max-ticks must be > 0")
	}
	if opts.SeedBase == 0 {
		// seed 0 means a random match
		opts.SeedBase = 1
	}

	manager, err := config.NewManager(opts.ConfigDir)
	if err != nil {
		return err
	}

	presets := opts.Presets
	if len(presets) == 0 {
		infos, err := manager.ListConfigs()
		if err != nil {
			return err
		}
		for _, info := range infos {
			presets = append(presets, info.ConfigID)
		}
	}
	if len(presets) == 0 {
		return fmt.Errorf("no presets found in %s", opts.ConfigDir)
	}

	fmt.Fprintf(w, "=== Headless Match Report ===\n")
	fmt.Fprintf(w, "runs=%d seed_base=%d max_ticks=%d\n", opts.Runs, opts.SeedBase, opts.MaxTicks)

	for _, id := range presets {
		cfg, err := manager.LoadConfig(id)
		if err != nil {
			log.WithError(err).WithField("preset", id).Warn("skipping preset")
			continue
		}
		report, err := analyzePreset(id, cfg, opts)
		if err != nil {
			log.WithError(err).WithField("preset", id).Warn("simulation failed")
			continue
		}
		printReport(w, report)
	}
	return nil
}

// simulate plays one match with every seat on AI until it is decided or
// maxTicks AI turns have been played.
func simulate(cfg *engine.GameConfig, seed uint64, maxTicks int) (*runResult, error) {
	c := cfg.Clone()
	c.HumanRoles = []engine.Role{}
	c.Seed = seed

	m, err := engine.NewMatch(c)
	if err != nil {
		return nil, err
	}

	res := &runResult{Seed: seed, Events: map[engine.EventType]int{}}
	for res.Ticks < maxTicks && !m.IsMatchOver() {
		fired := m.RunPendingTicks(maxTicks - res.Ticks)
		if fired == 0 {
			break
		}
		res.Ticks += fired
	}

	res.Stalled = !m.IsMatchOver()
	res.Winner = m.Winner()
	res.Scores = m.Scores()
	for _, ev := range m.History() {
		res.Events[ev.Type]++
	}
	res.Rounds = res.Events[engine.EventRPS]
	return res, nil
}

func analyzePreset(id string, cfg *engine.GameConfig, opts simOptions) (*presetReport, error) {
	full := cfg.WithDefaults()
	roster, err := engine.RosterFor(full.PlayerCount)
	if err != nil {
		return nil, err
	}

	report := &presetReport{
		ConfigID:    id,
		Name:        full.Name,
		PlayerCount: full.PlayerCount,
		Threshold:   full.VictoryThreshold,
		Wins:        map[engine.Role]int{},
		Events:      map[engine.EventType]int{},
		Roster:      roster,
	}

	for i := 0; i < opts.Runs; i++ {
		res, err := simulate(cfg, opts.SeedBase+uint64(i), opts.MaxTicks)
		if err != nil {
			return nil, err
		}
		report.Runs++
		report.TotalTicks += res.Ticks
		report.TotalRounds += res.Rounds
		if res.Stalled {
			report.Stalled++
		} else {
			report.Wins[res.Winner]++
		}
		for typ, n := range res.Events {
			report.Events[typ] += n
		}
	}
	return report, nil
}

func printReport(w io.Writer, r *presetReport) {
	fmt.Fprintf(w, "\n=== %s (%s) ===\n", r.ConfigID, r.Name)
	fmt.Fprintf(w, "Players: %d, First to: %d, Runs: %d\n", r.PlayerCount, r.Threshold, r.Runs)

	for _, role := range r.Roster {
		wins := r.Wins[role]
		fmt.Fprintf(w, "  %-12s wins %3d (%5.1f%%)\n", role.Label(), wins, percent(wins, r.Runs))
	}
	if r.Stalled > 0 {
		fmt.Fprintf(w, "⚠️  %d matches did not finish within the tick limit\n", r.Stalled)
	}

	fmt.Fprintf(w, "Average rounds: %.1f, average AI turns: %.1f\n",
		average(r.TotalRounds, r.Runs), average(r.TotalTicks, r.Runs))

	types := make([]string, 0, len(r.Events))
	for typ := range r.Events {
		types = append(types, string(typ))
	}
	sort.Strings(types)
	fmt.Fprintf(w, "Events per match:")
	for _, typ := range types {
		fmt.Fprintf(w, " %s=%.1f", typ, average(r.Events[engine.EventType(typ)], r.Runs))
	}
	fmt.Fprintln(w)
}

func percent(n, total int) float64 {
	if total == 0 {
		return 0
	}
	return 100 * float64(n) / float64(total)
}

func average(n, total int) float64 {
	if total == 0 {
		return 0
	}
	return float64(n) / float64(total)
}
