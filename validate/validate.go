// Command validate checks the rule presets in the configs directory. For
// every *.json file it checks:
//   - JSON structure and the rules validation the server applies on load
//   - That the file name and the preset name agree
//   - That the trivia pool and the human seats make sense for the roster
//   - That obstacle layouts keep every rabbit corner connected to a door,
//     by setting up a few seeded matches
package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	log "github.com/sirupsen/logrus"
	"github.com/urfave/cli/v3"

	"github.com/wricardo/rabbit-chase-game/game/engine"
)

// ValidationResult captures the outcome of validating a single file.
// Errors make the preset invalid; Info and Warnings are reported either way.
type ValidationResult struct {
	File     string
	Valid    bool
	Errors   []string
	Warnings []string
	Info     []string
}

func (r *ValidationResult) fail(format string, args ...interface{}) {
	r.Valid = false
	r.Errors = append(r.Errors, fmt.Sprintf(format, args...))
}

// validateConfig loads and validates a single preset file and probes its
// obstacle layout with seeds 1..probes.
func validateConfig(filePath string, probes int) ValidationResult {
	result := ValidationResult{
		File:  filepath.Base(filePath),
		Valid: true,
	}

	config, err := engine.LoadGameConfig(filePath)
	if err != nil {
		switch {
		case errors.Is(err, engine.ErrInvalidConfig):
			result.fail("%v", err)
		case errors.Is(err, os.ErrNotExist):
			result.fail("Failed to read file: %v", err)
		default:
			result.fail("Invalid JSON: %v", err)
		}
		return result
	}
	full := config.WithDefaults()

	id := strings.TrimSuffix(result.File, ".json")
	if !strings.EqualFold(id, config.Name) {
		result.Warnings = append(result.Warnings, fmt.Sprintf("preset name %q differs from the file name %q; matches are created with %q", config.Name, id, id))
	}
	if len(config.Questions) == 0 {
		result.Warnings = append(result.Warnings, "no questions given, the bundled trivia pool is used")
	}
	if config.HumanRoles != nil && len(config.HumanRoles) == 0 {
		result.Warnings = append(result.Warnings, "human_roles is empty, every seat is played by the AI")
	}
	if full.Delays.AIThinkMS == 0 {
		result.Warnings = append(result.Warnings, "ai_think_ms is 0, AI turns will be instant")
	}

	failed, lastErr := probeLayouts(config, probes)
	switch {
	case probes > 0 && failed == probes:
		result.fail("No obstacle layout could be built in %d attempts: %v", probes, lastErr)
	case failed > 0:
		result.Warnings = append(result.Warnings, fmt.Sprintf("%d/%d seeded setups found no obstacle layout (%v)", failed, probes, lastErr))
	}

	if result.Valid {
		result.Info = append(result.Info,
			fmt.Sprintf("✓ Name: %s", full.Name),
			fmt.Sprintf("✓ Players: %d, first to %d", full.PlayerCount, full.VictoryThreshold),
			fmt.Sprintf("✓ Human seats: %s", formatRoles(full.HumanRoles)),
			fmt.Sprintf("✓ Obstacles: %d, die: d%d, rabbit bonus: +%d", full.ObstacleCount, full.DieFaces, full.RabbitRollBonus),
			fmt.Sprintf("✓ Questions: %d", len(full.Questions)),
			fmt.Sprintf("✓ Layout probes: %d/%d connected", probes-failed, probes),
		)
	}

	return result
}

// probeLayouts sets up one match per seed and counts the failures
func probeLayouts(config *engine.GameConfig, probes int) (int, error) {
	failed := 0
	var lastErr error
	for seed := 1; seed <= probes; seed++ {
		c := config.Clone()
		c.Seed = uint64(seed)
		if _, err := engine.NewMatch(c); err != nil {
			failed++
			lastErr = err
		}
	}
	return failed, lastErr
}

func formatRoles(roles []engine.Role) string {
	if len(roles) == 0 {
		return "none (AI only)"
	}
	parts := make([]string, len(roles))
	for i, r := range roles {
		parts[i] = r.Label()
	}
	return strings.Join(parts, ", ")
}

// validateDir validates every *.json file in dir, prints a report to w and
// reports whether all of them are valid.
func validateDir(w io.Writer, dir string, probes int) (bool, error) {
	files, err := filepath.Glob(filepath.Join(dir, "*.json"))
	if err != nil {
		return false, fmt.Errorf("finding config files: %w", err)
	}
	if len(files) == 0 {
		return false, fmt.Errorf("no presets found in %s", dir)
	}

	allValid := true
	for _, file := range files {
		result := validateConfig(file, probes)

		fmt.Fprintf(w, "\n%s %s\n", strings.Repeat("=", 20), result.File)

		if result.Valid {
			fmt.Fprintln(w, "✅ VALID")
			for _, info := range result.Info {
				fmt.Fprintln(w, "  "+info)
			}
		} else {
			fmt.Fprintln(w, "❌ INVALID")
			allValid = false
			for _, err := range result.Errors {
				fmt.Fprintln(w, "  ❌ "+err)
			}
		}
		for _, warning := range result.Warnings {
			fmt.Fprintln(w, "  ⚠️  "+warning)
		}
	}

	fmt.Fprintf(w, "\n%s\n", strings.Repeat("=", 40))
	if allValid {
		fmt.Fprintln(w, "✅ All configurations are valid!")
	} else {
		fmt.Fprintln(w, "❌ Some configurations have errors")
	}
	return allValid, nil
}

func main() {
	cmd := &cli.Command{
		Name:  "validate",
		Usage: "validate the rule presets of the game server",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "config-dir",
				Value:   "configs",
				Usage:   "directory containing rule presets",
				Sources: cli.EnvVars("CONFIG_DIR"),
			},
			&cli.IntFlag{
				Name:  "probes",
				Value: 5,
				Usage: "seeded match setups used to check obstacle layouts",
			},
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			ok, err := validateDir(os.Stdout, cmd.String("config-dir"), int(cmd.Int("probes")))
			if err != nil {
				return err
			}
			if !ok {
				return cli.Exit("", 1)
			}
			return nil
		},
	}

	if err := cmd.Run(context.Background(), os.Args); err != nil {
		log.Fatal(err)
	}
}
