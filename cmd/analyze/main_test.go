package main

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/wricardo/rabbit-chase-game/game/engine"
)

func quickConfig(name string, players int) *engine.GameConfig {
	cfg := engine.DefaultConfig()
	cfg.Name = name
	cfg.PlayerCount = players
	cfg.VictoryThreshold = 1
	cfg.HumanRoles = nil
	return cfg
}

func writePreset(t *testing.T, dir, id string, cfg *engine.GameConfig) {
	t.Helper()
	data, err := json.Marshal(cfg)
	if err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(dir, id+".json"), data, 0644); err != nil {
		t.Fatal(err)
	}
}

func TestSimulate(t *testing.T) {
	for _, players := range []int{2, 3, 4} {
		res, err := simulate(quickConfig("quick", players), 3, 20000)
		if err != nil {
			t.Fatalf("%d players: %v", players, err)
		}
		if res.Stalled {
			t.Fatalf("%d players: match did not finish in %d turns", players, res.Ticks)
		}
		if !res.Winner.Valid() {
			t.Errorf("%d players: expected a winner, got %q", players, res.Winner)
		}
		if res.Events[engine.EventVictory] != 1 {
			t.Errorf("%d players: expected one victory event, got %d", players, res.Events[engine.EventVictory])
		}
		if res.Scores[res.Winner] < 1 {
			t.Errorf("%d players: winner should hold the threshold score, got %v", players, res.Scores)
		}
		if res.Rounds < 1 {
			t.Errorf("%d players: expected at least one resolved round", players)
		}
	}
}

func TestSimulateIsDeterministic(t *testing.T) {
	cfg := quickConfig("quick", 3)
	cfg.VictoryThreshold = 3

	a, err := simulate(cfg, 42, 20000)
	if err != nil {
		t.Fatal(err)
	}
	b, err := simulate(cfg, 42, 20000)
	if err != nil {
		t.Fatal(err)
	}
	if a.Winner != b.Winner || a.Ticks != b.Ticks || a.Rounds != b.Rounds {
		t.Errorf("Same seed gave different matches: %+v vs %+v", a, b)
	}
}

func TestSimulateTickLimit(t *testing.T) {
	cfg := quickConfig("long", 2)
	cfg.VictoryThreshold = 50

	res, err := simulate(cfg, 5, 3)
	if err != nil {
		t.Fatal(err)
	}
	if !res.Stalled || res.Ticks != 3 {
		t.Errorf("Expected a stalled match after 3 turns, got stalled=%v ticks=%d", res.Stalled, res.Ticks)
	}
}

func TestRun(t *testing.T) {
	dir := t.TempDir()
	writePreset(t, dir, "duo", quickConfig("Duo", 2))
	writePreset(t, dir, "quartet", quickConfig("Quartet", 4))
	if err := os.WriteFile(filepath.Join(dir, "broken.json"), []byte("{"), 0644); err != nil {
		t.Fatal(err)
	}

	var out bytes.Buffer
	err := run(&out, simOptions{ConfigDir: dir, Runs: 2, SeedBase: 1, MaxTicks: 20000})
	if err != nil {
		t.Fatalf("run failed: %v", err)
	}

	report := out.String()
	for _, want := range []string{
		"=== Headless Match Report ===",
		"=== duo (Duo) ===",
		"=== quartet (Quartet) ===",
		"Players: 4, First to: 1, Runs: 2",
		"Black Rabbit",
		"Events per match:",
	} {
		if !strings.Contains(report, want) {
			t.Errorf("Expected %q in report:\n%s", want, report)
		}
	}
	if strings.Contains(report, "broken") {
		t.Error("Invalid presets must be skipped")
	}
}

func TestRunSelectedPreset(t *testing.T) {
	dir := t.TempDir()
	writePreset(t, dir, "duo", quickConfig("Duo", 2))
	writePreset(t, dir, "trio", quickConfig("Trio", 3))

	var out bytes.Buffer
	if err := run(&out, simOptions{ConfigDir: dir, Presets: []string{"trio"}, Runs: 1, MaxTicks: 20000}); err != nil {
		t.Fatal(err)
	}
	if strings.Contains(out.String(), "=== duo") || !strings.Contains(out.String(), "=== trio") {
		t.Errorf("Expected only the trio preset, got:\n%s", out.String())
	}
}

func TestRunErrors(t *testing.T) {
	tests := []struct {
		name string
		opts simOptions
	}{
		{"no runs", simOptions{ConfigDir: t.TempDir(), Runs: 0, MaxTicks: 10}},
		{"no tick budget", simOptions{ConfigDir: t.TempDir(), Runs: 1, MaxTicks: 0}},
		{"empty directory", simOptions{ConfigDir: t.TempDir(), Runs: 1, MaxTicks: 10}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := run(&bytes.Buffer{}, tt.opts); err == nil {
				t.Error("Expected an error")
			}
		})
	}
}

func TestAverages(t *testing.T) {
	tests := []struct {
		n, total int
		avg, pct float64
	}{
		{0, 0, 0, 0},
		{5, 10, 0.5, 50},
		{3, 4, 0.75, 75},
	}

	for _, tt := range tests {
		if got := average(tt.n, tt.total); got != tt.avg {
			t.Errorf("average(%d, %d) = %v, expected %v", tt.n, tt.total, got, tt.avg)
		}
		if got := percent(tt.n, tt.total); got != tt.pct {
			t.Errorf("percent(%d, %d) = %v, expected %v", tt.n, tt.total, got, tt.pct)
		}
	}
}
