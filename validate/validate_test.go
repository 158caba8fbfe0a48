package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("Failed to write %s: %v", name, err)
	}
	return path
}

func TestValidateConfig(t *testing.T) {
	dir := t.TempDir()

	tests := []struct {
		name        string
		file        string
		content     string
		wantValid   bool
		wantMessage string
	}{
		{
			name:        "minimal preset",
			file:        "classic.json",
			content:     `{"name": "classic"}`,
			wantValid:   true,
			wantMessage: "✓ Players: 2, first to 5",
		},
		{
			name:        "four players",
			file:        "quartet.json",
			content:     `{"name": "quartet", "player_count": 4, "victory_threshold": 7, "human_roles": ["blackRabbit"]}`,
			wantValid:   true,
			wantMessage: "✓ Human seats: Black Rabbit",
		},
		{
			name:        "invalid json",
			file:        "garbled.json",
			content:     `{"name": `,
			wantValid:   false,
			wantMessage: "Invalid JSON",
		},
		{
			name:        "too many players",
			file:        "crowd.json",
			content:     `{"name": "crowd", "player_count": 6}`,
			wantValid:   false,
			wantMessage: "player count",
		},
		{
			name:        "seat outside the roster",
			file:        "seat.json",
			content:     `{"name": "seat", "player_count": 2, "human_roles": ["blueRabbit"]}`,
			wantValid:   false,
			wantMessage: "not part of a 2-player match",
		},
		{
			name:        "missing name",
			file:        "anonymous.json",
			content:     `{"player_count": 2}`,
			wantValid:   false,
			wantMessage: "name is required",
		},
		{
			name:        "answer outside its options",
			file:        "quiz.json",
			content:     `{"name": "quiz", "questions": [{"text": "2+2?", "answer": "4", "options": ["3", "5"]}]}`,
			wantValid:   false,
			wantMessage: "not among its options",
		},
		{
			name:        "layouts are probed",
			file:        "open.json",
			content:     `{"name": "open", "obstacle_count": 4}`,
			wantValid:   true,
			wantMessage: "✓ Layout probes: 3/3 connected",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := writeFile(t, dir, tt.file, tt.content)
			result := validateConfig(path, 3)

			if result.Valid != tt.wantValid {
				t.Fatalf("Expected valid=%v, got %v (errors: %v)", tt.wantValid, result.Valid, result.Errors)
			}
			all := strings.Join(append(append(result.Errors, result.Info...), result.Warnings...), "\n")
			if !strings.Contains(all, tt.wantMessage) {
				t.Errorf("Expected %q in report, got:\n%s", tt.wantMessage, all)
			}
		})
	}
}

func TestValidateConfig_MissingFile(t *testing.T) {
	result := validateConfig(filepath.Join(t.TempDir(), "nope.json"), 1)
	if result.Valid {
		t.Fatal("Expected a missing file to be invalid")
	}
	if !strings.Contains(result.Errors[0], "Failed to read file") {
		t.Errorf("Unexpected error: %v", result.Errors)
	}
}

func TestValidateConfig_Warnings(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "watch.json", `{"name": "Spectator", "human_roles": [], "delays": {"ai_think_ms": 0}}`)

	result := validateConfig(path, 1)
	if !result.Valid {
		t.Fatalf("Expected valid preset, got %v", result.Errors)
	}

	warnings := strings.Join(result.Warnings, "\n")
	for _, want := range []string{
		`differs from the file name "watch"`,
		"bundled trivia pool",
		"every seat is played by the AI",
	} {
		if !strings.Contains(warnings, want) {
			t.Errorf("Expected warning %q, got:\n%s", want, warnings)
		}
	}
}

func TestValidateDir(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "classic.json", `{"name": "classic"}`)
	writeFile(t, dir, "trio.json", `{"name": "trio", "player_count": 3}`)

	var out bytes.Buffer
	ok, err := validateDir(&out, dir, 2)
	if err != nil {
		t.Fatal(err)
	}
	if !ok {
		t.Errorf("Expected every preset to be valid:\n%s", out.String())
	}
	if !strings.Contains(out.String(), "✅ All configurations are valid!") {
		t.Errorf("Missing summary line:\n%s", out.String())
	}

	writeFile(t, dir, "broken.json", `{"name": "broken", "victory_threshold": 500}`)
	out.Reset()
	ok, err = validateDir(&out, dir, 2)
	if err != nil {
		t.Fatal(err)
	}
	if ok {
		t.Error("Expected the broken preset to fail the run")
	}
	if !strings.Contains(out.String(), "❌ INVALID") {
		t.Errorf("Expected an invalid marker:\n%s", out.String())
	}
}

func TestValidateDir_Empty(t *testing.T) {
	if _, err := validateDir(&bytes.Buffer{}, t.TempDir(), 1); err == nil {
		t.Error("Expected an error for a directory without presets")
	}
}

// The bundled presets must always pass
func TestBundledPresets(t *testing.T) {
	dir := filepath.Join("..", "configs")
	if _, err := os.Stat(dir); os.IsNotExist(err) {
		t.Skip("configs directory not present")
	}

	var out bytes.Buffer
	ok, err := validateDir(&out, dir, 3)
	if err != nil {
		t.Fatal(err)
	}
	if !ok {
		t.Errorf("Bundled presets are invalid:\n%s", out.String())
	}
}
