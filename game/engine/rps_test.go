package engine

import "testing"

func TestParseHand(t *testing.T) {
	tests := []struct {
		in   string
		want Hand
		ok   bool
	}{
		{"rock", Rock, true},
		{"Stone", Rock, true},
		{" paper ", Paper, true},
		{"SCISSORS", Scissors, true},
		{"lizard", "", false},
		{"", "", false},
	}
	for _, tt := range tests {
		got, ok := ParseHand(tt.in)
		if got != tt.want || ok != tt.ok {
			t.Errorf("ParseHand(%q) = %q, %v, want %q, %v", tt.in, got, ok, tt.want, tt.ok)
		}
	}
}

func TestResolveRPS(t *testing.T) {
	order := []Role{Wolf, RedRabbit, BlueRabbit}

	tests := []struct {
		name    string
		choices map[Role]Hand
		want    []Role
	}{
		{
			name:    "all same is a tie",
			choices: map[Role]Hand{Wolf: Rock, RedRabbit: Rock, BlueRabbit: Rock},
			want:    []Role{},
		},
		{
			name:    "all three hands everyone loses",
			choices: map[Role]Hand{Wolf: Rock, RedRabbit: Paper, BlueRabbit: Scissors},
			want:    []Role{Wolf, RedRabbit, BlueRabbit},
		},
		{
			name:    "two beaten by one",
			choices: map[Role]Hand{Wolf: Paper, RedRabbit: Rock, BlueRabbit: Rock},
			want:    []Role{RedRabbit, BlueRabbit},
		},
		{
			name:    "single loser",
			choices: map[Role]Hand{Wolf: Scissors, RedRabbit: Rock, BlueRabbit: Rock},
			want:    []Role{Wolf},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ResolveRPS(order, tt.choices)
			if got == nil {
				t.Fatal("ResolveRPS must not return nil")
			}
			if len(got) != len(tt.want) {
				t.Fatalf("ResolveRPS = %v, want %v", got, tt.want)
			}
			for i := range got {
				if got[i] != tt.want[i] {
					t.Errorf("ResolveRPS = %v, want %v", got, tt.want)
				}
			}
		})
	}
}

func TestHandBeats(t *testing.T) {
	if !Rock.Beats(Scissors) || !Scissors.Beats(Paper) || !Paper.Beats(Rock) {
		t.Error("Basic rock-paper-scissors rules are broken")
	}
	if Rock.Beats(Rock) || Rock.Beats(Paper) {
		t.Error("Rock should only beat scissors")
	}
}
