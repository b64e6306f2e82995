package telegram

import (
	"errors"
	"strings"
	"testing"

	"fortuna/internal/ai"
	"fortuna/internal/models"
)

func TestMatchOutcome(t *testing.T) {
	analysis := &models.Analysis{
		Fixture:    models.Fixture{Home: "Team A", Away: "Team B"},
		Prediction: &models.Prediction{Winner: "Team A"},
	}

	tests := []struct {
		name   string
		text   string
		actual string
		ok     bool
	}{
		{"home button", "Team A wins", "Team A", true},
		{"draw button", "Draw", "Draw", true},
		{"away button", "Team B wins", "Team B", true},
		{"free text", "who do you fancy?", "", false},
		{"other fixture's button", "Team C wins", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			actual, ok := matchOutcome(analysis, tt.text)
			if ok != tt.ok || actual != tt.actual {
				t.Fatalf("matchOutcome(%q) = (%q, %v), want (%q, %v)", tt.text, actual, ok, tt.actual, tt.ok)
			}
		})
	}

	if _, ok := matchOutcome(nil, "Draw"); ok {
		t.Fatal("no analysis must match no button")
	}
}

// The outcome buttons belong to the analysis they were shown with. Asking
// about a new fixture must not redirect an old keyboard's buttons.
func TestMatchOutcomeUsesAnalysisFixture(t *testing.T) {
	analysis := &models.Analysis{
		Fixture:    models.Fixture{Home: "Team A", Away: "Team B"},
		Prediction: &models.Prediction{Winner: "Team A"},
	}

	// Buttons named after another fixture don't resolve.
	if _, ok := matchOutcome(analysis, "Team C wins"); ok {
		t.Fatal("button for a different fixture must not match")
	}

	// Draw resolves, and the caller records it against analysis.Fixture,
	// which still names the pair the prediction was made for.
	actual, ok := matchOutcome(analysis, "Draw")
	if !ok || actual != "Draw" {
		t.Fatalf("matchOutcome(Draw) = (%q, %v)", actual, ok)
	}
	if analysis.Fixture.Home != "Team A" || analysis.Fixture.Away != "Team B" {
		t.Fatalf("analysis fixture = %+v", analysis.Fixture)
	}
}

func TestModelArg(t *testing.T) {
	list := []string{"gemini-2.5-flash", "gemini-2.5-pro"}

	tests := []struct {
		in   string
		want string
	}{
		{"/model gemini-1.5-pro", "gemini-1.5-pro"},
		{"/model 2", "gemini-2.5-pro"},
		{"/model 0", "0"},
		{"/model 3", "3"},
		{"/model", ""},
		{"/model   ", ""},
	}

	for _, tt := range tests {
		if got := modelArg(tt.in, list); got != tt.want {
			t.Errorf("modelArg(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestSplitFixture(t *testing.T) {
	tests := []struct {
		in         string
		home, away string
		ok         bool
	}{
		{"Team A - Team B", "Team A", "Team B", true},
		{"Team A vs Team B", "Team A", "Team B", true},
		{"카이라트 - 클뤼브뤼", "카이라트", "클뤼브뤼", true},
		{"Arsenal-Chelsea", "Arsenal", "Chelsea", true},
		{"just one team", "", "", false},
		{" - ", "", "", false},
	}

	for _, tt := range tests {
		home, away, ok := splitFixture(tt.in)
		if ok != tt.ok || home != tt.home || away != tt.away {
			t.Errorf("splitFixture(%q) = (%q, %q, %v), want (%q, %q, %v)",
				tt.in, home, away, ok, tt.home, tt.away, tt.ok)
		}
	}
}

func TestDescribeFailureKinds(t *testing.T) {
	if got := describeFailure(ai.ErrRetriesExhausted); !strings.Contains(got, "rate limited") {
		t.Errorf("retries exhausted message = %q", got)
	}

	got := describeFailure(&ai.UnknownModelError{Model: "gemini-nope"})
	if !strings.Contains(got, "gemini-nope") {
		t.Errorf("unknown model message must name the model, got %q", got)
	}

	got = describeFailure(&ai.ParseError{Raw: "raw model text", Err: errors.New("no JSON object in reply")})
	if !strings.Contains(got, "raw model text") {
		t.Errorf("parse failure message must include the raw reply, got %q", got)
	}
}
