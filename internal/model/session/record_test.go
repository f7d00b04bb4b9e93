package session_test

import (
	"strings"
	"testing"

	"github.com/mindbotz/team-zephyra/internal/model/persona"
	"github.com/mindbotz/team-zephyra/internal/model/session"
)

func TestSummarizeEmptyRecord(t *testing.T) {
	rec := session.NewRecord(persona.NewRegistry(persona.Seed()))

	got := rec.Summarize()
	want := "customer_name: unknown\ncustomer_phone: unknown\nskills: []\nexperience: []\n"
	if got != want {
		t.Fatalf("unexpected summary:\n%q\nwant:\n%q", got, want)
	}
}

func TestSummarizeDeterministic(t *testing.T) {
	rec := session.NewRecord(persona.NewRegistry(persona.Seed()))
	rec.SetName("Riley")
	rec.SetSkills([]string{"Go", "SQL"})

	first := rec.Summarize()
	second := rec.Summarize()
	if first != second {
		t.Fatalf("summary not deterministic:\n%q\n%q", first, second)
	}
	if !strings.Contains(first, "customer_name: Riley") {
		t.Fatalf("name missing from summary: %q", first)
	}
	if !strings.Contains(first, "- Go") || !strings.Contains(first, "- SQL") {
		t.Fatalf("skills missing from summary: %q", first)
	}
}

func TestSettersReturnConfirmations(t *testing.T) {
	rec := session.NewRecord(persona.NewRegistry(persona.Seed()))

	if got := rec.SetName("Riley"); got != "Great, your name is now set to Riley." {
		t.Fatalf("unexpected confirmation: %q", got)
	}
	if got := rec.SetPhone("555-0101"); got != "Got it—your phone number is updated to 555-0101." {
		t.Fatalf("unexpected confirmation: %q", got)
	}
	if got := rec.SetSkills([]string{"Go", "SQL"}); got != "Fantastic! Your skills have been updated: Go, SQL." {
		t.Fatalf("unexpected confirmation: %q", got)
	}
	if got := rec.SetExperience([]string{"barista"}); got != "Experience recorded: barista." {
		t.Fatalf("unexpected confirmation: %q", got)
	}
	if rec.CustomerName != "Riley" || rec.CustomerPhone != "555-0101" {
		t.Fatal("setter did not persist value")
	}
}
