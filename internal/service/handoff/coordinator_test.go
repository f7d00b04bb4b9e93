package handoff_test

import (
	"errors"
	"testing"

	"github.com/mindbotz/team-zephyra/internal/model/persona"
	"github.com/mindbotz/team-zephyra/internal/model/session"
	"github.com/mindbotz/team-zephyra/internal/service/handoff"
)

func newRecord(t *testing.T) (*session.Record, *persona.Persona) {
	t.Helper()
	registry := persona.NewRegistry(persona.Seed())
	rec := session.NewRecord(registry)
	router, ok := registry.Find("zephyra")
	if !ok {
		t.Fatal("router persona missing from seed")
	}
	return rec, router
}

func TestTransfer(t *testing.T) {
	rec, router := newRecord(t)

	next, notice, err := handoff.Transfer("phoenix", rec, router)
	if err != nil {
		t.Fatalf("Transfer err: %v", err)
	}
	if next.Name != "phoenix" {
		t.Fatalf("unexpected target: %s", next.Name)
	}
	if rec.PreviousPersona != "zephyra" {
		t.Fatalf("previous persona not recorded: %q", rec.PreviousPersona)
	}
	if notice != "Hang on—transferring you to Phoenix now." {
		t.Fatalf("unexpected notice: %q", notice)
	}
}

func TestTransferUnknownTarget(t *testing.T) {
	rec, router := newRecord(t)

	if _, _, err := handoff.Transfer("morpheus", rec, router); !errors.Is(err, handoff.ErrUnknownPersona) {
		t.Fatalf("expected ErrUnknownPersona, got %v", err)
	}
	if rec.PreviousPersona != "" {
		t.Fatalf("record mutated on failed transfer: %q", rec.PreviousPersona)
	}
}

func TestTransferPreviousAlwaysRegistered(t *testing.T) {
	rec, router := newRecord(t)

	if _, _, err := handoff.Transfer("aria", rec, router); err != nil {
		t.Fatalf("Transfer err: %v", err)
	}
	if _, ok := rec.Personas.Find(rec.PreviousPersona); !ok {
		t.Fatalf("previous persona %q not present in registry", rec.PreviousPersona)
	}
}
