// Package handoff swaps the active persona and produces the user-facing
// transition notice. Activation of the new persona (running its entry hook)
// is the session runtime's job, not this package's.
package handoff

import (
	"errors"
	"fmt"
	"strings"

	"github.com/mindbotz/team-zephyra/internal/model/persona"
	"github.com/mindbotz/team-zephyra/internal/model/session"
)

// ErrUnknownPersona indicates a handoff tool offered a target that is not in
// the registry. That is a static wiring bug; it is never retried.
var ErrUnknownPersona = errors.New("unknown persona")

// Transfer looks up the target persona, records the departing one on the
// session record, and returns the target together with a transition message.
// On failure the record is left untouched.
func Transfer(target string, rec *session.Record, current *persona.Persona) (*persona.Persona, string, error) {
	next, ok := rec.Personas.Find(target)
	if !ok {
		return nil, "", fmt.Errorf("%w: %q", ErrUnknownPersona, target)
	}

	rec.PreviousPersona = current.Name
	return next, fmt.Sprintf("Hang on—transferring you to %s now.", capitalize(target)), nil
}

func capitalize(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}
