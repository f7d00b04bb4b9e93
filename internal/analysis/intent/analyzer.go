// Package intent scores a user utterance against the specialist personas so
// the router can be nudged toward the right handoff. It is a keyword
// heuristic; the LLM classifier in service/intent falls back to it.
package intent

import "strings"

// Suggestion names the specialist an utterance points at. An empty Persona
// means no specialist stood out.
type Suggestion struct {
	Persona string
	Score   int
}

var specialistKeywords = map[string][]string{
	"aria": {
		"resume", "cv", "cover letter", "skills", "experience",
		"job application", "portfolio", "qualifications",
	},
	"phoenix": {
		"interview", "mock interview", "practice questions", "interviewer",
		"behavioral question", "hiring", "nervous about",
	},
	"solace": {
		"housing", "apartment", "rent", "landlord", "lease", "eviction",
		"shelter", "roommate", "move in", "housing assistance",
	},
}

// Analyze returns the best-scoring specialist for the utterance.
func Analyze(utterance string) Suggestion {
	normalized := strings.ToLower(utterance)

	best := Suggestion{}
	for _, name := range []string{"aria", "phoenix", "solace"} {
		score := 0
		for _, kw := range specialistKeywords[name] {
			score += strings.Count(normalized, kw)
		}
		if score > best.Score {
			best = Suggestion{Persona: name, Score: score}
		}
	}
	return best
}
