// Package history implements the conversation carry-over policy used during
// persona handoffs: a bounded recent window of a departing persona's history
// plus an id-keyed dedup merge into the incoming persona's history.
package history

import "github.com/mindbotz/team-zephyra/internal/model/chat"

// DefaultKeepLastN bounds how many eligible items a handoff carries over.
const DefaultKeepLastN = 6

// Options control which items survive truncation.
type Options struct {
	// KeepLastN is the budget of eligible items; zero or negative means
	// DefaultKeepLastN. Ineligible items are skipped without consuming it.
	KeepLastN         int
	KeepSystem        bool
	KeepFunctionCalls bool
}

// Truncate trims a history to its most recent eligible items, returned in
// chronological order. Leading function_call/function_call_output items are
// pruned so the window never opens on a fragmented call/result pair. The
// input is not modified.
func Truncate(items []chat.Item, opts Options) []chat.Item {
	keep := opts.KeepLastN
	if keep <= 0 {
		keep = DefaultKeepLastN
	}

	eligible := func(it chat.Item) bool {
		if !opts.KeepSystem && it.Kind == chat.KindMessage && it.Role == chat.RoleSystem {
			return false
		}
		if !opts.KeepFunctionCalls && it.IsToolTraffic() {
			return false
		}
		return true
	}

	kept := make([]chat.Item, 0, keep)
	for i := len(items) - 1; i >= 0 && len(kept) < keep; i-- {
		if eligible(items[i]) {
			kept = append(kept, items[i])
		}
	}

	// Back to chronological order.
	for i, j := 0, len(kept)-1; i < j; i, j = i+1, j-1 {
		kept[i], kept[j] = kept[j], kept[i]
	}

	for len(kept) > 0 && kept[0].IsToolTraffic() {
		kept = kept[1:]
	}

	return kept
}

// MergeCarryover appends src items whose ids are not already present in dst,
// preserving relative order. The current history wins on id collisions.
func MergeCarryover(dst, src []chat.Item) []chat.Item {
	seen := make(map[string]struct{}, len(dst))
	for _, it := range dst {
		seen[it.ID] = struct{}{}
	}

	for _, it := range src {
		if _, ok := seen[it.ID]; ok {
			continue
		}
		seen[it.ID] = struct{}{}
		dst = append(dst, it)
	}
	return dst
}
