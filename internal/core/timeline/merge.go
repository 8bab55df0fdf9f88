package timeline

import "sort"

// feedBefore reports whether a ranks before b in feed order:
// newer creation time first, higher post id breaking ties so that
// equal-timestamp posts always order the same way.
func feedBefore(a, b Entry) bool {
	if !a.CreatedAt.Equal(b.CreatedAt) {
		return a.CreatedAt.After(b.CreatedAt)
	}
	return a.PostID > b.PostID
}

func sortEntries(entries []Entry) {
	sort.Slice(entries, func(i, j int) bool {
		return feedBefore(entries[i], entries[j])
	})
}

// mergeEntries combines two entry lists into feed order, deduplicating
// by post id. On a duplicate the entry from primary wins. A max of 0
// means no truncation.
func mergeEntries(primary, secondary []Entry, max int) []Entry {
	seen := make(map[string]struct{}, len(primary)+len(secondary))
	merged := make([]Entry, 0, len(primary)+len(secondary))

	for _, e := range primary {
		if _, dup := seen[e.PostID]; dup {
			continue
		}
		seen[e.PostID] = struct{}{}
		merged = append(merged, e)
	}
	for _, e := range secondary {
		if _, dup := seen[e.PostID]; dup {
			continue
		}
		seen[e.PostID] = struct{}{}
		merged = append(merged, e)
	}

	sortEntries(merged)
	if max > 0 && len(merged) > max {
		merged = merged[:max]
	}
	return merged
}
