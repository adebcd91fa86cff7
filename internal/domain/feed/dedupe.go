package feed

// Dedupe drops repeated post ids, keeping the first occurrence and the
// backend's display order. Records without an id are dropped.
func Dedupe(records []PostRecord) []PostRecord {
	seen := make(map[string]struct{}, len(records))
	out := make([]PostRecord, 0, len(records))
	for _, r := range records {
		if r.ID == "" {
			continue
		}
		if _, dup := seen[r.ID]; dup {
			continue
		}
		seen[r.ID] = struct{}{}
		out = append(out, r)
	}
	return out
}

// IDs returns the ids of view models in order.
func IDs(posts []PostViewModel) []string {
	ids := make([]string, len(posts))
	for i, p := range posts {
		ids[i] = p.ID
	}
	return ids
}
