package dataset

import "strings"

// CategoryAll disables category filtering.
const CategoryAll = "all"

// Filter selects records by category and free-text query.
type Filter struct {
	// Category must match exactly. Empty or "all" matches every record.
	Category string `json:"category,omitempty"`

	// Query is matched case-insensitively against name and description.
	Query string `json:"query,omitempty"`
}

// IsZero reports whether the filter matches everything.
func (f Filter) IsZero() bool {
	return (f.Category == "" || f.Category == CategoryAll) && strings.TrimSpace(f.Query) == ""
}

// Matches reports whether r passes the filter.
func (f Filter) Matches(r Record) bool {
	if f.Category != "" && f.Category != CategoryAll && r.Category != f.Category {
		return false
	}
	q := normalize(f.Query)
	if q == "" {
		return true
	}
	return strings.Contains(strings.ToLower(r.Name), q) ||
		strings.Contains(strings.ToLower(r.Description), q)
}

// Apply returns the matching records in input order. The input is not
// modified.
func (f Filter) Apply(records []Record) []Record {
	if f.IsZero() {
		return records
	}
	out := make([]Record, 0, len(records))
	for _, r := range records {
		if f.Matches(r) {
			out = append(out, r)
		}
	}
	return out
}

// Categories lists the distinct categories in first-seen order. Records
// without a category are skipped.
func Categories(records []Record) []string {
	seen := make(map[string]bool)
	var out []string
	for _, r := range records {
		if r.Category == "" || seen[r.Category] {
			continue
		}
		seen[r.Category] = true
		out = append(out, r.Category)
	}
	return out
}

// NextCategory cycles "all" followed by categories, returning the entry
// after current.
func NextCategory(current string, categories []string) string {
	all := append([]string{CategoryAll}, categories...)
	if current == "" {
		current = CategoryAll
	}
	for i, c := range all {
		if c == current {
			return all[(i+1)%len(all)]
		}
	}
	return CategoryAll
}

func normalize(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}
