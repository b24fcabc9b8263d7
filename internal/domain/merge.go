package domain

// Merge combines remote and local quotes with remote precedence.
//
// The result starts with every remote quote in remote order. Each local quote
// is then appended, in local order, unless a quote with the same
// (text, category) pair is already present. Duplicates inside remote are kept
// as-is; only local entries are deduplicated.
func Merge(remote, local []Quote) []Quote {
	merged := make([]Quote, 0, len(remote)+len(local))
	merged = append(merged, remote...)

	seen := make(map[Quote]struct{}, len(remote)+len(local))
	for _, q := range remote {
		seen[q] = struct{}{}
	}

	for _, q := range local {
		if _, ok := seen[q]; ok {
			continue
		}

		seen[q] = struct{}{}
		merged = append(merged, q)
	}

	return merged
}

// Categories returns the distinct categories of quotes in first-appearance order.
func Categories(quotes []Quote) []string {
	seen := make(map[string]struct{}, len(quotes))
	out := make([]string, 0, len(quotes))

	for _, q := range quotes {
		if _, ok := seen[q.Category]; ok {
			continue
		}

		seen[q.Category] = struct{}{}
		out = append(out, q.Category)
	}

	return out
}

// FilterByCategory returns the quotes in category, or all quotes when
// category is AllCategories.
func FilterByCategory(quotes []Quote, category string) []Quote {
	if category == AllCategories {
		out := make([]Quote, len(quotes))
		copy(out, quotes)

		return out
	}

	out := make([]Quote, 0, len(quotes))
	for _, q := range quotes {
		if q.Category == category {
			out = append(out, q)
		}
	}

	return out
}
