package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMerge(t *testing.T) {
	tests := []struct {
		name     string
		remote   []Quote
		local    []Quote
		expected []Quote
	}{
		{
			name:   "local-only quotes follow remote quotes",
			remote: []Quote{{Text: "R1", Category: "Server"}},
			local:  []Quote{{Text: "Q1", Category: "C1"}},
			expected: []Quote{
				{Text: "R1", Category: "Server"},
				{Text: "Q1", Category: "C1"},
			},
		},
		{
			name:     "identical pair collapses to the remote copy",
			remote:   []Quote{{Text: "A", Category: "C"}},
			local:    []Quote{{Text: "A", Category: "C"}},
			expected: []Quote{{Text: "A", Category: "C"}},
		},
		{
			name:     "empty remote keeps local unchanged",
			remote:   nil,
			local:    []Quote{{Text: "Q1", Category: "C1"}, {Text: "Q2", Category: "C2"}},
			expected: []Quote{{Text: "Q1", Category: "C1"}, {Text: "Q2", Category: "C2"}},
		},
		{
			name:     "same text different category is a different quote",
			remote:   []Quote{{Text: "A", Category: "Server"}},
			local:    []Quote{{Text: "A", Category: "Life"}},
			expected: []Quote{{Text: "A", Category: "Server"}, {Text: "A", Category: "Life"}},
		},
		{
			name: "remote order wins and shared quote takes remote position",
			remote: []Quote{
				{Text: "R1", Category: "Server"},
				{Text: "Shared", Category: "X"},
			},
			local: []Quote{
				{Text: "L1", Category: "Y"},
				{Text: "Shared", Category: "X"},
				{Text: "L2", Category: "Y"},
			},
			expected: []Quote{
				{Text: "R1", Category: "Server"},
				{Text: "Shared", Category: "X"},
				{Text: "L1", Category: "Y"},
				{Text: "L2", Category: "Y"},
			},
		},
		{
			name:     "duplicate local entries collapse to one",
			remote:   nil,
			local:    []Quote{{Text: "A", Category: "C"}, {Text: "A", Category: "C"}},
			expected: []Quote{{Text: "A", Category: "C"}},
		},
		{
			name:     "both empty",
			expected: []Quote{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, Merge(tt.remote, tt.local))
		})
	}
}

func TestMerge_Idempotent(t *testing.T) {
	remote := []Quote{{Text: "R1", Category: "Server"}, {Text: "R2", Category: "Server"}}
	local := []Quote{{Text: "Q1", Category: "C1"}, {Text: "R1", Category: "Server"}}

	first := Merge(remote, local)
	second := Merge(remote, first)

	assert.Equal(t, first, second, "merging again must not grow the result")
}

func TestMerge_DoesNotAliasInputs(t *testing.T) {
	remote := []Quote{{Text: "R1", Category: "Server"}}
	merged := Merge(remote, nil)

	merged[0].Text = "changed"
	assert.Equal(t, "R1", remote[0].Text)
}

func TestCategories(t *testing.T) {
	quotes := []Quote{
		{Text: "1", Category: "Life"},
		{Text: "2", Category: "Server"},
		{Text: "3", Category: "Life"},
		{Text: "4", Category: "Education"},
	}

	assert.Equal(t, []string{"Life", "Server", "Education"}, Categories(quotes))
	assert.Empty(t, Categories(nil))
}

func TestFilterByCategory(t *testing.T) {
	quotes := []Quote{
		{Text: "1", Category: "Life"},
		{Text: "2", Category: "Server"},
		{Text: "3", Category: "Life"},
	}

	assert.Equal(t, quotes, FilterByCategory(quotes, AllCategories))
	assert.Equal(t, []Quote{{Text: "1", Category: "Life"}, {Text: "3", Category: "Life"}}, FilterByCategory(quotes, "Life"))
	assert.Empty(t, FilterByCategory(quotes, "Missing"))
}
