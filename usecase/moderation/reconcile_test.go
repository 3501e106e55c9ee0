package moderation

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDiffFileSets(t *testing.T) {
	cases := []struct {
		name     string
		current  []string
		desired  []string
		toAdd    []string
		toRemove []string
	}{
		{
			name:    "identical sets",
			current: []string{"a.png", "b.png"},
			desired: []string{"b.png", "a.png"},
		},
		{
			name:     "overlap",
			current:  []string{"a.png", "b.png"},
			desired:  []string{"b.png", "c.png"},
			toAdd:    []string{"c.png"},
			toRemove: []string{"a.png"},
		},
		{
			name:    "empty current",
			desired: []string{"a.png", "b.png"},
			toAdd:   []string{"a.png", "b.png"},
		},
		{
			name:     "empty desired",
			current:  []string{"a.png", "b.png"},
			toRemove: []string{"a.png", "b.png"},
		},
		{
			name: "both empty",
		},
		{
			name:     "disjoint",
			current:  []string{"x.png"},
			desired:  []string{"y.png", "z.png"},
			toAdd:    []string{"y.png", "z.png"},
			toRemove: []string{"x.png"},
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			toAdd, toRemove := diffFileSets(tc.current, tc.desired)
			assert.Equal(t, tc.toAdd, toAdd)
			assert.Equal(t, tc.toRemove, toRemove)
		})
	}
}

func TestDiffFileSetsExactStringCompare(t *testing.T) {
	toAdd, toRemove := diffFileSets([]string{"A.png"}, []string{"a.png"})
	assert.Equal(t, []string{"a.png"}, toAdd)
	assert.Equal(t, []string{"A.png"}, toRemove)
}
