package board

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateDeterministic(t *testing.T) {
	first := Generate()
	second := Generate()
	require.Len(t, first, Size)
	assert.Equal(t, first, second)
}

func TestGenerateExactlySixDistinctHubs(t *testing.T) {
	spaces := Generate()

	seen := map[int]bool{}
	for _, s := range spaces {
		if !s.IsHub {
			continue
		}
		assert.False(t, seen[s.HubIndex], "duplicate hub index %d", s.HubIndex)
		seen[s.HubIndex] = true
		assert.Equal(t, s.HubIndex, s.CategoryIndex, "hub category follows hub index")
	}
	assert.Len(t, seen, NumCategories)
}

func TestHubAndEventMutuallyExclusive(t *testing.T) {
	for _, s := range Generate() {
		if s.IsHub {
			assert.False(t, s.IsEvent, "space %d is both hub and event", s.Position)
			assert.Empty(t, s.EventKind)
		}
		if !s.IsEvent {
			assert.Empty(t, s.EventKind)
		}
	}
}

func TestEventSpacesEveryFifthNonHub(t *testing.T) {
	spaces := Generate()
	for _, s := range spaces {
		if s.Position == 0 || s.IsHub {
			assert.False(t, s.IsEvent)
			continue
		}
		assert.Equal(t, s.Position%5 == 0, s.IsEvent, "position %d", s.Position)
	}

	// Event kinds cycle in fixed order.
	var kinds []EventKind
	for _, s := range spaces {
		if s.IsEvent {
			kinds = append(kinds, s.EventKind)
		}
	}
	require.GreaterOrEqual(t, len(kinds), len(eventCycle))
	for i, k := range kinds {
		assert.Equal(t, eventCycle[i%len(eventCycle)], k)
	}
}

func TestOrdinarySpacesRoundRobinCategories(t *testing.T) {
	for _, s := range Generate() {
		if s.IsHub {
			continue
		}
		assert.Equal(t, s.Position%NumCategories, s.CategoryIndex, "position %d", s.Position)
	}
}

func TestHubPosition(t *testing.T) {
	spaces := Generate()
	for cat := 0; cat < NumCategories; cat++ {
		pos := HubPosition(cat)
		require.True(t, spaces[pos].IsHub)
		assert.Equal(t, cat, spaces[pos].HubIndex)
	}
}
