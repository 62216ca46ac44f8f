package selection

import (
	"math/rand/v2"
	"testing"

	"github.com/ramanasai/quotes/internal/entry"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func seeded(seed uint64) *rand.Rand {
	return rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))
}

func fixture() []entry.Entry {
	return []entry.Entry{
		{ID: "1", Text: "The only way to do great work is to love what you do.", Category: "Inspiration"},
		{ID: "2", Text: "I'm not arguing, I'm explaining why I'm right.", Category: "Humor"},
		{ID: "3", Text: "Life is what happens when you're busy making other plans.", Category: "Life"},
		{ID: "4", Text: "Be yourself; everyone else is already taken.", Category: "Inspiration"},
	}
}

func TestSelectAllReturnsMember(t *testing.T) {
	entries := fixture()
	s := New(seeded(1), 0)
	for i := 0; i < 200; i++ {
		got, ok := s.Select(entries, entry.All, "")
		require.True(t, ok)
		assert.Contains(t, entries, got)
	}
}

func TestSelectHonorsFilter(t *testing.T) {
	entries := fixture()
	s := New(seeded(2), 0)
	for _, cat := range []string{"Inspiration", "Humor", "Life"} {
		for i := 0; i < 50; i++ {
			got, ok := s.Select(entries, cat, "")
			require.True(t, ok)
			assert.Equal(t, cat, got.Category)
		}
	}
}

func TestSelectEmpty(t *testing.T) {
	s := New(seeded(3), 0)

	_, ok := s.Select(fixture(), "Nope", "")
	assert.False(t, ok)

	_, ok = s.Select(nil, entry.All, "")
	assert.False(t, ok)
}

func TestSelectSingleCandidateTerminates(t *testing.T) {
	entries := fixture()
	s := New(seeded(4), 0)
	last := ""
	for i := 0; i < 20; i++ {
		got, ok := s.Select(entries, "Life", last)
		require.True(t, ok)
		assert.Equal(t, "3", got.ID)
		last = got.Identity()
	}
}

func TestSelectAvoidsImmediateRepeat(t *testing.T) {
	entries := fixture()
	s := New(seeded(5), 64)
	last := "1"
	for i := 0; i < 200; i++ {
		got, ok := s.Select(entries, "Inspiration", last)
		require.True(t, ok)
		// Two candidates and 64 attempts: a repeat needs 64 identical draws.
		assert.NotEqual(t, last, got.Identity())
		last = got.Identity()
	}
}

func TestSelectIdenticalCandidatesTerminates(t *testing.T) {
	entries := []entry.Entry{entry.New("same", "X"), entry.New("same", "X"), entry.New("same", "X")}
	s := New(seeded(6), 3)

	got, ok := s.Select(entries, "X", entries[0].Identity())
	require.True(t, ok)
	assert.Equal(t, "same", got.Text)
}

func TestSelectIgnoresUnknownLastShown(t *testing.T) {
	s := New(seeded(7), 0)
	got, ok := s.Select(fixture(), "Humor", "not-in-subset")
	require.True(t, ok)
	assert.Equal(t, "2", got.ID)
}
