package collection

import (
	"fmt"
	"sync"
	"testing"

	"github.com/ramanasai/quotes/internal/entry"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func keys(entries []entry.Entry) []entry.Key {
	out := make([]entry.Key, len(entries))
	for i, e := range entries {
		out[i] = e.Key()
	}
	return out
}

func newCollection(t *testing.T, entries ...entry.Entry) *Collection {
	t.Helper()
	c, errs := New(entries)
	require.Empty(t, errs)
	return c
}

func TestNewDropsInvalidEntries(t *testing.T) {
	c, errs := New([]entry.Entry{
		entry.New("ok", "X"),
		entry.New("", "X"),
		entry.New("also ok", "Y"),
	})
	require.Len(t, errs, 1)
	assert.Equal(t, 2, c.Len())
}

func TestAdd(t *testing.T) {
	c := newCollection(t)

	got, err := c.Add(entry.New(" Be yourself. ", "Inspiration"))
	require.NoError(t, err)
	assert.Equal(t, "Be yourself.", got.Text)
	assert.NotEmpty(t, got.ID)
	assert.Equal(t, uint64(1), c.Version())

	// Manual additions are not deduplicated.
	_, err = c.Add(entry.New("Be yourself.", "Inspiration"))
	require.NoError(t, err)
	assert.Equal(t, 2, c.Len())

	_, err = c.Add(entry.New("text", "   "))
	var verr *entry.ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, entry.FieldCategory, verr.Field)
	assert.Equal(t, 2, c.Len())
	assert.Equal(t, uint64(2), c.Version())
}

func TestAppendIsAllOrNothing(t *testing.T) {
	c := newCollection(t, entry.New("a", "X"))

	_, err := c.Append([]entry.Entry{entry.New("b", "Y"), entry.New("", "Y")})
	require.Error(t, err)
	assert.Equal(t, 1, c.Len())
	assert.Equal(t, uint64(0), c.Version())

	added, err := c.Append([]entry.Entry{entry.New("b", "Y"), entry.New("a", "X")})
	require.NoError(t, err)
	assert.Len(t, added, 2)
	assert.Equal(t, []entry.Key{{Text: "a", Category: "X"}, {Text: "b", Category: "Y"}, {Text: "a", Category: "X"}}, keys(c.Snapshot()))
}

func TestAppendReassignsCollidingIDs(t *testing.T) {
	existing := entry.New("a", "X")
	existing.ID = "1"
	c := newCollection(t, existing)

	dup := entry.New("b", "Y")
	dup.ID = "1"
	added, err := c.Append([]entry.Entry{dup})
	require.NoError(t, err)
	require.Len(t, added, 1)
	assert.NotEqual(t, "1", added[0].ID)
	assert.NotEmpty(t, added[0].ID)
}

func TestMergeScenario(t *testing.T) {
	local := []entry.Entry{entry.New("Be yourself...", "Inspiration")}
	remote := []entry.Entry{entry.New("Be yourself...", "Inspiration"), entry.New("New one", "Humor")}

	t.Run("additive", func(t *testing.T) {
		c := newCollection(t, local...)
		res, err := c.MergeIn(remote, Additive)
		require.NoError(t, err)
		assert.True(t, res.Changed)
		assert.Equal(t, 1, res.Added)
		assert.Equal(t, []entry.Key{{Text: "Be yourself...", Category: "Inspiration"}, {Text: "New one", Category: "Humor"}}, keys(c.Snapshot()))
	})

	t.Run("authoritative", func(t *testing.T) {
		c := newCollection(t, local...)
		res, err := c.MergeIn(remote, Authoritative)
		require.NoError(t, err)
		assert.True(t, res.Changed)
		assert.Equal(t, keys(remote), keys(c.Snapshot()))
	})
}

func TestAdditiveMergeProperties(t *testing.T) {
	local := []entry.Entry{
		entry.New("a", "X"),
		entry.New("a", "X"), // manual duplicate survives
		entry.New("b", "Y"),
	}
	remote := []entry.Entry{
		entry.New("b", "Y"),
		entry.New("c", "Z"),
		entry.New("c", "Z"),
		entry.New("a", "Y"),
	}
	c := newCollection(t, local...)

	res, err := c.MergeIn(remote, Additive)
	require.NoError(t, err)
	got := c.Snapshot()
	assert.GreaterOrEqual(t, len(got), len(local))
	assert.Equal(t, 2, res.Added)

	counts := map[entry.Key]int{}
	for _, e := range got {
		counts[e.Key()]++
	}
	assert.Equal(t, 2, counts[entry.Key{Text: "a", Category: "X"}])
	assert.Equal(t, 1, counts[entry.Key{Text: "c", Category: "Z"}])
	assert.Equal(t, 1, counts[entry.Key{Text: "a", Category: "Y"}])
}

func TestMergeWithoutChangesKeepsVersion(t *testing.T) {
	c := newCollection(t, entry.New("a", "X"), entry.New("b", "Y"))

	res, err := c.MergeIn([]entry.Entry{entry.New("b", "Y")}, Additive)
	require.NoError(t, err)
	assert.False(t, res.Changed)

	res, err = c.MergeIn([]entry.Entry{entry.New("a", "X"), entry.New("b", "Y")}, Authoritative)
	require.NoError(t, err)
	assert.False(t, res.Changed)

	res, err = c.MergeIn(nil, Additive)
	require.NoError(t, err)
	assert.False(t, res.Changed)
	assert.Equal(t, uint64(0), c.Version())
}

func TestAuthoritativeMergeDiscardsLocalOnly(t *testing.T) {
	c := newCollection(t)
	_, err := c.Add(entry.New("mine", "Local"))
	require.NoError(t, err)

	remote := []entry.Entry{entry.New("theirs", "Remote")}
	res, err := c.MergeIn(remote, Authoritative)
	require.NoError(t, err)
	assert.True(t, res.Changed)
	assert.Equal(t, 1, res.Removed)
	assert.Equal(t, keys(remote), keys(c.Snapshot()))

	res, err = c.MergeIn(nil, Authoritative)
	require.NoError(t, err)
	assert.True(t, res.Changed)
	assert.Zero(t, c.Len())
}

func TestAuthoritativeMergeDropsRemoteDuplicates(t *testing.T) {
	c := newCollection(t)
	res, err := c.MergeIn([]entry.Entry{
		{Text: "same", Category: "X"},
		{Text: " same ", Category: "X"},
		{Text: "other", Category: "X"},
	}, Authoritative)
	require.NoError(t, err)
	assert.Equal(t, 2, res.Added)
	assert.Equal(t, 2, c.Len())
}

func TestAuthoritativeMergeIgnoresLocalIDsWhenRemoteHasNone(t *testing.T) {
	c := newCollection(t, entry.Entry{ID: "seed-1", Text: "a", Category: "X"})

	res, err := c.MergeIn([]entry.Entry{entry.New("a", "X")}, Authoritative)
	require.NoError(t, err)
	assert.False(t, res.Changed)
	assert.Equal(t, uint64(0), c.Version())
	assert.Equal(t, "seed-1", c.Snapshot()[0].ID)

	res, err = c.MergeIn([]entry.Entry{{ID: "other", Text: "a", Category: "X"}}, Authoritative)
	require.NoError(t, err)
	assert.True(t, res.Changed, "a different remote id is a change")
}

func TestAuthoritativeMergeWithRepeatedRemoteIDsSettles(t *testing.T) {
	c := newCollection(t)
	remote := []entry.Entry{
		{ID: "1", Text: "a", Category: "X"},
		{ID: "1", Text: "b", Category: "X"},
	}

	res, err := c.MergeIn(remote, Authoritative)
	require.NoError(t, err)
	assert.True(t, res.Changed)
	got := c.Snapshot()
	require.Len(t, got, 2)
	assert.Equal(t, "1", got[0].ID)
	assert.Empty(t, got[1].ID)

	for range 3 {
		res, err = c.MergeIn(remote, Authoritative)
		require.NoError(t, err)
		assert.False(t, res.Changed)
	}
	assert.Equal(t, uint64(1), c.Version())
}

func TestMergeRejectsInvalidCandidatesAtomically(t *testing.T) {
	c := newCollection(t, entry.New("a", "X"))
	_, err := c.MergeIn([]entry.Entry{entry.New("b", "Y"), {Text: "c"}}, Additive)
	require.Error(t, err)
	assert.Equal(t, 1, c.Len())

	_, err = c.MergeIn([]entry.Entry{entry.New("b", "Y")}, Policy("bogus"))
	assert.ErrorIs(t, err, ErrUnknownPolicy)
}

func TestParsePolicy(t *testing.T) {
	p, err := ParsePolicy("authoritative")
	require.NoError(t, err)
	assert.Equal(t, Authoritative, p)

	_, err = ParsePolicy("server-wins")
	assert.ErrorIs(t, err, ErrUnknownPolicy)
}

func TestSnapshotIsACopy(t *testing.T) {
	c := newCollection(t, entry.New("a", "X"))
	snap := c.Snapshot()
	snap[0].Text = "changed"
	assert.Equal(t, "a", c.Snapshot()[0].Text)
}

func TestConcurrentMergeAndRead(t *testing.T) {
	c := newCollection(t)
	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(2)
		go func(i int) {
			defer wg.Done()
			_, _ = c.MergeIn([]entry.Entry{entry.New(fmt.Sprintf("e%d", i), "X")}, Additive)
		}(i)
		go func() {
			defer wg.Done()
			_ = Categories(c.Snapshot())
		}()
	}
	wg.Wait()
	assert.Equal(t, 8, c.Len())
}

func TestCategories(t *testing.T) {
	assert.Equal(t, []string{entry.All}, Categories(nil))

	entries := []entry.Entry{
		entry.New("a", "Life"),
		entry.New("b", "Humor"),
		entry.New("c", "Life"),
		entry.New("d", "Inspiration"),
	}
	assert.Equal(t, []string{entry.All, "Life", "Humor", "Inspiration"}, Categories(entries))
	assert.True(t, HasCategory(entries, "Humor"))
	assert.True(t, HasCategory(nil, entry.All))
	assert.False(t, HasCategory(entries, "Missing"))
}
