package cache

import (
	"bytes"
	"testing"
	"time"

	"alcyxob/fitplan/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var day = time.Date(2026, 10, 18, 9, 0, 0, 0, time.UTC)

func TestRenderCache_SetGet(t *testing.T) {
	c := NewRenderCache(1, time.Hour)
	w := &domain.Workout{ID: "w1", Version: 3}
	key := Key(w, nil, day)

	_, ok := c.Get(key)
	assert.False(t, ok)

	c.Set(key, &Entry{Data: []byte("%PDF-1.3 test"), Pages: 2})
	got, ok := c.Get(key)
	require.True(t, ok)
	assert.Equal(t, 2, got.Pages)
	assert.Equal(t, []byte("%PDF-1.3 test"), got.Data)
	assert.EqualValues(t, 1, c.EntryCount())

	c.Clear()
	_, ok = c.Get(key)
	assert.False(t, ok)
}

func TestKey_ChangesWithVersionProfileAndDay(t *testing.T) {
	w := &domain.Workout{ID: "w1", Version: 1}
	profile := &domain.CoachProfile{ID: "p1", Name: "Sam"}
	base := Key(w, profile, day)

	bumped := *w
	bumped.Version = 2
	assert.NotEqual(t, base, Key(&bumped, profile, day))

	renamed := *profile
	renamed.Name = "Samantha"
	assert.NotEqual(t, base, Key(w, &renamed, day))

	assert.NotEqual(t, base, Key(w, nil, day))
	assert.NotEqual(t, base, Key(w, profile, day.AddDate(0, 0, 1)))
	assert.Equal(t, base, Key(w, profile, day.Add(3*time.Hour)))
}

func TestKey_ChangesWithContentAtSameVersion(t *testing.T) {
	first := &domain.Workout{ID: "w1", Version: 1, Description: "first backup"}
	second := &domain.Workout{ID: "w1", Version: 1, Description: "second backup"}
	assert.NotEqual(t, Key(first, nil, day), Key(second, nil, day))
}

func TestRenderCache_SkipsLargeEntries(t *testing.T) {
	c := NewRenderCache(1, 0)
	key := []byte("big")
	c.Set(key, &Entry{Data: bytes.Repeat([]byte{'x'}, 64*1024)})

	_, ok := c.Get(key)
	assert.False(t, ok)
	assert.EqualValues(t, 0, c.EntryCount())
}
