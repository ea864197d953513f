package toolbar

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAll_OrderAndUniqueKeys(t *testing.T) {
	names := make([]string, 0, 8)
	keys := map[string]bool{}
	for _, a := range All() {
		names = append(names, a.Name())
		assert.False(t, keys[a.Key()], "duplicate key %s", a.Key())
		keys[a.Key()] = true
		assert.NotEmpty(t, a.Label())
	}
	assert.Equal(t, []string{"add", "edit", "delete", "save", "cancel", "search", "refresh", "help"}, names)
}

func TestParseAction(t *testing.T) {
	a, err := parse(" Save ")
	require.NoError(t, err)
	assert.IsType(t, Save{}, a)

	_, err = parse("print")
	require.ErrorIs(t, err, ErrUnknownAction)
}

func TestForKey(t *testing.T) {
	a, ok := ForKey("ctrl+s")
	require.True(t, ok)
	assert.Equal(t, Save{}, a)

	_, ok = ForKey("q")
	assert.False(t, ok)
}

func TestFeedback_Expires(t *testing.T) {
	now := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)
	f := NewFeedback(now, LevelSuccess, "Saved %d record", 1)

	assert.Equal(t, "Saved 1 record", f.Message)
	assert.True(t, f.Visible(now.Add(time.Second)))
	assert.False(t, f.Visible(now.Add(FeedbackTTL)))
	assert.False(t, Feedback{}.Visible(now))
}
