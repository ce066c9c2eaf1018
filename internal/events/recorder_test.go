package events

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRecentNewestFirst(t *testing.T) {
	r := NewRecorder(4)

	r.Record(Decision{Callback: "allow_get_cookie", Outcome: "allow"})
	r.Record(Decision{Callback: "can_create_window", Outcome: "deny"})
	r.Record(Decision{Callback: "can_create_window", Outcome: "allow"})

	recent := r.Recent(2)
	require.Len(t, recent, 2)
	assert.Equal(t, "allow", recent[0].Outcome)
	assert.Equal(t, "deny", recent[1].Outcome)
	assert.False(t, recent[0].Time.IsZero())
}

func TestRingOverwrite(t *testing.T) {
	r := NewRecorder(2)

	r.Record(Decision{Callback: "a"})
	r.Record(Decision{Callback: "b"})
	r.Record(Decision{Callback: "c"})

	recent := r.Recent(0)
	require.Len(t, recent, 2)
	assert.Equal(t, "c", recent[0].Callback)
	assert.Equal(t, "b", recent[1].Callback)
}

func TestSubscribe(t *testing.T) {
	r := NewRecorder(8)

	ch, cancel := r.Subscribe()
	defer cancel()

	r.Record(Decision{Callback: "storage_partition", Outcome: "default"})

	d := <-ch
	assert.Equal(t, "storage_partition", d.Callback)
}

func TestCancelIsIdempotent(t *testing.T) {
	r := NewRecorder(8)

	_, cancel := r.Subscribe()
	cancel()
	cancel() // Second cancel must not panic.

	r.Record(Decision{Callback: "after_cancel"})
}
