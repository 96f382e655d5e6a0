package selector_test

import (
	"github.com/clambin/aws4home/internal/event"
	"github.com/clambin/aws4home/internal/selector"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"testing"
	"time"
)

var now = time.Date(2024, time.March, 1, 12, 0, 0, 0, time.UTC)

func at(d time.Duration) event.Event {
	return event.Event{Start: now.Add(d)}
}

func TestSelector_Select(t *testing.T) {
	tests := []struct {
		name       string
		selector   selector.Selector
		candidates event.Events
		want       event.Event
		wantErr    error
	}{
		{
			name:       "first: empty",
			selector:   selector.Selector{Policy: selector.FirstFuture},
			candidates: nil,
			wantErr:    selector.ErrNoEvent,
		},
		{
			name:       "first: all in the past",
			selector:   selector.Selector{Policy: selector.FirstFuture},
			candidates: event.Events{at(-2 * time.Hour), at(-time.Hour), at(0)},
			wantErr:    selector.ErrNoEvent,
		},
		{
			name:       "first: sorted",
			selector:   selector.Selector{Policy: selector.FirstFuture},
			candidates: event.Events{at(-time.Hour), at(time.Minute), at(time.Hour)},
			want:       at(time.Minute),
		},
		{
			name:       "first: unsorted",
			selector:   selector.Selector{Policy: selector.FirstFuture},
			candidates: event.Events{at(time.Hour), at(-time.Hour), at(time.Minute)},
			want:       at(time.Minute),
		},
		{
			name:       "near: skips events inside the threshold",
			selector:   selector.Selector{Policy: selector.NearButNotTooNear, Threshold: 5 * time.Minute},
			candidates: event.Events{at(-time.Hour), at(4 * time.Minute), at(5 * time.Minute), at(6 * time.Minute), at(time.Hour)},
			want:       at(6 * time.Minute),
		},
		{
			name:       "near: none beyond the threshold",
			selector:   selector.Selector{Policy: selector.NearButNotTooNear, Threshold: 5 * time.Minute},
			candidates: event.Events{at(time.Minute), at(2 * time.Minute)},
			wantErr:    selector.ErrNoEvent,
		},
		{
			name:       "lookahead: selects the event after the first one beyond the threshold",
			selector:   selector.Selector{Policy: selector.LookAheadOne, Threshold: time.Hour},
			candidates: event.Events{at(10 * time.Minute), at(2 * time.Hour), at(26 * time.Hour)},
			want:       at(26 * time.Hour),
		},
		{
			name:       "lookahead: nothing follows",
			selector:   selector.Selector{Policy: selector.LookAheadOne, Threshold: time.Hour},
			candidates: event.Events{at(10 * time.Minute), at(2 * time.Hour)},
			wantErr:    selector.ErrIndexOutOfRange,
		},
		{
			name:       "lookahead: none beyond the threshold",
			selector:   selector.Selector{Policy: selector.LookAheadOne, Threshold: time.Hour},
			candidates: event.Events{at(10 * time.Minute), at(20 * time.Minute)},
			wantErr:    selector.ErrNoEvent,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			got, err := tt.selector.Select(tt.candidates, now)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestSelector_Select_TimeZones(t *testing.T) {
	berlin := time.FixedZone("CET", 3600)

	// 12:30 in Berlin is 11:30 UTC, i.e. before now.
	candidates := event.Events{
		{Start: time.Date(2024, time.March, 1, 12, 30, 0, 0, berlin)},
		{Start: time.Date(2024, time.March, 1, 13, 30, 0, 0, berlin)},
	}
	got, err := selector.Selector{Policy: selector.FirstFuture}.Select(candidates, now)
	require.NoError(t, err)
	assert.Equal(t, candidates[1], got)
}

func TestSelector_Select_InvalidPolicy(t *testing.T) {
	_, err := selector.Selector{Policy: -1}.Select(event.Events{at(time.Hour)}, now)
	assert.Error(t, err)
}

func TestParsePolicy(t *testing.T) {
	for _, p := range []selector.Policy{selector.FirstFuture, selector.NearButNotTooNear, selector.LookAheadOne} {
		got, err := selector.ParsePolicy(p.String())
		require.NoError(t, err)
		assert.Equal(t, p, got)
	}

	_, err := selector.ParsePolicy("latest")
	assert.Error(t, err)
	assert.Equal(t, "unknown", selector.Policy(-1).String())
}

func TestPolicy_UnmarshalText(t *testing.T) {
	var p selector.Policy
	require.NoError(t, p.UnmarshalText([]byte("lookahead")))
	assert.Equal(t, selector.LookAheadOne, p)
	assert.Error(t, p.UnmarshalText([]byte("foo")))
}
