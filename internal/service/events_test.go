package service

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var jst = time.FixedZone("JST", 9*60*60)

// eventAt builds an input starting at the given hour on 2024-06-01 JST.
func eventAt(title string, hour, hours int) EventInput {
	start := time.Date(2024, 6, 1, hour, 0, 0, 0, jst)
	return EventInput{
		Title:     title,
		StartTime: start,
		EndTime:   start.Add(time.Duration(hours) * time.Hour),
	}
}

func TestEventInputValidate(t *testing.T) {
	start := time.Date(2024, 6, 1, 20, 0, 0, 0, jst)

	tcases := []struct {
		name  string
		input EventInput
		err   bool
	}{
		{name: "valid", input: EventInput{Title: "Ranked night", StartTime: start, EndTime: start.Add(time.Hour)}},
		{name: "missing title", input: EventInput{Title: "  ", StartTime: start, EndTime: start.Add(time.Hour)}, err: true},
		{name: "title too long", input: EventInput{Title: strings.Repeat("t", maxTitleLength+1), StartTime: start, EndTime: start.Add(time.Hour)}, err: true},
		{name: "missing start", input: EventInput{Title: "x", EndTime: start}, err: true},
		{name: "end equals start", input: EventInput{Title: "x", StartTime: start, EndTime: start}, err: true},
		{name: "end before start", input: EventInput{Title: "x", StartTime: start, EndTime: start.Add(-time.Minute)}, err: true},
	}

	for _, tc := range tcases {
		t.Run(tc.name, func(t *testing.T) {
			in, err := tc.input.validate()
			if tc.err {
				assert.ErrorIs(t, err, ErrInvalidInput)
				return
			}

			require.NoError(t, err)
			assert.Equal(t, time.UTC, in.StartTime.Location())
			assert.True(t, in.StartTime.Equal(start))
		})
	}
}

func TestEventAuthorship(t *testing.T) {
	s, store := newTestService(t)
	ctx := context.Background()
	owner := signUp(t, s, "aiko")
	author := signUp(t, s, "ben")
	other := signUp(t, s, "chie")
	stranger := signUp(t, s, "daichi")

	room, err := s.CreateRoom(ctx, owner, "Arcade")
	require.NoError(t, err)
	for _, id := range []uuid.UUID{author, other} {
		_, err = s.JoinRoom(ctx, id, room.Code)
		require.NoError(t, err)
	}

	ev, err := s.CreateEvent(ctx, author, room.Code, eventAt("Ranked night", 20, 2))
	require.NoError(t, err)
	assert.Equal(t, "ben", ev.AuthorName)
	assert.Equal(t, author, ev.AuthorId)

	t.Run("stranger cannot create", func(t *testing.T) {
		_, err := s.CreateEvent(ctx, stranger, room.Code, eventAt("Crash", 10, 1))
		assert.ErrorIs(t, err, ErrNotFound)
	})

	t.Run("stranger cannot list", func(t *testing.T) {
		_, err := s.ListEvents(ctx, stranger, room.Code)
		assert.ErrorIs(t, err, ErrNotFound)
	})

	t.Run("stranger cannot update", func(t *testing.T) {
		_, err := s.UpdateEvent(ctx, stranger, room.Code, ev.Id, eventAt("Mine", 20, 2))
		assert.ErrorIs(t, err, ErrNotFound)
	})

	t.Run("owner cannot update someone else's event", func(t *testing.T) {
		_, err := s.UpdateEvent(ctx, owner, room.Code, ev.Id, eventAt("Cancelled", 20, 2))
		assert.ErrorIs(t, err, ErrForbidden)
		assert.Equal(t, "Ranked night", store.t.events[ev.Id].Title)
	})

	t.Run("member cannot delete someone else's event", func(t *testing.T) {
		err := s.DeleteEvent(ctx, other, room.Code, ev.Id)
		assert.ErrorIs(t, err, ErrForbidden)
		assert.Contains(t, store.t.events, ev.Id)
	})

	t.Run("author updates", func(t *testing.T) {
		updated, err := s.UpdateEvent(ctx, author, room.Code, ev.Id, eventAt("Ranked night (late)", 21, 2))
		require.NoError(t, err)
		assert.Equal(t, "Ranked night (late)", updated.Title)
		assert.Equal(t, ev.CreatedAt, updated.CreatedAt)
	})

	t.Run("update must keep end after start", func(t *testing.T) {
		in := eventAt("Ranked night", 21, 2)
		in.EndTime = in.StartTime
		_, err := s.UpdateEvent(ctx, author, room.Code, ev.Id, in)
		assert.ErrorIs(t, err, ErrInvalidInput)
	})

	t.Run("unknown event", func(t *testing.T) {
		_, err := s.UpdateEvent(ctx, author, room.Code, uuid.New(), eventAt("x", 1, 1))
		assert.ErrorIs(t, err, ErrNotFound)
	})

	t.Run("author deletes", func(t *testing.T) {
		require.NoError(t, s.DeleteEvent(ctx, author, room.Code, ev.Id))
		assert.NotContains(t, store.t.events, ev.Id)
	})
}

func TestEventBelongsToRoom(t *testing.T) {
	s, store := newTestService(t)
	ctx := context.Background()
	aiko := signUp(t, s, "aiko")

	first, err := s.CreateRoom(ctx, aiko, "First")
	require.NoError(t, err)
	second, err := s.CreateRoom(ctx, aiko, "Second")
	require.NoError(t, err)

	ev, err := s.CreateEvent(ctx, aiko, first.Code, eventAt("Planning", 9, 1))
	require.NoError(t, err)

	// addressing the event through another room is not allowed even
	// for its author
	_, err = s.UpdateEvent(ctx, aiko, second.Code, ev.Id, eventAt("Moved", 9, 1))
	assert.ErrorIs(t, err, ErrNotFound)
	err = s.DeleteEvent(ctx, aiko, second.Code, ev.Id)
	assert.ErrorIs(t, err, ErrNotFound)
	assert.Contains(t, store.t.events, ev.Id)
}

func TestListEventsOrdered(t *testing.T) {
	s, _ := newTestService(t)
	ctx := context.Background()
	aiko := signUp(t, s, "aiko")

	room, err := s.CreateRoom(ctx, aiko, "Arcade")
	require.NoError(t, err)

	for _, in := range []EventInput{eventAt("late", 22, 1), eventAt("early", 8, 1), eventAt("noon", 12, 1)} {
		_, err := s.CreateEvent(ctx, aiko, room.Code, in)
		require.NoError(t, err)
	}

	events, err := s.ListEvents(ctx, aiko, room.Code)
	require.NoError(t, err)
	require.Len(t, events, 3)
	assert.Equal(t, "early", events[0].Title)
	assert.Equal(t, "noon", events[1].Title)
	assert.Equal(t, "late", events[2].Title)
	assert.Equal(t, "aiko", events[0].AuthorName)
}
