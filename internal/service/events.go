package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/google/uuid"
	"github.com/npezzotti/go-roomcal/internal/database"
	"github.com/npezzotti/go-roomcal/internal/stats"
	"github.com/sirupsen/logrus"
)

const maxTitleLength = 200

// validate applies the same rules to created and updated events: a
// non-empty title and an end strictly after the start.
func (in EventInput) validate() (EventInput, error) {
	in.Title = strings.TrimSpace(in.Title)
	if in.Title == "" {
		return in, invalidInput("title is required")
	}
	if utf8.RuneCountInString(in.Title) > maxTitleLength {
		return in, invalidInput("title is longer than %d characters", maxTitleLength)
	}
	if in.StartTime.IsZero() || in.EndTime.IsZero() {
		return in, invalidInput("start and end times are required")
	}
	if !in.EndTime.After(in.StartTime) {
		return in, invalidInput("end time must be after start time")
	}

	in.StartTime = in.StartTime.UTC()
	in.EndTime = in.EndTime.UTC()
	return in, nil
}

func (s *RoomCalService) CreateEvent(ctx context.Context, actorId uuid.UUID, code string, input EventInput) (database.Event, error) {
	logCtx := s.log.WithFields(logrus.Fields{"actor": actorId, "code": code})

	input, err := input.validate()
	if err != nil {
		return database.Event{}, s.fail(logCtx, err)
	}

	var event database.Event
	err = s.store.InTx(ctx, func(tx database.Tx) error {
		room, _, err := roomForMember(ctx, tx, code, actorId)
		if err != nil {
			return err
		}

		event, err = tx.CreateEvent(ctx, database.CreateEventParams{
			RoomId:    room.Id,
			AuthorId:  actorId,
			Title:     input.Title,
			StartTime: input.StartTime,
			EndTime:   input.EndTime,
		})
		if err != nil {
			return fmt.Errorf("create event: %w", err)
		}

		return withAuthorName(ctx, tx, &event.AuthorName, actorId)
	})
	if err != nil {
		return database.Event{}, s.fail(logCtx, err)
	}

	s.stats.Incr(stats.EventsCreated)
	logCtx.WithField("event", event.Id).Info("event created")
	return event, nil
}

// authoredEvent loads an event of the room for mutation by its author.
func authoredEvent(ctx context.Context, tx database.Tx, code string, eventId, actorId uuid.UUID) (database.Event, error) {
	room, _, err := roomForMember(ctx, tx, code, actorId)
	if err != nil {
		return database.Event{}, err
	}

	event, err := tx.GetEventForUpdate(ctx, eventId)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return database.Event{}, ErrNotFound
		}
		return database.Event{}, fmt.Errorf("get event: %w", err)
	}

	if event.RoomId != room.Id {
		return database.Event{}, ErrNotFound
	}
	if event.AuthorId != actorId {
		return database.Event{}, ErrForbidden
	}

	return event, nil
}

func (s *RoomCalService) UpdateEvent(ctx context.Context, actorId uuid.UUID, code string, eventId uuid.UUID, input EventInput) (database.Event, error) {
	logCtx := s.log.WithFields(logrus.Fields{"actor": actorId, "code": code, "event": eventId})

	input, err := input.validate()
	if err != nil {
		return database.Event{}, s.fail(logCtx, err)
	}

	var event database.Event
	err = s.store.InTx(ctx, func(tx database.Tx) error {
		if _, err := authoredEvent(ctx, tx, code, eventId, actorId); err != nil {
			return err
		}

		var err error
		event, err = tx.UpdateEvent(ctx, database.UpdateEventParams{
			Id:        eventId,
			Title:     input.Title,
			StartTime: input.StartTime,
			EndTime:   input.EndTime,
		})
		if err != nil {
			return fmt.Errorf("update event: %w", err)
		}

		return withAuthorName(ctx, tx, &event.AuthorName, actorId)
	})
	if err != nil {
		return database.Event{}, s.fail(logCtx, err)
	}

	logCtx.Info("event updated")
	return event, nil
}

// DeleteEvent removes an event and its comments.
func (s *RoomCalService) DeleteEvent(ctx context.Context, actorId uuid.UUID, code string, eventId uuid.UUID) error {
	logCtx := s.log.WithFields(logrus.Fields{"actor": actorId, "code": code, "event": eventId})

	err := s.store.InTx(ctx, func(tx database.Tx) error {
		if _, err := authoredEvent(ctx, tx, code, eventId, actorId); err != nil {
			return err
		}

		if err := tx.DeleteEvent(ctx, eventId); err != nil {
			return fmt.Errorf("delete event: %w", err)
		}

		return nil
	})
	if err != nil {
		return s.fail(logCtx, err)
	}

	logCtx.Info("event deleted")
	return nil
}

// ListEvents returns all events of the room, unpaginated.
func (s *RoomCalService) ListEvents(ctx context.Context, actorId uuid.UUID, code string) ([]database.Event, error) {
	var events []database.Event
	err := s.store.InTx(ctx, func(tx database.Tx) error {
		room, _, err := roomForMember(ctx, tx, code, actorId)
		if err != nil {
			return err
		}

		events, err = tx.ListEvents(ctx, room.Id)
		if err != nil {
			return fmt.Errorf("list events: %w", err)
		}

		return nil
	})
	if err != nil {
		return nil, s.fail(s.log.WithFields(logrus.Fields{"actor": actorId, "code": code}), err)
	}

	return events, nil
}

func withAuthorName(ctx context.Context, tx database.Tx, dst *string, authorId uuid.UUID) error {
	author, err := tx.GetUserById(ctx, authorId)
	if err != nil {
		return fmt.Errorf("get author: %w", err)
	}

	*dst = author.Name
	return nil
}
