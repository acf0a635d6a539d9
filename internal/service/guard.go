package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/npezzotti/go-roomcal/internal/database"
	"github.com/npezzotti/go-roomcal/internal/stats"
	"github.com/sirupsen/logrus"
)

// Access checks are evaluated inside the caller's transaction on every
// request. Rooms a caller does not belong to are reported as ErrNotFound,
// the same as rooms that do not exist; ErrForbidden is only returned to
// members who lack the owner role or authorship.

// roomForMember resolves a room code and the actor's membership in it.
func roomForMember(ctx context.Context, tx database.Tx, code string, actorId uuid.UUID) (database.Room, database.Membership, error) {
	code = NormalizeRoomCode(code)
	if !ValidRoomCode(code) {
		return database.Room{}, database.Membership{}, ErrNotFound
	}

	room, err := tx.GetRoomByCode(ctx, code)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return database.Room{}, database.Membership{}, ErrNotFound
		}
		return database.Room{}, database.Membership{}, fmt.Errorf("get room: %w", err)
	}

	m, err := membership(ctx, tx, room.Id, actorId)
	if err != nil {
		return database.Room{}, database.Membership{}, err
	}

	return room, m, nil
}

// roomForOwner is roomForMember restricted to the room's owner.
func roomForOwner(ctx context.Context, tx database.Tx, code string, actorId uuid.UUID) (database.Room, error) {
	room, m, err := roomForMember(ctx, tx, code, actorId)
	if err != nil {
		return database.Room{}, err
	}

	if m.Role != database.RoleOwner {
		return database.Room{}, ErrForbidden
	}

	return room, nil
}

// eventForMember resolves an event and checks that the actor belongs to
// the room that owns it.
func eventForMember(ctx context.Context, tx database.Tx, eventId, actorId uuid.UUID) (database.Event, error) {
	event, err := tx.GetEvent(ctx, eventId)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return database.Event{}, ErrNotFound
		}
		return database.Event{}, fmt.Errorf("get event: %w", err)
	}

	if _, err := membership(ctx, tx, event.RoomId, actorId); err != nil {
		return database.Event{}, err
	}

	return event, nil
}

func membership(ctx context.Context, tx database.Tx, roomId, userId uuid.UUID) (database.Membership, error) {
	m, err := tx.GetMembership(ctx, roomId, userId)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return database.Membership{}, ErrNotFound
		}
		return database.Membership{}, fmt.Errorf("get membership: %w", err)
	}

	return m, nil
}

func (s *RoomCalService) IsMember(ctx context.Context, roomId, userId uuid.UUID) (bool, error) {
	var ok bool
	err := s.store.InTx(ctx, func(tx database.Tx) error {
		_, err := membership(ctx, tx, roomId, userId)
		if errors.Is(err, ErrNotFound) {
			return nil
		}
		ok = err == nil
		return err
	})

	return ok, err
}

func (s *RoomCalService) IsOwner(ctx context.Context, roomId, userId uuid.UUID) (bool, error) {
	var ok bool
	err := s.store.InTx(ctx, func(tx database.Tx) error {
		m, err := membership(ctx, tx, roomId, userId)
		if errors.Is(err, ErrNotFound) {
			return nil
		}
		ok = err == nil && m.Role == database.RoleOwner
		return err
	})

	return ok, err
}

// fail logs err at a level matching its kind and passes it through.
// Refused access attempts are also counted.
func (s *RoomCalService) fail(logCtx *logrus.Entry, err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, ErrNotFound), errors.Is(err, ErrForbidden), errors.Is(err, ErrSelfRemoval):
		s.stats.Incr(stats.AccessDenied)
		logCtx.WithError(err).Warn("access denied")
	case errors.Is(err, ErrInvalidInput), errors.Is(err, ErrEmailTaken),
		errors.Is(err, ErrInvalidCredentials), errors.Is(err, ErrUnauthenticated):
		logCtx.WithError(err).Info("request rejected")
	default:
		logCtx.WithError(err).Error("operation failed")
	}

	return err
}
