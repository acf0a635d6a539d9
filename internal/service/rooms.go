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

const maxRoomNameLength = 100

func cleanRoomName(name string) (string, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return "", invalidInput("room name is required")
	}
	if utf8.RuneCountInString(name) > maxRoomNameLength {
		return "", invalidInput("room name is longer than %d characters", maxRoomNameLength)
	}

	return name, nil
}

// CreateRoom allocates a fresh room code and creates the room together
// with the owner's membership.
func (s *RoomCalService) CreateRoom(ctx context.Context, actorId uuid.UUID, name string) (database.Room, error) {
	logCtx := s.log.WithField("actor", actorId)

	name, err := cleanRoomName(name)
	if err != nil {
		return database.Room{}, s.fail(logCtx, err)
	}

	var room database.Room
	err = s.store.InTx(ctx, func(tx database.Tx) error {
		for attempt := 1; attempt <= maxRoomCodeAttempts; attempt++ {
			code, err := s.generateRoomCode()
			if err != nil {
				return fmt.Errorf("generate room code: %w", err)
			}

			room, err = tx.CreateRoom(ctx, database.CreateRoomParams{
				Code:    code,
				Name:    name,
				OwnerId: actorId,
			})
			if errors.Is(err, database.ErrConflict) {
				logCtx.WithField("code", code).Debugf("room code taken, retrying (attempt %d)", attempt)
				continue
			}
			if err != nil {
				return fmt.Errorf("create room: %w", err)
			}

			if _, err := tx.CreateMembership(ctx, room.Id, actorId, database.RoleOwner); err != nil {
				return fmt.Errorf("create owner membership: %w", err)
			}

			return nil
		}

		return ErrRoomCreationExhausted
	})
	if err != nil {
		return database.Room{}, s.fail(logCtx, err)
	}

	s.stats.Incr(stats.RoomsCreated)
	logCtx.WithField("code", room.Code).Info("room created")
	return room, nil
}

// JoinRoom adds the actor as a member. Joining a room the actor already
// belongs to succeeds without changing anything.
func (s *RoomCalService) JoinRoom(ctx context.Context, actorId uuid.UUID, code string) (database.Room, error) {
	code = NormalizeRoomCode(code)
	logCtx := s.log.WithFields(logrus.Fields{"actor": actorId, "code": code})

	if !ValidRoomCode(code) {
		return database.Room{}, s.fail(logCtx, ErrNotFound)
	}

	var (
		room    database.Room
		created bool
	)
	err := s.store.InTx(ctx, func(tx database.Tx) error {
		var err error
		room, err = tx.GetRoomByCode(ctx, code)
		if errors.Is(err, sql.ErrNoRows) {
			return ErrNotFound
		}
		if err != nil {
			return fmt.Errorf("get room: %w", err)
		}

		created, err = tx.CreateMembership(ctx, room.Id, actorId, database.RoleMember)
		if err != nil {
			return fmt.Errorf("create membership: %w", err)
		}

		return nil
	})
	if err != nil {
		return database.Room{}, s.fail(logCtx, err)
	}

	if created {
		s.stats.Incr(stats.RoomJoins)
		logCtx.Info("joined room")
	}
	return room, nil
}

func (s *RoomCalService) GetRoom(ctx context.Context, actorId uuid.UUID, code string) (database.UserRoom, error) {
	var ur database.UserRoom
	err := s.store.InTx(ctx, func(tx database.Tx) error {
		room, m, err := roomForMember(ctx, tx, code, actorId)
		if err != nil {
			return err
		}

		ur = database.UserRoom{Room: room, Role: m.Role}
		return nil
	})
	if err != nil {
		return database.UserRoom{}, s.fail(s.log.WithFields(logrus.Fields{"actor": actorId, "code": code}), err)
	}

	return ur, nil
}

func (s *RoomCalService) RenameRoom(ctx context.Context, actorId uuid.UUID, code, name string) (database.Room, error) {
	logCtx := s.log.WithFields(logrus.Fields{"actor": actorId, "code": code})

	name, err := cleanRoomName(name)
	if err != nil {
		return database.Room{}, s.fail(logCtx, err)
	}

	var room database.Room
	err = s.store.InTx(ctx, func(tx database.Tx) error {
		r, err := roomForOwner(ctx, tx, code, actorId)
		if err != nil {
			return err
		}

		room, err = tx.UpdateRoomName(ctx, r.Id, name)
		if err != nil {
			return fmt.Errorf("update room name: %w", err)
		}

		return nil
	})
	if err != nil {
		return database.Room{}, s.fail(logCtx, err)
	}

	logCtx.Info("room renamed")
	return room, nil
}

// DeleteRoom removes a room along with its memberships, events and
// comments.
func (s *RoomCalService) DeleteRoom(ctx context.Context, actorId uuid.UUID, code string) error {
	logCtx := s.log.WithFields(logrus.Fields{"actor": actorId, "code": code})

	err := s.store.InTx(ctx, func(tx database.Tx) error {
		room, err := roomForOwner(ctx, tx, code, actorId)
		if err != nil {
			return err
		}

		if err := tx.DeleteRoom(ctx, room.Id); err != nil {
			return fmt.Errorf("delete room: %w", err)
		}

		return nil
	})
	if err != nil {
		return s.fail(logCtx, err)
	}

	s.stats.Incr(stats.RoomsDeleted)
	logCtx.Info("room deleted")
	return nil
}

// ListRooms returns every room the actor belongs to, with the actor's role.
func (s *RoomCalService) ListRooms(ctx context.Context, actorId uuid.UUID) ([]database.UserRoom, error) {
	var rooms []database.UserRoom
	err := s.store.InTx(ctx, func(tx database.Tx) error {
		var err error
		rooms, err = tx.ListRoomsForUser(ctx, actorId)
		if err != nil {
			return fmt.Errorf("list rooms: %w", err)
		}

		return nil
	})
	if err != nil {
		return nil, s.fail(s.log.WithField("actor", actorId), err)
	}

	return rooms, nil
}

func (s *RoomCalService) ListMembers(ctx context.Context, actorId uuid.UUID, code string) ([]database.Member, error) {
	var members []database.Member
	err := s.store.InTx(ctx, func(tx database.Tx) error {
		room, _, err := roomForMember(ctx, tx, code, actorId)
		if err != nil {
			return err
		}

		members, err = tx.ListMembers(ctx, room.Id)
		if err != nil {
			return fmt.Errorf("list members: %w", err)
		}

		return nil
	})
	if err != nil {
		return nil, s.fail(s.log.WithFields(logrus.Fields{"actor": actorId, "code": code}), err)
	}

	return members, nil
}

// RemoveMember revokes another user's membership. Owners cannot remove
// themselves; deleting the room is the only way for them to leave.
func (s *RoomCalService) RemoveMember(ctx context.Context, actorId uuid.UUID, code string, targetId uuid.UUID) error {
	logCtx := s.log.WithFields(logrus.Fields{"actor": actorId, "code": code, "target": targetId})

	err := s.store.InTx(ctx, func(tx database.Tx) error {
		room, err := roomForOwner(ctx, tx, code, actorId)
		if err != nil {
			return err
		}

		if targetId == actorId {
			return ErrSelfRemoval
		}

		err = tx.DeleteMembership(ctx, room.Id, targetId)
		if errors.Is(err, sql.ErrNoRows) {
			return ErrNotFound
		}
		if err != nil {
			return fmt.Errorf("delete membership: %w", err)
		}

		return nil
	})
	if err != nil {
		return s.fail(logCtx, err)
	}

	logCtx.Info("member removed")
	return nil
}
