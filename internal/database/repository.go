package database

import (
	"context"
	"errors"

	"github.com/google/uuid"
)

// ErrConflict is returned when a write collides with a unique key.
var ErrConflict = errors.New("unique key conflict")

// Store is the entry point to the datastore. Every logical action runs
// inside a single InTx call so that authorization reads and the writes
// that depend on them commit or roll back together.
type Store interface {
	Ping(ctx context.Context) error
	InTx(ctx context.Context, fn func(tx Tx) error) error
	Close() error
}

// Tx is the set of queries available inside a transaction. Lookups that
// return a single row report sql.ErrNoRows when nothing matches.
type Tx interface {
	CreateUser(ctx context.Context, params CreateUserParams) (User, error)
	GetUserById(ctx context.Context, id uuid.UUID) (User, error)
	GetUserByEmail(ctx context.Context, email string) (User, error)

	// CreateRoom returns ErrConflict without aborting the transaction when
	// the room code is already taken.
	CreateRoom(ctx context.Context, params CreateRoomParams) (Room, error)
	GetRoomByCode(ctx context.Context, code string) (Room, error)
	UpdateRoomName(ctx context.Context, roomId uuid.UUID, name string) (Room, error)
	DeleteRoom(ctx context.Context, roomId uuid.UUID) error
	ListRoomsForUser(ctx context.Context, userId uuid.UUID) ([]UserRoom, error)

	// CreateMembership reports false when the membership already existed.
	CreateMembership(ctx context.Context, roomId, userId uuid.UUID, role Role) (bool, error)
	GetMembership(ctx context.Context, roomId, userId uuid.UUID) (Membership, error)
	DeleteMembership(ctx context.Context, roomId, userId uuid.UUID) error
	ListMembers(ctx context.Context, roomId uuid.UUID) ([]Member, error)

	CreateEvent(ctx context.Context, params CreateEventParams) (Event, error)
	GetEvent(ctx context.Context, id uuid.UUID) (Event, error)
	GetEventForUpdate(ctx context.Context, id uuid.UUID) (Event, error)
	UpdateEvent(ctx context.Context, params UpdateEventParams) (Event, error)
	DeleteEvent(ctx context.Context, id uuid.UUID) error
	ListEvents(ctx context.Context, roomId uuid.UUID) ([]Event, error)

	CreateComment(ctx context.Context, params CreateCommentParams) (Comment, error)
	GetCommentForUpdate(ctx context.Context, id uuid.UUID) (Comment, error)
	UpdateComment(ctx context.Context, id uuid.UUID, content string) (Comment, error)
	DeleteComment(ctx context.Context, id uuid.UUID) error
	ListComments(ctx context.Context, eventId uuid.UUID) ([]Comment, error)
}
