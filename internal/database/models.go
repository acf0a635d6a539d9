package database

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

// Role is a member's standing in a room. The zero value is not a valid role.
type Role string

const (
	RoleOwner  Role = "owner"
	RoleMember Role = "member"
)

func ParseRole(s string) (Role, error) {
	switch Role(s) {
	case RoleOwner:
		return RoleOwner, nil
	case RoleMember:
		return RoleMember, nil
	default:
		return "", fmt.Errorf("unknown role %q", s)
	}
}

func (r Role) String() string {
	return string(r)
}

// Scan implements sql.Scanner so that a room_role column decodes straight
// into a Role, rejecting anything outside the two known values.
func (r *Role) Scan(src any) error {
	var s string
	switch v := src.(type) {
	case string:
		s = v
	case []byte:
		s = string(v)
	default:
		return fmt.Errorf("scan role: unsupported type %T", src)
	}

	role, err := ParseRole(s)
	if err != nil {
		return err
	}
	*r = role
	return nil
}

type User struct {
	Id           uuid.UUID
	Name         string
	EmailAddress string
	PasswordHash string
	CreatedAt    time.Time
}

type Room struct {
	Id        uuid.UUID
	Code      string
	Name      string
	OwnerId   uuid.UUID
	CreatedAt time.Time
	UpdatedAt time.Time
}

type Membership struct {
	RoomId   uuid.UUID
	UserId   uuid.UUID
	Role     Role
	JoinedAt time.Time
}

// Member is a roster entry: a membership joined with the user's name.
type Member struct {
	UserId   uuid.UUID
	Name     string
	Role     Role
	JoinedAt time.Time
}

// UserRoom is a room as seen by one of its members.
type UserRoom struct {
	Room
	Role Role
}

type Event struct {
	Id         uuid.UUID
	RoomId     uuid.UUID
	AuthorId   uuid.UUID
	AuthorName string
	Title      string
	StartTime  time.Time
	EndTime    time.Time
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

type Comment struct {
	Id         uuid.UUID
	EventId    uuid.UUID
	AuthorId   uuid.UUID
	AuthorName string
	Content    string
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

type CreateUserParams struct {
	Name         string
	EmailAddress string
	PasswordHash string
}

type CreateRoomParams struct {
	Code    string
	Name    string
	OwnerId uuid.UUID
}

type CreateEventParams struct {
	RoomId    uuid.UUID
	AuthorId  uuid.UUID
	Title     string
	StartTime time.Time
	EndTime   time.Time
}

type UpdateEventParams struct {
	Id        uuid.UUID
	Title     string
	StartTime time.Time
	EndTime   time.Time
}

type CreateCommentParams struct {
	EventId  uuid.UUID
	AuthorId uuid.UUID
	Content  string
}
