package types

import (
	"time"

	"github.com/google/uuid"
	"github.com/npezzotti/go-roomcal/internal/database"
)

type User struct {
	Id           uuid.UUID `json:"id"`
	Name         string    `json:"name"`
	EmailAddress string    `json:"email_address,omitempty"`
	CreatedAt    time.Time `json:"created_at,omitempty"`
}

type Room struct {
	Id        uuid.UUID `json:"id"`
	Code      string    `json:"code"`
	Name      string    `json:"name"`
	OwnerId   uuid.UUID `json:"owner_id"`
	Role      string    `json:"role,omitempty"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

type Member struct {
	UserId   uuid.UUID `json:"user_id"`
	Name     string    `json:"name"`
	Role     string    `json:"role"`
	JoinedAt time.Time `json:"joined_at"`
}

type Event struct {
	Id         uuid.UUID `json:"id"`
	RoomId     uuid.UUID `json:"room_id"`
	AuthorId   uuid.UUID `json:"author_id"`
	AuthorName string    `json:"author_name"`
	Title      string    `json:"title"`
	StartTime  time.Time `json:"start_time"`
	EndTime    time.Time `json:"end_time"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

type Comment struct {
	Id         uuid.UUID `json:"id"`
	EventId    uuid.UUID `json:"event_id"`
	AuthorId   uuid.UUID `json:"author_id"`
	AuthorName string    `json:"author_name"`
	Content    string    `json:"content"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

// NewUser never carries the password hash.
func NewUser(u database.User) User {
	return User{
		Id:           u.Id,
		Name:         u.Name,
		EmailAddress: u.EmailAddress,
		CreatedAt:    u.CreatedAt,
	}
}

func NewRoom(r database.Room) Room {
	return Room{
		Id:        r.Id,
		Code:      r.Code,
		Name:      r.Name,
		OwnerId:   r.OwnerId,
		CreatedAt: r.CreatedAt,
		UpdatedAt: r.UpdatedAt,
	}
}

func NewUserRoom(ur database.UserRoom) Room {
	r := NewRoom(ur.Room)
	r.Role = ur.Role.String()
	return r
}

func NewUserRooms(urs []database.UserRoom) []Room {
	rooms := make([]Room, 0, len(urs))
	for _, ur := range urs {
		rooms = append(rooms, NewUserRoom(ur))
	}
	return rooms
}

func NewMembers(ms []database.Member) []Member {
	members := make([]Member, 0, len(ms))
	for _, m := range ms {
		members = append(members, Member{
			UserId:   m.UserId,
			Name:     m.Name,
			Role:     m.Role.String(),
			JoinedAt: m.JoinedAt,
		})
	}
	return members
}

func NewEvent(e database.Event) Event {
	return Event{
		Id:         e.Id,
		RoomId:     e.RoomId,
		AuthorId:   e.AuthorId,
		AuthorName: e.AuthorName,
		Title:      e.Title,
		StartTime:  e.StartTime,
		EndTime:    e.EndTime,
		CreatedAt:  e.CreatedAt,
		UpdatedAt:  e.UpdatedAt,
	}
}

func NewEvents(es []database.Event) []Event {
	events := make([]Event, 0, len(es))
	for _, e := range es {
		events = append(events, NewEvent(e))
	}
	return events
}

func NewComment(c database.Comment) Comment {
	return Comment{
		Id:         c.Id,
		EventId:    c.EventId,
		AuthorId:   c.AuthorId,
		AuthorName: c.AuthorName,
		Content:    c.Content,
		CreatedAt:  c.CreatedAt,
		UpdatedAt:  c.UpdatedAt,
	}
}

func NewComments(cs []database.Comment) []Comment {
	comments := make([]Comment, 0, len(cs))
	for _, c := range cs {
		comments = append(comments, NewComment(c))
	}
	return comments
}
