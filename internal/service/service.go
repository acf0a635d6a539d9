package service

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/npezzotti/go-roomcal/internal/database"
	"github.com/npezzotti/go-roomcal/internal/stats"
	"github.com/sirupsen/logrus"
	"golang.org/x/crypto/bcrypt"
)

const defaultPasswordCost = 12

// Service is the room calendar's full set of operations. The acting user
// is always passed explicitly; nothing is read from ambient request state.
type Service interface {
	Ping(ctx context.Context) error

	SignUp(ctx context.Context, params SignUpParams) (database.User, error)
	Authenticate(ctx context.Context, email, password string) (database.User, error)
	GetUser(ctx context.Context, userId uuid.UUID) (database.User, error)

	CreateRoom(ctx context.Context, actorId uuid.UUID, name string) (database.Room, error)
	JoinRoom(ctx context.Context, actorId uuid.UUID, code string) (database.Room, error)
	GetRoom(ctx context.Context, actorId uuid.UUID, code string) (database.UserRoom, error)
	RenameRoom(ctx context.Context, actorId uuid.UUID, code, name string) (database.Room, error)
	DeleteRoom(ctx context.Context, actorId uuid.UUID, code string) error
	ListRooms(ctx context.Context, actorId uuid.UUID) ([]database.UserRoom, error)

	ListMembers(ctx context.Context, actorId uuid.UUID, code string) ([]database.Member, error)
	RemoveMember(ctx context.Context, actorId uuid.UUID, code string, targetId uuid.UUID) error
	IsMember(ctx context.Context, roomId, userId uuid.UUID) (bool, error)
	IsOwner(ctx context.Context, roomId, userId uuid.UUID) (bool, error)

	CreateEvent(ctx context.Context, actorId uuid.UUID, code string, input EventInput) (database.Event, error)
	UpdateEvent(ctx context.Context, actorId uuid.UUID, code string, eventId uuid.UUID, input EventInput) (database.Event, error)
	DeleteEvent(ctx context.Context, actorId uuid.UUID, code string, eventId uuid.UUID) error
	ListEvents(ctx context.Context, actorId uuid.UUID, code string) ([]database.Event, error)

	AddComment(ctx context.Context, actorId, eventId uuid.UUID, content string) (database.Comment, error)
	UpdateComment(ctx context.Context, actorId, eventId, commentId uuid.UUID, content string) (database.Comment, error)
	DeleteComment(ctx context.Context, actorId, eventId, commentId uuid.UUID) error
	ListComments(ctx context.Context, actorId, eventId uuid.UUID) ([]database.Comment, error)
}

type SignUpParams struct {
	Name     string
	Email    string
	Password string
}

type EventInput struct {
	Title     string
	StartTime time.Time
	EndTime   time.Time
}

type RoomCalService struct {
	store database.Store
	log   *logrus.Logger
	stats stats.StatsProvider

	generateRoomCode func() (string, error)
	passwordCost     int
	checkPassword    func(hash, passwd string) bool

	dummyOnce sync.Once
	dummy     string
}

var _ Service = (*RoomCalService)(nil)

func NewRoomCalService(store database.Store, logger *logrus.Logger, su stats.StatsProvider) *RoomCalService {
	for _, name := range []string{
		stats.SignUps,
		stats.LoginFailures,
		stats.RoomsCreated,
		stats.RoomsDeleted,
		stats.RoomJoins,
		stats.EventsCreated,
		stats.CommentsPosted,
		stats.AccessDenied,
	} {
		su.RegisterMetric(name)
	}

	return &RoomCalService{
		store:            store,
		log:              logger,
		stats:            su,
		generateRoomCode: GenerateRoomCode,
		passwordCost:     defaultPasswordCost,
		checkPassword:    verifyPassword,
	}
}

// Ping reports whether the datastore is reachable.
func (s *RoomCalService) Ping(ctx context.Context) error {
	return s.store.Ping(ctx)
}

func (s *RoomCalService) hashPassword(passwd string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(passwd), s.passwordCost)
	return string(hash), err
}

func verifyPassword(passwdHash, passwd string) bool {
	err := bcrypt.CompareHashAndPassword([]byte(passwdHash), []byte(passwd))
	return err == nil
}
