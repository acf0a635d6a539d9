package service

import (
	"context"

	"github.com/google/uuid"
	"github.com/npezzotti/go-roomcal/internal/database"
	"github.com/stretchr/testify/mock"
)

type MockService struct {
	mock.Mock
}

func (m *MockService) Ping(ctx context.Context) error {
	args := m.Called()
	return args.Error(0)
}
func (m *MockService) SignUp(ctx context.Context, params SignUpParams) (database.User, error) {
	args := m.Called(params)
	return args.Get(0).(database.User), args.Error(1)
}
func (m *MockService) Authenticate(ctx context.Context, email, password string) (database.User, error) {
	args := m.Called(email, password)
	return args.Get(0).(database.User), args.Error(1)
}
func (m *MockService) GetUser(ctx context.Context, userId uuid.UUID) (database.User, error) {
	args := m.Called(userId)
	return args.Get(0).(database.User), args.Error(1)
}
func (m *MockService) CreateRoom(ctx context.Context, actorId uuid.UUID, name string) (database.Room, error) {
	args := m.Called(actorId, name)
	return args.Get(0).(database.Room), args.Error(1)
}
func (m *MockService) JoinRoom(ctx context.Context, actorId uuid.UUID, code string) (database.Room, error) {
	args := m.Called(actorId, code)
	return args.Get(0).(database.Room), args.Error(1)
}
func (m *MockService) GetRoom(ctx context.Context, actorId uuid.UUID, code string) (database.UserRoom, error) {
	args := m.Called(actorId, code)
	return args.Get(0).(database.UserRoom), args.Error(1)
}
func (m *MockService) RenameRoom(ctx context.Context, actorId uuid.UUID, code, name string) (database.Room, error) {
	args := m.Called(actorId, code, name)
	return args.Get(0).(database.Room), args.Error(1)
}
func (m *MockService) DeleteRoom(ctx context.Context, actorId uuid.UUID, code string) error {
	args := m.Called(actorId, code)
	return args.Error(0)
}
func (m *MockService) ListRooms(ctx context.Context, actorId uuid.UUID) ([]database.UserRoom, error) {
	args := m.Called(actorId)
	return args.Get(0).([]database.UserRoom), args.Error(1)
}
func (m *MockService) ListMembers(ctx context.Context, actorId uuid.UUID, code string) ([]database.Member, error) {
	args := m.Called(actorId, code)
	return args.Get(0).([]database.Member), args.Error(1)
}
func (m *MockService) RemoveMember(ctx context.Context, actorId uuid.UUID, code string, targetId uuid.UUID) error {
	args := m.Called(actorId, code, targetId)
	return args.Error(0)
}
func (m *MockService) IsMember(ctx context.Context, roomId, userId uuid.UUID) (bool, error) {
	args := m.Called(roomId, userId)
	return args.Bool(0), args.Error(1)
}
func (m *MockService) IsOwner(ctx context.Context, roomId, userId uuid.UUID) (bool, error) {
	args := m.Called(roomId, userId)
	return args.Bool(0), args.Error(1)
}
func (m *MockService) CreateEvent(ctx context.Context, actorId uuid.UUID, code string, input EventInput) (database.Event, error) {
	args := m.Called(actorId, code, input)
	return args.Get(0).(database.Event), args.Error(1)
}
func (m *MockService) UpdateEvent(ctx context.Context, actorId uuid.UUID, code string, eventId uuid.UUID, input EventInput) (database.Event, error) {
	args := m.Called(actorId, code, eventId, input)
	return args.Get(0).(database.Event), args.Error(1)
}
func (m *MockService) DeleteEvent(ctx context.Context, actorId uuid.UUID, code string, eventId uuid.UUID) error {
	args := m.Called(actorId, code, eventId)
	return args.Error(0)
}
func (m *MockService) ListEvents(ctx context.Context, actorId uuid.UUID, code string) ([]database.Event, error) {
	args := m.Called(actorId, code)
	return args.Get(0).([]database.Event), args.Error(1)
}
func (m *MockService) AddComment(ctx context.Context, actorId, eventId uuid.UUID, content string) (database.Comment, error) {
	args := m.Called(actorId, eventId, content)
	return args.Get(0).(database.Comment), args.Error(1)
}
func (m *MockService) UpdateComment(ctx context.Context, actorId, eventId, commentId uuid.UUID, content string) (database.Comment, error) {
	args := m.Called(actorId, eventId, commentId, content)
	return args.Get(0).(database.Comment), args.Error(1)
}
func (m *MockService) DeleteComment(ctx context.Context, actorId, eventId, commentId uuid.UUID) error {
	args := m.Called(actorId, eventId, commentId)
	return args.Error(0)
}
func (m *MockService) ListComments(ctx context.Context, actorId, eventId uuid.UUID) ([]database.Comment, error) {
	args := m.Called(actorId, eventId)
	return args.Get(0).([]database.Comment), args.Error(1)
}
