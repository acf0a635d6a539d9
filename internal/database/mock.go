package database

import (
	"context"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
)

// MockStore runs every transaction against Tx.
type MockStore struct {
	mock.Mock
	Tx *MockTx
}

func (m *MockStore) Ping(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}
func (m *MockStore) InTx(ctx context.Context, fn func(tx Tx) error) error {
	return fn(m.Tx)
}
func (m *MockStore) Close() error {
	args := m.Called()
	return args.Error(0)
}

type MockTx struct {
	mock.Mock
}

func (m *MockTx) CreateUser(ctx context.Context, params CreateUserParams) (User, error) {
	args := m.Called(ctx, params)
	return args.Get(0).(User), args.Error(1)
}
func (m *MockTx) GetUserById(ctx context.Context, id uuid.UUID) (User, error) {
	args := m.Called(ctx, id)
	return args.Get(0).(User), args.Error(1)
}
func (m *MockTx) GetUserByEmail(ctx context.Context, email string) (User, error) {
	args := m.Called(ctx, email)
	return args.Get(0).(User), args.Error(1)
}
func (m *MockTx) CreateRoom(ctx context.Context, params CreateRoomParams) (Room, error) {
	args := m.Called(ctx, params)
	return args.Get(0).(Room), args.Error(1)
}
func (m *MockTx) GetRoomByCode(ctx context.Context, code string) (Room, error) {
	args := m.Called(ctx, code)
	return args.Get(0).(Room), args.Error(1)
}
func (m *MockTx) UpdateRoomName(ctx context.Context, roomId uuid.UUID, name string) (Room, error) {
	args := m.Called(ctx, roomId, name)
	return args.Get(0).(Room), args.Error(1)
}
func (m *MockTx) DeleteRoom(ctx context.Context, roomId uuid.UUID) error {
	args := m.Called(ctx, roomId)
	return args.Error(0)
}
func (m *MockTx) ListRoomsForUser(ctx context.Context, userId uuid.UUID) ([]UserRoom, error) {
	args := m.Called(ctx, userId)
	return args.Get(0).([]UserRoom), args.Error(1)
}
func (m *MockTx) CreateMembership(ctx context.Context, roomId, userId uuid.UUID, role Role) (bool, error) {
	args := m.Called(ctx, roomId, userId, role)
	return args.Bool(0), args.Error(1)
}
func (m *MockTx) GetMembership(ctx context.Context, roomId, userId uuid.UUID) (Membership, error) {
	args := m.Called(ctx, roomId, userId)
	return args.Get(0).(Membership), args.Error(1)
}
func (m *MockTx) DeleteMembership(ctx context.Context, roomId, userId uuid.UUID) error {
	args := m.Called(ctx, roomId, userId)
	return args.Error(0)
}
func (m *MockTx) ListMembers(ctx context.Context, roomId uuid.UUID) ([]Member, error) {
	args := m.Called(ctx, roomId)
	return args.Get(0).([]Member), args.Error(1)
}
func (m *MockTx) CreateEvent(ctx context.Context, params CreateEventParams) (Event, error) {
	args := m.Called(ctx, params)
	return args.Get(0).(Event), args.Error(1)
}
func (m *MockTx) GetEvent(ctx context.Context, id uuid.UUID) (Event, error) {
	args := m.Called(ctx, id)
	return args.Get(0).(Event), args.Error(1)
}
func (m *MockTx) GetEventForUpdate(ctx context.Context, id uuid.UUID) (Event, error) {
	args := m.Called(ctx, id)
	return args.Get(0).(Event), args.Error(1)
}
func (m *MockTx) UpdateEvent(ctx context.Context, params UpdateEventParams) (Event, error) {
	args := m.Called(ctx, params)
	return args.Get(0).(Event), args.Error(1)
}
func (m *MockTx) DeleteEvent(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}
func (m *MockTx) ListEvents(ctx context.Context, roomId uuid.UUID) ([]Event, error) {
	args := m.Called(ctx, roomId)
	return args.Get(0).([]Event), args.Error(1)
}
func (m *MockTx) CreateComment(ctx context.Context, params CreateCommentParams) (Comment, error) {
	args := m.Called(ctx, params)
	return args.Get(0).(Comment), args.Error(1)
}
func (m *MockTx) GetCommentForUpdate(ctx context.Context, id uuid.UUID) (Comment, error) {
	args := m.Called(ctx, id)
	return args.Get(0).(Comment), args.Error(1)
}
func (m *MockTx) UpdateComment(ctx context.Context, id uuid.UUID, content string) (Comment, error) {
	args := m.Called(ctx, id, content)
	return args.Get(0).(Comment), args.Error(1)
}
func (m *MockTx) DeleteComment(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}
func (m *MockTx) ListComments(ctx context.Context, eventId uuid.UUID) ([]Comment, error) {
	args := m.Called(ctx, eventId)
	return args.Get(0).([]Comment), args.Error(1)
}
