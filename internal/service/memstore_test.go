package service

import (
	"context"
	"database/sql"
	"maps"
	"slices"
	"sort"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/npezzotti/go-roomcal/internal/database"
	"github.com/npezzotti/go-roomcal/internal/stats"
	"github.com/npezzotti/go-roomcal/internal/testutil"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

type memberKey struct {
	room, user uuid.UUID
}

type memTables struct {
	users    map[uuid.UUID]database.User
	rooms    map[uuid.UUID]database.Room
	members  map[memberKey]database.Membership
	events   map[uuid.UUID]database.Event
	comments map[uuid.UUID]database.Comment
}

func (t memTables) clone() memTables {
	return memTables{
		users:    maps.Clone(t.users),
		rooms:    maps.Clone(t.rooms),
		members:  maps.Clone(t.members),
		events:   maps.Clone(t.events),
		comments: maps.Clone(t.comments),
	}
}

// memStore is an in-memory stand-in for the postgres store. Transactions
// are serialized and roll back by restoring a snapshot.
type memStore struct {
	mu    sync.Mutex
	t     memTables
	clock time.Time

	// membershipErr, when set, fails every membership insert.
	membershipErr error
}

func newMemStore() *memStore {
	return &memStore{
		t: memTables{
			users:    make(map[uuid.UUID]database.User),
			rooms:    make(map[uuid.UUID]database.Room),
			members:  make(map[memberKey]database.Membership),
			events:   make(map[uuid.UUID]database.Event),
			comments: make(map[uuid.UUID]database.Comment),
		},
		clock: time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC),
	}
}

func (s *memStore) Ping(ctx context.Context) error { return nil }
func (s *memStore) Close() error                   { return nil }

func (s *memStore) InTx(ctx context.Context, fn func(tx database.Tx) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	snapshot := s.t.clone()
	if err := fn(&memTx{s: s}); err != nil {
		s.t = snapshot
		return err
	}

	return nil
}

// now advances a fake clock so creation order is always observable.
func (s *memStore) now() time.Time {
	s.clock = s.clock.Add(time.Second)
	return s.clock
}

type memTx struct {
	s *memStore
}

func (m *memTx) CreateUser(ctx context.Context, params database.CreateUserParams) (database.User, error) {
	for _, u := range m.s.t.users {
		if u.EmailAddress == params.EmailAddress {
			return database.User{}, database.ErrConflict
		}
	}

	u := database.User{
		Id:           uuid.New(),
		Name:         params.Name,
		EmailAddress: params.EmailAddress,
		PasswordHash: params.PasswordHash,
		CreatedAt:    m.s.now(),
	}
	m.s.t.users[u.Id] = u
	return u, nil
}

func (m *memTx) GetUserById(ctx context.Context, id uuid.UUID) (database.User, error) {
	u, ok := m.s.t.users[id]
	if !ok {
		return database.User{}, sql.ErrNoRows
	}
	return u, nil
}

func (m *memTx) GetUserByEmail(ctx context.Context, email string) (database.User, error) {
	for _, u := range m.s.t.users {
		if u.EmailAddress == email {
			return u, nil
		}
	}
	return database.User{}, sql.ErrNoRows
}

func (m *memTx) CreateRoom(ctx context.Context, params database.CreateRoomParams) (database.Room, error) {
	for _, r := range m.s.t.rooms {
		if r.Code == params.Code {
			return database.Room{}, database.ErrConflict
		}
	}

	now := m.s.now()
	r := database.Room{
		Id:        uuid.New(),
		Code:      params.Code,
		Name:      params.Name,
		OwnerId:   params.OwnerId,
		CreatedAt: now,
		UpdatedAt: now,
	}
	m.s.t.rooms[r.Id] = r
	return r, nil
}

func (m *memTx) GetRoomByCode(ctx context.Context, code string) (database.Room, error) {
	for _, r := range m.s.t.rooms {
		if r.Code == code {
			return r, nil
		}
	}
	return database.Room{}, sql.ErrNoRows
}

func (m *memTx) UpdateRoomName(ctx context.Context, roomId uuid.UUID, name string) (database.Room, error) {
	r, ok := m.s.t.rooms[roomId]
	if !ok {
		return database.Room{}, sql.ErrNoRows
	}
	r.Name = name
	r.UpdatedAt = m.s.now()
	m.s.t.rooms[roomId] = r
	return r, nil
}

func (m *memTx) DeleteRoom(ctx context.Context, roomId uuid.UUID) error {
	if _, ok := m.s.t.rooms[roomId]; !ok {
		return sql.ErrNoRows
	}
	delete(m.s.t.rooms, roomId)

	for k := range m.s.t.members {
		if k.room == roomId {
			delete(m.s.t.members, k)
		}
	}
	for id, e := range m.s.t.events {
		if e.RoomId == roomId {
			m.deleteEvent(id)
		}
	}
	return nil
}

func (m *memTx) ListRoomsForUser(ctx context.Context, userId uuid.UUID) ([]database.UserRoom, error) {
	rooms := make([]database.UserRoom, 0)
	for k, mem := range m.s.t.members {
		if k.user == userId {
			rooms = append(rooms, database.UserRoom{Room: m.s.t.rooms[k.room], Role: mem.Role})
		}
	}
	sort.Slice(rooms, func(i, j int) bool { return rooms[i].CreatedAt.Before(rooms[j].CreatedAt) })
	return rooms, nil
}

func (m *memTx) CreateMembership(ctx context.Context, roomId, userId uuid.UUID, role database.Role) (bool, error) {
	if m.s.membershipErr != nil {
		return false, m.s.membershipErr
	}

	k := memberKey{roomId, userId}
	if _, ok := m.s.t.members[k]; ok {
		return false, nil
	}
	m.s.t.members[k] = database.Membership{RoomId: roomId, UserId: userId, Role: role, JoinedAt: m.s.now()}
	return true, nil
}

func (m *memTx) GetMembership(ctx context.Context, roomId, userId uuid.UUID) (database.Membership, error) {
	mem, ok := m.s.t.members[memberKey{roomId, userId}]
	if !ok {
		return database.Membership{}, sql.ErrNoRows
	}
	return mem, nil
}

func (m *memTx) DeleteMembership(ctx context.Context, roomId, userId uuid.UUID) error {
	k := memberKey{roomId, userId}
	if _, ok := m.s.t.members[k]; !ok {
		return sql.ErrNoRows
	}
	delete(m.s.t.members, k)
	return nil
}

func (m *memTx) ListMembers(ctx context.Context, roomId uuid.UUID) ([]database.Member, error) {
	members := make([]database.Member, 0)
	for k, mem := range m.s.t.members {
		if k.room == roomId {
			members = append(members, database.Member{
				UserId:   k.user,
				Name:     m.s.t.users[k.user].Name,
				Role:     mem.Role,
				JoinedAt: mem.JoinedAt,
			})
		}
	}
	sort.Slice(members, func(i, j int) bool { return members[i].JoinedAt.Before(members[j].JoinedAt) })
	return members, nil
}

func (m *memTx) CreateEvent(ctx context.Context, params database.CreateEventParams) (database.Event, error) {
	now := m.s.now()
	e := database.Event{
		Id:        uuid.New(),
		RoomId:    params.RoomId,
		AuthorId:  params.AuthorId,
		Title:     params.Title,
		StartTime: params.StartTime,
		EndTime:   params.EndTime,
		CreatedAt: now,
		UpdatedAt: now,
	}
	m.s.t.events[e.Id] = e
	return e, nil
}

func (m *memTx) GetEvent(ctx context.Context, id uuid.UUID) (database.Event, error) {
	e, ok := m.s.t.events[id]
	if !ok {
		return database.Event{}, sql.ErrNoRows
	}
	return e, nil
}

func (m *memTx) GetEventForUpdate(ctx context.Context, id uuid.UUID) (database.Event, error) {
	return m.GetEvent(ctx, id)
}

func (m *memTx) UpdateEvent(ctx context.Context, params database.UpdateEventParams) (database.Event, error) {
	e, ok := m.s.t.events[params.Id]
	if !ok {
		return database.Event{}, sql.ErrNoRows
	}
	e.Title = params.Title
	e.StartTime = params.StartTime
	e.EndTime = params.EndTime
	e.UpdatedAt = m.s.now()
	m.s.t.events[e.Id] = e
	return e, nil
}

func (m *memTx) deleteEvent(id uuid.UUID) {
	delete(m.s.t.events, id)
	for cid, c := range m.s.t.comments {
		if c.EventId == id {
			delete(m.s.t.comments, cid)
		}
	}
}

func (m *memTx) DeleteEvent(ctx context.Context, id uuid.UUID) error {
	if _, ok := m.s.t.events[id]; !ok {
		return sql.ErrNoRows
	}
	m.deleteEvent(id)
	return nil
}

func (m *memTx) ListEvents(ctx context.Context, roomId uuid.UUID) ([]database.Event, error) {
	events := make([]database.Event, 0)
	for _, e := range m.s.t.events {
		if e.RoomId == roomId {
			e.AuthorName = m.s.t.users[e.AuthorId].Name
			events = append(events, e)
		}
	}
	sort.Slice(events, func(i, j int) bool { return events[i].StartTime.Before(events[j].StartTime) })
	return events, nil
}

func (m *memTx) CreateComment(ctx context.Context, params database.CreateCommentParams) (database.Comment, error) {
	now := m.s.now()
	c := database.Comment{
		Id:        uuid.New(),
		EventId:   params.EventId,
		AuthorId:  params.AuthorId,
		Content:   params.Content,
		CreatedAt: now,
		UpdatedAt: now,
	}
	m.s.t.comments[c.Id] = c
	return c, nil
}

func (m *memTx) GetCommentForUpdate(ctx context.Context, id uuid.UUID) (database.Comment, error) {
	c, ok := m.s.t.comments[id]
	if !ok {
		return database.Comment{}, sql.ErrNoRows
	}
	return c, nil
}

func (m *memTx) UpdateComment(ctx context.Context, id uuid.UUID, content string) (database.Comment, error) {
	c, ok := m.s.t.comments[id]
	if !ok {
		return database.Comment{}, sql.ErrNoRows
	}
	c.Content = content
	c.UpdatedAt = m.s.now()
	m.s.t.comments[id] = c
	return c, nil
}

func (m *memTx) DeleteComment(ctx context.Context, id uuid.UUID) error {
	if _, ok := m.s.t.comments[id]; !ok {
		return sql.ErrNoRows
	}
	delete(m.s.t.comments, id)
	return nil
}

func (m *memTx) ListComments(ctx context.Context, eventId uuid.UUID) ([]database.Comment, error) {
	comments := make([]database.Comment, 0)
	for _, c := range m.s.t.comments {
		if c.EventId == eventId {
			c.AuthorName = m.s.t.users[c.AuthorId].Name
			comments = append(comments, c)
		}
	}
	slices.SortFunc(comments, func(a, b database.Comment) int { return a.CreatedAt.Compare(b.CreatedAt) })
	return comments, nil
}

// newTestService wires a service to a fresh in-memory store.
func newTestService(t *testing.T) (*RoomCalService, *memStore) {
	t.Helper()

	su := &stats.MockStatsUpdater{}
	su.On("RegisterMetric", mock.Anything).Return()
	su.On("Incr", mock.Anything).Return().Maybe()

	store := newMemStore()
	s := NewRoomCalService(store, testutil.TestLogger(t), su)
	s.passwordCost = bcrypt.MinCost
	return s, store
}

// signUp registers a user and returns its id.
func signUp(t *testing.T, s *RoomCalService, name string) uuid.UUID {
	t.Helper()

	u, err := s.SignUp(context.Background(), SignUpParams{
		Name:     name,
		Email:    name + "@example.com",
		Password: "password123",
	})
	require.NoError(t, err)
	return u.Id
}
