package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
)

const (
	roomColumns    = "id, code, name, owner_id, created_at, updated_at"
	eventColumns   = "id, room_id, author_id, title, start_time, end_time, created_at, updated_at"
	commentColumns = "id, event_id, author_id, content, created_at, updated_at"
)

type pgTx struct {
	tx *sql.Tx
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanRoom(row rowScanner) (Room, error) {
	var room Room
	err := row.Scan(
		&room.Id,
		&room.Code,
		&room.Name,
		&room.OwnerId,
		&room.CreatedAt,
		&room.UpdatedAt,
	)

	return room, err
}

func scanEvent(row rowScanner) (Event, error) {
	var event Event
	err := row.Scan(
		&event.Id,
		&event.RoomId,
		&event.AuthorId,
		&event.Title,
		&event.StartTime,
		&event.EndTime,
		&event.CreatedAt,
		&event.UpdatedAt,
	)

	return event, err
}

func scanComment(row rowScanner) (Comment, error) {
	var comment Comment
	err := row.Scan(
		&comment.Id,
		&comment.EventId,
		&comment.AuthorId,
		&comment.Content,
		&comment.CreatedAt,
		&comment.UpdatedAt,
	)

	return comment, err
}

// requireAffected turns a write that touched no rows into sql.ErrNoRows.
func requireAffected(res sql.Result, err error) error {
	if err != nil {
		return err
	}

	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected: %w", err)
	}
	if n == 0 {
		return sql.ErrNoRows
	}

	return nil
}

func (t *pgTx) CreateUser(ctx context.Context, params CreateUserParams) (User, error) {
	res := t.tx.QueryRowContext(ctx,
		"INSERT INTO users (id, name, email, password_hash, created_at) "+
			"VALUES ($1, $2, $3, $4, $5) RETURNING id, name, email, created_at",
		uuid.New(),
		params.Name,
		params.EmailAddress,
		params.PasswordHash,
		time.Now().UTC(),
	)

	var u User
	err := res.Scan(
		&u.Id,
		&u.Name,
		&u.EmailAddress,
		&u.CreatedAt,
	)
	if isUniqueViolation(err) {
		return User{}, ErrConflict
	}

	return u, err
}

func (t *pgTx) GetUserById(ctx context.Context, id uuid.UUID) (User, error) {
	row := t.tx.QueryRowContext(ctx,
		"SELECT id, name, email, created_at FROM users "+
			"WHERE id = $1 LIMIT 1",
		id,
	)

	var user User
	err := row.Scan(
		&user.Id,
		&user.Name,
		&user.EmailAddress,
		&user.CreatedAt,
	)

	return user, err
}

func (t *pgTx) GetUserByEmail(ctx context.Context, email string) (User, error) {
	row := t.tx.QueryRowContext(ctx,
		"SELECT id, name, email, password_hash, created_at FROM users "+
			"WHERE email = $1 LIMIT 1",
		email,
	)

	var user User
	err := row.Scan(
		&user.Id,
		&user.Name,
		&user.EmailAddress,
		&user.PasswordHash,
		&user.CreatedAt,
	)

	return user, err
}

func (t *pgTx) CreateRoom(ctx context.Context, params CreateRoomParams) (Room, error) {
	now := time.Now().UTC()
	row := t.tx.QueryRowContext(ctx,
		"INSERT INTO rooms (id, code, name, owner_id, created_at, updated_at) "+
			"VALUES ($1, $2, $3, $4, $5, $6) ON CONFLICT (code) DO NOTHING RETURNING "+roomColumns,
		uuid.New(),
		params.Code,
		params.Name,
		params.OwnerId,
		now,
		now,
	)

	room, err := scanRoom(row)
	if errors.Is(err, sql.ErrNoRows) {
		return Room{}, ErrConflict
	}

	return room, err
}

func (t *pgTx) GetRoomByCode(ctx context.Context, code string) (Room, error) {
	row := t.tx.QueryRowContext(ctx,
		"SELECT "+roomColumns+" FROM rooms WHERE code = $1 LIMIT 1 FOR SHARE",
		code,
	)

	return scanRoom(row)
}

func (t *pgTx) UpdateRoomName(ctx context.Context, roomId uuid.UUID, name string) (Room, error) {
	row := t.tx.QueryRowContext(ctx,
		"UPDATE rooms SET name = $2, updated_at = $3 WHERE id = $1 RETURNING "+roomColumns,
		roomId,
		name,
		time.Now().UTC(),
	)

	return scanRoom(row)
}

// DeleteRoom removes the room; memberships, events and comments go with it
// through ON DELETE CASCADE.
func (t *pgTx) DeleteRoom(ctx context.Context, roomId uuid.UUID) error {
	return requireAffected(t.tx.ExecContext(ctx, "DELETE FROM rooms WHERE id = $1", roomId))
}

func (t *pgTx) ListRoomsForUser(ctx context.Context, userId uuid.UUID) ([]UserRoom, error) {
	rows, err := t.tx.QueryContext(ctx,
		"SELECT r.id, r.code, r.name, r.owner_id, r.created_at, r.updated_at, m.role "+
			"FROM room_members m JOIN rooms r ON r.id = m.room_id "+
			"WHERE m.user_id = $1 ORDER BY m.joined_at, r.code",
		userId,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	rooms := make([]UserRoom, 0)
	for rows.Next() {
		var ur UserRoom
		err := rows.Scan(
			&ur.Id,
			&ur.Code,
			&ur.Name,
			&ur.OwnerId,
			&ur.CreatedAt,
			&ur.UpdatedAt,
			&ur.Role,
		)
		if err != nil {
			return nil, fmt.Errorf("scan row: %w", err)
		}

		rooms = append(rooms, ur)
	}

	return rooms, rows.Err()
}

func (t *pgTx) CreateMembership(ctx context.Context, roomId, userId uuid.UUID, role Role) (bool, error) {
	res, err := t.tx.ExecContext(ctx,
		"INSERT INTO room_members (room_id, user_id, role, joined_at) "+
			"VALUES ($1, $2, $3, $4) ON CONFLICT (room_id, user_id) DO NOTHING",
		roomId,
		userId,
		role,
		time.Now().UTC(),
	)
	if err != nil {
		return false, err
	}

	n, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("rows affected: %w", err)
	}

	return n == 1, nil
}

func (t *pgTx) GetMembership(ctx context.Context, roomId, userId uuid.UUID) (Membership, error) {
	row := t.tx.QueryRowContext(ctx,
		"SELECT room_id, user_id, role, joined_at FROM room_members "+
			"WHERE room_id = $1 AND user_id = $2 FOR SHARE",
		roomId,
		userId,
	)

	var m Membership
	err := row.Scan(
		&m.RoomId,
		&m.UserId,
		&m.Role,
		&m.JoinedAt,
	)

	return m, err
}

func (t *pgTx) DeleteMembership(ctx context.Context, roomId, userId uuid.UUID) error {
	return requireAffected(t.tx.ExecContext(ctx,
		"DELETE FROM room_members WHERE room_id = $1 AND user_id = $2",
		roomId,
		userId,
	))
}

func (t *pgTx) ListMembers(ctx context.Context, roomId uuid.UUID) ([]Member, error) {
	rows, err := t.tx.QueryContext(ctx,
		"SELECT u.id, u.name, m.role, m.joined_at FROM room_members m "+
			"JOIN users u ON u.id = m.user_id WHERE m.room_id = $1 ORDER BY m.joined_at",
		roomId,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	members := make([]Member, 0)
	for rows.Next() {
		var m Member
		if err := rows.Scan(&m.UserId, &m.Name, &m.Role, &m.JoinedAt); err != nil {
			return nil, fmt.Errorf("scan row: %w", err)
		}

		members = append(members, m)
	}

	return members, rows.Err()
}

func (t *pgTx) CreateEvent(ctx context.Context, params CreateEventParams) (Event, error) {
	now := time.Now().UTC()
	row := t.tx.QueryRowContext(ctx,
		"INSERT INTO events (id, room_id, author_id, title, start_time, end_time, created_at, updated_at) "+
			"VALUES ($1, $2, $3, $4, $5, $6, $7, $8) RETURNING "+eventColumns,
		uuid.New(),
		params.RoomId,
		params.AuthorId,
		params.Title,
		params.StartTime,
		params.EndTime,
		now,
		now,
	)

	return scanEvent(row)
}

func (t *pgTx) GetEvent(ctx context.Context, id uuid.UUID) (Event, error) {
	row := t.tx.QueryRowContext(ctx,
		"SELECT "+eventColumns+" FROM events WHERE id = $1 FOR SHARE",
		id,
	)

	return scanEvent(row)
}

func (t *pgTx) GetEventForUpdate(ctx context.Context, id uuid.UUID) (Event, error) {
	row := t.tx.QueryRowContext(ctx,
		"SELECT "+eventColumns+" FROM events WHERE id = $1 FOR UPDATE",
		id,
	)

	return scanEvent(row)
}

func (t *pgTx) UpdateEvent(ctx context.Context, params UpdateEventParams) (Event, error) {
	row := t.tx.QueryRowContext(ctx,
		"UPDATE events SET title = $2, start_time = $3, end_time = $4, updated_at = $5 "+
			"WHERE id = $1 RETURNING "+eventColumns,
		params.Id,
		params.Title,
		params.StartTime,
		params.EndTime,
		time.Now().UTC(),
	)

	return scanEvent(row)
}

func (t *pgTx) DeleteEvent(ctx context.Context, id uuid.UUID) error {
	return requireAffected(t.tx.ExecContext(ctx, "DELETE FROM events WHERE id = $1", id))
}

func (t *pgTx) ListEvents(ctx context.Context, roomId uuid.UUID) ([]Event, error) {
	rows, err := t.tx.QueryContext(ctx,
		"SELECT e.id, e.room_id, e.author_id, u.name, e.title, e.start_time, e.end_time, e.created_at, e.updated_at "+
			"FROM events e JOIN users u ON u.id = e.author_id "+
			"WHERE e.room_id = $1 ORDER BY e.start_time, e.created_at",
		roomId,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	events := make([]Event, 0)
	for rows.Next() {
		var e Event
		err := rows.Scan(
			&e.Id,
			&e.RoomId,
			&e.AuthorId,
			&e.AuthorName,
			&e.Title,
			&e.StartTime,
			&e.EndTime,
			&e.CreatedAt,
			&e.UpdatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("scan row: %w", err)
		}

		events = append(events, e)
	}

	return events, rows.Err()
}

func (t *pgTx) CreateComment(ctx context.Context, params CreateCommentParams) (Comment, error) {
	now := time.Now().UTC()
	row := t.tx.QueryRowContext(ctx,
		"INSERT INTO comments (id, event_id, author_id, content, created_at, updated_at) "+
			"VALUES ($1, $2, $3, $4, $5, $6) RETURNING "+commentColumns,
		uuid.New(),
		params.EventId,
		params.AuthorId,
		params.Content,
		now,
		now,
	)

	return scanComment(row)
}

func (t *pgTx) GetCommentForUpdate(ctx context.Context, id uuid.UUID) (Comment, error) {
	row := t.tx.QueryRowContext(ctx,
		"SELECT "+commentColumns+" FROM comments WHERE id = $1 FOR UPDATE",
		id,
	)

	return scanComment(row)
}

func (t *pgTx) UpdateComment(ctx context.Context, id uuid.UUID, content string) (Comment, error) {
	row := t.tx.QueryRowContext(ctx,
		"UPDATE comments SET content = $2, updated_at = $3 WHERE id = $1 RETURNING "+commentColumns,
		id,
		content,
		time.Now().UTC(),
	)

	return scanComment(row)
}

func (t *pgTx) DeleteComment(ctx context.Context, id uuid.UUID) error {
	return requireAffected(t.tx.ExecContext(ctx, "DELETE FROM comments WHERE id = $1", id))
}

func (t *pgTx) ListComments(ctx context.Context, eventId uuid.UUID) ([]Comment, error) {
	rows, err := t.tx.QueryContext(ctx,
		"SELECT c.id, c.event_id, c.author_id, u.name, c.content, c.created_at, c.updated_at "+
			"FROM comments c JOIN users u ON u.id = c.author_id "+
			"WHERE c.event_id = $1 ORDER BY c.created_at ASC, c.id ASC",
		eventId,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	comments := make([]Comment, 0)
	for rows.Next() {
		var c Comment
		err := rows.Scan(
			&c.Id,
			&c.EventId,
			&c.AuthorId,
			&c.AuthorName,
			&c.Content,
			&c.CreatedAt,
			&c.UpdatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("scan row: %w", err)
		}

		comments = append(comments, c)
	}

	return comments, rows.Err()
}
