package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"net/mail"
	"strings"
	"unicode/utf8"

	"github.com/google/uuid"
	"github.com/npezzotti/go-roomcal/internal/database"
	"github.com/npezzotti/go-roomcal/internal/stats"
	"github.com/sirupsen/logrus"
)

const (
	minPasswordLength = 8
	// bcrypt ignores everything past 72 bytes
	maxPasswordBytes = 72
	maxNameLength    = 100
)

func validateSignUp(params SignUpParams) (SignUpParams, error) {
	params.Name = strings.TrimSpace(params.Name)
	params.Email = strings.TrimSpace(params.Email)

	if params.Name == "" {
		return params, invalidInput("name is required")
	}
	if utf8.RuneCountInString(params.Name) > maxNameLength {
		return params, invalidInput("name is longer than %d characters", maxNameLength)
	}
	if _, err := mail.ParseAddress(params.Email); err != nil || strings.ContainsAny(params.Email, "<> ") {
		return params, invalidInput("email address %q is not valid", params.Email)
	}
	if utf8.RuneCountInString(params.Password) < minPasswordLength {
		return params, invalidInput("password must be at least %d characters", minPasswordLength)
	}
	if len(params.Password) > maxPasswordBytes {
		return params, invalidInput("password must be at most %d bytes", maxPasswordBytes)
	}

	return params, nil
}

// SignUp creates an account. Emails are compared exactly as stored.
func (s *RoomCalService) SignUp(ctx context.Context, params SignUpParams) (database.User, error) {
	logCtx := s.log.WithField("email", params.Email)

	params, err := validateSignUp(params)
	if err != nil {
		return database.User{}, s.fail(logCtx, err)
	}

	pwdHash, err := s.hashPassword(params.Password)
	if err != nil {
		return database.User{}, s.fail(logCtx, fmt.Errorf("hash password: %w", err))
	}

	var user database.User
	err = s.store.InTx(ctx, func(tx database.Tx) error {
		_, err := tx.GetUserByEmail(ctx, params.Email)
		if err == nil {
			return ErrEmailTaken
		}
		if !errors.Is(err, sql.ErrNoRows) {
			return fmt.Errorf("get user by email: %w", err)
		}

		user, err = tx.CreateUser(ctx, database.CreateUserParams{
			Name:         params.Name,
			EmailAddress: params.Email,
			PasswordHash: pwdHash,
		})
		if errors.Is(err, database.ErrConflict) {
			return ErrEmailTaken
		}
		if err != nil {
			return fmt.Errorf("create user: %w", err)
		}

		return nil
	})
	if err != nil {
		return database.User{}, s.fail(logCtx, err)
	}

	s.stats.Incr(stats.SignUps)
	logCtx.WithField("user_id", user.Id).Info("account created")
	return user, nil
}

// Authenticate checks a login. Unknown emails and wrong passwords are
// indistinguishable to the caller, in result and in cost: an unknown email
// is still compared against a bcrypt hash.
func (s *RoomCalService) Authenticate(ctx context.Context, email, password string) (database.User, error) {
	email = strings.TrimSpace(email)
	logCtx := s.log.WithField("email", email)

	if email == "" || password == "" {
		return database.User{}, s.fail(logCtx, ErrInvalidCredentials)
	}

	var (
		user  database.User
		found bool
	)
	err := s.store.InTx(ctx, func(tx database.Tx) error {
		var err error
		user, err = tx.GetUserByEmail(ctx, email)
		if errors.Is(err, sql.ErrNoRows) {
			return nil
		}
		if err != nil {
			return fmt.Errorf("get user by email: %w", err)
		}

		found = true
		return nil
	})
	if err != nil {
		return database.User{}, s.fail(logCtx, err)
	}

	hash := user.PasswordHash
	if !found {
		hash = s.dummyHash()
	}
	if ok := s.checkPassword(hash, password); !ok || !found {
		s.stats.Incr(stats.LoginFailures)
		return database.User{}, s.fail(logCtx, ErrInvalidCredentials)
	}

	user.PasswordHash = ""
	return user, nil
}

// dummyHash is a hash of a random password at the service's cost. It
// matches nothing a caller can send.
func (s *RoomCalService) dummyHash() string {
	s.dummyOnce.Do(func() {
		hash, err := s.hashPassword(uuid.NewString())
		if err != nil {
			s.log.WithError(err).Error("generate dummy password hash")
			return
		}
		s.dummy = hash
	})
	return s.dummy
}

// GetUser resolves a session's user id. A user that no longer exists
// is treated as an unauthenticated caller.
func (s *RoomCalService) GetUser(ctx context.Context, userId uuid.UUID) (database.User, error) {
	var user database.User
	err := s.store.InTx(ctx, func(tx database.Tx) error {
		var err error
		user, err = tx.GetUserById(ctx, userId)
		if errors.Is(err, sql.ErrNoRows) {
			return ErrUnauthenticated
		}
		if err != nil {
			return fmt.Errorf("get user: %w", err)
		}

		return nil
	})
	if err != nil {
		return database.User{}, s.fail(s.log.WithFields(logrus.Fields{"user_id": userId}), err)
	}

	return user, nil
}
