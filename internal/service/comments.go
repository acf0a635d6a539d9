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

const maxCommentLength = 2000

func cleanContent(content string) (string, error) {
	content = strings.TrimSpace(content)
	if content == "" {
		return "", invalidInput("comment is empty")
	}
	if utf8.RuneCountInString(content) > maxCommentLength {
		return "", invalidInput("comment is longer than %d characters", maxCommentLength)
	}

	return content, nil
}

// AddComment posts a comment on an event. Any member of the event's room
// may comment.
func (s *RoomCalService) AddComment(ctx context.Context, actorId, eventId uuid.UUID, content string) (database.Comment, error) {
	logCtx := s.log.WithFields(logrus.Fields{"actor": actorId, "event": eventId})

	content, err := cleanContent(content)
	if err != nil {
		return database.Comment{}, s.fail(logCtx, err)
	}

	var comment database.Comment
	err = s.store.InTx(ctx, func(tx database.Tx) error {
		if _, err := eventForMember(ctx, tx, eventId, actorId); err != nil {
			return err
		}

		var err error
		comment, err = tx.CreateComment(ctx, database.CreateCommentParams{
			EventId:  eventId,
			AuthorId: actorId,
			Content:  content,
		})
		if err != nil {
			return fmt.Errorf("create comment: %w", err)
		}

		return withAuthorName(ctx, tx, &comment.AuthorName, actorId)
	})
	if err != nil {
		return database.Comment{}, s.fail(logCtx, err)
	}

	s.stats.Incr(stats.CommentsPosted)
	logCtx.WithField("comment", comment.Id).Info("comment added")
	return comment, nil
}

// authoredComment loads a comment of the event for mutation by its author.
// Authorship alone is enough: an author who has left the room can still
// edit or delete what they wrote. Anyone else gets ErrForbidden if they
// can see the event and ErrNotFound otherwise.
func authoredComment(ctx context.Context, tx database.Tx, eventId, commentId, actorId uuid.UUID) (database.Comment, error) {
	comment, err := tx.GetCommentForUpdate(ctx, commentId)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return database.Comment{}, ErrNotFound
		}
		return database.Comment{}, fmt.Errorf("get comment: %w", err)
	}

	if comment.EventId != eventId {
		return database.Comment{}, ErrNotFound
	}

	if comment.AuthorId != actorId {
		if _, err := eventForMember(ctx, tx, eventId, actorId); err != nil {
			return database.Comment{}, err
		}
		return database.Comment{}, ErrForbidden
	}

	return comment, nil
}

func (s *RoomCalService) UpdateComment(ctx context.Context, actorId, eventId, commentId uuid.UUID, content string) (database.Comment, error) {
	logCtx := s.log.WithFields(logrus.Fields{"actor": actorId, "event": eventId, "comment": commentId})

	content, err := cleanContent(content)
	if err != nil {
		return database.Comment{}, s.fail(logCtx, err)
	}

	var comment database.Comment
	err = s.store.InTx(ctx, func(tx database.Tx) error {
		if _, err := authoredComment(ctx, tx, eventId, commentId, actorId); err != nil {
			return err
		}

		var err error
		comment, err = tx.UpdateComment(ctx, commentId, content)
		if err != nil {
			return fmt.Errorf("update comment: %w", err)
		}

		return withAuthorName(ctx, tx, &comment.AuthorName, actorId)
	})
	if err != nil {
		return database.Comment{}, s.fail(logCtx, err)
	}

	logCtx.Info("comment updated")
	return comment, nil
}

func (s *RoomCalService) DeleteComment(ctx context.Context, actorId, eventId, commentId uuid.UUID) error {
	logCtx := s.log.WithFields(logrus.Fields{"actor": actorId, "event": eventId, "comment": commentId})

	err := s.store.InTx(ctx, func(tx database.Tx) error {
		if _, err := authoredComment(ctx, tx, eventId, commentId, actorId); err != nil {
			return err
		}

		if err := tx.DeleteComment(ctx, commentId); err != nil {
			return fmt.Errorf("delete comment: %w", err)
		}

		return nil
	})
	if err != nil {
		return s.fail(logCtx, err)
	}

	logCtx.Info("comment deleted")
	return nil
}

// ListComments returns the event's comments, oldest first.
func (s *RoomCalService) ListComments(ctx context.Context, actorId, eventId uuid.UUID) ([]database.Comment, error) {
	var comments []database.Comment
	err := s.store.InTx(ctx, func(tx database.Tx) error {
		if _, err := eventForMember(ctx, tx, eventId, actorId); err != nil {
			return err
		}

		var err error
		comments, err = tx.ListComments(ctx, eventId)
		if err != nil {
			return fmt.Errorf("list comments: %w", err)
		}

		return nil
	})
	if err != nil {
		return nil, s.fail(s.log.WithFields(logrus.Fields{"actor": actorId, "event": eventId}), err)
	}

	return comments, nil
}
