package api

import (
	"bytes"
	"net/http"
	"time"

	"github.com/npezzotti/go-roomcal/internal/calendar"
	"github.com/npezzotti/go-roomcal/internal/service"
	"github.com/npezzotti/go-roomcal/internal/types"
)

// EventRequest times are RFC 3339 with an explicit offset.
type EventRequest struct {
	Title     string    `json:"title"`
	StartTime time.Time `json:"start_time"`
	EndTime   time.Time `json:"end_time"`
}

func (req EventRequest) input() service.EventInput {
	return service.EventInput{
		Title:     req.Title,
		StartTime: req.StartTime,
		EndTime:   req.EndTime,
	}
}

type CommentRequest struct {
	Content string `json:"content"`
}

func (s *RoomCalApp) listEvents(w http.ResponseWriter, r *http.Request) {
	userId, ok := UserId(r.Context())
	if !ok {
		s.writeError(w, r, NewUnauthorizedError())
		return
	}

	events, err := s.svc.ListEvents(r.Context(), userId, r.PathValue("code"))
	if err != nil {
		s.writeServiceError(w, r, err)
		return
	}

	s.writeJson(w, http.StatusOK, types.NewEvents(events))
}

func (s *RoomCalApp) createEvent(w http.ResponseWriter, r *http.Request) {
	userId, ok := UserId(r.Context())
	if !ok {
		s.writeError(w, r, NewUnauthorizedError())
		return
	}

	var req EventRequest
	if err := decodeJson(r, &req); err != nil {
		s.writeError(w, r, NewBadRequestError())
		return
	}

	event, err := s.svc.CreateEvent(r.Context(), userId, r.PathValue("code"), req.input())
	if err != nil {
		s.writeServiceError(w, r, err)
		return
	}

	s.writeJson(w, http.StatusCreated, types.NewEvent(event))
}

func (s *RoomCalApp) updateEvent(w http.ResponseWriter, r *http.Request) {
	userId, ok := UserId(r.Context())
	if !ok {
		s.writeError(w, r, NewUnauthorizedError())
		return
	}

	eventId, errResp := pathUUID(r, "eventId")
	if errResp != nil {
		s.writeError(w, r, errResp)
		return
	}

	var req EventRequest
	if err := decodeJson(r, &req); err != nil {
		s.writeError(w, r, NewBadRequestError())
		return
	}

	event, err := s.svc.UpdateEvent(r.Context(), userId, r.PathValue("code"), eventId, req.input())
	if err != nil {
		s.writeServiceError(w, r, err)
		return
	}

	s.writeJson(w, http.StatusOK, types.NewEvent(event))
}

func (s *RoomCalApp) deleteEvent(w http.ResponseWriter, r *http.Request) {
	userId, ok := UserId(r.Context())
	if !ok {
		s.writeError(w, r, NewUnauthorizedError())
		return
	}

	eventId, errResp := pathUUID(r, "eventId")
	if errResp != nil {
		s.writeError(w, r, errResp)
		return
	}

	if err := s.svc.DeleteEvent(r.Context(), userId, r.PathValue("code"), eventId); err != nil {
		s.writeServiceError(w, r, err)
		return
	}

	s.writeJson(w, http.StatusNoContent, nil)
}

func (s *RoomCalApp) exportCalendar(w http.ResponseWriter, r *http.Request) {
	userId, ok := UserId(r.Context())
	if !ok {
		s.writeError(w, r, NewUnauthorizedError())
		return
	}

	code := r.PathValue("code")
	room, err := s.svc.GetRoom(r.Context(), userId, code)
	if err != nil {
		s.writeServiceError(w, r, err)
		return
	}

	events, err := s.svc.ListEvents(r.Context(), userId, code)
	if err != nil {
		s.writeServiceError(w, r, err)
		return
	}

	// encode fully before writing so a failure can still become a 500
	var buf bytes.Buffer
	if err := calendar.Encode(&buf, room.Room, events); err != nil {
		s.writeError(w, r, NewInternalServerError(err))
		return
	}

	w.Header().Set("Content-Type", calendar.ContentType)
	w.Header().Set("Content-Disposition", `attachment; filename="`+room.Code+`.ics"`)
	w.WriteHeader(http.StatusOK)
	w.Write(buf.Bytes())
}

func (s *RoomCalApp) listComments(w http.ResponseWriter, r *http.Request) {
	userId, ok := UserId(r.Context())
	if !ok {
		s.writeError(w, r, NewUnauthorizedError())
		return
	}

	eventId, errResp := pathUUID(r, "eventId")
	if errResp != nil {
		s.writeError(w, r, errResp)
		return
	}

	comments, err := s.svc.ListComments(r.Context(), userId, eventId)
	if err != nil {
		s.writeServiceError(w, r, err)
		return
	}

	s.writeJson(w, http.StatusOK, types.NewComments(comments))
}

func (s *RoomCalApp) addComment(w http.ResponseWriter, r *http.Request) {
	userId, ok := UserId(r.Context())
	if !ok {
		s.writeError(w, r, NewUnauthorizedError())
		return
	}

	eventId, errResp := pathUUID(r, "eventId")
	if errResp != nil {
		s.writeError(w, r, errResp)
		return
	}

	var req CommentRequest
	if err := decodeJson(r, &req); err != nil {
		s.writeError(w, r, NewBadRequestError())
		return
	}

	comment, err := s.svc.AddComment(r.Context(), userId, eventId, req.Content)
	if err != nil {
		s.writeServiceError(w, r, err)
		return
	}

	s.writeJson(w, http.StatusCreated, types.NewComment(comment))
}

func (s *RoomCalApp) updateComment(w http.ResponseWriter, r *http.Request) {
	userId, ok := UserId(r.Context())
	if !ok {
		s.writeError(w, r, NewUnauthorizedError())
		return
	}

	eventId, errResp := pathUUID(r, "eventId")
	if errResp != nil {
		s.writeError(w, r, errResp)
		return
	}
	commentId, errResp := pathUUID(r, "commentId")
	if errResp != nil {
		s.writeError(w, r, errResp)
		return
	}

	var req CommentRequest
	if err := decodeJson(r, &req); err != nil {
		s.writeError(w, r, NewBadRequestError())
		return
	}

	comment, err := s.svc.UpdateComment(r.Context(), userId, eventId, commentId, req.Content)
	if err != nil {
		s.writeServiceError(w, r, err)
		return
	}

	s.writeJson(w, http.StatusOK, types.NewComment(comment))
}

func (s *RoomCalApp) deleteComment(w http.ResponseWriter, r *http.Request) {
	userId, ok := UserId(r.Context())
	if !ok {
		s.writeError(w, r, NewUnauthorizedError())
		return
	}

	eventId, errResp := pathUUID(r, "eventId")
	if errResp != nil {
		s.writeError(w, r, errResp)
		return
	}
	commentId, errResp := pathUUID(r, "commentId")
	if errResp != nil {
		s.writeError(w, r, errResp)
		return
	}

	if err := s.svc.DeleteComment(r.Context(), userId, eventId, commentId); err != nil {
		s.writeServiceError(w, r, err)
		return
	}

	s.writeJson(w, http.StatusNoContent, nil)
}
