package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/google/uuid"
	"github.com/npezzotti/go-roomcal/internal/service"
	"github.com/npezzotti/go-roomcal/internal/types"
)

const maxBodyBytes = 1 << 20

type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type RegisterRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (s *RoomCalApp) writeJson(w http.ResponseWriter, statusCode int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	if v == nil {
		return
	}

	if err := json.NewEncoder(w).Encode(v); err != nil {
		s.log.WithError(err).Error("json encode")
	}
}

func (s *RoomCalApp) writeError(w http.ResponseWriter, r *http.Request, errResp *ApiError) {
	if errResp.StatusCode >= http.StatusInternalServerError && errResp.Err != nil {
		s.log.WithError(errResp.Err).WithField("path", r.URL.Path).Error("request failed")
	}

	s.writeJson(w, errResp.StatusCode, localize(r, errResp))
}

// writeServiceError reports a service failure to the caller.
func (s *RoomCalApp) writeServiceError(w http.ResponseWriter, r *http.Request, err error) {
	s.writeError(w, r, errorFromService(err))
}

// decodeJson reads a single JSON object from the body. Unknown fields are
// rejected.
func decodeJson(r *http.Request, v any) error {
	dec := json.NewDecoder(io.LimitReader(r.Body, maxBodyBytes))
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		return fmt.Errorf("decode body: %w", err)
	}
	if dec.More() {
		return errors.New("decode body: trailing data")
	}

	return nil
}

// pathUUID parses a path parameter. A malformed id names nothing, so it
// is reported as not found.
func pathUUID(r *http.Request, name string) (uuid.UUID, *ApiError) {
	id, err := uuid.Parse(r.PathValue(name))
	if err != nil {
		return uuid.Nil, NewNotFoundError()
	}
	return id, nil
}

func (s *RoomCalApp) healthCheck(w http.ResponseWriter, r *http.Request) {
	if err := s.svc.Ping(r.Context()); err != nil {
		s.writeError(w, r, NewInternalServerError(err))
		return
	}

	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	w.Write([]byte("OK"))
}

func (s *RoomCalApp) createAccount(w http.ResponseWriter, r *http.Request) {
	var req RegisterRequest
	if err := decodeJson(r, &req); err != nil {
		s.writeError(w, r, NewBadRequestError())
		return
	}

	user, err := s.svc.SignUp(r.Context(), service.SignUpParams{
		Name:     req.Name,
		Email:    req.Email,
		Password: req.Password,
	})
	if err != nil {
		s.writeServiceError(w, r, err)
		return
	}

	s.writeJson(w, http.StatusCreated, types.NewUser(user))
}

func (s *RoomCalApp) login(w http.ResponseWriter, r *http.Request) {
	var lr LoginRequest
	if err := decodeJson(r, &lr); err != nil {
		s.writeError(w, r, NewBadRequestError())
		return
	}

	user, err := s.svc.Authenticate(r.Context(), lr.Email, lr.Password)
	if err != nil {
		s.writeServiceError(w, r, err)
		return
	}

	token, err := s.createJwtForSession(user.Id, s.sessionLifetime)
	if err != nil {
		s.writeError(w, r, NewInternalServerError(err))
		return
	}

	http.SetCookie(w, createJwtCookie(token, s.sessionLifetime))

	s.writeJson(w, http.StatusOK, types.NewUser(user))
}

func (s *RoomCalApp) session(w http.ResponseWriter, r *http.Request) {
	userId, ok := UserId(r.Context())
	if !ok {
		s.writeError(w, r, NewUnauthorizedError())
		return
	}

	user, err := s.svc.GetUser(r.Context(), userId)
	if err != nil {
		s.writeServiceError(w, r, err)
		return
	}

	s.writeJson(w, http.StatusOK, types.NewUser(user))
}

func (s *RoomCalApp) logout(w http.ResponseWriter, _ *http.Request) {
	http.SetCookie(w, expiredJwtCookie())
	w.WriteHeader(http.StatusNoContent)
}
