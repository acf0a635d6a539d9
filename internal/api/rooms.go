package api

import (
	"net/http"

	"github.com/npezzotti/go-roomcal/internal/database"
	"github.com/npezzotti/go-roomcal/internal/types"
)

type CreateRoomRequest struct {
	Name string `json:"name"`
}

type JoinRoomRequest struct {
	Code string `json:"code"`
}

type RenameRoomRequest struct {
	Name string `json:"name"`
}

func (s *RoomCalApp) listRooms(w http.ResponseWriter, r *http.Request) {
	userId, ok := UserId(r.Context())
	if !ok {
		s.writeError(w, r, NewUnauthorizedError())
		return
	}

	rooms, err := s.svc.ListRooms(r.Context(), userId)
	if err != nil {
		s.writeServiceError(w, r, err)
		return
	}

	s.writeJson(w, http.StatusOK, types.NewUserRooms(rooms))
}

func (s *RoomCalApp) createRoom(w http.ResponseWriter, r *http.Request) {
	userId, ok := UserId(r.Context())
	if !ok {
		s.writeError(w, r, NewUnauthorizedError())
		return
	}

	var req CreateRoomRequest
	if err := decodeJson(r, &req); err != nil {
		s.writeError(w, r, NewBadRequestError())
		return
	}

	room, err := s.svc.CreateRoom(r.Context(), userId, req.Name)
	if err != nil {
		s.writeServiceError(w, r, err)
		return
	}

	resp := types.NewRoom(room)
	resp.Role = database.RoleOwner.String()
	s.writeJson(w, http.StatusCreated, resp)
}

func (s *RoomCalApp) joinRoom(w http.ResponseWriter, r *http.Request) {
	userId, ok := UserId(r.Context())
	if !ok {
		s.writeError(w, r, NewUnauthorizedError())
		return
	}

	var req JoinRoomRequest
	if err := decodeJson(r, &req); err != nil {
		s.writeError(w, r, NewBadRequestError())
		return
	}

	room, err := s.svc.JoinRoom(r.Context(), userId, req.Code)
	if err != nil {
		s.writeServiceError(w, r, err)
		return
	}

	s.writeJson(w, http.StatusOK, types.NewRoom(room))
}

func (s *RoomCalApp) getRoom(w http.ResponseWriter, r *http.Request) {
	userId, ok := UserId(r.Context())
	if !ok {
		s.writeError(w, r, NewUnauthorizedError())
		return
	}

	room, err := s.svc.GetRoom(r.Context(), userId, r.PathValue("code"))
	if err != nil {
		s.writeServiceError(w, r, err)
		return
	}

	s.writeJson(w, http.StatusOK, types.NewUserRoom(room))
}

func (s *RoomCalApp) renameRoom(w http.ResponseWriter, r *http.Request) {
	userId, ok := UserId(r.Context())
	if !ok {
		s.writeError(w, r, NewUnauthorizedError())
		return
	}

	var req RenameRoomRequest
	if err := decodeJson(r, &req); err != nil {
		s.writeError(w, r, NewBadRequestError())
		return
	}

	room, err := s.svc.RenameRoom(r.Context(), userId, r.PathValue("code"), req.Name)
	if err != nil {
		s.writeServiceError(w, r, err)
		return
	}

	s.writeJson(w, http.StatusOK, types.NewRoom(room))
}

func (s *RoomCalApp) deleteRoom(w http.ResponseWriter, r *http.Request) {
	userId, ok := UserId(r.Context())
	if !ok {
		s.writeError(w, r, NewUnauthorizedError())
		return
	}

	if err := s.svc.DeleteRoom(r.Context(), userId, r.PathValue("code")); err != nil {
		s.writeServiceError(w, r, err)
		return
	}

	s.writeJson(w, http.StatusNoContent, nil)
}

func (s *RoomCalApp) listMembers(w http.ResponseWriter, r *http.Request) {
	userId, ok := UserId(r.Context())
	if !ok {
		s.writeError(w, r, NewUnauthorizedError())
		return
	}

	members, err := s.svc.ListMembers(r.Context(), userId, r.PathValue("code"))
	if err != nil {
		s.writeServiceError(w, r, err)
		return
	}

	s.writeJson(w, http.StatusOK, types.NewMembers(members))
}

func (s *RoomCalApp) removeMember(w http.ResponseWriter, r *http.Request) {
	userId, ok := UserId(r.Context())
	if !ok {
		s.writeError(w, r, NewUnauthorizedError())
		return
	}

	targetId, errResp := pathUUID(r, "userId")
	if errResp != nil {
		s.writeError(w, r, errResp)
		return
	}

	if err := s.svc.RemoveMember(r.Context(), userId, r.PathValue("code"), targetId); err != nil {
		s.writeServiceError(w, r, err)
		return
	}

	s.writeJson(w, http.StatusNoContent, nil)
}
