package api

import (
	"errors"
	"log"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/render"

	"github.com/jask/lendtrack/internal/domain"
)

type handlers struct {
	svc Lending
}

type friendRequest struct {
	Name string `json:"name"`
}

type itemRequest struct {
	Name     string `json:"name"`
	FriendID int64  `json:"friendId"`
}

type errorResponse struct {
	Error string `json:"error"`
}

var successResponse = map[string]string{"result": "success"}

func respondWithJSON(w http.ResponseWriter, r *http.Request, code int, payload any) {
	render.Status(r, code)
	render.JSON(w, r, payload)
}

func respondWithError(w http.ResponseWriter, r *http.Request, code int, message string) {
	respondWithJSON(w, r, code, errorResponse{Error: message})
}

// internalError logs err against the request and answers 500 with message.
func internalError(w http.ResponseWriter, r *http.Request, err error, message string) {
	log.Printf("api error request_id=%s method=%s path=%s err=%v", middleware.GetReqID(r.Context()), r.Method, r.URL.Path, err)
	respondWithError(w, r, http.StatusInternalServerError, message)
}

func idParam(r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		return 0, false
	}
	return id, true
}

func (h *handlers) listFriends(w http.ResponseWriter, r *http.Request) {
	friends, err := h.svc.ListFriends(r.Context())
	if err != nil {
		internalError(w, r, err, "Error retrieving friends")
		return
	}
	if friends == nil {
		friends = []domain.Friend{}
	}
	respondWithJSON(w, r, http.StatusOK, friends)
}

func (h *handlers) getFriend(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(r)
	if !ok {
		respondWithError(w, r, http.StatusBadRequest, "Invalid friend ID")
		return
	}
	f, err := h.svc.Friend(r.Context(), id)
	switch {
	case errors.Is(err, domain.ErrFriendNotFound):
		respondWithError(w, r, http.StatusNotFound, "Friend not found")
	case err != nil:
		internalError(w, r, err, "Error retrieving friend")
	default:
		respondWithJSON(w, r, http.StatusOK, f)
	}
}

func (h *handlers) createFriend(w http.ResponseWriter, r *http.Request) {
	var req friendRequest
	if err := render.DecodeJSON(r.Body, &req); err != nil {
		respondWithError(w, r, http.StatusBadRequest, "Invalid request payload")
		return
	}
	f, err := h.svc.AddFriend(r.Context(), req.Name)
	switch {
	case errors.Is(err, domain.ErrNameRequired):
		respondWithError(w, r, http.StatusBadRequest, "Friend name is required")
	case errors.Is(err, domain.ErrDuplicateFriend):
		respondWithError(w, r, http.StatusConflict, "Friend already exists")
	case err != nil:
		internalError(w, r, err, "Error creating friend")
	default:
		respondWithJSON(w, r, http.StatusCreated, f)
	}
}

func (h *handlers) deleteFriend(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(r)
	if !ok {
		respondWithError(w, r, http.StatusBadRequest, "Invalid friend ID")
		return
	}
	err := h.svc.RemoveFriend(r.Context(), id)
	switch {
	case errors.Is(err, domain.ErrFriendNotFound):
		respondWithError(w, r, http.StatusNotFound, "Friend not found")
	case errors.Is(err, domain.ErrFriendHasItems):
		respondWithError(w, r, http.StatusConflict, "Friend still has borrowed items")
	case err != nil:
		internalError(w, r, err, "Error deleting friend")
	default:
		respondWithJSON(w, r, http.StatusOK, successResponse)
	}
}

func (h *handlers) friendItems(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(r)
	if !ok {
		respondWithError(w, r, http.StatusBadRequest, "Invalid friend ID")
		return
	}
	items, err := h.svc.ItemsFor(r.Context(), id)
	switch {
	case errors.Is(err, domain.ErrFriendNotFound):
		respondWithError(w, r, http.StatusNotFound, "Friend not found")
	case err != nil:
		internalError(w, r, err, "Error retrieving items")
	default:
		if items == nil {
			items = []domain.Item{}
		}
		respondWithJSON(w, r, http.StatusOK, items)
	}
}

func (h *handlers) getItem(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(r)
	if !ok {
		respondWithError(w, r, http.StatusBadRequest, "Invalid item ID")
		return
	}
	it, err := h.svc.Item(r.Context(), id)
	switch {
	case errors.Is(err, domain.ErrItemNotFound):
		respondWithError(w, r, http.StatusNotFound, "Item not found")
	case err != nil:
		internalError(w, r, err, "Error retrieving item")
	default:
		respondWithJSON(w, r, http.StatusOK, it)
	}
}

func (h *handlers) createItem(w http.ResponseWriter, r *http.Request) {
	var req itemRequest
	if err := render.DecodeJSON(r.Body, &req); err != nil {
		respondWithError(w, r, http.StatusBadRequest, "Invalid request payload")
		return
	}
	it, err := h.svc.Give(r.Context(), req.FriendID, req.Name)
	switch {
	case errors.Is(err, domain.ErrNameRequired):
		respondWithError(w, r, http.StatusBadRequest, "Item name is required")
	case errors.Is(err, domain.ErrFriendRequired):
		respondWithError(w, r, http.StatusBadRequest, "Friend ID is required")
	case errors.Is(err, domain.ErrFriendNotFound):
		respondWithError(w, r, http.StatusBadRequest, "Friend does not exist")
	case err != nil:
		internalError(w, r, err, "Error creating item")
	default:
		respondWithJSON(w, r, http.StatusCreated, it)
	}
}

func (h *handlers) deleteItem(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(r)
	if !ok {
		respondWithError(w, r, http.StatusBadRequest, "Invalid item ID")
		return
	}
	err := h.svc.TakeBack(r.Context(), id)
	switch {
	case errors.Is(err, domain.ErrItemNotFound):
		respondWithError(w, r, http.StatusNotFound, "Item not found")
	case err != nil:
		internalError(w, r, err, "Error deleting item")
	default:
		respondWithJSON(w, r, http.StatusOK, successResponse)
	}
}
