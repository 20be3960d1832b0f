package rest

import (
	"net/http"
	"net/mail"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"
)

type createUserRequest struct {
	Name  string `json:"name"`
	Email string `json:"email"`
}

type deleteUserRequest struct {
	UserID int64  `json:"userId"`
	Reason string `json:"reason"`
}

type removeUserResponse struct {
	User userView `json:"user"`
}

type forceRemoveResponse struct {
	User         userView `json:"user"`
	CatsAffected int64    `json:"catsAffected"`
	PostsDeleted int64    `json:"postsDeleted"`
}

type checkEmailResponse struct {
	Email     string `json:"email"`
	Available bool   `json:"available"`
}

func (h *Handler) userList(w http.ResponseWriter, r *http.Request) {
	includeStats, err := queryBool(r, "includeStats")
	if err != nil {
		respondError(w, err)
		return
	}
	users, err := h.users.FindAll(r.Context(), includeStats)
	if err != nil {
		respondError(w, err)
		return
	}
	views := make([]userDetailView, 0, len(users))
	for _, user := range users {
		views = append(views, toUserDetailView(user))
	}
	respond(w, views, "users fetched")
}

func (h *Handler) userDetail(w http.ResponseWriter, r *http.Request) {
	id, err := queryID(r, "id")
	if err != nil {
		respondError(w, err)
		return
	}
	includeDetails, err := queryBool(r, "includeDetails")
	if err != nil {
		respondError(w, err)
		return
	}
	user, err := h.users.FindByID(r.Context(), id, includeDetails)
	if err != nil {
		respondError(w, err)
		return
	}
	respond(w, toUserDetailView(user), "user detail fetched")
}

func (h *Handler) userCreate(w http.ResponseWriter, r *http.Request) {
	var req createUserRequest
	if err := decodeBody(r, &req); err != nil {
		respondError(w, err)
		return
	}
	if strings.TrimSpace(req.Name) == "" {
		respondError(w, invalidArg("name is required"))
		return
	}
	email := strings.TrimSpace(req.Email)
	if _, err := mail.ParseAddress(email); err != nil {
		respondError(w, invalidArg("email must be a valid address"))
		return
	}
	user, err := h.users.Create(r.Context(), req.Name, email)
	if err != nil {
		respondError(w, err)
		return
	}
	respond(w, toUserView(user), "user created")
}

func (h *Handler) userRemove(w http.ResponseWriter, r *http.Request) {
	var req deleteUserRequest
	if err := decodeBody(r, &req); err != nil {
		respondError(w, err)
		return
	}
	if err := positiveID(req.UserID, "userId"); err != nil {
		respondError(w, err)
		return
	}
	result, err := h.users.Remove(r.Context(), req.UserID, req.Reason)
	if err != nil {
		respondError(w, err)
		return
	}
	respond(w, removeUserResponse{User: toUserView(result.User)}, result.Message)
}

func (h *Handler) userForceRemove(w http.ResponseWriter, r *http.Request) {
	raw := chi.URLParam(r, "id")
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		respondError(w, invalidArg("id must be a positive integer"))
		return
	}
	result, err := h.users.ForceRemove(r.Context(), id)
	if err != nil {
		respondError(w, err)
		return
	}
	respond(w, forceRemoveResponse{
		User:         toUserView(result.User),
		CatsAffected: result.CatsAffected,
		PostsDeleted: result.PostsDeleted,
	}, result.Message)
}

func (h *Handler) userCheckEmail(w http.ResponseWriter, r *http.Request) {
	email := strings.TrimSpace(chi.URLParam(r, "email"))
	if _, err := mail.ParseAddress(email); err != nil {
		respondError(w, invalidArg("email must be a valid address"))
		return
	}
	var exclude *int64
	if raw := strings.TrimSpace(r.URL.Query().Get("excludeUserId")); raw != "" {
		id, err := strconv.ParseInt(raw, 10, 64)
		if err != nil || id <= 0 {
			respondError(w, invalidArg("excludeUserId must be a positive integer"))
			return
		}
		exclude = &id
	}
	exists, err := h.users.EmailExists(r.Context(), email, exclude)
	if err != nil {
		respondError(w, err)
		return
	}
	message := "email is available"
	if exists {
		message = "email is already in use"
	}
	respond(w, checkEmailResponse{Email: email, Available: !exists}, message)
}
