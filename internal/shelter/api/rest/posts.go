package rest

import (
	"net/http"
	"strings"
)

type createPostRequest struct {
	AuthorID  int64  `json:"authorId"`
	Title     string `json:"title"`
	Content   string `json:"content"`
	Published bool   `json:"published"`
}

func (h *Handler) postCreate(w http.ResponseWriter, r *http.Request) {
	var req createPostRequest
	if err := decodeBody(r, &req); err != nil {
		respondError(w, err)
		return
	}
	if err := positiveID(req.AuthorID, "authorId"); err != nil {
		respondError(w, err)
		return
	}
	if strings.TrimSpace(req.Title) == "" {
		respondError(w, invalidArg("title is required"))
		return
	}
	post, err := h.posts.Create(r.Context(), req.AuthorID, req.Title, req.Content, req.Published)
	if err != nil {
		respondError(w, err)
		return
	}
	respond(w, toPostView(post), "post created")
}

func (h *Handler) postsByAuthor(w http.ResponseWriter, r *http.Request) {
	authorID, err := queryID(r, "authorId")
	if err != nil {
		respondError(w, err)
		return
	}
	posts, err := h.posts.ByAuthor(r.Context(), authorID)
	if err != nil {
		respondError(w, err)
		return
	}
	respond(w, toPostViews(posts), "posts fetched")
}
