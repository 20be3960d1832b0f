// Package rest exposes the shelter services as a JSON HTTP API.
//
// Every response uses a uniform envelope: {"code":0,"data":...,"message":...}
// on success and {"code":<http status>,"data":null,"message":...} on failure,
// with the status also set on the wire. Handlers validate shape (positive
// ids, non-empty strings) before invoking a service; everything else is the
// service's job.
package rest

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/strayhq/shelter/internal/shelter/domain"
)

// Handler bundles the services behind the HTTP routes.
type Handler struct {
	cats  *domain.CatService
	users *domain.UserService
	posts *domain.PostService
}

// NewHandler returns a Handler serving the given services.
func NewHandler(cats *domain.CatService, users *domain.UserService, posts *domain.PostService) *Handler {
	return &Handler{cats: cats, users: users, posts: posts}
}

// Router assembles the route tree.
func (h *Handler) Router() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(traceRequests)

	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})

	r.Route("/cat", func(r chi.Router) {
		r.Get("/detail", h.catDetail)
		r.Post("/adopt", h.catAdopt)
		r.Delete("/delete", h.catDelete)
		r.Post("/restore", h.catRestore)
		r.Get("/deleted", h.catDeleted)
		r.Get("/adoptAble", h.catAvailable)
		r.Get("/owner", h.catsByOwner)
		r.Get("/num", h.catCount)
		r.Post("/insert", h.catInsert)
	})

	r.Route("/user", func(r chi.Router) {
		r.Get("/list", h.userList)
		r.Get("/detail", h.userDetail)
		r.Post("/", h.userCreate)
		r.Delete("/delete", h.userRemove)
		r.Delete("/force-delete/{id}", h.userForceRemove)
		r.Get("/check-email/{email}", h.userCheckEmail)
	})

	r.Route("/post", func(r chi.Router) {
		r.Post("/", h.postCreate)
		r.Get("/author", h.postsByAuthor)
	})

	return r
}
