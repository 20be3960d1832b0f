package rest

import (
	"net/http"
	"strings"
)

type adoptCatRequest struct {
	CatID  int64  `json:"catId"`
	UserID int64  `json:"userId"`
	Reason string `json:"reason"`
}

type deleteCatRequest struct {
	CatID  int64  `json:"catId"`
	Reason string `json:"reason"`
}

type restoreCatRequest struct {
	CatID int64 `json:"catId"`
}

type createCatRequest struct {
	Name    string `json:"name"`
	Age     int64  `json:"age"`
	OwnerID *int64 `json:"ownerId"`
}

func (h *Handler) catDetail(w http.ResponseWriter, r *http.Request) {
	id, err := queryID(r, "id")
	if err != nil {
		respondError(w, err)
		return
	}
	cat, err := h.cats.Detail(r.Context(), id)
	if err != nil {
		respondError(w, err)
		return
	}
	respond(w, toCatWithOwnerView(cat), "cat detail fetched")
}

func (h *Handler) catAdopt(w http.ResponseWriter, r *http.Request) {
	var req adoptCatRequest
	if err := decodeBody(r, &req); err != nil {
		respondError(w, err)
		return
	}
	if err := positiveID(req.CatID, "catId"); err != nil {
		respondError(w, err)
		return
	}
	if err := positiveID(req.UserID, "userId"); err != nil {
		respondError(w, err)
		return
	}
	cat, err := h.cats.Adopt(r.Context(), req.CatID, req.UserID, req.Reason)
	if err != nil {
		respondError(w, err)
		return
	}
	respond(w, toCatWithOwnerView(cat), "cat adopted")
}

func (h *Handler) catDelete(w http.ResponseWriter, r *http.Request) {
	var req deleteCatRequest
	if err := decodeBody(r, &req); err != nil {
		respondError(w, err)
		return
	}
	if err := positiveID(req.CatID, "catId"); err != nil {
		respondError(w, err)
		return
	}
	result, err := h.cats.Delete(r.Context(), req.CatID, req.Reason)
	if err != nil {
		respondError(w, err)
		return
	}
	respond(w, toCatWithOwnerView(result.Cat), result.Message)
}

func (h *Handler) catRestore(w http.ResponseWriter, r *http.Request) {
	var req restoreCatRequest
	if err := decodeBody(r, &req); err != nil {
		respondError(w, err)
		return
	}
	if err := positiveID(req.CatID, "catId"); err != nil {
		respondError(w, err)
		return
	}
	cat, err := h.cats.Restore(r.Context(), req.CatID)
	if err != nil {
		respondError(w, err)
		return
	}
	respond(w, toCatView(cat), "cat restored")
}

func (h *Handler) catDeleted(w http.ResponseWriter, r *http.Request) {
	cats, err := h.cats.Deleted(r.Context())
	if err != nil {
		respondError(w, err)
		return
	}
	respond(w, toCatViews(cats), "deleted cats fetched")
}

func (h *Handler) catAvailable(w http.ResponseWriter, r *http.Request) {
	cats, err := h.cats.Available(r.Context())
	if err != nil {
		respondError(w, err)
		return
	}
	respond(w, toCatViews(cats), "available cats fetched")
}

func (h *Handler) catsByOwner(w http.ResponseWriter, r *http.Request) {
	userID, err := queryID(r, "userId")
	if err != nil {
		respondError(w, err)
		return
	}
	cats, err := h.cats.ByOwner(r.Context(), userID)
	if err != nil {
		respondError(w, err)
		return
	}
	respond(w, toCatViews(cats), "owned cats fetched")
}

func (h *Handler) catCount(w http.ResponseWriter, r *http.Request) {
	count, err := h.cats.Count(r.Context())
	if err != nil {
		respondError(w, err)
		return
	}
	respond(w, count, "cat count fetched")
}

func (h *Handler) catInsert(w http.ResponseWriter, r *http.Request) {
	var req createCatRequest
	if err := decodeBody(r, &req); err != nil {
		respondError(w, err)
		return
	}
	if strings.TrimSpace(req.Name) == "" {
		respondError(w, invalidArg("name is required"))
		return
	}
	if req.Age <= 0 {
		respondError(w, invalidArg("age must be a positive integer"))
		return
	}
	if req.OwnerID != nil {
		if err := positiveID(*req.OwnerID, "ownerId"); err != nil {
			respondError(w, err)
			return
		}
	}
	cat, err := h.cats.Insert(r.Context(), req.Name, req.Age, req.OwnerID)
	if err != nil {
		respondError(w, err)
		return
	}
	respond(w, toCatView(cat), "cat created")
}
