package rest

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"strconv"
	"strings"

	apperrors "github.com/strayhq/shelter/internal/errors"
)

type envelope struct {
	Code    int    `json:"code"`
	Data    any    `json:"data"`
	Message string `json:"message"`
}

func respond(w http.ResponseWriter, data any, message string) {
	writeJSON(w, http.StatusOK, envelope{Code: 0, Data: data, Message: message})
}

func respondError(w http.ResponseWriter, err error) {
	var appErr *apperrors.Error
	if !errors.As(err, &appErr) {
		log.Printf("unhandled api error: %v", err)
		writeJSON(w, http.StatusInternalServerError, envelope{
			Code:    http.StatusInternalServerError,
			Message: "internal server error",
		})
		return
	}
	status := appErr.Code.HTTPStatus()
	writeJSON(w, status, envelope{Code: status, Message: appErr.Message})
}

func writeJSON(w http.ResponseWriter, status int, body envelope) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		log.Printf("encode response: %v", err)
	}
}

// decodeBody rejects unknown fields so typos in client payloads surface
// instead of silently defaulting.
func decodeBody(r *http.Request, dst any) error {
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(dst); err != nil {
		return apperrors.New(apperrors.CodeInvalidArgument, "invalid request body")
	}
	return nil
}

func invalidArg(message string) error {
	return apperrors.New(apperrors.CodeInvalidArgument, message)
}

// queryID parses a required positive integer query parameter.
func queryID(r *http.Request, name string) (int64, error) {
	raw := strings.TrimSpace(r.URL.Query().Get(name))
	if raw == "" {
		return 0, invalidArg(name + " is required")
	}
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		return 0, invalidArg(name + " must be a positive integer")
	}
	return id, nil
}

// queryBool parses an optional boolean query parameter, defaulting to false.
func queryBool(r *http.Request, name string) (bool, error) {
	raw := strings.TrimSpace(r.URL.Query().Get(name))
	if raw == "" {
		return false, nil
	}
	v, err := strconv.ParseBool(raw)
	if err != nil {
		return false, invalidArg(name + " must be a boolean")
	}
	return v, nil
}

func positiveID(id int64, name string) error {
	if id <= 0 {
		return invalidArg(name + " must be a positive integer")
	}
	return nil
}
