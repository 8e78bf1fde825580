package api

import (
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5/middleware"

	"github.com/neexbeast/pickyourtrail/internal/travel"
)

const maxBodyBytes = 1 << 20

// Handlers holds the dependencies for all HTTP handlers.
type Handlers struct {
	svc Service
	log *slog.Logger
}

// NewHandlers constructs Handlers with all required dependencies.
func NewHandlers(svc Service, log *slog.Logger) *Handlers {
	return &Handlers{svc: svc, log: log}
}

type messageBody struct {
	Message string `json:"message"`
}

// writeJSON encodes v as JSON and writes it with the given status code.
func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeMessage(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, messageBody{Message: msg})
}

// writeError maps a travel.Error to its status and message. Anything else is
// logged and answered with 500 and the endpoint's generic message.
func (h *Handlers) writeError(w http.ResponseWriter, r *http.Request, err error, generic string) {
	var te *travel.Error
	if errors.As(err, &te) {
		writeMessage(w, statusFor(te.Kind), te.Message)
		return
	}

	h.log.Error(generic,
		"method", r.Method,
		"path", r.URL.Path,
		"request_id", middleware.GetReqID(r.Context()),
		"err", err,
	)
	writeMessage(w, http.StatusInternalServerError, generic)
}

func statusFor(k travel.Kind) int {
	switch k {
	case travel.KindValidation:
		return http.StatusBadRequest
	case travel.KindUnauthenticated:
		return http.StatusUnauthorized
	case travel.KindForbidden:
		return http.StatusForbidden
	case travel.KindNotFound:
		return http.StatusNotFound
	default:
		return http.StatusInternalServerError
	}
}

// decodeJSON reads a JSON request body into v.
func decodeJSON(w http.ResponseWriter, r *http.Request, v any) error {
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes)).Decode(v); err != nil {
		return travel.Errorf(travel.KindValidation, "Invalid request body")
	}
	return nil
}

// readBody returns the raw request body, for document-merge updates.
func readBody(w http.ResponseWriter, r *http.Request) ([]byte, error) {
	b, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err != nil || !json.Valid(b) {
		return nil, travel.Errorf(travel.KindValidation, "Invalid request body")
	}
	return b, nil
}
