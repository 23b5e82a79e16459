package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"

	"github.com/sirupsen/logrus"
	"github.com/ukydev/marine-pms/internal/pms"
)

const maxBodyBytes = 1 << 20

var errForbiddenVessel = errors.New("vessel is outside your assignment")

type errorResponse struct {
	Error string `json:"error"`
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

// statusFor maps domain errors onto HTTP status codes.
func statusFor(err error) int {
	switch {
	case errors.Is(err, pms.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, pms.ErrInvalidInput):
		return http.StatusBadRequest
	case errors.Is(err, pms.ErrConflict):
		return http.StatusConflict
	case errors.Is(err, errForbiddenVessel):
		return http.StatusForbidden
	default:
		return http.StatusInternalServerError
	}
}

// writeError answers with a JSON error body. Internal failures are logged
// and reported without detail.
func writeError(w http.ResponseWriter, log logrus.FieldLogger, err error) {
	status := statusFor(err)
	msg := err.Error()
	if status == http.StatusInternalServerError {
		log.WithError(err).Error("Request failed")
		msg = "internal server error"
	}
	writeJSON(w, status, errorResponse{Error: msg})
}

func badRequest(w http.ResponseWriter, msg string) {
	writeJSON(w, http.StatusBadRequest, errorResponse{Error: msg})
}

func decodeJSON(r *http.Request, dst interface{}) error {
	body, err := io.ReadAll(io.LimitReader(r.Body, maxBodyBytes))
	if err != nil {
		return fmt.Errorf("%w: failed to read request body", pms.ErrInvalidInput)
	}
	if err := json.Unmarshal(body, dst); err != nil {
		return fmt.Errorf("%w: invalid JSON", pms.ErrInvalidInput)
	}
	return nil
}

// intQuery reads an optional integer query parameter.
func intQuery(r *http.Request, key string, def int) (int, error) {
	raw := r.URL.Query().Get(key)
	if raw == "" {
		return def, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return 0, fmt.Errorf("%w: %s must be an integer", pms.ErrInvalidInput, key)
	}
	return n, nil
}
