package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"oversight/database"
	"oversight/service"

	log "github.com/sirupsen/logrus"
)

// Response is the envelope of every JSON body the API writes
type Response struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
	Data    any    `json:"data,omitempty"`
	Error   string `json:"error,omitempty"`
}

func writeJSON(w http.ResponseWriter, status int, body Response) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		log.WithError(err).Warn("Failed to encode response")
	}
}

func respondOK(w http.ResponseWriter, message string, data any) {
	writeJSON(w, http.StatusOK, Response{Success: true, Message: message, Data: data})
}

func respondCreated(w http.ResponseWriter, message string, data any) {
	writeJSON(w, http.StatusCreated, Response{Success: true, Message: message, Data: data})
}

// respondPage writes items under key next to their pagination block
func respondPage(w http.ResponseWriter, message, key string, items any, pagination any) {
	respondOK(w, message, map[string]any{
		key:          items,
		"pagination": pagination,
	})
}

func respondMessage(w http.ResponseWriter, status int, message string, data any) {
	writeJSON(w, status, Response{Success: false, Message: message, Data: data})
}

// errorMapper turns service and driver errors into envelopes. Detail is only exposed in
// development.
type errorMapper struct {
	exposeDetail bool
}

func (m errorMapper) respond(w http.ResponseWriter, r *http.Request, err error, failure string) {
	status, message, data := m.classify(err, failure)

	entry := log.WithFields(log.Fields{
		"method":    r.Method,
		"path":      r.URL.Path,
		"status":    status,
		"requestID": RequestIDFrom(r.Context()),
	}).WithError(err)
	if status >= http.StatusInternalServerError {
		entry.Error(failure)
	} else {
		entry.Debug(message)
	}

	body := Response{Success: false, Message: message, Data: data}
	if m.exposeDetail && status >= http.StatusInternalServerError {
		body.Error = err.Error()
	}
	writeJSON(w, status, body)
}

func (m errorMapper) classify(err error, failure string) (int, string, any) {
	var (
		validation *service.ValidationError
		missing    *service.NotFoundError
		badLogin   *service.InvalidCredentialsError
		locked     *service.AccountLockedError
	)

	switch {
	case errors.As(err, &validation):
		return http.StatusBadRequest, validation.Error(), nil
	case errors.As(err, &badLogin):
		return http.StatusUnauthorized, "Invalid credentials", map[string]int{"attempts_remaining": badLogin.AttemptsRemaining}
	case errors.As(err, &locked):
		return http.StatusTooManyRequests,
			fmt.Sprintf("Account locked due to too many failed login attempts. Try again in %d minutes.", locked.RemainingMinutes),
			map[string]int{"remaining_minutes": locked.RemainingMinutes}
	case errors.As(err, &missing):
		return http.StatusNotFound, capitalize(missing.Resource) + " not found", nil
	case errors.Is(err, service.ErrNotFound):
		return http.StatusNotFound, "Resource not found", nil
	case errors.Is(err, service.ErrAccountInactive):
		return http.StatusForbidden, "Account is inactive. Please contact administrator.", nil
	case errors.Is(err, service.ErrUnauthorized):
		return http.StatusUnauthorized, "Authentication required", nil
	case errors.Is(err, service.ErrForbidden):
		return http.StatusForbidden, err.Error(), nil
	case errors.Is(err, service.ErrConflict):
		return http.StatusConflict, err.Error(), nil
	case errors.Is(err, service.ErrServiceUnavailable), database.IsTimeout(err):
		return http.StatusServiceUnavailable, "Service temporarily unavailable", nil
	}

	if code, ok := database.ConstraintCode(err); ok {
		return http.StatusBadRequest, database.ConstraintMessage(code), nil
	}
	return http.StatusInternalServerError, failure, nil
}

func capitalize(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}
