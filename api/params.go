package api

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"oversight/auth"
	"oversight/models"
	"oversight/service"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
)

const maxBodyBytes = 10 << 20

// pageFromQuery reads page and limit; missing or invalid values fall back to the defaults
func pageFromQuery(r *http.Request) models.PageRequest {
	q := r.URL.Query()
	page, _ := strconv.Atoi(q.Get("page"))
	limit, _ := strconv.Atoi(q.Get("limit"))
	return models.NewPageRequest(page, limit)
}

func pathUUID(r *http.Request, name string) (uuid.UUID, error) {
	raw := mux.Vars(r)[name]
	id, err := uuid.Parse(raw)
	if err != nil {
		return uuid.Nil, service.NewValidationError(name, "invalid id %q", raw)
	}
	return id, nil
}

// queryUUID returns nil when the parameter is absent
func queryUUID(r *http.Request, name string) (*uuid.UUID, error) {
	raw := strings.TrimSpace(r.URL.Query().Get(name))
	if raw == "" {
		return nil, nil
	}
	id, err := uuid.Parse(raw)
	if err != nil {
		return nil, service.NewValidationError(name, "invalid id %q", raw)
	}
	return &id, nil
}

func queryInt(r *http.Request, name string) (int, error) {
	raw := strings.TrimSpace(r.URL.Query().Get(name))
	if raw == "" {
		return 0, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return 0, service.NewValidationError(name, "must be an integer")
	}
	return n, nil
}

// queryDate accepts the snake_case name and its camelCase alias
func queryDate(r *http.Request, name, alias string) (*models.Date, error) {
	q := r.URL.Query()
	raw := q.Get(name)
	if raw == "" {
		raw = q.Get(alias)
	}
	if raw == "" {
		return nil, nil
	}
	d, err := models.ParseDate(raw)
	if err != nil {
		return nil, service.NewValidationError(name, "%v", err)
	}
	return &d, nil
}

func queryTime(r *http.Request, name, alias string) (*time.Time, error) {
	d, err := queryDate(r, name, alias)
	if err != nil || d == nil {
		return nil, err
	}
	return &d.Time, nil
}

func queryBool(r *http.Request, name string) bool {
	v, _ := strconv.ParseBool(r.URL.Query().Get(name))
	return v
}

// decodeJSON reads the request body into dst
func decodeJSON(w http.ResponseWriter, r *http.Request, dst any) error {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		if errors.Is(err, io.EOF) {
			return service.NewValidationError("", "request body is required")
		}
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			return service.NewValidationError("", "request body exceeds %d bytes", tooLarge.Limit)
		}
		return service.NewValidationError("", "invalid request body: %v", err)
	}
	return nil
}

// decodeUpdates reads a partial update object
func decodeUpdates(w http.ResponseWriter, r *http.Request) (map[string]any, error) {
	var updates map[string]any
	if err := decodeJSON(w, r, &updates); err != nil {
		return nil, err
	}
	if len(updates) == 0 {
		return nil, service.NewValidationError("", "no fields to update")
	}
	return updates, nil
}

// identityOf returns the caller attached by the authentication middleware
func identityOf(r *http.Request) models.Identity {
	identity, _ := auth.IdentityFrom(r.Context())
	return identity
}
