package httpserver

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/url"
	"strconv"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/phenrril/exactmatch/internal/domain"
)

const (
	maxJSONBody      = 1 << 20
	maxMultipartBody = 10 << 20
)

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}

func writeMessage(w http.ResponseWriter, code int, key, msg string) {
	writeJSON(w, code, map[string]string{key: msg})
}

// writeError maps use-case errors onto status codes. notFound is the message
// sent for domain.ErrNotFound.
func writeError(w http.ResponseWriter, r *http.Request, err error, notFound string) {
	var verr *domain.ValidationError
	switch {
	case errors.As(err, &verr):
		writeJSON(w, http.StatusBadRequest, verr.Fields)
	case errors.Is(err, domain.ErrNotFound):
		writeMessage(w, http.StatusNotFound, "error", notFound)
	case errors.Is(err, domain.ErrInvalidCredentials):
		writeMessage(w, http.StatusUnauthorized, "error", "invalid username or password")
	case errors.Is(err, domain.ErrUnauthorized):
		writeMessage(w, http.StatusUnauthorized, "error", "authentication credentials were not provided")
	case errors.Is(err, domain.ErrForbidden):
		writeMessage(w, http.StatusForbidden, "error", "you do not have permission to perform this action")
	case errors.Is(err, domain.ErrConflict), errors.Is(err, domain.ErrCategoryCycle):
		writeMessage(w, http.StatusBadRequest, "error", err.Error())
	default:
		log.Error().Err(err).
			Str("method", r.Method).
			Str("path", r.URL.Path).
			Str("request_id", requestIDFrom(r.Context())).
			Msg("request failed")
		writeMessage(w, http.StatusInternalServerError, "error", "internal error")
	}
}

// decodeJSON reads a bounded JSON body into dst, answering 400 itself when
// the body is unusable.
func decodeJSON(w http.ResponseWriter, r *http.Request, dst any) bool {
	r.Body = http.MaxBytesReader(w, r.Body, maxJSONBody)
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		var tooBig *http.MaxBytesError
		if errors.As(err, &tooBig) {
			writeMessage(w, http.StatusRequestEntityTooLarge, "error", "request body too large")
			return false
		}
		writeMessage(w, http.StatusBadRequest, "error", "invalid JSON body")
		return false
	}
	return true
}

func pathUUID(r *http.Request, name string) (uuid.UUID, bool) {
	id, err := uuid.Parse(r.PathValue(name))
	return id, err == nil
}

func pathUint(r *http.Request, name string) (uint, bool) {
	n, err := strconv.ParseUint(r.PathValue(name), 10, 0)
	if err != nil || n == 0 {
		return 0, false
	}
	return uint(n), true
}

type pageView[T any] struct {
	Count    int64   `json:"count"`
	Next     *string `json:"next"`
	Previous *string `json:"previous"`
	Results  []T     `json:"results"`
}

// paginate builds the list envelope with absolute next/previous links.
func paginate[E, V any](r *http.Request, p domain.Page[E], view func(*E) V) pageView[V] {
	out := pageView[V]{Count: p.Total, Results: make([]V, 0, len(p.Items))}
	for i := range p.Items {
		out.Results = append(out.Results, view(&p.Items[i]))
	}
	if p.HasNext() {
		u := pageURL(r, p.Page+1)
		out.Next = &u
	}
	if p.HasPrevious() {
		u := pageURL(r, p.Page-1)
		out.Previous = &u
	}
	return out
}

func pageURL(r *http.Request, page int) string {
	q := r.URL.Query()
	if page <= 1 {
		q.Del("page")
	} else {
		q.Set("page", strconv.Itoa(page))
	}
	u := url.URL{Path: r.URL.Path, RawQuery: q.Encode()}
	return canonicalBase(r) + u.String()
}
