package server

import (
	"encoding/json"
	"io"
	"log"
	"net/http"
	"strconv"
	"strings"

	"github.com/MeMoElprince/QA-Game/internal/apperr"
)

func readJSON(body io.Reader, dest any) error {
	decoder := json.NewDecoder(body)
	decoder.DisallowUnknownFields()
	return decoder.Decode(dest)
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{
		"error": message,
	})
}

// writeAppError maps a service error to its HTTP status. Errors without a
// kind are logged and reported as a plain 500.
func writeAppError(w http.ResponseWriter, err error) {
	kind := apperr.KindOf(err)
	if kind == apperr.Unknown {
		log.Printf("internal error err=%v", err)
		writeError(w, http.StatusInternalServerError, "internal error")
		return
	}
	writeError(w, statusFor(kind), err.Error())
}

func statusFor(kind apperr.Kind) int {
	switch kind {
	case apperr.Invalid, apperr.InvalidState, apperr.InsufficientResource:
		return http.StatusBadRequest
	case apperr.Unauthorized:
		return http.StatusUnauthorized
	case apperr.Forbidden:
		return http.StatusForbidden
	case apperr.NotFound:
		return http.StatusNotFound
	case apperr.Conflict:
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

// pathID parses a numeric path value and reports false after writing the
// 400 response when the segment is not a positive integer.
func pathID(w http.ResponseWriter, r *http.Request, name string) (uint, bool) {
	raw := r.PathValue(name)
	value, err := strconv.ParseUint(raw, 10, 32)
	if err != nil || value == 0 {
		writeError(w, http.StatusBadRequest, "invalid "+name)
		return 0, false
	}
	return uint(value), true
}

func parsePagination(r *http.Request, defaultLimit, maxLimit int) (int, int) {
	page := 1
	limit := defaultLimit
	if raw := strings.TrimSpace(r.URL.Query().Get("page")); raw != "" {
		if value, err := strconv.Atoi(raw); err == nil && value > 0 {
			page = value
		}
	}
	if raw := strings.TrimSpace(r.URL.Query().Get("limit")); raw != "" {
		if value, err := strconv.Atoi(raw); err == nil && value > 0 {
			limit = value
		}
	}
	if maxLimit > 0 && limit > maxLimit {
		limit = maxLimit
	}
	return page, limit
}

func listResponse(items any, total int64, page, limit int) map[string]any {
	return map[string]any{
		"items": items,
		"total": total,
		"page":  page,
		"limit": limit,
	}
}
