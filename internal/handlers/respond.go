package handlers

import (
	"ClipSync/internal/validation"
	"encoding/json"
	"net/http"
	"time"
)

// maxBodyBytes: предел тела JSON-запроса.
const maxBodyBytes = 1 << 20

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]any{"error": msg})
}

func writeValidation(w http.ResponseWriter, verr *validation.Error) {
	writeJSON(w, http.StatusBadRequest, map[string]any{"error": verr.Message, "fields": verr.Fields})
}

func decodeJSON(w http.ResponseWriter, r *http.Request, dst any) error {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	return json.NewDecoder(r.Body).Decode(dst)
}

func nowMs() int64 { return time.Now().UnixMilli() }

func isoNow() string { return time.Now().UTC().Format(time.RFC3339) }
