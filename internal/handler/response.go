package handler

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"github.com/habinote/habinote-go/internal/model"
)

const maxBodyBytes = 1 << 20 // 1MB

// decodeBody reads a JSON request body into dst. An empty body leaves dst
// zeroed so the missing fields are reported by validation. On failure it
// writes the error response and returns false.
func decodeBody(w http.ResponseWriter, r *http.Request, dst any) bool {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	defer r.Body.Close()

	err := json.NewDecoder(r.Body).Decode(dst)
	if err == nil || errors.Is(err, io.EOF) {
		return true
	}

	var tooLarge *http.MaxBytesError
	if errors.As(err, &tooLarge) {
		writeJSON(w, http.StatusRequestEntityTooLarge, errorResponse(msgBodyTooLarge))
		return false
	}
	writeJSON(w, http.StatusBadRequest, errorResponse(msgInvalidRequestBody))
	return false
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func errorResponse(msg string) model.ErrorResponse {
	return model.ErrorResponse{Success: false, Message: msg}
}
