package httpx

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strconv"
	"strings"
)

// MaxBodyBytes caps JSON request bodies. Generated images travel as data URLs,
// so the limit is generous.
const MaxBodyBytes = 16 << 20

type ErrorResponse struct {
	Error   string `json:"error"`
	Details any    `json:"details,omitempty"`
}

func JSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	var body []byte
	var err error
	if payload != nil {
		body, err = json.Marshal(payload)
		if err != nil {
			// best-effort error response; avoid writing partial JSON
			http.Error(w, `{"error":"encode_error"}`, http.StatusInternalServerError)
			return
		}
	} else {
		body = []byte("null")
	}
	w.WriteHeader(status)
	if _, err := w.Write(body); err != nil {
		// nothing we can do at this point
		_ = err
	}
}

func JSONError(w http.ResponseWriter, status int, msg string, details any) {
	JSON(w, status, ErrorResponse{Error: msg, Details: details})
}

// ErrEmptyBody is returned by DecodeJSON when the request has no body.
var ErrEmptyBody = errors.New("empty body")

// DecodeJSON decodes the request body into dst, bounded by MaxBodyBytes.
func DecodeJSON(w http.ResponseWriter, r *http.Request, dst any) error {
	if r.Body == nil {
		return ErrEmptyBody
	}
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, MaxBodyBytes))
	if err := dec.Decode(dst); err != nil {
		if errors.Is(err, io.EOF) {
			return ErrEmptyBody
		}
		return err
	}
	return nil
}

// QueryID reads a positive integer id from ?id=. ok is false when the
// parameter is missing; err is set when it is present but malformed.
func QueryID(r *http.Request) (id uint, ok bool, err error) {
	return parseID(r.URL.Query().Get("id"))
}

// PathID reads a positive integer id from the {id} path wildcard.
func PathID(r *http.Request) (id uint, ok bool, err error) {
	return parseID(r.PathValue("id"))
}

var errInvalidID = errors.New("invalid id")

func parseID(raw string) (uint, bool, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return 0, false, nil
	}
	n, err := strconv.ParseUint(raw, 10, 64)
	if err != nil || n == 0 {
		return 0, true, errInvalidID
	}
	return uint(n), true, nil
}

// RequireID resolves an id with one of the readers above and writes the
// 400 response itself when the id is missing or malformed.
func RequireID(w http.ResponseWriter, r *http.Request, read func(*http.Request) (uint, bool, error)) (uint, bool) {
	id, present, err := read(r)
	if !present {
		JSONError(w, http.StatusBadRequest, "missing_id", nil)
		return 0, false
	}
	if err != nil {
		JSONError(w, http.StatusBadRequest, "invalid_id", nil)
		return 0, false
	}
	return id, true
}
