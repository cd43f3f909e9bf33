package server

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/xtding233/ba-companion/internal/banner"
	"github.com/xtding233/ba-companion/internal/calc"
)

// errResp is the body of every failed request.
type errResp struct {
	Err string `json:"err"`
}

// parseInt reads an optional integer query parameter. ok is false when the
// parameter is absent; msg is set when it is present but malformed.
func parseInt(r *http.Request, key string) (v int, ok bool, msg string) {
	s := r.URL.Query().Get(key)
	if s == "" {
		return 0, false, ""
	}
	v, err := strconv.Atoi(s)
	if err != nil {
		return 0, false, "invalid " + key
	}
	return v, true, ""
}

// requireInt is parseInt for mandatory parameters.
func requireInt(r *http.Request, key string) (int, string) {
	v, ok, msg := parseInt(r, key)
	if msg != "" {
		return 0, msg
	}
	if !ok {
		return 0, "missing param " + key
	}
	return v, ""
}

// statusFor maps domain errors to HTTP status codes.
func statusFor(err error) int {
	var fe *banner.FetchError
	switch {
	case errors.Is(err, calc.ErrRange), errors.Is(err, calc.ErrInvalidCombination):
		return http.StatusBadRequest
	case errors.As(err, &fe):
		return http.StatusBadGateway
	}
	return http.StatusInternalServerError
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeErr(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, errResp{Err: msg})
}
