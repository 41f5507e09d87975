package handlers

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strconv"

	"github.com/MrSnakeDoc/converso/internal/companion"
	"github.com/MrSnakeDoc/converso/internal/httpserver/mw"
)

// maxBodyBytes bounds JSON request bodies.
const maxBodyBytes = 64 << 10

type errorResponse struct {
	Error string `json:"error"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, errorResponse{Error: msg})
}

// writeResult renders a lenient read: the value is always written and the
// store outcome travels in a header.
func writeResult[T any](w http.ResponseWriter, res companion.Result[T]) {
	w.Header().Set(mw.StoreStatusHeader, res.Status.String())
	writeJSON(w, http.StatusOK, res.Value)
}

// decodeJSON reads a JSON body into v. An empty body leaves v untouched.
func decodeJSON(w http.ResponseWriter, r *http.Request, v any) error {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil && !errors.Is(err, io.EOF) {
		return err
	}
	return nil
}

// queryInt parses an integer query parameter, returning 0 when absent or invalid.
func queryInt(r *http.Request, key string) int {
	n, err := strconv.Atoi(r.URL.Query().Get(key))
	if err != nil {
		return 0
	}
	return n
}

// mutationStatus maps a write outcome to an HTTP status. ok is false when the
// caller must stop and report the status.
func mutationStatus[T any](res companion.Result[T], err error) (status int, ok bool) {
	switch {
	case errors.Is(err, companion.ErrStoreUnavailable):
		return http.StatusServiceUnavailable, false
	case err != nil:
		return http.StatusInternalServerError, false
	}
	switch res.Status {
	case companion.StatusOK:
		return http.StatusOK, true
	case companion.StatusEmpty:
		return http.StatusUnauthorized, false
	case companion.StatusUnavailable:
		return http.StatusServiceUnavailable, false
	default:
		return http.StatusInternalServerError, false
	}
}
