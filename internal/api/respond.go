package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/rs/zerolog"

	"github.com/abhisek/leetreview/internal/spacedrep"
	"github.com/abhisek/leetreview/internal/store"
	"github.com/abhisek/leetreview/internal/tracker"
)

const maxBodyBytes = 1 << 20

// errBadRequest marks input that could not be decoded.
var errBadRequest = errors.New("bad request")

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if v != nil {
		_ = json.NewEncoder(w).Encode(v)
	}
}

// writeError maps err to a status code and a {"detail": ...} body.
func writeError(w http.ResponseWriter, r *http.Request, err error) {
	status, detail := http.StatusInternalServerError, "Internal server error"

	var ve *tracker.ValidationError
	switch {
	case errors.As(err, &ve):
		status, detail = http.StatusUnprocessableEntity, ve.Error()
	case errors.Is(err, spacedrep.ErrInvalidOutcome):
		status, detail = http.StatusUnprocessableEntity, err.Error()
	case errors.Is(err, store.ErrNotFound):
		status, detail = http.StatusNotFound, "Problem not found"
	case errors.Is(err, errBadRequest):
		status, detail = http.StatusBadRequest, err.Error()
	}

	if status >= http.StatusInternalServerError {
		zerolog.Ctx(r.Context()).Error().Err(err).Str("path", r.URL.Path).Msg("request failed")
	}
	writeJSON(w, status, errorResponse{Detail: detail})
}

func decodeJSON(w http.ResponseWriter, r *http.Request, v any) error {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		return fmt.Errorf("%w: malformed JSON body: %v", errBadRequest, err)
	}
	return nil
}

func pathID(r *http.Request) (int, error) {
	raw := r.PathValue("id")
	id, err := strconv.Atoi(raw)
	if err != nil || id < 1 {
		return 0, fmt.Errorf("%w: invalid problem id %q", errBadRequest, raw)
	}
	return id, nil
}

// queryInt parses an optional integer query parameter. ok is false when
// the parameter is absent.
func queryInt(r *http.Request, name string) (n int, ok bool, err error) {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return 0, false, nil
	}
	n, err = strconv.Atoi(raw)
	if err != nil {
		return 0, true, &tracker.ValidationError{Field: name, Message: "must be an integer"}
	}
	return n, true, nil
}
