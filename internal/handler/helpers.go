package handler

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/wyhaines/boards/internal/domain"
	"github.com/wyhaines/boards/internal/errors"
	"github.com/wyhaines/boards/internal/logger"
)

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(v); err != nil {
		logger.Log.Error("response encode failed", "error", err)
	}
}

func writeJSONStatus(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		logger.Log.Error("response encode failed", "error", err)
	}
}

func parseUintParam(r *http.Request, name string) (uint64, error) {
	raw := chi.URLParam(r, name)
	v, err := strconv.ParseUint(raw, 10, 64)
	if err != nil {
		return 0, errors.InvalidArgument("invalid %s %q", name, raw)
	}
	return v, nil
}

// boardId, threadId, replyId pull path segments; handlers bail with 400 on
// anything non-numeric.

func boardId(r *http.Request) (domain.BoardId, error) {
	return parseUintParam(r, "board")
}

func threadId(r *http.Request) (domain.ThreadId, error) {
	return parseUintParam(r, "thread")
}

func replyId(r *http.Request) (domain.ReplyId, error) {
	return parseUintParam(r, "reply")
}

func userParam(r *http.Request) (domain.UserId, error) {
	user := chi.URLParam(r, "user")
	if user == "" {
		return "", errors.InvalidArgument("missing user")
	}
	return domain.UserId(user), nil
}

func parseQueryUint(raw, name string) (uint64, error) {
	v, err := strconv.ParseUint(raw, 10, 64)
	if err != nil {
		return 0, errors.InvalidArgument("invalid %s %q", name, raw)
	}
	return v, nil
}

// pageParams reads offset/limit query parameters; both default to 0, which
// the stores translate to first page / board default page size.
func pageParams(r *http.Request) (offset, limit uint32, err error) {
	parse := func(name string) (uint32, error) {
		raw := r.URL.Query().Get(name)
		if raw == "" {
			return 0, nil
		}
		v, err := strconv.ParseUint(raw, 10, 32)
		if err != nil {
			return 0, errors.InvalidArgument("invalid %s %q", name, raw)
		}
		return uint32(v), nil
	}
	if offset, err = parse("offset"); err != nil {
		return
	}
	limit, err = parse("limit")
	return
}

func writeCreated(w http.ResponseWriter, id uint64) {
	w.WriteHeader(http.StatusCreated)
	fmt.Fprintf(w, "%d", id)
}
