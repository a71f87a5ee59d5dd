package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	mw "github.com/wyhaines/boards/internal/middleware"
	"github.com/wyhaines/boards/internal/domain"
	"github.com/wyhaines/boards/internal/utils"
)

// Flag routes exist twice: on threads (reply id 0) and on individual
// replies. targetIds resolves both shapes.
func targetIds(r *http.Request) (domain.BoardId, domain.ThreadId, domain.ReplyId, error) {
	board, err := boardId(r)
	if err != nil {
		return 0, 0, 0, err
	}
	thread, err := threadId(r)
	if err != nil {
		return 0, 0, 0, err
	}
	// Thread-level routes carry no reply segment; reply 0 targets the
	// thread itself.
	var reply domain.ReplyId
	if chi.URLParam(r, "reply") != "" {
		reply, err = replyId(r)
		if err != nil {
			return 0, 0, 0, err
		}
	}
	return board, thread, reply, nil
}

func (h *Handler) FlagContent(w http.ResponseWriter, r *http.Request) {
	board, thread, reply, err := targetIds(r)
	if err != nil {
		utils.WriteErrorAndStatusCode(w, err)
		return
	}
	var body FlagRequest
	if err := utils.Decode(r.Body, &body); err != nil {
		utils.WriteErrorAndStatusCode(w, err)
		return
	}
	reason := utils.SanitizeText(body.Reason)
	count, err := h.content.FlagContent(mw.Principal(r), board, thread, reply, reason)
	if err != nil {
		utils.WriteErrorAndStatusCode(w, err)
		return
	}
	writeJSONStatus(w, http.StatusCreated, FlagCountResponse{FlagCount: count})
}

func (h *Handler) UnflagContent(w http.ResponseWriter, r *http.Request) {
	board, thread, reply, err := targetIds(r)
	if err != nil {
		utils.WriteErrorAndStatusCode(w, err)
		return
	}
	count, err := h.content.UnflagContent(mw.Principal(r), board, thread, reply)
	if err != nil {
		utils.WriteErrorAndStatusCode(w, err)
		return
	}
	writeJSON(w, FlagCountResponse{FlagCount: count})
}

func (h *Handler) GetFlagCount(w http.ResponseWriter, r *http.Request) {
	board, thread, reply, err := targetIds(r)
	if err != nil {
		utils.WriteErrorAndStatusCode(w, err)
		return
	}
	count, err := h.content.GetFlagCount(board, thread, reply)
	if err != nil {
		utils.WriteErrorAndStatusCode(w, err)
		return
	}
	writeJSON(w, FlagCountResponse{FlagCount: count})
}

func (h *Handler) GetFlags(w http.ResponseWriter, r *http.Request) {
	board, thread, reply, err := targetIds(r)
	if err != nil {
		utils.WriteErrorAndStatusCode(w, err)
		return
	}
	flags, err := h.content.GetFlags(mw.Principal(r), board, thread, reply)
	if err != nil {
		utils.WriteErrorAndStatusCode(w, err)
		return
	}
	if flags == nil {
		flags = []domain.Flag{}
	}
	writeJSON(w, flags)
}

func (h *Handler) ClearFlags(w http.ResponseWriter, r *http.Request) {
	board, thread, reply, err := targetIds(r)
	if err != nil {
		utils.WriteErrorAndStatusCode(w, err)
		return
	}
	if err := h.content.ClearFlags(mw.Principal(r), board, thread, reply); err != nil {
		utils.WriteErrorAndStatusCode(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) GetFlaggedContent(w http.ResponseWriter, r *http.Request) {
	board, err := boardId(r)
	if err != nil {
		utils.WriteErrorAndStatusCode(w, err)
		return
	}
	items, err := h.content.GetFlaggedContent(mw.Principal(r), board)
	if err != nil {
		utils.WriteErrorAndStatusCode(w, err)
		return
	}
	if items == nil {
		items = []domain.FlaggedItem{}
	}
	writeJSON(w, items)
}

func (h *Handler) GetBodyChunk(w http.ResponseWriter, r *http.Request) {
	board, thread, reply, err := targetIds(r)
	if err != nil {
		utils.WriteErrorAndStatusCode(w, err)
		return
	}
	index, err := parseUintParam(r, "index")
	if err != nil {
		utils.WriteErrorAndStatusCode(w, err)
		return
	}
	chunk, err := h.content.GetBodyChunk(board, thread, reply, uint32(index))
	if err != nil {
		utils.WriteErrorAndStatusCode(w, err)
		return
	}
	w.Header().Set("Content-Type", "application/octet-stream")
	w.Write(chunk)
}

func (h *Handler) GetChunkCount(w http.ResponseWriter, r *http.Request) {
	board, thread, reply, err := targetIds(r)
	if err != nil {
		utils.WriteErrorAndStatusCode(w, err)
		return
	}
	count, err := h.content.GetChunkCount(board, thread, reply)
	if err != nil {
		utils.WriteErrorAndStatusCode(w, err)
		return
	}
	writeJSON(w, ChunkCountResponse{ChunkCount: count})
}
