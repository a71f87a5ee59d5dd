package handler

import (
	"net/http"

	mw "github.com/wyhaines/boards/internal/middleware"
	"github.com/wyhaines/boards/internal/utils"
)

func (h *Handler) GetBoardConfig(w http.ResponseWriter, r *http.Request) {
	board, err := boardId(r)
	if err != nil {
		utils.WriteErrorAndStatusCode(w, err)
		return
	}
	cfg, err := h.auth.GetBoardConfig(board)
	if err != nil {
		utils.WriteErrorAndStatusCode(w, err)
		return
	}
	writeJSON(w, cfg)
}

// UpdateBoardConfig applies the knobs present in the body, one setter each,
// inside the request's transaction boundary per knob. Absent knobs stay
// untouched; the first failing knob aborts the rest.
func (h *Handler) UpdateBoardConfig(w http.ResponseWriter, r *http.Request) {
	board, err := boardId(r)
	if err != nil {
		utils.WriteErrorAndStatusCode(w, err)
		return
	}
	var body BoardConfigRequest
	if err := utils.Decode(r.Body, &body); err != nil {
		utils.WriteErrorAndStatusCode(w, err)
		return
	}
	caller := mw.Principal(r)

	if body.FlagThreshold != nil {
		if err := h.auth.SetFlagThreshold(caller, board, *body.FlagThreshold); err != nil {
			utils.WriteErrorAndStatusCode(w, err)
			return
		}
	}
	if body.EditWindowSeconds != nil {
		if err := h.auth.SetEditWindow(caller, board, *body.EditWindowSeconds); err != nil {
			utils.WriteErrorAndStatusCode(w, err)
			return
		}
	}
	if body.MaxReplyDepth != nil {
		if err := h.auth.SetMaxReplyDepth(caller, board, *body.MaxReplyDepth); err != nil {
			utils.WriteErrorAndStatusCode(w, err)
			return
		}
	}
	if body.ChunkSize != nil {
		if err := h.auth.SetChunkSize(caller, board, *body.ChunkSize); err != nil {
			utils.WriteErrorAndStatusCode(w, err)
			return
		}
	}
	if body.ReadOnly != nil {
		if err := h.auth.SetReadOnly(caller, board, *body.ReadOnly); err != nil {
			utils.WriteErrorAndStatusCode(w, err)
			return
		}
	}

	cfg, err := h.auth.GetBoardConfig(board)
	if err != nil {
		utils.WriteErrorAndStatusCode(w, err)
		return
	}
	writeJSON(w, cfg)
}
