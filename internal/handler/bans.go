package handler

import (
	"net/http"

	mw "github.com/wyhaines/boards/internal/middleware"
	"github.com/wyhaines/boards/internal/utils"
)

func (h *Handler) BanUser(w http.ResponseWriter, r *http.Request) {
	board, err := boardId(r)
	if err != nil {
		utils.WriteErrorAndStatusCode(w, err)
		return
	}
	target, err := userParam(r)
	if err != nil {
		utils.WriteErrorAndStatusCode(w, err)
		return
	}
	var body BanRequest
	if err := utils.Decode(r.Body, &body); err != nil {
		utils.WriteErrorAndStatusCode(w, err)
		return
	}
	reason := utils.SanitizeText(body.Reason)
	if err := h.auth.BanUser(mw.Principal(r), board, target, reason, body.DurationHours); err != nil {
		utils.WriteErrorAndStatusCode(w, err)
		return
	}
	w.WriteHeader(http.StatusCreated)
}

func (h *Handler) UnbanUser(w http.ResponseWriter, r *http.Request) {
	board, err := boardId(r)
	if err != nil {
		utils.WriteErrorAndStatusCode(w, err)
		return
	}
	target, err := userParam(r)
	if err != nil {
		utils.WriteErrorAndStatusCode(w, err)
		return
	}
	if err := h.auth.UnbanUser(mw.Principal(r), board, target); err != nil {
		utils.WriteErrorAndStatusCode(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) GetBan(w http.ResponseWriter, r *http.Request) {
	board, err := boardId(r)
	if err != nil {
		utils.WriteErrorAndStatusCode(w, err)
		return
	}
	user, err := userParam(r)
	if err != nil {
		utils.WriteErrorAndStatusCode(w, err)
		return
	}
	ban, err := h.auth.GetBan(board, user)
	if err != nil {
		utils.WriteErrorAndStatusCode(w, err)
		return
	}
	writeJSON(w, ban)
}

func (h *Handler) ListBans(w http.ResponseWriter, r *http.Request) {
	board, err := boardId(r)
	if err != nil {
		utils.WriteErrorAndStatusCode(w, err)
		return
	}
	bans, err := h.auth.ListBans(mw.Principal(r), board)
	if err != nil {
		utils.WriteErrorAndStatusCode(w, err)
		return
	}
	writeJSON(w, bans)
}
