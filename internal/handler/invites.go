package handler

import (
	"net/http"

	mw "github.com/wyhaines/boards/internal/middleware"
	"github.com/wyhaines/boards/internal/domain"
	"github.com/wyhaines/boards/internal/errors"
	"github.com/wyhaines/boards/internal/utils"
)

// RequestInvite files the caller's own membership request.
func (h *Handler) RequestInvite(w http.ResponseWriter, r *http.Request) {
	board, err := boardId(r)
	if err != nil {
		utils.WriteErrorAndStatusCode(w, err)
		return
	}
	if err := h.auth.RequestInvite(mw.Principal(r), board); err != nil {
		utils.WriteErrorAndStatusCode(w, err)
		return
	}
	w.WriteHeader(http.StatusCreated)
}

func (h *Handler) AcceptInvite(w http.ResponseWriter, r *http.Request) {
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
	if err := h.auth.AcceptInvite(mw.Principal(r), board, target); err != nil {
		utils.WriteErrorAndStatusCode(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) RevokeInvite(w http.ResponseWriter, r *http.Request) {
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
	if err := h.auth.RevokeInvite(mw.Principal(r), board, target); err != nil {
		utils.WriteErrorAndStatusCode(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// InviteMember grants a role directly, skipping the request step. The body
// is optional; an omitted role defaults to member.
func (h *Handler) InviteMember(w http.ResponseWriter, r *http.Request) {
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
	role := domain.RoleMember
	if r.ContentLength != 0 {
		var body InviteMemberRequest
		if err := utils.Decode(r.Body, &body); err != nil {
			utils.WriteErrorAndStatusCode(w, err)
			return
		}
		if body.Role != "" {
			role, err = domain.ParseRole(body.Role)
			if err != nil {
				utils.WriteErrorAndStatusCode(w, errors.InvalidArgument("%v", err))
				return
			}
		}
	}
	if err := h.auth.InviteMember(mw.Principal(r), board, target, role); err != nil {
		utils.WriteErrorAndStatusCode(w, err)
		return
	}
	w.WriteHeader(http.StatusCreated)
}

func (h *Handler) ListInviteRequests(w http.ResponseWriter, r *http.Request) {
	board, err := boardId(r)
	if err != nil {
		utils.WriteErrorAndStatusCode(w, err)
		return
	}
	reqs, err := h.auth.ListInviteRequests(mw.Principal(r), board)
	if err != nil {
		utils.WriteErrorAndStatusCode(w, err)
		return
	}
	writeJSON(w, reqs)
}
