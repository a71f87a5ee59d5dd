package handler

import (
	"net/http"

	mw "github.com/wyhaines/boards/internal/middleware"
	"github.com/wyhaines/boards/internal/domain"
	"github.com/wyhaines/boards/internal/utils"
)

// SetBoardOwner bootstraps a board. The authenticated caller becomes owner
// unless the body names someone else.
func (h *Handler) SetBoardOwner(w http.ResponseWriter, r *http.Request) {
	board, err := boardId(r)
	if err != nil {
		utils.WriteErrorAndStatusCode(w, err)
		return
	}
	owner := mw.Principal(r)
	var body SetOwnerRequest
	if err := utils.Decode(r.Body, &body); err == nil && body.Owner != "" {
		owner = domain.UserId(body.Owner)
	}
	if err := h.auth.SetBoardOwner(board, owner); err != nil {
		utils.WriteErrorAndStatusCode(w, err)
		return
	}
	w.WriteHeader(http.StatusCreated)
}

func (h *Handler) SetRole(w http.ResponseWriter, r *http.Request) {
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
	var body SetRoleRequest
	if err := utils.DecodeValidate(r.Body, &body); err != nil {
		utils.WriteErrorAndStatusCode(w, err)
		return
	}
	role, err := domain.ParseRole(body.Role)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	if err := h.auth.SetRole(mw.Principal(r), board, target, role); err != nil {
		utils.WriteErrorAndStatusCode(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) GetRole(w http.ResponseWriter, r *http.Request) {
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
	role, err := h.auth.GetRole(board, user)
	if err != nil {
		utils.WriteErrorAndStatusCode(w, err)
		return
	}
	writeJSON(w, RoleResponse{User: user, Role: role.String()})
}

func (h *Handler) GetPermissions(w http.ResponseWriter, r *http.Request) {
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
	perms, err := h.auth.GetPermissions(board, user)
	if err != nil {
		utils.WriteErrorAndStatusCode(w, err)
		return
	}
	writeJSON(w, perms)
}
