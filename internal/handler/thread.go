package handler

import (
	"net/http"

	mw "github.com/wyhaines/boards/internal/middleware"
	"github.com/wyhaines/boards/internal/domain"
	"github.com/wyhaines/boards/internal/utils"
)

func (h *Handler) CreateThread(w http.ResponseWriter, r *http.Request) {
	board, err := boardId(r)
	if err != nil {
		utils.WriteErrorAndStatusCode(w, err)
		return
	}
	var body CreateThreadRequest
	if err := utils.DecodeValidate(r.Body, &body); err != nil {
		utils.WriteErrorAndStatusCode(w, err)
		return
	}
	title := utils.SanitizeText(body.Title)
	t, err := h.content.CreateThread(mw.Principal(r), board, title, []byte(body.Body))
	if err != nil {
		utils.WriteErrorAndStatusCode(w, err)
		return
	}
	writeCreated(w, t.Id)
}

func (h *Handler) GetThread(w http.ResponseWriter, r *http.Request) {
	board, err := boardId(r)
	if err != nil {
		utils.WriteErrorAndStatusCode(w, err)
		return
	}
	thread, err := threadId(r)
	if err != nil {
		utils.WriteErrorAndStatusCode(w, err)
		return
	}
	t, body, err := h.content.GetThread(board, thread)
	if err != nil {
		utils.WriteErrorAndStatusCode(w, err)
		return
	}
	writeJSON(w, ThreadResponse{Thread: t, Body: string(body)})
}

func (h *Handler) ListThreads(w http.ResponseWriter, r *http.Request) {
	board, err := boardId(r)
	if err != nil {
		utils.WriteErrorAndStatusCode(w, err)
		return
	}
	offset, limit, err := pageParams(r)
	if err != nil {
		utils.WriteErrorAndStatusCode(w, err)
		return
	}
	threads, err := h.content.ListThreads(mw.Principal(r), board, offset, limit)
	if err != nil {
		utils.WriteErrorAndStatusCode(w, err)
		return
	}
	if threads == nil {
		threads = []domain.Thread{}
	}
	writeJSON(w, threads)
}

func (h *Handler) ThreadCount(w http.ResponseWriter, r *http.Request) {
	board, err := boardId(r)
	if err != nil {
		utils.WriteErrorAndStatusCode(w, err)
		return
	}
	count, err := h.content.ThreadCount(board)
	if err != nil {
		utils.WriteErrorAndStatusCode(w, err)
		return
	}
	writeJSON(w, CountResponse{Count: count})
}

func (h *Handler) EditThread(w http.ResponseWriter, r *http.Request) {
	board, err := boardId(r)
	if err != nil {
		utils.WriteErrorAndStatusCode(w, err)
		return
	}
	thread, err := threadId(r)
	if err != nil {
		utils.WriteErrorAndStatusCode(w, err)
		return
	}
	var body EditThreadRequest
	if err := utils.DecodeValidate(r.Body, &body); err != nil {
		utils.WriteErrorAndStatusCode(w, err)
		return
	}
	title := utils.SanitizeText(body.Title)
	if err := h.content.EditThread(mw.Principal(r), board, thread, title, []byte(body.Body)); err != nil {
		utils.WriteErrorAndStatusCode(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) DeleteThread(w http.ResponseWriter, r *http.Request) {
	h.threadAction(w, r, h.content.DeleteThread)
}

func (h *Handler) LockThread(w http.ResponseWriter, r *http.Request) {
	h.threadAction(w, r, h.content.LockThread)
}

func (h *Handler) UnlockThread(w http.ResponseWriter, r *http.Request) {
	h.threadAction(w, r, h.content.UnlockThread)
}

func (h *Handler) PinThread(w http.ResponseWriter, r *http.Request) {
	h.threadAction(w, r, h.content.PinThread)
}

func (h *Handler) UnpinThread(w http.ResponseWriter, r *http.Request) {
	h.threadAction(w, r, h.content.UnpinThread)
}

func (h *Handler) HideThread(w http.ResponseWriter, r *http.Request) {
	h.threadAction(w, r, h.content.HideThread)
}

func (h *Handler) UnhideThread(w http.ResponseWriter, r *http.Request) {
	h.threadAction(w, r, h.content.UnhideThread)
}

func (h *Handler) threadAction(w http.ResponseWriter, r *http.Request, action func(domain.UserId, domain.BoardId, domain.ThreadId) error) {
	board, err := boardId(r)
	if err != nil {
		utils.WriteErrorAndStatusCode(w, err)
		return
	}
	thread, err := threadId(r)
	if err != nil {
		utils.WriteErrorAndStatusCode(w, err)
		return
	}
	if err := action(mw.Principal(r), board, thread); err != nil {
		utils.WriteErrorAndStatusCode(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
