package handler

import (
	"net/http"

	mw "github.com/wyhaines/boards/internal/middleware"
	"github.com/wyhaines/boards/internal/domain"
	"github.com/wyhaines/boards/internal/utils"
)

func (h *Handler) CreateReply(w http.ResponseWriter, r *http.Request) {
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
	var body CreateReplyRequest
	if err := utils.DecodeValidate(r.Body, &body); err != nil {
		utils.WriteErrorAndStatusCode(w, err)
		return
	}
	reply, err := h.content.CreateReply(mw.Principal(r), board, thread, body.Parent, []byte(body.Body))
	if err != nil {
		utils.WriteErrorAndStatusCode(w, err)
		return
	}
	writeCreated(w, reply.Id)
}

func (h *Handler) GetReply(w http.ResponseWriter, r *http.Request) {
	board, thread, reply, err := contentIds(r)
	if err != nil {
		utils.WriteErrorAndStatusCode(w, err)
		return
	}
	rep, body, err := h.content.GetReply(board, thread, reply)
	if err != nil {
		utils.WriteErrorAndStatusCode(w, err)
		return
	}
	writeJSON(w, ReplyResponse{Reply: rep, Body: string(body)})
}

// ListReplies returns a page of replies: all of them in creation order by
// default, or the direct children of one node when the parent query
// parameter is present (parent=0 means the thread root).
func (h *Handler) ListReplies(w http.ResponseWriter, r *http.Request) {
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
	offset, limit, err := pageParams(r)
	if err != nil {
		utils.WriteErrorAndStatusCode(w, err)
		return
	}

	caller := mw.Principal(r)
	var replies []domain.Reply
	if rawParent := r.URL.Query().Get("parent"); rawParent != "" {
		parent, perr := parseQueryUint(rawParent, "parent")
		if perr != nil {
			utils.WriteErrorAndStatusCode(w, perr)
			return
		}
		replies, err = h.content.GetChildReplies(caller, board, thread, parent, offset, limit)
	} else if r.URL.Query().Has("parent") {
		replies, err = h.content.GetChildReplies(caller, board, thread, 0, offset, limit)
	} else {
		replies, err = h.content.ListReplies(caller, board, thread, offset, limit)
	}
	if err != nil {
		utils.WriteErrorAndStatusCode(w, err)
		return
	}
	if replies == nil {
		replies = []domain.Reply{}
	}
	writeJSON(w, replies)
}

func (h *Handler) ReplyCount(w http.ResponseWriter, r *http.Request) {
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
	count, err := h.content.GetReplyCount(board, thread)
	if err != nil {
		utils.WriteErrorAndStatusCode(w, err)
		return
	}
	writeJSON(w, CountResponse{Count: count})
}

func (h *Handler) ChildrenCount(w http.ResponseWriter, r *http.Request) {
	board, thread, reply, err := contentIds(r)
	if err != nil {
		utils.WriteErrorAndStatusCode(w, err)
		return
	}
	count, err := h.content.GetChildrenCount(board, thread, reply)
	if err != nil {
		utils.WriteErrorAndStatusCode(w, err)
		return
	}
	writeJSON(w, CountResponse{Count: uint64(count)})
}

func (h *Handler) EditReply(w http.ResponseWriter, r *http.Request) {
	board, thread, reply, err := contentIds(r)
	if err != nil {
		utils.WriteErrorAndStatusCode(w, err)
		return
	}
	var body EditReplyRequest
	if err := utils.DecodeValidate(r.Body, &body); err != nil {
		utils.WriteErrorAndStatusCode(w, err)
		return
	}
	if err := h.content.EditReply(mw.Principal(r), board, thread, reply, []byte(body.Body)); err != nil {
		utils.WriteErrorAndStatusCode(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) DeleteReply(w http.ResponseWriter, r *http.Request) {
	h.replyAction(w, r, h.content.DeleteReply)
}

func (h *Handler) HideReply(w http.ResponseWriter, r *http.Request) {
	h.replyAction(w, r, h.content.HideReply)
}

func (h *Handler) UnhideReply(w http.ResponseWriter, r *http.Request) {
	h.replyAction(w, r, h.content.UnhideReply)
}

func (h *Handler) replyAction(w http.ResponseWriter, r *http.Request, action func(domain.UserId, domain.BoardId, domain.ThreadId, domain.ReplyId) error) {
	board, thread, reply, err := contentIds(r)
	if err != nil {
		utils.WriteErrorAndStatusCode(w, err)
		return
	}
	if err := action(mw.Principal(r), board, thread, reply); err != nil {
		utils.WriteErrorAndStatusCode(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func contentIds(r *http.Request) (domain.BoardId, domain.ThreadId, domain.ReplyId, error) {
	board, err := boardId(r)
	if err != nil {
		return 0, 0, 0, err
	}
	thread, err := threadId(r)
	if err != nil {
		return 0, 0, 0, err
	}
	reply, err := replyId(r)
	if err != nil {
		return 0, 0, 0, err
	}
	return board, thread, reply, nil
}
