package handler

import (
	"net/http"

	"github.com/wyhaines/boards/internal/domain"
	"github.com/wyhaines/boards/internal/utils"
	jwt_internal "github.com/wyhaines/boards/internal/utils/jwt"
)

// AuthStore is the authorization surface the handlers consume.
type AuthStore interface {
	SetBoardOwner(board domain.BoardId, owner domain.UserId) error
	SetRole(caller domain.UserId, board domain.BoardId, target domain.UserId, role domain.Role) error
	GetRole(board domain.BoardId, user domain.UserId) (domain.Role, error)
	GetPermissions(board domain.BoardId, user domain.UserId) (domain.PermissionSet, error)

	BanUser(caller domain.UserId, board domain.BoardId, target domain.UserId, reason string, durationHours uint64) error
	UnbanUser(caller domain.UserId, board domain.BoardId, target domain.UserId) error
	GetBan(board domain.BoardId, user domain.UserId) (domain.Ban, error)
	ListBans(caller domain.UserId, board domain.BoardId) ([]domain.Ban, error)

	RequestInvite(user domain.UserId, board domain.BoardId) error
	AcceptInvite(caller domain.UserId, board domain.BoardId, target domain.UserId) error
	RevokeInvite(caller domain.UserId, board domain.BoardId, target domain.UserId) error
	InviteMember(caller domain.UserId, board domain.BoardId, target domain.UserId, role domain.Role) error
	ListInviteRequests(caller domain.UserId, board domain.BoardId) ([]domain.InviteRequest, error)

	GetBoardConfig(board domain.BoardId) (domain.BoardConfig, error)
	SetFlagThreshold(caller domain.UserId, board domain.BoardId, threshold uint32) error
	SetEditWindow(caller domain.UserId, board domain.BoardId, seconds uint64) error
	SetMaxReplyDepth(caller domain.UserId, board domain.BoardId, depth uint32) error
	SetChunkSize(caller domain.UserId, board domain.BoardId, size uint32) error
	SetReadOnly(caller domain.UserId, board domain.BoardId, readOnly bool) error
}

// ContentStore is the content-tree surface the handlers consume.
type ContentStore interface {
	CreateThread(creator domain.UserId, board domain.BoardId, title domain.ThreadTitle, body []byte) (domain.Thread, error)
	GetThread(board domain.BoardId, thread domain.ThreadId) (domain.Thread, []byte, error)
	ListThreads(caller domain.UserId, board domain.BoardId, offset, limit uint32) ([]domain.Thread, error)
	ThreadCount(board domain.BoardId) (uint64, error)
	EditThread(editor domain.UserId, board domain.BoardId, thread domain.ThreadId, title domain.ThreadTitle, body []byte) error
	DeleteThread(caller domain.UserId, board domain.BoardId, thread domain.ThreadId) error
	LockThread(caller domain.UserId, board domain.BoardId, thread domain.ThreadId) error
	UnlockThread(caller domain.UserId, board domain.BoardId, thread domain.ThreadId) error
	PinThread(caller domain.UserId, board domain.BoardId, thread domain.ThreadId) error
	UnpinThread(caller domain.UserId, board domain.BoardId, thread domain.ThreadId) error
	HideThread(caller domain.UserId, board domain.BoardId, thread domain.ThreadId) error
	UnhideThread(caller domain.UserId, board domain.BoardId, thread domain.ThreadId) error

	CreateReply(creator domain.UserId, board domain.BoardId, thread domain.ThreadId, parent domain.ReplyId, body []byte) (domain.Reply, error)
	GetReply(board domain.BoardId, thread domain.ThreadId, reply domain.ReplyId) (domain.Reply, []byte, error)
	ListReplies(caller domain.UserId, board domain.BoardId, thread domain.ThreadId, offset, limit uint32) ([]domain.Reply, error)
	GetChildReplies(caller domain.UserId, board domain.BoardId, thread domain.ThreadId, parent domain.ReplyId, offset, limit uint32) ([]domain.Reply, error)
	GetReplyCount(board domain.BoardId, thread domain.ThreadId) (uint64, error)
	GetChildrenCount(board domain.BoardId, thread domain.ThreadId, parent domain.ReplyId) (uint32, error)
	EditReply(editor domain.UserId, board domain.BoardId, thread domain.ThreadId, reply domain.ReplyId, body []byte) error
	DeleteReply(caller domain.UserId, board domain.BoardId, thread domain.ThreadId, reply domain.ReplyId) error
	HideReply(caller domain.UserId, board domain.BoardId, thread domain.ThreadId, reply domain.ReplyId) error
	UnhideReply(caller domain.UserId, board domain.BoardId, thread domain.ThreadId, reply domain.ReplyId) error

	FlagContent(flagger domain.UserId, board domain.BoardId, thread domain.ThreadId, reply domain.ReplyId, reason string) (uint32, error)
	UnflagContent(flagger domain.UserId, board domain.BoardId, thread domain.ThreadId, reply domain.ReplyId) (uint32, error)
	GetFlagCount(board domain.BoardId, thread domain.ThreadId, reply domain.ReplyId) (uint32, error)
	GetFlags(caller domain.UserId, board domain.BoardId, thread domain.ThreadId, reply domain.ReplyId) ([]domain.Flag, error)
	GetFlaggedContent(caller domain.UserId, board domain.BoardId) ([]domain.FlaggedItem, error)
	ClearFlags(caller domain.UserId, board domain.BoardId, thread domain.ThreadId, reply domain.ReplyId) error

	GetBodyChunk(board domain.BoardId, thread domain.ThreadId, reply domain.ReplyId, index uint32) ([]byte, error)
	GetChunkCount(board domain.BoardId, thread domain.ThreadId, reply domain.ReplyId) (uint64, error)
}

type Handler struct {
	auth    AuthStore
	content ContentStore
	jwt     jwt_internal.JwtService
}

func New(auth AuthStore, content ContentStore, jwt jwt_internal.JwtService) *Handler {
	return &Handler{auth: auth, content: content, jwt: jwt}
}

func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, map[string]string{"status": "ok"})
}

// Token mints an access token for a principal. Principal identity comes from
// the deployment's front door; this service only authorizes, so issuance
// trusts the requested subject.
func (h *Handler) Token(w http.ResponseWriter, r *http.Request) {
	var body TokenRequest
	if err := utils.DecodeValidate(r.Body, &body); err != nil {
		utils.WriteErrorAndStatusCode(w, err)
		return
	}
	token, err := h.jwt.NewToken(domain.UserId(body.User))
	if err != nil {
		utils.WriteErrorAndStatusCode(w, err)
		return
	}
	writeJSON(w, TokenResponse{Token: token})
}
