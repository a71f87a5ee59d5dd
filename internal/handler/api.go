package handler

import "github.com/wyhaines/boards/internal/domain"

// Request and response bodies for the HTTP surface. Content bodies travel as
// strings; the stores treat them as opaque bytes.

type TokenRequest struct {
	User string `json:"user" validate:"required"`
}

type TokenResponse struct {
	Token string `json:"token"`
}

type SetOwnerRequest struct {
	Owner string `json:"owner" validate:"required"`
}

type SetRoleRequest struct {
	Role string `json:"role" validate:"required"`
}

type RoleResponse struct {
	User domain.UserId `json:"user"`
	Role string        `json:"role"`
}

type InviteMemberRequest struct {
	// Role defaults to "member" when omitted.
	Role string `json:"role,omitempty"`
}

type BanRequest struct {
	Reason string `json:"reason"`
	// DurationHours 0 means permanent.
	DurationHours uint64 `json:"duration_hours"`
}

type BoardConfigRequest struct {
	// Absent knobs are left unchanged.
	FlagThreshold     *uint32 `json:"flag_threshold,omitempty"`
	EditWindowSeconds *uint64 `json:"edit_window_seconds,omitempty"`
	MaxReplyDepth     *uint32 `json:"max_reply_depth,omitempty"`
	ChunkSize         *uint32 `json:"chunk_size,omitempty"`
	ReadOnly          *bool   `json:"read_only,omitempty"`
}

type CreateThreadRequest struct {
	Title string `json:"title" validate:"required"`
	Body  string `json:"body" validate:"required"`
}

type EditThreadRequest struct {
	Title string `json:"title" validate:"required"`
	Body  string `json:"body" validate:"required"`
}

type ThreadResponse struct {
	domain.Thread
	Body string `json:"body"`
}

type CreateReplyRequest struct {
	// Parent 0 replies to the thread root.
	Parent domain.ReplyId `json:"parent"`
	Body   string         `json:"body" validate:"required"`
}

type EditReplyRequest struct {
	Body string `json:"body" validate:"required"`
}

type ReplyResponse struct {
	domain.Reply
	Body string `json:"body"`
}

type FlagRequest struct {
	Reason string `json:"reason"`
}

type FlagCountResponse struct {
	FlagCount uint32 `json:"flag_count"`
}

type ChunkCountResponse struct {
	ChunkCount uint64 `json:"chunk_count"`
}

type CountResponse struct {
	Count uint64 `json:"count"`
}
