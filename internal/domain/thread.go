package domain

import "time"

// Thread is thread metadata. The body lives separately as a chunked byte
// sequence addressed by (board, thread).
type Thread struct {
	Id         ThreadId    `json:"id"`
	Board      BoardId     `json:"board"`
	Title      ThreadTitle `json:"title"`
	Creator    UserId      `json:"creator"`
	CreatedAt  time.Time   `json:"created_at"`
	UpdatedAt  time.Time   `json:"updated_at"`
	ReplyCount uint64      `json:"reply_count"`
	IsLocked   bool        `json:"is_locked"`
	IsPinned   bool        `json:"is_pinned"`
	IsHidden   bool        `json:"is_hidden"`
	IsDeleted  bool        `json:"is_deleted"`
	FlagCount  uint32      `json:"flag_count"`
	// PinnedAt orders pinned threads in listings (most recent pin first).
	// Zero when the thread is not pinned.
	PinnedAt time.Time `json:"pinned_at,omitempty"`
}
