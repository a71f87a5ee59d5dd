package domain

import "time"

// Reply is reply metadata within a thread's nested tree. ParentId 0 means a
// direct reply to the thread root, at depth 0; otherwise depth is always
// parent.Depth+1. Content lives separately as a chunked byte sequence.
type Reply struct {
	Id        ReplyId   `json:"id"`
	Board     BoardId   `json:"board"`
	Thread    ThreadId  `json:"thread"`
	ParentId  ReplyId   `json:"parent_id"`
	Depth     uint32    `json:"depth"`
	Creator   UserId    `json:"creator"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
	IsHidden  bool      `json:"is_hidden"`
	IsDeleted bool      `json:"is_deleted"`
	FlagCount uint32    `json:"flag_count"`
}

// Flag records one user's report against a content item. A user may flag an
// item at most once; the item's flag count is the number of Flag records.
type Flag struct {
	Flagger   UserId    `json:"flagger"`
	Reason    string    `json:"reason"`
	CreatedAt time.Time `json:"created_at"`
}

// FlaggedKind distinguishes entries in the moderation queue.
type FlaggedKind string

const (
	FlaggedThread FlaggedKind = "thread"
	FlaggedReply  FlaggedKind = "reply"
)

// FlaggedItem is a moderation-queue entry for content with at least one
// unresolved flag.
type FlaggedItem struct {
	Board          BoardId     `json:"board"`
	Thread         ThreadId    `json:"thread"`
	Reply          ReplyId     `json:"reply"` // 0 for threads
	Kind           FlaggedKind `json:"kind"`
	FlagCount      uint32      `json:"flag_count"`
	FirstFlaggedAt time.Time   `json:"first_flagged_at"`
}
