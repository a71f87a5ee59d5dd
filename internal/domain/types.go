package domain

type (
	// UserId is an opaque principal identifier supplied by the invoking
	// environment. The engine never authenticates it, only authorizes
	// against stored role/ban state.
	UserId = string

	BoardId  = uint64
	ThreadId = uint64

	// ReplyId 0 addresses the thread itself (e.g. when flagging).
	ReplyId = uint64

	ThreadTitle = string
)
