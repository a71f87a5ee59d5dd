package domain

// BoardConfig is the per-board moderation configuration. A board without a
// stored record resolves to DefaultBoardConfig(); every knob has an Admin+
// setter on the authorization store.
type BoardConfig struct {
	// FlagThreshold is the number of distinct flaggers at which content is
	// hidden automatically.
	FlagThreshold uint32 `json:"flag_threshold"`
	// EditWindowSeconds bounds how long after creation the author may edit
	// their own content. 0 means unlimited. Moderators are never bounded.
	EditWindowSeconds uint64 `json:"edit_window_seconds"`
	// MaxReplyDepth is the deepest nesting level a reply may occupy (1-20).
	// Direct replies sit at depth 0, so a board allows MaxReplyDepth+1
	// levels in total.
	MaxReplyDepth uint32 `json:"max_reply_depth"`
	// ChunkSize is the recommended page size for reply listings. It is a
	// pagination hint, unrelated to how bodies are chunked in storage.
	ChunkSize uint32 `json:"chunk_size"`
	// ReadOnly blocks all non-moderator mutations on the board.
	ReadOnly bool `json:"read_only"`
}

const (
	DefaultFlagThreshold     = 3
	DefaultEditWindowSeconds = 86400
	DefaultMaxReplyDepth     = 10
	DefaultChunkSize         = 6

	MinReplyDepth = 1
	MaxReplyDepth = 20
)

func DefaultBoardConfig() BoardConfig {
	return BoardConfig{
		FlagThreshold:     DefaultFlagThreshold,
		EditWindowSeconds: DefaultEditWindowSeconds,
		MaxReplyDepth:     DefaultMaxReplyDepth,
		ChunkSize:         DefaultChunkSize,
	}
}
