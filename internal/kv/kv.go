// Package kv is the engine's transactional key→value storage. Every engine
// operation runs as exactly one Update or View: mutations either commit in
// full or leave the store untouched, matching the all-or-nothing execution
// model of the host ledger the engine was designed for.
package kv

// Tx is a single atomic transaction. Reads observe writes made earlier in
// the same transaction. Get returns nil (no error) for a missing key.
type Tx interface {
	Get(bucket string, key []byte) ([]byte, error)
	Put(bucket string, key, value []byte) error
	Delete(bucket string, key []byte) error
	Has(bucket string, key []byte) (bool, error)
}

// DB serializes transactions against shared persistent storage. If the
// function passed to Update returns an error, every write made inside it is
// rolled back and the error is returned unchanged.
type DB interface {
	Update(fn func(Tx) error) error
	View(fn func(Tx) error) error
	Close() error
}

// Bucket names. Backends pre-create all of them so engine code never has to
// handle a missing bucket.
const (
	BucketRoles      = "roles"      // board|user -> role ordinal
	BucketOwners     = "owners"     // board -> owner principal
	BucketBans       = "bans"       // board|user -> Ban
	BucketBanned     = "banned"     // board -> banned principal list
	BucketInvites    = "invites"    // board|user -> InviteRequest
	BucketInviteList = "invitelist" // board -> pending principal list
	BucketBoardCfg   = "boardcfg"   // board -> BoardConfig

	BucketThreads    = "threads"    // board|thread -> Thread
	BucketThreadSeq  = "threadseq"  // board -> next thread id
	BucketPins       = "pins"       // board -> pinned thread id list
	BucketReplies    = "replies"    // board|thread|reply -> Reply
	BucketReplySeq   = "replyseq"   // board|thread -> next reply id
	BucketChildIndex = "childindex" // board|thread|parent -> child reply id list
	BucketFlags      = "flags"      // board|thread|reply -> Flag list (reply 0 = thread)
	BucketFlagged    = "flagged"    // board -> FlaggedItem list
	BucketChunks     = "chunks"     // board|thread|reply|index -> body chunk
	BucketChunkCnt   = "chunkcnt"   // board|thread|reply -> chunk count
)

// Buckets lists every bucket a backend must create.
var Buckets = []string{
	BucketRoles, BucketOwners, BucketBans, BucketBanned,
	BucketInvites, BucketInviteList, BucketBoardCfg,
	BucketThreads, BucketThreadSeq, BucketPins,
	BucketReplies, BucketReplySeq, BucketChildIndex,
	BucketFlags, BucketFlagged, BucketChunks, BucketChunkCnt,
}
