// Package content is the content tree store: threads, nested replies,
// chunked bodies and the flag/moderation queue. Authorization decisions are
// delegated to an Authorizer and evaluated inside the same transaction as
// the mutation they permit, so a role change or ban can never race a write.
package content

import (
	"time"

	"github.com/facebookgo/clock"

	"github.com/wyhaines/boards/internal/domain"
	"github.com/wyhaines/boards/internal/errors"
	"github.com/wyhaines/boards/internal/kv"
)

// Authorizer resolves board-level capabilities inside an open transaction.
// The authorization store implements it against the same database.
type Authorizer interface {
	CanPostTx(tx kv.Tx, board domain.BoardId, user domain.UserId) (bool, error)
	CanFlagTx(tx kv.Tx, board domain.BoardId, user domain.UserId) (bool, error)
	CanModerateTx(tx kv.Tx, board domain.BoardId, user domain.UserId) (bool, error)
	ConfigTx(tx kv.Tx, board domain.BoardId) (domain.BoardConfig, error)
}

const (
	// BodyChunkSize is the fixed storage chunk size for bodies. The last
	// chunk is the only one allowed to be short.
	BodyChunkSize = 4096

	MaxTitleLen  = 200
	MaxBodyBytes = 1 << 20

	// DeletionNotice replaces the body of soft-deleted content.
	DeletionNotice = "[deleted]"
)

type Store struct {
	db    kv.DB
	authz Authorizer
	clock clock.Clock
}

func New(db kv.DB, authz Authorizer) *Store {
	return &Store{db: db, authz: authz, clock: clock.New()}
}

// NewWithClock is used by tests that need to control edit-window expiry.
func NewWithClock(db kv.DB, authz Authorizer, c clock.Clock) *Store {
	return &Store{db: db, authz: authz, clock: c}
}

func threadKey(board domain.BoardId, thread domain.ThreadId) []byte {
	return kv.Key(kv.U64(board), kv.U64(thread))
}

func replyKey(board domain.BoardId, thread domain.ThreadId, reply domain.ReplyId) []byte {
	return kv.Key(kv.U64(board), kv.U64(thread), kv.U64(reply))
}

func (s *Store) getThreadTx(tx kv.Tx, board domain.BoardId, thread domain.ThreadId) (domain.Thread, error) {
	var t domain.Thread
	found, err := kv.GetJSON(tx, kv.BucketThreads, threadKey(board, thread), &t)
	if err != nil {
		return t, err
	}
	if !found {
		return t, errors.NotFound("thread %d not found on board %d", thread, board)
	}
	return t, nil
}

func (s *Store) putThreadTx(tx kv.Tx, t *domain.Thread) error {
	return kv.PutJSON(tx, kv.BucketThreads, threadKey(t.Board, t.Id), t)
}

func (s *Store) getReplyTx(tx kv.Tx, board domain.BoardId, thread domain.ThreadId, reply domain.ReplyId) (domain.Reply, error) {
	var r domain.Reply
	found, err := kv.GetJSON(tx, kv.BucketReplies, replyKey(board, thread, reply), &r)
	if err != nil {
		return r, err
	}
	if !found {
		return r, errors.NotFound("reply %d not found in thread %d", reply, thread)
	}
	return r, nil
}

func (s *Store) putReplyTx(tx kv.Tx, r *domain.Reply) error {
	return kv.PutJSON(tx, kv.BucketReplies, replyKey(r.Board, r.Thread, r.Id), r)
}

// requirePosterTx fails with Unauthorized unless user may post on the board.
func (s *Store) requirePosterTx(tx kv.Tx, board domain.BoardId, user domain.UserId) error {
	ok, err := s.authz.CanPostTx(tx, board, user)
	if err != nil {
		return err
	}
	if !ok {
		return errors.Unauthorized("%s may not post on board %d", user, board)
	}
	return nil
}

// requireModeratorTx fails with Unauthorized unless user holds moderator
// powers on the board.
func (s *Store) requireModeratorTx(tx kv.Tx, board domain.BoardId, user domain.UserId) error {
	ok, err := s.authz.CanModerateTx(tx, board, user)
	if err != nil {
		return err
	}
	if !ok {
		return errors.Unauthorized("%s may not moderate board %d", user, board)
	}
	return nil
}

// withinEditWindow implements the author edit limit: edits are allowed up to
// and including createdAt+window. A zero window means no limit.
func withinEditWindow(now, createdAt time.Time, windowSeconds uint64) bool {
	if windowSeconds == 0 {
		return true
	}
	deadline := createdAt.Add(time.Duration(windowSeconds) * time.Second)
	return !now.After(deadline)
}

// requireEditorTx authorizes an edit of content created by creator at
// createdAt. Moderators edit without a window; authors only within it.
func (s *Store) requireEditorTx(tx kv.Tx, board domain.BoardId, editor, creator domain.UserId, createdAt time.Time) error {
	moderator, err := s.authz.CanModerateTx(tx, board, editor)
	if err != nil {
		return err
	}
	if moderator {
		return nil
	}
	if editor != creator {
		return errors.Unauthorized("%s is not the author", editor)
	}
	if err := s.requirePosterTx(tx, board, editor); err != nil {
		return err
	}
	cfg, err := s.authz.ConfigTx(tx, board)
	if err != nil {
		return err
	}
	if !withinEditWindow(s.clock.Now(), createdAt, cfg.EditWindowSeconds) {
		return errors.InvalidState("edit window of %ds has elapsed", cfg.EditWindowSeconds)
	}
	return nil
}

func validateBody(body []byte) error {
	if len(body) == 0 {
		return errors.InvalidArgument("body must not be empty")
	}
	if len(body) > MaxBodyBytes {
		return errors.InvalidArgument("body exceeds %d bytes", MaxBodyBytes)
	}
	return nil
}

func validateTitle(title domain.ThreadTitle) error {
	if len(title) == 0 {
		return errors.InvalidArgument("title must not be empty")
	}
	if len(title) > MaxTitleLen {
		return errors.InvalidArgument("title exceeds %d characters", MaxTitleLen)
	}
	return nil
}

// id list helpers for child indexes and pin order.

func getIdList(tx kv.Tx, bucket string, key []byte) ([]uint64, error) {
	var list []uint64
	if _, err := kv.GetJSON(tx, bucket, key, &list); err != nil {
		return nil, err
	}
	return list, nil
}

func putIdList(tx kv.Tx, bucket string, key []byte, list []uint64) error {
	if len(list) == 0 {
		return tx.Delete(bucket, key)
	}
	return kv.PutJSON(tx, bucket, key, list)
}

func appendToIdList(tx kv.Tx, bucket string, key []byte, id uint64) error {
	list, err := getIdList(tx, bucket, key)
	if err != nil {
		return err
	}
	return putIdList(tx, bucket, key, append(list, id))
}

func removeFromIdList(tx kv.Tx, bucket string, key []byte, id uint64) error {
	list, err := getIdList(tx, bucket, key)
	if err != nil {
		return err
	}
	for i, v := range list {
		if v == id {
			return putIdList(tx, bucket, key, append(list[:i], list[i+1:]...))
		}
	}
	return nil
}

// paginate applies offset/limit to a slice; limit 0 falls back to def.
func paginate[T any](items []T, offset, limit uint32, def uint32) []T {
	if limit == 0 {
		limit = def
	}
	if int(offset) >= len(items) {
		return nil
	}
	end := int(offset) + int(limit)
	if end > len(items) {
		end = len(items)
	}
	return items[offset:end]
}
