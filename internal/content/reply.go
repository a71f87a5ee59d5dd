package content

import (
	"github.com/wyhaines/boards/internal/domain"
	"github.com/wyhaines/boards/internal/errors"
	"github.com/wyhaines/boards/internal/kv"
	"github.com/wyhaines/boards/internal/logger"
)

func childKey(board domain.BoardId, thread domain.ThreadId, parent domain.ReplyId) []byte {
	return kv.Key(kv.U64(board), kv.U64(thread), kv.U64(parent))
}

// CreateReply creates a reply and returns the stored metadata. Parent 0
// replies to the thread root at depth 0; any other parent must be an
// existing, non-deleted reply in the same thread, and the new depth
// parent.Depth+1 must not exceed the board's configured maximum. Reply ids
// are sequential per thread, starting at 1.
func (s *Store) CreateReply(creator domain.UserId, board domain.BoardId, thread domain.ThreadId, parent domain.ReplyId, body []byte) (domain.Reply, error) {
	var r domain.Reply
	if err := validateBody(body); err != nil {
		return r, err
	}
	err := s.db.Update(func(tx kv.Tx) error {
		if err := s.requirePosterTx(tx, board, creator); err != nil {
			return err
		}
		t, err := s.getThreadTx(tx, board, thread)
		if err != nil {
			return err
		}
		if t.IsDeleted {
			return errors.InvalidState("thread %d is deleted", thread)
		}
		if t.IsLocked {
			return errors.InvalidState("thread %d is locked", thread)
		}

		depth := uint32(0)
		if parent != 0 {
			p, err := s.getReplyTx(tx, board, thread, parent)
			if err != nil {
				return err
			}
			if p.IsDeleted {
				return errors.InvalidState("cannot reply to deleted reply %d", parent)
			}
			depth = p.Depth + 1
		}
		cfg, err := s.authz.ConfigTx(tx, board)
		if err != nil {
			return err
		}
		if depth > cfg.MaxReplyDepth {
			return errors.InvalidState("reply depth %d exceeds board maximum %d", depth, cfg.MaxReplyDepth)
		}

		id, err := kv.GetU64(tx, kv.BucketReplySeq, threadKey(board, thread), 1)
		if err != nil {
			return err
		}
		if err := kv.PutU64(tx, kv.BucketReplySeq, threadKey(board, thread), id+1); err != nil {
			return err
		}
		now := s.clock.Now()
		r = domain.Reply{
			Id:        id,
			Board:     board,
			Thread:    thread,
			ParentId:  parent,
			Depth:     depth,
			Creator:   creator,
			CreatedAt: now,
			UpdatedAt: now,
		}
		if err := s.putReplyTx(tx, &r); err != nil {
			return err
		}
		if err := s.writeBodyTx(tx, board, thread, id, body); err != nil {
			return err
		}
		if err := appendToIdList(tx, kv.BucketChildIndex, childKey(board, thread, parent), id); err != nil {
			return err
		}

		t.ReplyCount++
		t.UpdatedAt = now
		if err := s.putThreadTx(tx, &t); err != nil {
			return err
		}
		logger.Log.Info("reply created", "board", board, "thread", thread, "reply", id, "depth", depth)
		return nil
	})
	return r, err
}

// GetReply returns a reply's metadata and assembled body. Soft-deleted
// replies remain readable; their body is the deletion notice.
func (s *Store) GetReply(board domain.BoardId, thread domain.ThreadId, reply domain.ReplyId) (domain.Reply, []byte, error) {
	var (
		r    domain.Reply
		body []byte
	)
	err := s.db.View(func(tx kv.Tx) error {
		var err error
		r, err = s.getReplyTx(tx, board, thread, reply)
		if err != nil {
			return err
		}
		body, err = s.readBodyTx(tx, board, thread, reply)
		return err
	})
	return r, body, err
}

// ListReplies returns a page of the thread's replies in creation order,
// regardless of nesting. Soft-deleted replies are included as tombstones so
// reply trees render with their structure intact; hidden replies only appear
// for callers with moderator rights.
func (s *Store) ListReplies(caller domain.UserId, board domain.BoardId, thread domain.ThreadId, offset, limit uint32) ([]domain.Reply, error) {
	var page []domain.Reply
	err := s.db.View(func(tx kv.Tx) error {
		if _, err := s.getThreadTx(tx, board, thread); err != nil {
			return err
		}
		moderator, err := s.authz.CanModerateTx(tx, board, caller)
		if err != nil {
			return err
		}
		cfg, err := s.authz.ConfigTx(tx, board)
		if err != nil {
			return err
		}
		next, err := kv.GetU64(tx, kv.BucketReplySeq, threadKey(board, thread), 1)
		if err != nil {
			return err
		}
		var replies []domain.Reply
		for id := uint64(1); id < next; id++ {
			r, err := s.getReplyTx(tx, board, thread, id)
			if err != nil {
				return err
			}
			if r.IsHidden && !moderator {
				continue
			}
			replies = append(replies, r)
		}
		page = paginate(replies, offset, limit, cfg.ChunkSize)
		return nil
	})
	return page, err
}

// GetTopLevelReplies returns a page of the thread's direct replies.
func (s *Store) GetTopLevelReplies(caller domain.UserId, board domain.BoardId, thread domain.ThreadId, offset, limit uint32) ([]domain.Reply, error) {
	return s.childReplies(caller, board, thread, 0, offset, limit)
}

// GetChildReplies returns a page of the direct children of one reply.
func (s *Store) GetChildReplies(caller domain.UserId, board domain.BoardId, thread domain.ThreadId, parent domain.ReplyId, offset, limit uint32) ([]domain.Reply, error) {
	if parent == 0 {
		return s.GetTopLevelReplies(caller, board, thread, offset, limit)
	}
	return s.childReplies(caller, board, thread, parent, offset, limit)
}

func (s *Store) childReplies(caller domain.UserId, board domain.BoardId, thread domain.ThreadId, parent domain.ReplyId, offset, limit uint32) ([]domain.Reply, error) {
	var page []domain.Reply
	err := s.db.View(func(tx kv.Tx) error {
		if _, err := s.getThreadTx(tx, board, thread); err != nil {
			return err
		}
		if parent != 0 {
			if _, err := s.getReplyTx(tx, board, thread, parent); err != nil {
				return err
			}
		}
		moderator, err := s.authz.CanModerateTx(tx, board, caller)
		if err != nil {
			return err
		}
		cfg, err := s.authz.ConfigTx(tx, board)
		if err != nil {
			return err
		}
		ids, err := getIdList(tx, kv.BucketChildIndex, childKey(board, thread, parent))
		if err != nil {
			return err
		}
		var replies []domain.Reply
		for _, id := range ids {
			r, err := s.getReplyTx(tx, board, thread, id)
			if err != nil {
				return err
			}
			if r.IsHidden && !moderator {
				continue
			}
			replies = append(replies, r)
		}
		page = paginate(replies, offset, limit, cfg.ChunkSize)
		return nil
	})
	return page, err
}

// GetReplyCount returns the thread's total reply count, tombstones included.
func (s *Store) GetReplyCount(board domain.BoardId, thread domain.ThreadId) (uint64, error) {
	var count uint64
	err := s.db.View(func(tx kv.Tx) error {
		t, err := s.getThreadTx(tx, board, thread)
		if err != nil {
			return err
		}
		count = t.ReplyCount
		return nil
	})
	return count, err
}

// GetChildrenCount returns how many direct children a reply has (parent 0
// counts the thread's top-level replies).
func (s *Store) GetChildrenCount(board domain.BoardId, thread domain.ThreadId, parent domain.ReplyId) (uint32, error) {
	var count uint32
	err := s.db.View(func(tx kv.Tx) error {
		if err := s.requireContentTx(tx, board, thread, parent); err != nil {
			return err
		}
		ids, err := getIdList(tx, kv.BucketChildIndex, childKey(board, thread, parent))
		if err != nil {
			return err
		}
		count = uint32(len(ids))
		return nil
	})
	return count, err
}

// EditReply replaces a reply's body. Authors edit within the board's edit
// window; moderators at any time. Locked threads block author edits.
func (s *Store) EditReply(editor domain.UserId, board domain.BoardId, thread domain.ThreadId, reply domain.ReplyId, body []byte) error {
	if err := validateBody(body); err != nil {
		return err
	}
	return s.db.Update(func(tx kv.Tx) error {
		t, err := s.getThreadTx(tx, board, thread)
		if err != nil {
			return err
		}
		r, err := s.getReplyTx(tx, board, thread, reply)
		if err != nil {
			return err
		}
		if r.IsDeleted {
			return errors.InvalidState("reply %d is deleted", reply)
		}
		if err := s.requireLockedEditTx(tx, board, &t, editor); err != nil {
			return err
		}
		if err := s.requireEditorTx(tx, board, editor, r.Creator, r.CreatedAt); err != nil {
			return err
		}
		r.UpdatedAt = s.clock.Now()
		if err := s.putReplyTx(tx, &r); err != nil {
			return err
		}
		return s.writeBodyTx(tx, board, thread, reply, body)
	})
}

// DeleteReply soft-deletes a reply: the record stays so descendants keep
// their place in the tree, and the body is replaced by a deletion notice.
// Authors may delete their own replies, moderators any reply.
func (s *Store) DeleteReply(caller domain.UserId, board domain.BoardId, thread domain.ThreadId, reply domain.ReplyId) error {
	return s.db.Update(func(tx kv.Tx) error {
		r, err := s.getReplyTx(tx, board, thread, reply)
		if err != nil {
			return err
		}
		if r.IsDeleted {
			return errors.InvalidState("reply %d is already deleted", reply)
		}
		if err := s.requireOwnershipOrModTx(tx, board, caller, r.Creator); err != nil {
			return err
		}
		r.IsDeleted = true
		r.UpdatedAt = s.clock.Now()
		if err := s.putReplyTx(tx, &r); err != nil {
			return err
		}
		if err := s.writeBodyTx(tx, board, thread, reply, []byte(DeletionNotice)); err != nil {
			return err
		}
		logger.Log.Info("reply deleted", "board", board, "thread", thread, "reply", reply, "caller", caller)
		return nil
	})
}

// HideReply removes the reply from listings for non-moderators.
func (s *Store) HideReply(caller domain.UserId, board domain.BoardId, thread domain.ThreadId, reply domain.ReplyId) error {
	return s.setReplyHidden(caller, board, thread, reply, true)
}

func (s *Store) UnhideReply(caller domain.UserId, board domain.BoardId, thread domain.ThreadId, reply domain.ReplyId) error {
	return s.setReplyHidden(caller, board, thread, reply, false)
}

func (s *Store) setReplyHidden(caller domain.UserId, board domain.BoardId, thread domain.ThreadId, reply domain.ReplyId, hidden bool) error {
	return s.db.Update(func(tx kv.Tx) error {
		if err := s.requireModeratorTx(tx, board, caller); err != nil {
			return err
		}
		r, err := s.getReplyTx(tx, board, thread, reply)
		if err != nil {
			return err
		}
		if r.IsDeleted {
			return errors.InvalidState("reply %d is deleted", reply)
		}
		r.IsHidden = hidden
		r.UpdatedAt = s.clock.Now()
		return s.putReplyTx(tx, &r)
	})
}
