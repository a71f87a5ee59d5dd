package content

import (
	"time"

	"github.com/wyhaines/boards/internal/domain"
	"github.com/wyhaines/boards/internal/errors"
	"github.com/wyhaines/boards/internal/kv"
	"github.com/wyhaines/boards/internal/logger"
)

// Flagging: any member can report a content item once. When distinct
// flaggers reach the board's threshold the item is hidden in the same
// transaction as the triggering flag. Removing flags never unhides; that is
// an explicit moderator decision.

func getFlags(tx kv.Tx, board domain.BoardId, thread domain.ThreadId, reply domain.ReplyId) ([]domain.Flag, error) {
	var flags []domain.Flag
	if _, err := kv.GetJSON(tx, kv.BucketFlags, replyKey(board, thread, reply), &flags); err != nil {
		return nil, err
	}
	return flags, nil
}

func putFlags(tx kv.Tx, board domain.BoardId, thread domain.ThreadId, reply domain.ReplyId, flags []domain.Flag) error {
	if len(flags) == 0 {
		return tx.Delete(kv.BucketFlags, replyKey(board, thread, reply))
	}
	return kv.PutJSON(tx, kv.BucketFlags, replyKey(board, thread, reply), flags)
}

// FlagContent reports a thread (reply 0) or reply and returns the new flag
// count. Flagging deleted content is rejected; flagging twice is
// AlreadyFlagged.
func (s *Store) FlagContent(flagger domain.UserId, board domain.BoardId, thread domain.ThreadId, reply domain.ReplyId, reason string) (uint32, error) {
	var count uint32
	err := s.db.Update(func(tx kv.Tx) error {
		ok, err := s.authz.CanFlagTx(tx, board, flagger)
		if err != nil {
			return err
		}
		if !ok {
			return errors.Unauthorized("%s may not flag content on board %d", flagger, board)
		}

		t, err := s.getThreadTx(tx, board, thread)
		if err != nil {
			return err
		}
		var r domain.Reply
		if reply == 0 {
			if t.IsDeleted {
				return errors.InvalidState("thread %d is deleted", thread)
			}
		} else {
			r, err = s.getReplyTx(tx, board, thread, reply)
			if err != nil {
				return err
			}
			if r.IsDeleted {
				return errors.InvalidState("reply %d is deleted", reply)
			}
		}

		flags, err := getFlags(tx, board, thread, reply)
		if err != nil {
			return err
		}
		for _, f := range flags {
			if f.Flagger == flagger {
				return errors.AlreadyFlagged("%s already flagged this item", flagger)
			}
		}
		now := s.clock.Now()
		flags = append(flags, domain.Flag{Flagger: flagger, Reason: reason, CreatedAt: now})
		if err := putFlags(tx, board, thread, reply, flags); err != nil {
			return err
		}
		count = uint32(len(flags))

		cfg, err := s.authz.ConfigTx(tx, board)
		if err != nil {
			return err
		}
		autoHide := count >= cfg.FlagThreshold

		if reply == 0 {
			t.FlagCount = count
			if autoHide && !t.IsHidden {
				t.IsHidden = true
				logger.Log.Info("thread auto-hidden", "board", board, "thread", thread, "flags", count)
			}
			if err := s.putThreadTx(tx, &t); err != nil {
				return err
			}
		} else {
			r.FlagCount = count
			if autoHide && !r.IsHidden {
				r.IsHidden = true
				logger.Log.Info("reply auto-hidden", "board", board, "thread", thread, "reply", reply, "flags", count)
			}
			if err := s.putReplyTx(tx, &r); err != nil {
				return err
			}
		}
		return s.upsertFlaggedTx(tx, board, thread, reply, count, flags[0].CreatedAt)
	})
	return count, err
}

// UnflagContent withdraws the caller's own flag and returns the remaining
// count. Content hidden by an earlier threshold crossing stays hidden.
func (s *Store) UnflagContent(flagger domain.UserId, board domain.BoardId, thread domain.ThreadId, reply domain.ReplyId) (uint32, error) {
	var count uint32
	err := s.db.Update(func(tx kv.Tx) error {
		flags, err := getFlags(tx, board, thread, reply)
		if err != nil {
			return err
		}
		idx := -1
		for i, f := range flags {
			if f.Flagger == flagger {
				idx = i
				break
			}
		}
		if idx < 0 {
			return errors.NotFound("%s has no flag on this item", flagger)
		}
		first := flags[0].CreatedAt
		flags = append(flags[:idx], flags[idx+1:]...)
		if err := putFlags(tx, board, thread, reply, flags); err != nil {
			return err
		}
		count = uint32(len(flags))

		if err := s.setFlagCountTx(tx, board, thread, reply, count); err != nil {
			return err
		}
		if count == 0 {
			return s.removeFlaggedTx(tx, board, thread, reply)
		}
		return s.upsertFlaggedTx(tx, board, thread, reply, count, first)
	})
	return count, err
}

// GetFlagCount returns how many distinct users have flagged an item. The
// count is public (it is also carried on the item itself); the individual
// records are not.
func (s *Store) GetFlagCount(board domain.BoardId, thread domain.ThreadId, reply domain.ReplyId) (uint32, error) {
	var count uint32
	err := s.db.View(func(tx kv.Tx) error {
		if err := s.requireContentTx(tx, board, thread, reply); err != nil {
			return err
		}
		flags, err := getFlags(tx, board, thread, reply)
		if err != nil {
			return err
		}
		count = uint32(len(flags))
		return nil
	})
	return count, err
}

// GetFlags returns the individual flag records for one item. Callers need
// moderator rights; who reported whom is not public.
func (s *Store) GetFlags(caller domain.UserId, board domain.BoardId, thread domain.ThreadId, reply domain.ReplyId) ([]domain.Flag, error) {
	var flags []domain.Flag
	err := s.db.View(func(tx kv.Tx) error {
		if err := s.requireModeratorTx(tx, board, caller); err != nil {
			return err
		}
		if err := s.requireContentTx(tx, board, thread, reply); err != nil {
			return err
		}
		var err error
		flags, err = getFlags(tx, board, thread, reply)
		return err
	})
	return flags, err
}

// GetFlaggedContent returns the board's moderation queue: every item with at
// least one unresolved flag, oldest first. Callers need moderator rights.
func (s *Store) GetFlaggedContent(caller domain.UserId, board domain.BoardId) ([]domain.FlaggedItem, error) {
	var items []domain.FlaggedItem
	err := s.db.View(func(tx kv.Tx) error {
		if err := s.requireModeratorTx(tx, board, caller); err != nil {
			return err
		}
		_, err := kv.GetJSON(tx, kv.BucketFlagged, kv.U64(board), &items)
		return err
	})
	return items, err
}

// ClearFlags resolves an item's flags: the records are dropped, the count
// resets to zero and the item leaves the moderation queue. Hidden state is
// left alone; unhide is a separate call.
func (s *Store) ClearFlags(caller domain.UserId, board domain.BoardId, thread domain.ThreadId, reply domain.ReplyId) error {
	return s.db.Update(func(tx kv.Tx) error {
		if err := s.requireModeratorTx(tx, board, caller); err != nil {
			return err
		}
		if err := s.requireContentTx(tx, board, thread, reply); err != nil {
			return err
		}
		if err := putFlags(tx, board, thread, reply, nil); err != nil {
			return err
		}
		if err := s.setFlagCountTx(tx, board, thread, reply, 0); err != nil {
			return err
		}
		return s.removeFlaggedTx(tx, board, thread, reply)
	})
}

func (s *Store) setFlagCountTx(tx kv.Tx, board domain.BoardId, thread domain.ThreadId, reply domain.ReplyId, count uint32) error {
	if reply == 0 {
		t, err := s.getThreadTx(tx, board, thread)
		if err != nil {
			return err
		}
		t.FlagCount = count
		return s.putThreadTx(tx, &t)
	}
	r, err := s.getReplyTx(tx, board, thread, reply)
	if err != nil {
		return err
	}
	r.FlagCount = count
	return s.putReplyTx(tx, &r)
}

func (s *Store) upsertFlaggedTx(tx kv.Tx, board domain.BoardId, thread domain.ThreadId, reply domain.ReplyId, count uint32, firstFlaggedAt time.Time) error {
	var items []domain.FlaggedItem
	if _, err := kv.GetJSON(tx, kv.BucketFlagged, kv.U64(board), &items); err != nil {
		return err
	}
	for i := range items {
		if items[i].Thread == thread && items[i].Reply == reply {
			items[i].FlagCount = count
			return kv.PutJSON(tx, kv.BucketFlagged, kv.U64(board), items)
		}
	}
	kind := domain.FlaggedThread
	if reply != 0 {
		kind = domain.FlaggedReply
	}
	items = append(items, domain.FlaggedItem{
		Board:          board,
		Thread:         thread,
		Reply:          reply,
		Kind:           kind,
		FlagCount:      count,
		FirstFlaggedAt: firstFlaggedAt,
	})
	return kv.PutJSON(tx, kv.BucketFlagged, kv.U64(board), items)
}

func (s *Store) removeFlaggedTx(tx kv.Tx, board domain.BoardId, thread domain.ThreadId, reply domain.ReplyId) error {
	var items []domain.FlaggedItem
	if _, err := kv.GetJSON(tx, kv.BucketFlagged, kv.U64(board), &items); err != nil {
		return err
	}
	for i := range items {
		if items[i].Thread == thread && items[i].Reply == reply {
			items = append(items[:i], items[i+1:]...)
			break
		}
	}
	if len(items) == 0 {
		return tx.Delete(kv.BucketFlagged, kv.U64(board))
	}
	return kv.PutJSON(tx, kv.BucketFlagged, kv.U64(board), items)
}
