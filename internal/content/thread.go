package content

import (
	"sort"
	"time"

	"github.com/wyhaines/boards/internal/domain"
	"github.com/wyhaines/boards/internal/errors"
	"github.com/wyhaines/boards/internal/kv"
	"github.com/wyhaines/boards/internal/logger"
)

// CreateThread creates a thread with its body and returns the stored
// metadata. Thread ids are sequential per board, starting at 1.
func (s *Store) CreateThread(creator domain.UserId, board domain.BoardId, title domain.ThreadTitle, body []byte) (domain.Thread, error) {
	var t domain.Thread
	if err := validateTitle(title); err != nil {
		return t, err
	}
	if err := validateBody(body); err != nil {
		return t, err
	}
	err := s.db.Update(func(tx kv.Tx) error {
		if err := s.requirePosterTx(tx, board, creator); err != nil {
			return err
		}
		id, err := kv.GetU64(tx, kv.BucketThreadSeq, kv.U64(board), 1)
		if err != nil {
			return err
		}
		if err := kv.PutU64(tx, kv.BucketThreadSeq, kv.U64(board), id+1); err != nil {
			return err
		}
		now := s.clock.Now()
		t = domain.Thread{
			Id:        id,
			Board:     board,
			Title:     title,
			Creator:   creator,
			CreatedAt: now,
			UpdatedAt: now,
		}
		if err := s.putThreadTx(tx, &t); err != nil {
			return err
		}
		if err := s.writeBodyTx(tx, board, id, 0, body); err != nil {
			return err
		}
		logger.Log.Info("thread created", "board", board, "thread", id, "creator", creator)
		return nil
	})
	return t, err
}

// GetThread returns a thread's metadata and assembled body. Soft-deleted
// threads remain readable as tombstones.
func (s *Store) GetThread(board domain.BoardId, thread domain.ThreadId) (domain.Thread, []byte, error) {
	var (
		t    domain.Thread
		body []byte
	)
	err := s.db.View(func(tx kv.Tx) error {
		var err error
		t, err = s.getThreadTx(tx, board, thread)
		if err != nil {
			return err
		}
		body, err = s.readBodyTx(tx, board, thread, 0)
		return err
	})
	return t, body, err
}

// ListThreads returns a page of the board's threads: pinned threads first,
// most recently pinned on top, then the rest newest-first. Soft-deleted
// threads are always excluded; hidden threads only appear for callers with
// moderator rights. A zero limit falls back to the board's configured page
// size.
func (s *Store) ListThreads(caller domain.UserId, board domain.BoardId, offset, limit uint32) ([]domain.Thread, error) {
	var page []domain.Thread
	err := s.db.View(func(tx kv.Tx) error {
		moderator, err := s.authz.CanModerateTx(tx, board, caller)
		if err != nil {
			return err
		}
		cfg, err := s.authz.ConfigTx(tx, board)
		if err != nil {
			return err
		}

		visible := func(t *domain.Thread) bool {
			if t.IsDeleted {
				return false
			}
			return !t.IsHidden || moderator
		}

		pinnedIds, err := getIdList(tx, kv.BucketPins, kv.U64(board))
		if err != nil {
			return err
		}
		pinned := make(map[domain.ThreadId]bool, len(pinnedIds))
		var threads []domain.Thread
		for _, id := range pinnedIds {
			pinned[id] = true
			t, err := s.getThreadTx(tx, board, id)
			if err != nil {
				return err
			}
			if visible(&t) {
				threads = append(threads, t)
			}
		}
		sort.SliceStable(threads, func(i, j int) bool {
			return threads[i].PinnedAt.After(threads[j].PinnedAt)
		})

		next, err := kv.GetU64(tx, kv.BucketThreadSeq, kv.U64(board), 1)
		if err != nil {
			return err
		}
		for id := next - 1; id >= 1; id-- {
			if pinned[id] {
				continue
			}
			t, err := s.getThreadTx(tx, board, id)
			if err != nil {
				return err
			}
			if visible(&t) {
				threads = append(threads, t)
			}
		}
		page = paginate(threads, offset, limit, cfg.ChunkSize)
		return nil
	})
	return page, err
}

// ThreadCount returns the number of threads on the board, tombstones
// excluded. Hidden threads still count; they exist, listings just skip them.
func (s *Store) ThreadCount(board domain.BoardId) (uint64, error) {
	var count uint64
	err := s.db.View(func(tx kv.Tx) error {
		next, err := kv.GetU64(tx, kv.BucketThreadSeq, kv.U64(board), 1)
		if err != nil {
			return err
		}
		for id := next - 1; id >= 1; id-- {
			t, err := s.getThreadTx(tx, board, id)
			if err != nil {
				return err
			}
			if !t.IsDeleted {
				count++
			}
		}
		return nil
	})
	return count, err
}

// EditThread replaces a thread's title and body. Authors edit within the
// board's edit window; moderators at any time.
func (s *Store) EditThread(editor domain.UserId, board domain.BoardId, thread domain.ThreadId, title domain.ThreadTitle, body []byte) error {
	if err := validateTitle(title); err != nil {
		return err
	}
	if err := validateBody(body); err != nil {
		return err
	}
	return s.db.Update(func(tx kv.Tx) error {
		t, err := s.getThreadTx(tx, board, thread)
		if err != nil {
			return err
		}
		if t.IsDeleted {
			return errors.InvalidState("thread %d is deleted", thread)
		}
		if err := s.requireLockedEditTx(tx, board, &t, editor); err != nil {
			return err
		}
		if err := s.requireEditorTx(tx, board, editor, t.Creator, t.CreatedAt); err != nil {
			return err
		}
		t.Title = title
		t.UpdatedAt = s.clock.Now()
		if err := s.putThreadTx(tx, &t); err != nil {
			return err
		}
		return s.writeBodyTx(tx, board, thread, 0, body)
	})
}

// DeleteThread soft-deletes a thread. The record stays as a tombstone with
// its body replaced by a deletion notice; replies are untouched. Authors may
// delete their own threads, moderators any thread.
func (s *Store) DeleteThread(caller domain.UserId, board domain.BoardId, thread domain.ThreadId) error {
	return s.db.Update(func(tx kv.Tx) error {
		t, err := s.getThreadTx(tx, board, thread)
		if err != nil {
			return err
		}
		if t.IsDeleted {
			return errors.InvalidState("thread %d is already deleted", thread)
		}
		if err := s.requireOwnershipOrModTx(tx, board, caller, t.Creator); err != nil {
			return err
		}
		t.IsDeleted = true
		t.UpdatedAt = s.clock.Now()
		if err := s.putThreadTx(tx, &t); err != nil {
			return err
		}
		if t.IsPinned {
			// A deleted thread has no business staying on top of listings.
			t.IsPinned = false
			if err := removeFromIdList(tx, kv.BucketPins, kv.U64(board), thread); err != nil {
				return err
			}
			if err := s.putThreadTx(tx, &t); err != nil {
				return err
			}
		}
		if err := s.writeBodyTx(tx, board, thread, 0, []byte(DeletionNotice)); err != nil {
			return err
		}
		logger.Log.Info("thread deleted", "board", board, "thread", thread, "caller", caller)
		return nil
	})
}

// LockThread stops further replies and non-moderator edits. Locking an
// already locked thread is a no-op.
func (s *Store) LockThread(caller domain.UserId, board domain.BoardId, thread domain.ThreadId) error {
	return s.setThreadFlag(caller, board, thread, func(t *domain.Thread) { t.IsLocked = true })
}

func (s *Store) UnlockThread(caller domain.UserId, board domain.BoardId, thread domain.ThreadId) error {
	return s.setThreadFlag(caller, board, thread, func(t *domain.Thread) { t.IsLocked = false })
}

// HideThread removes the thread from listings without touching its content.
func (s *Store) HideThread(caller domain.UserId, board domain.BoardId, thread domain.ThreadId) error {
	return s.setThreadFlag(caller, board, thread, func(t *domain.Thread) { t.IsHidden = true })
}

func (s *Store) UnhideThread(caller domain.UserId, board domain.BoardId, thread domain.ThreadId) error {
	return s.setThreadFlag(caller, board, thread, func(t *domain.Thread) { t.IsHidden = false })
}

// PinThread pins the thread to the top of listings. Pinning an already
// pinned thread refreshes its pin time, moving it back to the top.
func (s *Store) PinThread(caller domain.UserId, board domain.BoardId, thread domain.ThreadId) error {
	return s.db.Update(func(tx kv.Tx) error {
		if err := s.requireModeratorTx(tx, board, caller); err != nil {
			return err
		}
		t, err := s.getThreadTx(tx, board, thread)
		if err != nil {
			return err
		}
		if t.IsDeleted {
			return errors.InvalidState("thread %d is deleted", thread)
		}
		t.IsPinned = true
		t.PinnedAt = s.clock.Now()
		if err := s.putThreadTx(tx, &t); err != nil {
			return err
		}
		if err := removeFromIdList(tx, kv.BucketPins, kv.U64(board), thread); err != nil {
			return err
		}
		return appendToIdList(tx, kv.BucketPins, kv.U64(board), thread)
	})
}

func (s *Store) UnpinThread(caller domain.UserId, board domain.BoardId, thread domain.ThreadId) error {
	return s.db.Update(func(tx kv.Tx) error {
		if err := s.requireModeratorTx(tx, board, caller); err != nil {
			return err
		}
		t, err := s.getThreadTx(tx, board, thread)
		if err != nil {
			return err
		}
		t.IsPinned = false
		t.PinnedAt = time.Time{}
		if err := s.putThreadTx(tx, &t); err != nil {
			return err
		}
		return removeFromIdList(tx, kv.BucketPins, kv.U64(board), thread)
	})
}

func (s *Store) setThreadFlag(caller domain.UserId, board domain.BoardId, thread domain.ThreadId, mutate func(*domain.Thread)) error {
	return s.db.Update(func(tx kv.Tx) error {
		if err := s.requireModeratorTx(tx, board, caller); err != nil {
			return err
		}
		t, err := s.getThreadTx(tx, board, thread)
		if err != nil {
			return err
		}
		if t.IsDeleted {
			return errors.InvalidState("thread %d is deleted", thread)
		}
		mutate(&t)
		t.UpdatedAt = s.clock.Now()
		return s.putThreadTx(tx, &t)
	})
}

// requireLockedEditTx rejects edits on locked threads unless the editor
// holds moderator rights.
func (s *Store) requireLockedEditTx(tx kv.Tx, board domain.BoardId, t *domain.Thread, editor domain.UserId) error {
	if !t.IsLocked {
		return nil
	}
	moderator, err := s.authz.CanModerateTx(tx, board, editor)
	if err != nil {
		return err
	}
	if !moderator {
		return errors.InvalidState("thread %d is locked", t.Id)
	}
	return nil
}

// requireOwnershipOrModTx authorizes destructive calls: the content's author
// (still allowed to post) or any moderator.
func (s *Store) requireOwnershipOrModTx(tx kv.Tx, board domain.BoardId, caller, creator domain.UserId) error {
	moderator, err := s.authz.CanModerateTx(tx, board, caller)
	if err != nil {
		return err
	}
	if moderator {
		return nil
	}
	if caller != creator {
		return errors.Unauthorized("%s is not the author", caller)
	}
	return s.requirePosterTx(tx, board, caller)
}
