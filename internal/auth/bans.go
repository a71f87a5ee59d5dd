package auth

import (
	"time"

	"github.com/wyhaines/boards/internal/domain"
	"github.com/wyhaines/boards/internal/errors"
	"github.com/wyhaines/boards/internal/kv"
	"github.com/wyhaines/boards/internal/logger"
)

// BanUser bans target on the board. durationHours 0 means permanent.
// Callers need moderator rights and can never ban a user of equal or higher
// role. Re-banning overwrites the existing record, so a moderator can extend
// or shorten a ban in place.
func (s *Store) BanUser(caller domain.UserId, board domain.BoardId, target domain.UserId, reason string, durationHours uint64) error {
	if caller == target {
		return errors.InvalidArgument("cannot ban yourself")
	}
	return s.db.Update(func(tx kv.Tx) error {
		if err := s.requireBoard(tx, board); err != nil {
			return err
		}
		callerRole, err := s.requireRoleTx(tx, board, caller, domain.RoleModerator)
		if err != nil {
			return err
		}
		targetRole, err := s.RoleTx(tx, board, target)
		if err != nil {
			return err
		}
		if targetRole >= callerRole {
			return errors.Unauthorized("%s cannot ban a user of equal or higher role", caller)
		}
		now := s.clock.Now()
		ban := domain.Ban{
			User:      target,
			Board:     board,
			Issuer:    caller,
			Reason:    reason,
			CreatedAt: now,
		}
		if durationHours > 0 {
			expires := now.Add(time.Duration(durationHours) * time.Hour)
			ban.ExpiresAt = &expires
		}
		if err := kv.PutJSON(tx, kv.BucketBans, roleKey(board, target), &ban); err != nil {
			return err
		}
		if err := addToUserList(tx, kv.BucketBanned, board, target); err != nil {
			return err
		}
		logger.Log.Info("user banned", "board", board, "user", target, "issuer", caller, "permanent", ban.ExpiresAt == nil)
		return nil
	})
}

// UnbanUser lifts target's ban. The record is removed even when it already
// expired, so unban doubles as cleanup. NotFound when no record exists.
func (s *Store) UnbanUser(caller domain.UserId, board domain.BoardId, target domain.UserId) error {
	return s.db.Update(func(tx kv.Tx) error {
		if err := s.requireBoard(tx, board); err != nil {
			return err
		}
		if _, err := s.requireRoleTx(tx, board, caller, domain.RoleModerator); err != nil {
			return err
		}
		found, err := tx.Has(kv.BucketBans, roleKey(board, target))
		if err != nil {
			return err
		}
		if !found {
			return errors.NotFound("%s is not banned on board %d", target, board)
		}
		if err := tx.Delete(kv.BucketBans, roleKey(board, target)); err != nil {
			return err
		}
		return removeFromUserList(tx, kv.BucketBanned, board, target)
	})
}

// IsBanned reports whether the user has an active ban on the board.
func (s *Store) IsBanned(board domain.BoardId, user domain.UserId) (bool, error) {
	var banned bool
	err := s.db.View(func(tx kv.Tx) error {
		ban, err := s.ActiveBanTx(tx, board, user)
		if err != nil {
			return err
		}
		banned = ban != nil
		return nil
	})
	return banned, err
}

// GetBan returns the user's active ban. Expired and missing records both
// resolve to NotFound.
func (s *Store) GetBan(board domain.BoardId, user domain.UserId) (domain.Ban, error) {
	var ban domain.Ban
	err := s.db.View(func(tx kv.Tx) error {
		active, err := s.ActiveBanTx(tx, board, user)
		if err != nil {
			return err
		}
		if active == nil {
			return errors.NotFound("%s is not banned on board %d", user, board)
		}
		ban = *active
		return nil
	})
	return ban, err
}

// ListBanned returns the principals with currently active bans on the
// board, in ban order. Callers need moderator rights.
func (s *Store) ListBanned(caller domain.UserId, board domain.BoardId) ([]domain.UserId, error) {
	bans, err := s.ListBans(caller, board)
	if err != nil {
		return nil, err
	}
	now := s.clock.Now()
	users := make([]domain.UserId, 0, len(bans))
	for _, b := range bans {
		if b.Active(now) {
			users = append(users, b.User)
		}
	}
	return users, nil
}

// ListBans returns every stored ban record for the board, expired ones
// included; only UnbanUser removes a record. Callers need moderator rights.
func (s *Store) ListBans(caller domain.UserId, board domain.BoardId) ([]domain.Ban, error) {
	var bans []domain.Ban
	err := s.db.View(func(tx kv.Tx) error {
		if err := s.requireBoard(tx, board); err != nil {
			return err
		}
		if _, err := s.requireRoleTx(tx, board, caller, domain.RoleModerator); err != nil {
			return err
		}
		users, err := getUserList(tx, kv.BucketBanned, board)
		if err != nil {
			return err
		}
		for _, user := range users {
			var ban domain.Ban
			found, err := kv.GetJSON(tx, kv.BucketBans, roleKey(board, user), &ban)
			if err != nil {
				return err
			}
			if found {
				bans = append(bans, ban)
			}
		}
		return nil
	})
	return bans, err
}
