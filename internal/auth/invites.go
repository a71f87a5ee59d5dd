package auth

import (
	"github.com/wyhaines/boards/internal/domain"
	"github.com/wyhaines/boards/internal/errors"
	"github.com/wyhaines/boards/internal/kv"
	"github.com/wyhaines/boards/internal/logger"
)

// RequestInvite records a guest's request to join the board. The request
// stays pending until a moderator accepts it, a moderator or the requester
// revokes it, or the user is invited directly.
func (s *Store) RequestInvite(user domain.UserId, board domain.BoardId) error {
	return s.db.Update(func(tx kv.Tx) error {
		if err := s.requireBoard(tx, board); err != nil {
			return err
		}
		role, err := s.RoleTx(tx, board, user)
		if err != nil {
			return err
		}
		if role.AtLeast(domain.RoleMember) {
			return errors.AlreadyExists("%s is already a member of board %d", user, board)
		}
		ban, err := s.ActiveBanTx(tx, board, user)
		if err != nil {
			return err
		}
		if ban != nil {
			return errors.Unauthorized("%s is banned from board %d", user, board)
		}
		pending, err := tx.Has(kv.BucketInvites, roleKey(board, user))
		if err != nil {
			return err
		}
		if pending {
			return errors.InvitePending("%s already has a pending request on board %d", user, board)
		}
		req := domain.InviteRequest{User: user, Board: board, CreatedAt: s.clock.Now()}
		if err := kv.PutJSON(tx, kv.BucketInvites, roleKey(board, user), &req); err != nil {
			return err
		}
		return addToUserList(tx, kv.BucketInviteList, board, user)
	})
}

// AcceptInvite approves target's pending request and grants them member
// role. Callers need moderator rights.
func (s *Store) AcceptInvite(caller domain.UserId, board domain.BoardId, target domain.UserId) error {
	return s.db.Update(func(tx kv.Tx) error {
		if err := s.requireBoard(tx, board); err != nil {
			return err
		}
		if _, err := s.requireRoleTx(tx, board, caller, domain.RoleModerator); err != nil {
			return err
		}
		pending, err := tx.Has(kv.BucketInvites, roleKey(board, target))
		if err != nil {
			return err
		}
		if !pending {
			return errors.NotFound("%s has no pending request on board %d", target, board)
		}
		if err := s.clearRequestTx(tx, board, target); err != nil {
			return err
		}
		if err := kv.PutJSON(tx, kv.BucketRoles, roleKey(board, target), domain.RoleMember); err != nil {
			return err
		}
		logger.Log.Info("invite accepted", "board", board, "user", target, "moderator", caller)
		return nil
	})
}

// RevokeInvite removes a pending request. The requester can withdraw their
// own; anyone else needs moderator rights.
func (s *Store) RevokeInvite(caller domain.UserId, board domain.BoardId, target domain.UserId) error {
	return s.db.Update(func(tx kv.Tx) error {
		if err := s.requireBoard(tx, board); err != nil {
			return err
		}
		if caller != target {
			if _, err := s.requireRoleTx(tx, board, caller, domain.RoleModerator); err != nil {
				return err
			}
		}
		pending, err := tx.Has(kv.BucketInvites, roleKey(board, target))
		if err != nil {
			return err
		}
		if !pending {
			return errors.NotFound("%s has no pending request on board %d", target, board)
		}
		return s.clearRequestTx(tx, board, target)
	})
}

// InviteMember grants target a role directly, without a prior request. A
// pending request from target, if any, is consumed by the invite.
//
// Callers need moderator rights and can only grant roles strictly below
// their own; the owner may also grant RoleOwner, which is an ownership
// transfer. An invite that would not raise the target's current role fails.
func (s *Store) InviteMember(caller domain.UserId, board domain.BoardId, target domain.UserId, role domain.Role) error {
	if !role.Valid() {
		return errors.InvalidArgument("invalid role %d", uint32(role))
	}
	return s.db.Update(func(tx kv.Tx) error {
		if err := s.requireBoard(tx, board); err != nil {
			return err
		}
		callerRole, err := s.requireRoleTx(tx, board, caller, domain.RoleModerator)
		if err != nil {
			return err
		}
		if role >= callerRole && !(role == domain.RoleOwner && callerRole == domain.RoleOwner) {
			return errors.Unauthorized("%s cannot grant a role at or above their own", caller)
		}
		targetRole, err := s.RoleTx(tx, board, target)
		if err != nil {
			return err
		}
		if targetRole >= role {
			return errors.AlreadyExists("%s already holds %s or higher on board %d", target, targetRole, board)
		}
		ban, err := s.ActiveBanTx(tx, board, target)
		if err != nil {
			return err
		}
		if ban != nil {
			return errors.InvalidState("%s is banned from board %d, unban first", target, board)
		}
		if err := s.clearRequestTx(tx, board, target); err != nil {
			return err
		}
		if role == domain.RoleOwner {
			return s.transferOwnershipTx(tx, board, caller, target)
		}
		return kv.PutJSON(tx, kv.BucketRoles, roleKey(board, target), role)
	})
}

// ListInviteRequests returns the board's pending requests in arrival order.
// Callers need moderator rights.
func (s *Store) ListInviteRequests(caller domain.UserId, board domain.BoardId) ([]domain.InviteRequest, error) {
	var reqs []domain.InviteRequest
	err := s.db.View(func(tx kv.Tx) error {
		if err := s.requireBoard(tx, board); err != nil {
			return err
		}
		if _, err := s.requireRoleTx(tx, board, caller, domain.RoleModerator); err != nil {
			return err
		}
		users, err := getUserList(tx, kv.BucketInviteList, board)
		if err != nil {
			return err
		}
		for _, user := range users {
			var req domain.InviteRequest
			found, err := kv.GetJSON(tx, kv.BucketInvites, roleKey(board, user), &req)
			if err != nil {
				return err
			}
			if found {
				reqs = append(reqs, req)
			}
		}
		return nil
	})
	return reqs, err
}

// HasInviteRequest reports whether user has a pending request on the board.
func (s *Store) HasInviteRequest(board domain.BoardId, user domain.UserId) (bool, error) {
	var pending bool
	err := s.db.View(func(tx kv.Tx) error {
		var err error
		pending, err = tx.Has(kv.BucketInvites, roleKey(board, user))
		return err
	})
	return pending, err
}

func (s *Store) clearRequestTx(tx kv.Tx, board domain.BoardId, user domain.UserId) error {
	if err := tx.Delete(kv.BucketInvites, roleKey(board, user)); err != nil {
		return err
	}
	return removeFromUserList(tx, kv.BucketInviteList, board, user)
}
