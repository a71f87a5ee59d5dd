package auth

import (
	"github.com/wyhaines/boards/internal/domain"
	"github.com/wyhaines/boards/internal/kv"
)

// Capability checks. The content store calls the Tx variants from inside its
// own transactions so an authorization decision and the mutation it permits
// commit or abort together; the plain variants serve standalone queries.

// CanPostTx reports whether user may create threads or replies on the board:
// member or above, not banned, and the board not read-only (moderators post
// through read-only).
func (s *Store) CanPostTx(tx kv.Tx, board domain.BoardId, user domain.UserId) (bool, error) {
	role, err := s.RoleTx(tx, board, user)
	if err != nil {
		return false, err
	}
	if !role.AtLeast(domain.RoleMember) {
		return false, nil
	}
	ban, err := s.ActiveBanTx(tx, board, user)
	if err != nil {
		return false, err
	}
	if ban != nil {
		return false, nil
	}
	cfg, err := s.ConfigTx(tx, board)
	if err != nil {
		return false, err
	}
	if cfg.ReadOnly && !role.AtLeast(domain.RoleModerator) {
		return false, nil
	}
	return true, nil
}

// CanFlagTx reports whether user may flag content on the board. Flagging is
// reporting, not posting, so read-only boards still accept flags.
func (s *Store) CanFlagTx(tx kv.Tx, board domain.BoardId, user domain.UserId) (bool, error) {
	return s.hasUnbannedRoleTx(tx, board, user, domain.RoleMember)
}

// CanModerateTx reports whether user may exercise moderator powers on the
// board. An active ban suspends them regardless of role.
func (s *Store) CanModerateTx(tx kv.Tx, board domain.BoardId, user domain.UserId) (bool, error) {
	return s.hasUnbannedRoleTx(tx, board, user, domain.RoleModerator)
}

// CanAdminTx reports whether user may change board configuration and roles.
func (s *Store) CanAdminTx(tx kv.Tx, board domain.BoardId, user domain.UserId) (bool, error) {
	return s.hasUnbannedRoleTx(tx, board, user, domain.RoleAdmin)
}

func (s *Store) hasUnbannedRoleTx(tx kv.Tx, board domain.BoardId, user domain.UserId, min domain.Role) (bool, error) {
	role, err := s.RoleTx(tx, board, user)
	if err != nil {
		return false, err
	}
	if !role.AtLeast(min) {
		return false, nil
	}
	ban, err := s.ActiveBanTx(tx, board, user)
	if err != nil {
		return false, err
	}
	return ban == nil, nil
}

func (s *Store) CanCreateThread(board domain.BoardId, user domain.UserId) (bool, error) {
	var ok bool
	err := s.db.View(func(tx kv.Tx) error {
		var err error
		ok, err = s.CanPostTx(tx, board, user)
		return err
	})
	return ok, err
}

// CanReply mirrors CanCreateThread at the board level; whether the specific
// thread is locked is the content store's concern.
func (s *Store) CanReply(board domain.BoardId, user domain.UserId) (bool, error) {
	return s.CanCreateThread(board, user)
}

func (s *Store) CanModerate(board domain.BoardId, user domain.UserId) (bool, error) {
	var ok bool
	err := s.db.View(func(tx kv.Tx) error {
		var err error
		ok, err = s.CanModerateTx(tx, board, user)
		return err
	})
	return ok, err
}

func (s *Store) CanAdmin(board domain.BoardId, user domain.UserId) (bool, error) {
	var ok bool
	err := s.db.View(func(tx kv.Tx) error {
		var err error
		ok, err = s.CanAdminTx(tx, board, user)
		return err
	})
	return ok, err
}
