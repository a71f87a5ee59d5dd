package auth

import (
	"github.com/wyhaines/boards/internal/domain"
	"github.com/wyhaines/boards/internal/errors"
	"github.com/wyhaines/boards/internal/kv"
)

// SetBoardOwner bootstraps a board by installing its first owner. It is the
// only role assignment that needs no caller: every other operation on the
// board is authorized against state this call creates.
func (s *Store) SetBoardOwner(board domain.BoardId, owner domain.UserId) error {
	return s.db.Update(func(tx kv.Tx) error {
		_, ok, err := s.OwnerTx(tx, board)
		if err != nil {
			return err
		}
		if ok {
			return errors.AlreadyExists("board %d already has an owner", board)
		}
		if err := tx.Put(kv.BucketOwners, kv.U64(board), []byte(owner)); err != nil {
			return err
		}
		return kv.PutJSON(tx, kv.BucketRoles, roleKey(board, owner), domain.RoleOwner)
	})
}

// SetRole assigns target a role on the board.
//
// A non-owner caller must strictly outrank both the target's current role
// and the granted role; the owner is unconstrained. Granting RoleOwner is an
// ownership transfer: the previous owner is demoted to admin in the same
// transaction, so the board always has exactly one owner.
func (s *Store) SetRole(caller domain.UserId, board domain.BoardId, target domain.UserId, role domain.Role) error {
	if !role.Valid() {
		return errors.InvalidArgument("invalid role %d", uint32(role))
	}
	return s.db.Update(func(tx kv.Tx) error {
		if err := s.requireBoard(tx, board); err != nil {
			return err
		}
		callerRole, err := s.requireRoleTx(tx, board, caller, domain.RoleGuest)
		if err != nil {
			return err
		}
		targetRole, err := s.RoleTx(tx, board, target)
		if err != nil {
			return err
		}
		if callerRole != domain.RoleOwner {
			if targetRole >= callerRole {
				return errors.Unauthorized("%s cannot manage a user of equal or higher role", caller)
			}
			if role >= callerRole {
				return errors.Unauthorized("%s cannot grant a role at or above their own", caller)
			}
		}
		if targetRole == domain.RoleOwner && role != domain.RoleOwner {
			return errors.InvalidState("board owner can only change via ownership transfer")
		}
		if role == domain.RoleOwner {
			return s.transferOwnershipTx(tx, board, caller, target)
		}
		if role == domain.RoleGuest {
			// Guests carry no record; dropping someone back to guest is a
			// delete, keeping guest-by-default and guest-by-demotion
			// indistinguishable.
			return tx.Delete(kv.BucketRoles, roleKey(board, target))
		}
		return kv.PutJSON(tx, kv.BucketRoles, roleKey(board, target), role)
	})
}

func (s *Store) transferOwnershipTx(tx kv.Tx, board domain.BoardId, caller, target domain.UserId) error {
	owner, _, err := s.OwnerTx(tx, board)
	if err != nil {
		return err
	}
	if caller != owner {
		return errors.Unauthorized("only the board owner can transfer ownership")
	}
	if target == owner {
		return nil
	}
	if err := tx.Put(kv.BucketOwners, kv.U64(board), []byte(target)); err != nil {
		return err
	}
	if err := kv.PutJSON(tx, kv.BucketRoles, roleKey(board, target), domain.RoleOwner); err != nil {
		return err
	}
	return kv.PutJSON(tx, kv.BucketRoles, roleKey(board, owner), domain.RoleAdmin)
}

// GetRole returns the user's effective role. Unknown users and unknown
// boards both resolve to guest.
func (s *Store) GetRole(board domain.BoardId, user domain.UserId) (domain.Role, error) {
	var role domain.Role
	err := s.db.View(func(tx kv.Tx) error {
		var err error
		role, err = s.RoleTx(tx, board, user)
		return err
	})
	return role, err
}

// HasRole reports whether the user holds at least the given role.
func (s *Store) HasRole(board domain.BoardId, user domain.UserId, min domain.Role) (bool, error) {
	role, err := s.GetRole(board, user)
	if err != nil {
		return false, err
	}
	return role.AtLeast(min), nil
}

// GetPermissions resolves role and ban state into one capability snapshot.
// An active ban strips every capability except viewing.
func (s *Store) GetPermissions(board domain.BoardId, user domain.UserId) (domain.PermissionSet, error) {
	var perms domain.PermissionSet
	err := s.db.View(func(tx kv.Tx) error {
		role, err := s.RoleTx(tx, board, user)
		if err != nil {
			return err
		}
		ban, err := s.ActiveBanTx(tx, board, user)
		if err != nil {
			return err
		}
		banned := ban != nil
		perms = domain.PermissionSet{
			Role:        role,
			CanView:     true,
			CanPost:     !banned && role.AtLeast(domain.RoleMember),
			CanModerate: !banned && role.AtLeast(domain.RoleModerator),
			CanAdmin:    !banned && role.AtLeast(domain.RoleAdmin),
			IsBanned:    banned,
		}
		return nil
	})
	return perms, err
}

// requireRoleTx returns the caller's role, failing with Unauthorized when it
// is below min or when the caller is currently banned.
func (s *Store) requireRoleTx(tx kv.Tx, board domain.BoardId, caller domain.UserId, min domain.Role) (domain.Role, error) {
	role, err := s.RoleTx(tx, board, caller)
	if err != nil {
		return domain.RoleGuest, err
	}
	if !role.AtLeast(min) {
		return role, errors.Unauthorized("%s requires %s role on board %d", caller, min, board)
	}
	ban, err := s.ActiveBanTx(tx, board, caller)
	if err != nil {
		return role, err
	}
	if ban != nil {
		return role, errors.Unauthorized("%s is banned from board %d", caller, board)
	}
	return role, nil
}
