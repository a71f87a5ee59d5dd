// Package auth is the authorization store: per-board roles, bans, invite
// requests and moderation configuration. Every exported operation runs as one
// storage transaction; partial writes never survive an error.
package auth

import (
	"time"

	"github.com/facebookgo/clock"

	"github.com/wyhaines/boards/internal/domain"
	"github.com/wyhaines/boards/internal/errors"
	"github.com/wyhaines/boards/internal/kv"
)

type Store struct {
	db    kv.DB
	clock clock.Clock
}

func New(db kv.DB) *Store {
	return &Store{db: db, clock: clock.New()}
}

// NewWithClock is used by tests that need to control ban expiry.
func NewWithClock(db kv.DB, c clock.Clock) *Store {
	return &Store{db: db, clock: c}
}

func (s *Store) Now() time.Time {
	return s.clock.Now()
}

// roleKey scopes a role record to one (board, user) pair.
func roleKey(board domain.BoardId, user domain.UserId) []byte {
	return kv.Key(kv.U64(board), []byte(user))
}

// OwnerTx returns the board's owner, or false when the board was never
// bootstrapped.
func (s *Store) OwnerTx(tx kv.Tx, board domain.BoardId) (domain.UserId, bool, error) {
	raw, err := tx.Get(kv.BucketOwners, kv.U64(board))
	if err != nil {
		return "", false, err
	}
	if raw == nil {
		return "", false, nil
	}
	return domain.UserId(raw), true, nil
}

// requireBoard fails with NotFound unless the board has an owner. Ownership
// bootstrap is what brings a board into existence for the authorization
// store.
func (s *Store) requireBoard(tx kv.Tx, board domain.BoardId) error {
	_, ok, err := s.OwnerTx(tx, board)
	if err != nil {
		return err
	}
	if !ok {
		return errors.NotFound("board %d not found", board)
	}
	return nil
}

// RoleTx resolves a user's effective role inside an open transaction.
// Users without a stored record are guests.
func (s *Store) RoleTx(tx kv.Tx, board domain.BoardId, user domain.UserId) (domain.Role, error) {
	var role domain.Role
	found, err := kv.GetJSON(tx, kv.BucketRoles, roleKey(board, user), &role)
	if err != nil {
		return domain.RoleGuest, err
	}
	if !found {
		return domain.RoleGuest, nil
	}
	return role, nil
}

// ActiveBanTx returns the user's ban if one is in force right now. Expired
// records are ignored, not deleted; expiry is purely a read-time check.
func (s *Store) ActiveBanTx(tx kv.Tx, board domain.BoardId, user domain.UserId) (*domain.Ban, error) {
	var ban domain.Ban
	found, err := kv.GetJSON(tx, kv.BucketBans, roleKey(board, user), &ban)
	if err != nil {
		return nil, err
	}
	if !found || !ban.Active(s.clock.Now()) {
		return nil, nil
	}
	return &ban, nil
}

// ConfigTx resolves the board's moderation config, falling back to defaults
// when no record was ever written.
func (s *Store) ConfigTx(tx kv.Tx, board domain.BoardId) (domain.BoardConfig, error) {
	cfg := domain.DefaultBoardConfig()
	if _, err := kv.GetJSON(tx, kv.BucketBoardCfg, kv.U64(board), &cfg); err != nil {
		return cfg, err
	}
	return cfg, nil
}

// principal list helpers; board-scoped sets (banned users, pending invites)
// are stored as one JSON list per board.

func getUserList(tx kv.Tx, bucket string, board domain.BoardId) ([]domain.UserId, error) {
	var list []domain.UserId
	if _, err := kv.GetJSON(tx, bucket, kv.U64(board), &list); err != nil {
		return nil, err
	}
	return list, nil
}

func putUserList(tx kv.Tx, bucket string, board domain.BoardId, list []domain.UserId) error {
	if len(list) == 0 {
		return tx.Delete(bucket, kv.U64(board))
	}
	return kv.PutJSON(tx, bucket, kv.U64(board), list)
}

func addToUserList(tx kv.Tx, bucket string, board domain.BoardId, user domain.UserId) error {
	list, err := getUserList(tx, bucket, board)
	if err != nil {
		return err
	}
	for _, u := range list {
		if u == user {
			return nil
		}
	}
	return putUserList(tx, bucket, board, append(list, user))
}

func removeFromUserList(tx kv.Tx, bucket string, board domain.BoardId, user domain.UserId) error {
	list, err := getUserList(tx, bucket, board)
	if err != nil {
		return err
	}
	for i, u := range list {
		if u == user {
			return putUserList(tx, bucket, board, append(list[:i], list[i+1:]...))
		}
	}
	return nil
}
