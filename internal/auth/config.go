package auth

import (
	"github.com/wyhaines/boards/internal/domain"
	"github.com/wyhaines/boards/internal/errors"
	"github.com/wyhaines/boards/internal/kv"
)

// Per-board moderation knobs. Getters are public reads; setters need admin
// rights. Boards without a stored record resolve to defaults, so the first
// setter call is what materializes the record.

func (s *Store) GetBoardConfig(board domain.BoardId) (domain.BoardConfig, error) {
	var cfg domain.BoardConfig
	err := s.db.View(func(tx kv.Tx) error {
		var err error
		cfg, err = s.ConfigTx(tx, board)
		return err
	})
	return cfg, err
}

func (s *Store) GetFlagThreshold(board domain.BoardId) (uint32, error) {
	cfg, err := s.GetBoardConfig(board)
	return cfg.FlagThreshold, err
}

func (s *Store) GetEditWindow(board domain.BoardId) (uint64, error) {
	cfg, err := s.GetBoardConfig(board)
	return cfg.EditWindowSeconds, err
}

func (s *Store) GetMaxReplyDepth(board domain.BoardId) (uint32, error) {
	cfg, err := s.GetBoardConfig(board)
	return cfg.MaxReplyDepth, err
}

func (s *Store) GetChunkSize(board domain.BoardId) (uint32, error) {
	cfg, err := s.GetBoardConfig(board)
	return cfg.ChunkSize, err
}

func (s *Store) GetReadOnly(board domain.BoardId) (bool, error) {
	cfg, err := s.GetBoardConfig(board)
	return cfg.ReadOnly, err
}

func (s *Store) SetFlagThreshold(caller domain.UserId, board domain.BoardId, threshold uint32) error {
	if threshold == 0 {
		return errors.InvalidArgument("flag threshold must be positive")
	}
	return s.updateConfig(caller, board, func(cfg *domain.BoardConfig) {
		cfg.FlagThreshold = threshold
	})
}

// SetEditWindow sets how many seconds after creation authors may edit their
// own content. 0 disables the limit.
func (s *Store) SetEditWindow(caller domain.UserId, board domain.BoardId, seconds uint64) error {
	return s.updateConfig(caller, board, func(cfg *domain.BoardConfig) {
		cfg.EditWindowSeconds = seconds
	})
}

func (s *Store) SetMaxReplyDepth(caller domain.UserId, board domain.BoardId, depth uint32) error {
	if depth < domain.MinReplyDepth || depth > domain.MaxReplyDepth {
		return errors.InvalidArgument("max reply depth must be between %d and %d", domain.MinReplyDepth, domain.MaxReplyDepth)
	}
	return s.updateConfig(caller, board, func(cfg *domain.BoardConfig) {
		cfg.MaxReplyDepth = depth
	})
}

func (s *Store) SetChunkSize(caller domain.UserId, board domain.BoardId, size uint32) error {
	if size == 0 {
		return errors.InvalidArgument("chunk size must be positive")
	}
	return s.updateConfig(caller, board, func(cfg *domain.BoardConfig) {
		cfg.ChunkSize = size
	})
}

// SetReadOnly freezes or unfreezes the board for non-moderators.
func (s *Store) SetReadOnly(caller domain.UserId, board domain.BoardId, readOnly bool) error {
	return s.updateConfig(caller, board, func(cfg *domain.BoardConfig) {
		cfg.ReadOnly = readOnly
	})
}

func (s *Store) updateConfig(caller domain.UserId, board domain.BoardId, mutate func(*domain.BoardConfig)) error {
	return s.db.Update(func(tx kv.Tx) error {
		if err := s.requireBoard(tx, board); err != nil {
			return err
		}
		if _, err := s.requireRoleTx(tx, board, caller, domain.RoleAdmin); err != nil {
			return err
		}
		cfg, err := s.ConfigTx(tx, board)
		if err != nil {
			return err
		}
		mutate(&cfg)
		return kv.PutJSON(tx, kv.BucketBoardCfg, kv.U64(board), &cfg)
	})
}
