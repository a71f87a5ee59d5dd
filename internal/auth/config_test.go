package auth

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wyhaines/boards/internal/domain"
	"github.com/wyhaines/boards/internal/errors"
)

func TestBoardConfigDefaults(t *testing.T) {
	s, _ := newTestStore(t)
	bootstrapBoard(t, s)

	cfg, err := s.GetBoardConfig(testBoard)
	require.NoError(t, err)
	assert.Equal(t, domain.DefaultBoardConfig(), cfg)

	threshold, err := s.GetFlagThreshold(testBoard)
	require.NoError(t, err)
	assert.Equal(t, uint32(domain.DefaultFlagThreshold), threshold)
}

func TestBoardConfigSetters(t *testing.T) {
	s, _ := newTestStore(t)
	owner := bootstrapBoard(t, s)

	require.NoError(t, s.SetFlagThreshold(owner, testBoard, 5))
	require.NoError(t, s.SetEditWindow(owner, testBoard, 0))
	require.NoError(t, s.SetMaxReplyDepth(owner, testBoard, 2))
	require.NoError(t, s.SetChunkSize(owner, testBoard, 25))
	require.NoError(t, s.SetReadOnly(owner, testBoard, true))

	cfg, err := s.GetBoardConfig(testBoard)
	require.NoError(t, err)
	assert.Equal(t, uint32(5), cfg.FlagThreshold)
	assert.Equal(t, uint64(0), cfg.EditWindowSeconds)
	assert.Equal(t, uint32(2), cfg.MaxReplyDepth)
	assert.Equal(t, uint32(25), cfg.ChunkSize)
	assert.True(t, cfg.ReadOnly)
}

func TestBoardConfigValidation(t *testing.T) {
	s, _ := newTestStore(t)
	owner := bootstrapBoard(t, s)

	tests := []struct {
		name string
		call func() error
	}{
		{"zero flag threshold", func() error { return s.SetFlagThreshold(owner, testBoard, 0) }},
		{"zero chunk size", func() error { return s.SetChunkSize(owner, testBoard, 0) }},
		{"depth below minimum", func() error { return s.SetMaxReplyDepth(owner, testBoard, 0) }},
		{"depth above maximum", func() error { return s.SetMaxReplyDepth(owner, testBoard, 21) }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.call()
			assert.True(t, errors.IsInvalidArgument(err), "expected invalid argument: %v", err)
		})
	}

	// A failed setter leaves the stored config untouched.
	cfg, err := s.GetBoardConfig(testBoard)
	require.NoError(t, err)
	assert.Equal(t, domain.DefaultBoardConfig(), cfg)
}

func TestBoardConfigRequiresAdmin(t *testing.T) {
	s, _ := newTestStore(t)
	owner := bootstrapBoard(t, s)
	moderator := newPrincipal()
	grant(t, s, owner, moderator, domain.RoleModerator)

	err := s.SetReadOnly(moderator, testBoard, true)
	assert.True(t, errors.IsUnauthorized(err), "moderator must not configure: %v", err)

	admin := newPrincipal()
	grant(t, s, owner, admin, domain.RoleAdmin)
	assert.NoError(t, s.SetReadOnly(admin, testBoard, true))
}

func TestReadOnlyBlocksPosting(t *testing.T) {
	s, _ := newTestStore(t)
	owner := bootstrapBoard(t, s)
	member := newPrincipal()
	moderator := newPrincipal()
	grant(t, s, owner, member, domain.RoleMember)
	grant(t, s, owner, moderator, domain.RoleModerator)

	require.NoError(t, s.SetReadOnly(owner, testBoard, true))

	ok, err := s.CanCreateThread(testBoard, member)
	require.NoError(t, err)
	assert.False(t, ok)

	ok, err = s.CanReply(testBoard, moderator)
	require.NoError(t, err)
	assert.True(t, ok, "moderators post through read-only")
}
