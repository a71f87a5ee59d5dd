package auth

import (
	"testing"

	"github.com/facebookgo/clock"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"github.com/wyhaines/boards/internal/domain"
	"github.com/wyhaines/boards/internal/kv"
)

const testBoard = domain.BoardId(1)

func newTestStore(t *testing.T) (*Store, *clock.Mock) {
	t.Helper()
	mock := clock.NewMock()
	return NewWithClock(kv.NewMemory(), mock), mock
}

// bootstrapBoard installs an owner and returns their id.
func bootstrapBoard(t *testing.T, s *Store) domain.UserId {
	t.Helper()
	owner := newPrincipal()
	require.NoError(t, s.SetBoardOwner(testBoard, owner))
	return owner
}

func newPrincipal() domain.UserId {
	return domain.UserId(uuid.NewString())
}

// grant gives target the role through the owner, bypassing hierarchy checks
// in test setup.
func grant(t *testing.T, s *Store, owner, target domain.UserId, role domain.Role) {
	t.Helper()
	require.NoError(t, s.SetRole(owner, testBoard, target, role))
}
