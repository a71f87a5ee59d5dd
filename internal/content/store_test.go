package content

import (
	"testing"

	"github.com/facebookgo/clock"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"github.com/wyhaines/boards/internal/auth"
	"github.com/wyhaines/boards/internal/domain"
	"github.com/wyhaines/boards/internal/kv"
)

const testBoard = domain.BoardId(1)

// fixture shares one database and one mock clock between both stores, the
// way production wiring does.
type fixture struct {
	auth    *auth.Store
	content *Store
	clock   *clock.Mock

	owner     domain.UserId
	admin     domain.UserId
	moderator domain.UserId
	member    domain.UserId
	other     domain.UserId
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	db := kv.NewMemory()
	mock := clock.NewMock()
	a := auth.NewWithClock(db, mock)
	f := &fixture{
		auth:      a,
		content:   NewWithClock(db, a, mock),
		clock:     mock,
		owner:     newPrincipal(),
		admin:     newPrincipal(),
		moderator: newPrincipal(),
		member:    newPrincipal(),
		other:     newPrincipal(),
	}
	require.NoError(t, f.auth.SetBoardOwner(testBoard, f.owner))
	require.NoError(t, f.auth.SetRole(f.owner, testBoard, f.admin, domain.RoleAdmin))
	require.NoError(t, f.auth.SetRole(f.owner, testBoard, f.moderator, domain.RoleModerator))
	require.NoError(t, f.auth.SetRole(f.owner, testBoard, f.member, domain.RoleMember))
	require.NoError(t, f.auth.SetRole(f.owner, testBoard, f.other, domain.RoleMember))
	return f
}

func newPrincipal() domain.UserId {
	return domain.UserId(uuid.NewString())
}

func (f *fixture) mustCreateThread(t *testing.T, creator domain.UserId, title string) domain.Thread {
	t.Helper()
	thread, err := f.content.CreateThread(creator, testBoard, title, []byte("body of "+title))
	require.NoError(t, err)
	return thread
}

func (f *fixture) mustCreateReply(t *testing.T, creator domain.UserId, thread domain.ThreadId, parent domain.ReplyId) domain.Reply {
	t.Helper()
	reply, err := f.content.CreateReply(creator, testBoard, thread, parent, []byte("a reply"))
	require.NoError(t, err)
	return reply
}
