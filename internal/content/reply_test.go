package content

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wyhaines/boards/internal/domain"
	"github.com/wyhaines/boards/internal/errors"
)

func TestCreateReply(t *testing.T) {
	f := newFixture(t)
	thread := f.mustCreateThread(t, f.member, "t")

	reply := f.mustCreateReply(t, f.member, thread.Id, 0)
	assert.Equal(t, domain.ReplyId(1), reply.Id, "ids start at 1")
	assert.Equal(t, uint32(0), reply.Depth, "direct replies sit at depth 0")
	assert.Equal(t, domain.ReplyId(0), reply.ParentId)

	child := f.mustCreateReply(t, f.other, thread.Id, reply.Id)
	assert.Equal(t, domain.ReplyId(2), child.Id)
	assert.Equal(t, uint32(1), child.Depth)
	assert.Equal(t, reply.Id, child.ParentId)

	got, _, err := f.content.GetThread(testBoard, thread.Id)
	require.NoError(t, err)
	assert.Equal(t, uint64(2), got.ReplyCount)
}

func TestCreateReplyParentValidation(t *testing.T) {
	f := newFixture(t)
	thread := f.mustCreateThread(t, f.member, "t")
	reply := f.mustCreateReply(t, f.member, thread.Id, 0)

	// Unknown parent.
	_, err := f.content.CreateReply(f.member, testBoard, thread.Id, 42, []byte("r"))
	assert.True(t, errors.IsNotFound(err), "missing parent: %v", err)

	// Deleted parent.
	require.NoError(t, f.content.DeleteReply(f.member, testBoard, thread.Id, reply.Id))
	_, err = f.content.CreateReply(f.member, testBoard, thread.Id, reply.Id, []byte("r"))
	assert.True(t, errors.IsInvalidState(err), "deleted parent: %v", err)

	// Unknown thread.
	_, err = f.content.CreateReply(f.member, testBoard, 42, 0, []byte("r"))
	assert.True(t, errors.IsNotFound(err), "missing thread: %v", err)
}

func TestReplyDepthLimit(t *testing.T) {
	f := newFixture(t)
	require.NoError(t, f.auth.SetMaxReplyDepth(f.owner, testBoard, 2))
	thread := f.mustCreateThread(t, f.member, "t")

	// A chain of three fits on a depth-2 board: depths 0, 1 and 2.
	first := f.mustCreateReply(t, f.member, thread.Id, 0)
	second := f.mustCreateReply(t, f.member, thread.Id, first.Id)
	third := f.mustCreateReply(t, f.member, thread.Id, second.Id)
	assert.Equal(t, uint32(1), second.Depth)
	assert.Equal(t, uint32(2), third.Depth)

	_, err := f.content.CreateReply(f.member, testBoard, thread.Id, third.Id, []byte("too deep"))
	assert.True(t, errors.IsInvalidState(err), "depth 3 on a depth-2 board: %v", err)

	// Raising the limit immediately allows the same reply.
	require.NoError(t, f.auth.SetMaxReplyDepth(f.owner, testBoard, 3))
	_, err = f.content.CreateReply(f.member, testBoard, thread.Id, third.Id, []byte("ok now"))
	assert.NoError(t, err)
}

func TestEditReply(t *testing.T) {
	f := newFixture(t)
	thread := f.mustCreateThread(t, f.member, "t")
	reply := f.mustCreateReply(t, f.member, thread.Id, 0)

	require.NoError(t, f.content.EditReply(f.member, testBoard, thread.Id, reply.Id, []byte("edited")))

	_, body, err := f.content.GetReply(testBoard, thread.Id, reply.Id)
	require.NoError(t, err)
	assert.Equal(t, []byte("edited"), body)

	// Window elapses for the author, not the moderator.
	f.clock.Add(24*time.Hour + time.Second)
	err = f.content.EditReply(f.member, testBoard, thread.Id, reply.Id, []byte("late"))
	assert.True(t, errors.IsInvalidState(err), "window elapsed: %v", err)
	assert.NoError(t, f.content.EditReply(f.moderator, testBoard, thread.Id, reply.Id, []byte("mod")))

	// Strangers never edit.
	err = f.content.EditReply(f.other, testBoard, thread.Id, reply.Id, []byte("x"))
	assert.True(t, errors.IsUnauthorized(err), "not the author: %v", err)
}

func TestDeleteReply(t *testing.T) {
	f := newFixture(t)
	thread := f.mustCreateThread(t, f.member, "t")
	parent := f.mustCreateReply(t, f.member, thread.Id, 0)
	child := f.mustCreateReply(t, f.other, thread.Id, parent.Id)

	require.NoError(t, f.content.DeleteReply(f.member, testBoard, thread.Id, parent.Id))

	// Tombstone keeps the tree intact: the child still hangs off it.
	got, body, err := f.content.GetReply(testBoard, thread.Id, parent.Id)
	require.NoError(t, err)
	assert.True(t, got.IsDeleted)
	assert.Equal(t, []byte(DeletionNotice), body)

	children, err := f.content.GetChildReplies(f.member, testBoard, thread.Id, parent.Id, 0, 10)
	require.NoError(t, err)
	require.Len(t, children, 1)
	assert.Equal(t, child.Id, children[0].Id)

	err = f.content.DeleteReply(f.member, testBoard, thread.Id, parent.Id)
	assert.True(t, errors.IsInvalidState(err), "double delete: %v", err)

	err = f.content.EditReply(f.moderator, testBoard, thread.Id, parent.Id, []byte("x"))
	assert.True(t, errors.IsInvalidState(err), "deleted: %v", err)
}

func TestListReplies(t *testing.T) {
	f := newFixture(t)
	thread := f.mustCreateThread(t, f.member, "t")
	first := f.mustCreateReply(t, f.member, thread.Id, 0)
	second := f.mustCreateReply(t, f.other, thread.Id, first.Id)
	third := f.mustCreateReply(t, f.member, thread.Id, 0)

	replies, err := f.content.ListReplies(f.member, testBoard, thread.Id, 0, 10)
	require.NoError(t, err)
	require.Len(t, replies, 3)
	assert.Equal(t, first.Id, replies[0].Id, "creation order regardless of nesting")
	assert.Equal(t, second.Id, replies[1].Id)
	assert.Equal(t, third.Id, replies[2].Id)

	page, err := f.content.ListReplies(f.member, testBoard, thread.Id, 1, 1)
	require.NoError(t, err)
	require.Len(t, page, 1)
	assert.Equal(t, second.Id, page[0].Id)
}

func TestTopLevelAndChildReplies(t *testing.T) {
	f := newFixture(t)
	thread := f.mustCreateThread(t, f.member, "t")
	a := f.mustCreateReply(t, f.member, thread.Id, 0)
	b := f.mustCreateReply(t, f.member, thread.Id, 0)
	aChild := f.mustCreateReply(t, f.other, thread.Id, a.Id)

	top, err := f.content.GetTopLevelReplies(f.member, testBoard, thread.Id, 0, 10)
	require.NoError(t, err)
	require.Len(t, top, 2)
	assert.Equal(t, a.Id, top[0].Id)
	assert.Equal(t, b.Id, top[1].Id)

	children, err := f.content.GetChildReplies(f.member, testBoard, thread.Id, a.Id, 0, 10)
	require.NoError(t, err)
	require.Len(t, children, 1)
	assert.Equal(t, aChild.Id, children[0].Id)

	children, err = f.content.GetChildReplies(f.member, testBoard, thread.Id, b.Id, 0, 10)
	require.NoError(t, err)
	assert.Empty(t, children)

	_, err = f.content.GetChildReplies(f.member, testBoard, thread.Id, 42, 0, 10)
	assert.True(t, errors.IsNotFound(err), "unknown parent: %v", err)
}

func TestHiddenReplyVisibility(t *testing.T) {
	f := newFixture(t)
	thread := f.mustCreateThread(t, f.member, "t")
	reply := f.mustCreateReply(t, f.member, thread.Id, 0)

	err := f.content.HideReply(f.member, testBoard, thread.Id, reply.Id)
	assert.True(t, errors.IsUnauthorized(err), "members cannot hide: %v", err)

	require.NoError(t, f.content.HideReply(f.moderator, testBoard, thread.Id, reply.Id))

	replies, err := f.content.ListReplies(f.member, testBoard, thread.Id, 0, 10)
	require.NoError(t, err)
	assert.Empty(t, replies)

	replies, err = f.content.ListReplies(f.moderator, testBoard, thread.Id, 0, 10)
	require.NoError(t, err)
	assert.Len(t, replies, 1)

	require.NoError(t, f.content.UnhideReply(f.moderator, testBoard, thread.Id, reply.Id))
	replies, err = f.content.ListReplies(f.member, testBoard, thread.Id, 0, 10)
	require.NoError(t, err)
	assert.Len(t, replies, 1)
}

func TestReplyAndChildrenCounts(t *testing.T) {
	f := newFixture(t)
	thread := f.mustCreateThread(t, f.member, "t")
	first := f.mustCreateReply(t, f.member, thread.Id, 0)
	f.mustCreateReply(t, f.other, thread.Id, 0)
	f.mustCreateReply(t, f.other, thread.Id, first.Id)

	count, err := f.content.GetReplyCount(testBoard, thread.Id)
	require.NoError(t, err)
	assert.Equal(t, uint64(3), count)

	topLevel, err := f.content.GetChildrenCount(testBoard, thread.Id, 0)
	require.NoError(t, err)
	assert.Equal(t, uint32(2), topLevel)

	children, err := f.content.GetChildrenCount(testBoard, thread.Id, first.Id)
	require.NoError(t, err)
	assert.Equal(t, uint32(1), children)

	require.NoError(t, f.content.DeleteReply(f.member, testBoard, thread.Id, first.Id))
	count, err = f.content.GetReplyCount(testBoard, thread.Id)
	require.NoError(t, err)
	assert.Equal(t, uint64(3), count, "tombstones keep their place")

	_, err = f.content.GetChildrenCount(testBoard, thread.Id, 42)
	assert.True(t, errors.IsNotFound(err), "unknown parent: %v", err)
}
