package content

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wyhaines/boards/internal/errors"
)

func TestBodyChunking(t *testing.T) {
	f := newFixture(t)

	// Two full chunks plus a short tail.
	body := bytes.Repeat([]byte("x"), 2*BodyChunkSize+100)
	thread, err := f.content.CreateThread(f.member, testBoard, "big", body)
	require.NoError(t, err)

	count, err := f.content.GetChunkCount(testBoard, thread.Id, 0)
	require.NoError(t, err)
	assert.Equal(t, uint64(3), count)

	chunk, err := f.content.GetBodyChunk(testBoard, thread.Id, 0, 0)
	require.NoError(t, err)
	assert.Len(t, chunk, BodyChunkSize)

	tail, err := f.content.GetBodyChunk(testBoard, thread.Id, 0, 2)
	require.NoError(t, err)
	assert.Len(t, tail, 100)

	_, err = f.content.GetBodyChunk(testBoard, thread.Id, 0, 3)
	assert.True(t, errors.IsNotFound(err), "index out of range: %v", err)

	// Reassembled body is byte-identical.
	_, got, err := f.content.GetThread(testBoard, thread.Id)
	require.NoError(t, err)
	assert.Equal(t, body, got)
}

func TestShrinkingEditDropsTailChunks(t *testing.T) {
	f := newFixture(t)
	big := bytes.Repeat([]byte("y"), 3*BodyChunkSize)
	thread, err := f.content.CreateThread(f.member, testBoard, "t", big)
	require.NoError(t, err)

	require.NoError(t, f.content.EditThread(f.member, testBoard, thread.Id, "t", []byte("tiny")))

	count, err := f.content.GetChunkCount(testBoard, thread.Id, 0)
	require.NoError(t, err)
	assert.Equal(t, uint64(1), count)

	_, body, err := f.content.GetThread(testBoard, thread.Id)
	require.NoError(t, err)
	assert.Equal(t, []byte("tiny"), body)

	_, err = f.content.GetBodyChunk(testBoard, thread.Id, 0, 1)
	assert.True(t, errors.IsNotFound(err), "stale chunk survived: %v", err)
}

func TestReplyBodyChunks(t *testing.T) {
	f := newFixture(t)
	thread := f.mustCreateThread(t, f.member, "t")

	body := bytes.Repeat([]byte("z"), BodyChunkSize+1)
	reply, err := f.content.CreateReply(f.member, testBoard, thread.Id, 0, body)
	require.NoError(t, err)

	count, err := f.content.GetChunkCount(testBoard, thread.Id, reply.Id)
	require.NoError(t, err)
	assert.Equal(t, uint64(2), count)

	_, got, err := f.content.GetReply(testBoard, thread.Id, reply.Id)
	require.NoError(t, err)
	assert.Equal(t, body, got)

	_, err = f.content.GetChunkCount(testBoard, thread.Id, 42)
	assert.True(t, errors.IsNotFound(err), "unknown reply: %v", err)
}

func TestBodySizeLimit(t *testing.T) {
	f := newFixture(t)
	_, err := f.content.CreateThread(f.member, testBoard, "t", bytes.Repeat([]byte("x"), MaxBodyBytes+1))
	assert.True(t, errors.IsInvalidArgument(err), "oversize body: %v", err)
}
