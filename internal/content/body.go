package content

import (
	"github.com/wyhaines/boards/internal/domain"
	"github.com/wyhaines/boards/internal/errors"
	"github.com/wyhaines/boards/internal/kv"
)

// Bodies are opaque byte sequences stored in fixed BodyChunkSize pieces so
// single-chunk reads stay cheap no matter how large the body grows. Reply 0
// addresses the thread's own body.

func chunkKey(board domain.BoardId, thread domain.ThreadId, reply domain.ReplyId, index uint32) []byte {
	return kv.Key(kv.U64(board), kv.U64(thread), kv.U64(reply), kv.U32(index))
}

func (s *Store) writeBodyTx(tx kv.Tx, board domain.BoardId, thread domain.ThreadId, reply domain.ReplyId, body []byte) error {
	addr := replyKey(board, thread, reply)
	prev, err := kv.GetU64(tx, kv.BucketChunkCnt, addr, 0)
	if err != nil {
		return err
	}

	count := uint64(0)
	for off := 0; off < len(body); off += BodyChunkSize {
		end := off + BodyChunkSize
		if end > len(body) {
			end = len(body)
		}
		if err := tx.Put(kv.BucketChunks, chunkKey(board, thread, reply, uint32(count)), body[off:end]); err != nil {
			return err
		}
		count++
	}
	// Shrinking edits leave no stale tail chunks behind.
	for i := count; i < prev; i++ {
		if err := tx.Delete(kv.BucketChunks, chunkKey(board, thread, reply, uint32(i))); err != nil {
			return err
		}
	}
	return kv.PutU64(tx, kv.BucketChunkCnt, addr, count)
}

func (s *Store) readBodyTx(tx kv.Tx, board domain.BoardId, thread domain.ThreadId, reply domain.ReplyId) ([]byte, error) {
	addr := replyKey(board, thread, reply)
	count, err := kv.GetU64(tx, kv.BucketChunkCnt, addr, 0)
	if err != nil {
		return nil, err
	}
	body := make([]byte, 0, count*BodyChunkSize)
	for i := uint64(0); i < count; i++ {
		chunk, err := tx.Get(kv.BucketChunks, chunkKey(board, thread, reply, uint32(i)))
		if err != nil {
			return nil, err
		}
		body = append(body, chunk...)
	}
	return body, nil
}

// GetBodyChunk returns one storage chunk of a body. Reply 0 addresses the
// thread body. Out-of-range indexes are NotFound.
func (s *Store) GetBodyChunk(board domain.BoardId, thread domain.ThreadId, reply domain.ReplyId, index uint32) ([]byte, error) {
	var chunk []byte
	err := s.db.View(func(tx kv.Tx) error {
		if err := s.requireContentTx(tx, board, thread, reply); err != nil {
			return err
		}
		count, err := kv.GetU64(tx, kv.BucketChunkCnt, replyKey(board, thread, reply), 0)
		if err != nil {
			return err
		}
		if uint64(index) >= count {
			return errors.NotFound("chunk %d out of range, body has %d chunks", index, count)
		}
		chunk, err = tx.Get(kv.BucketChunks, chunkKey(board, thread, reply, index))
		return err
	})
	return chunk, err
}

// GetChunkCount returns how many storage chunks a body occupies.
func (s *Store) GetChunkCount(board domain.BoardId, thread domain.ThreadId, reply domain.ReplyId) (uint64, error) {
	var count uint64
	err := s.db.View(func(tx kv.Tx) error {
		if err := s.requireContentTx(tx, board, thread, reply); err != nil {
			return err
		}
		var err error
		count, err = kv.GetU64(tx, kv.BucketChunkCnt, replyKey(board, thread, reply), 0)
		return err
	})
	return count, err
}

// requireContentTx fails with NotFound unless (thread, reply) names existing
// content; reply 0 targets the thread itself.
func (s *Store) requireContentTx(tx kv.Tx, board domain.BoardId, thread domain.ThreadId, reply domain.ReplyId) error {
	if _, err := s.getThreadTx(tx, board, thread); err != nil {
		return err
	}
	if reply == 0 {
		return nil
	}
	_, err := s.getReplyTx(tx, board, thread, reply)
	return err
}
