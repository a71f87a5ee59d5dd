package domain

import (
	"fmt"
	"time"
)

// for debug
func (t *Thread) String() string {
	return fmt.Sprintf("[id:%d, board:%d, title:%s, creator:%s, replies:%d, locked:%v, pinned:%v, hidden:%v, deleted:%v, created:%s]",
		t.Id, t.Board, t.Title, t.Creator, t.ReplyCount, t.IsLocked, t.IsPinned, t.IsHidden, t.IsDeleted, t.CreatedAt.Format(time.StampMilli))
}

func (r *Reply) String() string {
	return fmt.Sprintf("[id:%d, thread:%d, parent:%d, depth:%d, creator:%s, hidden:%v, deleted:%v, flags:%d]",
		r.Id, r.Thread, r.ParentId, r.Depth, r.Creator, r.IsHidden, r.IsDeleted, r.FlagCount)
}
