package domain

import "time"

// InviteRequest is a user-initiated request to join a board. It exists only
// while pending; acceptance or revocation removes the record.
type InviteRequest struct {
	User      UserId    `json:"user"`
	Board     BoardId   `json:"board"`
	CreatedAt time.Time `json:"created_at"`
}
