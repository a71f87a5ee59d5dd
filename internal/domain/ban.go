package domain

import "time"

// Ban restricts a user on one board. A nil ExpiresAt means permanent.
// Expiry is evaluated lazily at read time; expired records stay in storage
// until the next unban overwrite or delete.
type Ban struct {
	User      UserId     `json:"user"`
	Board     BoardId    `json:"board"`
	Issuer    UserId     `json:"issuer"`
	Reason    string     `json:"reason"`
	CreatedAt time.Time  `json:"created_at"`
	ExpiresAt *time.Time `json:"expires_at,omitempty"`
}

// Active reports whether the ban is in force at the given instant.
func (b *Ban) Active(now time.Time) bool {
	return b.ExpiresAt == nil || now.Before(*b.ExpiresAt)
}
