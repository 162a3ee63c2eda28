package domain

import "time"

// Pin marks a GPT as pinned by a user. At most one Pin exists per
// (UserID, GPTID) pair; re-pinning refreshes PinnedAt.
type Pin struct {
	UserID   string    `json:"user_id"`
	GPTID    string    `json:"gpts_id"`
	PinnedAt time.Time `json:"pinned_at"`
}
