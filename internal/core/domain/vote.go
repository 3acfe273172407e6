package domain

import (
	"time"

	"github.com/google/uuid"
)

// VoteRecord is a ledger entry: one visitor voted once on one poll. Rows are
// immutable and the (poll_id, visitor_id) pair is unique. IP and user agent
// are kept for forensics only and play no part in deduplication.
type VoteRecord struct {
	ID          uuid.UUID `json:"id"`
	PollID      uuid.UUID `json:"poll_id"`
	OptionIndex int       `json:"option_index"`
	VisitorID   string    `json:"visitor_id"`
	IPAddress   string    `json:"ip_address,omitempty"`
	UserAgent   string    `json:"user_agent,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
}
