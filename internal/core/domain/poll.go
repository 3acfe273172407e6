package domain

import (
	"math"
	"time"

	"github.com/google/uuid"
)

type PollStatus string

const (
	PollStatusDraft  PollStatus = "draft"
	PollStatusActive PollStatus = "active"
	PollStatusClosed PollStatus = "closed"
)

const (
	MinPollOptions = 2
	MaxPollOptions = 10
)

type Poll struct {
	ID         uuid.UUID    `json:"id"`
	Slug       string       `json:"slug,omitempty"`
	Question   string       `json:"question"`
	Options    []PollOption `json:"options"`
	TotalVotes int64        `json:"total_votes"`
	Status     PollStatus   `json:"status"`
	CreatedAt  time.Time    `json:"created_at"`
	UpdatedAt  time.Time    `json:"updated_at"`
}

// PollOption is one entry of a poll's ordered option list. Votes reference
// it by its position in that list.
type PollOption struct {
	Text  string `json:"text"`
	Votes int64  `json:"votes"`
}

type OptionResult struct {
	Text       string `json:"text"`
	Votes      int64  `json:"votes"`
	Percentage int    `json:"percentage"`
}

func (p *Poll) HasOption(index int) bool {
	return index >= 0 && index < len(p.Options)
}

// Results renders the per-option tallies with percentages of the total.
// A poll with no votes reports 0% for every option.
func (p *Poll) Results() []OptionResult {
	results := make([]OptionResult, len(p.Options))
	for i, opt := range p.Options {
		pct := 0
		if p.TotalVotes > 0 {
			pct = int(math.Round(float64(opt.Votes) / float64(p.TotalVotes) * 100))
		}
		results[i] = OptionResult{Text: opt.Text, Votes: opt.Votes, Percentage: pct}
	}
	return results
}
