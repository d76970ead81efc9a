package telegram

import "github.com/attendanceterminal/internal/terms"

type Chat struct {
	ID        int64  `json:"id"`
	FirstName string `json:"first_name"`
	// TermID is the term used by /report when none is given.
	TermID terms.ID `json:"term_id,omitempty"`
}
