package ingest

import "github.com/extracto-dev/extracto/internal/model"

// Session is the per-run state the orchestrator reads and updates: which
// account is active, the new rows of the last saved batch, and the rows the
// last run skipped as duplicates.
type Session struct {
	ActiveAccountID string
	LastBatch       []model.Transaction
	Duplicates      []model.Transaction
}

// NewSession returns a session with accountID active.
func NewSession(accountID string) *Session {
	return &Session{ActiveAccountID: accountID}
}

// Select switches the active account and forgets the previous duplicates.
func (s *Session) Select(accountID string) {
	s.ActiveAccountID = accountID
	s.ResetDuplicates()
}

// ResetDuplicates clears the duplicates of the previous run.
func (s *Session) ResetDuplicates() {
	s.Duplicates = nil
}
