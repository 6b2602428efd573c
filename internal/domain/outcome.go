package domain

// InsertOutcome is the closed set of results of a tag write attempt.
// Exactly one of the concrete types below is returned per attempt:
//
//   - Invalid:     text was empty after trimming (no quota cost, no write)
//   - RateLimited: quota exhausted or the quota check failed (no write)
//   - Created:     a new unique tag was stored
//   - Duplicate:   the text already existed; quota was still consumed
//   - StoreError:  the tag store failed
type InsertOutcome interface {
	insertOutcome()
}

// Invalid reports that the submitted text was empty after trimming.
type Invalid struct{}

// RateLimited reports a denied write. Message is safe to show to users.
type RateLimited struct {
	Message string
}

// Created reports a newly stored tag. Remaining is the quota left for the
// caller's identity after this attempt.
type Created struct {
	Tag       string
	Remaining int
}

// Duplicate reports that Tag already existed. Remaining is the quota left for
// the caller's identity after this attempt.
type Duplicate struct {
	Tag       string
	Remaining int
}

// StoreError reports a storage failure while inserting the tag.
type StoreError struct {
	Err error
}

func (Invalid) insertOutcome()     {}
func (RateLimited) insertOutcome() {}
func (Created) insertOutcome()     {}
func (Duplicate) insertOutcome()   {}
func (StoreError) insertOutcome()  {}

// Error implements error so a StoreError can be logged and matched directly.
func (e StoreError) Error() string {
	if e.Err == nil {
		return "tag store error"
	}
	return "tag store error: " + e.Err.Error()
}

// Unwrap exposes the underlying storage error.
func (e StoreError) Unwrap() error { return e.Err }
