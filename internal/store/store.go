package store

// Store is the append-only interaction log. It is the only owner of the
// event sequence: all mutation goes through Append and Clear, so readers
// never observe partially written records.
//
// ReadAll deliberately has no error return. Missing or unreadable data is
// reported through diagnostics and surfaced to callers as an empty log,
// so a broken storage medium can never take down a dashboard render.
type Store interface {
	// Append adds one interaction to the end of the log. The returned
	// error is for diagnostics only; callers on the UI flow are expected
	// to log it and move on.
	Append(ev Interaction) error

	// ReadAll returns the full log in insertion order. An empty slice
	// means "no data", whether because nothing was recorded or because
	// the stored data could not be read.
	ReadAll() []Interaction

	// Clear removes all stored interactions. Idempotent.
	Clear() error

	Close() error
}
