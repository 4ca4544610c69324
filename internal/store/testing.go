package store

// OpenInMemory creates a DB backed by an in-memory database.
// This is only intended for use in tests.
func OpenInMemory() (*DB, error) {
	return openPath(":memory:")
}
