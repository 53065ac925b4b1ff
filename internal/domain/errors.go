package domain

import "errors"

// Sentinel errors for domain operations
var (
	// ErrNotFound indicates the requested item does not exist
	ErrNotFound = errors.New("item not found")

	// ErrChapterLocked indicates the chapter must be purchased before listening
	ErrChapterLocked = errors.New("chapter is locked")

	// ErrNetwork indicates a transient network failure; callers may fall
	// back to cached data
	ErrNetwork = errors.New("network request failed")
)
