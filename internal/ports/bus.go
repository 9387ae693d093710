package ports

// Bus broadcasts forced-logout notifications from wherever a request is made
// to whoever holds session state.
type Bus interface {
	// Subscribe registers a callback and returns its unsubscribe handle.
	// Unsubscribing twice is harmless.
	Subscribe(fn func(reason string)) (unsubscribe func())
	Publish(reason string)
}
