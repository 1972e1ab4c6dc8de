package notifications

// Notifier receives favorites lifecycle events for out-of-band delivery
// (e.g. a push to the user's phone).
type Notifier interface {
	FavoriteAdded(kind, title string)
	FavoriteRemoved(kind, title string)
	Test() error
}
