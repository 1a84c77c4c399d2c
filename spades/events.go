package spades

// Notifier receives the engine's outbound notifications. Implementations
// own transport and formatting; the engine assumes no delivery guarantee
// and never fails on a notification.
type Notifier interface {
	// Announce is a fire-and-forget message to every observer of the game.
	Announce(text string)
	// Notify is a fire-and-forget message to a single player.
	Notify(playerID, text string)
}

// NopNotifier discards all notifications.
type NopNotifier struct{}

func (NopNotifier) Announce(string)       {}
func (NopNotifier) Notify(string, string) {}
