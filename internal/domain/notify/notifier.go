package notify

import "context"

// Notifier defines an interface for delivering formatted text to a destination
// channel of a community. This decouples the reminder and digest logic from the
// specific bot library; sending may fail (network, permissions) and the caller
// is expected to handle the error.
type Notifier interface {
	Send(ctx context.Context, communityID, channelID, text string) error
}
