package track

import "context"

// Notifier delivers one text message.
type Notifier interface {
	Send(ctx context.Context, content string) error
}
