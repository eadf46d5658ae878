package notifier

import (
	"context"
	"log"
)

// NoopNotifier logs messages instead of delivering them. Used when Telegram is not configured.
type NoopNotifier struct{}

func NewNoopNotifier() *NoopNotifier { return &NoopNotifier{} }

func (n *NoopNotifier) Send(text string) error {
	log.Printf("[INFO] report:\n%s", text)
	return nil
}

func (n *NoopNotifier) SendPhoto(caption string, png []byte) error {
	log.Printf("[INFO] chart (%d bytes): %s", len(png), caption)
	return nil
}

func (n *NoopNotifier) SendDocument(name string, data []byte) error {
	log.Printf("[INFO] document %s (%d bytes)", name, len(data))
	return nil
}

func (n *NoopNotifier) SendWithRetry(_ context.Context, text string, _ int) error {
	return n.Send(text)
}
