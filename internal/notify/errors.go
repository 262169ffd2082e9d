package notify

import "errors"

var (
	// ErrAllProvidersFailed is returned by Dispatcher.Send when every
	// configured provider rejected the message.
	ErrAllProvidersFailed = errors.New("all notification providers failed")

	// ErrNoRecipient is returned when a message has no To address.
	ErrNoRecipient = errors.New("message has no recipient")

	// ErrProviderRejected is returned when a provider API answers with a
	// non-success status.
	ErrProviderRejected = errors.New("provider rejected message")
)
