// Package notify delivers transactional email.
//
// A [Dispatcher] holds an ordered list of [Provider] implementations and
// tries them in turn until one accepts the message. When every provider
// fails, the individual failures are combined with errors.Join behind
// [ErrAllProvidersFailed]. When no provider is configured the dispatcher
// logs the message instead of sending it, which keeps local development
// usable without mail credentials.
//
// Two providers ship with the package: [SendGridProvider] (HTTPS API via
// resty) and [SMTPProvider] (gomail).
package notify
