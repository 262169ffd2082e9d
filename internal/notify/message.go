package notify

// Message is a single outbound email. HTML and Text are alternative bodies
// of the same content; at least one should be set.
type Message struct {
	To      string
	Subject string
	HTML    string
	Text    string
}

// Sender is the From identity every provider uses.
type Sender struct {
	Address string
	Name    string
}
