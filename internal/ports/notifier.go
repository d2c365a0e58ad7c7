package ports

// Notifier delivers a finished report. A disabled channel reports success
// without doing anything.
type Notifier interface {
	Send(subject, body string) error
}
