package notify

import "context"

// Payload is one alert message, prepared once and fanned out to every
// configured channel.
type Payload struct {
	InquiryID uint
	Text      string
	SMSText   string
	DetailURL string
}

type Failure struct {
	Target string
	Status int
	Detail string
}

type SendResult struct {
	SuccessCount int
	Failures     []Failure
}

// Channel is one outbound alert transport. Send returns a partial-result
// summary; it errors only when no target could be reached at all.
type Channel interface {
	Name() string
	Send(ctx context.Context, payload Payload) (SendResult, error)
}
