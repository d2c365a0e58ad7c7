package ports

import "context"

// Outcome classifies the result of a summarization attempt so the pipeline's
// fallback logic is driven by an enumerated value, not an untyped error.
type Outcome int

const (
	OutcomeOK Outcome = iota
	// OutcomeTransportFault covers network errors, timeouts and non-2xx replies.
	OutcomeTransportFault
	// OutcomeParseFault covers replies that decoded but lacked the expected content.
	OutcomeParseFault
)

func (o Outcome) String() string {
	switch o {
	case OutcomeOK:
		return "ok"
	case OutcomeTransportFault:
		return "transport_fault"
	case OutcomeParseFault:
		return "parse_fault"
	default:
		return "unknown"
	}
}

// SummaryResult carries either the generated text or the classified failure.
type SummaryResult struct {
	Outcome Outcome
	Text    string
	Err     error
}

// Summarizer turns a composite prompt into report prose.
type Summarizer interface {
	Summarize(ctx context.Context, prompt string) SummaryResult
}
