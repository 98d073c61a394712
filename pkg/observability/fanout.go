package observability

import (
	"time"

	"tweetbloom/application/ports"
)

// Fanout forwards every measurement to each sink
type Fanout []ports.Metrics

func (f Fanout) RecordTurn(outcome string) {
	for _, m := range f {
		m.RecordTurn(outcome)
	}
}

func (f Fanout) RecordGateVerdict(verdict string) {
	for _, m := range f {
		m.RecordGateVerdict(verdict)
	}
}

func (f Fanout) RecordGateFallback(operation string) {
	for _, m := range f {
		m.RecordGateFallback(operation)
	}
}

func (f Fanout) RecordProviderCall(provider string, duration time.Duration, err error) {
	for _, m := range f {
		m.RecordProviderCall(provider, duration, err)
	}
}

func (f Fanout) RecordTruncation() {
	for _, m := range f {
		m.RecordTruncation()
	}
}

func (f Fanout) RecordNoteCreated(origin string) {
	for _, m := range f {
		m.RecordNoteCreated(origin)
	}
}
