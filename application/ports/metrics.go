package ports

import "time"

// Metrics records business measurements from the application layer
type Metrics interface {
	RecordTurn(outcome string)
	RecordGateVerdict(verdict string)
	RecordGateFallback(operation string)
	RecordProviderCall(provider string, duration time.Duration, err error)
	RecordTruncation()
	RecordNoteCreated(origin string)
}
