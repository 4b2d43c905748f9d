package domain

import "time"

// PingResult represents the result of a ping operation.
type PingResult struct {
	Message string

	// Latency is the gateway heartbeat latency, or 0 when unknown.
	Latency time.Duration
}

// NewPingResult creates a new PingResult. Negative latencies are reported as unknown.
func NewPingResult(latency time.Duration) *PingResult {
	return &PingResult{
		Message: "Pong!",
		Latency: max(latency, 0),
	}
}

// LatencyText describes the latency in whole milliseconds.
func (r *PingResult) LatencyText() string {
	if r.Latency == 0 {
		return ""
	}
	return "Gateway latency: " + r.Latency.Round(time.Millisecond).String()
}
