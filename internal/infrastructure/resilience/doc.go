/*
Package resilience provides a circuit breaker for unreliable downstreams.

The runtime uses it around the contents-client bridge: when the embedder
shell stops answering, the breaker opens and bridge-backed policy callbacks
fall back to their deny defaults instead of blocking.

# Usage

	breaker := resilience.New("bridge", resilience.Settings{
		MaxRequests: 3,
		Interval:    60 * time.Second,
		Timeout:     30 * time.Second,
		ReadyToTrip: func(counts resilience.Counts) bool {
			return counts.ConsecutiveFailures >= 5
		},
	})

	err := breaker.Do(func() error {
		return client.Call()
	})

# States

	Closed --[failures]-> Open --[timeout]-> Half-Open --[successes]-> Closed
*/
package resilience
