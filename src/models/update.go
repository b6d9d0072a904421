package models

// -----------------------------------------------------------------------------
// Push payloads for websocket clients
// -----------------------------------------------------------------------------

type MLatestData struct {
	Type      string                `json:"type"` // "INITIAL" or "UPDATE"
	Tickers   map[string]MSeriesRow `json:"tickers"`
	Failed    map[string]string     `json:"failed,omitempty"`
	Timestamp int64                 `json:"timestamp"`
}

type MSubscribeCommand struct {
	Command string   `json:"command"`
	Symbols []string `json:"symbols"`
}

// MRefreshResult summarises one refresh cycle.
type MRefreshResult struct {
	Updated []string
	Failed  map[string]error
}

// FailureMessages flattens Failed for JSON payloads.
func (r MRefreshResult) FailureMessages() map[string]string {
	if len(r.Failed) == 0 {
		return nil
	}
	out := make(map[string]string, len(r.Failed))
	for symbol, err := range r.Failed {
		out[symbol] = err.Error()
	}
	return out
}
