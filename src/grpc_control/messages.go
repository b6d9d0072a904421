package grpc_control

// -----------------------------------------------------------------------------
// Control plane messages
// -----------------------------------------------------------------------------

type Empty struct{}

type TickerRequest struct {
	Symbol string `json:"symbol"`
}

type TickerControlResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
	Symbol  string `json:"symbol"`
	Bars    int32  `json:"bars"`
}

type TickerStatus struct {
	Symbol     string  `json:"symbol"`
	Bars       int32   `json:"bars"`
	LastPrice  float64 `json:"last_price"`
	LastSignal int32   `json:"last_signal"`
	UpdatedAt  int64   `json:"updated_at"`
}

type ListTickersResponse struct {
	Tickers []*TickerStatus `json:"tickers"`
}

type RefreshResponse struct {
	Updated []string          `json:"updated"`
	Failed  map[string]string `json:"failed,omitempty"`
}
