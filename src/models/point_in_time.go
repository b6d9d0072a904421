package models

// MPointInTime is the /data answer for one ticker. Nil fields mean "no data".
type MPointInTime struct {
	Price  *float64 `json:"price"`
	Signal *int     `json:"signal"`
}

// MReportRow is one line of the merged report.
type MReportRow struct {
	Datetime string  `json:"datetime"`
	Ticker   string  `json:"ticker"`
	Price    float64 `json:"price"`
	Signal   int     `json:"signal"`
	PnL      float64 `json:"pnl"`
}
