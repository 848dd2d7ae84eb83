package market

// TickerSnapshot is one row of the exchange-wide price feed: the current
// quote for a ticker on one exchange without order book depth.
type TickerSnapshot struct {
	Ticker       string   `json:"ticker"`
	Exchange     string   `json:"exchange"`
	Ask          *float64 `json:"ask"`
	Bid          *float64 `json:"bid"`
	PriceAverage float64  `json:"price_average"`
	Supply       int      `json:"supply"`
	Demand       int      `json:"demand"`
}

// PriceCandle is one OHLC interval of trade history for a ticker on one
// exchange. Timestamp is epoch milliseconds at the interval start.
type PriceCandle struct {
	Interval  string  `json:"interval"`
	Timestamp int64   `json:"timestamp"`
	Open      float64 `json:"open"`
	Close     float64 `json:"close"`
	High      float64 `json:"high"`
	Low       float64 `json:"low"`
	Traded    int64   `json:"traded"`
	Volume    float64 `json:"volume"`
}
