package model

// Competitor is one team's public standing in the market.
type Competitor struct {
	Name         string  `json:"name"`
	MarketShare  float64 `json:"market_share"`
	Satisfaction float64 `json:"satisfaction"`
}
