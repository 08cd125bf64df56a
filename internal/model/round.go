package model

// NightsPerSeason is the number of nights one room can be sold per season.
const NightsPerSeason = 180

// Season is one half of a round.
type Season string

const (
	Summer Season = "Summer"
	Winter Season = "Winter"
)

// Calendar tracks where the game is. A round is one Summer+Winter pair.
type Calendar struct {
	Round  int    `json:"round"`
	Season Season `json:"season"`
}

// NewCalendar returns the starting position: round 0, Summer.
func NewCalendar() Calendar {
	return Calendar{Round: 0, Season: Summer}
}

// RoundRecord is the immutable summary of one resolved season.
type RoundRecord struct {
	Round        int     `json:"round"`
	Season       Season  `json:"season"`
	Revenue      float64 `json:"revenue"`
	Profit       float64 `json:"profit"`
	Occupancy    float64 `json:"occupancy"`
	Satisfaction float64 `json:"satisfaction"`
	MarketShare  float64 `json:"market_share"`
	SharePrice   float64 `json:"share_price"`
}
