package calculator

import (
	"errors"
	"fmt"

	"HotelSim/internal/model"
)

// Metric names one column of the round history.
type Metric string

const (
	Revenue      Metric = "revenue"
	Profit       Metric = "profit"
	Occupancy    Metric = "occupancy"
	Satisfaction Metric = "satisfaction"
	MarketShare  Metric = "market_share"
	SharePrice   Metric = "share_price"
)

// Metrics lists every metric in report order.
var Metrics = []Metric{Revenue, Profit, Occupancy, Satisfaction, MarketShare, SharePrice}

// Extract returns one metric of every record, oldest first.
func Extract(history []model.RoundRecord, m Metric) ([]float64, error) {
	pick, err := picker(m)
	if err != nil {
		return nil, err
	}
	values := make([]float64, len(history))
	for i, r := range history {
		values[i] = pick(r)
	}
	return values, nil
}

func picker(m Metric) (func(model.RoundRecord) float64, error) {
	switch m {
	case Revenue:
		return func(r model.RoundRecord) float64 { return r.Revenue }, nil
	case Profit:
		return func(r model.RoundRecord) float64 { return r.Profit }, nil
	case Occupancy:
		return func(r model.RoundRecord) float64 { return r.Occupancy }, nil
	case Satisfaction:
		return func(r model.RoundRecord) float64 { return r.Satisfaction }, nil
	case MarketShare:
		return func(r model.RoundRecord) float64 { return r.MarketShare }, nil
	case SharePrice:
		return func(r model.RoundRecord) float64 { return r.SharePrice }, nil
	}
	return nil, fmt.Errorf("unknown metric %q", m)
}

// MovingAverage computes the simple moving average of the last window values.
func MovingAverage(values []float64, window int) (float64, error) {
	if window <= 0 {
		return 0, errors.New("window must be positive")
	}
	if len(values) < window {
		return 0, errors.New("not enough data for moving average")
	}
	sum := 0.0
	for i := len(values) - window; i < len(values); i++ {
		sum += values[i]
	}
	return sum / float64(window), nil
}
