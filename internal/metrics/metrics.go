// Package metrics exposes resolved-round figures as Prometheus collectors.
package metrics

import (
	"errors"

	"github.com/prometheus/client_golang/prometheus"

	"HotelSim/internal/decision"
	"HotelSim/internal/engine"
	"HotelSim/internal/model"
)

// Error codes used for failures that carry no engine code.
const (
	CodeInvalidDecisions = "INVALID_DECISIONS"
	CodeInternal         = "INTERNAL"
)

// Collectors holds every application metric.
type Collectors struct {
	RoundsResolved *prometheus.CounterVec
	ResolveErrors  *prometheus.CounterVec

	Cash                 prometheus.Gauge
	SharePrice           prometheus.Gauge
	MarketShare          prometheus.Gauge
	OccupancyRate        prometheus.Gauge
	CustomerSatisfaction prometheus.Gauge
}

// NewCollectors creates the collectors and registers them with reg.
func NewCollectors(reg prometheus.Registerer) *Collectors {
	gauge := func(name, help string) prometheus.Gauge {
		return prometheus.NewGauge(prometheus.GaugeOpts{Name: name, Help: help})
	}
	c := &Collectors{
		RoundsResolved: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "hotelsim_rounds_resolved_total",
				Help: "Total number of resolved seasons",
			},
			[]string{"season"},
		),
		ResolveErrors: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "hotelsim_resolve_errors_total",
				Help: "Total number of failed resolutions by error code",
			},
			[]string{"code"},
		),
		Cash:                 gauge("hotelsim_cash", "Cash after the last resolved season"),
		SharePrice:           gauge("hotelsim_share_price", "Share price after the last resolved season"),
		MarketShare:          gauge("hotelsim_market_share", "Market share in percent"),
		OccupancyRate:        gauge("hotelsim_occupancy_rate", "Occupancy rate in percent"),
		CustomerSatisfaction: gauge("hotelsim_customer_satisfaction", "Customer satisfaction in percent"),
	}
	reg.MustRegister(
		c.RoundsResolved,
		c.ResolveErrors,
		c.Cash,
		c.SharePrice,
		c.MarketShare,
		c.OccupancyRate,
		c.CustomerSatisfaction,
	)
	return c
}

// SetState sets the gauges from s without counting a round.
func (c *Collectors) SetState(s model.HotelState) {
	c.Cash.Set(s.Cash)
	c.SharePrice.Set(s.SharePrice)
	c.MarketShare.Set(s.MarketShare)
	c.OccupancyRate.Set(s.OccupancyRate)
	c.CustomerSatisfaction.Set(s.CustomerSatisfaction)
}

// ObserveRound counts a season resolved in season and updates the gauges to s.
func (c *Collectors) ObserveRound(season model.Season, s model.HotelState) {
	c.RoundsResolved.WithLabelValues(string(season)).Inc()
	c.SetState(s)
}

// ObserveError counts a failed resolution under its code.
func (c *Collectors) ObserveError(err error) {
	c.ResolveErrors.WithLabelValues(ErrorCode(err)).Inc()
}

// ErrorCode maps a resolution failure to a metric label.
func ErrorCode(err error) string {
	var de *engine.DomainError
	if errors.As(err, &de) {
		return string(de.Code)
	}
	var ie *decision.InvalidDecisionError
	if errors.As(err, &ie) {
		return CodeInvalidDecisions
	}
	return CodeInternal
}
