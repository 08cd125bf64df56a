package recorder

import (
	"HotelSim/internal/engine"
	"HotelSim/internal/model"
)

// RoundSnapshot holds everything known about one resolved round.
type RoundSnapshot struct {
	Team       string
	Generation int            // game the round belongs to; bumped by every reset
	Calendar   model.Calendar // calendar the round was played in
	Decisions  model.Decisions
	Outcome    *engine.RoundOutcome
}

// RoundRow is one stored round, as read back by ListRounds.
type RoundRow struct {
	Team                 string
	Generation           int
	Round                int
	Season               model.Season
	Revenue              float64
	Costs                float64
	Profit               float64
	Occupancy            float64
	CustomerSatisfaction float64
	EmployeeSatisfaction float64
	MarketShare          float64
	SharePrice           float64
	Cash                 float64
	Rooms                int
	RoomCondition        float64
	StaffCompetence      float64
	NightsSold           float64
	RecordedAt           int64
}

// Recorder persists resolved rounds for later analysis.
type Recorder interface {
	RecordRound(snap *RoundSnapshot) error
	Close() error
}

// Archive reads recorded rounds back.
type Archive interface {
	ListRounds(team string) ([]RoundRow, error)
}
