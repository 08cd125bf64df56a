package engine

import (
	"fmt"
	"math"

	"HotelSim/internal/model"
)

// RoundOutcome is the full result of resolving one season.
type RoundOutcome struct {
	State     model.HotelState  `json:"state"`
	Record    model.RoundRecord `json:"record"`
	Next      model.Calendar    `json:"next"`
	Breakdown Breakdown         `json:"breakdown"`
}

// Resolve applies one season of decisions to state.
//
// It is pure: state is taken by value and its history slice is copied before the
// new record is appended. Decisions are expected to be range-checked already.
// Zero rooms or zero staff return a *DomainError and no outcome.
func Resolve(state model.HotelState, cal model.Calendar, d model.Decisions) (*RoundOutcome, error) {
	staff := state.PermanentStaff + d.TemporaryStaff
	if staff == 0 {
		return nil, ErrNoStaff
	}
	if state.Rooms == 0 {
		return nil, ErrNoRooms
	}

	var b Breakdown

	// Step a: volume, revenue, costs
	salesVolume(&state, &d, &b)
	totalRevenue := revenue(&d, &b)
	totalCosts := costs(&state, &d, &b)

	// Step b: profit and occupancy
	netProfit := totalRevenue - totalCosts
	occupancy := b.NightsSold / b.TotalCapacity * 100

	// Step c: satisfaction feeds market share
	customer := customerSatisfaction(&state, &d)
	employee := employeeSatisfaction(&d, &b, staff)
	share := marketShare(&state, customer, employee, &b)

	// Step d: share price, facilities, people, cash
	price := sharePrice(&state, netProfit, &b)
	condition := roomCondition(&state, &d)
	competence := staffCompetence(&state, &d)
	cash := cashFlow(&state, &d, netProfit, &b)

	if err := checkFinite([]namedValue{
		{"total_revenue", totalRevenue},
		{"total_costs", totalCosts},
		{"occupancy_rate", occupancy},
		{"customer_satisfaction", customer},
		{"employee_satisfaction", employee},
		{"market_share", share},
		{"share_price", price},
		{"room_condition", condition},
		{"staff_competence", competence},
		{"cash", cash},
	}); err != nil {
		return nil, err
	}

	next := model.HotelState{
		Cash:                 cash,
		Rooms:                state.Rooms + d.NewRoomBatches*roomBatchSize,
		RoomCondition:        condition,
		PermanentStaff:       state.PermanentStaff + d.PermanentStaffChange,
		TemporaryStaff:       d.TemporaryStaff,
		StaffCompetence:      competence,
		StaffSalary:          d.StaffSalary,
		LongTermLoan:         state.LongTermLoan + d.LoanChange,
		TotalRevenue:         totalRevenue,
		TotalCosts:           totalCosts,
		NetProfit:            netProfit,
		OccupancyRate:        occupancy,
		CustomerSatisfaction: customer,
		EmployeeSatisfaction: employee,
		MarketShare:          share,
		SharePrice:           price,
	}

	record := model.RoundRecord{
		Round:        cal.Round,
		Season:       cal.Season,
		Revenue:      totalRevenue,
		Profit:       netProfit,
		Occupancy:    occupancy,
		Satisfaction: customer,
		MarketShare:  share,
		SharePrice:   price,
	}
	next.History = make([]model.RoundRecord, len(state.History), len(state.History)+1)
	copy(next.History, state.History)
	next.History = append(next.History, record)

	return &RoundOutcome{
		State:     next,
		Record:    record,
		Next:      Advance(cal),
		Breakdown: b,
	}, nil
}

type namedValue struct {
	name  string
	value float64
}

func checkFinite(values []namedValue) error {
	for _, v := range values {
		if math.IsNaN(v.value) || math.IsInf(v.value, 0) {
			return &DomainError{
				Code:    CodeNonFinite,
				Message: fmt.Sprintf("%s is not finite (%v)", v.name, v.value),
			}
		}
	}
	return nil
}
