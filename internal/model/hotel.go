package model

// HotelState is the live operating and financial position of one hotel.
type HotelState struct {
	Cash          float64 `json:"cash"`
	Rooms         int     `json:"rooms"`
	RoomCondition float64 `json:"room_condition"`

	PermanentStaff  int     `json:"permanent_staff"`
	TemporaryStaff  int     `json:"temporary_staff"`
	StaffCompetence float64 `json:"staff_competence"`
	StaffSalary     float64 `json:"staff_salary"`

	LongTermLoan float64 `json:"long_term_loan"`

	// Last-round snapshot, overwritten on every resolution.
	TotalRevenue  float64 `json:"total_revenue"`
	TotalCosts    float64 `json:"total_costs"`
	NetProfit     float64 `json:"net_profit"`
	OccupancyRate float64 `json:"occupancy_rate"` // percent

	CustomerSatisfaction float64 `json:"customer_satisfaction"`
	EmployeeSatisfaction float64 `json:"employee_satisfaction"`
	MarketShare          float64 `json:"market_share"` // percent
	SharePrice           float64 `json:"share_price"`

	History []RoundRecord `json:"history"`
}

// NewHotelState returns the state every team starts the game with.
func NewHotelState() HotelState {
	return HotelState{
		Cash:                 500000,
		Rooms:                20,
		RoomCondition:        85,
		PermanentStaff:       15,
		TemporaryStaff:       5,
		StaffCompetence:      70,
		StaffSalary:          2500,
		LongTermLoan:         200000,
		CustomerSatisfaction: 75,
		EmployeeSatisfaction: 70,
		MarketShare:          12.5,
		SharePrice:           10.0,
		History:              []RoundRecord{},
	}
}

// Clone returns a copy that shares no history storage with s.
func (s HotelState) Clone() HotelState {
	out := s
	out.History = make([]RoundRecord, len(s.History))
	copy(out.History, s.History)
	return out
}

// SeasonCapacity is the number of room-nights available in one season.
func (s HotelState) SeasonCapacity() int {
	return s.Rooms * NightsPerSeason
}
