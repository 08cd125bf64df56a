package model

// Decisions is the full decision sheet a team submits for one season.
type Decisions struct {
	// Sales & pricing
	WalkInRate    float64 `json:"walk_in_rate" yaml:"walk_in_rate"`
	Advance1Rooms int     `json:"advance_1_rooms" yaml:"advance_1_rooms"`
	Advance2Rooms int     `json:"advance_2_rooms" yaml:"advance_2_rooms"`

	// Personnel
	PermanentStaffChange int     `json:"permanent_staff_change" yaml:"permanent_staff_change"`
	TemporaryStaff       int     `json:"temporary_staff" yaml:"temporary_staff"`
	StaffSalary          float64 `json:"staff_salary" yaml:"staff_salary"`
	TrainingBudget       float64 `json:"training_budget" yaml:"training_budget"`

	// Facilities & investments
	NewRoomBatches    int     `json:"new_room_batches" yaml:"new_room_batches"`
	RenovationBudget  float64 `json:"renovation_budget" yaml:"renovation_budget"`
	MaintenanceBudget float64 `json:"maintenance_budget" yaml:"maintenance_budget"`

	// Marketing & operations
	MarketingBudget      float64 `json:"marketing_budget" yaml:"marketing_budget"`
	CostSavingOperations float64 `json:"cost_saving_operations" yaml:"cost_saving_operations"` // percent
	CostSavingAdmin      float64 `json:"cost_saving_admin" yaml:"cost_saving_admin"`           // percent

	// Financial
	LoanChange     float64 `json:"loan_change" yaml:"loan_change"`
	CreditTerm     int     `json:"credit_term" yaml:"credit_term"` // days; not used by the model yet
	DividendPayout float64 `json:"dividend_payout" yaml:"dividend_payout"`
}

// DefaultDecisions is the sheet a new game starts with.
func DefaultDecisions() Decisions {
	return Decisions{
		WalkInRate:        120,
		Advance1Rooms:     1000,
		Advance2Rooms:     800,
		TemporaryStaff:    5,
		StaffSalary:       2500,
		TrainingBudget:    5000,
		MaintenanceBudget: 8000,
		MarketingBudget:   10000,
		CreditTerm:        30,
	}
}
