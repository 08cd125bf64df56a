package decision

import (
	"fmt"
	"strings"

	"HotelSim/internal/model"
)

// Range is the inclusive allowed interval of one decision field.
type Range struct {
	Field string
	Min   float64
	Max   float64
	Help  string
}

// Violation is one field outside its range.
type Violation struct {
	Field string
	Value float64
	Min   float64
	Max   float64
}

func (v Violation) String() string {
	return fmt.Sprintf("%s=%g must be in [%g,%g]", v.Field, v.Value, v.Min, v.Max)
}

// InvalidDecisionError lists every out-of-range field of a decision sheet.
type InvalidDecisionError struct {
	Violations []Violation
}

func (e *InvalidDecisionError) Error() string {
	parts := make([]string, len(e.Violations))
	for i, v := range e.Violations {
		parts[i] = v.String()
	}
	return fmt.Sprintf("invalid decisions: %s", strings.Join(parts, "; "))
}

var ranges = []Range{
	{"walk_in_rate", 50, 300, "Price per night for walk-in customers"},
	{"advance_1_rooms", 0, 5000, "Rooms to sell for next period"},
	{"advance_2_rooms", 0, 5000, "Rooms to sell for period +2"},
	{"permanent_staff_change", -10, 10, "+/- staff count"},
	{"temporary_staff", 0, 50, "Number of temporary employees"},
	{"staff_salary", 1500, 5000, "Monthly salary per permanent employee"},
	{"training_budget", 0, 20000, "Budget for staff training"},
	{"new_room_batches", 0, 10, "5 rooms per batch ($150k each)"},
	{"renovation_budget", 0, 100000, "Improve room condition"},
	{"maintenance_budget", 0, 50000, "Prevent deterioration"},
	{"marketing_budget", 0, 50000, "Marketing communications"},
	{"cost_saving_operations", 0, 30, "Reduce operating costs (%)"},
	{"cost_saving_admin", 0, 30, "Reduce admin costs (%)"},
	{"loan_change", -200000, 200000, "Increase (+) or decrease (-) loan, steps of 10000"},
	{"credit_term", 0, 90, "Payment terms for advance sales (days)"},
	{"dividend_payout", 0, 100000, "Dividends to shareholders"},
}

// Ranges returns the allowed range of every decision field, in sheet order.
func Ranges() []Range {
	out := make([]Range, len(ranges))
	copy(out, ranges)
	return out
}

// Values returns the fields of d as numbers, in the same order as Ranges.
func Values(d model.Decisions) []float64 {
	return []float64{
		d.WalkInRate,
		float64(d.Advance1Rooms),
		float64(d.Advance2Rooms),
		float64(d.PermanentStaffChange),
		float64(d.TemporaryStaff),
		d.StaffSalary,
		d.TrainingBudget,
		float64(d.NewRoomBatches),
		d.RenovationBudget,
		d.MaintenanceBudget,
		d.MarketingBudget,
		d.CostSavingOperations,
		d.CostSavingAdmin,
		d.LoanChange,
		float64(d.CreditTerm),
		d.DividendPayout,
	}
}

// Validate checks every field of d against its range.
// It returns *InvalidDecisionError listing all violations, or nil.
func Validate(d model.Decisions) error {
	var vs []Violation
	for i, v := range Values(d) {
		r := ranges[i]
		// NaN fails both comparisons, so test for inclusion.
		if !(v >= r.Min && v <= r.Max) {
			vs = append(vs, Violation{Field: r.Field, Value: v, Min: r.Min, Max: r.Max})
		}
	}
	if len(vs) > 0 {
		return &InvalidDecisionError{Violations: vs}
	}
	return nil
}
