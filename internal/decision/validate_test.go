package decision

import (
	"errors"
	"math"
	"strings"
	"testing"

	"HotelSim/internal/model"
)

func TestValidate_DefaultSheet(t *testing.T) {
	if err := Validate(model.DefaultDecisions()); err != nil {
		t.Fatalf("default sheet should be valid, got %v", err)
	}
}

func TestValidate_Boundaries(t *testing.T) {
	lo := model.Decisions{
		WalkInRate: 50, PermanentStaffChange: -10, StaffSalary: 1500, LoanChange: -200000,
	}
	if err := Validate(lo); err != nil {
		t.Errorf("lower bounds should be valid, got %v", err)
	}
	hi := model.Decisions{
		WalkInRate: 300, Advance1Rooms: 5000, Advance2Rooms: 5000, PermanentStaffChange: 10,
		TemporaryStaff: 50, StaffSalary: 5000, TrainingBudget: 20000, NewRoomBatches: 10,
		RenovationBudget: 100000, MaintenanceBudget: 50000, MarketingBudget: 50000,
		CostSavingOperations: 30, CostSavingAdmin: 30, LoanChange: 200000, CreditTerm: 90,
		DividendPayout: 100000,
	}
	if err := Validate(hi); err != nil {
		t.Errorf("upper bounds should be valid, got %v", err)
	}
}

func TestValidate_EachField(t *testing.T) {
	tests := []struct {
		field string
		edit  func(*model.Decisions)
	}{
		{"walk_in_rate", func(d *model.Decisions) { d.WalkInRate = 49 }},
		{"walk_in_rate", func(d *model.Decisions) { d.WalkInRate = 301 }},
		{"advance_1_rooms", func(d *model.Decisions) { d.Advance1Rooms = 5001 }},
		{"advance_2_rooms", func(d *model.Decisions) { d.Advance2Rooms = -1 }},
		{"permanent_staff_change", func(d *model.Decisions) { d.PermanentStaffChange = -11 }},
		{"temporary_staff", func(d *model.Decisions) { d.TemporaryStaff = 51 }},
		{"staff_salary", func(d *model.Decisions) { d.StaffSalary = 1499 }},
		{"training_budget", func(d *model.Decisions) { d.TrainingBudget = 20001 }},
		{"new_room_batches", func(d *model.Decisions) { d.NewRoomBatches = 11 }},
		{"renovation_budget", func(d *model.Decisions) { d.RenovationBudget = -5 }},
		{"maintenance_budget", func(d *model.Decisions) { d.MaintenanceBudget = 50001 }},
		{"marketing_budget", func(d *model.Decisions) { d.MarketingBudget = 60000 }},
		{"cost_saving_operations", func(d *model.Decisions) { d.CostSavingOperations = 31 }},
		{"cost_saving_admin", func(d *model.Decisions) { d.CostSavingAdmin = -1 }},
		{"loan_change", func(d *model.Decisions) { d.LoanChange = 210000 }},
		{"credit_term", func(d *model.Decisions) { d.CreditTerm = 91 }},
		{"dividend_payout", func(d *model.Decisions) { d.DividendPayout = 100001 }},
		{"walk_in_rate", func(d *model.Decisions) { d.WalkInRate = math.NaN() }},
	}
	for _, tt := range tests {
		d := model.DefaultDecisions()
		tt.edit(&d)
		err := Validate(d)
		var ide *InvalidDecisionError
		if !errors.As(err, &ide) {
			t.Errorf("%s: expected InvalidDecisionError, got %v", tt.field, err)
			continue
		}
		if len(ide.Violations) != 1 || ide.Violations[0].Field != tt.field {
			t.Errorf("%s: violations = %+v", tt.field, ide.Violations)
		}
	}
}

func TestValidate_CollectsAll(t *testing.T) {
	d := model.DefaultDecisions()
	d.WalkInRate = 10
	d.TemporaryStaff = 99
	d.DividendPayout = -1

	err := Validate(d)
	var ide *InvalidDecisionError
	if !errors.As(err, &ide) {
		t.Fatalf("expected InvalidDecisionError, got %v", err)
	}
	if len(ide.Violations) != 3 {
		t.Fatalf("expected 3 violations, got %d: %v", len(ide.Violations), err)
	}
	msg := err.Error()
	for _, want := range []string{"walk_in_rate=10", "temporary_staff=99", "dividend_payout=-1", "; "} {
		if !strings.Contains(msg, want) {
			t.Errorf("error %q missing %q", msg, want)
		}
	}
}

func TestRanges_ReturnsCopy(t *testing.T) {
	r := Ranges()
	if len(r) != 16 {
		t.Fatalf("expected 16 ranges, got %d", len(r))
	}
	r[0].Max = 1
	if Ranges()[0].Max != 300 {
		t.Error("Ranges() exposed internal table")
	}
}

func TestValues_MatchesRanges(t *testing.T) {
	values := Values(model.DefaultDecisions())
	if len(values) != len(Ranges()) {
		t.Fatalf("len(Values) = %d, len(Ranges) = %d", len(values), len(Ranges()))
	}
	want := map[int]float64{0: 120, 1: 1000, 2: 800, 4: 5, 5: 2500, 14: 30}
	for i, v := range want {
		if values[i] != v {
			t.Errorf("Values[%d] (%s) = %v, expected %v", i, Ranges()[i].Field, values[i], v)
		}
	}
}
