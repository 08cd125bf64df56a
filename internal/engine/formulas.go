package engine

import (
	"math"

	"HotelSim/internal/model"
)

const (
	advanceSalesRatio   = 0.4
	walkInBaseShare     = 0.5
	advanceRateDiscount = 0.8
	advanceDemandScale  = 5000.0

	tempStaffMonthly = 1800.0
	monthsPerSeason  = 6.0
	costPerNight     = 25.0
	adminBaseCost    = 30000.0
	loanInterestRate = 0.03
	roomBatchSize    = 5
	roomBatchCost    = 150000.0

	epsNormalization = 100000.0
	shareInertia     = 0.7
	shareMomentum    = 0.3
	priceInertia     = 0.8
	conditionDecay   = 5.0
	competenceRetain = 0.95

	satisfactionFloor = 40.0
	satisfactionCeil  = 100.0
	marketShareFloor  = 8.0
	marketShareCeil   = 20.0
	sharePriceFloor   = 5.0
	conditionFloor    = 40.0
	competenceCeil    = 100.0
)

// Breakdown holds the intermediate quantities of one resolution.
type Breakdown struct {
	TotalCapacity   float64 `json:"total_capacity"`
	AdvanceSales    float64 `json:"advance_sales"`
	WalkInSales     float64 `json:"walk_in_sales"`
	NightsSold      float64 `json:"nights_sold"`
	AvgAdvanceRate  float64 `json:"avg_advance_rate"`
	StaffCost       float64 `json:"staff_cost"`
	OperatingCost   float64 `json:"operating_cost"`
	AdminCost       float64 `json:"admin_cost"`
	Competitiveness float64 `json:"competitiveness"`
	EPS             float64 `json:"eps"`
	Investments     float64 `json:"investments"`
}

// salesVolume computes capacity and nights sold. Demand above capacity is lost.
func salesVolume(s *model.HotelState, d *model.Decisions, b *Breakdown) {
	b.TotalCapacity = float64(s.Rooms * model.NightsPerSeason)
	b.AdvanceSales = float64(d.Advance1Rooms+d.Advance2Rooms) * advanceSalesRatio
	b.WalkInSales = b.TotalCapacity * walkInBaseShare * (1 - d.WalkInRate/200)
	b.NightsSold = math.Min(b.AdvanceSales+b.WalkInSales, b.TotalCapacity)
}

// revenue prices advance nights at a discount that deepens with +1 period volume.
func revenue(d *model.Decisions, b *Breakdown) float64 {
	b.AvgAdvanceRate = d.WalkInRate * advanceRateDiscount * (1 - float64(d.Advance1Rooms)/advanceDemandScale)
	return b.AdvanceSales*b.AvgAdvanceRate + b.WalkInSales*d.WalkInRate
}

// costs uses the current permanent headcount with the new salary and temp staff.
func costs(s *model.HotelState, d *model.Decisions, b *Breakdown) float64 {
	b.StaffCost = (float64(s.PermanentStaff)*d.StaffSalary + float64(d.TemporaryStaff)*tempStaffMonthly) * monthsPerSeason
	b.OperatingCost = b.NightsSold * costPerNight * (1 - d.CostSavingOperations/100)
	b.AdminCost = adminBaseCost * (1 - d.CostSavingAdmin/100)
	return b.StaffCost + b.OperatingCost + b.AdminCost +
		d.MarketingBudget + d.MaintenanceBudget + d.TrainingBudget +
		s.LongTermLoan*loanInterestRate
}

// customerSatisfaction rewards condition, competence and marketing; high rates hurt.
func customerSatisfaction(s *model.HotelState, d *model.Decisions) float64 {
	return clamp(60+
		(s.RoomCondition-70)*0.3+
		(s.StaffCompetence-60)*0.2+
		(d.MarketingBudget/500)*0.1-
		(d.WalkInRate-100)*0.15,
		satisfactionFloor, satisfactionCeil)
}

// employeeSatisfaction falls as nights per staff member rise above 100.
// Caller guarantees staff > 0.
func employeeSatisfaction(d *model.Decisions, b *Breakdown, staff int) float64 {
	return clamp(60+
		(d.StaffSalary-2000)/50+
		(d.TrainingBudget/500)-
		(b.NightsSold/float64(staff)-100)/10,
		satisfactionFloor, satisfactionCeil)
}

// marketShare keeps 70% of the prior share and moves 30% toward competitiveness.
func marketShare(s *model.HotelState, customer, employee float64, b *Breakdown) float64 {
	b.Competitiveness = (customer + employee) / 2
	return clamp(s.MarketShare*shareInertia+(b.Competitiveness/10)*shareMomentum,
		marketShareFloor, marketShareCeil)
}

// sharePrice keeps 80% of the prior price and adds 15 per unit of EPS.
func sharePrice(s *model.HotelState, netProfit float64, b *Breakdown) float64 {
	b.EPS = netProfit / epsNormalization
	return math.Max(sharePriceFloor, s.SharePrice*priceInertia+b.EPS*15)
}

// roomCondition decays 5 points a season unless offset by spend. No upper clamp.
func roomCondition(s *model.HotelState, d *model.Decisions) float64 {
	return math.Max(conditionFloor,
		s.RoomCondition-conditionDecay+
			(d.MaintenanceBudget/1000)+
			(d.RenovationBudget/float64(s.Rooms)/1000))
}

// staffCompetence decays 5% a season; training adds back. No lower clamp.
func staffCompetence(s *model.HotelState, d *model.Decisions) float64 {
	return math.Min(competenceCeil, s.StaffCompetence*competenceRetain+(d.TrainingBudget/1000))
}

// cashFlow applies profit, capital spend, dividends and loan movement.
func cashFlow(s *model.HotelState, d *model.Decisions, netProfit float64, b *Breakdown) float64 {
	b.Investments = float64(d.NewRoomBatches)*roomBatchCost + d.RenovationBudget
	return s.Cash + netProfit - b.Investments - d.DividendPayout + d.LoanChange
}

func clamp(v, lo, hi float64) float64 {
	return math.Min(hi, math.Max(lo, v))
}
