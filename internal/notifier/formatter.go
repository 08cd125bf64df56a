package notifier

import (
	"fmt"
	"html"
	"strings"
	"unicode/utf8"

	"HotelSim/internal/calculator"
	"HotelSim/internal/decision"
	"HotelSim/internal/engine"
	"HotelSim/internal/leaderboard"
	"HotelSim/internal/model"
	"HotelSim/internal/recorder"
	"HotelSim/internal/session"
)

const (
	// trendWindow is the number of seasons averaged in the history report.
	trendWindow = 3
	// historyRows caps the per-season lines of the history and archive reports.
	historyRows = 24
	// MessageLimit is the longest text Telegram's sendMessage accepts.
	MessageLimit = 4096
)

// clip cuts text to MessageLimit bytes on a line break, or on a rune
// boundary when no line break is near.
func clip(text string) string {
	if len(text) <= MessageLimit {
		return text
	}
	const tail = "\n…"
	cut := MessageLimit - len(tail)
	for cut > 0 && !utf8.RuneStart(text[cut]) {
		cut--
	}
	if nl := strings.LastIndexByte(text[:cut], '\n'); nl > cut/2 {
		cut = nl
	}
	return text[:cut] + tail
}

func thousands(v float64) string {
	return fmt.Sprintf("$%.0fk", v/1000)
}

// FormatRoundReport formats one resolved season. cal is the calendar the season was played in.
func FormatRoundReport(team string, cal model.Calendar, out *engine.RoundOutcome) string {
	st := out.State
	bd := out.Breakdown
	var b strings.Builder

	b.WriteString(fmt.Sprintf("📊 <b>%s | Round %d Results</b>\n", html.EscapeString(team), cal.Round))
	b.WriteString(fmt.Sprintf("%s Season Performance\n\n", cal.Season))

	b.WriteString("💰 <b>Financial Performance</b>\n")
	b.WriteString(fmt.Sprintf("  Total Revenue: %s\n", thousands(st.TotalRevenue)))
	b.WriteString(fmt.Sprintf("  Total Costs: %s\n", thousands(st.TotalCosts)))
	b.WriteString(fmt.Sprintf("  Net Profit: %s\n", thousands(st.NetProfit)))
	b.WriteString(fmt.Sprintf("  Share Price: $%.2f\n\n", st.SharePrice))

	b.WriteString("📈 <b>Operational Performance</b>\n")
	b.WriteString(fmt.Sprintf("  Occupancy Rate: %.1f%%\n", st.OccupancyRate))
	b.WriteString(fmt.Sprintf("  Customer Satisfaction: %.0f%%\n", st.CustomerSatisfaction))
	b.WriteString(fmt.Sprintf("  Employee Satisfaction: %.0f%%\n", st.EmployeeSatisfaction))
	b.WriteString(fmt.Sprintf("  Market Share: %.1f%%\n\n", st.MarketShare))

	// Outcomes rebuilt from stored state carry no breakdown.
	if bd.TotalCapacity > 0 {
		b.WriteString("🧾 <b>Breakdown</b>\n")
		b.WriteString(fmt.Sprintf("  Nights sold: %.0f / %.0f (advance %.0f, walk-in %.0f)\n",
			bd.NightsSold, bd.TotalCapacity, bd.AdvanceSales, bd.WalkInSales))
		b.WriteString(fmt.Sprintf("  Staff %s | Operating %s | Admin %s\n",
			thousands(bd.StaffCost), thousands(bd.OperatingCost), thousands(bd.AdminCost)))
		if bd.Investments > 0 {
			b.WriteString(fmt.Sprintf("  Investments: %s\n", thousands(bd.Investments)))
		}
	}
	b.WriteString(fmt.Sprintf("  Cash after season: %s\n", thousands(st.Cash)))

	b.WriteString(fmt.Sprintf("\n⏭ Next: Round %d, %s\n", out.Next.Round, out.Next.Season))
	return b.String()
}

// FormatDashboard formats the current position of a session.
func FormatDashboard(g *session.Game) string {
	st := g.State
	var b strings.Builder

	b.WriteString(fmt.Sprintf("🏨 <b>%s</b>\n", html.EscapeString(g.Team)))
	b.WriteString(fmt.Sprintf("Round %d - %s Season\n\n", g.Calendar.Round, g.Calendar.Season))

	b.WriteString(fmt.Sprintf("💰 Cash: %s | 📈 Share Price: $%.2f\n", thousands(st.Cash), st.SharePrice))
	b.WriteString(fmt.Sprintf("🏨 Occupancy: %.1f%% | 😊 Satisfaction: %.0f%%\n", st.OccupancyRate, st.CustomerSatisfaction))
	b.WriteString(fmt.Sprintf("💵 Net Profit: %s | 🛏 Rooms: %d\n\n", thousands(st.NetProfit), st.Rooms))

	b.WriteString("🏢 <b>Facilities</b>\n")
	b.WriteString(fmt.Sprintf("  Total Rooms: %d\n", st.Rooms))
	b.WriteString(fmt.Sprintf("  Condition: %.0f%%\n", st.RoomCondition))
	b.WriteString(fmt.Sprintf("  Capacity/Season: %d nights\n\n", st.SeasonCapacity()))

	b.WriteString("👥 <b>Personnel</b>\n")
	b.WriteString(fmt.Sprintf("  Permanent Staff: %d\n", st.PermanentStaff))
	b.WriteString(fmt.Sprintf("  Temporary Staff: %d\n", st.TemporaryStaff))
	b.WriteString(fmt.Sprintf("  Competence: %.0f%%\n\n", st.StaffCompetence))

	b.WriteString("💰 <b>Financial</b>\n")
	b.WriteString(fmt.Sprintf("  Cash: %s\n", thousands(st.Cash)))
	b.WriteString(fmt.Sprintf("  Long-term Loan: %s\n", thousands(st.LongTermLoan)))
	b.WriteString(fmt.Sprintf("  Market Share: %.1f%%\n", st.MarketShare))
	return b.String()
}

// FormatLeaderboard formats ranked standings, marking the team's own row.
func FormatLeaderboard(standings []leaderboard.Standing) string {
	var b strings.Builder
	b.WriteString("🏆 <b>Leaderboard</b>\n\n")
	for _, s := range standings {
		marker := ""
		if s.IsTeam {
			marker = " ⬅"
		}
		b.WriteString(fmt.Sprintf("%d. %s  %.1f%% share | %.0f%% satisfaction%s\n",
			s.Rank, html.EscapeString(s.Name), s.MarketShare, s.Satisfaction, marker))
	}
	return b.String()
}

// FormatHistory lists the latest resolved seasons with trend figures taken
// over the whole history.
func FormatHistory(history []model.RoundRecord) string {
	if len(history) == 0 {
		return "📜 No rounds played yet."
	}

	var b strings.Builder
	b.WriteString("📜 <b>Historical Performance</b>\n\n")
	shown := history
	if len(shown) > historyRows {
		shown = shown[len(shown)-historyRows:]
		b.WriteString(fmt.Sprintf("… %d earlier seasons omitted\n", len(history)-historyRows))
	}
	for _, r := range shown {
		b.WriteString(fmt.Sprintf("R%d %-6s rev %s | profit %s | occ %.1f%% | share %.1f%% | $%.2f\n",
			r.Round, r.Season, thousands(r.Revenue), thousands(r.Profit), r.Occupancy, r.MarketShare, r.SharePrice))
	}

	revenue, _ := calculator.Extract(history, calculator.Revenue)
	profit, _ := calculator.Extract(history, calculator.Profit)
	share, _ := calculator.Extract(history, calculator.MarketShare)

	b.WriteString("\n📈 <b>Trend</b>\n")
	if avg, err := calculator.MovingAverage(revenue, trendWindow); err == nil {
		b.WriteString(fmt.Sprintf("  Revenue %d-season avg: %s\n", trendWindow, thousands(avg)))
	}
	if avg, err := calculator.MovingAverage(profit, trendWindow); err == nil {
		b.WriteString(fmt.Sprintf("  Profit %d-season avg: %s\n", trendWindow, thousands(avg)))
	}
	if high, low, err := calculator.Extremes(profit); err == nil {
		b.WriteString(fmt.Sprintf("  Profit best/worst: %s / %s\n", thousands(high), thousands(low)))
	}
	if high, low, err := calculator.Extremes(share); err == nil {
		pos, _ := calculator.Position(share[len(share)-1], high, low)
		b.WriteString(fmt.Sprintf("  Market share range: %.1f%% - %.1f%% (now at %.0f%% of range)\n", low, high, pos*100))
	}
	if delta, err := calculator.Change(share); err == nil {
		b.WriteString(fmt.Sprintf("  Market share change: %+.2f pts\n", delta))
	}
	return clip(b.String())
}

type archivedGame struct {
	generation  int
	first, last recorder.RoundRow
	seasons     int
	profit      []float64
}

// FormatArchive summarizes every recorded game of a team, one line per
// generation. current marks the game in play.
func FormatArchive(rows []recorder.RoundRow, current int) string {
	if len(rows) == 0 {
		return "🗄 No rounds recorded yet."
	}

	var games []*archivedGame
	for _, r := range rows {
		if len(games) == 0 || games[len(games)-1].generation != r.Generation {
			games = append(games, &archivedGame{generation: r.Generation, first: r})
		}
		g := games[len(games)-1]
		g.last = r
		g.seasons++
		g.profit = append(g.profit, r.Profit)
	}

	var b strings.Builder
	b.WriteString("🗄 <b>Game Archive</b>\n\n")
	if len(games) > historyRows {
		b.WriteString(fmt.Sprintf("… %d earlier games omitted\n", len(games)-historyRows))
		games = games[len(games)-historyRows:]
	}
	for _, g := range games {
		marker := ""
		if g.generation == current {
			marker = " ⬅"
		}
		total := 0.0
		for _, p := range g.profit {
			total += p
		}
		best, _, _ := calculator.Extremes(g.profit)
		b.WriteString(fmt.Sprintf("Game %d: %d seasons, R%d %s - R%d %s | profit %s (best %s) | cash %s | $%.2f%s\n",
			g.generation, g.seasons, g.first.Round, g.first.Season, g.last.Round, g.last.Season,
			thousands(total), thousands(best), thousands(g.last.Cash), g.last.SharePrice, marker))
	}
	return clip(b.String())
}

// FormatDecisions lists the decision sheet next to each field's allowed range.
func FormatDecisions(d model.Decisions) string {
	values := decision.Values(d)
	var b strings.Builder
	b.WriteString("⚙️ <b>Decision Sheet</b>\n\n")
	for i, r := range decision.Ranges() {
		b.WriteString(fmt.Sprintf("  %s: %g  [%g, %g]\n", r.Field, values[i], r.Min, r.Max))
	}
	return b.String()
}

// FormatError formats a failure for the chat.
func FormatError(action string, err error) string {
	return fmt.Sprintf("⚠️ %s failed: %s", action, html.EscapeString(err.Error()))
}
