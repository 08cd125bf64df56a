// Package leaderboard ranks the team against the fixed competitor roster.
package leaderboard

import (
	"sort"

	"HotelSim/internal/model"
)

// Standing is one ranked leaderboard row.
type Standing struct {
	Rank int `json:"rank"`
	model.Competitor
	IsTeam bool `json:"is_team"`
}

var roster = []model.Competitor{
	{Name: "Team 1", MarketShare: 12.5, Satisfaction: 75},
	{Name: "Team 2", MarketShare: 14.2, Satisfaction: 78},
	{Name: "Team 3", MarketShare: 11.8, Satisfaction: 72},
	{Name: "Team 4", MarketShare: 13.1, Satisfaction: 76},
}

// DefaultRoster returns a copy of the static competitor roster.
func DefaultRoster() []model.Competitor {
	out := make([]model.Competitor, len(roster))
	copy(out, roster)
	return out
}

// TeamEntry builds the team's public standing from its resolved state.
func TeamEntry(name string, s model.HotelState) model.Competitor {
	return model.Competitor{
		Name:         name,
		MarketShare:  s.MarketShare,
		Satisfaction: s.CustomerSatisfaction,
	}
}

// Rank orders roster plus team by market share, highest first.
// The team is placed after the roster before sorting, and ties keep input order.
func Rank(team model.Competitor, roster []model.Competitor) []Standing {
	out := make([]Standing, 0, len(roster)+1)
	for _, c := range roster {
		out = append(out, Standing{Competitor: c})
	}
	out = append(out, Standing{Competitor: team, IsTeam: true})

	sort.SliceStable(out, func(i, j int) bool {
		return out[i].MarketShare > out[j].MarketShare
	})
	for i := range out {
		out[i].Rank = i + 1
	}
	return out
}
