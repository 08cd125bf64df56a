package session

import (
	"errors"
	"strings"
	"time"

	"HotelSim/internal/model"
)

// ErrNotFound is returned by a Store when no session exists for a team.
var ErrNotFound = errors.New("session not found")

// ErrEmptyTeam is returned when a game is started without a team name.
var ErrEmptyTeam = errors.New("team name is required")

// ErrTeamMismatch is returned when the stored session under a team's key
// belongs to a differently spelled team.
var ErrTeamMismatch = errors.New("session belongs to another team")

// Game is everything one team's session owns.
type Game struct {
	Team       string           `json:"team"`
	Calendar   model.Calendar   `json:"calendar"`
	State      model.HotelState `json:"state"`
	Decisions  model.Decisions  `json:"decisions"`
	Generation int              `json:"generation"` // bumped by every reset
	CreatedAt  time.Time        `json:"created_at"`
	UpdatedAt  time.Time        `json:"updated_at"`
}

// NewGame starts a fresh session with the initial state and default sheet.
func NewGame(team string) (*Game, error) {
	team = strings.TrimSpace(team)
	if team == "" {
		return nil, ErrEmptyTeam
	}
	now := time.Now()
	return &Game{
		Team:      team,
		Calendar:  model.NewCalendar(),
		State:     model.NewHotelState(),
		Decisions: model.DefaultDecisions(),
		CreatedAt: now,
		UpdatedAt: now,
	}, nil
}

// Clone returns a deep copy of g.
func (g *Game) Clone() *Game {
	out := *g
	out.State = g.State.Clone()
	return &out
}
