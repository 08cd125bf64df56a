package session

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/sirupsen/logrus"

	"HotelSim/internal/decision"
	"HotelSim/internal/engine"
	"HotelSim/internal/leaderboard"
	"HotelSim/internal/model"
)

// Resolution is what one successful ResolveRound produced.
type Resolution struct {
	Team       string
	Generation int
	Calendar   model.Calendar // calendar the round was played in
	Decisions  model.Decisions
	Outcome    *engine.RoundOutcome
}

// Manager owns one team's session with concurrency safety.
type Manager struct {
	mu    sync.Mutex
	game  *Game
	store Store
}

// NewManager loads the team's session from store, initializing and saving a fresh one
// when none exists.
func NewManager(ctx context.Context, store Store, team string) (*Manager, error) {
	g, err := store.Load(ctx, team)
	switch {
	case errors.Is(err, ErrNotFound):
		g, err = NewGame(team)
		if err != nil {
			return nil, err
		}
		if err := store.Save(ctx, g); err != nil {
			return nil, err
		}
		logrus.Infof("started new session for %s", g.Team)
	case err != nil:
		return nil, fmt.Errorf("load session: %w", err)
	case g.Team != strings.TrimSpace(team):
		return nil, fmt.Errorf("load session for %q: %w (%q)", team, ErrTeamMismatch, g.Team)
	default:
		if g.State.History == nil {
			g.State.History = []model.RoundRecord{}
		}
		logrus.Infof("resumed session for %s at round %d %s", g.Team, g.Calendar.Round, g.Calendar.Season)
	}
	return &Manager{game: g, store: store}, nil
}

// Snapshot returns a deep copy of the current session.
func (m *Manager) Snapshot() *Game {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.game.Clone()
}

// Decisions returns the current decision sheet.
func (m *Manager) Decisions() model.Decisions {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.game.Decisions
}

// SubmitDecisions validates d and makes it the sheet used for the next round.
func (m *Manager) SubmitDecisions(ctx context.Context, d model.Decisions) error {
	if err := decision.Validate(d); err != nil {
		return err
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	next := m.game.Clone()
	next.Decisions = d
	next.UpdatedAt = time.Now()
	if err := m.store.Save(ctx, next); err != nil {
		return err
	}
	m.game = next
	return nil
}

// ResolveRound plays the current sheet against the current state. The session only
// changes once the new state has been persisted.
func (m *Manager) ResolveRound(ctx context.Context) (*Resolution, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	d := m.game.Decisions
	if err := decision.Validate(d); err != nil {
		return nil, err
	}

	cal := m.game.Calendar
	out, err := engine.Resolve(m.game.State, cal, d)
	if err != nil {
		return nil, err
	}

	next := m.game.Clone()
	next.State = out.State.Clone()
	next.Calendar = out.Next
	next.UpdatedAt = time.Now()
	if err := m.store.Save(ctx, next); err != nil {
		return nil, err
	}
	m.game = next

	logrus.Infof("resolved round %d %s for %s: profit=%.0f share=%.2f%%",
		cal.Round, cal.Season, next.Team, out.State.NetProfit, out.State.MarketShare)

	return &Resolution{
		Team:       next.Team,
		Generation: next.Generation,
		Calendar:   cal,
		Decisions:  d,
		Outcome:    out,
	}, nil
}

// Reset restarts the session from the initial constants and default sheet as
// the next generation of the team's game.
func (m *Manager) Reset(ctx context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	g, err := NewGame(m.game.Team)
	if err != nil {
		return err
	}
	g.CreatedAt = m.game.CreatedAt
	g.Generation = m.game.Generation + 1
	if err := m.store.Save(ctx, g); err != nil {
		return err
	}
	m.game = g
	logrus.Infof("session for %s reset to generation %d", g.Team, g.Generation)
	return nil
}

// Standings ranks the team against roster by market share.
func (m *Manager) Standings(roster []model.Competitor) []leaderboard.Standing {
	m.mu.Lock()
	defer m.mu.Unlock()
	return leaderboard.Rank(leaderboard.TeamEntry(m.game.Team, m.game.State), roster)
}
