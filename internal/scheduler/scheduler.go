package scheduler

import (
	"context"
	"errors"
	"fmt"
	"html"
	"os"
	"strings"
	"sync"

	"github.com/robfig/cron/v3"
	"github.com/sirupsen/logrus"

	"HotelSim/internal/decision"
	"HotelSim/internal/engine"
	"HotelSim/internal/leaderboard"
	"HotelSim/internal/metrics"
	"HotelSim/internal/model"
	"HotelSim/internal/notifier"
	"HotelSim/internal/recorder"
	"HotelSim/internal/session"
)

// retrySender is implemented by notifiers that can retry on their own.
type retrySender interface {
	SendWithRetry(ctx context.Context, text string, maxRetries int) error
}

// Scheduler resolves seasons on a cron schedule and serves chat commands.
type Scheduler struct {
	Cron     *cron.Cron
	Session  *session.Manager
	Notifier notifier.Notifier
	Recorder recorder.Recorder
	Metrics  *metrics.Collectors // optional
	Ctx      context.Context

	// DecisionsFile, when set, is re-read before every season.
	DecisionsFile string
	Roster        []model.Competitor
	MaxRetries    int

	mu   sync.Mutex
	last *session.Resolution
}

// NewScheduler creates a new Scheduler.
func NewScheduler(ctx context.Context, sm *session.Manager, n notifier.Notifier, rec recorder.Recorder, mc *metrics.Collectors) *Scheduler {
	s := &Scheduler{
		Cron:       cron.New(cron.WithSeconds()),
		Session:    sm,
		Notifier:   n,
		Recorder:   rec,
		Metrics:    mc,
		Ctx:        ctx,
		Roster:     leaderboard.DefaultRoster(),
		MaxRetries: 3,
	}
	if mc != nil {
		mc.SetState(sm.Snapshot().State)
	}
	return s
}

// RegisterAll registers the season task.
func (s *Scheduler) RegisterAll(seasonCron string) error {
	if _, err := s.Cron.AddFunc(seasonCron, s.seasonTask); err != nil {
		return fmt.Errorf("register season task: %w", err)
	}
	return nil
}

// Start starts the cron scheduler.
func (s *Scheduler) Start() {
	s.Cron.Start()
	logrus.Info("scheduler started")
}

// Stop stops the cron scheduler and waits for a running task to finish.
func (s *Scheduler) Stop() {
	<-s.Cron.Stop().Done()
	logrus.Info("scheduler stopped")
}

// RunSeasonNow executes the season task immediately (for manual trigger / RUN_ON_START).
func (s *Scheduler) RunSeasonNow() {
	s.seasonTask()
}

func (s *Scheduler) seasonTask() {
	logrus.Info("running season task")

	if err := s.reloadDecisions(); err != nil {
		logrus.Errorf("reload decisions: %v", err)
		s.observeError(err)
		s.trySend(notifier.FormatError("Loading the decision sheet", err))
		return
	}

	res, err := s.Session.ResolveRound(s.Ctx)
	if err != nil {
		logrus.Errorf("resolve round: %v", err)
		s.observeError(err)
		s.trySend(notifier.FormatError("Resolving the round", err))
		return
	}

	s.mu.Lock()
	s.last = res
	s.mu.Unlock()

	if err := s.Recorder.RecordRound(&recorder.RoundSnapshot{
		Team:       res.Team,
		Generation: res.Generation,
		Calendar:   res.Calendar,
		Decisions:  res.Decisions,
		Outcome:    res.Outcome,
	}); err != nil {
		logrus.Errorf("record round: %v", err)
	}
	if s.Metrics != nil {
		s.Metrics.ObserveRound(res.Calendar.Season, res.Outcome.State)
	}

	s.trySend(notifier.FormatRoundReport(res.Team, res.Calendar, res.Outcome))
}

// reloadDecisions applies the decision sheet file on top of the current sheet.
// A missing file keeps the current sheet.
func (s *Scheduler) reloadDecisions() error {
	if s.DecisionsFile == "" {
		return nil
	}
	d, err := decision.Load(s.DecisionsFile, s.Session.Decisions())
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			logrus.Warnf("decisions file %s not found, keeping current sheet", s.DecisionsFile)
			return nil
		}
		return err
	}
	if d == s.Session.Decisions() {
		return nil
	}
	if err := s.Session.SubmitDecisions(s.Ctx, d); err != nil {
		return err
	}
	logrus.Infof("decision sheet reloaded from %s", s.DecisionsFile)
	return nil
}

func (s *Scheduler) observeError(err error) {
	if s.Metrics != nil {
		s.Metrics.ObserveError(err)
	}
}

const helpText = `Available commands:
• /status - hotel dashboard
• /results - last round results
• /leaderboard - market competition
• /history - historical performance
• /archive - every recorded game, including reset ones
• /decisions - current decision sheet
• /set &lt;field&gt; &lt;value&gt; - change one decision
• /resolve - play the next season now
• /reset - restart the game`

// HandleCommand processes a user command and returns a reply.
func (s *Scheduler) HandleCommand(ctx context.Context, command string) string {
	fields := strings.Fields(command)
	if len(fields) == 0 {
		return helpText
	}
	// Group chats append the bot name: /status@hotel_bot
	name, _, _ := strings.Cut(fields[0], "@")

	switch name {
	case "/status":
		return notifier.FormatDashboard(s.Session.Snapshot())
	case "/results":
		return s.results()
	case "/leaderboard":
		return notifier.FormatLeaderboard(s.Session.Standings(s.Roster))
	case "/history":
		return notifier.FormatHistory(s.Session.Snapshot().State.History)
	case "/archive":
		return s.archive()
	case "/decisions":
		return notifier.FormatDecisions(s.Session.Decisions())
	case "/set":
		return s.setDecision(ctx, fields[1:])
	case "/resolve":
		s.seasonTask()
		return ""
	case "/reset":
		return s.reset(ctx)
	default:
		return helpText
	}
}

func (s *Scheduler) results() string {
	s.mu.Lock()
	last := s.last
	s.mu.Unlock()
	if last != nil {
		return notifier.FormatRoundReport(last.Team, last.Calendar, last.Outcome)
	}

	// Nothing resolved since start: rebuild the report from the stored state.
	g := s.Session.Snapshot()
	n := len(g.State.History)
	if n == 0 {
		return "📊 No rounds played yet. Use /resolve to play the first season."
	}
	rec := g.State.History[n-1]
	out := &engine.RoundOutcome{State: g.State, Record: rec, Next: g.Calendar}
	return notifier.FormatRoundReport(g.Team, model.Calendar{Round: rec.Round, Season: rec.Season}, out)
}

func (s *Scheduler) archive() string {
	a, ok := s.Recorder.(recorder.Archive)
	if !ok {
		return "🗄 No round archive configured."
	}
	g := s.Session.Snapshot()
	rows, err := a.ListRounds(g.Team)
	if err != nil {
		logrus.Errorf("list rounds: %v", err)
		return notifier.FormatError("Reading the archive", err)
	}
	return notifier.FormatArchive(rows, g.Generation)
}

func (s *Scheduler) setDecision(ctx context.Context, args []string) string {
	if len(args) != 2 {
		return "Usage: /set &lt;field&gt; &lt;value&gt;, e.g. /set walk_in_rate 150"
	}
	current := s.Session.Decisions()
	d, err := decision.ParseField(args[0], args[1], current)
	if err != nil {
		return notifier.FormatError("Updating the decision sheet", err)
	}
	if d == current {
		return fmt.Sprintf("ℹ️ No change: %s is already %s", html.EscapeString(args[0]), html.EscapeString(args[1]))
	}
	if err := s.Session.SubmitDecisions(ctx, d); err != nil {
		return notifier.FormatError("Updating the decision sheet", err)
	}
	return "✅ Decision sheet updated\n\n" + notifier.FormatDecisions(d)
}

func (s *Scheduler) reset(ctx context.Context) string {
	if err := s.Session.Reset(ctx); err != nil {
		logrus.Errorf("reset session: %v", err)
		return notifier.FormatError("Reset", err)
	}
	s.mu.Lock()
	s.last = nil
	s.mu.Unlock()

	g := s.Session.Snapshot()
	if s.Metrics != nil {
		s.Metrics.SetState(g.State)
	}
	return "🔄 Game reset\n\n" + notifier.FormatDashboard(g)
}

func (s *Scheduler) trySend(text string) {
	var err error
	if rs, ok := s.Notifier.(retrySender); ok {
		err = rs.SendWithRetry(s.Ctx, text, s.MaxRetries)
	} else {
		err = s.Notifier.Send(s.Ctx, text)
	}
	if err != nil {
		logrus.Errorf("send notification: %v", err)
	}
}
