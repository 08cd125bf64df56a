package scheduler

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"

	"HotelSim/internal/metrics"
	"HotelSim/internal/model"
	"HotelSim/internal/recorder"
	"HotelSim/internal/session"
)

// captureNotifier records every message it is asked to send.
type captureNotifier struct {
	mu   sync.Mutex
	msgs []string
}

func (c *captureNotifier) Send(_ context.Context, text string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.msgs = append(c.msgs, text)
	return nil
}

func (c *captureNotifier) last() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	if len(c.msgs) == 0 {
		return ""
	}
	return c.msgs[len(c.msgs)-1]
}

type fixture struct {
	sched   *Scheduler
	notes   *captureNotifier
	rec     *recorder.SQLiteRecorder
	metrics *metrics.Collectors
	store   *session.FileStore
	dir     string
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	dir := t.TempDir()
	ctx := context.Background()

	store, err := session.NewFileStore(filepath.Join(dir, "sessions"))
	if err != nil {
		t.Fatal(err)
	}
	sm, err := session.NewManager(ctx, store, "Alpha")
	if err != nil {
		t.Fatal(err)
	}
	rec, err := recorder.NewSQLiteRecorder(filepath.Join(dir, "hotelsim.db"))
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { rec.Close() })

	mc := metrics.NewCollectors(prometheus.NewRegistry())
	notes := &captureNotifier{}
	return &fixture{
		sched:   NewScheduler(ctx, sm, notes, rec, mc),
		notes:   notes,
		rec:     rec,
		metrics: mc,
		store:   store,
		dir:     dir,
	}
}

func TestNewScheduler_SetsGauges(t *testing.T) {
	f := newFixture(t)
	if got := testutil.ToFloat64(f.metrics.Cash); got != 500000 {
		t.Errorf("cash gauge = %v, expected 500000", got)
	}
}

func TestRunSeasonNow(t *testing.T) {
	f := newFixture(t)
	f.sched.RunSeasonNow()

	msg := f.notes.last()
	if !strings.Contains(msg, "Round 0 Results") || !strings.Contains(msg, "Summer Season Performance") {
		t.Errorf("report = %q", msg)
	}

	rows, err := f.rec.ListRounds("Alpha")
	if err != nil {
		t.Fatal(err)
	}
	if len(rows) != 1 || rows[0].Season != model.Summer || rows[0].Revenue != 141696 {
		t.Errorf("recorded rows = %+v", rows)
	}

	if got := testutil.ToFloat64(f.metrics.RoundsResolved.WithLabelValues("Summer")); got != 1 {
		t.Errorf("rounds resolved = %v, expected 1", got)
	}
	if got := testutil.ToFloat64(f.metrics.Cash); got != 267696 {
		t.Errorf("cash gauge = %v, expected 267696", got)
	}

	snap := f.sched.Session.Snapshot()
	if snap.Calendar != (model.Calendar{Round: 0, Season: model.Winter}) {
		t.Errorf("calendar = %+v", snap.Calendar)
	}
}

func TestSeasonTask_ReloadsDecisionsFile(t *testing.T) {
	f := newFixture(t)
	path := filepath.Join(f.dir, "decisions.yaml")
	if err := os.WriteFile(path, []byte("marketing_budget: 20000\nnew_room_batches: 1\n"), 0644); err != nil {
		t.Fatal(err)
	}
	f.sched.DecisionsFile = path
	f.sched.RunSeasonNow()

	d := f.sched.Session.Decisions()
	if d.MarketingBudget != 20000 || d.NewRoomBatches != 1 {
		t.Errorf("decisions = %+v", d)
	}
	if d.WalkInRate != 120 {
		t.Errorf("WalkInRate = %v, expected unchanged 120", d.WalkInRate)
	}
	if f.sched.last == nil || f.sched.last.Decisions != d {
		t.Errorf("round played with %+v, expected %+v", f.sched.last, d)
	}
	if rooms := f.sched.Session.Snapshot().State.Rooms; rooms != 25 {
		t.Errorf("rooms = %d, expected 25", rooms)
	}
}

func TestSeasonTask_MissingDecisionsFileKeepsSheet(t *testing.T) {
	f := newFixture(t)
	f.sched.DecisionsFile = filepath.Join(f.dir, "absent.yaml")
	f.sched.RunSeasonNow()

	if n := len(f.sched.Session.Snapshot().State.History); n != 1 {
		t.Errorf("history len = %d, expected 1", n)
	}
}

func TestSeasonTask_InvalidDecisionsFile(t *testing.T) {
	f := newFixture(t)
	path := filepath.Join(f.dir, "decisions.yaml")
	if err := os.WriteFile(path, []byte("walk_in_rate: 999\nstaff_salary: 10\n"), 0644); err != nil {
		t.Fatal(err)
	}
	f.sched.DecisionsFile = path
	f.sched.RunSeasonNow()

	msg := f.notes.last()
	if !strings.Contains(msg, "failed") || !strings.Contains(msg, "walk_in_rate=999") || !strings.Contains(msg, "staff_salary=10") {
		t.Errorf("error report = %q", msg)
	}
	if n := len(f.sched.Session.Snapshot().State.History); n != 0 {
		t.Errorf("history len = %d, expected no round played", n)
	}
	if got := testutil.ToFloat64(f.metrics.ResolveErrors.WithLabelValues(metrics.CodeInvalidDecisions)); got != 1 {
		t.Errorf("invalid decision errors = %v, expected 1", got)
	}
}

func TestSeasonTask_DomainError(t *testing.T) {
	dir := t.TempDir()
	ctx := context.Background()
	store, _ := session.NewFileStore(dir)
	g, _ := session.NewGame("Ghost")
	g.State.Rooms = 0
	if err := store.Save(ctx, g); err != nil {
		t.Fatal(err)
	}
	sm, err := session.NewManager(ctx, store, "Ghost")
	if err != nil {
		t.Fatal(err)
	}
	mc := metrics.NewCollectors(prometheus.NewRegistry())
	notes := &captureNotifier{}
	s := NewScheduler(ctx, sm, notes, recorder.NewNoopRecorder(), mc)

	s.RunSeasonNow()

	if !strings.Contains(notes.last(), "NO_ROOMS") {
		t.Errorf("error report = %q", notes.last())
	}
	if got := testutil.ToFloat64(mc.ResolveErrors.WithLabelValues("NO_ROOMS")); got != 1 {
		t.Errorf("NO_ROOMS errors = %v, expected 1", got)
	}
}

func TestHandleCommand(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	tests := []struct {
		cmd  string
		want string
	}{
		{"/status", "Capacity/Season: 3600 nights"},
		{"/status@hotel_bot", "Round 0 - Summer Season"},
		{"/results", "No rounds played yet"},
		{"/leaderboard", "1. Team 2"},
		{"/history", "No rounds played yet"},
		{"/archive", "No rounds recorded yet"},
		{"/decisions", "walk_in_rate: 120"},
		{"/help", "Available commands"},
		{"", "Available commands"},
	}
	for _, tt := range tests {
		t.Run(tt.cmd, func(t *testing.T) {
			if got := f.sched.HandleCommand(ctx, tt.cmd); !strings.Contains(got, tt.want) {
				t.Errorf("HandleCommand(%q) = %q, expected to contain %q", tt.cmd, got, tt.want)
			}
		})
	}
}

func TestHandleCommand_ResolveAndResults(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	if reply := f.sched.HandleCommand(ctx, "/resolve"); reply != "" {
		t.Errorf("/resolve reply = %q, expected report to go through the notifier", reply)
	}
	if !strings.Contains(f.notes.last(), "Round 0 Results") {
		t.Errorf("notified = %q", f.notes.last())
	}

	results := f.sched.HandleCommand(ctx, "/results")
	if !strings.Contains(results, "Breakdown") || !strings.Contains(results, "Next: Round 0, Winter") {
		t.Errorf("/results = %q", results)
	}
	if h := f.sched.HandleCommand(ctx, "/history"); !strings.Contains(h, "R0 Summer") {
		t.Errorf("/history = %q", h)
	}
}

func TestHandleCommand_ResultsAfterRestart(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.sched.RunSeasonNow()

	sm, err := session.NewManager(ctx, f.store, "Alpha")
	if err != nil {
		t.Fatal(err)
	}
	restarted := NewScheduler(ctx, sm, f.notes, recorder.NewNoopRecorder(), nil)

	got := restarted.HandleCommand(ctx, "/results")
	if !strings.Contains(got, "Round 0 Results") || !strings.Contains(got, "Summer Season") {
		t.Errorf("/results = %q", got)
	}
	if strings.Contains(got, "Breakdown") {
		t.Error("rebuilt report should not include a breakdown")
	}
	if a := restarted.HandleCommand(ctx, "/archive"); !strings.Contains(a, "No round archive configured") {
		t.Errorf("/archive without recorder = %q", a)
	}
}

func TestHandleCommand_Set(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	if got := f.sched.HandleCommand(ctx, "/set walk_in_rate 150"); !strings.Contains(got, "walk_in_rate: 150") {
		t.Errorf("/set reply = %q", got)
	}
	if f.sched.Session.Decisions().WalkInRate != 150 {
		t.Error("walk_in_rate not updated")
	}

	for _, cmd := range []string{"/set walk_in_rate 10", "/set no_such_field 1", "/set walk_in_rate"} {
		got := f.sched.HandleCommand(ctx, cmd)
		if !strings.Contains(got, "failed") && !strings.Contains(got, "Usage") {
			t.Errorf("HandleCommand(%q) = %q, expected an error reply", cmd, got)
		}
	}
	if f.sched.Session.Decisions().WalkInRate != 150 {
		t.Error("rejected /set changed the sheet")
	}

	for _, cmd := range []string{"/set walk_in_rate ~", "/set walk_in_rate null"} {
		got := f.sched.HandleCommand(ctx, cmd)
		if !strings.Contains(got, "failed") || !strings.Contains(got, "no value given") {
			t.Errorf("HandleCommand(%q) = %q, expected a no value error", cmd, got)
		}
	}
	if got := f.sched.HandleCommand(ctx, "/set walk_in_rate 150"); !strings.HasPrefix(got, "ℹ️ No change: walk_in_rate is already 150") {
		t.Errorf("/set with current value = %q", got)
	}
}

func TestHandleCommand_Reset(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.sched.RunSeasonNow()
	f.sched.RunSeasonNow()

	got := f.sched.HandleCommand(ctx, "/reset")
	if !strings.Contains(got, "Game reset") || !strings.Contains(got, "Round 0 - Summer Season") {
		t.Errorf("/reset = %q", got)
	}
	if r := f.sched.HandleCommand(ctx, "/results"); !strings.Contains(r, "No rounds played yet") {
		t.Errorf("/results after reset = %q", r)
	}
	if got := testutil.ToFloat64(f.metrics.Cash); got != 500000 {
		t.Errorf("cash gauge after reset = %v, expected 500000", got)
	}
	f.sched.RunSeasonNow()
	archive := f.sched.HandleCommand(ctx, "/archive")
	lines := strings.Split(strings.TrimSpace(archive), "\n")
	// header, blank, one line per game
	if len(lines) != 4 {
		t.Fatalf("/archive lines = %d:\n%s", len(lines), archive)
	}
	if !strings.HasPrefix(lines[2], "Game 0: 2 seasons, R0 Summer - R0 Winter") || strings.HasSuffix(lines[2], "⬅") {
		t.Errorf("old game row = %q", lines[2])
	}
	if !strings.HasPrefix(lines[3], "Game 1: 1 seasons, R0 Summer - R0 Summer") || !strings.HasSuffix(lines[3], "⬅") {
		t.Errorf("current game row = %q", lines[3])
	}
}

func TestRegisterAll(t *testing.T) {
	f := newFixture(t)
	if err := f.sched.RegisterAll("0 0 9 * * 1"); err != nil {
		t.Errorf("RegisterAll() error = %v", err)
	}
	if n := len(f.sched.Cron.Entries()); n != 1 {
		t.Errorf("entries = %d, expected 1", n)
	}
	if err := f.sched.RegisterAll("not a cron"); err == nil {
		t.Error("RegisterAll() expected error for bad spec")
	}
}
