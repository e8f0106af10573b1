package optimizer

import (
	"context"
	"errors"
	"math/rand"
	"sync"
	"testing"

	"github.com/herdplan/herdplan/core/calendar"
	"github.com/herdplan/herdplan/core/metrics"
)

type captureSink struct {
	mu   sync.Mutex
	recs []metrics.RunRecord
}

func (s *captureSink) RecordRun(recs []metrics.RunRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.recs = append(s.recs, recs...)
	return nil
}

func newTestManager(t *testing.T, cfg SearchConfig, sink metrics.Sink) *Manager {
	t.Helper()
	m, err := NewManager(cfg, nopLogger{}, nil, sink)
	if err != nil {
		t.Fatalf("manager: %v", err)
	}
	return m
}

func TestNewManagerRejectsBadConfig(t *testing.T) {
	cfg := testConfig()
	cfg.PopulationSize = 1
	if _, err := NewManager(cfg, nopLogger{}, nil, nil); ErrorCode(err) != CodeInvalidInput {
		t.Fatalf("expected invalid_input got %v", err)
	}
	if _, err := NewManager(testConfig(), nil, nil, nil); ErrorCode(err) != CodeInvalidInput {
		t.Fatalf("expected invalid_input for nil logger got %v", err)
	}
}

func TestManagerValidatesLots(t *testing.T) {
	m := newTestManager(t, testConfig(), nil)
	if _, err := m.Run(context.Background(), Request{}); ErrorCode(err) != CodeInvalidInput {
		t.Fatalf("expected invalid_input for empty request got %v", err)
	}

	lots := testLots(monday)
	lots[0].RoundGaps = []int{10, 22}
	if _, err := m.Run(context.Background(), Request{Lots: lots}); ErrorCode(err) != CodeInvalidInput {
		t.Fatalf("expected invalid_input for out-of-range gap got %v", err)
	}
}

func TestManagerRejectsConcurrentRuns(t *testing.T) {
	m := newTestManager(t, testConfig(), nil)
	m.mu.Lock()
	m.cancel = func() {}
	m.mu.Unlock()
	defer func() {
		m.mu.Lock()
		m.cancel = nil
		m.mu.Unlock()
	}()

	if !m.Running() {
		t.Fatalf("expected running state")
	}
	_, err := m.Run(context.Background(), Request{Lots: testLots(monday)})
	if ErrorCode(err) != CodeInProgress {
		t.Fatalf("expected in_progress got %v", err)
	}
}

func TestManagerCancelWithoutRun(t *testing.T) {
	m := newTestManager(t, testConfig(), nil)
	if m.Cancel() {
		t.Fatalf("cancel should report false with no run in flight")
	}
}

func TestManagerRunTwoLots(t *testing.T) {
	cfg := testConfig()
	cfg.TimeBudgetMS = 5000
	sink := &captureSink{}
	m := newTestManager(t, cfg, sink)

	lots := testLots(monday, monday.AddDate(0, 0, 3))
	report, err := m.Run(context.Background(), Request{
		ID:   "req-1",
		Lots: lots,
		Rand: rand.New(rand.NewSource(42)),
	})
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	if report.RequestID != "req-1" {
		t.Fatalf("request id lost: %s", report.RequestID)
	}
	if report.Strategy != StrategyExhaustive {
		t.Fatalf("expected exhaustive for 2 lots got %s", report.Strategy)
	}
	if len(report.Schedules) != TargetSchedules {
		t.Fatalf("expected %d schedules got %d", TargetSchedules, len(report.Schedules))
	}
	if report.Evaluations == 0 {
		t.Fatalf("evaluations not counted")
	}
	for i := 1; i < len(report.Schedules); i++ {
		if report.Schedules[i].Fitness > report.Schedules[i-1].Fitness {
			t.Fatalf("schedules not ranked by fitness at %d", i)
		}
	}
	for _, sch := range report.Schedules {
		if len(sch.Lots) != len(lots) {
			t.Fatalf("schedule lost lots: %d", len(sch.Lots))
		}
		for i, l := range sch.Lots {
			// Anchors may move only within the configured window.
			shift := calendar.EpochDay(l.Anchor) - calendar.EpochDay(lots[i].Anchor)
			if shift < -cfg.MaxOffsetDays || shift > cfg.MaxOffsetDays {
				t.Fatalf("lot %s shifted %d days", l.ID, shift)
			}
		}
	}
	sink.mu.Lock()
	defer sink.mu.Unlock()
	if len(sink.recs) != len(report.Schedules) {
		t.Fatalf("expected %d sink records got %d", len(report.Schedules), len(sink.recs))
	}
	if sink.recs[0].RequestID != "req-1" || sink.recs[0].Rank != 0 {
		t.Fatalf("unexpected first record %+v", sink.recs[0])
	}

	if m.Running() {
		t.Fatalf("run still marked in flight")
	}
}

func TestManagerAssignsRequestID(t *testing.T) {
	cfg := testConfig()
	cfg.TimeBudgetMS = 2000
	m := newTestManager(t, cfg, nil)
	report, err := m.Run(context.Background(), Request{
		Lots: testLots(monday),
		Rand: rand.New(rand.NewSource(1)),
	})
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	if report.RequestID == "" {
		t.Fatalf("request id not assigned")
	}
}

func TestManagerCancelledContext(t *testing.T) {
	cfg := testConfig()
	cfg.TimeBudgetMS = 10000
	m := newTestManager(t, cfg, nil)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := m.Run(ctx, Request{Lots: testLots(monday, monday, monday, monday)})
	if ErrorCode(err) != CodeCancelled {
		t.Fatalf("expected cancelled got %v", err)
	}
}

func TestRunErrorUnwrap(t *testing.T) {
	inner := context.Canceled
	err := wrapRunError(CodeCancelled, "stopped", inner)
	if ErrorCode(err) != CodeCancelled {
		t.Fatalf("code lost")
	}
	var re *RunError
	if !errors.As(err, &re) {
		t.Fatalf("errors.As failed")
	}
	if re.Unwrap() != inner {
		t.Fatalf("unwrap lost inner error")
	}
	if ErrorCode(nil) != CodeOK {
		t.Fatalf("nil error should map to ok")
	}
}
