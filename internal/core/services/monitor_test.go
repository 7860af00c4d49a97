package services

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/benbjohnson/clock"
	"github.com/stretchr/testify/assert"

	"vision-alert-service/internal/core/domain"
)

type stubFrames struct {
	frame domain.Frame
}

func (s stubFrames) Capture(ctx context.Context) (domain.Frame, error) {
	return s.frame, nil
}

type stubInference struct {
	dets []domain.Detection
}

func (s stubInference) IsAvailable() bool { return true }

func (s stubInference) Detect(ctx context.Context, frame domain.Frame) ([]domain.Detection, error) {
	return s.dets, nil
}

type captureSink struct {
	mu       sync.Mutex
	messages []string
	frames   []domain.Frame
	fired    chan struct{}
}

func newCaptureSink() *captureSink {
	return &captureSink{fired: make(chan struct{}, 16)}
}

func (s *captureSink) Send(ctx context.Context, rule *domain.MonitorRule, message string, frame domain.Frame) error {
	s.mu.Lock()
	s.messages = append(s.messages, message)
	s.frames = append(s.frames, frame)
	s.mu.Unlock()
	s.fired <- struct{}{}
	return nil
}

func (s *captureSink) sentFrames() []domain.Frame {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]domain.Frame, len(s.frames))
	copy(out, s.frames)
	return out
}

func (s *captureSink) sent() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]string, len(s.messages))
	copy(out, s.messages)
	return out
}

type captureEvents struct {
	mu      sync.Mutex
	batches [][]*domain.DetectionEvent
}

func (s *captureEvents) RecordBatch(ctx context.Context, events []*domain.DetectionEvent) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.batches = append(s.batches, events)
	return nil
}

func (s *captureEvents) count() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.batches)
}

func fastRule() domain.MonitorRule {
	return domain.MonitorRule{
		Name:             "test",
		Enabled:          true,
		TargetClass:      "person",
		ConfThreshold:    0.5,
		IoUThreshold:     0.5,
		MinDuration:      time.Millisecond,
		SamplingDuration: 5 * time.Millisecond,
		SleepDuration:    time.Millisecond,
	}
}

func personDetection() []domain.Detection {
	return []domain.Detection{
		{Box: domain.Box{X1: 0, Y1: 0, X2: 10, Y2: 10}, Score: 0.9, ClassID: 0},
	}
}

func TestMonitor_AlertsOnSustainedPresence(t *testing.T) {
	sink := newCaptureSink()
	events := &captureEvents{}
	m := NewMonitor(stubFrames{frame: domain.Frame{Data: []byte("jpeg")}},
		stubInference{dets: personDetection()}, sink, events).
		WithSampleInterval(time.Millisecond)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		m.Run(ctx, []domain.MonitorRule{fastRule()})
		close(done)
	}()

	select {
	case <-sink.fired:
	case <-time.After(2 * time.Second):
		t.Fatal("alert never fired")
	}
	cancel()
	<-done

	sent := sink.sent()
	assert.NotEmpty(t, sent)
	assert.Equal(t, "Alert: person detected for 1ms.", sent[0])
	assert.Greater(t, events.count(), 0, "target sightings should be recorded")

	frames := sink.sentFrames()
	assert.NotEmpty(t, frames)
	assert.Equal(t, []byte("jpeg"), frames[0].Data, "the triggering frame travels with the alert")
}

func TestMonitor_AlertsOnlyOncePerPresence(t *testing.T) {
	sink := newCaptureSink()
	m := NewMonitor(stubFrames{frame: domain.Frame{Data: []byte("jpeg")}},
		stubInference{dets: personDetection()}, sink, nil).
		WithSampleInterval(time.Millisecond)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		m.Run(ctx, []domain.MonitorRule{fastRule()})
		close(done)
	}()

	select {
	case <-sink.fired:
	case <-time.After(2 * time.Second):
		t.Fatal("alert never fired")
	}
	// The target stays in frame; give the monitor several more cycles to
	// prove the latch holds.
	time.Sleep(50 * time.Millisecond)
	cancel()
	<-done

	assert.Len(t, sink.sent(), 1)
}

func TestMonitor_NoAlertWithoutTarget(t *testing.T) {
	sink := newCaptureSink()
	dog := []domain.Detection{
		{Box: domain.Box{X1: 0, Y1: 0, X2: 10, Y2: 10}, Score: 0.9, ClassID: 16},
	}
	m := NewMonitor(stubFrames{frame: domain.Frame{Data: []byte("jpeg")}},
		stubInference{dets: dog}, sink, nil).
		WithSampleInterval(time.Millisecond)

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	m.Run(ctx, []domain.MonitorRule{fastRule()})
	assert.Empty(t, sink.sent())
}

func TestMonitor_SkipsDisabledRules(t *testing.T) {
	sink := newCaptureSink()
	m := NewMonitor(stubFrames{frame: domain.Frame{Data: []byte("jpeg")}},
		stubInference{dets: personDetection()}, sink, nil)

	rule := fastRule()
	rule.Enabled = false

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	// Run returns immediately when every rule is disabled.
	start := time.Now()
	m.Run(ctx, []domain.MonitorRule{rule})
	assert.Less(t, time.Since(start), 10*time.Millisecond)
	assert.Empty(t, sink.sent())
}

// advanceMock steps the mock clock one second at a time, yielding between
// steps so the monitor goroutine can re-arm its timers.
func advanceMock(c *clock.Mock, steps int) {
	for i := 0; i < steps; i++ {
		time.Sleep(time.Millisecond)
		c.Add(time.Second)
	}
}

func TestMonitor_LatchFiresAfterMinDuration(t *testing.T) {
	mockClock := clock.NewMock()
	sink := newCaptureSink()
	m := NewMonitor(stubFrames{frame: domain.Frame{Data: []byte("jpeg")}},
		stubInference{dets: personDetection()}, sink, nil).
		WithClock(mockClock).
		WithSampleInterval(time.Second)

	rule := fastRule()
	rule.MinDuration = 10 * time.Second
	rule.SamplingDuration = 2 * time.Second
	rule.SleepDuration = time.Second

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		m.Run(ctx, []domain.MonitorRule{rule})
		close(done)
	}()

	// The first cycle stamps the track start around mock time 2s, so the
	// alert cannot fire before mock time 12s.
	advanceMock(mockClock, 11)
	assert.Empty(t, sink.sent(), "alert fired before the minimum duration elapsed")

	// The latch fires once; extra steps past the firing point are harmless.
	go advanceMock(mockClock, 60)
	select {
	case <-sink.fired:
	case <-time.After(2 * time.Second):
		t.Fatal("alert never fired under the mock clock")
	}
	cancel()
	<-done

	sent := sink.sent()
	assert.NotEmpty(t, sent)
	assert.Equal(t, "Alert: person detected for 10s.", sent[0])
}

func TestMonitor_DetectInFrames(t *testing.T) {
	rule := fastRule()
	m := NewMonitor(nil, stubInference{dets: personDetection()}, nil, nil)

	capturedAt := time.Now()
	frames := []domain.Frame{{Data: []byte("jpeg"), CapturedAt: capturedAt}}

	dets, frame := m.detectInFrames(context.Background(), &rule, frames)
	assert.True(t, domain.ContainsClass(dets, "person"))
	assert.Equal(t, capturedAt, frame.CapturedAt)
	assert.Equal(t, []byte("jpeg"), frame.Data)
}

func TestMonitor_DetectInFrames_BelowThreshold(t *testing.T) {
	rule := fastRule()
	rule.ConfThreshold = 0.95
	m := NewMonitor(nil, stubInference{dets: personDetection()}, nil, nil)

	frames := []domain.Frame{{Data: []byte("jpeg"), CapturedAt: time.Now()}}

	dets, _ := m.detectInFrames(context.Background(), &rule, frames)
	assert.False(t, domain.ContainsClass(dets, "person"))
}
