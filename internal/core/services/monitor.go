package services

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/benbjohnson/clock"
	log "github.com/sirupsen/logrus"

	"vision-alert-service/internal/core/domain"
	"vision-alert-service/internal/core/ports/output"
	"vision-alert-service/internal/metrics"
)

// Monitor drives the sample/detect/alert cycle for one or more rules.
//
// Each cycle captures frames for the rule's sampling duration, runs them
// through inference, and feeds the presence result into a latch: the first
// sighting stamps the track start, sustained presence past the rule's minimum
// duration fires exactly one alert, and an empty cycle resets the track.
type Monitor struct {
	frames    ports.FrameSource
	inference ports.InferenceClient
	sink      ports.AlertSink
	events    ports.EventSink
	clock     clock.Clock
	interval  time.Duration
}

func NewMonitor(frames ports.FrameSource, inference ports.InferenceClient, sink ports.AlertSink, events ports.EventSink) *Monitor {
	return &Monitor{
		frames:    frames,
		inference: inference,
		sink:      sink,
		events:    events,
		clock:     clock.New(),
		interval:  defaultSampleInterval,
	}
}

// WithClock substitutes the wall clock, for tests.
func (m *Monitor) WithClock(c clock.Clock) *Monitor {
	m.clock = c
	return m
}

// WithSampleInterval overrides the spacing between captures inside a
// sampling window.
func (m *Monitor) WithSampleInterval(d time.Duration) *Monitor {
	if d > 0 {
		m.interval = d
	}
	return m
}

// Run blocks until ctx is cancelled, watching every rule concurrently.
func (m *Monitor) Run(ctx context.Context, rules []domain.MonitorRule) {
	var wg sync.WaitGroup
	for i := range rules {
		if !rules[i].Enabled {
			continue
		}
		wg.Add(1)
		go func(rule domain.MonitorRule) {
			defer wg.Done()
			m.watch(ctx, rule)
		}(rules[i])
	}
	wg.Wait()
}

type trackState struct {
	detectedSince time.Time
	alertSent     bool
}

func (t *trackState) reset() {
	t.detectedSince = time.Time{}
	t.alertSent = false
}

func (m *Monitor) watch(ctx context.Context, rule domain.MonitorRule) {
	logger := log.WithFields(log.Fields{"rule": rule.Name, "class": rule.TargetClass})
	logger.Info("monitor started")

	state := &trackState{}
	for {
		frames := m.sample(ctx, rule.SamplingDuration)
		if ctx.Err() != nil {
			return
		}

		detections, frame := m.detectInFrames(ctx, &rule, frames)
		m.record(ctx, &rule, detections, frame.CapturedAt, logger)

		now := m.clock.Now()
		if domain.ContainsClass(detections, rule.TargetClass) {
			if state.detectedSince.IsZero() {
				state.detectedSince = now
				state.alertSent = false
				logger.Info("target detected, tracking")
			} else if now.Sub(state.detectedSince) >= rule.MinDuration && !state.alertSent {
				msg := fmt.Sprintf("Alert: %s detected for %v.", rule.TargetClass, rule.MinDuration)
				if err := m.sink.Send(ctx, &rule, msg, frame); err != nil {
					logger.WithError(err).Error("send alert failed")
				} else {
					state.alertSent = true
					rule.LastAlertAt = &now
					logger.Warn(msg)
				}
			}
		} else {
			if !state.detectedSince.IsZero() {
				logger.Info("target no longer detected")
			}
			state.reset()
		}

		select {
		case <-ctx.Done():
			return
		case <-m.clock.After(rule.SleepDuration):
		}
	}
}

// sample captures frames until the sampling window closes. Capture failures
// are skipped, matching a camera that occasionally drops a frame.
func (m *Monitor) sample(ctx context.Context, window time.Duration) []domain.Frame {
	var frames []domain.Frame
	deadline := m.clock.Now().Add(window)

	for m.clock.Now().Before(deadline) {
		frame, err := m.frames.Capture(ctx)
		if err != nil {
			if ctx.Err() != nil {
				return frames
			}
			log.WithError(err).Debug("frame capture failed")
		} else {
			frames = append(frames, frame)
			metrics.FramesCaptured.Inc()
		}

		select {
		case <-ctx.Done():
			return frames
		case <-m.clock.After(m.interval):
		}
	}
	return frames
}

// defaultSampleInterval spaces captures inside a sampling window so a slow
// camera is not hammered.
const defaultSampleInterval = 500 * time.Millisecond

// detectInFrames runs inference over the sampled frames and returns the
// postprocessed detections of the first frame containing the target class
// together with that frame, or the last frame's detections when the target
// never shows.
func (m *Monitor) detectInFrames(ctx context.Context, rule *domain.MonitorRule, frames []domain.Frame) ([]domain.Detection, domain.Frame) {
	var (
		last      []domain.Detection
		lastFrame domain.Frame
	)
	for _, frame := range frames {
		raw, err := m.inference.Detect(ctx, frame)
		if err != nil {
			log.WithError(err).Warn("inference failed")
			continue
		}
		dets := Postprocess(rule, raw)
		if domain.ContainsClass(dets, rule.TargetClass) {
			return dets, frame
		}
		last = dets
		lastFrame = frame
	}
	return last, lastFrame
}

// record persists target-class sightings as detection events.
func (m *Monitor) record(ctx context.Context, rule *domain.MonitorRule, dets []domain.Detection, capturedAt time.Time, logger *log.Entry) {
	if m.events == nil {
		return
	}
	if capturedAt.IsZero() {
		capturedAt = m.clock.Now()
	}
	var events []*domain.DetectionEvent
	ruleID := rule.ID
	for _, d := range dets {
		if d.ClassName() != rule.TargetClass {
			continue
		}
		events = append(events, &domain.DetectionEvent{
			RuleID:     &ruleID,
			ClassName:  d.ClassName(),
			Confidence: d.Score,
			Box:        d.Box,
			CapturedAt: capturedAt,
		})
	}
	if len(events) == 0 {
		return
	}
	if err := m.events.RecordBatch(ctx, events); err != nil {
		logger.WithError(err).Error("record detections failed")
	}
}
