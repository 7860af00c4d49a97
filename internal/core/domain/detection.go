package domain

import (
	"sort"
	"time"

	"github.com/google/uuid"
)

// Box is an axis-aligned bounding box in pixel coordinates.
type Box struct {
	X1 float64 `json:"x1"`
	Y1 float64 `json:"y1"`
	X2 float64 `json:"x2"`
	Y2 float64 `json:"y2"`
}

func (b Box) Area() float64 {
	w := b.X2 - b.X1
	h := b.Y2 - b.Y1
	if w <= 0 || h <= 0 {
		return 0
	}
	return w * h
}

// IoU returns the intersection-over-union of two boxes, in [0, 1].
func (b Box) IoU(o Box) float64 {
	x1 := max(b.X1, o.X1)
	y1 := max(b.Y1, o.Y1)
	x2 := min(b.X2, o.X2)
	y2 := min(b.Y2, o.Y2)

	if x2 <= x1 || y2 <= y1 {
		return 0
	}
	inter := (x2 - x1) * (y2 - y1)
	union := b.Area() + o.Area() - inter
	if union <= 0 {
		return 0
	}
	return inter / union
}

// Detection is one candidate box produced by the inference backend.
type Detection struct {
	Box     Box     `json:"box"`
	Score   float64 `json:"score"`
	ClassID int     `json:"class_id"`
}

func (d Detection) ClassName() string {
	return ClassName(d.ClassID)
}

// FilterByScore drops candidates below the confidence threshold.
func FilterByScore(dets []Detection, threshold float64) []Detection {
	kept := make([]Detection, 0, len(dets))
	for _, d := range dets {
		if d.Score >= threshold {
			kept = append(kept, d)
		}
	}
	return kept
}

// NonMaxSuppression applies greedy per-class NMS: candidates are visited in
// descending score order, and any same-class candidate overlapping a kept box
// with IoU above iouThreshold is suppressed. The result stays sorted by
// descending score.
func NonMaxSuppression(dets []Detection, iouThreshold float64) []Detection {
	if len(dets) <= 1 {
		return dets
	}

	sorted := make([]Detection, len(dets))
	copy(sorted, dets)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Score > sorted[j].Score
	})

	kept := make([]Detection, 0, len(sorted))
	for _, cand := range sorted {
		suppressed := false
		for _, k := range kept {
			if k.ClassID != cand.ClassID {
				continue
			}
			if k.Box.IoU(cand.Box) > iouThreshold {
				suppressed = true
				break
			}
		}
		if !suppressed {
			kept = append(kept, cand)
		}
	}
	return kept
}

// ContainsClass reports whether any detection matches the class name.
func ContainsClass(dets []Detection, className string) bool {
	for _, d := range dets {
		if d.ClassName() == className {
			return true
		}
	}
	return false
}

// DetectionEvent is a persisted sighting of a rule's target class.
type DetectionEvent struct {
	ID         uuid.UUID  `json:"id"`
	CreatedAt  time.Time  `json:"created_at"`
	RuleID     *uuid.UUID `json:"rule_id"`
	ClassName  string     `json:"class_name"`
	Confidence float64    `json:"confidence"`
	Box        Box        `json:"box"`
	CapturedAt time.Time  `json:"captured_at"`
}

// Frame is a single captured camera image.
type Frame struct {
	Data       []byte
	CapturedAt time.Time
}
