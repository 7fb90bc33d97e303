// Package gesture turns hand-landmark samples into discrete gesture labels.
//
// Classification is a walk over an ordered rule list: the first rule whose
// predicate holds names the gesture. Rule order is the priority order.
package gesture

// Gesture is the label assigned to one sample.
type Gesture string

const (
	// Absent means no hand was detected. It is distinct from None.
	Absent Gesture = ""
	// None means a hand was present but matched no rule.
	None     Gesture = "none"
	Pinch    Gesture = "pinch"
	Point    Gesture = "point"
	Fist     Gesture = "fist"
	OpenPalm Gesture = "open_palm"
)

// Detected reports whether the gesture names an actual hand pose.
func (g Gesture) Detected() bool {
	return g != Absent && g != None
}

// String implements fmt.Stringer.
func (g Gesture) String() string {
	if g == Absent {
		return "absent"
	}
	return string(g)
}

// Thresholds are the distance cut-offs, in normalised landmark units.
type Thresholds struct {
	// Pinch is the maximum thumb-tip to index-tip distance for a pinch.
	Pinch float64 `yaml:"pinch_threshold" json:"pinch_threshold"`
	// Extended separates curled fingertips (closer to the wrist) from
	// extended ones (further away).
	Extended float64 `yaml:"extended_threshold" json:"extended_threshold"`
}

// DefaultThresholds returns the calibrated cut-offs: 0.05 for pinch and 0.15
// for finger extension.
func DefaultThresholds() Thresholds {
	return Thresholds{
		Pinch:    0.05,
		Extended: 0.15,
	}
}

// Rule pairs a gesture with the predicate that recognises it.
type Rule struct {
	Gesture Gesture
	Match   func(h *Hand) bool
}

// Rules returns the classification rules in priority order:
// pinch, point, fist, open palm.
func Rules(th Thresholds) []Rule {
	extended := func(h *Hand, tip int) bool { return h.reach(tip) > th.Extended }
	curled := func(h *Hand, tip int) bool { return h.reach(tip) < th.Extended }

	return []Rule{
		{
			Gesture: Pinch,
			Match: func(h *Hand) bool {
				return Distance(h[ThumbTip], h[IndexTip]) < th.Pinch
			},
		},
		{
			Gesture: Point,
			Match: func(h *Hand) bool {
				return extended(h, IndexTip) &&
					curled(h, MiddleTip) && curled(h, RingTip) && curled(h, PinkyTip)
			},
		},
		{
			// The thumb is ignored for fist and point
			Gesture: Fist,
			Match: func(h *Hand) bool {
				return curled(h, IndexTip) && curled(h, MiddleTip) &&
					curled(h, RingTip) && curled(h, PinkyTip)
			},
		},
		{
			Gesture: OpenPalm,
			Match: func(h *Hand) bool {
				return extended(h, ThumbTip) && extended(h, IndexTip) && extended(h, MiddleTip) &&
					extended(h, RingTip) && extended(h, PinkyTip)
			},
		},
	}
}

// Result is the outcome of classifying one sample.
type Result struct {
	Gesture Gesture
	// Position is the index fingertip when a hand is present, nil otherwise.
	Position *Landmark
}

// Classifier assigns gestures to hand samples. It is stateless apart from its
// rules and safe for concurrent use.
type Classifier struct {
	rules []Rule
}

// NewClassifier builds a classifier using the standard rules at th.
func NewClassifier(th Thresholds) *Classifier {
	return &Classifier{rules: Rules(th)}
}

// NewClassifierWithRules builds a classifier over an explicit rule list.
func NewClassifierWithRules(rules []Rule) *Classifier {
	return &Classifier{rules: append([]Rule(nil), rules...)}
}

// Classify labels a sample. A nil hand yields {Absent, nil}. Otherwise the
// first matching rule wins, None if no rule matches, and Position is the
// index fingertip regardless of the gesture.
func (c *Classifier) Classify(h *Hand) Result {
	if h == nil {
		return Result{Gesture: Absent}
	}

	pos := h[IndexTip]
	for _, r := range c.rules {
		if r.Match(h) {
			return Result{Gesture: r.Gesture, Position: &pos}
		}
	}
	return Result{Gesture: None, Position: &pos}
}
