package trend

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

// Label is the classification of a percent change.
type Label string

const (
	Up            Label = "up"
	Down          Label = "down"
	Stable        Label = "stable"
	Indeterminate Label = "indeterminate"
)

// Policy selects how a percent change is mapped to a label.
type Policy string

const (
	// PolicyBand labels changes inside [-threshold, +threshold] as stable.
	PolicyBand Policy = "band"
	// PolicySign labels any positive change up and any negative change down.
	PolicySign Policy = "sign"
)

// DefaultThreshold is the half-width of the stable band, in percent points.
var DefaultThreshold = decimal.RequireFromString("0.05")

var icons = map[Label]string{
	Up:            "📈",
	Down:          "📉",
	Stable:        "➖",
	Indeterminate: "❔",
}

// Trend pairs a label with its icon.
type Trend struct {
	Label Label
	Icon  string
}

// IconFor returns the icon paired with l, or the indeterminate icon for unknown labels.
func IconFor(l Label) string {
	if icon, ok := icons[l]; ok {
		return icon
	}
	return icons[Indeterminate]
}

// Classifier maps percent-change text to a Trend. The zero value is not usable;
// build one with NewClassifier.
type Classifier struct {
	policy    Policy
	threshold decimal.Decimal
}

// NewClassifier validates the policy and threshold.
// The threshold is ignored by PolicySign and must not be negative for PolicyBand.
func NewClassifier(policy Policy, threshold decimal.Decimal) (Classifier, error) {
	switch policy {
	case PolicyBand:
		if threshold.IsNegative() {
			return Classifier{}, fmt.Errorf("trend: negative threshold %s", threshold)
		}
	case PolicySign:
		threshold = decimal.Zero
	default:
		return Classifier{}, fmt.Errorf("trend: unknown policy %q", policy)
	}
	return Classifier{policy: policy, threshold: threshold}, nil
}

// MustClassifier is NewClassifier for known-good arguments.
func MustClassifier(policy Policy, threshold decimal.Decimal) Classifier {
	c, err := NewClassifier(policy, threshold)
	if err != nil {
		panic(err)
	}
	return c
}

func (c Classifier) Policy() Policy { return c.policy }

// Classify never fails: unparsable input yields Indeterminate.
func (c Classifier) Classify(pctChange string) Trend {
	v, ok := ParsePercent(pctChange)
	if !ok {
		return Trend{Label: Indeterminate, Icon: icons[Indeterminate]}
	}
	l := Stable
	switch {
	case v.GreaterThan(c.threshold):
		l = Up
	case v.LessThan(c.threshold.Neg()):
		l = Down
	}
	return Trend{Label: l, Icon: icons[l]}
}

// ParsePercent reads a percent value, accepting a decimal comma and a trailing "%".
func ParsePercent(s string) (decimal.Decimal, bool) {
	s = strings.TrimSpace(s)
	s = strings.TrimSuffix(s, "%")
	s = strings.ReplaceAll(strings.TrimSpace(s), ",", ".")
	if s == "" {
		return decimal.Zero, false
	}
	v, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero, false
	}
	return v, true
}

// ParseLabel maps stored label text back to a Label. Besides the labels written
// here it accepts the wording of older dashboards ("BULLISH (Otimista)",
// "BEARISH (Pessimista)", "NEUTRAL") and the bare icons.
func ParseLabel(s string) Label {
	s = strings.ToLower(strings.TrimSpace(s))
	switch {
	case s == "":
		return Indeterminate
	case s == string(Up), strings.HasPrefix(s, "bullish"), s == icons[Up]:
		return Up
	case s == string(Down), strings.HasPrefix(s, "bearish"), s == icons[Down]:
		return Down
	case s == string(Stable), strings.HasPrefix(s, "neutral"), s == icons[Stable]:
		return Stable
	default:
		return Indeterminate
	}
}
