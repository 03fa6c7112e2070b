package consultation

import "fmt"

// Alert severities.
const (
	SeverityHigh   = "high"
	SeverityMedium = "medium"
	SeverityLow    = "low"
)

// Alert kinds.
const (
	AlertFever        = "fever"
	AlertHypertension = "hypertension"
	AlertObesity      = "obesity"
)

// Alert is a derived, non-persistent flag indicating a vital-sign value
// outside its clinically normal range.
type Alert struct {
	Kind     string `json:"kind"`
	Message  string `json:"message"`
	Severity string `json:"severity"`
}

// alertRules is the ordered catalog of threshold rules. Each rule inspects
// an immutable snapshot of the record's vitals and either produces an alert
// or declines; rules with missing inputs decline. Keeping the catalog as a
// slice fixes evaluation order and lets new rules slot in without touching
// control flow.
var alertRules = []func(c *Consultation) (Alert, bool){
	func(c *Consultation) (Alert, bool) {
		if c.Temperature == nil || *c.Temperature < 38.0 {
			return Alert{}, false
		}
		return Alert{
			Kind:     AlertFever,
			Message:  fmt.Sprintf("fever: %.1f°C", *c.Temperature),
			Severity: SeverityHigh,
		}, true
	},
	func(c *Consultation) (Alert, bool) {
		if c.SystolicBP == nil || *c.SystolicBP < 140 {
			return Alert{}, false
		}
		return Alert{
			Kind:     AlertHypertension,
			Message:  fmt.Sprintf("elevated systolic pressure: %d mmHg", *c.SystolicBP),
			Severity: SeverityMedium,
		}, true
	},
	func(c *Consultation) (Alert, bool) {
		if c.DiastolicBP == nil || *c.DiastolicBP < 90 {
			return Alert{}, false
		}
		return Alert{
			Kind:     AlertHypertension,
			Message:  fmt.Sprintf("elevated diastolic pressure: %d mmHg", *c.DiastolicBP),
			Severity: SeverityMedium,
		}, true
	},
	func(c *Consultation) (Alert, bool) {
		bmi := c.BMI()
		if bmi == nil || *bmi <= 30 {
			return Alert{}, false
		}
		return Alert{
			Kind:     AlertObesity,
			Message:  fmt.Sprintf("elevated BMI: %.2f (obesity)", *bmi),
			Severity: SeverityLow,
		}, true
	},
}

// EvaluateAlerts runs the rule catalog over the record's vitals and returns
// the alerts that fire, in catalog order. An empty result means a normal
// record. The evaluator is pure: it performs no I/O and is safe to call on
// partially filled or unpersisted records.
func EvaluateAlerts(c *Consultation) []Alert {
	var alerts []Alert
	for _, rule := range alertRules {
		if a, ok := rule(c); ok {
			alerts = append(alerts, a)
		}
	}
	return alerts
}
