package consultation

import (
	"strings"
	"testing"
)

func f64(v float64) *float64 { return &v }
func i(v int) *int           { return &v }
func str(v string) *string   { return &v }

func TestEvaluateAlertsNormalVitals(t *testing.T) {
	c := &Consultation{
		Temperature: f64(36.8),
		SystolicBP:  i(120),
		DiastolicBP: i(80),
		WeightKg:    f64(70),
		HeightCm:    f64(175),
	}
	if alerts := EvaluateAlerts(c); len(alerts) != 0 {
		t.Errorf("expected no alerts, got %v", alerts)
	}
	if c.AtRisk() {
		t.Error("normal vitals should not be at risk")
	}
}

func TestEvaluateAlertsFever(t *testing.T) {
	c := &Consultation{Temperature: f64(38.0)}
	alerts := EvaluateAlerts(c)
	if len(alerts) != 1 {
		t.Fatalf("expected 1 alert, got %d", len(alerts))
	}
	a := alerts[0]
	if a.Kind != AlertFever || a.Severity != SeverityHigh {
		t.Errorf("got kind=%s severity=%s, want fever/high", a.Kind, a.Severity)
	}
	if !strings.Contains(a.Message, "38.0") {
		t.Errorf("message should name the temperature: %q", a.Message)
	}

	c.Temperature = f64(37.9)
	if alerts := EvaluateAlerts(c); len(alerts) != 0 {
		t.Errorf("37.9 should not trigger fever, got %v", alerts)
	}
}

func TestEvaluateAlertsHypertension(t *testing.T) {
	c := &Consultation{SystolicBP: i(140), DiastolicBP: i(85)}
	alerts := EvaluateAlerts(c)
	if len(alerts) != 1 {
		t.Fatalf("expected 1 alert, got %d", len(alerts))
	}
	if alerts[0].Kind != AlertHypertension || alerts[0].Severity != SeverityMedium {
		t.Errorf("got %+v, want hypertension/medium", alerts[0])
	}

	// Both thresholds crossed: systolic and diastolic each fire.
	c = &Consultation{SystolicBP: i(150), DiastolicBP: i(95)}
	alerts = EvaluateAlerts(c)
	if len(alerts) != 2 {
		t.Fatalf("expected 2 alerts, got %d: %v", len(alerts), alerts)
	}

	c = &Consultation{SystolicBP: i(139), DiastolicBP: i(89)}
	if alerts := EvaluateAlerts(c); len(alerts) != 0 {
		t.Errorf("139/89 should not trigger alerts, got %v", alerts)
	}
}

func TestEvaluateAlertsObesity(t *testing.T) {
	// 100kg at 170cm is BMI 34.60.
	c := &Consultation{WeightKg: f64(100), HeightCm: f64(170)}
	alerts := EvaluateAlerts(c)
	if len(alerts) != 1 {
		t.Fatalf("expected 1 alert, got %d", len(alerts))
	}
	if alerts[0].Kind != AlertObesity || alerts[0].Severity != SeverityLow {
		t.Errorf("got %+v, want obesity/low", alerts[0])
	}

	// BMI exactly 30 does not fire; the threshold is strict.
	c = &Consultation{WeightKg: f64(86.7), HeightCm: f64(170)}
	if bmi := c.BMI(); *bmi != 30.0 {
		t.Fatalf("test setup: BMI = %v, want 30.00", *bmi)
	}
	if alerts := EvaluateAlerts(c); len(alerts) != 0 {
		t.Errorf("BMI 30 should not trigger obesity, got %v", alerts)
	}
}

func TestEvaluateAlertsMissingVitalsDecline(t *testing.T) {
	if alerts := EvaluateAlerts(&Consultation{}); len(alerts) != 0 {
		t.Errorf("empty vitals should produce no alerts, got %v", alerts)
	}
	// Weight without height leaves BMI undefined.
	c := &Consultation{WeightKg: f64(200)}
	if alerts := EvaluateAlerts(c); len(alerts) != 0 {
		t.Errorf("undefined BMI should not trigger obesity, got %v", alerts)
	}
}

func TestEvaluateAlertsOrder(t *testing.T) {
	c := &Consultation{
		Temperature: f64(39.5),
		SystolicBP:  i(160),
		DiastolicBP: i(100),
		WeightKg:    f64(110),
		HeightCm:    f64(170),
	}
	alerts := EvaluateAlerts(c)
	if len(alerts) != 4 {
		t.Fatalf("expected 4 alerts, got %d: %v", len(alerts), alerts)
	}
	wantKinds := []string{AlertFever, AlertHypertension, AlertHypertension, AlertObesity}
	for idx, want := range wantKinds {
		if alerts[idx].Kind != want {
			t.Errorf("alert %d: got %s, want %s", idx, alerts[idx].Kind, want)
		}
	}
}
