// Package clinical holds the pure rule evaluation functions: vitals
// findings against physician protocols, and wound severity scoring.
// Nothing here mutates state; callers pass records in and get findings
// back.
package clinical

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/homechart/homechart/internal/platform/store"
)

const (
	StatusNormal = "normal"
	StatusAlert  = "alert"
)

// Finding is one vitals validation result. Value is the recorded value
// rendered for display ("170/90" for blood pressure, the number
// otherwise).
type Finding struct {
	Vital   string      `json:"vital"`
	Value   interface{} `json:"value"`
	Status  string      `json:"status"`
	Message string      `json:"message"`
}

// ValidateVitals evaluates newly recorded vitals against the patient's
// physician protocols and visit history. Vitals with no applicable
// protocol, or trend rules with no prior data, produce no finding at
// all rather than an "unknown" entry.
func ValidateVitals(protocols []store.Protocol, visits []store.VisitRecord, vitals store.Vitals) []Finding {
	var results []Finding

	if hasProtocol(protocols, "Vital Sign") {
		// Blood pressure. A missing diastolic reads as 0, which can
		// trip the below-threshold branch; this mirrors the charting
		// system's current behavior.
		if sys, ok := vitals["blood_pressure_systolic"]; ok {
			dia := vitals["blood_pressure_diastolic"]
			value := formatNum(sys) + "/" + formatNum(dia)
			switch {
			case sys > 160 || dia > 100:
				results = append(results, Finding{
					Vital: "blood_pressure", Value: value, Status: StatusAlert,
					Message: "BP above threshold - notify MD per protocol",
				})
			case sys < 90 || dia < 60:
				results = append(results, Finding{
					Vital: "blood_pressure", Value: value, Status: StatusAlert,
					Message: "BP below threshold - notify MD per protocol",
				})
			default:
				results = append(results, Finding{
					Vital: "blood_pressure", Value: value, Status: StatusNormal,
					Message: "Within parameters",
				})
			}
		}

		if hr, ok := vitals["heart_rate"]; ok {
			switch {
			case hr > 100:
				results = append(results, Finding{
					Vital: "heart_rate", Value: hr, Status: StatusAlert,
					Message: "HR above 100 - notify MD per protocol",
				})
			case hr < 50:
				results = append(results, Finding{
					Vital: "heart_rate", Value: hr, Status: StatusAlert,
					Message: "HR below 50 - notify MD per protocol",
				})
			default:
				results = append(results, Finding{
					Vital: "heart_rate", Value: hr, Status: StatusNormal,
					Message: "Within parameters",
				})
			}
		}

		if o2, ok := vitals["oxygen_saturation"]; ok {
			if o2 < 92 {
				results = append(results, Finding{
					Vital: "oxygen_saturation", Value: o2, Status: StatusAlert,
					Message: "O2 Sat below 92% - notify MD per protocol",
				})
			} else {
				results = append(results, Finding{
					Vital: "oxygen_saturation", Value: o2, Status: StatusNormal,
					Message: "Within parameters",
				})
			}
		}
	}

	// Weight trend rule (CHF protocols). Compares against the last
	// visit's recorded weight only; no prior weight means no finding.
	if weight, ok := vitals["weight"]; ok && hasProtocol(protocols, "Weight") && len(visits) > 0 {
		lastWeight, recorded := visits[len(visits)-1].Vitals["weight"]
		if recorded && lastWeight != 0 {
			delta := weight - lastWeight
			if delta > 2 {
				results = append(results, Finding{
					Vital: "weight", Value: weight, Status: StatusAlert,
					Message: fmt.Sprintf("Weight gain of %.1f lbs since last visit - notify MD per CHF protocol", delta),
				})
			} else {
				results = append(results, Finding{
					Vital: "weight", Value: weight, Status: StatusNormal,
					Message: fmt.Sprintf("Weight change: %+.1f lbs from last visit", delta),
				})
			}
		}
	}

	return results
}

// Alerts filters findings down to the alert subset.
func Alerts(findings []Finding) []Finding {
	var alerts []Finding
	for _, f := range findings {
		if f.Status == StatusAlert {
			alerts = append(alerts, f)
		}
	}
	return alerts
}

func hasProtocol(protocols []store.Protocol, name string) bool {
	for _, p := range protocols {
		if strings.Contains(p.Protocol, name) {
			return true
		}
	}
	return false
}

func formatNum(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
