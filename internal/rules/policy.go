// Cartographus - Media Server Analytics and Geographic Visualization
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/examguard/proctoring

package rules

import "time"

// evaluationWindow is the sliding-window duration used for threshold
// rules. The engine's in-process bucket counters cover exactly this span.
const evaluationWindow = 5 * time.Minute

// windowRetention is twice evaluationWindow. It is used only as the
// engine's dedupe TTL (dedupeTTL); the window counters do not use it.
const windowRetention = 10 * time.Minute

// windowNumBuckets divides evaluationWindow into 30s buckets.
const windowNumBuckets = 10

// thresholdPolicy describes one event type's window-based severity rule.
type thresholdPolicy struct {
	// immediate is true for types that fire on every occurrence with no
	// window counting (MULTI_PERSON, SUSPICIOUS_OBJECT).
	immediate bool

	// threshold is the window count at or above which the rule fires.
	// Ignored when immediate is true or never is true.
	threshold int64

	// severity is the severity assigned when the rule fires.
	severity Severity

	// never is true for types that never produce a window-fired alert
	// (LOW_LIGHT is recorded only; unknown types attract no rule).
	never bool
}

// policyFor returns the threshold policy for an event type, per the
// severity policy table.
func policyFor(t EventType) thresholdPolicy {
	switch t {
	case EventTypeMultiPerson:
		return thresholdPolicy{immediate: true, severity: SeverityCritical}
	case EventTypeFaceMissing:
		return thresholdPolicy{threshold: 3, severity: SeverityHigh}
	case EventTypeCameraBlocked:
		return thresholdPolicy{threshold: 3, severity: SeverityHigh}
	case EventTypeTabSwitch:
		return thresholdPolicy{threshold: 2, severity: SeverityMedium}
	case EventTypeLookAway:
		return thresholdPolicy{threshold: 5, severity: SeverityMedium}
	case EventTypeSuspiciousObject:
		return thresholdPolicy{immediate: true, severity: SeverityMedium}
	case EventTypeLowLight:
		return thresholdPolicy{never: true}
	default:
		return thresholdPolicy{never: true}
	}
}

// riskBase is the base contribution to the decaying risk score per event
// type, scaled by confidence in Engine.riskDelta.
var riskBase = map[EventType]float64{
	EventTypeMultiPerson:      50,
	EventTypeSuspiciousObject: 20,
	EventTypeFaceMissing:      15,
	EventTypeCameraBlocked:    15,
	EventTypeLookAway:         5,
	EventTypeLowLight:         2,
}

const unknownRiskBase = 1

// riskDecayFactor is the multiplicative per-event decay applied to the
// prior risk score before adding this event's delta.
const riskDecayFactor = 0.98

// alertCooldown is the default per-(session,type) cooldown window during
// which a sustained condition emits at most one alert.
const alertCooldown = 5 * time.Minute

// snapshotInterval is the minimum spacing between RiskScoreSnapshots for
// a given session.
const snapshotInterval = 60 * time.Second

// dedupeTTL bounds how long the engine remembers having already
// evaluated an event_id. It outlasts evaluationWindow, so an event that
// is still counted in a window is never counted a second time.
const dedupeTTL = windowRetention
