package security

import "go.uber.org/zap/zapcore"

// Severity represents the severity level of a security event
// This is derived from EventType, NOT user-provided
type Severity string

const (
	SeverityINFO   Severity = "INFO"
	SeverityMEDIUM Severity = "MEDIUM"
	SeverityWARN   Severity = "WARN"
	SeverityHIGH   Severity = "HIGH"
)

// EventSeverityMap defines the hard-coded severity for each event type
var EventSeverityMap = map[EventType]Severity{
	EventSubmissionAccepted: SeverityINFO,
	EventValidationFailed:   SeverityMEDIUM,
	EventRateLimitTriggered: SeverityWARN,
	EventCORSRejected:       SeverityWARN,
	EventDispatchFailed:     SeverityHIGH,
	EventServerError:        SeverityHIGH,
}

// GetSeverity returns the severity for an event type, WARN for unknown events.
func GetSeverity(event EventType) Severity {
	if s, ok := EventSeverityMap[event]; ok {
		return s
	}
	return SeverityWARN
}

func (s Severity) zapLevel() zapcore.Level {
	switch s {
	case SeverityINFO:
		return zapcore.InfoLevel
	case SeverityHIGH:
		return zapcore.ErrorLevel
	default:
		return zapcore.WarnLevel
	}
}
