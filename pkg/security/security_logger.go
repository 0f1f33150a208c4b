package security

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"strings"
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// EventType represents the type of security event
type EventType string

const (
	EventSubmissionAccepted EventType = "submission_accepted"
	EventValidationFailed   EventType = "validation_failed"
	EventRateLimitTriggered EventType = "rate_limit_triggered"
	EventCORSRejected       EventType = "cors_rejected"
	EventDispatchFailed     EventType = "dispatch_failed"
	EventServerError        EventType = "server_error"
)

// SecurityEvent represents a security-related event to be logged
type SecurityEvent struct {
	Timestamp    time.Time              `json:"timestamp"`
	Service      string                 `json:"service"`
	Environment  string                 `json:"env"`
	Event        EventType              `json:"event"`
	SubjectType  string                 `json:"subject_type,omitempty"`  // "email", "ip"
	SubjectValue string                 `json:"subject_value,omitempty"` // Masked or hashed for PII
	IP           string                 `json:"ip,omitempty"`
	UserAgent    string                 `json:"user_agent,omitempty"`
	RequestID    string                 `json:"request_id,omitempty"`
	Details      map[string]interface{} `json:"details,omitempty"`
}

// RequestMeta identifies the HTTP request an event came from.
type RequestMeta struct {
	IP        string
	UserAgent string
	RequestID string
}

// SecurityLogger provides structured logging for security events
type SecurityLogger struct {
	zapLogger   *zap.Logger
	serviceName string
	environment string
}

// InitSecurityLogger builds a production zap logger writing JSON to stdout.
func InitSecurityLogger(serviceName, environment string) *SecurityLogger {
	config := zap.NewProductionConfig()
	config.EncoderConfig.TimeKey = "timestamp"
	config.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	config.EncoderConfig.LevelKey = "level"
	config.EncoderConfig.MessageKey = "message"

	// Set output to stdout for container environments
	config.OutputPaths = []string{"stdout"}
	config.ErrorOutputPaths = []string{"stderr"}

	logger, err := config.Build(
		zap.AddCaller(),
		zap.AddStacktrace(zapcore.ErrorLevel),
	)
	if err != nil {
		logger, _ = zap.NewProduction()
	}

	return NewSecurityLogger(logger, serviceName, environment)
}

func NewSecurityLogger(logger *zap.Logger, serviceName, environment string) *SecurityLogger {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &SecurityLogger{
		zapLogger:   logger,
		serviceName: serviceName,
		environment: environment,
	}
}

// Log logs a security event. A nil logger is a no-op.
func (sl *SecurityLogger) Log(ctx context.Context, event SecurityEvent) {
	if sl == nil {
		return
	}
	if event.Timestamp.IsZero() {
		event.Timestamp = time.Now().UTC()
	}
	event.Service = sl.serviceName
	event.Environment = sl.environment

	level := GetSeverity(event.Event).zapLevel()

	fields := []zap.Field{
		zap.String("service", event.Service),
		zap.String("env", event.Environment),
		zap.String("event", string(event.Event)),
		zap.String("severity", string(GetSeverity(event.Event))),
	}
	if event.SubjectType != "" {
		fields = append(fields, zap.String("subject_type", event.SubjectType))
	}
	if event.SubjectValue != "" {
		fields = append(fields, zap.String("subject_value", event.SubjectValue))
	}
	if event.IP != "" {
		fields = append(fields, zap.String("ip", event.IP))
	}
	if event.UserAgent != "" {
		fields = append(fields, zap.String("user_agent", event.UserAgent))
	}
	if event.RequestID != "" {
		fields = append(fields, zap.String("request_id", event.RequestID))
	}
	if len(event.Details) > 0 {
		detailsJSON, _ := json.Marshal(event.Details)
		fields = append(fields, zap.String("details", string(detailsJSON)))
	}

	// The event's own timestamp becomes the entry time.
	if ce := sl.zapLogger.Check(level, string(event.Event)); ce != nil {
		ce.Time = event.Timestamp
		ce.Write(fields...)
	}
}

// LogRateLimitTriggered logs when rate limiting is triggered
func (sl *SecurityLogger) LogRateLimitTriggered(ctx context.Context, meta RequestMeta, endpoint string) {
	sl.Log(ctx, SecurityEvent{
		Event:        EventRateLimitTriggered,
		SubjectType:  "ip",
		SubjectValue: meta.IP,
		IP:           meta.IP,
		UserAgent:    meta.UserAgent,
		RequestID:    meta.RequestID,
		Details:      map[string]interface{}{"endpoint": endpoint},
	})
}

// LogValidationFailed records which fields were rejected, never their values.
func (sl *SecurityLogger) LogValidationFailed(ctx context.Context, meta RequestMeta, fields []string) {
	sl.Log(ctx, SecurityEvent{
		Event:     EventValidationFailed,
		IP:        meta.IP,
		UserAgent: meta.UserAgent,
		RequestID: meta.RequestID,
		Details:   map[string]interface{}{"fields": fields},
	})
}

func (sl *SecurityLogger) LogDispatchFailed(ctx context.Context, meta RequestMeta, email, reason string) {
	sl.Log(ctx, SecurityEvent{
		Event:        EventDispatchFailed,
		SubjectType:  "email",
		SubjectValue: MaskEmail(email),
		IP:           meta.IP,
		UserAgent:    meta.UserAgent,
		RequestID:    meta.RequestID,
		Details:      map[string]interface{}{"reason": reason},
	})
}

func (sl *SecurityLogger) LogSubmissionAccepted(ctx context.Context, meta RequestMeta, email, inquiryType string) {
	sl.Log(ctx, SecurityEvent{
		Event:        EventSubmissionAccepted,
		SubjectType:  "email",
		SubjectValue: MaskEmail(email),
		IP:           meta.IP,
		UserAgent:    meta.UserAgent,
		RequestID:    meta.RequestID,
		Details:      map[string]interface{}{"inquiry_type": inquiryType},
	})
}

func (sl *SecurityLogger) LogCORSRejected(ctx context.Context, meta RequestMeta, origin string) {
	sl.Log(ctx, SecurityEvent{
		Event:     EventCORSRejected,
		IP:        meta.IP,
		UserAgent: meta.UserAgent,
		RequestID: meta.RequestID,
		Details:   map[string]interface{}{"origin": origin},
	})
}

// LogServerError records that a request ended in a recovered panic.
func (sl *SecurityLogger) LogServerError(ctx context.Context, meta RequestMeta, path string) {
	sl.Log(ctx, SecurityEvent{
		Event:     EventServerError,
		IP:        meta.IP,
		UserAgent: meta.UserAgent,
		RequestID: meta.RequestID,
		Details:   map[string]interface{}{"path": path},
	})
}

// Sync flushes any buffered log entries
func (sl *SecurityLogger) Sync() error {
	if sl == nil {
		return nil
	}
	return sl.zapLogger.Sync()
}

// --- Helper Functions ---

// MaskEmail masks an email for logging (e.g., "j***@example.com")
func MaskEmail(email string) string {
	if len(email) < 3 {
		return "***"
	}
	atIndex := strings.IndexByte(email, '@')
	if atIndex <= 1 {
		return "***" + email[1:]
	}
	return string(email[0]) + "***" + email[atIndex:]
}

// HashValue creates a SHA256 hash of a value (for logging without PII)
func HashValue(value string) string {
	hash := sha256.Sum256([]byte(value))
	return hex.EncodeToString(hash[:8])
}
