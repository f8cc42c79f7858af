package logger

import (
	"strings"

	"go.uber.org/zap"
)

const (
	// FieldJobID is the structured log field key for the analysis job identifier.
	FieldJobID = "job_id"
	// FieldAttempt is the structured log field key for the status query attempt.
	FieldAttempt = "attempt"
	// FieldState is the structured log field key for the job state.
	FieldState = "state"
	// FieldCandidateID is the structured log field key for a candidate identifier.
	FieldCandidateID = "candidate_id"
)

// StringField describes a string-valued structured logging field.
type StringField struct {
	Key   string
	Value string
}

// StringFields converts the provided key/value pairs into zap fields, trimming
// whitespace and omitting entries with empty keys or values.
func StringFields(fields ...StringField) []zap.Field {
	result := make([]zap.Field, 0, len(fields))
	for _, field := range fields {
		key := strings.TrimSpace(field.Key)
		if key == "" {
			continue
		}

		value := strings.TrimSpace(field.Value)
		if value == "" {
			continue
		}

		result = append(result, zap.String(key, value))
	}

	return result
}

// WithFields attaches fields to the logger, defaulting to a no-op logger when nil.
func WithFields(logger *zap.Logger, fields ...zap.Field) *zap.Logger {
	logger = OrNop(logger)

	if len(fields) == 0 {
		return logger
	}

	return logger.With(fields...)
}

// WithJob scopes the logger to a single analysis job.
func WithJob(logger *zap.Logger, jobID string) *zap.Logger {
	return WithFields(logger, StringFields(StringField{Key: FieldJobID, Value: jobID})...)
}
