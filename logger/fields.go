package logger

import (
	"time"
)

// Standard field key constants for structured logging.
const (
	FieldComponent = "component"
	FieldTraceID   = "trace_id"
	FieldSpanID    = "span_id"
	FieldOperation = "operation"
	FieldError     = "error"
	FieldDuration  = "duration_ms"
	FieldSequence  = "sequence"
	FieldPassID    = "pass_id"
	FieldPulled    = "pulled"
	FieldBranch    = "branch"
	FieldBuffered  = "buffered"
)

// Fields builds a map[string]interface{} from alternating key-value pairs.
//
//	logger.Info("split", logger.Fields("branches", 3, "source", "orders"))
func Fields(kvs ...interface{}) map[string]interface{} {
	m := make(map[string]interface{}, len(kvs)/2)
	for i := 0; i < len(kvs)-1; i += 2 {
		if key, ok := kvs[i].(string); ok {
			m[key] = kvs[i+1]
		}
	}
	return m
}

// ErrorFields creates fields for an operation that failed.
func ErrorFields(op string, err error) map[string]interface{} {
	return map[string]interface{}{
		FieldOperation: op,
		FieldError:     err.Error(),
	}
}

// DurationFields creates fields for a timed operation.
func DurationFields(op string, d time.Duration) map[string]interface{} {
	return map[string]interface{}{
		FieldOperation: op,
		FieldDuration:  d.Milliseconds(),
	}
}

// PassFields creates fields describing one finished pass over a sequence.
func PassFields(sequence, passID string, pulled int64, d time.Duration) map[string]interface{} {
	return map[string]interface{}{
		FieldSequence: sequence,
		FieldPassID:   passID,
		FieldPulled:   pulled,
		FieldDuration: d.Milliseconds(),
	}
}
