package librarystore

import (
	jsoniter "github.com/json-iterator/go"
)

// Outcome is the uniform result every operation is reduced to at a process
// boundary: a success flag, and either a payload (for reads) or a
// human-readable failure reason. Engine methods themselves return errors;
// Outcome is how those results travel across CLI, RPC or UI boundaries
// without leaking Go error values.
type Outcome struct {
	OK      bool   `json:"ok"`
	Class   string `json:"class,omitempty"`
	Message string `json:"message,omitempty"`
	Payload any    `json:"payload,omitempty"`
}

// OutcomeFromError converts an operation error into an Outcome.
// A nil error yields a successful Outcome without payload.
func OutcomeFromError(err error) Outcome {
	if err == nil {
		return Outcome{OK: true}
	}

	return Outcome{
		OK:      false,
		Class:   Classify(err).String(),
		Message: err.Error(),
	}
}

// OutcomeWithPayload converts the result of a read operation into an Outcome,
// attaching the payload only on success.
func OutcomeWithPayload(payload any, err error) Outcome {
	outcome := OutcomeFromError(err)
	if outcome.OK {
		outcome.Payload = payload
	}

	return outcome
}

// MarshalJSON serializes the Outcome with jsoniter's fastest config.
func (o Outcome) MarshalJSON() ([]byte, error) {
	type plain Outcome // avoid recursing into this method

	return jsoniter.ConfigFastest.Marshal(plain(o))
}
