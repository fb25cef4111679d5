package apiclient

import "encoding/json"

// Envelope is the response wrapper every API endpoint uses.
type Envelope[T any] struct {
	Success bool                `json:"success"`
	Message string              `json:"message"`
	Data    *T                  `json:"data,omitempty"`
	Errors  map[string][]string `json:"errors,omitempty"`
}

// rawEnvelope defers decoding of data until the caller's type is known.
type rawEnvelope = Envelope[json.RawMessage]

// FieldErrors flattens per-field validation errors into field -> first message.
func (e Envelope[T]) FieldErrors() map[string]string {
	if len(e.Errors) == 0 {
		return nil
	}
	out := make(map[string]string, len(e.Errors))
	for field, msgs := range e.Errors {
		if len(msgs) > 0 {
			out[field] = msgs[0]
		}
	}
	return out
}
