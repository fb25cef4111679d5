package auth

import (
	"bytes"
	"encoding/json"
	"errors"
)

// ExternalID is an identifier issued by the API. It decodes from a JSON
// string or number; numbers keep their literal text.
type ExternalID string

// UnmarshalJSON implements json.Unmarshaler.
func (id *ExternalID) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		*id = ""
		return nil
	}
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*id = ExternalID(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return errors.New("identifier must be a string or a number")
	}
	*id = ExternalID(n.String())
	return nil
}

func (id ExternalID) String() string { return string(id) }
