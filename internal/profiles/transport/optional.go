package transport

import "encoding/json"

// OptionalString records whether a nullable field was present in a PATCH
// body, so an explicit null can clear it.
type OptionalString struct {
	Value *string
	Set   bool
}

func (o OptionalString) IsZero() bool {
	return !o.Set
}

func (o *OptionalString) UnmarshalJSON(data []byte) error {
	o.Set = true
	if string(data) == "null" {
		o.Value = nil
		return nil
	}

	var raw string
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	o.Value = &raw
	return nil
}
