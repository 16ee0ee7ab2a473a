package course

import "encoding/json"

// failure is the wire shape of a failed outcome.
type failure struct {
	Code  string `json:"code"`
	Error string `json:"error"`
}

// MarshalJSON encodes a successful outcome as the record itself and a failed
// outcome as {"code": ..., "error": ...}, matching the snapshot and batch
// response formats.
func (o Outcome) MarshalJSON() ([]byte, error) {
	if o.Record != nil {
		return json.Marshal(o.Record)
	}
	return json.Marshal(failure{Code: o.Code, Error: o.Err})
}
