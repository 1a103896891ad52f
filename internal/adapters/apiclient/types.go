package apiclient

import (
	"bytes"
	"encoding/json"
	"strconv"
)

// textID decodes an id sent as a number, a string or null into its string form.
type textID string

func (t *textID) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if bytes.Equal(b, []byte("null")) {
		*t = ""
		return nil
	}
	if len(b) > 0 && b[0] == '"' {
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		*t = textID(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(b, &n); err != nil {
		return err
	}
	*t = textID(n.String())
	return nil
}

// truthy decodes booleans and the 0/1 integers some backends store flags as.
type truthy bool

func (v *truthy) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	switch string(b) {
	case "true":
		*v = true
		return nil
	case "false", "null":
		*v = false
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(b, &n); err == nil {
		f, err := strconv.ParseFloat(n.String(), 64)
		if err != nil {
			return err
		}
		*v = f != 0
		return nil
	}
	var s string
	if err := json.Unmarshal(b, &s); err != nil {
		return err
	}
	*v = s != "" && s != "0" && s != "false"
	return nil
}
