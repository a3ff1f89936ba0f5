package domain

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// ID identifies a record. Assets use both numeric and string ids, so ids are
// decoded from either and always compared as strings.
type ID string

func (id *ID) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if bytes.Equal(b, []byte("null")) {
		*id = ""
		return nil
	}
	if len(b) > 0 && b[0] == '"' {
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		*id = ID(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(b, &n); err != nil {
		return fmt.Errorf("id must be a string or number: %w", err)
	}
	*id = ID(n.String())
	return nil
}

func (id ID) String() string {
	return string(id)
}

// IndexID builds the id given to records that have none: prefix-(index+1).
func IndexID(prefix string, index int) ID {
	return ID(fmt.Sprintf("%s-%d", prefix, index+1))
}
