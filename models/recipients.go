package models

import (
	"encoding/json"
	"fmt"
)

// Recipients decodes from either a single string or a list of strings
type Recipients []string

func (r *Recipients) UnmarshalJSON(data []byte) error {
	var single string
	if err := json.Unmarshal(data, &single); err == nil {
		if single == "" {
			*r = nil
		} else {
			*r = Recipients{single}
		}
		return nil
	}
	var list []string
	if err := json.Unmarshal(data, &list); err != nil {
		return fmt.Errorf("recipients must be a string or a list of strings")
	}
	*r = list
	return nil
}
