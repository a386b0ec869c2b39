package service

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// UnmarshalJSON accepts the task id under "id" or "_id", as a string or a number.
func (t *Task) UnmarshalJSON(data []byte) error {
	var raw struct {
		ID        json.RawMessage `json:"id"`
		DocID     json.RawMessage `json:"_id"`
		Text      string          `json:"text"`
		Completed bool            `json:"completed"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}

	id, err := decodeID(raw.ID)
	if err != nil {
		return err
	}
	if id == "" {
		if id, err = decodeID(raw.DocID); err != nil {
			return err
		}
	}

	*t = Task{ID: id, Text: raw.Text, Completed: raw.Completed}
	return nil
}

func decodeID(raw json.RawMessage) (string, error) {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || bytes.Equal(raw, []byte("null")) {
		return "", nil
	}
	if raw[0] == '"' {
		var s string
		if err := json.Unmarshal(raw, &s); err != nil {
			return "", err
		}
		return s, nil
	}
	var n json.Number
	if err := json.Unmarshal(raw, &n); err != nil {
		return "", fmt.Errorf("invalid task id %s", raw)
	}
	return n.String(), nil
}
