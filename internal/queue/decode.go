package queue

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
)

// ErrInvalidBatch is returned by Decode for input that is neither a
// {"rows": [...]} object nor a bare array of rows.
var ErrInvalidBatch = errors.New("invalid queue batch")

type envelope struct {
	Rows []Row `json:"rows"`
}

// Decode reads one batch. Both the create_update_queue body and a bare
// JSON array are accepted. Numbers decode as json.Number so large ids
// keep their precision.
func Decode(r io.Reader) ([]Row, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}
	data = bytes.TrimSpace(data)
	if len(data) == 0 {
		return nil, fmt.Errorf("%w: empty input", ErrInvalidBatch)
	}

	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()

	if data[0] == '[' {
		var rows []Row
		if err := dec.Decode(&rows); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrInvalidBatch, err)
		}
		return rows, nil
	}

	var env envelope
	if err := dec.Decode(&env); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidBatch, err)
	}
	return env.Rows, nil
}
