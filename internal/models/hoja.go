package models

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
)

// ErrNotSequence is returned when a save payload is not a JSON array.
var ErrNotSequence = errors.New("payload is not a sequence of hojas")

// Hoja is a single GoldFlow record. Only the "id" field is interpreted; every
// other field is carried through to the stores untouched.
type Hoja map[string]interface{}

// ID returns the hoja's identifier. ok is false when the field is missing,
// not a string, or empty.
func (h Hoja) ID() (id string, ok bool) {
	if h == nil {
		return "", false
	}
	id, ok = h["id"].(string)
	if !ok || id == "" {
		return "", false
	}
	return id, true
}

// DecodeHojas parses a save payload. It returns ErrNotSequence when the
// payload is not an array. Elements that are null, not objects, or lack a
// usable id are dropped without error; total is the length of the input array.
func DecodeHojas(raw json.RawMessage) (hojas []Hoja, total int, err error) {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 || trimmed[0] != '[' {
		return nil, 0, ErrNotSequence
	}

	var elems []json.RawMessage
	if err := json.Unmarshal(trimmed, &elems); err != nil {
		return nil, 0, fmt.Errorf("decode hojas: %w", err)
	}

	for _, elem := range elems {
		var h Hoja
		if err := json.Unmarshal(elem, &h); err != nil {
			continue
		}
		if _, ok := h.ID(); !ok {
			continue
		}
		hojas = append(hojas, h)
	}
	return hojas, len(elems), nil
}

// EncodeHojas serializes hojas the way the local store keeps them. A nil
// slice is written as an empty array.
func EncodeHojas(hojas []Hoja) (string, error) {
	if hojas == nil {
		hojas = []Hoja{}
	}
	b, err := json.Marshal(hojas)
	if err != nil {
		return "", fmt.Errorf("encode hojas: %w", err)
	}
	return string(b), nil
}
