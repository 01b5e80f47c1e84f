package models

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHoja_ID(t *testing.T) {
	cases := []struct {
		name string
		hoja Hoja
		want string
		ok   bool
	}{
		{"string id", Hoja{"id": "a"}, "a", true},
		{"nil hoja", nil, "", false},
		{"missing id", Hoja{"val": 1}, "", false},
		{"empty id", Hoja{"id": ""}, "", false},
		{"numeric id", Hoja{"id": float64(3)}, "", false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			id, ok := tc.hoja.ID()
			assert.Equal(t, tc.ok, ok)
			assert.Equal(t, tc.want, id)
		})
	}
}

func TestDecodeHojas_SkipsInvalidElements(t *testing.T) {
	raw := json.RawMessage(`[{"id":"a","val":1}, null, {"val":2}, "x", {"id":""}, {"id":"b"}]`)

	hojas, total, err := DecodeHojas(raw)
	require.NoError(t, err)
	assert.Equal(t, 6, total)
	require.Len(t, hojas, 2)
	assert.Equal(t, "a", hojas[0]["id"])
	assert.Equal(t, float64(1), hojas[0]["val"])
	assert.Equal(t, "b", hojas[1]["id"])
}

func TestDecodeHojas_NotSequence(t *testing.T) {
	for _, raw := range []string{`"not an array"`, `{"id":"a"}`, `42`, `null`, ``} {
		_, _, err := DecodeHojas(json.RawMessage(raw))
		assert.ErrorIs(t, err, ErrNotSequence, "payload %q", raw)
	}
}

func TestDecodeHojas_MalformedArray(t *testing.T) {
	_, _, err := DecodeHojas(json.RawMessage(`[{"id":"a"`))
	require.Error(t, err)
	assert.NotErrorIs(t, err, ErrNotSequence)
}

func TestEncodeHojas(t *testing.T) {
	s, err := EncodeHojas(nil)
	require.NoError(t, err)
	assert.Equal(t, "[]", s)

	s, err = EncodeHojas([]Hoja{{"id": "a"}, {"id": "b", "n": 2}})
	require.NoError(t, err)
	assert.JSONEq(t, `[{"id":"a"},{"id":"b","n":2}]`, s)
}
