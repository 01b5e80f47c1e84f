package localstore

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/Lllllllleong/goldflowsync/internal/models"
)

// HojaStore keeps the hoja array serialized under a single key.
type HojaStore struct {
	kv  KV
	key string
}

func NewHojaStore(kv KV, key string) *HojaStore {
	if key == "" {
		key = DefaultKey
	}
	return &HojaStore{kv: kv, key: key}
}

func (s *HojaStore) Key() string { return s.key }

// Save is the authoritative local save. The payload is stored as given, array
// or not; it only has to be valid JSON.
func (s *HojaStore) Save(ctx context.Context, raw json.RawMessage) error {
	if !json.Valid(raw) {
		return ErrInvalidJSON
	}
	if err := s.kv.SetItem(ctx, s.key, string(raw)); err != nil {
		return err
	}
	slog.Debug("Hojas saved locally.", "key", s.key, "bytes", len(raw))
	return nil
}

// Raw returns the stored value, "[]" when nothing has been stored yet.
func (s *HojaStore) Raw(ctx context.Context) (string, error) {
	value, ok, err := s.kv.GetItem(ctx, s.key)
	if err != nil {
		return "", err
	}
	if !ok {
		return "[]", nil
	}
	return value, nil
}

// Load decodes the stored array. A stored value that is not an array of
// objects is reported as an error.
func (s *HojaStore) Load(ctx context.Context) ([]models.Hoja, error) {
	raw, err := s.Raw(ctx)
	if err != nil {
		return nil, err
	}
	var hojas []models.Hoja
	if err := json.Unmarshal([]byte(raw), &hojas); err != nil {
		return nil, fmt.Errorf("failed to decode %s: %w", s.key, err)
	}
	return hojas, nil
}

// Replace overwrites the stored array with hojas in full.
func (s *HojaStore) Replace(ctx context.Context, hojas []models.Hoja) error {
	value, err := models.EncodeHojas(hojas)
	if err != nil {
		return err
	}
	return s.kv.SetItem(ctx, s.key, value)
}
