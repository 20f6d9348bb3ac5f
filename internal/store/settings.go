package store

import (
	"database/sql"
	"errors"
	"fmt"
	"strconv"
	"time"
)

// Setting keys for the tracking tuning values.
const (
	KeySensitivity  = "tracking.sensitivity"
	KeySmoothWindow = "tracking.smooth_window"
	KeyPinchMin     = "tracking.pinch_min"
	KeyPinchMax     = "tracking.pinch_max"
)

// Tuning bundles the runtime-adjustable tracking parameters.
type Tuning struct {
	Sensitivity  float64 `json:"sensitivity"`
	SmoothWindow int     `json:"smooth_window"`
	PinchMin     float64 `json:"pinch_min"`
	PinchMax     float64 `json:"pinch_max"`
}

// Validate checks that the tuning values are usable.
func (t Tuning) Validate() error {
	if t.Sensitivity <= 0 {
		return fmt.Errorf("sensitivity must be positive, got %g", t.Sensitivity)
	}
	if t.SmoothWindow < 1 || t.SmoothWindow > 120 {
		return fmt.Errorf("smooth_window must be in [1,120], got %d", t.SmoothWindow)
	}
	if t.PinchMin < 0 || t.PinchMin >= t.PinchMax || t.PinchMax > 1 {
		return fmt.Errorf("pinch range must satisfy 0 <= min < max <= 1, got [%g, %g]", t.PinchMin, t.PinchMax)
	}
	return nil
}

// SettingsRepository provides access to persisted settings.
type SettingsRepository struct {
	db *sql.DB
}

// Settings returns the settings repository for this store.
func (s *Store) Settings() *SettingsRepository {
	return &SettingsRepository{db: s.db}
}

// Get retrieves a setting value by key.
func (r *SettingsRepository) Get(key string) (string, error) {
	var value string
	err := r.db.QueryRow(`SELECT value FROM settings WHERE key = ?`, key).Scan(&value)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return "", ErrNotFound
		}
		return "", err
	}
	return value, nil
}

// Set stores a setting value, replacing any existing value for the key.
func (r *SettingsRepository) Set(key, value string) error {
	_, err := r.db.Exec(
		`INSERT INTO settings (key, value, updated_at) VALUES (?, ?, ?)
		 ON CONFLICT(key) DO UPDATE SET value = excluded.value, updated_at = excluded.updated_at`,
		key, value, time.Now(),
	)
	return err
}

// LoadTuning reads the persisted tuning, filling in the given defaults
// for keys that have never been saved.
func (r *SettingsRepository) LoadTuning(defaults Tuning) (Tuning, error) {
	t := defaults

	if v, err := r.getFloat(KeySensitivity); err == nil {
		t.Sensitivity = v
	} else if !errors.Is(err, ErrNotFound) {
		return t, err
	}

	if v, err := r.getInt(KeySmoothWindow); err == nil {
		t.SmoothWindow = v
	} else if !errors.Is(err, ErrNotFound) {
		return t, err
	}

	if v, err := r.getFloat(KeyPinchMin); err == nil {
		t.PinchMin = v
	} else if !errors.Is(err, ErrNotFound) {
		return t, err
	}

	if v, err := r.getFloat(KeyPinchMax); err == nil {
		t.PinchMax = v
	} else if !errors.Is(err, ErrNotFound) {
		return t, err
	}

	return t, nil
}

// SaveTuning persists all tuning values.
func (r *SettingsRepository) SaveTuning(t Tuning) error {
	values := map[string]string{
		KeySensitivity:  strconv.FormatFloat(t.Sensitivity, 'g', -1, 64),
		KeySmoothWindow: strconv.Itoa(t.SmoothWindow),
		KeyPinchMin:     strconv.FormatFloat(t.PinchMin, 'g', -1, 64),
		KeyPinchMax:     strconv.FormatFloat(t.PinchMax, 'g', -1, 64),
	}

	for key, value := range values {
		if err := r.Set(key, value); err != nil {
			return fmt.Errorf("save %s: %w", key, err)
		}
	}
	return nil
}

func (r *SettingsRepository) getFloat(key string) (float64, error) {
	raw, err := r.Get(key)
	if err != nil {
		return 0, err
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return 0, fmt.Errorf("setting %s is not a number: %w", key, err)
	}
	return v, nil
}

func (r *SettingsRepository) getInt(key string) (int, error) {
	raw, err := r.Get(key)
	if err != nil {
		return 0, err
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return 0, fmt.Errorf("setting %s is not an integer: %w", key, err)
	}
	return v, nil
}
