// Package wellness keeps the last logged sleep and meditation figures and
// the user's display name alongside the habit collection.
package wellness

import (
	"encoding/json"
	stderrors "errors"
	"fmt"
	"math"
	"strings"

	"github.com/julianstephens/habitual/internal/constants"
	"github.com/julianstephens/habitual/internal/errors"
	"github.com/julianstephens/habitual/internal/logger"
	"github.com/julianstephens/habitual/internal/storage"
)

// Log reads and writes wellness values through a storage provider.
type Log struct {
	provider storage.Provider
}

func New(provider storage.Provider) *Log {
	return &Log{provider: provider}
}

// Stats is the last value logged for each measure. Nil means never logged.
type Stats struct {
	SleepHours        *float64 `json:"sleepHours"`
	MeditationMinutes *float64 `json:"meditationMinutes"`
}

// LogSleep records hours slept, replacing the previous value.
func (l *Log) LogSleep(hours float64) error {
	if err := validateAmount("hours", hours, 24); err != nil {
		return err
	}
	return l.setNumber(constants.SleepKey, hours)
}

// LogMeditation records minutes meditated, replacing the previous value.
func (l *Log) LogMeditation(minutes float64) error {
	if err := validateAmount("minutes", minutes, 24*60); err != nil {
		return err
	}
	return l.setNumber(constants.MeditationKey, minutes)
}

// Stats returns the last logged values.
func (l *Log) Stats() (Stats, error) {
	var s Stats
	var err error
	if s.SleepHours, err = l.getNumber(constants.SleepKey); err != nil {
		return Stats{}, err
	}
	if s.MeditationMinutes, err = l.getNumber(constants.MeditationKey); err != nil {
		return Stats{}, err
	}
	return s, nil
}

// UserName returns the stored display name, or the default when unset.
func (l *Log) UserName() (string, error) {
	data, err := l.provider.Get(constants.UserNameKey)
	if err != nil {
		if stderrors.Is(err, storage.ErrNotFound) {
			return constants.DefaultUserName, nil
		}
		return "", &errors.PersistenceError{Op: "load", Key: constants.UserNameKey, Err: err}
	}
	name := strings.TrimSpace(string(data))
	if name == "" {
		return constants.DefaultUserName, nil
	}
	return name, nil
}

// SetUserName stores a trimmed, non-empty display name.
func (l *Log) SetUserName(name string) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return &errors.ValidationError{Field: "name", Message: "cannot be empty"}
	}
	if err := l.provider.Set(constants.UserNameKey, []byte(name)); err != nil {
		logger.Error("Failed to save name", "error", err)
		return &errors.PersistenceError{Op: "save", Key: constants.UserNameKey, Err: err}
	}
	return nil
}

func validateAmount(field string, v, limit float64) error {
	if math.IsNaN(v) || math.IsInf(v, 0) || v <= 0 {
		return &errors.ValidationError{Field: field, Message: "must be a positive number"}
	}
	if v > limit {
		return &errors.ValidationError{Field: field, Message: fmt.Sprintf("must not exceed %g", limit)}
	}
	return nil
}

func (l *Log) setNumber(key string, v float64) error {
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("failed to encode %s: %w", key, err)
	}
	if err := l.provider.Set(key, data); err != nil {
		logger.Error("Failed to save wellness value", "key", key, "error", err)
		return &errors.PersistenceError{Op: "save", Key: key, Err: err}
	}
	logger.Debug("Logged wellness value", "key", key, "value", v)
	return nil
}

func (l *Log) getNumber(key string) (*float64, error) {
	data, err := l.provider.Get(key)
	if err != nil {
		if stderrors.Is(err, storage.ErrNotFound) {
			return nil, nil
		}
		return nil, &errors.PersistenceError{Op: "load", Key: key, Err: err}
	}
	if len(data) == 0 {
		return nil, nil
	}
	var v float64
	if err := json.Unmarshal(data, &v); err != nil {
		return nil, &errors.PersistenceError{Op: "load", Key: key, Err: err}
	}
	return &v, nil
}
