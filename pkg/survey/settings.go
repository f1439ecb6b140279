package survey

import (
	"encoding/json"
	"math"
	"strings"

	"github.com/mesh-intelligence/census/pkg/types"
)

// Bounds accepted by SetVoterEligibilityAge.
const (
	MinVoterEligibilityAge = 1
	MaxVoterEligibilityAge = 100
)

// GetSetting returns the value stored under key, or def when the key is
// unset.
func (r *Repository) GetSetting(key string, def any) (any, error) {
	s, err := getRecord[types.Setting](r.store, types.SettingsCollection, key)
	if isMissing(err) {
		return def, nil
	}
	if err != nil {
		return nil, err
	}
	return s.Value, nil
}

// SetSetting stores value under key. value must be encodable as JSON.
func (r *Repository) SetSetting(key string, value any) error {
	return r.setSetting(r.store, key, value)
}

func (r *Repository) setSetting(c collections, key string, value any) error {
	if strings.TrimSpace(key) == "" {
		return types.Validationf("setting key is required")
	}
	settings, err := collection(c, types.SettingsCollection)
	if err != nil {
		return err
	}
	return settings.Put(&types.Setting{Key: key, Value: value})
}

// ListSettings returns every setting ordered by key.
func (r *Repository) ListSettings() ([]*types.Setting, error) {
	return listRecords[types.Setting](r.store, types.SettingsCollection)
}

// VoterEligibilityAge returns the configured voter eligibility age, or
// types.DefaultVoterEligibilityAge when unset or not a whole number.
func (r *Repository) VoterEligibilityAge() (int, error) {
	v, err := r.GetSetting(types.SettingVoterEligibilityAge, nil)
	if err != nil {
		return 0, err
	}
	if n, ok := wholeNumber(v); ok {
		return n, nil
	}
	return types.DefaultVoterEligibilityAge, nil
}

// SetVoterEligibilityAge stores the voter eligibility age.
func (r *Repository) SetVoterEligibilityAge(age int) error {
	if age < MinVoterEligibilityAge || age > MaxVoterEligibilityAge {
		return types.Validationf("voter eligibility age must be between %d and %d",
			MinVoterEligibilityAge, MaxVoterEligibilityAge)
	}
	return r.SetSetting(types.SettingVoterEligibilityAge, age)
}

func wholeNumber(v any) (int, bool) {
	switch n := v.(type) {
	case int:
		return n, true
	case int64:
		return int(n), true
	case float64:
		if n == math.Trunc(n) {
			return int(n), true
		}
	case json.Number:
		if i, err := n.Int64(); err == nil {
			return int(i), true
		}
	}
	return 0, false
}
