package types

// Setting is a process-wide configuration value. Value holds any JSON value.
type Setting struct {
	Key   string `json:"key"`
	Value any    `json:"value"`
}

// Well-known setting keys.
const (
	SettingVoterEligibilityAge = "voterEligibilityAge"
)

// DefaultVoterEligibilityAge applies when SettingVoterEligibilityAge is unset.
const DefaultVoterEligibilityAge = 18
