package types

// Settings holds the normalized user preferences
type Settings struct {
	AutosaveEnabled         bool `json:"autosaveEnabled"`
	AutosaveIntervalMinutes int  `json:"autosaveIntervalMinutes"`
	MaxSessions             int  `json:"maxSessions"`
}

// SettingsPatch is a partial settings update. Fields are untyped because
// front ends send strings, numbers and booleans interchangeably; a nil
// field leaves the current value untouched.
type SettingsPatch struct {
	AutosaveEnabled         any `json:"autosaveEnabled,omitempty"`
	AutosaveIntervalMinutes any `json:"autosaveIntervalMinutes,omitempty"`
	MaxSessions             any `json:"maxSessions,omitempty"`
}

// Alarm describes a scheduled recurring trigger
type Alarm struct {
	Name          string  `json:"name"`
	PeriodMinutes float64 `json:"periodInMinutes"`
}
