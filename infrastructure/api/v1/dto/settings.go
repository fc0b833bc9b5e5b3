package dto

// SettingsResponse lists every known setting.
type SettingsResponse struct {
	Settings map[string]string `json:"settings"`
	Ignored  []string          `json:"ignored,omitempty"`
}
