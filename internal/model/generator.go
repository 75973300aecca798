package model

// GenerateRequest represents a custom password generation request.
// Pointer fields allow distinguishing between missing (nil -> default) and explicit zero values.
type GenerateRequest struct {
	Length     *int  `json:"length"`
	Uppercase  *bool `json:"include_uppercase"`
	Lowercase  *bool `json:"include_lowercase"`
	Numbers    *bool `json:"include_numbers"`
	Symbols    *bool `json:"include_symbols"`
	AddHyphens bool  `json:"add_hyphens"`
}

// GenerateResponse represents a password generation response.
// Length counts password characters only, not separators.
type GenerateResponse struct {
	Password string `json:"password"`
	Length   int    `json:"length"`
	Preset   string `json:"preset,omitempty"`
}

// PresetInfo describes a named preset without generating a password.
type PresetInfo struct {
	Name        string   `json:"name"`
	Length      int      `json:"length"`
	CharsetSize int      `json:"charset_size"`
	SegmentSize int      `json:"segment_size,omitempty"`
	Rules       []string `json:"rules,omitempty"`
}
