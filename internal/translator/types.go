package translator

// TranslateRequest carries one translation call. SourceLang may be empty,
// which delegates detection to the service.
type TranslateRequest struct {
	Text       string `json:"text"`
	SourceLang string `json:"source_lang,omitempty"`
	TargetLang string `json:"target_lang"`
}

// TranslateResult is the service's answer. DetectedSourceLang is whichever
// source was actually used: the caller-supplied code or the detected one.
type TranslateResult struct {
	Text               string `json:"text"`
	DetectedSourceLang string `json:"detected_source_lang"`
}

// Usage is a point-in-time snapshot of the account's character quota.
type Usage struct {
	CharacterCount int64 `json:"character_count"`
	CharacterLimit int64 `json:"character_limit"`
}

// Percentage of the quota consumed, clamped to [0, 100]. A reported limit
// of zero means there is nothing left to spend and reads as 100.
func (u Usage) Percentage() float64 {
	if u.CharacterLimit == 0 {
		return 100
	}
	pct := float64(u.CharacterCount) / float64(u.CharacterLimit) * 100
	if pct < 0 {
		return 0
	}
	if pct > 100 {
		return 100
	}
	return pct
}

// Remaining characters before the quota is exhausted, never negative.
func (u Usage) Remaining() int64 {
	if r := u.CharacterLimit - u.CharacterCount; r > 0 {
		return r
	}
	return 0
}
