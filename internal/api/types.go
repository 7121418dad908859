package api

import "time"

// TranslateResponse represents the response payload for inline translation
type TranslateResponse struct {
	Original    string `json:"original"`
	Translation string `json:"translation"`
	TargetLang  string `json:"target_lang"`
	Cached      bool   `json:"cached"`
}

// SessionResponse represents the response payload for session creation
type SessionResponse struct {
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expires_at"`
	SessionID string    `json:"session_id"`
}

// LanguageInfo describes one selectable target language
type LanguageInfo struct {
	Key       string `json:"key"`
	Name      string `json:"name"`
	TutorName string `json:"tutor_name"`
	Code      string `json:"code"`
	DeepLCode string `json:"deepl_code"`
}

// MotherTongueInfo describes one selectable mother tongue
type MotherTongueInfo struct {
	Key       string `json:"key"`
	Name      string `json:"name"`
	DeepLCode string `json:"deepl_code"`
}

// LanguagesResponse lists the selectable language pairs and defaults
type LanguagesResponse struct {
	TargetLanguages     []LanguageInfo     `json:"target_languages"`
	MotherTongues       []MotherTongueInfo `json:"mother_tongues"`
	DefaultTarget       string             `json:"default_target"`
	DefaultMotherTongue string             `json:"default_mother_tongue"`
}

// HealthResponse reports service readiness
type HealthResponse struct {
	Status     string `json:"status"`
	Service    string `json:"service"`
	Database   string `json:"database"`
	Translator string `json:"translator"`
}

// ErrorResponse represents an error response
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
}
