package entities

import "time"

// TranslationRecord is a cached translation keyed by (Text, TargetLang).
// The pair is unique in storage; a write for an existing pair overwrites
// the translation and refreshes both timestamps.
type TranslationRecord struct {
	Text         string    `json:"text" bson:"text"`
	TargetLang   string    `json:"target_lang" bson:"target_lang"`
	Translation  string    `json:"translation" bson:"translation"`
	CreatedAt    time.Time `json:"created_at" bson:"created_at"`
	LastAccessed time.Time `json:"last_accessed" bson:"last_accessed"`
}
