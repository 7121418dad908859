package domain

import "errors"

// ErrTranslatorNotConfigured indicates the translation provider has no
// credential configured. Client-correctable: fix the deployment config.
var ErrTranslatorNotConfigured = errors.New("translation provider is not configured")

// ErrCacheNotConnected indicates a cache operation was attempted before
// Connect succeeded. This is a precondition violation, not a transient
// failure.
var ErrCacheNotConnected = errors.New("translation cache is not connected")
