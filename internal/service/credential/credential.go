// Package credential tracks the upstream API credential shared by every
// edit request. The state is process-wide: a single key, either usable or
// invalidated. A fatal authorization failure during a run invalidates it,
// and no further runs can start until a new key is supplied.
package credential

import (
	"log/slog"
	"sync"
)

// State holds the current API key and whether it is believed usable.
// All methods are safe for concurrent use.
type State struct {
	mu     sync.Mutex
	apiKey string
	usable bool
	logger *slog.Logger
}

// NewState creates a credential state seeded with the given key. An empty
// key starts out unusable; callers must Set a key before runs can start.
func NewState(apiKey string, logger *slog.Logger) *State {
	if logger == nil {
		logger = slog.Default()
	}
	return &State{
		apiKey: apiKey,
		usable: apiKey != "",
		logger: logger.With(slog.String("component", "credential")),
	}
}

// Usable reports whether a key is present and has not been invalidated.
func (s *State) Usable() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.usable
}

// APIKey returns the current key. Callers should check Usable first; an
// invalidated key is still returned so diagnostics can reference it.
func (s *State) APIKey() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.apiKey
}

// Set replaces the key and marks the credential usable again.
func (s *State) Set(apiKey string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.apiKey = apiKey
	s.usable = apiKey != ""
	s.logger.Info("credential updated", slog.Bool("usable", s.usable))
}

// Invalidate marks the credential unusable after the upstream service
// rejected it. The key itself is kept so the operator can see what was
// rejected; Set installs a replacement.
func (s *State) Invalidate() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.usable {
		return
	}
	s.usable = false
	s.logger.Warn("credential invalidated after authorization rejection")
}
