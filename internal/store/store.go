// Package store holds the console's client-side state: one observable store
// per entity, each caching the most recent known upstream state plus the
// transient UI flags the browser needs (loading, error, open modals). Stores
// never own entity lifecycle; every mutation round-trips through the upstream
// API and the local collection is reconciled from the response.
package store

import (
	"sync"

	appErrors "github.com/edcenter/console-api/pkg/errors"
)

// state carries the request/UI status shared by every store. The zero value
// is ready to use. All fields are guarded by mu, which the embedding store
// also uses for its own collection.
type state struct {
	mu      sync.Mutex
	loading bool
	saving  bool
	errMsg  string

	// fetchGen orders fetches: a fetch records the generation at dispatch and
	// its continuation is dropped when the generation has moved on, so a slow
	// response can never overwrite fresher data. Mutations advance the
	// generation too, which also invalidates any in-flight list fetch.
	fetchGen uint64

	version uint64
	signal  chan struct{}
}

// beginFetch claims a new fetch generation and raises the loading flag.
func (s *state) beginFetch() uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.fetchGen++
	s.loading = true
	s.bump()
	return s.fetchGen
}

// current reports whether the given generation is still the latest. Callers
// must hold mu.
func (s *state) current(gen uint64) bool {
	return gen == s.fetchGen
}

// invalidateFetches advances the generation without starting a fetch, used by
// mutations after reconciling so stale list responses get dropped. The
// loading flag is lowered here because the discarded continuation never will.
// Callers must hold mu.
func (s *state) invalidateFetches() {
	s.fetchGen++
	s.loading = false
}

// bump records a state change and wakes watchers. Callers must hold mu.
func (s *state) bump() {
	s.version++
	if s.signal != nil {
		close(s.signal)
		s.signal = nil
	}
}

// Watch returns a channel closed on the next state change. Callers re-arm by
// calling Watch again after the channel fires.
func (s *state) Watch() <-chan struct{} {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.signal == nil {
		s.signal = make(chan struct{})
	}
	return s.signal
}

// Version returns the monotonically increasing change counter.
func (s *state) Version() uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.version
}

// Status is the request/UI portion of every snapshot.
type Status struct {
	Loading bool   `json:"loading"`
	Saving  bool   `json:"saving"`
	Error   string `json:"error,omitempty"`
	Version uint64 `json:"version"`
}

// status builds a Status. Callers must hold mu.
func (s *state) status() Status {
	return Status{
		Loading: s.loading,
		Saving:  s.saving,
		Error:   s.errMsg,
		Version: s.version,
	}
}

// message extracts the user-facing text for an upstream failure. Structured
// upstream messages arrive verbatim; transport failures already carry the
// generic fallback.
func message(err error) string {
	if err == nil {
		return ""
	}
	return appErrors.FromError(err).Message
}
