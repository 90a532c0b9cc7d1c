package dispatch

import (
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"phantomsync/internal/accounts"
	"phantomsync/internal/model"
	"phantomsync/internal/uploader"
)

// Version is one immutable generation of the account configuration.
type Version struct {
	N      uint64
	Config *accounts.Configuration
}

// State holds the current configuration version. Readers take a Version once
// per operation; Reload swaps in a new one without touching the old.
type State struct {
	current atomic.Pointer[Version]
	seq     atomic.Uint64
}

func NewState(cfg *accounts.Configuration) *State {
	s := &State{}
	s.Replace(cfg)
	return s
}

func (s *State) Current() *Version {
	return s.current.Load()
}

func (s *State) Replace(cfg *accounts.Configuration) *Version {
	v := &Version{N: s.seq.Add(1), Config: cfg}
	s.current.Store(v)
	return v
}

// Reload loads the configuration file again. On failure the current version
// stays in place.
func (s *State) Reload() (*Version, error) {
	cfg, err := accounts.Load(s.Current().Config.Path)
	if err != nil {
		return nil, fmt.Errorf("failed to reload configuration: %w", err)
	}

	return s.Replace(cfg), nil
}

// Stats counts dispatch results for the status endpoint.
type Stats struct {
	mu         sync.RWMutex
	startedAt  time.Time
	uploaded   int
	failed     int
	notFound   int
	lastUpload *time.Time
}

func NewStats() *Stats {
	return &Stats{startedAt: time.Now()}
}

func (s *Stats) RecordOutcome(out uploader.Outcome) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.lastUpload = new(time.Now())
	if out.OK() {
		s.uploaded++
	} else {
		s.failed++
	}
}

func (s *Stats) RecordNotFound() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.notFound++
}

func (s *Stats) Snapshot(v *Version) model.StatusSnapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()

	snap := model.StatusSnapshot{
		StartedAt:  s.startedAt,
		Uploaded:   s.uploaded,
		Failed:     s.failed,
		NotFound:   s.notFound,
		LastUpload: s.lastUpload,
	}

	if v != nil {
		snap.ConfigPath = v.Config.Path
		snap.ConfigVersion = v.N
		snap.LoadedAt = v.Config.LoadedAt
		snap.Accounts = len(v.Config.Accounts)
		for _, a := range v.Config.Accounts {
			snap.Scripts += len(a.Scripts)
		}
	}

	return snap
}
