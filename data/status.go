// Package data provides thread-safe storage for the latest AI provider
// connectivity snapshot. Health requests read the snapshot atomically and
// never wait on a probe.
package data

import (
	"sync/atomic"
	"time"

	"github.com/medsafe/medsafe-api/interfaces"
	"github.com/medsafe/medsafe-api/logging"
)

// Compile-time check to ensure StatusContainer implements StatusStore
var _ interfaces.StatusStore = (*StatusContainer)(nil)

// StatusContainer holds provider statuses behind atomic pointers so probe
// updates never block readers.
type StatusContainer struct {
	statuses        atomic.Value // []interfaces.ProviderStatus
	lastChecked     atomic.Value // time.Time
	probing         atomic.Bool
	serverStartTime atomic.Value // time.Time
}

// NewStatusContainer creates a new StatusContainer with empty data
func NewStatusContainer() *StatusContainer {
	sc := &StatusContainer{}
	sc.statuses.Store(make([]interfaces.ProviderStatus, 0))
	sc.lastChecked.Store(time.Time{})
	sc.serverStartTime.Store(time.Time{})
	return sc
}

// GetStatuses returns the latest provider statuses
func (sc *StatusContainer) GetStatuses() []interfaces.ProviderStatus {
	if v := sc.statuses.Load(); v != nil {
		if statuses, ok := v.([]interfaces.ProviderStatus); ok {
			return statuses
		}
	}

	logging.Warn("Provider status list is empty or invalid")
	return []interfaces.ProviderStatus{}
}

// GetLastChecked returns the timestamp of the last completed probe
func (sc *StatusContainer) GetLastChecked() time.Time {
	if v := sc.lastChecked.Load(); v != nil {
		if lastChecked, ok := v.(time.Time); ok {
			return lastChecked
		}
	}

	logging.Warn("Could not get the last checked value")
	return time.Time{}
}

// IsProbing returns true if a connectivity probe is currently in progress
func (sc *StatusContainer) IsProbing() bool {
	return sc.probing.Load()
}

// SetServerStartTime sets the server start time
func (sc *StatusContainer) SetServerStartTime(startTime time.Time) {
	sc.serverStartTime.Store(startTime)
}

// GetServerStartTime returns the server start time
func (sc *StatusContainer) GetServerStartTime() time.Time {
	if v := sc.serverStartTime.Load(); v != nil {
		if startTime, ok := v.(time.Time); ok {
			return startTime
		}
	}

	logging.Warn("Could not get the server start time value")
	return time.Time{}
}

// UpdateStatuses atomically replaces the provider status snapshot
func (sc *StatusContainer) UpdateStatuses(statuses []interfaces.ProviderStatus) {
	sc.statuses.Store(statuses)
	sc.lastChecked.Store(time.Now())
}

// BeginProbe marks the start of a connectivity probe.
// Returns true if the probe can proceed, false if another probe is in progress
func (sc *StatusContainer) BeginProbe() bool {
	return sc.probing.CompareAndSwap(false, true)
}

// EndProbe marks the end of a connectivity probe
func (sc *StatusContainer) EndProbe() {
	sc.probing.Store(false)
}
