package domain

import "time"

// GatewayKind selects the FetchGateway variant used at runtime.
type GatewayKind string

const (
	// GatewayEmulator synthesises fragments locally.
	GatewayEmulator GatewayKind = "emulator"
	// GatewayReplay answers from a recorded event log.
	GatewayReplay GatewayKind = "replay"
	// GatewayHTTP talks to a remote readout server.
	GatewayHTTP GatewayKind = "http"
)

// GatewayConfig configures the FetchGateway.
type GatewayConfig struct {
	Kind        GatewayKind
	Timeout     time.Duration
	Endpoint    string
	BatchSize   int
	MaxInFlight int

	// Emulator settings.
	Latency   time.Duration
	Missing   []FragmentID
	Corrupted []FragmentID
}

// Config is the service configuration, loaded once at startup and read-only afterwards.
type Config struct {
	MaxSlots    int
	FilterEmpty bool
	Rules       []ExclusionRule
	Enabled     []FragmentID
	// Mandatory is the subset of Enabled required for completion.
	// Empty means every enabled id is mandatory.
	Mandatory      []FragmentID
	PrefetchGroups map[string][]FragmentID
	Gateway        GatewayConfig
}

// MandatoryIDs returns the ids that must be present for the event to be complete.
func (c *Config) MandatoryIDs() []FragmentID {
	if len(c.Mandatory) == 0 {
		return c.Enabled
	}
	return c.Mandatory
}
