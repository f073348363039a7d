package config

import "time"

// Robcachefile represents the structure of the robcache.yaml configuration file.
type Robcachefile struct {
	MaxSlots             int                 `yaml:"maxSlots"`
	FilterEmptyFragments bool                `yaml:"filterEmptyFragments"`
	EnabledFragments     []uint32            `yaml:"enabledFragments"`
	MandatoryFragments   []uint32            `yaml:"mandatoryFragments"`
	ExclusionRules       []RuleDTO           `yaml:"exclusionRules"`
	PrefetchGroups       map[string][]uint32 `yaml:"prefetchGroups"`
	Gateway              GatewayDTO          `yaml:"gateway"`
}

// RuleDTO represents an exclusion rule in the configuration.
type RuleDTO struct {
	Source      uint32 `yaml:"source"`
	SubDetector uint8  `yaml:"subDetector"`
	StatusMask  uint32 `yaml:"statusMask"`
	Action      string `yaml:"action"`
}

// GatewayDTO represents the fetch gateway section of the configuration.
type GatewayDTO struct {
	Kind        string        `yaml:"kind"`
	Timeout     time.Duration `yaml:"timeout"`
	Endpoint    string        `yaml:"endpoint"`
	BatchSize   int           `yaml:"batchSize"`
	MaxInFlight int           `yaml:"maxInFlight"`
	Latency     time.Duration `yaml:"latency"`
	Missing     []uint32      `yaml:"missing"`
	Corrupted   []uint32      `yaml:"corrupted"`
}
