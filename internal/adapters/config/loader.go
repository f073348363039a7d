// Package config provides the configuration loader for robcache.
package config

import (
	"fmt"
	"os"
	"slices"

	"go.trai.ch/robcache/internal/core/domain"
	"go.trai.ch/robcache/internal/core/ports"
	"go.trai.ch/zerr"
	"gopkg.in/yaml.v3"
)

// DefaultFilename is the configuration file looked up when no path is given.
const DefaultFilename = "robcache.yaml"

// Gateway defaults applied when the file leaves them unset.
const (
	DefaultMaxSlots    = 1
	DefaultBatchSize   = 64
	DefaultMaxInFlight = 4
)

// Loader implements ports.ConfigLoader using a YAML file.
type Loader struct {
	Logger ports.Logger
}

// NewLoader creates a new configuration loader.
func NewLoader(log ports.Logger) *Loader {
	return &Loader{Logger: log}
}

var _ ports.ConfigLoader = (*Loader)(nil)

// Load reads and validates the configuration file at path.
func (l *Loader) Load(path string) (*domain.Config, error) {
	if path == "" {
		path = DefaultFilename
	}

	data, err := os.ReadFile(path) //nolint:gosec // path is provided by user
	if err != nil {
		return nil, zerr.With(zerr.Wrap(domain.ErrConfigReadFailed, err.Error()), "path", path)
	}

	var file Robcachefile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, zerr.With(zerr.Wrap(domain.ErrConfigParseFailed, err.Error()), "path", path)
	}

	cfg, err := l.toDomain(&file)
	if err != nil {
		return nil, zerr.With(err, "path", path)
	}
	return cfg, nil
}

func (l *Loader) toDomain(file *Robcachefile) (*domain.Config, error) {
	cfg := &domain.Config{
		MaxSlots:    file.MaxSlots,
		FilterEmpty: file.FilterEmptyFragments,
	}

	switch {
	case cfg.MaxSlots < 0:
		return nil, invalid("maxSlots", "must not be negative")
	case cfg.MaxSlots == 0:
		cfg.MaxSlots = DefaultMaxSlots
	}

	cfg.Enabled = l.fragmentIDs("enabledFragments", file.EnabledFragments)
	cfg.Mandatory = l.fragmentIDs("mandatoryFragments", file.MandatoryFragments)
	for _, id := range cfg.Mandatory {
		if !slices.Contains(cfg.Enabled, id) {
			return nil, zerr.With(
				zerr.Wrap(domain.ErrMandatoryNotEnabled, "mandatoryFragments must be a subset of enabledFragments"),
				"fragment", id.String(),
			)
		}
	}

	rules, err := toRules(file.ExclusionRules)
	if err != nil {
		return nil, err
	}
	cfg.Rules = rules

	if len(file.PrefetchGroups) > 0 {
		cfg.PrefetchGroups = make(map[string][]domain.FragmentID, len(file.PrefetchGroups))
		for name, members := range file.PrefetchGroups {
			if len(members) < 2 {
				return nil, invalid("prefetchGroups."+name, "a group needs at least two fragments")
			}
			cfg.PrefetchGroups[name] = l.fragmentIDs("prefetchGroups."+name, members)
		}
	}

	gw, err := toGateway(&file.Gateway)
	if err != nil {
		return nil, err
	}
	cfg.Gateway = gw

	return cfg, nil
}

// fragmentIDs converts raw ids, dropping repeats with a warning.
func (l *Loader) fragmentIDs(field string, raw []uint32) []domain.FragmentID {
	if len(raw) == 0 {
		return nil
	}
	out := make([]domain.FragmentID, 0, len(raw))
	for _, v := range raw {
		id := domain.FragmentID(v)
		if slices.Contains(out, id) {
			l.Logger.Warn("ignoring repeated fragment id", "field", field, "fragment", id.String())
			continue
		}
		out = append(out, id)
	}
	return out
}

func toRules(dtos []RuleDTO) ([]domain.ExclusionRule, error) {
	if len(dtos) == 0 {
		return nil, nil
	}
	rules := make([]domain.ExclusionRule, 0, len(dtos))
	for i, dto := range dtos {
		field := fmt.Sprintf("exclusionRules[%d]", i)

		action, ok := domain.ParseRuleAction(dto.Action)
		if !ok {
			return nil, zerr.With(
				zerr.With(zerr.Wrap(domain.ErrInvalidRuleAction, "unsupported action"), "field", field),
				"action", dto.Action,
			)
		}
		if dto.Source == 0 && dto.SubDetector == 0 {
			return nil, invalid(field, "a rule needs a source or a subDetector")
		}

		rules = append(rules, domain.ExclusionRule{
			Source:      domain.FragmentID(dto.Source),
			SubDetector: dto.SubDetector,
			StatusMask:  dto.StatusMask,
			Action:      action,
		})
	}
	return rules, nil
}

func toGateway(dto *GatewayDTO) (domain.GatewayConfig, error) {
	gw := domain.GatewayConfig{
		Kind:        domain.GatewayKind(dto.Kind),
		Timeout:     dto.Timeout,
		Endpoint:    dto.Endpoint,
		BatchSize:   dto.BatchSize,
		MaxInFlight: dto.MaxInFlight,
		Latency:     dto.Latency,
	}
	for _, v := range dto.Missing {
		gw.Missing = append(gw.Missing, domain.FragmentID(v))
	}
	for _, v := range dto.Corrupted {
		gw.Corrupted = append(gw.Corrupted, domain.FragmentID(v))
	}

	switch gw.Kind {
	case "":
		gw.Kind = domain.GatewayEmulator
	case domain.GatewayEmulator, domain.GatewayReplay:
	case domain.GatewayHTTP:
		if gw.Endpoint == "" {
			return gw, invalid("gateway.endpoint", "required for the http gateway")
		}
	default:
		return gw, zerr.With(zerr.Wrap(domain.ErrUnknownGatewayKind, "unsupported gateway"), "kind", dto.Kind)
	}

	if gw.Timeout < 0 {
		return gw, invalid("gateway.timeout", "must not be negative")
	}
	if gw.Latency < 0 {
		return gw, invalid("gateway.latency", "must not be negative")
	}

	switch {
	case gw.BatchSize < 0:
		return gw, invalid("gateway.batchSize", "must not be negative")
	case gw.BatchSize == 0:
		gw.BatchSize = DefaultBatchSize
	}
	switch {
	case gw.MaxInFlight < 0:
		return gw, invalid("gateway.maxInFlight", "must not be negative")
	case gw.MaxInFlight == 0:
		gw.MaxInFlight = DefaultMaxInFlight
	}

	return gw, nil
}

func invalid(field, reason string) error {
	return zerr.With(zerr.Wrap(domain.ErrInvalidConfig, reason), "field", field)
}
