package domain

import "strings"

// RuleAction is what an ExclusionRule does to a matching fragment.
type RuleAction string

const (
	// RuleDrop keeps matching fragments out of the cache.
	RuleDrop RuleAction = "drop"
	// RuleKeepAsEmpty caches matching fragments flagged as empty.
	RuleKeepAsEmpty RuleAction = "keepAsEmpty"
)

// ParseRuleAction converts a configured action name to a RuleAction.
// An empty name defaults to RuleDrop.
func ParseRuleAction(s string) (RuleAction, bool) {
	switch strings.ToLower(s) {
	case "", "drop":
		return RuleDrop, true
	case "keepasempty", "keep-as-empty", "empty":
		return RuleKeepAsEmpty, true
	default:
		return "", false
	}
}

// Classification maps the action to a filter verdict.
func (a RuleAction) Classification() Classification {
	if a == RuleKeepAsEmpty {
		return KeepAsEmpty
	}
	return Drop
}

// ExclusionRule selects fragments by source id (or by sub-detector when Source
// is zero) and status bits.
type ExclusionRule struct {
	Source      FragmentID
	SubDetector uint8
	// StatusMask of zero matches any status.
	StatusMask uint32
	Action     RuleAction
}

// Matches reports whether the rule applies to f.
func (r ExclusionRule) Matches(f *Fragment) bool {
	if r.Source != 0 {
		if f.ID != r.Source {
			return false
		}
	} else if f.SubDetector() != r.SubDetector {
		return false
	}
	if r.StatusMask == 0 {
		return true
	}
	return f.StatusWord()&r.StatusMask != 0
}
