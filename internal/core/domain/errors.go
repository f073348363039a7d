package domain

import "go.trai.ch/zerr"

var (
	// ErrOutOfRangeSlot is returned when a slot number is outside [0, maxSlots).
	ErrOutOfRangeSlot = zerr.New("slot number out of range")

	// ErrSlotNotOpen is returned when a slot is used before its first event was opened.
	ErrSlotNotOpen = zerr.New("slot has no open event")

	// ErrInvalidConfig is returned when the configuration fails validation.
	ErrInvalidConfig = zerr.New("invalid configuration")

	// ErrConfigReadFailed is returned when the config file cannot be read.
	ErrConfigReadFailed = zerr.New("failed to read config file")

	// ErrConfigParseFailed is returned when the config file cannot be parsed.
	ErrConfigParseFailed = zerr.New("failed to parse config file")

	// ErrInvalidRuleAction is returned when an exclusion rule names an unknown action.
	ErrInvalidRuleAction = zerr.New("invalid exclusion rule action, expected 'drop' or 'keepAsEmpty'")

	// ErrUnknownGatewayKind is returned when the configured gateway kind is not supported.
	ErrUnknownGatewayKind = zerr.New("unknown gateway kind, expected 'emulator', 'replay' or 'http'")

	// ErrMandatoryNotEnabled is returned when a mandatory fragment is not in the enabled set.
	ErrMandatoryNotEnabled = zerr.New("mandatory fragment is not enabled")

	// ErrEventLogReadFailed is returned when an event log cannot be read.
	ErrEventLogReadFailed = zerr.New("failed to read event log")

	// ErrEventLogParseFailed is returned when an event log cannot be parsed.
	ErrEventLogParseFailed = zerr.New("failed to parse event log")

	// ErrDuplicateEvent is returned when an event log holds two events with the same L1 id.
	ErrDuplicateEvent = zerr.New("duplicate event in log")

	// ErrEventNotFound is returned when the readout source has no event with the requested L1 id.
	ErrEventNotFound = zerr.New("event not found")

	// ErrReadoutRequestFailed is returned when a readout server request fails.
	ErrReadoutRequestFailed = zerr.New("readout request failed")

	// ErrReplayFailed is returned when a replay run cannot complete.
	ErrReplayFailed = zerr.New("replay failed")

	// ErrReportWriteFailed is returned when the replay report cannot be written.
	ErrReportWriteFailed = zerr.New("failed to write replay report")
)
