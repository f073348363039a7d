package readout

import (
	"os"

	"go.trai.ch/robcache/internal/core/domain"
	"go.trai.ch/robcache/internal/core/ports"
	"go.trai.ch/zerr"
	"gopkg.in/yaml.v3"
)

// EventLog represents the structure of a recorded event log file.
type EventLog struct {
	Events []EventDTO `yaml:"events"`
}

// EventDTO represents one recorded event.
type EventDTO struct {
	Run         uint32        `yaml:"run"`
	GlobalEvent uint64        `yaml:"globalEvent"`
	L1ID        uint32        `yaml:"l1id"`
	BCID        uint16        `yaml:"bcid"`
	Initial     []uint32      `yaml:"initial"`
	Fragments   []FragmentDTO `yaml:"fragments"`
}

// FragmentDTO represents one recorded fragment. L1 id and BCID default to the
// event's own values.
type FragmentDTO struct {
	ID      uint32   `yaml:"id"`
	Payload string   `yaml:"payload"`
	Status  []uint32 `yaml:"status"`
	L1ID    *uint32  `yaml:"l1id"`
	BCID    *uint16  `yaml:"bcid"`
}

// FileLoader implements ports.EventLoader using a YAML event log.
type FileLoader struct{}

// NewFileLoader creates a new FileLoader.
func NewFileLoader() *FileLoader {
	return &FileLoader{}
}

var _ ports.EventLoader = (*FileLoader)(nil)

// LoadEvents reads the event log at path, in recorded order.
func (l *FileLoader) LoadEvents(path string) ([]domain.Event, error) {
	data, err := os.ReadFile(path) //nolint:gosec // path is provided by user
	if err != nil {
		return nil, zerr.With(zerr.Wrap(domain.ErrEventLogReadFailed, err.Error()), "path", path)
	}

	var log EventLog
	if err := yaml.Unmarshal(data, &log); err != nil {
		return nil, zerr.With(zerr.Wrap(domain.ErrEventLogParseFailed, err.Error()), "path", path)
	}

	events := make([]domain.Event, 0, len(log.Events))
	seen := make(map[uint32]struct{}, len(log.Events))
	for _, dto := range log.Events {
		if _, dup := seen[dto.L1ID]; dup {
			return nil, zerr.With(
				zerr.With(zerr.Wrap(domain.ErrDuplicateEvent, "l1 ids must be unique"), "l1_id", dto.L1ID),
				"path", path,
			)
		}
		seen[dto.L1ID] = struct{}{}
		events = append(events, dto.toDomain())
	}
	return events, nil
}

func (dto *EventDTO) toDomain() domain.Event {
	ev := domain.Event{
		Identity: domain.EventIdentity{
			RunNumber:         dto.Run,
			GlobalEventNumber: dto.GlobalEvent,
			L1ID:              dto.L1ID,
			BCID:              dto.BCID,
		},
		Fragments: make([]*domain.Fragment, 0, len(dto.Fragments)),
	}
	for _, id := range dto.Initial {
		ev.Initial = append(ev.Initial, domain.FragmentID(id))
	}
	for _, f := range dto.Fragments {
		frag := &domain.Fragment{
			ID:      domain.FragmentID(f.ID),
			Payload: []byte(f.Payload),
			Status:  f.Status,
			L1ID:    dto.L1ID,
			BCID:    dto.BCID,
		}
		if f.L1ID != nil {
			frag.L1ID = *f.L1ID
		}
		if f.BCID != nil {
			frag.BCID = *f.BCID
		}
		ev.Fragments = append(ev.Fragments, frag)
	}
	return ev
}
