package readout

import "go.trai.ch/robcache/internal/core/domain"

// fetchRequest is the body of POST /v1/events/{l1id}/fragments.
type fetchRequest struct {
	RunNumber uint32   `json:"run"`
	IDs       []uint32 `json:"ids"`
}

// fetchResponse answers a fetchRequest. Ids the server could not resolve are
// simply absent from Fragments.
type fetchResponse struct {
	Fragments []wireFragment `json:"fragments"`
}

type wireFragment struct {
	ID      uint32   `json:"id"`
	Payload []byte   `json:"payload"`
	Status  []uint32 `json:"status,omitempty"`
	L1ID    uint32   `json:"l1id"`
	BCID    uint16   `json:"bcid"`
}

func toWire(f *domain.Fragment) wireFragment {
	return wireFragment{
		ID:      uint32(f.ID),
		Payload: f.Payload,
		Status:  f.Status,
		L1ID:    f.L1ID,
		BCID:    f.BCID,
	}
}

func (w *wireFragment) toDomain() *domain.Fragment {
	return &domain.Fragment{
		ID:      domain.FragmentID(w.ID),
		Payload: w.Payload,
		Status:  w.Status,
		L1ID:    w.L1ID,
		BCID:    w.BCID,
	}
}
