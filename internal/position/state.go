package position

import (
	"slices"

	"github.com/zulandar/strand/internal/ring"
)

// Status is the manager's processing state.
type Status string

const (
	StatusIdle       Status = "idle"
	StatusProcessing Status = "processing"
	StatusSuccess    Status = "success"
	StatusError      Status = "error"
)

// State is the snapshot published to renderers after every transition.
type State struct {
	Beads           []ring.Position `json:"beads"`
	SelectedIndex   int             `json:"selected_index"`
	PredictedLength float64         `json:"predicted_length"`
	Radius          float64         `json:"radius"`
	Status          Status          `json:"status"`
	Err             string          `json:"error,omitempty"`
	Warning         string          `json:"warning,omitempty"`
	CanUndo         bool            `json:"can_undo"`
	CanRedo         bool            `json:"can_redo"`
}

// Clone returns a copy that shares nothing with s.
func (s State) Clone() State {
	s.Beads = slices.Clone(s.Beads)
	return s
}

// Selected returns the selected bead, if any.
func (s State) Selected() (ring.Position, bool) {
	if s.SelectedIndex < 0 || s.SelectedIndex >= len(s.Beads) {
		return ring.Position{}, false
	}
	return s.Beads[s.SelectedIndex], true
}

// snapshot is what history stores: the bare sequence and the selection.
type snapshot struct {
	Beads    []ring.Bead
	Selected int
}

func cloneSnapshot(s snapshot) snapshot {
	s.Beads = slices.Clone(s.Beads)
	return s
}
