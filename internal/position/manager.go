// Package position owns the live bead sequence of a design session. Every
// mutation is resolved through the layout calculator and the insertion
// resolver, committed as a whole, recorded in history and published to
// subscribers.
package position

import (
	"context"
	"fmt"
	"slices"
	"sync"

	"github.com/zulandar/strand/internal/history"
	"github.com/zulandar/strand/internal/insertion"
	"github.com/zulandar/strand/internal/layout"
	"github.com/zulandar/strand/internal/ring"
)

// Opts configures a Manager.
type Opts struct {
	Ring            ring.Config
	Images          ImageResolver // nil = PassthroughResolver
	Keys            KeyGenerator  // nil = UUIDKeys
	HistoryCapacity int
	CacheCapacity   int
	Busy            BusyPolicy

	// EnforceLength turns wrist-size violations on add/replace into errors
	// instead of warnings.
	EnforceLength bool
}

// Manager is the stateful orchestrator for one bead sequence.
type Manager struct {
	calc     layout.Calculator
	resolver insertion.Resolver
	images   ImageResolver
	keys     KeyGenerator
	enforce  bool

	guard   *guard
	cache   *imageCache
	history *history.History[snapshot]

	mu      sync.Mutex
	state   State
	subs    map[int]func(State)
	nextSub int
	closed  bool
}

// NewManager returns an idle manager with an empty sequence.
func NewManager(opts Opts) *Manager {
	if opts.Images == nil {
		opts.Images = PassthroughResolver{}
	}
	if opts.Keys == nil {
		opts.Keys = UUIDKeys{}
	}
	m := &Manager{
		calc:     layout.New(opts.Ring),
		resolver: insertion.New(opts.Ring),
		images:   opts.Images,
		keys:     opts.Keys,
		enforce:  opts.EnforceLength,
		guard:    newGuard(opts.Busy),
		cache:    newImageCache(opts.CacheCapacity),
		history:  history.New(opts.HistoryCapacity, cloneSnapshot),
		state:    State{SelectedIndex: -1, Status: StatusIdle, Beads: []ring.Position{}},
		subs:     make(map[int]func(State)),
	}
	m.history.Record(snapshot{Selected: -1})
	return m
}

// Ring returns the ring configuration.
func (m *Manager) Ring() ring.Config {
	return m.calc.Ring
}

// State returns a copy of the current state.
func (m *Manager) State() State {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.state.Clone()
}

// Subscribe registers fn to receive every published state. The returned
// function unregisters it.
func (m *Manager) Subscribe(fn func(State)) func() {
	m.mu.Lock()
	defer m.mu.Unlock()
	id := m.nextSub
	m.nextSub++
	m.subs[id] = fn
	return func() {
		m.mu.Lock()
		defer m.mu.Unlock()
		delete(m.subs, id)
	}
}

// Close drops subscribers and cached images. Later calls fail with ErrClosed.
func (m *Manager) Close() {
	m.mu.Lock()
	m.closed = true
	m.subs = make(map[int]func(State))
	m.mu.Unlock()
	m.cache.reset()
	m.history.Clear()
}

// plan is the sequence an operation wants to commit.
type plan struct {
	beads    []ring.Bead
	selected int
	warning  string
	noop     bool
}

// run sequences one mutating operation: admit, mark processing, compute the
// new sequence, resolve images, place, then commit or fail. A failure leaves
// the committed sequence untouched.
func (m *Manager) run(ctx context.Context, name string, record bool, fn func(cur State) (plan, error)) error {
	if err := m.guard.acquire(ctx); err != nil {
		Logf("position: %s not applied: %v", name, err)
		return err
	}
	defer m.guard.release()

	m.mu.Lock()
	if m.closed {
		m.mu.Unlock()
		return ErrClosed
	}
	prev := m.state.Status
	m.state.Status = StatusProcessing
	m.state.Err = ""
	cur := m.state.Clone()
	m.mu.Unlock()
	m.publish()

	p, err := fn(cur)
	if err != nil {
		m.fail(name, err)
		return err
	}
	if p.noop {
		m.mu.Lock()
		m.state.Status = prev
		m.mu.Unlock()
		m.publish()
		return nil
	}

	res, err := m.place(ctx, p.beads)
	if err != nil {
		m.fail(name, err)
		return err
	}

	m.mu.Lock()
	m.state = State{
		Beads:           res.Positions,
		SelectedIndex:   layout.ClampSelection(p.selected, len(res.Positions)),
		PredictedLength: res.PredictedLength,
		Radius:          res.Radius,
		Status:          StatusSuccess,
		Warning:         p.warning,
	}
	if record {
		m.history.Record(snapshot{Beads: ring.StripAll(res.Positions), Selected: m.state.SelectedIndex})
	}
	m.state.CanUndo = m.history.CanUndo()
	m.state.CanRedo = m.history.CanRedo()
	m.mu.Unlock()
	m.publish()
	return nil
}

func (m *Manager) fail(name string, err error) {
	Logf("position: %s failed: %v", name, err)
	m.mu.Lock()
	m.state.Status = StatusError
	m.state.Err = err.Error()
	m.mu.Unlock()
	m.publish()
}

func (m *Manager) publish() {
	m.mu.Lock()
	st := m.state.Clone()
	subs := make([]func(State), 0, len(m.subs))
	for _, fn := range m.subs {
		subs = append(subs, fn)
	}
	m.mu.Unlock()
	for _, fn := range subs {
		fn(st)
	}
}

// place assigns missing IDs, resolves artwork and recomputes every position
// from scratch.
func (m *Manager) place(ctx context.Context, beads []ring.Bead) (layout.Result, error) {
	beads = slices.Clone(beads)
	for i := range beads {
		if beads[i].ID == "" {
			beads[i].ID = m.keys.NewKey()
		}
	}

	handles, err := m.resolveImages(ctx, beads)
	if err != nil {
		return layout.Result{}, err
	}

	res := m.calc.Layout(beads)
	for i := range res.Positions {
		res.Positions[i].Image = handles[i]
		res.Positions[i].UniqueKey = m.keys.NewKey()
	}
	return res, nil
}

// resolveImages returns one handle per bead, fetching cache misses in a
// single resolver call.
func (m *Manager) resolveImages(ctx context.Context, beads []ring.Bead) ([]string, error) {
	handles := make([]string, len(beads))
	var missing []string
	pending := make(map[int]string)
	for i, b := range beads {
		if b.ImageURL == "" {
			continue
		}
		if h, ok := m.cache.get(b.IdentityKey()); ok {
			handles[i] = h
			continue
		}
		pending[i] = b.ImageURL
		if !slices.Contains(missing, b.ImageURL) {
			missing = append(missing, b.ImageURL)
		}
	}
	if len(missing) == 0 {
		return handles, nil
	}

	resolved, err := m.images.Resolve(ctx, missing)
	if err != nil {
		return nil, &ResolveError{URLs: missing, Err: err}
	}
	for i, url := range pending {
		h, ok := resolved[url]
		if !ok {
			return nil, &ResolveError{URLs: missing, Err: fmt.Errorf("no handle for %s", url)}
		}
		handles[i] = h
	}
	// Cache only once the whole batch resolved.
	for i := range pending {
		m.cache.put(beads[i].IdentityKey(), handles[i])
	}
	return handles, nil
}

// checkAdd applies the wrist-size guard for adding a bead to base.
func (m *Manager) checkAdd(base []ring.Bead, b ring.Bead) (string, error) {
	v := m.calc.ValidateCount(base, b.Diameter, layout.OpAdd)
	if v.Valid {
		return "", nil
	}
	if m.enforce {
		return "", &ValidationError{Message: v.Message}
	}
	Logf("position: warning: %s", v.Message)
	return v.Message, nil
}

// SetBeads replaces the whole sequence, e.g. when loading a saved design.
func (m *Manager) SetBeads(ctx context.Context, beads []ring.Bead) error {
	return m.run(ctx, "set beads", true, func(State) (plan, error) {
		for _, b := range beads {
			if err := b.Validate(); err != nil {
				return plan{}, err
			}
		}
		p := plan{beads: slices.Clone(beads), selected: -1}
		if v := m.calc.ValidateLength(beads); !v.Valid {
			p.warning = v.Message
		}
		return p, nil
	})
}

// AddBead appends b, or overwrites the bead at insertAt when it is a valid
// index. The new bead becomes the selection.
func (m *Manager) AddBead(ctx context.Context, b ring.Bead, insertAt int) error {
	return m.run(ctx, "add bead", true, func(cur State) (plan, error) {
		if err := b.Validate(); err != nil {
			return plan{}, err
		}
		beads := ring.StripAll(cur.Beads)
		base := beads
		selected := len(beads)
		if insertAt >= 0 && insertAt < len(beads) {
			base, _, _ = m.calc.Remove(beads, insertAt)
			selected = insertAt
		}
		warning, err := m.checkAdd(base, b)
		if err != nil {
			return plan{}, err
		}
		return plan{beads: m.calc.Add(beads, b, insertAt), selected: selected, warning: warning}, nil
	})
}

// DropBead inserts a new bead where it was dropped on the ring. An illegal
// drop leaves the sequence unchanged and reports why in the result.
func (m *Manager) DropBead(ctx context.Context, b ring.Bead, p insertion.Point) (insertion.Result, error) {
	var res insertion.Result
	err := m.run(ctx, "drop bead", true, func(cur State) (plan, error) {
		if err := b.Validate(); err != nil {
			return plan{}, err
		}
		beads := ring.StripAll(cur.Beads)
		if len(beads) == 0 {
			res = insertion.Result{ShouldInsert: true, InsertIndex: 0}
		} else {
			res = m.resolver.ResolveDrop(cur.Beads, -1, p)
		}
		if !res.ShouldInsert {
			return plan{noop: true}, nil
		}
		warning, err := m.checkAdd(beads, b)
		if err != nil {
			return plan{}, err
		}
		return plan{beads: m.calc.Insert(beads, b, res.InsertIndex), selected: res.InsertIndex, warning: warning}, nil
	})
	return res, err
}

// RemoveBead removes the selected bead.
func (m *Manager) RemoveBead(ctx context.Context) error {
	return m.run(ctx, "remove bead", true, func(cur State) (plan, error) {
		beads := ring.StripAll(cur.Beads)
		next, selected, err := m.calc.Remove(beads, cur.SelectedIndex)
		if err != nil {
			return plan{}, err
		}
		p := plan{beads: next, selected: selected}
		removed := beads[cur.SelectedIndex]
		if v := m.calc.ValidateCount(beads, removed.Diameter, layout.OpRemove); !v.Valid {
			p.warning = v.Message
		}
		return p, nil
	})
}

// ReplaceBead swaps the selected bead for b.
func (m *Manager) ReplaceBead(ctx context.Context, b ring.Bead) error {
	return m.run(ctx, "replace bead", true, func(cur State) (plan, error) {
		if err := b.Validate(); err != nil {
			return plan{}, err
		}
		beads := ring.StripAll(cur.Beads)
		base, _, err := m.calc.Remove(beads, cur.SelectedIndex)
		if err != nil {
			return plan{}, err
		}
		warning, err := m.checkAdd(base, b)
		if err != nil {
			return plan{}, err
		}
		return plan{beads: m.calc.Add(beads, b, cur.SelectedIndex), selected: cur.SelectedIndex, warning: warning}, nil
	})
}

// MoveBead swaps the selected bead with its neighbor in dir.
func (m *Manager) MoveBead(ctx context.Context, dir layout.Direction) error {
	return m.run(ctx, "move bead", true, func(cur State) (plan, error) {
		next, selected, err := m.calc.Move(ring.StripAll(cur.Beads), cur.SelectedIndex, dir)
		if err != nil {
			return plan{}, err
		}
		return plan{beads: next, selected: selected}, nil
	})
}

// DragBeadToPosition re-inserts the bead at index where it was dropped. The
// result tells the caller whether the bead moved or must snap back.
func (m *Manager) DragBeadToPosition(ctx context.Context, index int, p insertion.Point) (insertion.Result, error) {
	var res insertion.Result
	err := m.run(ctx, "drag bead", true, func(cur State) (plan, error) {
		if index < 0 || index >= len(cur.Beads) {
			return plan{}, fmt.Errorf("%w: drag %d of %d", layout.ErrIndexOutOfRange, index, len(cur.Beads))
		}
		res = m.resolver.ResolveDrop(cur.Beads, index, p)
		if !res.ShouldInsert {
			return plan{noop: true}, nil
		}
		next, selected, err := m.calc.Relocate(ring.StripAll(cur.Beads), index, res.InsertIndex)
		if err != nil {
			return plan{}, err
		}
		return plan{beads: next, selected: selected}, nil
	})
	return res, err
}

// SelectBead selects the bead at index.
func (m *Manager) SelectBead(ctx context.Context, index int) error {
	return m.setSelection(ctx, index)
}

// DeselectBead clears the selection.
func (m *Manager) DeselectBead(ctx context.Context) error {
	return m.setSelection(ctx, -1)
}

// setSelection changes only the selection; positions and keys are kept.
func (m *Manager) setSelection(ctx context.Context, index int) error {
	if err := m.guard.acquire(ctx); err != nil {
		return err
	}
	defer m.guard.release()

	m.mu.Lock()
	if m.closed {
		m.mu.Unlock()
		return ErrClosed
	}
	if index < -1 || index >= len(m.state.Beads) {
		n := len(m.state.Beads)
		m.mu.Unlock()
		return fmt.Errorf("%w: select %d of %d", layout.ErrIndexOutOfRange, index, n)
	}
	m.state.SelectedIndex = index
	m.mu.Unlock()
	m.publish()
	return nil
}

// Undo restores the previous snapshot. It reports false when there is
// nothing to undo.
func (m *Manager) Undo(ctx context.Context) (bool, error) {
	return m.step(ctx, "undo", m.history.Undo, m.history.Redo)
}

// Redo reapplies the next snapshot. It reports false when there is nothing
// to redo.
func (m *Manager) Redo(ctx context.Context) (bool, error) {
	return m.step(ctx, "redo", m.history.Redo, m.history.Undo)
}

func (m *Manager) step(ctx context.Context, name string, move, revert func() (snapshot, bool)) (bool, error) {
	moved := false
	err := m.run(ctx, name, false, func(State) (plan, error) {
		snap, ok := move()
		if !ok {
			return plan{noop: true}, nil
		}
		moved = true
		return plan{beads: snap.Beads, selected: snap.Selected}, nil
	})
	if err != nil && moved {
		// Keep the cursor on the snapshot that is actually shown.
		revert()
	}
	return moved && err == nil, err
}
