package design

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"
	"sync"

	"github.com/robfig/cron/v3"
	"github.com/samber/lo"
	"github.com/zulandar/strand/internal/ring"
	"gorm.io/gorm"
)

// cronParser uses standard 5-field cron expressions (minute, hour, dom, month, dow).
var cronParser = cron.NewParser(cron.Minute | cron.Hour | cron.Dom | cron.Month | cron.Dow)

// DraftName is the name given to the autosaved draft row.
const DraftName = "autosave"

// Source returns the sequence to autosave and its predicted length.
type Source func() ([]ring.Bead, float64)

// Autosaver periodically writes the current sequence into a single draft
// design. Unchanged sequences are skipped.
type Autosaver struct {
	db     *gorm.DB
	source Source
	sched  cron.Schedule

	mu      sync.Mutex
	draftID string
	lastKey string
}

// NewAutosaver parses expr as a 5-field cron expression.
func NewAutosaver(db *gorm.DB, expr string, source Source) (*Autosaver, error) {
	sched, err := cronParser.Parse(expr)
	if err != nil {
		return nil, fmt.Errorf("design: autosave schedule %q: %w", expr, err)
	}
	return &Autosaver{db: db, source: source, sched: sched}, nil
}

// Run fires the autosave on schedule until ctx is cancelled.
func (a *Autosaver) Run(ctx context.Context) {
	c := cron.New(cron.WithParser(cronParser))
	c.Schedule(a.sched, cron.FuncJob(func() {
		if _, err := a.SaveNow(); err != nil {
			log.Printf("design: autosave: %v", err)
		}
	}))
	c.Start()
	<-ctx.Done()
	<-c.Stop().Done()
}

// SaveNow writes the draft if the sequence changed since the last save and
// reports whether a write happened.
func (a *Autosaver) SaveNow() (bool, error) {
	beads, predicted := a.source()
	key := sequenceKey(beads)

	a.mu.Lock()
	defer a.mu.Unlock()
	if key == a.lastKey {
		return false, nil
	}

	if a.draftID == "" {
		id, err := a.findDraft()
		if err != nil {
			return false, err
		}
		a.draftID = id
	}

	if a.draftID != "" {
		err := Update(a.db, a.draftID, beads, predicted)
		if err == nil {
			a.lastKey = key
			return true, nil
		}
		if !errors.Is(err, ErrNotFound) {
			return false, err
		}
	}

	d, err := Save(a.db, SaveOpts{Name: DraftName, Beads: beads, PredictedLength: predicted, Draft: true})
	if err != nil {
		return false, err
	}
	a.draftID = d.ID
	a.lastKey = key
	return true, nil
}

// DraftID returns the ID of the draft row, empty before the first save.
func (a *Autosaver) DraftID() string {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.draftID
}

func (a *Autosaver) findDraft() (string, error) {
	draft := true
	existing, err := List(a.db, ListFilters{Draft: &draft, Limit: 1})
	if err != nil {
		return "", err
	}
	if len(existing) == 0 {
		return "", nil
	}
	return existing[0].ID, nil
}

func sequenceKey(beads []ring.Bead) string {
	return strings.Join(lo.Map(beads, func(b ring.Bead, _ int) string {
		return fmt.Sprintf("%s/%s/%g/%g/%t", b.IdentityKey(), b.Category, b.Width, b.HolePosition, b.Floating)
	}), ";")
}
