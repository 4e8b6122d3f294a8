package throttle

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/dmitrijs2005/gatekeeper/internal/client/repositories/metadata"
	"github.com/dmitrijs2005/gatekeeper/internal/common"
	"github.com/dmitrijs2005/gatekeeper/internal/logging"
)

// Tracker keeps a Record in the metadata store so a restart does not reset
// the counter. There is one record per client install.
type Tracker struct {
	repo metadata.Repository
	log  logging.Logger
	now  func() time.Time
}

// NewTracker builds a tracker over repo. log and now may be nil.
func NewTracker(repo metadata.Repository, log logging.Logger, now func() time.Time) *Tracker {
	if log == nil {
		log = logging.Nop()
	}
	if now == nil {
		now = time.Now
	}
	return &Tracker{repo: repo, log: log, now: now}
}

// Now is the tracker's clock.
func (t *Tracker) Now() time.Time {
	return t.now()
}

// Load returns the stored record, or the zero record if none is stored. A
// corrupt value is replaced by a fresh lockout, so damaging the store never
// lifts a block.
func (t *Tracker) Load(ctx context.Context) (Record, error) {
	raw, err := t.repo.Get(ctx, common.LoginAttemptsKey)
	if err != nil {
		return Record{}, fmt.Errorf("load login attempts: %w", err)
	}
	if raw == nil {
		return Record{}, nil
	}

	var r Record
	if err := json.Unmarshal(raw, &r); err != nil {
		now := t.now()
		r = Record{
			Attempts:      MaxAttempts,
			LastAttemptAt: now.UnixMilli(),
			BlockedUntil:  now.Add(LockoutDuration).UnixMilli(),
		}
		t.log.Warn(ctx, "corrupt login attempts record, locking sign-in", "error", err)
		if err := t.save(ctx, r); err != nil {
			t.log.Error(ctx, "failed to replace corrupt login attempts record", "error", err)
		}
	}
	return r, nil
}

// Failure records a failed attempt and returns the new record.
func (t *Tracker) Failure(ctx context.Context) (Record, error) {
	r, err := t.Load(ctx)
	if err != nil {
		return Record{}, err
	}
	r = RecordFailure(r, t.now())
	return r, t.save(ctx, r)
}

// Success resets the stored record.
func (t *Tracker) Success(ctx context.Context) error {
	return t.save(ctx, RecordSuccess())
}

func (t *Tracker) save(ctx context.Context, r Record) error {
	raw, err := json.Marshal(r)
	if err != nil {
		return fmt.Errorf("encode login attempts: %w", err)
	}
	if err := t.repo.Set(ctx, common.LoginAttemptsKey, raw); err != nil {
		return fmt.Errorf("save login attempts: %w", err)
	}
	return nil
}
