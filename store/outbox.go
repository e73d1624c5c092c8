package store

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"go.uber.org/multierr"

	"bqquote/models"
)

// OpKind is the remote call an outbox op performs.
type OpKind string

const (
	OpInsert     OpKind = "insert"
	OpUpdate     OpKind = "update"
	OpSoftDelete OpKind = "soft_delete"
)

// OpState tracks an op through pending → applied | orphaned | failed.
type OpState string

const (
	OpPending  OpState = "pending"
	OpApplied  OpState = "applied"
	OpOrphaned OpState = "orphaned"
	OpFailed   OpState = "failed"
)

// Op is one queued remote write.
type Op struct {
	ID         string
	Kind       OpKind
	Collection string
	LocalID    string
	// RemoteID is the entity's server id when it was already known at
	// enqueue time.
	RemoteID string
	Record   map[string]any
	State    OpState
	Err      error
}

// assignFunc records a server id on a local entity. It reports false when
// the entity no longer exists locally.
type assignFunc func(collection, localID, remoteID string) bool

// Outbox replays local mutations against a Remote in enqueue order on a
// single worker goroutine. Failures are logged and kept; nothing is rolled
// back or retried.
type Outbox struct {
	remote  Remote
	log     zerolog.Logger
	timeout time.Duration
	backlog int
	assign  assignFunc

	mu      sync.Mutex
	queue   []*Op
	signal  chan struct{}
	ids     map[string]string // local id → server id
	stats   map[OpState]int
	errs    error
	pending sync.WaitGroup
}

func newOutbox(remote Remote, log zerolog.Logger, timeout time.Duration, backlog int, assign assignFunc) *Outbox {
	return &Outbox{
		remote:  remote,
		log:     log.With().Str("component", "outbox").Logger(),
		timeout: timeout,
		backlog: backlog,
		assign:  assign,
		signal:  make(chan struct{}, 1),
		ids:     make(map[string]string),
		stats:   make(map[OpState]int),
	}
}

// enqueue never blocks, so it is safe to call while holding the store lock.
func (o *Outbox) enqueue(op *Op) {
	op.ID = uuid.NewString()
	op.State = OpPending

	o.mu.Lock()
	o.queue = append(o.queue, op)
	o.stats[OpPending]++
	depth := len(o.queue)
	o.pending.Add(1)
	o.mu.Unlock()

	if o.backlog > 0 && depth > o.backlog {
		o.log.Warn().Int("depth", depth).Int("backlog", o.backlog).Msg("outbox backlog above threshold")
	}

	select {
	case o.signal <- struct{}{}:
	default:
	}
}

func (o *Outbox) next() *Op {
	o.mu.Lock()
	defer o.mu.Unlock()
	if len(o.queue) == 0 {
		return nil
	}
	op := o.queue[0]
	o.queue[0] = nil
	o.queue = o.queue[1:]
	return op
}

// run processes ops until ctx is done. Ops still queued at that point are
// marked failed.
func (o *Outbox) run(ctx context.Context) {
	for {
		for op := o.next(); op != nil; op = o.next() {
			if ctx.Err() != nil {
				o.finish(op, OpFailed, ctx.Err())
				continue
			}
			o.process(ctx, op)
		}
		select {
		case <-ctx.Done():
			for op := o.next(); op != nil; op = o.next() {
				o.finish(op, OpFailed, ctx.Err())
			}
			return
		case <-o.signal:
		}
	}
}

func (o *Outbox) process(ctx context.Context, op *Op) {
	callCtx := ctx
	if o.timeout > 0 {
		var cancel context.CancelFunc
		callCtx, cancel = context.WithTimeout(ctx, o.timeout)
		defer cancel()
	}

	record := o.translateRefs(op.Record)

	switch op.Kind {
	case OpInsert:
		remoteID, err := o.remote.Insert(callCtx, op.Collection, record)
		if err != nil {
			o.finish(op, OpFailed, err)
			return
		}
		o.mu.Lock()
		o.ids[op.LocalID] = remoteID
		o.mu.Unlock()
		if !o.assign(op.Collection, op.LocalID, remoteID) {
			o.finish(op, OpOrphaned, nil)
			return
		}
		o.finish(op, OpApplied, nil)

	case OpUpdate, OpSoftDelete:
		remoteID := o.resolveID(op)
		if remoteID == "" {
			// the insert never reached the remote
			o.finish(op, OpOrphaned, nil)
			return
		}
		var err error
		if op.Kind == OpUpdate {
			err = o.remote.Update(callCtx, op.Collection, remoteID, record)
		} else {
			err = o.remote.SoftDelete(callCtx, op.Collection, remoteID)
		}
		if err != nil {
			o.finish(op, OpFailed, err)
			return
		}
		o.finish(op, OpApplied, nil)

	default:
		o.finish(op, OpFailed, fmt.Errorf("unknown op kind %q", op.Kind))
	}
}

func (o *Outbox) resolveID(op *Op) string {
	if op.RemoteID != "" {
		return op.RemoteID
	}
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.ids[op.LocalID]
}

// translateRefs rewrites reference fields that still hold local ids. The
// record is owned by the op, so it is rewritten in place.
func (o *Outbox) translateRefs(record map[string]any) map[string]any {
	if record == nil {
		return nil
	}
	o.mu.Lock()
	defer o.mu.Unlock()
	for _, key := range models.ReferenceFields {
		local, ok := record[key].(string)
		if !ok || local == "" {
			continue
		}
		if remoteID, ok := o.ids[local]; ok {
			record[key] = remoteID
		}
	}
	// Snapshot entries keep the catalog ids lines point at.
	if snapshot, ok := record[models.FieldMasterSnapshot].([]models.MasterItem); ok {
		for i := range snapshot {
			if remoteID, ok := o.ids[snapshot[i].ID]; ok {
				snapshot[i].ID = remoteID
			}
		}
	}
	return record
}

func (o *Outbox) finish(op *Op, state OpState, err error) {
	op.State = state
	op.Err = err

	event := o.log.Debug()
	switch state {
	case OpFailed:
		event = o.log.Error().Err(err)
	case OpOrphaned:
		event = o.log.Warn()
	}
	event.
		Str("op_id", op.ID).
		Str("kind", string(op.Kind)).
		Str("collection", op.Collection).
		Str("local_id", op.LocalID).
		Str("state", string(state)).
		Msg("outbox op finished")

	o.mu.Lock()
	o.stats[OpPending]--
	o.stats[state]++
	if state == OpFailed {
		o.errs = multierr.Append(o.errs, fmt.Errorf("%s %s/%s: %w", op.Kind, op.Collection, op.LocalID, err))
	}
	o.mu.Unlock()
	o.pending.Done()
}

// Wait blocks until every queued op has finished and returns the failures
// collected since the previous Wait.
func (o *Outbox) Wait() error {
	o.pending.Wait()
	o.mu.Lock()
	defer o.mu.Unlock()
	err := o.errs
	o.errs = nil
	return err
}

// Stats returns the number of ops per state.
func (o *Outbox) Stats() map[OpState]int {
	o.mu.Lock()
	defer o.mu.Unlock()
	out := make(map[OpState]int, len(o.stats))
	for k, v := range o.stats {
		out[k] = v
	}
	return out
}
