package dispatch

import (
	"context"
	"sync/atomic"
	"time"
)

const tickTimeout = 30 * time.Second

// Cycle periodically expires stale dispatches and widens the fan-out of
// requests still waiting for a first response. Exactly one tick runs at a
// time; an overlapping trigger is dropped, not queued.
type Cycle struct {
	dispatcher *Dispatcher
	store      DispatchStore
	logger     Logger
	settings   Settings
	running    atomic.Bool
	clock      func() time.Time
}

func NewCycle(dispatcher *Dispatcher, store DispatchStore, logger Logger, settings Settings) *Cycle {
	return &Cycle{
		dispatcher: dispatcher,
		store:      store,
		logger:     logger,
		settings:   settings.withDefaults(),
		clock:      time.Now,
	}
}

// Run drives ticks until the context is cancelled.
func (c *Cycle) Run(ctx context.Context) {
	ticker := time.NewTicker(c.settings.CycleInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			tickCtx, cancel := context.WithTimeout(ctx, tickTimeout)
			c.Tick(tickCtx)
			cancel()
		}
	}
}

// Tick runs one sweep-and-expand pass. Store errors are logged and retried
// on the next tick.
func (c *Cycle) Tick(ctx context.Context) {
	if !c.running.CompareAndSwap(false, true) {
		c.logger.Infof("dispatch cycle: previous run still active, skipping tick")
		return
	}
	defer c.running.Store(false)

	now := c.clock()

	expired, err := c.store.ExpireDue(ctx, now)
	if err != nil {
		c.logger.Errorf("dispatch cycle: expiry sweep failed: %v", err)
		return
	}
	if expired > 0 {
		c.logger.Infof("dispatch cycle: expired %d dispatches", expired)
	}

	awaiting, err := c.store.ListAwaiting(ctx, now)
	if err != nil {
		c.logger.Errorf("dispatch cycle: list awaiting requests failed: %v", err)
		return
	}

	for _, aw := range awaiting {
		if ctx.Err() != nil {
			return
		}
		size, batch := c.settings.InitialBatch, 1
		if aw.TotalDispatches > 0 {
			size, batch = c.settings.ExpandedBatch, aw.MaxBatch+1
		}
		if _, _, err := c.dispatcher.DispatchBatch(ctx, aw.Request, size, batch); err != nil {
			c.logger.Errorf("dispatch cycle: request %d batch %d failed: %v", aw.Request.ID, batch, err)
		}
	}
}
