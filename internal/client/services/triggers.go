package services

import (
	"context"
	"fmt"
	"sync"

	"github.com/dmitrijs2005/recoverydesk/internal/client/models"
	"github.com/dmitrijs2005/recoverydesk/internal/client/view"
	"github.com/dmitrijs2005/recoverydesk/internal/logging"
)

type TriggerAPI interface {
	Triggers(ctx context.Context, q models.TriggerQuery) (models.TriggerPage, error)
	ProcessTrigger(ctx context.Context, id int64) (models.ProcessResult, error)
	CheckNewEmails(ctx context.Context) (models.CheckNewResult, error)
	AutoProcess(ctx context.Context) (models.AutoProcessResult, error)
}

// ProcessOutcome is a successful manual conversion of a trigger.
type ProcessOutcome struct {
	VehicleID int64
	Message   string
}

// TriggerBoard is the email-trigger screen: the displayed page plus the
// processing actions. Processed state only moves forward: once a trigger is
// seen processed, later refreshes cannot show it unprocessed.
type TriggerBoard struct {
	api TriggerAPI
	guard
	log logging.Logger

	mu        sync.Mutex
	query     models.TriggerQuery
	page      models.TriggerPage
	processed map[int64]*int64

	refreshing view.Busy
	processing view.Busy
	checking   view.Busy
	automating view.Busy
}

func NewTriggerBoard(a TriggerAPI, inv Invalidator, log logging.Logger) *TriggerBoard {
	if log == nil {
		log = logging.Nop()
	}
	return &TriggerBoard{
		api:       a,
		guard:     guard{inv: inv},
		log:       log.With("component", "triggers"),
		query:     models.TriggerQuery{Page: 1, PerPage: 10},
		processed: map[int64]*int64{},
	}
}

// Refresh loads one page. Zero Page or PerPage keep the previous values.
func (b *TriggerBoard) Refresh(ctx context.Context, q models.TriggerQuery) (models.TriggerPage, error) {
	var page models.TriggerPage
	err := b.refreshing.Do(func() error {
		var err error
		page, err = b.load(ctx, q)
		return err
	})
	return page, err
}

func (b *TriggerBoard) load(ctx context.Context, q models.TriggerQuery) (models.TriggerPage, error) {
	b.mu.Lock()
	if q.Page <= 0 {
		q.Page = b.query.Page
	}
	if q.PerPage <= 0 {
		q.PerPage = b.query.PerPage
	}
	b.mu.Unlock()

	page, err := b.api.Triggers(ctx, q)
	if err != nil {
		return models.TriggerPage{}, b.check(ctx, err)
	}

	b.mu.Lock()
	defer b.mu.Unlock()
	for i := range page.Triggers {
		b.merge(&page.Triggers[i])
	}
	b.query = q
	b.page = page
	return b.copyPage(), nil
}

// merge reconciles t with what the board already knows. Caller holds mu.
func (b *TriggerBoard) merge(t *models.EmailTrigger) {
	if vehicleID, ok := b.processed[t.ID]; ok {
		t.Processed = true
		if t.VehicleID == nil {
			t.VehicleID = vehicleID
		}
		return
	}
	if t.Processed {
		b.processed[t.ID] = t.VehicleID
	}
}

func (b *TriggerBoard) copyPage() models.TriggerPage {
	p := b.page
	p.Triggers = append([]models.EmailTrigger(nil), b.page.Triggers...)
	return p
}

// Page returns the displayed page.
func (b *TriggerBoard) Page() models.TriggerPage {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.copyPage()
}

func (b *TriggerBoard) Query() models.TriggerQuery {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.query
}

func (b *TriggerBoard) IsProcessed(id int64) bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	_, ok := b.processed[id]
	return ok
}

func (b *TriggerBoard) markProcessed(id int64, vehicleID *int64) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.processed[id] = vehicleID
	for i := range b.page.Triggers {
		if b.page.Triggers[i].ID == id {
			b.merge(&b.page.Triggers[i])
		}
	}
}

// Process converts a trigger into a case. Failure leaves the trigger
// unprocessed and returns the backend's message as the error.
func (b *TriggerBoard) Process(ctx context.Context, id int64) (ProcessOutcome, error) {
	if b.IsProcessed(id) {
		return ProcessOutcome{}, fmt.Errorf("%w: #%d", ErrAlreadyProcessed, id)
	}

	var out ProcessOutcome
	err := b.processing.Do(func() error {
		res, err := b.api.ProcessTrigger(ctx, id)
		if err != nil {
			return b.check(ctx, err)
		}
		b.markProcessed(id, res.VehicleID)
		out = ProcessOutcome{Message: res.Message}
		if res.VehicleID != nil {
			out.VehicleID = *res.VehicleID
		}
		b.log.Info(ctx, "trigger processed", "trigger_id", id, "vehicle_id", out.VehicleID)
		return nil
	})
	return out, err
}

// CheckNew asks the backend to ingest new emails. Existing triggers are
// not touched.
func (b *TriggerBoard) CheckNew(ctx context.Context) (models.CheckNewResult, error) {
	var res models.CheckNewResult
	err := b.checking.Do(func() error {
		var err error
		res, err = b.api.CheckNewEmails(ctx)
		return b.check(ctx, err)
	})
	return res, err
}

// AutoProcess converts every pending trigger server-side, then reloads the
// displayed page. A failed reload is logged; the run result is still returned.
func (b *TriggerBoard) AutoProcess(ctx context.Context) (models.AutoProcessResult, error) {
	var res models.AutoProcessResult
	err := b.automating.Do(func() error {
		var err error
		res, err = b.api.AutoProcess(ctx)
		if err != nil {
			return b.check(ctx, err)
		}
		for _, d := range res.Details {
			if d.Success {
				b.markProcessed(d.TriggerID, d.VehicleID)
			}
		}
		if _, err := b.load(ctx, models.TriggerQuery{Processed: b.Query().Processed}); err != nil {
			b.log.Warn(ctx, "reload after auto-process failed", "error", err)
		}
		return nil
	})
	return res, err
}
