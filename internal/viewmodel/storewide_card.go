package viewmodel

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/brunesovrbrauns/bdc-manager-app/internal/businessday"
	"github.com/brunesovrbrauns/bdc-manager-app/internal/domain"
	"github.com/brunesovrbrauns/bdc-manager-app/internal/feed"
	"github.com/brunesovrbrauns/bdc-manager-app/internal/form"
	"github.com/brunesovrbrauns/bdc-manager-app/internal/ports"
	"github.com/brunesovrbrauns/bdc-manager-app/internal/service"
)

const (
	MsgPrefilled       = "Prefilled from BDC."
	MsgPrefillSynced   = "BDC totals refreshed from latest agent submissions."
	MsgSubmitted       = "Submitted."
	LabelSubmit        = "Submit Storewide Nightly Numbers"
	LabelResubmit      = "Re-Submit Storewide Nightly Numbers"
	storewideLoadError = "Load error: "
)

// ErrCardBusy rejects card actions while a save is in flight.
var ErrCardBusy = errors.New("storewide card is saving")

// CardState is the StorewideCard view.
type CardState struct {
	Date        string              `json:"date"`
	Form        form.StorewideInput `json:"form"`
	HasExisting bool                `json:"hasExisting"`
	SubmitLabel string              `json:"submitLabel"`
	Mode        PrefillMode         `json:"prefillMode"`
	Busy        bool                `json:"busy"`
	Message     string              `json:"message,omitempty"`
	Error       string              `json:"error,omitempty"`
	Pills       State[Status]       `json:"pills"`
}

// StorewideCard is the closer's form plus the submitted/missing pills. It
// owns one subscription to today's shifts; every change refreshes the pills
// and, while prefill is armed, re-runs the prefill.
type StorewideCard struct {
	svc   service.StorewideService
	date  time.Time
	pills *Live[Status]

	mu          sync.Mutex
	form        form.StorewideInput
	hasExisting bool
	mode        PrefillMode
	busy        bool
	message     string
	err         string
	onChange    func()
}

func NewStorewideCard(agents ports.AgentLister, shifts ports.ShiftStore, svc service.StorewideService, date time.Time) *StorewideCard {
	filter := feed.Filter{Table: feed.TableShifts, Date: businessday.Key(date)}
	pills := NewLive("storewide_pills", filter, func(ctx context.Context) (Status, error) {
		roster, rows, err := Roster(ctx, agents, shifts, date)
		if err != nil {
			return Status{}, err
		}
		var s Status
		s.Submitted, s.Missing = Partition(roster, rows)
		return s, nil
	})
	return &StorewideCard{
		svc:   svc,
		date:  date,
		pills: pills,
		form:  form.NewStorewideInput(),
	}
}

func (c *StorewideCard) Filter() feed.Filter { return c.pills.Filter() }

// OnChange registers fn to run after every state change. Set it before Bind.
func (c *StorewideCard) OnChange(fn func()) {
	c.mu.Lock()
	c.onChange = fn
	c.mu.Unlock()
	c.pills.OnChange(fn)
}

func (c *StorewideCard) changed() {
	c.mu.Lock()
	fn := c.onChange
	c.mu.Unlock()
	if fn != nil {
		fn()
	}
}

// Snapshot returns a copy of the card state.
func (c *StorewideCard) Snapshot() CardState {
	pills := c.pills.Snapshot()
	c.mu.Lock()
	defer c.mu.Unlock()
	label := LabelSubmit
	if c.hasExisting {
		label = LabelResubmit
	}
	return CardState{
		Date:        businessday.Key(c.date),
		Form:        c.form.Clone(),
		HasExisting: c.hasExisting,
		SubmitLabel: label,
		Mode:        c.mode,
		Busy:        c.busy,
		Message:     c.message,
		Error:       c.err,
		Pills:       pills,
	}
}

func (c *StorewideCard) Mode() PrefillMode {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.mode
}

// Mount loads today's stored report, if any, into the form and then the pills.
func (c *StorewideCard) Mount(ctx context.Context) error {
	rep, err := c.svc.ForDate(ctx, c.date)
	c.mu.Lock()
	switch {
	case err != nil:
		c.err = storewideLoadError + err.Error()
	case rep != nil:
		c.hasExisting = true
		c.form = form.StorewideInputFrom(rep)
	default:
		c.hasExisting = false
	}
	c.mu.Unlock()
	c.changed()

	if perr := c.pills.Load(ctx); err == nil {
		err = perr
	}
	return err
}

// Bind mounts the card and follows today's shift changes until ctx is done.
func (c *StorewideCard) Bind(ctx context.Context, changes ports.ChangeFeed) {
	sub := changes.Subscribe(c.pills.Filter())
	defer sub.Close()

	_ = c.Mount(ctx)
	for {
		select {
		case <-ctx.Done():
			c.dispatch(context.Background(), CardUnmounted)
			return
		case <-sub.C():
			_ = c.pills.Load(ctx)
			_ = c.dispatch(ctx, CardShiftsChanged)
		}
	}
}

// Edit sets one numeric column's raw text.
func (c *StorewideCard) Edit(f domain.StorewideField, v form.Field) {
	c.mu.Lock()
	c.form.Set(f, v)
	c.mu.Unlock()
	c.changed()
}

func (c *StorewideCard) SetCloser(name string) {
	c.mu.Lock()
	c.form.CloserName = name
	c.mu.Unlock()
	c.changed()
}

// Prefill copies today's BDC quick totals into the form and arms the
// automatic refresh.
func (c *StorewideCard) Prefill(ctx context.Context) error {
	c.mu.Lock()
	busy := c.busy
	c.mu.Unlock()
	if busy {
		return ErrCardBusy
	}
	return c.dispatch(ctx, CardPrefillRequested)
}

func (c *StorewideCard) dispatch(ctx context.Context, ev CardEvent) error {
	c.mu.Lock()
	next, run := Apply(c.mode, ev)
	c.mode = next
	if run == RunManual {
		c.message = ""
		c.err = ""
	}
	c.mu.Unlock()

	if run == RunNone {
		if ev == CardSaved || ev == CardUnmounted {
			c.changed()
		}
		return nil
	}
	return c.prefill(ctx, run == RunSilent)
}

func (c *StorewideCard) prefill(ctx context.Context, silent bool) error {
	p, err := c.svc.Prefill(ctx)
	c.mu.Lock()
	if err != nil {
		if !silent {
			c.err = err.Error()
		}
		c.mu.Unlock()
		if !silent {
			c.changed()
		}
		return err
	}
	// A save may have disarmed prefill while the totals were loading.
	if silent && c.mode != PrefillArmed {
		c.mu.Unlock()
		return nil
	}
	p.Apply(&c.form)
	switch {
	case !silent:
		c.message = MsgPrefilled
	case c.message == "":
		c.message = MsgPrefillSynced
	}
	c.mu.Unlock()
	c.changed()
	return nil
}

// Submit saves the form as today's report. Prefill is disarmed on success.
func (c *StorewideCard) Submit(ctx context.Context) (domain.StorewideReport, error) {
	c.mu.Lock()
	if c.busy {
		c.mu.Unlock()
		return domain.StorewideReport{}, ErrCardBusy
	}
	c.busy = true
	c.message = ""
	c.err = ""
	in := c.form.Clone()
	c.mu.Unlock()
	c.changed()

	rep, err := c.svc.Save(ctx, in)

	c.mu.Lock()
	c.busy = false
	if err != nil {
		c.err = err.Error()
		c.mu.Unlock()
		c.changed()
		return domain.StorewideReport{}, err
	}
	c.hasExisting = true
	c.message = MsgSubmitted
	c.mu.Unlock()
	_ = c.dispatch(ctx, CardSaved)
	return rep, nil
}

// Refresh reloads the pills.
func (c *StorewideCard) Refresh(ctx context.Context) error {
	return c.pills.Load(ctx)
}
