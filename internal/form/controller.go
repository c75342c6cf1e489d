// Package form drives the investment form: avenue selection decides the
// variant and its visible fields, submission validates, transforms and
// hands the payload to the transport.
package form

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	apperrors "nivesh/internal/errors"
	"nivesh/internal/investment"
	"nivesh/internal/logger"
	"nivesh/internal/models"
)

// State is the controller's lifecycle position.
type State int

const (
	Idle State = iota
	VariantSelected
	Submitting
	SubmitSucceeded
	SubmitFailed
)

func (s State) String() string {
	switch s {
	case Idle:
		return "idle"
	case VariantSelected:
		return "variant_selected"
	case Submitting:
		return "submitting"
	case SubmitSucceeded:
		return "submit_succeeded"
	case SubmitFailed:
		return "submit_failed"
	}
	return fmt.Sprintf("state(%d)", int(s))
}

// Creator persists a submission. The REST client implements it.
type Creator interface {
	CreateInvestment(ctx context.Context, sub *investment.Submission) (investment.Record, error)
}

// Option configures a Controller.
type Option func(*Controller)

// WithOnComplete registers a callback fired after every successful submit,
// typically to refresh a listing.
func WithOnComplete(fn func(investment.Record)) Option {
	return func(c *Controller) { c.onComplete = fn }
}

// WithTimeout bounds each submission's transport call.
func WithTimeout(d time.Duration) Option {
	return func(c *Controller) { c.timeout = d }
}

// Controller holds one form instance. It is safe for concurrent use and
// allows at most one submission in flight.
type Controller struct {
	mu         sync.Mutex
	creator    Creator
	avenues    []models.InvestmentAvenue
	data       investment.FormData
	state      State
	lastErr    error
	onComplete func(investment.Record)
	timeout    time.Duration
}

// New opens a form over the avenues the registry supplies.
func New(ctx context.Context, registry *investment.AvenueRegistry, creator Creator, opts ...Option) *Controller {
	c := &Controller{
		creator: creator,
		avenues: registry.ListAvenues(ctx),
	}
	for _, opt := range opts {
		opt(c)
	}
	c.resetLocked()
	return c
}

func (c *Controller) resetLocked() {
	c.data = investment.FormData{InvestmentType: models.TypeEquity}
	c.state = Idle
}

// State returns the current state and, in SubmitFailed, the failure.
func (c *Controller) State() (State, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.state == SubmitFailed {
		return c.state, c.lastErr
	}
	return c.state, nil
}

// Tag returns the variant the form is currently showing.
func (c *Controller) Tag() models.InvestmentType {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.data.InvestmentType
}

// Overridden reports whether the tag was set by OverrideType rather than
// by the selected avenue.
func (c *Controller) Overridden() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.data.TypeOverride
}

// Avenues returns the selectable avenues.
func (c *Controller) Avenues() []models.InvestmentAvenue {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]models.InvestmentAvenue(nil), c.avenues...)
}

// Data returns a copy of the form state.
func (c *Controller) Data() investment.FormData {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.data
}

// VisibleFields returns the fields shown for the current tag.
func (c *Controller) VisibleFields() []investment.Field {
	return investment.VisibleFields(c.Tag())
}

// SelectAvenue sets the avenue and takes the variant from it, discarding
// any earlier override. It returns the fields now visible.
func (c *Controller) SelectAvenue(id uint) ([]investment.Field, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.state == Submitting {
		return nil, apperrors.ErrSubmitInProgress
	}

	avenue, ok := investment.Lookup(c.avenues, id)
	if !ok {
		return nil, apperrors.WithFields(apperrors.ErrValidation, map[string]string{"avenue_id": "does not reference a known avenue"})
	}
	if !avenue.InvestmentType.Valid() {
		return nil, apperrors.WithMessage(apperrors.ErrUnsupportedVariant,
			fmt.Sprintf("Avenue %q has unsupported investment type %q", avenue.AvenueName, avenue.InvestmentType))
	}
	c.data.AvenueID = avenue.AvenueID
	c.data.InvestmentType = avenue.InvestmentType
	c.data.TypeOverride = false
	c.state = VariantSelected
	return investment.VisibleFields(avenue.InvestmentType), nil
}

// OverrideType records an explicit variant that differs from the selected
// avenue's. The next SelectAvenue replaces it.
func (c *Controller) OverrideType(t models.InvestmentType) ([]investment.Field, error) {
	if !t.Valid() {
		return nil, apperrors.WithMessage(apperrors.ErrUnsupportedVariant, fmt.Sprintf("Unsupported investment type %q", t))
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.state == Submitting {
		return nil, apperrors.ErrSubmitInProgress
	}
	c.data.InvestmentType = t
	c.data.TypeOverride = true
	if c.state != VariantSelected && c.data.AvenueID != 0 {
		c.state = VariantSelected
	}
	logger.Named("form").Infow("Investment type overridden", "avenue_id", c.data.AvenueID, "investment_type", t)
	return investment.VisibleFields(t), nil
}

// Set assigns a raw input value. avenue_id and investment_type are routed
// through SelectAvenue and OverrideType.
func (c *Controller) Set(field, value string) error {
	switch field {
	case "avenue_id":
		var parsed investment.FormData
		if err := parsed.Set(field, value); err != nil {
			return err
		}
		_, err := c.SelectAvenue(parsed.AvenueID)
		return err
	case "investment_type":
		_, err := c.OverrideType(models.InvestmentType(value))
		return err
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if c.state == Submitting {
		return apperrors.ErrSubmitInProgress
	}
	if err := c.data.Set(field, value); err != nil {
		return err
	}
	c.touchLocked()
	return nil
}

// Update edits field values in place. The avenue and the tag are kept;
// change them with SelectAvenue or OverrideType.
func (c *Controller) Update(fn func(*investment.FormData)) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.state == Submitting {
		return apperrors.ErrSubmitInProgress
	}
	avenueID, tag, override := c.data.AvenueID, c.data.InvestmentType, c.data.TypeOverride
	fn(&c.data)
	c.data.AvenueID, c.data.InvestmentType, c.data.TypeOverride = avenueID, tag, override
	c.touchLocked()
	return nil
}

// touchLocked returns a failed or completed form to editing.
func (c *Controller) touchLocked() {
	switch c.state {
	case SubmitFailed:
		c.state = VariantSelected
	case SubmitSucceeded:
		c.state = Idle
	}
}

// Submit validates and sends the form. Validation failures leave the state
// unchanged and never reach the transport. On success the form is cleared
// and the completion callback fires; on failure the data is kept for a
// retry. A call while another is in flight returns SUBMIT_IN_PROGRESS.
func (c *Controller) Submit(ctx context.Context) (investment.Record, error) {
	c.mu.Lock()
	if c.state == Submitting {
		c.mu.Unlock()
		return nil, apperrors.ErrSubmitInProgress
	}
	data := c.data
	avenues := c.avenues
	known := func(id uint) bool {
		_, ok := investment.Lookup(avenues, id)
		return ok
	}
	if err := investment.Validate(&data, known); err != nil {
		c.mu.Unlock()
		return nil, err
	}
	sub, err := investment.Transform(data)
	if err != nil {
		c.mu.Unlock()
		logger.Named("form").Errorw("Transform failed", "investment_type", data.InvestmentType, "error", err)
		return nil, err
	}
	c.state = Submitting
	c.mu.Unlock()

	if c.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.timeout)
		defer cancel()
	}
	record, err := c.creator.CreateInvestment(ctx, sub)
	err = classify(err)

	c.mu.Lock()
	if err != nil {
		c.state = SubmitFailed
		c.lastErr = err
		c.mu.Unlock()
		logger.Named("form").Warnw("Submission failed", "client_code", sub.ClientDetail.ClientCode, "error", err)
		return nil, err
	}
	c.resetLocked()
	c.state = SubmitSucceeded
	c.lastErr = nil
	onComplete := c.onComplete
	c.mu.Unlock()

	if onComplete != nil {
		onComplete(record)
	}
	return record, nil
}

// classify maps bare transport errors onto the error taxonomy.
func classify(err error) error {
	if err == nil || apperrors.Code(err) != "" {
		return err
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return apperrors.Wrap(apperrors.ErrTimeout, err)
	}
	return apperrors.Wrap(apperrors.ErrTransport, err)
}

// Reset clears the form back to Idle.
func (c *Controller) Reset() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.state == Submitting {
		return apperrors.ErrSubmitInProgress
	}
	c.resetLocked()
	return nil
}
