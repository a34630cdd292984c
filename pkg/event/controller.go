package event

import (
	"context"
	"errors"
)

const ListPath = "/calendars"

// Outcome is what a controller action decided; exactly one of the types below.
type Outcome interface {
	outcome()
}

// Render shows View with Data.
type Render struct {
	View string
	Data any
}

// Redirect sends the client to Target.
type Redirect struct {
	Target string
}

// NotFound means the addressed event does not exist.
type NotFound struct{}

// Redisplay shows the form View again with the rejected draft and the reasons.
type Redisplay struct {
	View   string
	Draft  Draft
	Errors ValidationErrors
}

func (Render) outcome()    {}
func (Redirect) outcome()  {}
func (NotFound) outcome()  {}
func (Redisplay) outcome() {}

// FormData is the model of the create and edit views.
type FormData struct {
	Draft  Draft
	Errors ValidationErrors
}

// Controller maps the user intents on events to service calls. It knows nothing about HTTP;
// only storage failures come back as errors.
type Controller struct {
	service *Service
}

func NewController(service *Service) *Controller {
	return &Controller{service: service}
}

func (c *Controller) List(ctx context.Context) (Outcome, error) {
	events, err := c.service.ListEvents(ctx)
	if err != nil {
		return nil, err
	}
	return Render{View: "index", Data: events}, nil
}

func (c *Controller) Details(ctx context.Context, id int64) (Outcome, error) {
	return c.renderExisting(ctx, id, "details")
}

func (c *Controller) CreateForm(ctx context.Context) (Outcome, error) {
	return Render{View: "create", Data: FormData{Draft: Draft{ReminderMinutes: "0"}}}, nil
}

func (c *Controller) SubmitCreate(ctx context.Context, draft Draft) (Outcome, error) {
	_, verrs, err := c.service.CreateEvent(ctx, draft)
	if err != nil {
		return nil, err
	}
	if len(verrs) > 0 {
		return Redisplay{View: "create", Draft: draft, Errors: verrs}, nil
	}
	return Redirect{Target: ListPath}, nil
}

func (c *Controller) EditForm(ctx context.Context, id int64) (Outcome, error) {
	e, err := c.service.GetEvent(ctx, id)
	if errors.Is(err, ErrEventNotFound) {
		return NotFound{}, nil
	}
	if err != nil {
		return nil, err
	}
	return Render{View: "edit", Data: FormData{Draft: NewDraft(e)}}, nil
}

// SubmitEdit refuses a draft addressed to another event than the one in the route, and only
// validates once the event is known to exist.
func (c *Controller) SubmitEdit(ctx context.Context, id int64, draft Draft) (Outcome, error) {
	if id != draft.Id {
		return NotFound{}, nil
	}
	_, err := c.service.GetEvent(ctx, id)
	if errors.Is(err, ErrEventNotFound) {
		return NotFound{}, nil
	}
	if err != nil {
		return nil, err
	}
	// the event can still vanish before the update
	updated, verrs, err := c.service.UpdateEvent(ctx, draft)
	if err != nil {
		return nil, err
	}
	if len(verrs) > 0 {
		return Redisplay{View: "edit", Draft: draft, Errors: verrs}, nil
	}
	if !updated {
		return NotFound{}, nil
	}
	return Redirect{Target: ListPath}, nil
}

func (c *Controller) DeleteConfirm(ctx context.Context, id int64) (Outcome, error) {
	return c.renderExisting(ctx, id, "delete")
}

// SubmitDelete always ends on the list; deleting an already removed event is not an error.
func (c *Controller) SubmitDelete(ctx context.Context, id int64) (Outcome, error) {
	if _, err := c.service.DeleteEvent(ctx, id); err != nil {
		return nil, err
	}
	return Redirect{Target: ListPath}, nil
}

func (c *Controller) renderExisting(ctx context.Context, id int64, view string) (Outcome, error) {
	e, err := c.service.GetEvent(ctx, id)
	if errors.Is(err, ErrEventNotFound) {
		return NotFound{}, nil
	}
	if err != nil {
		return nil, err
	}
	return Render{View: view, Data: e}, nil
}
