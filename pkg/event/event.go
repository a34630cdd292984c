package event

import (
	"errors"
	"strconv"
	"time"
)

var ErrEventNotFound = errors.New("event not found")

// Event is a single calendar entry. Id is assigned by storage and never changes.
type Event struct {
	Id              int64
	Title           string
	DateTime        time.Time
	HasReminder     bool
	ReminderMinutes int
}

// Draft holds form input that has not been validated yet.
type Draft struct {
	Id              int64  `form:"id"`
	Title           string `form:"title" validate:"required,notblank,storable_text,max=255"`
	DateTime        string `form:"dateTime" validate:"required,event_datetime"`
	HasReminder     bool   `form:"hasReminder"`
	ReminderMinutes string `form:"reminderMinutes" validate:"required,number"`
}

// ValidationErrors maps a form field name to a message describing why it was rejected.
type ValidationErrors map[string]string

const draftDateTimeLayout = "2006-01-02T15:04"

// NewDraft fills a draft with the values of an existing event, as presented in the edit form.
func NewDraft(e Event) Draft {
	// datetime-local inputs take at most millisecond precision
	layout := draftDateTimeLayout
	if e.DateTime.Second() != 0 || e.DateTime.Nanosecond() != 0 {
		layout = "2006-01-02T15:04:05.999"
	}
	return Draft{
		Id:              e.Id,
		Title:           e.Title,
		DateTime:        e.DateTime.UTC().Format(layout),
		HasReminder:     e.HasReminder,
		ReminderMinutes: strconv.Itoa(e.ReminderMinutes),
	}
}
