package event_bus

import "time"

const (
	CalendarEventCreatedType EventType = "calendar.event.created"
	CalendarEventUpdatedType EventType = "calendar.event.updated"
	CalendarEventDeletedType EventType = "calendar.event.deleted"
)

type CalendarEventCreated struct {
	Id              int64
	Title           string
	DateTime        time.Time
	HasReminder     bool
	ReminderMinutes int
}

type CalendarEventUpdated struct {
	Id              int64
	Title           string
	DateTime        time.Time
	HasReminder     bool
	ReminderMinutes int
}

type CalendarEventDeleted struct {
	Id int64
}
