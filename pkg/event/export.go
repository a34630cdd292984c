package event

import (
	"fmt"
	"html"
	"net/http"

	ics "github.com/arran4/golang-ical"
	"github.com/klokku/eventcal/internal/utils"
	"github.com/microcosm-cc/bluemonday"
	log "github.com/sirupsen/logrus"
)

const icsProductId = "-//klokku//eventcal//EN"

// ExportHandler publishes all events as an iCalendar feed. Reminders become VALARM components;
// the server itself never delivers them.
type ExportHandler struct {
	service *Service
	clock   utils.Clock
	policy  *bluemonday.Policy
}

func NewExportHandler(service *Service, clock utils.Clock) *ExportHandler {
	return &ExportHandler{
		service: service,
		clock:   clock,
		policy:  bluemonday.StrictPolicy(),
	}
}

func (h *ExportHandler) ExportICS(w http.ResponseWriter, r *http.Request) {
	events, err := h.service.ListEvents(r.Context())
	if err != nil {
		log.Errorf("failed to export events: %v", err)
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/calendar; charset=utf-8")
	w.Header().Set("Content-Disposition", `attachment; filename="events.ics"`)
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write([]byte(h.render(events))); err != nil {
		log.Errorf("failed to write calendar: %v", err)
	}
}

func (h *ExportHandler) render(events []Event) string {
	stamp := h.clock.Now()

	cal := ics.NewCalendar()
	cal.SetMethod(ics.MethodPublish)
	cal.SetProductId(icsProductId)

	for _, e := range events {
		vevent := cal.AddEvent(fmt.Sprintf("%d@eventcal", e.Id))
		vevent.SetDtStampTime(stamp)
		vevent.SetStartAt(e.DateTime.UTC())
		vevent.SetSummary(h.plainText(e.Title))

		if e.HasReminder {
			alarm := vevent.AddAlarm()
			alarm.SetAction(ics.ActionDisplay)
			alarm.SetTrigger(reminderTrigger(e.ReminderMinutes))
			alarm.SetProperty(ics.ComponentPropertyDescription, h.plainText(e.Title))
		}
	}
	return cal.Serialize()
}

// plainText strips markup; the policy escapes entities, which iCalendar does not want.
func (h *ExportHandler) plainText(s string) string {
	return html.UnescapeString(h.policy.Sanitize(s))
}

// reminderTrigger renders a negative duration relative to the event start, e.g. "-PT15M".
func reminderTrigger(minutes int) string {
	if minutes <= 0 {
		return "PT0M"
	}
	return fmt.Sprintf("-PT%dM", minutes)
}
