package app

import (
	"github.com/klokku/eventcal/internal/event_bus"
	"github.com/klokku/eventcal/internal/metrics"
	log "github.com/sirupsen/logrus"
)

func subscribeAudit(bus *event_bus.EventBus) {
	event_bus.SubscribeTyped(bus, event_bus.CalendarEventCreatedType,
		func(e event_bus.EventT[event_bus.CalendarEventCreated]) error {
			log.WithFields(log.Fields{
				"event_id":  e.Data.Id,
				"title":     e.Data.Title,
				"date_time": e.Data.DateTime,
			}).Info("calendar event created")
			return nil
		})
	event_bus.SubscribeTyped(bus, event_bus.CalendarEventUpdatedType,
		func(e event_bus.EventT[event_bus.CalendarEventUpdated]) error {
			log.WithFields(log.Fields{
				"event_id":  e.Data.Id,
				"title":     e.Data.Title,
				"date_time": e.Data.DateTime,
			}).Info("calendar event updated")
			return nil
		})
	event_bus.SubscribeTyped(bus, event_bus.CalendarEventDeletedType,
		func(e event_bus.EventT[event_bus.CalendarEventDeleted]) error {
			log.WithField("event_id", e.Data.Id).Info("calendar event deleted")
			return nil
		})
}

var mutationActions = map[event_bus.EventType]string{
	event_bus.CalendarEventCreatedType: "create",
	event_bus.CalendarEventUpdatedType: "update",
	event_bus.CalendarEventDeletedType: "delete",
}

func subscribeMetrics(bus *event_bus.EventBus) {
	for eventType, action := range mutationActions {
		bus.Subscribe(eventType, func(e event_bus.Event) error {
			metrics.EventMutations.WithLabelValues(action).Inc()
			return nil
		})
	}
}
