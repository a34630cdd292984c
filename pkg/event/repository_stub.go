package event

import (
	"context"
	"sort"
	"sync"
)

// RepositoryStub is an in-memory Repository with the same contract as RepositoryImpl.
type RepositoryStub struct {
	mu     sync.RWMutex
	items  map[int64]Event
	nextId int64
	// Err, when set, is returned by every operation to simulate a storage failure.
	Err error
}

func NewRepositoryStub() *RepositoryStub {
	return &RepositoryStub{
		items:  make(map[int64]Event),
		nextId: 1,
	}
}

func (r *RepositoryStub) EnsureSchema(ctx context.Context) error {
	return r.Err
}

func (r *RepositoryStub) ListEvents(ctx context.Context) ([]Event, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if r.Err != nil {
		return nil, r.Err
	}

	events := make([]Event, 0, len(r.items))
	for _, e := range r.items {
		events = append(events, e)
	}
	sort.Slice(events, func(i, j int) bool {
		if events[i].DateTime.Equal(events[j].DateTime) {
			return events[i].Id < events[j].Id
		}
		return events[i].DateTime.Before(events[j].DateTime)
	})
	return events, nil
}

func (r *RepositoryStub) GetEvent(ctx context.Context, id int64) (Event, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if r.Err != nil {
		return Event{}, r.Err
	}

	e, ok := r.items[id]
	if !ok {
		return Event{}, ErrEventNotFound
	}
	return e, nil
}

func (r *RepositoryStub) StoreEvent(ctx context.Context, event Event) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.Err != nil {
		return 0, r.Err
	}

	event.Id = r.nextId
	event.DateTime = event.DateTime.UTC()
	r.items[event.Id] = event
	r.nextId++
	return event.Id, nil
}

func (r *RepositoryStub) UpdateEvent(ctx context.Context, event Event) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.Err != nil {
		return false, r.Err
	}

	if _, ok := r.items[event.Id]; !ok {
		return false, nil
	}
	event.DateTime = event.DateTime.UTC()
	r.items[event.Id] = event
	return true, nil
}

func (r *RepositoryStub) DeleteEvent(ctx context.Context, id int64) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.Err != nil {
		return false, r.Err
	}

	if _, ok := r.items[id]; !ok {
		return false, nil
	}
	delete(r.items, id)
	return true, nil
}
