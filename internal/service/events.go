package service

import (
	"context"

	"kanban_api/internal/domain"
	"kanban_api/internal/repository"
)

// Publisher receives events for committed writes only.
type Publisher interface {
	Publish(ctx context.Context, ev domain.Event)
}

type nopPublisher struct{}

func (nopPublisher) Publish(context.Context, domain.Event) {}

func orNop(p Publisher) Publisher {
	if p == nil {
		return nopPublisher{}
	}
	return p
}

func newEvent(t domain.EventType, userID, boardID, entityID string) domain.Event {
	return domain.Event{
		Type:     t,
		UserID:   userID,
		BoardID:  boardID,
		EntityID: entityID,
		At:       repository.NowMillis(),
	}
}
