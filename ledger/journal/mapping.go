package journal

import (
	"errors"

	jsoniter "github.com/json-iterator/go"

	"github.com/AntonStoeckl/account-state-ledger-go/ledger"
)

var (
	// ErrMappingToStorableEventFailedForDomainEvent is returned when domain event serialization fails.
	ErrMappingToStorableEventFailedForDomainEvent = errors.New("mapping to storable event failed for domain event")

	// ErrMappingToStorableEventFailedForMetadata is returned when metadata serialization fails.
	ErrMappingToStorableEventFailedForMetadata = errors.New("mapping to storable event failed for metadata")

	// ErrMappingToDomainEventFailed is returned when domain event conversion fails.
	ErrMappingToDomainEventFailed = errors.New("mapping to domain event failed")

	// ErrMappingToDomainEventUnknownEventType is returned for unrecognized event types.
	ErrMappingToDomainEventUnknownEventType = errors.New("unknown event type")
)

// StorableEventFrom converts a DomainEvent and its EventMetadata to a StorableEvent.
func StorableEventFrom(event ledger.DomainEvent, metadata EventMetadata) (StorableEvent, error) {
	payloadJSON, err := jsoniter.ConfigCompatibleWithStandardLibrary.Marshal(event)
	if err != nil {
		return StorableEvent{}, errors.Join(ErrMappingToStorableEventFailedForDomainEvent, err)
	}

	metadataJSON, err := jsoniter.ConfigCompatibleWithStandardLibrary.Marshal(metadata)
	if err != nil {
		return StorableEvent{}, errors.Join(ErrMappingToStorableEventFailedForMetadata, err)
	}

	storableEvent, err := BuildStorableEvent(event.IsEventType(), event.HasOccurredAt(), payloadJSON, metadataJSON)
	if err != nil {
		return StorableEvent{}, errors.Join(ErrMappingToStorableEventFailedForDomainEvent, err)
	}

	return storableEvent, nil
}

// StorableEventsFrom converts all DomainEvents of one transition, sharing the given EventMetadata.
func StorableEventsFrom(events ledger.DomainEvents, metadata EventMetadata) (StorableEvents, error) {
	storableEvents := make(StorableEvents, 0, len(events))

	for _, event := range events {
		storableEvent, err := StorableEventFrom(event, metadata)
		if err != nil {
			return nil, err
		}

		storableEvents = append(storableEvents, storableEvent)
	}

	return storableEvents, nil
}

// DomainEventsFrom converts multiple StorableEvents to DomainEvents.
func DomainEventsFrom(storableEvents StorableEvents) (ledger.DomainEvents, error) {
	domainEvents := make(ledger.DomainEvents, 0, len(storableEvents))

	for _, storableEvent := range storableEvents {
		domainEvent, err := DomainEventFrom(storableEvent)
		if err != nil {
			return nil, err
		}

		domainEvents = append(domainEvents, domainEvent)
	}

	return domainEvents, nil
}

// DomainEventFrom converts a StorableEvent to its corresponding DomainEvent.
func DomainEventFrom(storableEvent StorableEvent) (ledger.DomainEvent, error) {
	switch storableEvent.EventType {
	case ledger.DepositedEventType:
		return unmarshal[ledger.Deposited](storableEvent.PayloadJSON)

	case ledger.WithdrawnEventType:
		return unmarshal[ledger.Withdrawn](storableEvent.PayloadJSON)

	case ledger.ClaimCreatedEventType:
		return unmarshal[ledger.ClaimCreated](storableEvent.PayloadJSON)

	case ledger.RevokeSuccessfulEventType:
		return unmarshal[ledger.RevokeSuccessful](storableEvent.PayloadJSON)

	case ledger.TransferSuccessfulEventType:
		return unmarshal[ledger.TransferSuccessful](storableEvent.PayloadJSON)
	}

	return nil, errors.Join(ErrMappingToDomainEventFailed, ErrMappingToDomainEventUnknownEventType)
}

func unmarshal[E ledger.DomainEvent](payloadJSON []byte) (ledger.DomainEvent, error) {
	payload := new(E)

	if err := jsoniter.ConfigFastest.Unmarshal(payloadJSON, payload); err != nil {
		return nil, errors.Join(ErrMappingToDomainEventFailed, err)
	}

	return *payload, nil
}
