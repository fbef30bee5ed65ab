package journal_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/AntonStoeckl/account-state-ledger-go/ledger/journal"
)

func Test_BuildStorableEvent(t *testing.T) {
	// arrange
	occurredAt := time.Unix(0, 0).UTC()

	// act
	storableEvent, err := journal.BuildStorableEvent("Deposited", occurredAt, []byte(`{"Amount":1}`), []byte(`{}`))

	// assert
	require.NoError(t, err)
	assert.Equal(t, "Deposited", storableEvent.EventType)
	assert.Equal(t, occurredAt, storableEvent.OccurredAt)
	assert.JSONEq(t, `{"Amount":1}`, string(storableEvent.PayloadJSON))
}

func Test_BuildStorableEvent_WithInvalidJSON_Fails(t *testing.T) {
	_, err := journal.BuildStorableEvent("Deposited", time.Now(), []byte(`{"Amount":`), []byte(`{}`))
	assert.ErrorIs(t, err, journal.ErrInvalidPayloadJSON)

	_, err = journal.BuildStorableEvent("Deposited", time.Now(), []byte(`{}`), []byte(`nope`))
	assert.ErrorIs(t, err, journal.ErrInvalidMetadataJSON)
}

func Test_BuildStorableEventWithEmptyMetadata(t *testing.T) {
	storableEvent, err := journal.BuildStorableEventWithEmptyMetadata("Deposited", time.Now(), []byte(`{}`))

	require.NoError(t, err)
	assert.Equal(t, []byte("{}"), storableEvent.MetadataJSON)
}
