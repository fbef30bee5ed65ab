package journal

import (
	"errors"
)

var (
	ErrEmptyTableNameSupplied      = errors.New("empty table name supplied")
	ErrNilDatabaseConnection       = errors.New("database connection must not be nil")
	ErrNilEventStore               = errors.New("event store must not be nil")
	ErrConcurrencyConflict         = errors.New("concurrency error, no rows were affected")
	ErrQueryingEventsFailed        = errors.New("querying events failed")
	ErrAppendingEventFailed        = errors.New("appending the event failed")
	ErrScanningDBRowFailed         = errors.New("scanning db row failed")
	ErrBuildingStorableEventFailed = errors.New("building storable event failed")
	ErrBuildingQueryFailed         = errors.New("building query failed")
	ErrGettingRowsAffectedFailed   = errors.New("getting rows affected failed")
	ErrNoEventsToAppend            = errors.New("a transition succeeded without emitting events")
)

// MaxSequenceNumberUint is the highest sequence number of all events matching a Filter at the time of a query.
type MaxSequenceNumberUint = uint
