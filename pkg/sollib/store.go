package sollib

// Persisted key names. Presentation layers read these directly, so the
// names are part of the external contract.
const (
	KeyAllDaysData       = "all_days_data"
	KeyCurrentDayIndex   = "current_day_index"
	KeyCurrentWeekOffset = "current_week_offset"
	KeyIsRefreshing      = "is_refreshing"
	KeyError             = "error"
	KeyRefreshRequested  = "refresh_requested"
	KeyWeekNavDirection  = "week_navigation_direction"
)

// Store is the key/value state port backing the cached schedule and the
// navigation and refresh state. Implementations must make Update atomic:
// no other reader or writer may observe a partially applied mutation.
type Store interface {
	// Get returns the value for key. ok is false when the key has
	// never been written.
	Get(key string) (value string, ok bool, err error)

	// Set writes a single key.
	Set(key, value string) error

	// Delete removes a key. Deleting an absent key is not an error.
	Delete(key string) error

	// Update runs fn inside an atomic read-modify-write transaction.
	// If fn returns an error the transaction is rolled back.
	Update(fn func(tx Tx) error) error

	// Close releases the underlying resources.
	Close() error
}

// Tx is the view of a Store inside an Update transaction.
type Tx interface {
	Get(key string) (value string, ok bool, err error)
	Set(key, value string) error
	Delete(key string) error
}
