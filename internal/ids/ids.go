package ids

import "github.com/segmentio/ksuid"

// New returns a new globally unique, time-sortable identifier.
func New() string {
	return ksuid.New().String()
}

// NewWithPrefix returns an identifier tagged with the entity kind,
// e.g. "user_2bXq...". The prefix makes ids self-describing in logs
// and foreign-key columns.
func NewWithPrefix(prefix string) string {
	return prefix + "_" + ksuid.New().String()
}
