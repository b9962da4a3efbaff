/*
Package store defines the Storage capability: an opaque key/value text store.

PURPOSE:
  The engine persists its state as a handful of serialized JSON blobs plus two
  scalar preferences. Storage is deliberately dumb — Get and Set of raw text —
  so the owning controller decides what to serialize and when. Last writer
  wins; there is no locking or merge across processes.

KEYS IN USE:
  players         serialized player roster
  active_rentals  serialized fixed-term rentals
  history         serialized transaction history
  theme           "dark" | "light" preference
  last_rental_type  sticky package-type preference

IMPLEMENTATIONS:
  - memory.go: in-memory map, for tests and dev
  - sqlite/sqlite.go: durable single-file store

SEE ALSO:
  - app/state.go: the only writer
*/
package store

import "context"

// Storage is an opaque text blob store.
type Storage interface {
	// Get returns the value for key and whether the key exists.
	Get(ctx context.Context, key string) (string, bool, error)

	// Set writes the value for key, replacing any previous value.
	Set(ctx context.Context, key, value string) error
}

// Well-known keys. The controller owns their contents.
const (
	KeyPlayers        = "players"
	KeyActiveRentals  = "active_rentals"
	KeyHistory        = "history"
	KeyTheme          = "theme"
	KeyLastRentalType = "last_rental_type"
)
