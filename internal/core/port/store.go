package port

import (
	"github.com/berfenger/pvledger2mqtt/internal/core/domain"
)

// SnapshotStore is the persistence adapter for accumulated state.
// Load returns nil without error when no snapshot exists yet.
type SnapshotStore interface {
	Load() (*domain.LedgerSnapshot, error)
	Save(snapshot domain.LedgerSnapshot) error
}
