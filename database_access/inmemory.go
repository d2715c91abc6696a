package databaseaccess

import (
	"sync"

	"github.com/Euraxluo/move-bridge/core"
)

// InMemoryDatabase keeps the processed message set in memory only. It backs
// deployments without a configured database path; deduplication does not
// survive a restart.
type InMemoryDatabase struct {
	lock      sync.RWMutex
	processed map[string]bool
}

var _ core.Database = (*InMemoryDatabase)(nil)

func NewInMemoryDatabase() *InMemoryDatabase {
	return &InMemoryDatabase{
		processed: map[string]bool{},
	}
}

func (imd *InMemoryDatabase) Close() error {
	return nil
}

func (imd *InMemoryDatabase) IsMessageProcessed(messageID string) (bool, error) {
	imd.lock.RLock()
	defer imd.lock.RUnlock()

	return imd.processed[messageID], nil
}

func (imd *InMemoryDatabase) MarkMessageProcessed(messageID string) error {
	imd.lock.Lock()
	defer imd.lock.Unlock()

	imd.processed[messageID] = true

	return nil
}

func (imd *InMemoryDatabase) ProcessedMessagesCount() (uint64, error) {
	imd.lock.RLock()
	defer imd.lock.RUnlock()

	return uint64(len(imd.processed)), nil
}
