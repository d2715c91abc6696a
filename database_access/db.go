package databaseaccess

import (
	"fmt"
	"path/filepath"

	"github.com/Euraxluo/move-bridge/common"
	"github.com/Euraxluo/move-bridge/core"
)

// NewDatabase opens the processed message store at filePath. An empty path
// selects the in-memory store.
func NewDatabase(filePath string) (core.Database, error) {
	if filePath == "" {
		return NewInMemoryDatabase(), nil
	}

	if err := common.CreateDirectoryIfNotExists(filepath.Dir(filePath), 0770); err != nil {
		return nil, fmt.Errorf("failed to create directory for relayer database: %w", err)
	}

	db := &BBoltDatabase{}
	if err := db.Init(filePath); err != nil {
		return nil, err
	}

	return db, nil
}
