package databaseaccess

import (
	"fmt"

	"github.com/Euraxluo/move-bridge/core"
	"go.etcd.io/bbolt"
)

var (
	processedMessagesBucket = []byte("processedMessages")

	processedMarker = []byte{1}
)

type BBoltDatabase struct {
	db *bbolt.DB
}

var _ core.Database = (*BBoltDatabase)(nil)

func (bd *BBoltDatabase) Init(filePath string) error {
	db, err := bbolt.Open(filePath, 0660, nil)
	if err != nil {
		return fmt.Errorf("could not open db: %w", err)
	}

	bd.db = db

	return db.Update(func(tx *bbolt.Tx) error {
		for _, bn := range [][]byte{processedMessagesBucket} {
			_, err := tx.CreateBucketIfNotExists(bn)
			if err != nil {
				return fmt.Errorf("could not bucket: %s, err: %w", string(bn), err)
			}
		}

		return nil
	})
}

func (bd *BBoltDatabase) Close() error {
	return bd.db.Close()
}

func (bd *BBoltDatabase) IsMessageProcessed(messageID string) (bool, error) {
	var processed bool

	err := bd.db.View(func(tx *bbolt.Tx) error {
		processed = tx.Bucket(processedMessagesBucket).Get([]byte(messageID)) != nil

		return nil
	})
	if err != nil {
		return false, err
	}

	return processed, nil
}

func (bd *BBoltDatabase) MarkMessageProcessed(messageID string) error {
	return bd.db.Update(func(tx *bbolt.Tx) error {
		if err := tx.Bucket(processedMessagesBucket).Put([]byte(messageID), processedMarker); err != nil {
			return fmt.Errorf("processed message write error: %w", err)
		}

		return nil
	})
}

func (bd *BBoltDatabase) ProcessedMessagesCount() (uint64, error) {
	var count uint64

	err := bd.db.View(func(tx *bbolt.Tx) error {
		count = uint64(tx.Bucket(processedMessagesBucket).Stats().KeyN)

		return nil
	})
	if err != nil {
		return 0, err
	}

	return count, nil
}
