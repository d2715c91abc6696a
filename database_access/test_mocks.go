package databaseaccess

import (
	"github.com/Euraxluo/move-bridge/core"
	"github.com/stretchr/testify/mock"
)

type DBMock struct {
	mock.Mock
}

var _ core.Database = (*DBMock)(nil)

func (m *DBMock) IsMessageProcessed(messageID string) (bool, error) {
	args := m.Called(messageID)

	return args.Bool(0), args.Error(1)
}

func (m *DBMock) MarkMessageProcessed(messageID string) error {
	return m.Called(messageID).Error(0)
}

func (m *DBMock) ProcessedMessagesCount() (uint64, error) {
	args := m.Called()

	return args.Get(0).(uint64), args.Error(1)
}

func (m *DBMock) Close() error {
	return nil
}
