package core

import (
	"context"
	"crypto/ed25519"

	"github.com/stretchr/testify/mock"
)

type ChainAdapterMock struct {
	mock.Mock
}

var _ ChainAdapter = (*ChainAdapterMock)(nil)

func (m *ChainAdapterMock) ChainType() string {
	return m.Called().String(0)
}

func (m *ChainAdapterMock) ListenEvents(ctx context.Context, config ChainConfig) ([]SignedMessage, error) {
	args := m.Called(ctx, config)

	if args.Get(0) == nil {
		return nil, args.Error(1)
	}

	return args.Get(0).([]SignedMessage), args.Error(1)
}

func (m *ChainAdapterMock) SubmitMessage(ctx context.Context, config ChainConfig, message SignedMessage) error {
	return m.Called(ctx, config, message).Error(0)
}

func (m *ChainAdapterMock) VerifyMessage(
	ctx context.Context, config ChainConfig, message *SignedMessage,
) (MessageStatus, error) {
	args := m.Called(ctx, config, message)

	return args.Get(0).(MessageStatus), args.Error(1)
}

type MessageVerifierMock struct {
	mock.Mock
}

var _ MessageVerifier = (*MessageVerifierMock)(nil)

func (m *MessageVerifierMock) VerifyMessage(message *SignedMessage) (bool, error) {
	args := m.Called(message)

	return args.Bool(0), args.Error(1)
}

type AuthenticatorMock struct {
	mock.Mock
}

var _ Authenticator = (*AuthenticatorMock)(nil)

func (m *AuthenticatorMock) SignMessage(message CrossChainMessage) (*SignedMessage, error) {
	args := m.Called(message)

	if args.Get(0) == nil {
		return nil, args.Error(1)
	}

	return args.Get(0).(*SignedMessage), args.Error(1)
}

func (m *AuthenticatorMock) VerifyMessage(message *SignedMessage) (bool, error) {
	args := m.Called(message)

	return args.Bool(0), args.Error(1)
}

func (m *AuthenticatorMock) PublicKey() ed25519.PublicKey {
	args := m.Called()

	if args.Get(0) == nil {
		return nil
	}

	return args.Get(0).(ed25519.PublicKey)
}

func (m *AuthenticatorMock) Watermarks() map[string]uint64 {
	args := m.Called()

	if args.Get(0) == nil {
		return nil
	}

	return args.Get(0).(map[string]uint64)
}

type RelayerMock struct {
	mock.Mock
}

var _ Relayer = (*RelayerMock)(nil)

func (m *RelayerMock) Start(ctx context.Context) {
	m.Called(ctx)
}

func (m *RelayerMock) ProcessMessage(ctx context.Context, chainID string, message SignedMessage) error {
	return m.Called(ctx, chainID, message).Error(0)
}
