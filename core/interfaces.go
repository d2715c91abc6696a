package core

import (
	"context"
	"crypto/ed25519"
)

// ChainAdapter is the capability one blockchain family supplies to the
// relayer: listening for outbound bridge events, submitting messages and
// querying delivery status. Implementations wrap every remote call in the
// shared retry decorator.
type ChainAdapter interface {
	ChainType() string
	ListenEvents(ctx context.Context, config ChainConfig) ([]SignedMessage, error)
	SubmitMessage(ctx context.Context, config ChainConfig, message SignedMessage) error
	VerifyMessage(ctx context.Context, config ChainConfig, message *SignedMessage) (MessageStatus, error)
}

// MessageSigner produces authenticated envelopes for outbound messages.
type MessageSigner interface {
	SignMessage(message CrossChainMessage) (*SignedMessage, error)
}

// MessageVerifier checks the authenticity of an inbound envelope. A false
// result marks an expired or forged message; an error marks a policy
// violation (disallowed chain, stale nonce).
type MessageVerifier interface {
	VerifyMessage(message *SignedMessage) (bool, error)
}

// Authenticator is the full signing/verification surface, including the
// introspection the API exposes.
type Authenticator interface {
	MessageSigner
	MessageVerifier
	PublicKey() ed25519.PublicKey
	Watermarks() map[string]uint64
}

// Database tracks which messages have already been relayed.
type Database interface {
	IsMessageProcessed(messageID string) (bool, error)
	MarkMessageProcessed(messageID string) error
	ProcessedMessagesCount() (uint64, error)
	Close() error
}

type Relayer interface {
	Start(ctx context.Context)
	ProcessMessage(ctx context.Context, chainID string, message SignedMessage) error
}
