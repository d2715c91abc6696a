package core

import (
	"encoding/hex"
)

type MessageType string

const (
	MessageTypeTransfer MessageType = "transfer"
)

// CrossChainMessage is the payload a bridge contract emits on the source
// chain and the relayer delivers to the target chain.
type CrossChainMessage struct {
	Nonce       uint64      `json:"nonce"`
	SourceChain string      `json:"source_chain"`
	TargetChain string      `json:"target_chain"`
	MessageType MessageType `json:"message_type"`
	Payload     []byte      `json:"payload"`
}

// SignedMessage bundles a message with its authenticator signature and the
// unix time at which it was signed.
type SignedMessage struct {
	Message   CrossChainMessage `json:"message"`
	Signature []byte            `json:"signature"`
	Timestamp uint64            `json:"timestamp"`
}

// ID returns the relay identity of the envelope, the hex encoding of its
// signature bytes. Messages with equal IDs are relayed at most once.
func (sm SignedMessage) ID() string {
	return hex.EncodeToString(sm.Signature)
}

type MessageStatus int

const (
	MessageStatusPending MessageStatus = iota
	MessageStatusProcessed
	MessageStatusFailed
)

func (ms MessageStatus) String() string {
	switch ms {
	case MessageStatusProcessed:
		return "processed"
	case MessageStatusFailed:
		return "failed"
	default:
		return "pending"
	}
}
