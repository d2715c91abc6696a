package authenticator

import (
	"crypto/ed25519"
	"crypto/rand"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/Euraxluo/move-bridge/core"
	"github.com/hashicorp/go-hclog"
	"golang.org/x/crypto/blake2b"
)

const (
	// DefaultMaxMessageAge is the verification window when the
	// configuration does not set one.
	DefaultMaxMessageAge = 3600 // seconds

	minNonce = uint64(1)
)

// Policy bounds what the authenticator will sign or accept: which chains
// may appear as source and target and for how long a signature stays valid.
type Policy struct {
	MaxMessageAge       uint64
	AllowedSourceChains map[string]bool
	AllowedTargetChains map[string]bool
}

// NewPolicy builds a policy from chain id lists. Empty lists allow every
// configured chain; a zero max age selects the default window.
func NewPolicy(maxMessageAge uint64, sourceChains, targetChains []string) Policy {
	if maxMessageAge == 0 {
		maxMessageAge = DefaultMaxMessageAge
	}

	return Policy{
		MaxMessageAge:       maxMessageAge,
		AllowedSourceChains: chainSet(sourceChains),
		AllowedTargetChains: chainSet(targetChains),
	}
}

// PolicyFromConfig derives the authenticator policy from the application
// configuration, defaulting empty allow lists to every configured chain.
func PolicyFromConfig(appConfig *core.AppConfig) Policy {
	sourceChains := appConfig.Authenticator.AllowedSourceChains
	targetChains := appConfig.Authenticator.AllowedTargetChains

	if len(sourceChains) == 0 || len(targetChains) == 0 {
		allChains := make([]string, 0, len(appConfig.Chains))
		for _, chain := range appConfig.Chains {
			allChains = append(allChains, chain.ID)
		}

		if len(sourceChains) == 0 {
			sourceChains = allChains
		}

		if len(targetChains) == 0 {
			targetChains = allChains
		}
	}

	return NewPolicy(appConfig.Authenticator.MaxMessageAge, sourceChains, targetChains)
}

func chainSet(chainIDs []string) map[string]bool {
	set := make(map[string]bool, len(chainIDs))
	for _, id := range chainIDs {
		set[id] = true
	}

	return set
}

// MessageAuthenticator signs outgoing bridge messages and verifies incoming
// ones. Verification is stateful: every successfully verified message
// advances a per source chain nonce watermark and anything at or below the
// watermark is rejected. The watermark map is guarded so the poll loop and
// the injection API may verify concurrently.
type MessageAuthenticator struct {
	privateKey ed25519.PrivateKey
	publicKey  ed25519.PublicKey
	policy     Policy
	logger     hclog.Logger

	lock       sync.RWMutex
	watermarks map[string]uint64
}

var _ core.Authenticator = (*MessageAuthenticator)(nil)

// NewMessageAuthenticator creates an authenticator from a 32 byte ed25519
// seed.
func NewMessageAuthenticator(seed []byte, policy Policy, logger hclog.Logger) (*MessageAuthenticator, error) {
	if len(seed) != ed25519.SeedSize {
		return nil, core.NewValidationError("invalid signing key size: %d", len(seed))
	}

	privateKey := ed25519.NewKeyFromSeed(seed)

	return &MessageAuthenticator{
		privateKey: privateKey,
		publicKey:  privateKey.Public().(ed25519.PublicKey),
		policy:     policy,
		logger:     logger,
		watermarks: map[string]uint64{},
	}, nil
}

// GenerateMessageAuthenticator creates an authenticator with a fresh random
// keypair. Signatures do not survive a restart.
func GenerateMessageAuthenticator(policy Policy, logger hclog.Logger) (*MessageAuthenticator, error) {
	publicKey, privateKey, err := ed25519.GenerateKey(rand.Reader)
	if err != nil {
		return nil, fmt.Errorf("failed to generate signing key: %w", err)
	}

	return &MessageAuthenticator{
		privateKey: privateKey,
		publicKey:  publicKey,
		policy:     policy,
		logger:     logger,
		watermarks: map[string]uint64{},
	}, nil
}

func (a *MessageAuthenticator) PublicKey() ed25519.PublicKey {
	return a.publicKey
}

// Watermark returns the highest verified nonce for the source chain, zero
// when nothing has been verified yet.
func (a *MessageAuthenticator) Watermark(chainID string) uint64 {
	a.lock.RLock()
	defer a.lock.RUnlock()

	return a.watermarks[chainID]
}

// Watermarks returns a copy of every source chain watermark.
func (a *MessageAuthenticator) Watermarks() map[string]uint64 {
	a.lock.RLock()
	defer a.lock.RUnlock()

	watermarks := make(map[string]uint64, len(a.watermarks))
	for chainID, nonce := range a.watermarks {
		watermarks[chainID] = nonce
	}

	return watermarks
}

// validateMessageProperties checks the policy allow lists and the nonce
// ordering. Callers hold at least a read lock.
func (a *MessageAuthenticator) validateMessageProperties(message core.CrossChainMessage) error {
	if !a.policy.AllowedSourceChains[message.SourceChain] {
		return core.NewValidationError("invalid source chain: %s", message.SourceChain)
	}

	if !a.policy.AllowedTargetChains[message.TargetChain] {
		return core.NewValidationError("invalid target chain: %s", message.TargetChain)
	}

	if message.Nonce < minNonce || message.Nonce <= a.watermarks[message.SourceChain] {
		return core.NewValidationError("invalid nonce: %d", message.Nonce)
	}

	return nil
}

// messageHash computes the Blake2b-512 digest of the canonical JSON
// encoding of the message. Sign and verify must agree on this encoding.
func messageHash(message core.CrossChainMessage) ([]byte, error) {
	messageBytes, err := json.Marshal(message)
	if err != nil {
		return nil, &core.SerializationError{Err: err}
	}

	hash := blake2b.Sum512(messageBytes)

	return hash[:], nil
}

// SignMessage validates the message against the policy and the current
// watermark, signs its hash and returns the envelope stamped with the
// current time. Signing never advances the watermark, only successful
// verification does.
func (a *MessageAuthenticator) SignMessage(message core.CrossChainMessage) (*core.SignedMessage, error) {
	a.lock.RLock()
	err := a.validateMessageProperties(message)
	a.lock.RUnlock()

	if err != nil {
		return nil, err
	}

	hash, err := messageHash(message)
	if err != nil {
		return nil, err
	}

	signature := ed25519.Sign(a.privateKey, hash)

	a.logger.Debug("message signed", "sourceChain", message.SourceChain, "nonce", message.Nonce)

	return &core.SignedMessage{
		Message:   message,
		Signature: signature,
		Timestamp: uint64(time.Now().Unix()),
	}, nil
}

// VerifyMessage checks the envelope age, the policy and the signature.
// An expired, future dated, malformed or forged signature yields false
// without an error; a policy or nonce violation is an error. On success the
// source chain watermark advances to the message nonce.
func (a *MessageAuthenticator) VerifyMessage(signed *core.SignedMessage) (bool, error) {
	now := uint64(time.Now().Unix())

	if signed.Timestamp > now || now-signed.Timestamp > a.policy.MaxMessageAge {
		a.logger.Debug("message expired", "timestamp", signed.Timestamp, "now", now)

		return false, nil
	}

	a.lock.Lock()
	defer a.lock.Unlock()

	if err := a.validateMessageProperties(signed.Message); err != nil {
		return false, err
	}

	hash, err := messageHash(signed.Message)
	if err != nil {
		return false, err
	}

	if len(signed.Signature) != ed25519.SignatureSize {
		a.logger.Debug("invalid signature size", "size", len(signed.Signature))

		return false, nil
	}

	if !ed25519.Verify(a.publicKey, hash, signed.Signature) {
		a.logger.Debug("signature mismatch",
			"sourceChain", signed.Message.SourceChain, "nonce", signed.Message.Nonce)

		return false, nil
	}

	a.watermarks[signed.Message.SourceChain] = signed.Message.Nonce

	return true, nil
}

// SignResult is the outcome of signing one element of a batch.
type SignResult struct {
	SignedMessage *core.SignedMessage
	Err           error
}

// SignMessages signs every message independently, in order, one outcome per
// input. A failure does not stop the batch nor roll back earlier successes.
func (a *MessageAuthenticator) SignMessages(messages []core.CrossChainMessage) []SignResult {
	results := make([]SignResult, len(messages))

	for i, message := range messages {
		signed, err := a.SignMessage(message)
		results[i] = SignResult{SignedMessage: signed, Err: err}
	}

	return results
}

// VerifyResult is the outcome of verifying one element of a batch.
type VerifyResult struct {
	Valid bool
	Err   error
}

// VerifyMessages verifies every envelope independently, in order, one
// outcome per input.
func (a *MessageAuthenticator) VerifyMessages(messages []core.SignedMessage) []VerifyResult {
	results := make([]VerifyResult, len(messages))

	for i := range messages {
		valid, err := a.VerifyMessage(&messages[i])
		results[i] = VerifyResult{Valid: valid, Err: err}
	}

	return results
}
