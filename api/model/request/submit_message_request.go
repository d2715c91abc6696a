package request

type CrossChainMessageRequest struct {
	Nonce       uint64 `json:"nonce"`
	SourceChain string `json:"sourceChain"`
	TargetChain string `json:"targetChain"`
	MessageType string `json:"messageType"`
	// Payload is base64 encoded opaque message bytes.
	Payload []byte `json:"payload"`
}

type SubmitMessageRequest struct {
	ChainID string                   `json:"chainId"`
	Message CrossChainMessageRequest `json:"message"`
	// Signature is the hex encoded authenticator signature.
	Signature string `json:"signature"`
	Timestamp uint64 `json:"timestamp"`
}

type TransferRequest struct {
	Asset    string `json:"asset"`
	Amount   uint64 `json:"amount"`
	Sender   string `json:"sender"`
	Receiver string `json:"receiver"`
}

type SignMessageRequest struct {
	Message CrossChainMessageRequest `json:"message"`
	// Transfer, when set, is encoded the way the bridge contracts expect
	// and replaces Message.Payload.
	Transfer *TransferRequest `json:"transfer,omitempty"`
}
