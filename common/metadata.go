package common

import (
	"encoding/json"
	"fmt"

	"github.com/fxamacker/cbor/v2"
)

type MetadataEncodingType string

const (
	MetadataEncodingTypeJSON MetadataEncodingType = "json"
	MetadataEncodingTypeCbor MetadataEncodingType = "cbor"
)

// TransferMetadata is the structured payload carried by "transfer" bridge
// messages. Move bridge contracts emit it cbor encoded; the JSON form exists
// for the injection API and tooling.
type TransferMetadata struct {
	Asset    string `cbor:"a" json:"a"`
	Amount   uint64 `cbor:"m" json:"m"`
	Sender   string `cbor:"s" json:"s"`
	Receiver string `cbor:"r" json:"r"`
}

type marshalFunc = func(v any) ([]byte, error)

func getMarshalFunc(encodingType MetadataEncodingType) (marshalFunc, error) {
	switch encodingType {
	case MetadataEncodingTypeJSON:
		return json.Marshal, nil
	case MetadataEncodingTypeCbor:
		return cbor.Marshal, nil
	}

	return nil, fmt.Errorf("unsupported metadata encoding type")
}

type unmarshalFunc = func(data []byte, v interface{}) error

func getUnmarshalFunc(encodingType MetadataEncodingType) (unmarshalFunc, error) {
	switch encodingType {
	case MetadataEncodingTypeJSON:
		return json.Unmarshal, nil
	case MetadataEncodingTypeCbor:
		return cbor.Unmarshal, nil
	}

	return nil, fmt.Errorf("unsupported metadata encoding type")
}

func MarshalTransferMetadata(
	encodingType MetadataEncodingType, metadata TransferMetadata,
) ([]byte, error) {
	marshalFunc, err := getMarshalFunc(encodingType)
	if err != nil {
		return nil, err
	}

	result, err := marshalFunc(metadata)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal metadata: %v, err: %w", metadata, err)
	}

	return result, nil
}

func UnmarshalTransferMetadata(
	encodingType MetadataEncodingType, data []byte,
) (*TransferMetadata, error) {
	unmarshalFunc, err := getUnmarshalFunc(encodingType)
	if err != nil {
		return nil, err
	}

	var metadata TransferMetadata

	if err := unmarshalFunc(data, &metadata); err != nil {
		return nil, fmt.Errorf("failed to unmarshal metadata, err: %w", err)
	}

	return &metadata, nil
}
