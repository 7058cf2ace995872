package protocol

import (
	"encoding/json"

	"github.com/renderloop/configsync/errors"
)

// AckTypeVariantComplete is the inbound "Type" value confirming a variant
// switch. The renderer capitalizes this key, unlike outbound "type".
const AckTypeVariantComplete = "switchVariantComplete"

// Ack is an inbound completion notification from the renderer.
type Ack struct {
	// VariantSet names the variant set whose switch completed.
	VariantSet string
}

// ParseAck decodes an inbound payload as a variant-switch completion.
// Payloads that fail to decode, carry a different type, or omit the
// variant-set name return an error; callers drop those messages.
func ParseAck(data []byte) (*Ack, error) {
	var raw struct {
		Type       string `json:"Type"`
		VariantSet string `json:"variantSetName"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, errors.WrapWithCode(err, errors.ErrCodeMalformedMessage, "decoding inbound message")
	}
	if raw.Type != AckTypeVariantComplete {
		return nil, errors.New(errors.ErrCodeUnexpectedType, "inbound message is not a completion notification",
			errors.WithMetadata("type", raw.Type))
	}
	if raw.VariantSet == "" {
		return nil, errors.MalformedMessage("completion notification missing variantSetName")
	}
	return &Ack{VariantSet: raw.VariantSet}, nil
}
