package protocol

import (
	"testing"

	"github.com/renderloop/configsync/errors"
)

func TestParseAck(t *testing.T) {
	ack, err := ParseAck([]byte(`{"Type":"switchVariantComplete","variantSetName":"viewingMode"}`))
	if err != nil {
		t.Fatalf("ParseAck failed: %v", err)
	}
	if ack.VariantSet != "viewingMode" {
		t.Errorf("VariantSet = %q, want viewingMode", ack.VariantSet)
	}
}

func TestParseAck_LowercaseTypeIgnored(t *testing.T) {
	// Outbound messages use lowercase "type"; an echo must not parse as an ack.
	_, err := ParseAck([]byte(`{"type":"switchVariantComplete","variantSetName":"viewingMode"}`))
	if !errors.Is(err, errors.ErrCodeUnexpectedType) {
		t.Errorf("expected UNEXPECTED_TYPE, got %v", err)
	}
}

func TestParseAck_Errors(t *testing.T) {
	tests := []struct {
		name string
		data string
		code errors.ErrorCode
	}{
		{"bad json", `{not json`, errors.ErrCodeMalformedMessage},
		{"wrong type", `{"Type":"sceneLoaded"}`, errors.ErrCodeUnexpectedType},
		{"missing variant set", `{"Type":"switchVariantComplete"}`, errors.ErrCodeMalformedMessage},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseAck([]byte(tt.data))
			if !errors.Is(err, tt.code) {
				t.Errorf("expected %v, got %v", tt.code, err)
			}
		})
	}
}
