package protocol

import (
	"testing"

	"github.com/renderloop/configsync/errors"
)

func TestVariantSelection_Wire(t *testing.T) {
	cmd := VariantSelection{
		PrimPath:   "/Root/Purse",
		VariantSet: "viewingMode",
		Variant:    "tabletop",
	}

	data, err := cmd.Marshal()
	if err != nil {
		t.Fatalf("Marshal failed: %v", err)
	}

	want := `{"type":"setVariantSelection","primPath":"/Root/Purse","variantSetName":"viewingMode","variantName":"tabletop"}`
	if string(data) != want {
		t.Errorf("wire format mismatch:\n got %s\nwant %s", data, want)
	}
}

func TestVariantSelection_MarshalInvalid(t *testing.T) {
	_, err := VariantSelection{PrimPath: "/Root/Purse"}.Marshal()
	if !errors.Is(err, errors.ErrCodeInvalidCommand) {
		t.Errorf("expected INVALID_COMMAND, got %v", err)
	}
}

func TestLightSlider_Wire(t *testing.T) {
	data, err := LightSlider{Intensity: 1.5}.Marshal()
	if err != nil {
		t.Fatalf("Marshal failed: %v", err)
	}

	want := `{"type":"setLightSlider","intensity":1.5}`
	if string(data) != want {
		t.Errorf("wire format mismatch:\n got %s\nwant %s", data, want)
	}
}

func TestNewLightSlider_Clamps(t *testing.T) {
	tests := []struct {
		in   float64
		want float64
	}{
		{-0.5, 0.0},
		{0.0, 0.0},
		{1.0, 1.0},
		{2.0, 2.0},
		{7.3, 2.0},
	}

	for _, tt := range tests {
		if got := NewLightSlider(tt.in).Intensity; got != tt.want {
			t.Errorf("NewLightSlider(%v).Intensity = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestPurseRotation_Wire(t *testing.T) {
	data, err := PurseRotation{Animation: RotateCW}.Marshal()
	if err != nil {
		t.Fatalf("Marshal failed: %v", err)
	}

	want := `{"type":"setPurseRotation","animationName":"RotateCW"}`
	if string(data) != want {
		t.Errorf("wire format mismatch:\n got %s\nwant %s", data, want)
	}
}

func TestPurseRotation_RejectsUnknownAnimation(t *testing.T) {
	_, err := PurseRotation{Animation: "RotateUp"}.Marshal()
	if !errors.Is(err, errors.ErrCodeInvalidCommand) {
		t.Errorf("expected INVALID_COMMAND, got %v", err)
	}
}

func TestActiveCamera_Wire(t *testing.T) {
	data, err := ActiveCamera{CameraPath: "/Root/Cameras/Front"}.Marshal()
	if err != nil {
		t.Fatalf("Marshal failed: %v", err)
	}

	want := `{"type":"setActiveCamera","cameraPath":"/Root/Cameras/Front"}`
	if string(data) != want {
		t.Errorf("wire format mismatch:\n got %s\nwant %s", data, want)
	}
}

func TestCommand_AckKeys(t *testing.T) {
	variant := VariantSelection{PrimPath: "/Root/Purse", VariantSet: "purseColor", Variant: "emerald"}
	if variant.AckKey() != "purseColor" {
		t.Errorf("variant AckKey = %q, want purseColor", variant.AckKey())
	}

	unacked := []Command{
		LightSlider{Intensity: 1.0},
		PurseRotation{Animation: RotateCCW},
		ActiveCamera{CameraPath: "/Root/Cameras/Top"},
	}
	for _, cmd := range unacked {
		if cmd.AckKey() != "" {
			t.Errorf("%s AckKey = %q, want empty", cmd.CommandType(), cmd.AckKey())
		}
	}
}

func TestCommand_Equal(t *testing.T) {
	a := VariantSelection{PrimPath: "/Root/Purse", VariantSet: "viewingMode", Variant: "portal"}
	b := VariantSelection{PrimPath: "/Root/Purse", VariantSet: "viewingMode", Variant: "portal"}
	c := VariantSelection{PrimPath: "/Root/Purse", VariantSet: "viewingMode", Variant: "tabletop"}

	if !a.Equal(b) {
		t.Error("identical selections should be equal")
	}
	if a.Equal(c) {
		t.Error("different variants should not be equal")
	}
	if a.Equal(LightSlider{Intensity: 1.0}) {
		t.Error("different command types should not be equal")
	}
}
