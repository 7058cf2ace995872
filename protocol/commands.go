package protocol

import (
	"encoding/json"

	"github.com/renderloop/configsync/errors"
)

// Command type names as they appear on the wire.
const (
	TypeVariantSelection = "setVariantSelection"
	TypeLightSlider      = "setLightSlider"
	TypePurseRotation    = "setPurseRotation"
	TypeActiveCamera     = "setActiveCamera"
)

// Rotation animation names accepted by the renderer.
const (
	RotateCW  = "RotateCW"
	RotateCCW = "RotateCCW"
)

// Light intensity bounds enforced by the renderer.
const (
	MinIntensity = 0.0
	MaxIntensity = 2.0
)

// Command is one outbound message to the remote renderer. The set of
// implementations is closed; the reconciliation store treats commands
// opaquely through this interface.
type Command interface {
	// CommandType returns the wire "type" field value.
	CommandType() string

	// AckKey returns the variant-set name the server echoes back when it
	// confirms application, or "" for commands that are never acknowledged.
	AckKey() string

	// Equal reports whether the other command would produce the same
	// remote state.
	Equal(other Command) bool

	// Marshal serializes the command to its wire representation.
	Marshal() ([]byte, error)
}

// VariantSelection switches a USD variant set to a named variant.
type VariantSelection struct {
	PrimPath   string
	VariantSet string
	Variant    string
}

// CommandType returns the wire type name.
func (c VariantSelection) CommandType() string { return TypeVariantSelection }

// AckKey returns the variant-set name; the renderer confirms variant
// switches asynchronously.
func (c VariantSelection) AckKey() string { return c.VariantSet }

// Equal reports whether other selects the same variant.
func (c VariantSelection) Equal(other Command) bool {
	o, ok := other.(VariantSelection)
	return ok && o == c
}

// Marshal serializes the command.
func (c VariantSelection) Marshal() ([]byte, error) {
	if c.VariantSet == "" || c.Variant == "" {
		return nil, errors.FromCode(errors.ErrCodeInvalidCommand, errors.WithMetadata("command", TypeVariantSelection))
	}
	return json.Marshal(struct {
		Type       string `json:"type"`
		PrimPath   string `json:"primPath"`
		VariantSet string `json:"variantSetName"`
		Variant    string `json:"variantName"`
	}{TypeVariantSelection, c.PrimPath, c.VariantSet, c.Variant})
}

// LightSlider sets the scene light intensity.
type LightSlider struct {
	Intensity float64
}

// NewLightSlider creates a LightSlider with the intensity clamped to the
// range the renderer accepts.
func NewLightSlider(intensity float64) LightSlider {
	if intensity < MinIntensity {
		intensity = MinIntensity
	}
	if intensity > MaxIntensity {
		intensity = MaxIntensity
	}
	return LightSlider{Intensity: intensity}
}

// CommandType returns the wire type name.
func (c LightSlider) CommandType() string { return TypeLightSlider }

// AckKey returns ""; slider changes are applied without confirmation.
func (c LightSlider) AckKey() string { return "" }

// Equal reports whether other sets the same intensity.
func (c LightSlider) Equal(other Command) bool {
	o, ok := other.(LightSlider)
	return ok && o == c
}

// Marshal serializes the command.
func (c LightSlider) Marshal() ([]byte, error) {
	if c.Intensity < MinIntensity || c.Intensity > MaxIntensity {
		return nil, errors.FromCode(errors.ErrCodeInvalidCommand, errors.WithMetadata("command", TypeLightSlider))
	}
	return json.Marshal(struct {
		Type      string  `json:"type"`
		Intensity float64 `json:"intensity"`
	}{TypeLightSlider, c.Intensity})
}

// PurseRotation triggers a momentary rotation animation. It is a one-shot
// pulse, not tracked state.
type PurseRotation struct {
	Animation string
}

// CommandType returns the wire type name.
func (c PurseRotation) CommandType() string { return TypePurseRotation }

// AckKey returns ""; rotation pulses are fire-and-forget.
func (c PurseRotation) AckKey() string { return "" }

// Equal reports whether other triggers the same animation.
func (c PurseRotation) Equal(other Command) bool {
	o, ok := other.(PurseRotation)
	return ok && o == c
}

// Marshal serializes the command.
func (c PurseRotation) Marshal() ([]byte, error) {
	if c.Animation != RotateCW && c.Animation != RotateCCW {
		return nil, errors.FromCode(errors.ErrCodeInvalidCommand, errors.WithMetadata("command", TypePurseRotation))
	}
	return json.Marshal(struct {
		Type      string `json:"type"`
		Animation string `json:"animationName"`
	}{TypePurseRotation, c.Animation})
}

// ActiveCamera switches the rendering camera.
type ActiveCamera struct {
	CameraPath string
}

// CommandType returns the wire type name.
func (c ActiveCamera) CommandType() string { return TypeActiveCamera }

// AckKey returns ""; camera switches are applied without confirmation.
func (c ActiveCamera) AckKey() string { return "" }

// Equal reports whether other selects the same camera.
func (c ActiveCamera) Equal(other Command) bool {
	o, ok := other.(ActiveCamera)
	return ok && o == c
}

// Marshal serializes the command.
func (c ActiveCamera) Marshal() ([]byte, error) {
	if c.CameraPath == "" {
		return nil, errors.FromCode(errors.ErrCodeInvalidCommand, errors.WithMetadata("command", TypeActiveCamera))
	}
	return json.Marshal(struct {
		Type       string `json:"type"`
		CameraPath string `json:"cameraPath"`
	}{TypeActiveCamera, c.CameraPath})
}
