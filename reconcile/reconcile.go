package reconcile

import (
	"errors"
	"time"

	"github.com/renderloop/configsync/logging"
	"github.com/renderloop/configsync/protocol"
)

// Common errors.
var (
	ErrNoSettings   = errors.New("no settings registered")
	ErrEmptyKey     = errors.New("empty setting key")
	ErrDuplicateKey = errors.New("duplicate setting key")
	ErrNilInitial   = errors.New("nil initial desired state")
	ErrNilTransport = errors.New("nil transport")
	ErrClosed       = errors.New("store closed")
)

// Canonical setting keys used by the purse configurator.
const (
	KeyViewingMode    = "viewingMode"
	KeyPurseColor     = "purseColor"
	KeyLightIntensity = "lightIntensity"
	KeyActiveCamera   = "activeCamera"
)

// SettingSpec registers one named setting at store construction.
type SettingSpec struct {
	// Key uniquely identifies the setting. The key set is closed once the
	// store is built.
	Key string

	// Initial is the starting desired state. Must be non-nil.
	Initial protocol.Command

	// ServerNotifies marks settings whose application the renderer
	// confirms asynchronously. Unmarked settings are assumed applied as
	// soon as they are sent.
	ServerNotifies bool
}

// Config configures a Store.
type Config struct {
	// ResyncInterval is the staleness poll period and the per-key re-send
	// threshold. Default: 15 seconds.
	ResyncInterval time.Duration

	// ResyncLimit is the number of consecutive re-sends tolerated before a
	// key is declared timed out. Default: 8 (about two minutes of waiting
	// at the default interval).
	ResyncLimit int

	// Logger for reconciliation events. Defaults to a fresh logger with
	// component "reconcile".
	Logger *logging.Logger
}

// Validate checks the configuration.
func (c *Config) Validate() error {
	if c.ResyncInterval < 0 {
		return errors.New("negative resync interval")
	}
	if c.ResyncLimit < 0 {
		return errors.New("negative resync limit")
	}
	return nil
}

// DefaultConfig returns configuration with the deployed app's defaults.
func DefaultConfig() Config {
	return Config{
		ResyncInterval: 15 * time.Second,
		ResyncLimit:    8,
	}
}

// DefaultSettings returns the registration list shipped by the purse
// configurator. Variant-backed settings are confirmed by the renderer;
// light and camera changes apply immediately on send.
func DefaultSettings() []SettingSpec {
	return []SettingSpec{
		{
			Key: KeyViewingMode,
			Initial: protocol.VariantSelection{
				PrimPath:   "/Root/Purse",
				VariantSet: "viewingMode",
				Variant:    "portal",
			},
			ServerNotifies: true,
		},
		{
			Key: KeyPurseColor,
			Initial: protocol.VariantSelection{
				PrimPath:   "/Root/Purse",
				VariantSet: "purseColor",
				Variant:    "black",
			},
			ServerNotifies: true,
		},
		{
			Key:     KeyLightIntensity,
			Initial: protocol.NewLightSlider(1.0),
		},
		{
			Key:     KeyActiveCamera,
			Initial: protocol.ActiveCamera{CameraPath: "/Root/Cameras/Default"},
		},
	}
}
