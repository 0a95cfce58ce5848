package gfxcmd

import (
	"bytes"
	"errors"
	"fmt"
	"os"

	"github.com/pelletier/go-toml/v2"

	"github.com/gogpu/gfxcmd/driver"
)

// DeviceConfig is the file form of the settings OpenDevice takes.
//
//	driver = "gl46"
//	bucket_size = 16
//	vsync = true
//	width = 1280
//	height = 720
type DeviceConfig struct {
	// Driver is the registered driver name.
	Driver string `toml:"driver"`
	// BucketSize overrides the vertex binding slots per bucket; 0 uses the
	// driver maximum.
	BucketSize int  `toml:"bucket_size"`
	Debug      bool `toml:"debug"`
	Vsync      bool `toml:"vsync"`
	Width      int  `toml:"width"`
	Height     int  `toml:"height"`
	// IndirectBufferSize is the size of the staging draw argument buffer.
	IndirectBufferSize int    `toml:"indirect_buffer_size"`
	LogLevel           string `toml:"log_level"`
	// ShaderDir is watched for shader changes when set.
	ShaderDir string `toml:"shader_dir"`
}

// DefaultConfig returns the configuration used when no file is given.
func DefaultConfig() DeviceConfig {
	return DeviceConfig{
		Driver:             "gl46",
		Vsync:              true,
		Width:              1280,
		Height:             720,
		IndirectBufferSize: 256,
		LogLevel:           "info",
	}
}

// Validate reports the first invalid setting. The driver must be
// registered at the time Validate is called.
func (c DeviceConfig) Validate() error {
	switch {
	case c.Driver == "":
		return fmt.Errorf("%w: driver not set", ErrInvalidConfig)
	case !driver.IsRegistered(c.Driver):
		return fmt.Errorf("%w: %w: %q (registered: %v)", ErrInvalidConfig, driver.ErrUnknownDriver, c.Driver, driver.Drivers())
	case c.BucketSize < 0:
		return fmt.Errorf("%w: bucket_size %d", ErrInvalidConfig, c.BucketSize)
	case c.Width < 0 || c.Height < 0:
		return fmt.Errorf("%w: size %dx%d", ErrInvalidConfig, c.Width, c.Height)
	case c.IndirectBufferSize < 0:
		return fmt.Errorf("%w: indirect_buffer_size %d", ErrInvalidConfig, c.IndirectBufferSize)
	}
	switch c.LogLevel {
	case "", "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("%w: log_level %q", ErrInvalidConfig, c.LogLevel)
	}
	return nil
}

// ParseConfig decodes a TOML document over DefaultConfig. Unknown keys are
// an error.
func ParseConfig(data []byte) (DeviceConfig, error) {
	cfg := DefaultConfig()
	dec := toml.NewDecoder(bytes.NewReader(data)).DisallowUnknownFields()
	if err := dec.Decode(&cfg); err != nil {
		var strict *toml.StrictMissingError
		if errors.As(err, &strict) {
			return DeviceConfig{}, fmt.Errorf("%w: %s", ErrInvalidConfig, strict.String())
		}
		return DeviceConfig{}, fmt.Errorf("%w: %w", ErrInvalidConfig, err)
	}
	return cfg, nil
}

// LoadConfig reads and decodes the TOML file at path.
func LoadConfig(path string) (DeviceConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return DeviceConfig{}, fmt.Errorf("gfxcmd: load config: %w", err)
	}
	return ParseConfig(data)
}
