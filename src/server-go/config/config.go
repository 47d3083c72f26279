// Package config holds construction-time knobs for the SFU track listener.
// There's no hot reload and no remote config source here, just defaults
// overridable from a YAML file and/or command-line flags, the way the
// rest of the server is configured.
package config

import (
	"io"
	"time"

	"github.com/spf13/pflag"
	"gopkg.in/yaml.v2"

	"github.com/juju/errors"
)

const (
	// DefaultPLIInterval matches the hard-coded cadence of the original
	// design: one keyframe request immediately, then every 3 seconds.
	DefaultPLIInterval = 3 * time.Second
	// DefaultReadBufferSize is one MTU-sized RTP packet.
	DefaultReadBufferSize = 1400
	// DefaultEventChannelBuffer of 0 keeps the tested rendezvous semantics
	// for the track-event channel.
	DefaultEventChannelBuffer = 0
)

// SFU holds the tunables of a TrackListener.
type SFU struct {
	PLIInterval        time.Duration `yaml:"pli_interval"`
	ReadBufferSize     int           `yaml:"read_buffer_size"`
	EventChannelBuffer int           `yaml:"event_channel_buffer"`
}

// NewSFU returns an SFU config populated with defaults.
func NewSFU() SFU {
	return SFU{
		PLIInterval:        DefaultPLIInterval,
		ReadBufferSize:     DefaultReadBufferSize,
		EventChannelBuffer: DefaultEventChannelBuffer,
	}
}

// Flags binds c's fields to fs, so callers can override defaults from the
// command line.
func (c *SFU) Flags(fs *pflag.FlagSet) {
	fs.DurationVar(&c.PLIInterval, "sfu.pli-interval", c.PLIInterval,
		"Interval between PLI RTCP packets sent to a publisher")
	fs.IntVar(&c.ReadBufferSize, "sfu.read-buffer-size", c.ReadBufferSize,
		"Size in bytes of the per-track forwarding read buffer")
	fs.IntVar(&c.EventChannelBuffer, "sfu.event-channel-buffer", c.EventChannelBuffer,
		"Buffer size of the track event channel (0 keeps rendezvous semantics)")
}

// Decode overrides c's fields from YAML read from r. Fields absent from
// the document are left untouched.
func (c *SFU) Decode(r io.Reader) error {
	return errors.Trace(yaml.NewDecoder(r).Decode(c))
}
