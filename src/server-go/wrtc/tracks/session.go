// Package tracks implements the server-side per-client track listener: it
// attaches to one publisher's media session, turns each inbound remote
// track into a locally-owned forwarding track, drives keyframe-request
// feedback to the publisher, and announces track lifecycle on a channel a
// router consumes to fan media out to other participants.
package tracks

import (
	"github.com/pion/rtcp"
	"github.com/pion/webrtc/v3"
)

// RemoteTrack is the inbound media flow a PeerSession delivers when a
// publisher starts sending a new track.
type RemoteTrack interface {
	ID() string
	Label() string
	PayloadType() uint8
	SSRC() uint32
	Read(buf []byte) (int, error)
}

// LocalTrack is a listener-owned forwarding track: the SFU's copy of a
// RemoteTrack, attachable to any session (including other publishers' own
// sessions, so their viewers can subscribe to it).
type LocalTrack interface {
	ID() string
	Label() string
	PayloadType() uint8
	SSRC() uint32
	Write(buf []byte) (int, error)
}

// Sender is the opaque handle a PeerSession returns from AddTrack; it is
// handed back unchanged to RemoveTrack and never inspected by TrackListener.
type Sender interface{}

// PeerSession is the WebRTC session a TrackListener attaches to. Modeling
// it as an interface — rather than depending on *webrtc.PeerConnection
// directly — lets tests substitute an in-memory fake that records writes
// and drives OnTrack deterministically.
type PeerSession interface {
	// OnTrack registers the callback invoked when the session starts
	// receiving a new remote track.
	OnTrack(handler func(remote RemoteTrack, receiver *webrtc.RTPReceiver))
	// AddTrack attaches track to the session as a send-only stream.
	AddTrack(track LocalTrack) (Sender, error)
	// RemoveTrack detaches a track previously attached with AddTrack.
	RemoveTrack(sender Sender) error
	// NewTrack constructs a locally-owned forwarding track with the given
	// codec parameters and identity.
	NewTrack(payloadType uint8, ssrc uint32, id, label string) (LocalTrack, error)
	// WriteRTCP writes a batch of RTCP control packets upstream.
	WriteRTCP(packets []rtcp.Packet) error
}
