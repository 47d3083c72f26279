package tracks_test

import (
	"io"
	"sync"

	"github.com/pion/rtcp"
	"github.com/pion/webrtc/v3"

	"github.com/peer-calls/peer-calls/v4/src/server-go/wrtc/tracks"
)

// fakeRemoteTrack lets a test push packets and simulate end-of-stream on a
// goroutine's own schedule instead of negotiating a real connection.
type fakeRemoteTrack struct {
	id, label   string
	payloadType uint8
	ssrc        uint32

	packets chan []byte
	done    chan struct{}
	endOnce sync.Once
}

func newFakeRemoteTrack(id, label string, payloadType uint8, ssrc uint32) *fakeRemoteTrack {
	return &fakeRemoteTrack{
		id:          id,
		label:       label,
		payloadType: payloadType,
		ssrc:        ssrc,
		packets:     make(chan []byte, 16),
		done:        make(chan struct{}),
	}
}

func (t *fakeRemoteTrack) ID() string         { return t.id }
func (t *fakeRemoteTrack) Label() string      { return t.label }
func (t *fakeRemoteTrack) PayloadType() uint8 { return t.payloadType }
func (t *fakeRemoteTrack) SSRC() uint32       { return t.ssrc }

func (t *fakeRemoteTrack) push(b []byte) {
	t.packets <- b
}

// end simulates the remote side going away: any blocked or future Read
// returns io.EOF.
func (t *fakeRemoteTrack) end() {
	t.endOnce.Do(func() { close(t.done) })
}

func (t *fakeRemoteTrack) Read(buf []byte) (int, error) {
	select {
	case p := <-t.packets:
		return copy(buf, p), nil
	case <-t.done:
		return 0, io.EOF
	}
}

var _ tracks.RemoteTrack = (*fakeRemoteTrack)(nil)

// fakeLocalTrack records every write it receives so a test can assert on
// forwarded byte content and order.
type fakeLocalTrack struct {
	id, label   string
	payloadType uint8
	ssrc        uint32

	writeErr error

	mu      sync.Mutex
	written [][]byte
}

func newFakeLocalTrack(id, label string, payloadType uint8, ssrc uint32) *fakeLocalTrack {
	return &fakeLocalTrack{id: id, label: label, payloadType: payloadType, ssrc: ssrc}
}

func (t *fakeLocalTrack) ID() string         { return t.id }
func (t *fakeLocalTrack) Label() string      { return t.label }
func (t *fakeLocalTrack) PayloadType() uint8 { return t.payloadType }
func (t *fakeLocalTrack) SSRC() uint32       { return t.ssrc }

func (t *fakeLocalTrack) Write(buf []byte) (int, error) {
	if t.writeErr != nil {
		return 0, t.writeErr
	}

	cp := make([]byte, len(buf))
	copy(cp, buf)

	t.mu.Lock()
	t.written = append(t.written, cp)
	t.mu.Unlock()

	return len(buf), nil
}

func (t *fakeLocalTrack) writes() [][]byte {
	t.mu.Lock()
	defer t.mu.Unlock()

	out := make([][]byte, len(t.written))
	copy(out, t.written)

	return out
}

var _ tracks.LocalTrack = (*fakeLocalTrack)(nil)

// fakeSender is an opaque handle fakeSession hands out from AddTrack.
type fakeSender int

// fakeSession is an in-memory PeerSession that records every call a test
// cares about and lets the test trigger OnTrack deterministically.
type fakeSession struct {
	mu sync.Mutex

	onTrack func(tracks.RemoteTrack, *webrtc.RTPReceiver)

	newTrackErr    error
	addTrackErr    error
	removeTrackErr error
	writeRTCPErr   error

	nextSender     int
	addedTracks    []tracks.LocalTrack
	removedSenders []tracks.Sender
	rtcpWrites     int
}

func newFakeSession() *fakeSession {
	return &fakeSession{}
}

func (s *fakeSession) OnTrack(handler func(tracks.RemoteTrack, *webrtc.RTPReceiver)) {
	s.mu.Lock()
	s.onTrack = handler
	s.mu.Unlock()
}

// trigger simulates the session delivering remote as a newly received
// track.
func (s *fakeSession) trigger(remote tracks.RemoteTrack) {
	s.mu.Lock()
	handler := s.onTrack
	s.mu.Unlock()

	handler(remote, nil)
}

func (s *fakeSession) NewTrack(payloadType uint8, ssrc uint32, id, label string) (tracks.LocalTrack, error) {
	if s.newTrackErr != nil {
		return nil, s.newTrackErr
	}

	return newFakeLocalTrack(id, label, payloadType, ssrc), nil
}

func (s *fakeSession) AddTrack(track tracks.LocalTrack) (tracks.Sender, error) {
	if s.addTrackErr != nil {
		return nil, s.addTrackErr
	}

	s.mu.Lock()
	s.nextSender++
	sender := fakeSender(s.nextSender)
	s.addedTracks = append(s.addedTracks, track)
	s.mu.Unlock()

	return sender, nil
}

func (s *fakeSession) RemoveTrack(sender tracks.Sender) error {
	if s.removeTrackErr != nil {
		return s.removeTrackErr
	}

	s.mu.Lock()
	s.removedSenders = append(s.removedSenders, sender)
	s.mu.Unlock()

	return nil
}

func (s *fakeSession) WriteRTCP(packets []rtcp.Packet) error {
	s.mu.Lock()
	s.rtcpWrites++
	s.mu.Unlock()

	return s.writeRTCPErr
}

func (s *fakeSession) rtcpWriteCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.rtcpWrites
}

var _ tracks.PeerSession = (*fakeSession)(nil)
