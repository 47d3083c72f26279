package tracks

import (
	"sync"
	"time"

	"github.com/juju/errors"

	"github.com/peer-calls/peer-calls/v4/src/server-go/config"
	"github.com/peer-calls/peer-calls/v4/src/server-go/logger"
	"github.com/peer-calls/peer-calls/v4/src/server-go/metrics"
)

// Option configures a TrackListener at construction time.
type Option func(*TrackListener)

// WithMetrics records track lifecycle and RTP/RTCP counters to reg. Omitting
// this option (or passing a nil registry) disables metrics entirely.
func WithMetrics(reg *metrics.Registry) Option {
	return func(l *TrackListener) { l.metrics = reg }
}

// WithPLIInterval overrides the default PLI cadence.
func WithPLIInterval(d time.Duration) Option {
	return func(l *TrackListener) { l.pliInterval = d }
}

// WithEventChannelBuffer gives Events() a buffered channel instead of the
// default rendezvous (unbuffered) one. See config.SFU.EventChannelBuffer.
func WithEventChannelBuffer(n int) Option {
	return func(l *TrackListener) { l.eventBuffer = n }
}

// WithReadBufferSize overrides the default per-worker read buffer size.
func WithReadBufferSize(n int) Option {
	return func(l *TrackListener) { l.readBufferSize = n }
}

// WithConfig applies an entire config.SFU in one call.
func WithConfig(cfg config.SFU) Option {
	return func(l *TrackListener) {
		l.pliInterval = cfg.PLIInterval
		l.eventBuffer = cfg.EventChannelBuffer
		l.readBufferSize = cfg.ReadBufferSize
	}
}

// TrackListener owns one connected publisher's media session: it turns each
// inbound remote track into a locally-owned forwarding track, pumps packets
// between them, drives PLI feedback to the publisher, and announces track
// lifecycle on Events() for a router to fan out to subscribers.
type TrackListener struct {
	log     logger.Logger
	metrics *metrics.Registry

	clientID string
	session  PeerSession

	pliInterval    time.Duration
	eventBuffer    int
	readBufferSize int

	localTracksMu sync.RWMutex
	localTracks   []LocalTrack

	sendersMu     sync.Mutex
	senderByTrack map[LocalTrack]Sender

	events chan TrackEvent

	closedMu sync.Mutex
	closed   bool
	closeCh  chan struct{}
}

// NewTrackListener constructs a TrackListener for clientID and registers its
// inbound-track handler on session. It performs no I/O and must not block.
func NewTrackListener(loggerFactory logger.LoggerFactory, clientID string, session PeerSession, opts ...Option) *TrackListener {
	l := &TrackListener{
		log:            loggerFactory.GetLogger("peer"),
		clientID:       clientID,
		session:        session,
		pliInterval:    config.DefaultPLIInterval,
		eventBuffer:    config.DefaultEventChannelBuffer,
		readBufferSize: config.DefaultReadBufferSize,
		senderByTrack:  map[LocalTrack]Sender{},
		closeCh:        make(chan struct{}),
	}

	for _, opt := range opts {
		opt(l)
	}

	l.events = make(chan TrackEvent, l.eventBuffer)

	session.OnTrack(l.handleTrack)

	return l
}

// ClientID returns the stable identifier of the publisher this listener is
// attached to.
func (l *TrackListener) ClientID() string {
	return l.clientID
}

// Events returns the channel TrackEvents are published on. It is the same
// channel across calls. An emit that starts after Close has returned never
// delivers an event; one already in flight when Close runs may (see emit).
func (l *TrackListener) Events() <-chan TrackEvent {
	return l.events
}

// Tracks returns a snapshot of the local forwarding tracks currently alive.
// The returned slice is a defensive copy: mutating it has no effect on the
// listener, and it never races with a concurrent append.
func (l *TrackListener) Tracks() []LocalTrack {
	l.localTracksMu.RLock()
	defer l.localTracksMu.RUnlock()

	out := make([]LocalTrack, len(l.localTracks))
	copy(out, l.localTracks)

	return out
}

func (l *TrackListener) appendLocalTrack(track LocalTrack) {
	l.localTracksMu.Lock()
	l.localTracks = append(l.localTracks, track)
	l.localTracksMu.Unlock()
}

// AddTrack attaches track to this listener's session as a send-only stream
// and records the sender so a later RemoveTrack can resolve it. Attaching
// the same track twice is the caller's responsibility to avoid.
func (l *TrackListener) AddTrack(track LocalTrack) error {
	sender, err := l.session.AddTrack(track)
	if err != nil {
		return errors.Wrap(
			errors.Annotatef(err, "add track %s for clientID %s", track.ID(), l.clientID),
			ErrAttachFailed,
		)
	}

	l.sendersMu.Lock()
	l.senderByTrack[track] = sender
	l.sendersMu.Unlock()

	return nil
}

// RemoveTrack detaches a previously attached track and drops its sender
// mapping. It fails with ErrUnknownTrack if no sender is recorded for
// track.
func (l *TrackListener) RemoveTrack(track LocalTrack) error {
	l.sendersMu.Lock()
	sender, ok := l.senderByTrack[track]
	if ok {
		delete(l.senderByTrack, track)
	}
	l.sendersMu.Unlock()

	if !ok {
		return errors.Wrap(
			errors.Errorf("no sender recorded for track %s, clientID %s", track.ID(), l.clientID),
			ErrUnknownTrack,
		)
	}

	if err := l.session.RemoveTrack(sender); err != nil {
		return errors.Wrap(
			errors.Annotatef(err, "remove track %s for clientID %s", track.ID(), l.clientID),
			ErrDetachFailed,
		)
	}

	return nil
}

// Close is idempotent. It closes l.closeCh, which stops every worker
// observing it; it does not forcibly close Events(), since a forwarding
// worker blocked on a remote read can only be unblocked by the session
// itself tearing down.
func (l *TrackListener) Close() {
	l.closedMu.Lock()
	defer l.closedMu.Unlock()

	if l.closed {
		return
	}

	l.closed = true
	close(l.closeCh)
}

// emit delivers event on Events(), dropping it if the listener is closed.
// The closed check and the send are two separate selects rather than one
// combined one: a single select over {send, closeCh} would let Go's
// random case selection deliver an event even when closeCh was already
// closed before emit was called, which is exactly the invariant (no
// events after Close) this is required to uphold. The remaining window —
// Close running concurrently with an in-flight send — still races, same
// as the original design, but can no longer panic since Events() itself
// is never closed (see Close).
func (l *TrackListener) emit(event TrackEvent) {
	select {
	case <-l.closeCh:
		return
	default:
	}

	select {
	case l.events <- event:
	case <-l.closeCh:
	}
}
