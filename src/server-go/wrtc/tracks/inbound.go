package tracks

import (
	"sync"
	"time"

	"github.com/pion/rtcp"
	"github.com/pion/webrtc/v3"

	"github.com/peer-calls/peer-calls/v4/src/server-go/idgen"
)

// handleTrack is registered as the session's OnTrack callback. It normalises
// the remote track's identity, creates the listener-owned forwarding track,
// publishes an Add event, and starts the PLI and forwarding workers for it.
// receiver is accepted to satisfy the session's callback signature but isn't
// otherwise used: this listener doesn't need per-track RTCP receive stats.
func (l *TrackListener) handleTrack(remote RemoteTrack, receiver *webrtc.RTPReceiver) {
	remoteID := remote.ID()
	if remoteID == "" {
		remoteID = idgen.New()
	}

	remoteLabel := remote.Label()
	if remoteLabel == "" {
		remoteLabel = idgen.New()
	}

	localID := "sfu_" + remoteID
	localLabel := "sfu_" + l.clientID + "_" + remoteLabel

	l.log.Printf("handleTrack: remote track %s, clientID %s -> local track %s", remote.ID(), l.clientID, localID)

	localTrack, err := l.session.NewTrack(remote.PayloadType(), remote.SSRC(), localID, localLabel)
	if err != nil {
		l.log.Printf("handleTrack: error creating local track for remote %s, clientID %s: %s", remote.ID(), l.clientID, err)
		return
	}

	l.appendLocalTrack(localTrack)
	l.metrics.IncTracksActive(l.clientID)

	l.emit(TrackEvent{ClientID: l.clientID, Track: localTrack, Kind: TrackEventAdd})

	stop := make(chan struct{})

	var stopOnce sync.Once
	closeStop := func() { stopOnce.Do(func() { close(stop) }) }

	go l.runPLI(remote, localTrack, stop)
	go l.forward(remote, localTrack, closeStop)
}

// runPLI sends a Picture Loss Indication for remote's SSRC immediately, then
// every l.pliInterval, until either stop or l.closeCh fires. stop is closed
// by the forwarding worker on exit, so the ticker never outlives the track
// it's feeding keyframe requests for.
func (l *TrackListener) runPLI(remote RemoteTrack, local LocalTrack, stop <-chan struct{}) {
	ssrc := remote.SSRC()

	writePLI := func() {
		err := l.session.WriteRTCP([]rtcp.Packet{
			&rtcp.PictureLossIndication{MediaSSRC: ssrc},
		})
		if err != nil {
			l.log.Printf("runPLI: error sending PLI for local track %s, clientID %s: %s", local.ID(), l.clientID, err)
			l.metrics.IncPLIErrors(l.clientID)

			return
		}

		l.metrics.IncPLISent(l.clientID)
	}

	writePLI()

	ticker := time.NewTicker(l.pliInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			writePLI()
		case <-stop:
			return
		case <-l.closeCh:
			return
		}
	}
}

// forward is a tight loop copying RTP packets from remote to local. It
// exits on a read error from remote, or a non-benign write error to local;
// on exit it stops the paired PLI worker and, unless the listener is
// closed, emits a Remove event.
func (l *TrackListener) forward(remote RemoteTrack, local LocalTrack, closeStop func()) {
	defer closeStop()

	buf := make([]byte, l.readBufferSize)

	for {
		n, err := remote.Read(buf)
		if err != nil {
			l.log.Printf("forward: error reading remote track %s, clientID %s: %s", remote.ID(), l.clientID, err)
			break
		}

		if _, err := local.Write(buf[:n]); err != nil {
			if isClosedPipe(err) {
				// No subscribers yet: benign, keep forwarding.
				continue
			}

			l.log.Printf("forward: error writing local track %s, clientID %s: %s", local.ID(), l.clientID, err)

			break
		}

		l.metrics.AddRTPForwarded(l.clientID, n)
	}

	l.metrics.DecTracksActive(l.clientID)

	l.emit(TrackEvent{ClientID: l.clientID, Track: local, Kind: TrackEventRemove})
}
