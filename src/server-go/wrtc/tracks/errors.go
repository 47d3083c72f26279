package tracks

import "github.com/juju/errors"

// Sentinel errors surfaced by TrackListener's public operations. Callers
// compare against these with errors.Cause, since call sites wrap them with
// context via errors.Wrap.
var (
	// ErrAttachFailed is returned by AddTrack when the session refuses to
	// attach the track.
	ErrAttachFailed = errors.New("attach failed")
	// ErrDetachFailed is returned by RemoveTrack when the session refuses
	// to detach a previously attached track.
	ErrDetachFailed = errors.New("detach failed")
	// ErrUnknownTrack is returned by RemoveTrack when no sender is recorded
	// for the given track.
	ErrUnknownTrack = errors.New("unknown track")
)
