package tracks

import "io"

// isClosedPipe reports whether err is the benign "no subscribers yet"
// write error a LocalTrack returns when nothing has attached to read from
// it. This mirrors the same comparison the original design made against
// io.ErrClosedPipe.
func isClosedPipe(err error) bool {
	return err == io.ErrClosedPipe
}
