//go:build !gocv
// +build !gocv

package camera

// Open fails with ErrUnavailable when built without the gocv tag.
func Open(device int) (Source, error) {
	_ = device
	return nil, ErrUnavailable
}
