package ports

import "context"

// BarcodeScanner drives an external camera-based decoder.
// Start begins decoding and delivers each detected code on the returned
// channel, which is closed when the decoder exits. Stop releases the camera
// and must be safe to call more than once.
type BarcodeScanner interface {
	Start(ctx context.Context) (<-chan string, error)
	Stop() error
}
