package sessionclient

import "context"

// MediaSource abstracts local capture devices. Implementations are
// platform-specific; the controller only needs acquire/release semantics.
type MediaSource interface {
	// Acquire opens the local devices. It must respect ctx cancellation.
	Acquire(ctx context.Context) error
	// Release closes the devices. Safe to call when nothing is acquired.
	Release()
}

// NoopMediaSource satisfies MediaSource without touching any devices.
// Useful for diagnostics and tests, and for receive-only participants.
type NoopMediaSource struct{}

// Acquire implements MediaSource.
func (NoopMediaSource) Acquire(ctx context.Context) error {
	return ctx.Err()
}

// Release implements MediaSource.
func (NoopMediaSource) Release() {}
