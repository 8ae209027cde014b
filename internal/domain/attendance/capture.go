package attendance

import (
	"context"

	"github.com/cmlabs-hris/ems-backend-go/internal/domain/verification"
)

// CaptureSource yields a live camera frame. Acquire is called only after
// every cheaper gate has passed, and the returned Capture must be closed
// on every path.
type CaptureSource interface {
	Acquire(ctx context.Context) (Capture, error)
}

type Capture interface {
	Frame(ctx context.Context) (verification.Image, error)
	Close() error
}
