package port

import (
	"context"
	"image"
	"time"
)

// OpenOptions constrains how a session to a stream source is established.
type OpenOptions struct {
	// ForceTCP requests connection-oriented RTP delivery.
	ForceTCP bool
	// SocketTimeout bounds each socket read/write during negotiation.
	SocketTimeout time.Duration
	// Timeout bounds connecting and reading as a whole.
	Timeout time.Duration
	// AutoThreads lets the decoder choose its own parallelism.
	AutoThreads bool
}

// Track is the negotiated metadata of one media substream.
type Track struct {
	Index     int
	CodecType string
	CodecName string
	// Profile is empty when the codec profile is unknown.
	Profile string
	// StartTime is nil when the stream reports no start timestamp.
	StartTime *time.Duration
	// PixelFormat is empty when the decoding context has no format.
	PixelFormat string
	Width       int
	Height      int
}

type Frame interface {
	Image() (image.Image, error)
}

// FrameStream yields decoded frames in order. Next returns io.EOF once the
// stream is exhausted.
type FrameStream interface {
	Next() (Frame, error)
	Close() error
}

type Session interface {
	VideoTracks() []Track
	Frames(ctx context.Context, track Track) (FrameStream, error)
	Close() error
}

type Opener interface {
	Open(ctx context.Context, source string, opts OpenOptions) (Session, error)
}
