package usecase

import (
	"context"
	"image"
	"image/color"
	"io"
	"sync"
	"time"

	"github.com/fuad00/rtspshot/internal/domain/port"
)

func usableTrack() port.Track {
	start := time.Duration(0)
	return port.Track{
		Index:       0,
		CodecType:   "video",
		CodecName:   "h264",
		Profile:     "Main",
		StartTime:   &start,
		PixelFormat: "yuv420p",
		Width:       8,
		Height:      6,
	}
}

func placeholderTrack() port.Track {
	t := usableTrack()
	t.Profile = ""
	return t
}

func testImage() image.Image {
	img := image.NewRGBA(image.Rect(0, 0, 8, 6))
	for x := 0; x < 8; x++ {
		for y := 0; y < 6; y++ {
			img.Set(x, y, color.RGBA{R: uint8(x * 30), G: uint8(y * 40), B: 128, A: 255})
		}
	}
	return img
}

type fakeFrame struct {
	img image.Image
}

func (f fakeFrame) Image() (image.Image, error) { return f.img, nil }

type fakeStream struct {
	frames []port.Frame
	err    error
	nexts  int
	closed bool
}

func (s *fakeStream) Next() (port.Frame, error) {
	s.nexts++
	if len(s.frames) == 0 {
		if s.err != nil {
			return nil, s.err
		}
		return nil, io.EOF
	}
	f := s.frames[0]
	s.frames = s.frames[1:]
	return f, nil
}

func (s *fakeStream) Close() error {
	s.closed = true
	return nil
}

type fakeSession struct {
	tracks    []port.Track
	stream    *fakeStream
	framesErr error
	closed    bool
}

func (s *fakeSession) VideoTracks() []port.Track { return s.tracks }

func (s *fakeSession) Frames(_ context.Context, _ port.Track) (port.FrameStream, error) {
	if s.framesErr != nil {
		return nil, s.framesErr
	}
	return s.stream, nil
}

func (s *fakeSession) Close() error {
	s.closed = true
	return nil
}

// goodSession yields frames decoded from testImage.
func goodSession(frames int) *fakeSession {
	st := &fakeStream{}
	for i := 0; i < frames; i++ {
		st.frames = append(st.frames, fakeFrame{img: testImage()})
	}
	return &fakeSession{tracks: []port.Track{usableTrack()}, stream: st}
}

// scriptedOpener replays one step per Open call; the last step repeats.
type scriptedOpener struct {
	mu       sync.Mutex
	steps    []func() (port.Session, error)
	calls    int
	sessions []*fakeSession
	opts     []port.OpenOptions
}

func (o *scriptedOpener) Open(_ context.Context, _ string, opts port.OpenOptions) (port.Session, error) {
	o.mu.Lock()
	defer o.mu.Unlock()
	idx := o.calls
	if idx >= len(o.steps) {
		idx = len(o.steps) - 1
	}
	o.calls++
	o.opts = append(o.opts, opts)
	sess, err := o.steps[idx]()
	if fs, ok := sess.(*fakeSession); ok {
		o.sessions = append(o.sessions, fs)
	}
	return sess, err
}

func (o *scriptedOpener) Calls() int {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.calls
}

func session(s *fakeSession) func() (port.Session, error) {
	return func() (port.Session, error) { return s, nil }
}

func openErr(err error) func() (port.Session, error) {
	return func() (port.Session, error) { return nil, err }
}

// sourceOpener builds a fresh session per source.
type sourceOpener struct {
	bySource map[string]func() *fakeSession
}

func (o *sourceOpener) Open(_ context.Context, source string, _ port.OpenOptions) (port.Session, error) {
	build, ok := o.bySource[source]
	if !ok {
		return nil, io.ErrUnexpectedEOF
	}
	return build(), nil
}

type failingWriter struct {
	err error
}

func (w failingWriter) WriteSnapshot(context.Context, string, image.Image) error { return w.err }
