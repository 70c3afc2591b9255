package ffmpeg

import (
	"bufio"
	"bytes"
	"context"
	"errors"
	"fmt"
	"image"
	"image/png"
	"io"
	"os/exec"
	"strconv"
	"sync"

	"github.com/fuad00/rtspshot/internal/domain/entity"
	"github.com/fuad00/rtspshot/internal/domain/port"
	"go.uber.org/zap"
)

// Opener opens stream sessions with the ffprobe and ffmpeg binaries. The
// session metadata comes from one ffprobe run; decoding starts a separate
// ffmpeg process per frame stream.
type Opener struct {
	ffprobePath string
	ffmpegPath  string
	logger      *zap.Logger
}

func NewOpener(ffprobePath, ffmpegPath string, logger *zap.Logger) *Opener {
	return &Opener{ffprobePath: ffprobePath, ffmpegPath: ffmpegPath, logger: logger}
}

func (o *Opener) Open(ctx context.Context, source string, opts port.OpenOptions) (port.Session, error) {
	args := []string{"-v", "error", "-hide_banner"}
	args = append(args, inputArgs(opts)...)
	args = append(args, "-show_streams", "-of", "json", source)

	cmd := exec.CommandContext(ctx, o.ffprobePath, args...)
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		return nil, commandError(ctx, "ffprobe", err, stderr.String())
	}

	tracks, err := ParseProbe(stdout.Bytes())
	if err != nil {
		return nil, fmt.Errorf("%w: %v", entity.ErrInvalidData, err)
	}

	o.logger.Debug("stream probed", zap.String("source", source), zap.Int("video_tracks", len(tracks)))

	return &session{
		ffmpegPath: o.ffmpegPath,
		source:     source,
		opts:       opts,
		tracks:     tracks,
	}, nil
}

// inputArgs translates the session options into demuxer input options.
func inputArgs(opts port.OpenOptions) []string {
	var args []string
	if opts.ForceTCP {
		args = append(args, "-rtsp_transport", "tcp", "-rtsp_flags", "prefer_tcp")
	}
	if opts.SocketTimeout > 0 {
		args = append(args, "-timeout", strconv.FormatInt(opts.SocketTimeout.Microseconds(), 10))
	}
	return args
}

// decodeArgs builds the ffmpeg command line that writes every decoded frame
// of one track to stdout as a stream of PNG images.
func decodeArgs(source string, opts port.OpenOptions, track port.Track) []string {
	args := []string{"-hide_banner", "-nostdin", "-loglevel", "error"}
	args = append(args, inputArgs(opts)...)
	if opts.AutoThreads {
		args = append(args, "-threads", "0")
	}
	return append(args,
		"-i", source,
		"-map", fmt.Sprintf("0:%d", track.Index),
		"-an",
		"-f", "image2pipe",
		"-c:v", "png",
		"-",
	)
}

type session struct {
	ffmpegPath string
	source     string
	opts       port.OpenOptions
	tracks     []port.Track

	mu      sync.Mutex
	streams []*frameStream
	closed  bool
}

func (s *session) VideoTracks() []port.Track {
	return s.tracks
}

func (s *session) Frames(ctx context.Context, track port.Track) (port.FrameStream, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return nil, errors.New("session closed")
	}

	cmd := exec.CommandContext(ctx, s.ffmpegPath, decodeArgs(s.source, s.opts, track)...)
	stdout, err := cmd.StdoutPipe()
	if err != nil {
		return nil, fmt.Errorf("ffmpeg stdout: %w", err)
	}
	fs := &frameStream{ctx: ctx, cmd: cmd, out: bufio.NewReader(stdout)}
	cmd.Stderr = &fs.stderr

	if err := cmd.Start(); err != nil {
		return nil, fmt.Errorf("start ffmpeg: %w", err)
	}
	s.streams = append(s.streams, fs)
	return fs, nil
}

func (s *session) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return nil
	}
	s.closed = true
	var errs []error
	for _, fs := range s.streams {
		if err := fs.Close(); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

type frameStream struct {
	ctx    context.Context
	cmd    *exec.Cmd
	out    *bufio.Reader
	stderr bytes.Buffer

	waitOnce sync.Once
	waitErr  error
	closed   bool
}

// Next decodes the next PNG written by ffmpeg. When the pipe ends, the exit
// status of ffmpeg decides between io.EOF and a classified error.
func (f *frameStream) Next() (port.Frame, error) {
	if f.closed {
		return nil, io.EOF
	}
	// png.Decode reports an empty reader as io.ErrUnexpectedEOF, so check for
	// the end of the pipe first.
	_, err := f.out.Peek(1)
	if err == nil {
		var img image.Image
		if img, err = png.Decode(f.out); err == nil {
			return frame{img: img}, nil
		}
	}

	if !errors.Is(err, io.EOF) {
		// ffmpeg may still be writing; it would block on the pipe forever.
		f.kill()
		_ = f.wait()
		return nil, fmt.Errorf("%w: %v", entity.ErrInvalidData, err)
	}
	if waitErr := f.wait(); waitErr != nil {
		return nil, commandError(f.ctx, "ffmpeg", waitErr, f.stderr.String())
	}
	return nil, io.EOF
}

// Close stops ffmpeg if it is still decoding and reaps the process.
func (f *frameStream) Close() error {
	if f.closed {
		return nil
	}
	f.closed = true
	f.kill()
	_ = f.wait()
	return nil
}

func (f *frameStream) kill() {
	if f.cmd.ProcessState == nil && f.cmd.Process != nil {
		_ = f.cmd.Process.Kill()
	}
}

func (f *frameStream) wait() error {
	f.waitOnce.Do(func() {
		f.waitErr = f.cmd.Wait()
	})
	return f.waitErr
}

type frame struct {
	img image.Image
}

func (f frame) Image() (image.Image, error) {
	return f.img, nil
}
