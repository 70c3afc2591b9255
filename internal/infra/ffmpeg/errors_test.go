package ffmpeg

import (
	"context"
	"errors"
	"testing"

	"github.com/fuad00/rtspshot/internal/domain/entity"
	"github.com/stretchr/testify/assert"
)

func TestClassifyStderr(t *testing.T) {
	tests := []struct {
		name   string
		stderr string
		want   error
	}{
		{"empty", "", nil},
		{"refused", "[tcp @ 0x55d] Connection to tcp://10.0.0.5:554 failed: Connection refused", nil},
		{"invalid data", "rtsp://cam/live: Invalid data found when processing input", entity.ErrInvalidData},
		{"oom", "av_malloc failed: Cannot allocate memory", entity.ErrOutOfMemory},
		{"oom plain", "Out of memory", entity.ErrOutOfMemory},
		{"permission", "/out/a.jpg: Permission denied", entity.ErrPermission},
		{"eperm", "Operation not permitted", entity.ErrPermission},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ClassifyStderr(tt.stderr))
		})
	}
}

func TestCommandError(t *testing.T) {
	exitErr := errors.New("exit status 1")

	t.Run("classified", func(t *testing.T) {
		err := commandError(context.Background(), "ffprobe", exitErr,
			"some banner\nrtsp://cam: Invalid data found when processing input\n")
		assert.ErrorIs(t, err, entity.ErrInvalidData)
		assert.ErrorContains(t, err, "rtsp://cam: Invalid data found when processing input")
	})

	t.Run("unclassified keeps run error", func(t *testing.T) {
		err := commandError(context.Background(), "ffmpeg", exitErr, "Connection refused\n")
		assert.ErrorIs(t, err, exitErr)
		assert.ErrorContains(t, err, "stderr: Connection refused")
	})

	t.Run("deadline wins over stderr", func(t *testing.T) {
		ctx, cancel := context.WithTimeout(context.Background(), 0)
		defer cancel()
		<-ctx.Done()
		err := commandError(ctx, "ffmpeg", exitErr, "Invalid data found when processing input")
		assert.ErrorIs(t, err, context.DeadlineExceeded)
		assert.NotErrorIs(t, err, entity.ErrInvalidData)
	})
}

func TestLastLine(t *testing.T) {
	assert.Equal(t, "", lastLine(""))
	assert.Equal(t, "one", lastLine("one\n"))
	assert.Equal(t, "two", lastLine("one\n  two  \n\n"))
}
