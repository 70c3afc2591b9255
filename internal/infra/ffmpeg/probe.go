package ffmpeg

import (
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"time"

	"github.com/fuad00/rtspshot/internal/domain/port"
)

type probeOutput struct {
	Streams []probeStream `json:"streams"`
}

type probeStream struct {
	Index     int    `json:"index"`
	CodecType string `json:"codec_type"`
	CodecName string `json:"codec_name"`
	Profile   string `json:"profile"`
	StartTime string `json:"start_time"`
	PixFmt    string `json:"pix_fmt"`
	Width     int    `json:"width"`
	Height    int    `json:"height"`
}

// ParseProbe turns `ffprobe -show_streams -of json` output into the video
// tracks it lists, in stream order. ffprobe prints placeholders for unknown
// values; those become empty fields.
func ParseProbe(data []byte) ([]port.Track, error) {
	var out probeOutput
	if err := json.Unmarshal(data, &out); err != nil {
		return nil, fmt.Errorf("parse ffprobe output: %w", err)
	}

	tracks := make([]port.Track, 0, len(out.Streams))
	for _, s := range out.Streams {
		if s.CodecType != "video" {
			continue
		}
		tracks = append(tracks, port.Track{
			Index:       s.Index,
			CodecType:   s.CodecType,
			CodecName:   known(s.CodecName),
			Profile:     known(s.Profile),
			StartTime:   parseStartTime(s.StartTime),
			PixelFormat: known(s.PixFmt),
			Width:       s.Width,
			Height:      s.Height,
		})
	}
	return tracks, nil
}

func known(v string) string {
	switch v {
	case "unknown", "N/A", "none":
		return ""
	}
	return v
}

func parseStartTime(v string) *time.Duration {
	if known(v) == "" {
		return nil
	}
	secs, err := strconv.ParseFloat(v, 64)
	if err != nil || math.IsNaN(secs) || math.IsInf(secs, 0) {
		return nil
	}
	d := time.Duration(secs * float64(time.Second))
	return &d
}
