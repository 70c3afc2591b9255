package entity

import "errors"

// Content problems: the stream opened but carries no decodable video.
var (
	ErrNoVideoTrack  = errors.New("stream has no video track")
	ErrUnusableVideo = errors.New("video track metadata is incomplete")
)

// Recoverable problems, retried once.
var (
	ErrOutOfMemory = errors.New("out of memory")
	ErrPermission  = errors.New("permission denied")
	ErrInvalidData = errors.New("invalid data found when processing input")
	ErrNoFrame     = errors.New("stream ended before a frame was decoded")
)
