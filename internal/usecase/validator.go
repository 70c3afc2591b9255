package usecase

import "github.com/fuad00/rtspshot/internal/domain/port"

// IsUsableVideo reports whether a negotiated track carries decodable video.
// Some endpoints advertise a video track that is only a placeholder; those
// lack at least one of profile, start time or pixel format.
func IsUsableVideo(track port.Track) bool {
	return track.Profile != "" &&
		track.StartTime != nil &&
		track.PixelFormat != ""
}
