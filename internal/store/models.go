package store

import "time"

// Kind classifies a single user action against a video.
type Kind string

const (
	KindView     Kind = "view"
	KindLike     Kind = "like"
	KindComment  Kind = "comment"
	KindShare    Kind = "share"
	KindPlay     Kind = "play"
	KindPause    Kind = "pause"
	KindComplete Kind = "complete"
)

// DeviceInfo is a snapshot of the client taken at interaction time.
type DeviceInfo struct {
	UserAgent    string `json:"userAgent"`
	Platform     string `json:"platform"`
	ScreenWidth  int    `json:"screenWidth"`
	ScreenHeight int    `json:"screenHeight"`
}

// Location is coarse client location info, when the client reports it.
type Location struct {
	Country  string `json:"country,omitempty"`
	City     string `json:"city,omitempty"`
	Timezone string `json:"timezone,omitempty"`
}

// Interaction is one immutable record of a user action against a video.
// The caption is denormalized at write time so rollups never need the
// video catalog. WatchDuration is in seconds and is only meaningful for
// play/pause/complete events and timed views; nil means "not reported".
//
// Once appended an interaction is never mutated or removed, except by a
// full-log Clear.
type Interaction struct {
	ID            string     `json:"id"`
	Username      string     `json:"username"`
	SessionID     string     `json:"sessionId"`
	VideoID       string     `json:"videoId"`
	VideoCaption  string     `json:"videoCaption"`
	Kind          Kind       `json:"interactionType"`
	Timestamp     time.Time  `json:"timestamp"`
	WatchDuration *float64   `json:"watchDuration,omitempty"`
	Device        DeviceInfo `json:"deviceInfo"`
	Location      *Location  `json:"location,omitempty"`
}

// Seconds returns the reported watch duration, or 0 when absent.
func (i Interaction) Seconds() float64 {
	if i.WatchDuration == nil {
		return 0
	}
	return *i.WatchDuration
}
