package analytics

import (
	"sort"
	"time"

	"vidinsight/internal/store"
)

// Session is a derived grouping of all events sharing a session id,
// approximating one continuous visit. It is recomputed from the log on
// every request and never stored.
type Session struct {
	SessionID string `json:"sessionId"`
	Username  string `json:"username"`

	StartTime    time.Time `json:"startTime"`
	LastActivity time.Time `json:"lastActivity"`

	// VideosWatched holds the distinct video ids seen via view events,
	// in first-watched order.
	VideosWatched  []string `json:"videosWatched"`
	TotalWatchTime float64  `json:"totalWatchTime"`
	Interactions   int      `json:"interactions"`

	// Device and Location come from the session's first event in log
	// order; later snapshots are assumed identical and ignored.
	Device   store.DeviceInfo `json:"deviceInfo"`
	Location *store.Location  `json:"location,omitempty"`
}

// ReconstructSessions groups the log by session id and returns session
// summaries sorted by last activity, most recent first.
func ReconstructSessions(events []store.Interaction) []Session {
	byID := make(map[string]*Session)
	order := make([]string, 0)
	watched := make(map[string]map[string]struct{})

	for _, ev := range events {
		sess, ok := byID[ev.SessionID]
		if !ok {
			sess = &Session{
				SessionID:     ev.SessionID,
				Username:      ev.Username,
				StartTime:     ev.Timestamp,
				LastActivity:  ev.Timestamp,
				VideosWatched: []string{},
				Device:        ev.Device,
				Location:      ev.Location,
			}
			byID[ev.SessionID] = sess
			order = append(order, ev.SessionID)
			watched[ev.SessionID] = make(map[string]struct{})
		}

		if ev.Timestamp.Before(sess.StartTime) {
			sess.StartTime = ev.Timestamp
		}
		if ev.Timestamp.After(sess.LastActivity) {
			sess.LastActivity = ev.Timestamp
		}

		if ev.Kind == store.KindView {
			if _, seen := watched[ev.SessionID][ev.VideoID]; !seen {
				watched[ev.SessionID][ev.VideoID] = struct{}{}
				sess.VideosWatched = append(sess.VideosWatched, ev.VideoID)
			}
		}

		sess.TotalWatchTime += ev.Seconds()
		sess.Interactions++
	}

	out := make([]Session, 0, len(order))
	for _, id := range order {
		out = append(out, *byID[id])
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].LastActivity.After(out[j].LastActivity)
	})
	return out
}
