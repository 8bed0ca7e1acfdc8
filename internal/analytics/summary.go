// Package analytics turns the raw interaction log into dashboard
// rollups. Every function here is a pure reduction over a log snapshot:
// nothing is cached between calls and the input is never mutated, so a
// summary is always consistent with the log it was computed from.
package analytics

import (
	"sort"

	"vidinsight/internal/store"
)

// topVideoLimit caps the leaderboard returned in a Summary.
const topVideoLimit = 10

// VideoMetrics is the per-video rollup.
type VideoMetrics struct {
	VideoID        string  `json:"videoId"`
	Caption        string  `json:"caption"`
	Views          int     `json:"views"`
	UniqueSessions int     `json:"uniqueSessions"`
	Likes          int     `json:"likes"`
	Comments       int     `json:"comments"`
	Shares         int     `json:"shares"`
	EngagementRate float64 `json:"engagementRate"`
	AvgWatchTime   float64 `json:"averageWatchTime"`
}

// UserActivity is the per-user rollup, keyed by display name.
type UserActivity struct {
	Username       string  `json:"username"`
	SessionID      string  `json:"sessionId"`
	Interactions   int     `json:"interactions"`
	VideosWatched  int     `json:"videosWatched"`
	TotalWatchTime float64 `json:"totalWatchTime"`
}

// Summary is the global rollup shown on the dashboard.
type Summary struct {
	TotalViews       int            `json:"totalViews"`
	TotalLikes       int            `json:"totalLikes"`
	TotalComments    int            `json:"totalComments"`
	TotalShares      int            `json:"totalShares"`
	TotalUsers       int            `json:"totalUsers"`
	TotalWatchTime   float64        `json:"totalWatchTime"`
	AverageWatchTime float64        `json:"averageWatchTime"`
	TopVideos        []VideoMetrics `json:"topVideos"`
	UserActivity     []UserActivity `json:"userActivity"`
}

type videoAccum struct {
	metrics   VideoMetrics
	sessions  map[string]struct{}
	watchTime float64
}

type userAccum struct {
	activity UserActivity
	watched  map[string]struct{}
}

// Summarize reduces an event sequence to a Summary. The input may be in
// any order; grouping keys are accumulated in first-seen order so that
// leaderboard ties resolve by first appearance in the log, not by map
// iteration order.
func Summarize(events []store.Interaction) Summary {
	s := Summary{
		TopVideos:    []VideoMetrics{},
		UserActivity: []UserActivity{},
	}

	users := make(map[string]struct{})
	videos := make(map[string]*videoAccum)
	videoOrder := make([]string, 0)
	byUser := make(map[string]*userAccum)
	userOrder := make([]string, 0)

	for _, ev := range events {
		users[ev.Username] = struct{}{}
		s.TotalWatchTime += ev.Seconds()

		switch ev.Kind {
		case store.KindView:
			s.TotalViews++
		case store.KindLike:
			s.TotalLikes++
		case store.KindComment:
			s.TotalComments++
		case store.KindShare:
			s.TotalShares++
		}

		v, ok := videos[ev.VideoID]
		if !ok {
			// First-seen caption wins if captions ever diverge.
			v = &videoAccum{
				metrics:  VideoMetrics{VideoID: ev.VideoID, Caption: ev.VideoCaption},
				sessions: make(map[string]struct{}),
			}
			videos[ev.VideoID] = v
			videoOrder = append(videoOrder, ev.VideoID)
		}
		switch ev.Kind {
		case store.KindView:
			v.metrics.Views++
			v.sessions[ev.SessionID] = struct{}{}
			v.watchTime += ev.Seconds()
		case store.KindLike:
			v.metrics.Likes++
		case store.KindComment:
			v.metrics.Comments++
		case store.KindShare:
			v.metrics.Shares++
		}

		u, ok := byUser[ev.Username]
		if !ok {
			u = &userAccum{
				activity: UserActivity{Username: ev.Username, SessionID: ev.SessionID},
				watched:  make(map[string]struct{}),
			}
			byUser[ev.Username] = u
			userOrder = append(userOrder, ev.Username)
		}
		u.activity.Interactions++
		u.activity.TotalWatchTime += ev.Seconds()
		if ev.Kind == store.KindView {
			u.watched[ev.VideoID] = struct{}{}
		}
	}

	s.TotalUsers = len(users)
	if s.TotalViews > 0 {
		s.AverageWatchTime = s.TotalWatchTime / float64(s.TotalViews)
	}

	ranked := make([]VideoMetrics, 0, len(videoOrder))
	for _, id := range videoOrder {
		v := videos[id]
		m := v.metrics
		m.UniqueSessions = len(v.sessions)
		m.EngagementRate = engagementRate(m.Likes, m.Comments, m.Shares, m.Views)
		if m.Views > 0 {
			m.AvgWatchTime = v.watchTime / float64(m.Views)
		}
		ranked = append(ranked, m)
	}
	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].Views > ranked[j].Views
	})
	if len(ranked) > topVideoLimit {
		ranked = ranked[:topVideoLimit]
	}
	s.TopVideos = ranked

	for _, name := range userOrder {
		u := byUser[name]
		u.activity.VideosWatched = len(u.watched)
		s.UserActivity = append(s.UserActivity, u.activity)
	}

	return s
}

// engagementRate is (likes + comments + shares) / views as a percentage,
// 0 when there are no views.
func engagementRate(likes, comments, shares, views int) float64 {
	if views == 0 {
		return 0
	}
	return float64(likes+comments+shares) / float64(views) * 100
}
