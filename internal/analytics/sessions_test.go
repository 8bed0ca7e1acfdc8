package analytics

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"vidinsight/internal/store"
)

func TestReconstructSessionsGrouping(t *testing.T) {
	events := []store.Interaction{
		event("a", "s1", "v1", store.KindView, 0),
		event("a", "s1", "v2", store.KindView, 10),
		event("a", "s1", "v1", store.KindLike, 20),
		event("b", "s2", "v1", store.KindView, 30),
	}

	sessions := ReconstructSessions(events)
	require.Len(t, sessions, 2)

	// Most recent activity first: s2's only event is the latest.
	assert.Equal(t, "s2", sessions[0].SessionID)
	assert.Equal(t, "s1", sessions[1].SessionID)

	s1 := sessions[1]
	assert.Equal(t, "a", s1.Username)
	assert.Equal(t, 3, s1.Interactions)
	assert.Equal(t, []string{"v1", "v2"}, s1.VideosWatched)
	assert.Equal(t, base, s1.StartTime)
	assert.Equal(t, base.Add(20*time.Second), s1.LastActivity)
}

func TestSessionStartNotAfterLastActivity(t *testing.T) {
	// Events arrive out of timestamp order; min/max must still hold.
	events := []store.Interaction{
		event("a", "s1", "v1", store.KindLike, 50),
		event("a", "s1", "v1", store.KindView, 10),
		event("a", "s1", "v1", store.KindShare, 30),
		event("b", "s2", "v9", store.KindView, 5),
	}

	for _, sess := range ReconstructSessions(events) {
		assert.False(t, sess.StartTime.After(sess.LastActivity),
			"session %s starts after its last activity", sess.SessionID)
	}
}

func TestSingleEventSessionBoundsEqual(t *testing.T) {
	sessions := ReconstructSessions([]store.Interaction{
		event("a", "s1", "v1", store.KindView, 7),
	})
	require.Len(t, sessions, 1)
	assert.Equal(t, sessions[0].StartTime, sessions[0].LastActivity)
}

func TestSessionWatchTimeSumsEachDuration(t *testing.T) {
	// A play and a pause both reporting 45s sum to 90: durations are
	// accumulated independently, never deduplicated.
	events := []store.Interaction{
		timedEvent("a", "s1", "v1", store.KindPlay, 0, 45),
		timedEvent("a", "s1", "v1", store.KindPause, 45, 45),
	}

	sessions := ReconstructSessions(events)
	require.Len(t, sessions, 1)
	assert.Equal(t, 90.0, sessions[0].TotalWatchTime)
}

func TestSessionDeviceFromFirstEvent(t *testing.T) {
	first := event("a", "s1", "v1", store.KindView, 0)
	first.Device = store.DeviceInfo{Platform: "iOS", UserAgent: "mobile-ua"}
	second := event("a", "s1", "v1", store.KindLike, 1)
	second.Device = store.DeviceInfo{Platform: "MacIntel", UserAgent: "desktop-ua"}

	sessions := ReconstructSessions([]store.Interaction{first, second})
	require.Len(t, sessions, 1)
	assert.Equal(t, "iOS", sessions[0].Device.Platform)
	assert.Equal(t, "mobile-ua", sessions[0].Device.UserAgent)
}

func TestSessionVideosWatchedCountsViewsOnly(t *testing.T) {
	events := []store.Interaction{
		event("a", "s1", "v1", store.KindLike, 0),
		event("a", "s1", "v2", store.KindView, 1),
		event("a", "s1", "v2", store.KindView, 2),
		event("a", "s1", "v3", store.KindShare, 3),
	}

	sessions := ReconstructSessions(events)
	require.Len(t, sessions, 1)
	assert.Equal(t, []string{"v2"}, sessions[0].VideosWatched)
}

func TestReconstructSessionsEmptyLog(t *testing.T) {
	sessions := ReconstructSessions(nil)
	assert.NotNil(t, sessions)
	assert.Empty(t, sessions)
}
