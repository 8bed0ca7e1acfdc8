package analytics

import (
	"log"
	"time"

	"github.com/google/uuid"

	"vidinsight/internal/store"
)

// Service wraps a Store with the operations the HTTP surface exposes.
// The store is injected at construction so its lifecycle is tied to
// application start, not to package state.
type Service struct {
	store store.Store
}

func New(st store.Store) *Service {
	return &Service{store: st}
}

// Record builds an interaction from the caller's fields and appends it.
// Fire-and-forget: append failures are logged and swallowed so a broken
// storage medium never surfaces in the playback flow. Negative watch
// durations are clamped to 0.
func (s *Service) Record(username, sessionID, videoID, caption string, kind store.Kind, watchDuration *float64, device store.DeviceInfo, loc *store.Location) {
	if watchDuration != nil && *watchDuration < 0 {
		zero := 0.0
		watchDuration = &zero
	}

	ev := store.Interaction{
		ID:            uuid.NewString(),
		Username:      username,
		SessionID:     sessionID,
		VideoID:       videoID,
		VideoCaption:  caption,
		Kind:          kind,
		Timestamp:     time.Now().UTC(),
		WatchDuration: watchDuration,
		Device:        device,
		Location:      loc,
	}

	if err := s.store.Append(ev); err != nil {
		log.Printf("analytics: record interaction: %v", err)
	}
}

// Summary recomputes the global rollup from the current log snapshot.
func (s *Service) Summary() Summary {
	return Summarize(s.store.ReadAll())
}

// Sessions recomputes session summaries, most recent activity first.
func (s *Service) Sessions() []Session {
	return ReconstructSessions(s.store.ReadAll())
}

// Video recomputes the detail rollup for one video.
func (s *Service) Video(videoID string) VideoAnalytics {
	return VideoDetail(s.store.ReadAll(), videoID)
}

// Interactions returns the full log in insertion order.
func (s *Service) Interactions() []store.Interaction {
	return s.store.ReadAll()
}

// InteractionsByUser filters the log to one display name.
func (s *Service) InteractionsByUser(username string) []store.Interaction {
	return filterInteractions(s.store.ReadAll(), func(ev store.Interaction) bool {
		return ev.Username == username
	})
}

// InteractionsByVideo filters the log to one video id.
func (s *Service) InteractionsByVideo(videoID string) []store.Interaction {
	return filterInteractions(s.store.ReadAll(), func(ev store.Interaction) bool {
		return ev.VideoID == videoID
	})
}

// Clear irreversibly empties the log. Idempotent; confirmation is the
// caller's job.
func (s *Service) Clear() error {
	return s.store.Clear()
}

func filterInteractions(events []store.Interaction, keep func(store.Interaction) bool) []store.Interaction {
	out := make([]store.Interaction, 0)
	for _, ev := range events {
		if keep(ev) {
			out = append(out, ev)
		}
	}
	return out
}
