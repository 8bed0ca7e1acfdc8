package analytics

import (
	"fmt"
	"time"

	"vidinsight/internal/store"
)

// ExportDocument is the downloadable snapshot: the full log plus the
// summary computed from it at export time.
type ExportDocument struct {
	Summary      Summary             `json:"summary"`
	Interactions []store.Interaction `json:"interactions"`
	ExportedAt   time.Time           `json:"exportedAt"`
}

// Export captures the current log and its summary in one document. The
// summary is computed from the same snapshot that is exported, so
// re-deriving it from the document's interactions gives the same result.
func (s *Service) Export() ExportDocument {
	events := s.store.ReadAll()
	if events == nil {
		events = []store.Interaction{}
	}
	return ExportDocument{
		Summary:      Summarize(events),
		Interactions: events,
		ExportedAt:   time.Now().UTC(),
	}
}

// ExportFilename names the download after the export instant.
func ExportFilename(t time.Time) string {
	return fmt.Sprintf("vidinsight-analytics-%d.json", t.UnixMilli())
}
