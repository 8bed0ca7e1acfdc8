package analytics

import (
	"fmt"
	"sort"
	"strings"

	"vidinsight/internal/store"
)

// DeviceBreakdown counts interactions by device class, derived from the
// reported platform string.
type DeviceBreakdown struct {
	Mobile  int `json:"mobile"`
	Desktop int `json:"desktop"`
	Tablet  int `json:"tablet"`
}

// CountryViews is one entry of a video's top-locations list.
type CountryViews struct {
	Country string `json:"country"`
	Views   int    `json:"views"`
}

// VideoAnalytics is the detail rollup for a single video.
type VideoAnalytics struct {
	VideoID          string          `json:"videoId"`
	TotalViews       int             `json:"totalViews"`
	UniqueViews      int             `json:"uniqueViews"`
	TotalWatchTime   float64         `json:"totalWatchTime"`
	AverageWatchTime float64         `json:"averageWatchTime"`
	CompletionRate   float64         `json:"completionRate"`
	Likes            int             `json:"likes"`
	Shares           int             `json:"shares"`
	Comments         int             `json:"comments"`
	EngagementRate   float64         `json:"engagementRate"`
	DeviceBreakdown  DeviceBreakdown `json:"deviceBreakdown"`
	ViewsByHour      map[string]int  `json:"viewsByHour"`
	TopCountries     []CountryViews  `json:"topCountries"`
}

const topCountryLimit = 5

// VideoDetail reduces the log to the detail rollup for one video. Views
// by hour are bucketed on the event timestamp's UTC hour ("00".."23").
func VideoDetail(events []store.Interaction, videoID string) VideoAnalytics {
	va := VideoAnalytics{
		VideoID:      videoID,
		ViewsByHour:  map[string]int{},
		TopCountries: []CountryViews{},
	}

	sessions := make(map[string]struct{})
	completions := 0
	countries := make(map[string]int)
	countryOrder := make([]string, 0)

	for _, ev := range events {
		if ev.VideoID != videoID {
			continue
		}

		switch ev.Kind {
		case store.KindView:
			va.TotalViews++
			sessions[ev.SessionID] = struct{}{}
			va.TotalWatchTime += ev.Seconds()
			hour := fmt.Sprintf("%02d", ev.Timestamp.UTC().Hour())
			va.ViewsByHour[hour]++
		case store.KindLike:
			va.Likes++
		case store.KindShare:
			va.Shares++
		case store.KindComment:
			va.Comments++
		case store.KindComplete:
			completions++
		}

		switch classifyDevice(ev.Device.Platform) {
		case "mobile":
			va.DeviceBreakdown.Mobile++
		case "tablet":
			va.DeviceBreakdown.Tablet++
		default:
			va.DeviceBreakdown.Desktop++
		}

		if ev.Location != nil && ev.Location.Country != "" {
			if _, seen := countries[ev.Location.Country]; !seen {
				countryOrder = append(countryOrder, ev.Location.Country)
			}
			countries[ev.Location.Country]++
		}
	}

	va.UniqueViews = len(sessions)
	va.EngagementRate = engagementRate(va.Likes, va.Comments, va.Shares, va.TotalViews)
	if va.TotalViews > 0 {
		va.AverageWatchTime = va.TotalWatchTime / float64(va.TotalViews)
		va.CompletionRate = float64(completions) / float64(va.TotalViews) * 100
	}

	for _, c := range countryOrder {
		va.TopCountries = append(va.TopCountries, CountryViews{Country: c, Views: countries[c]})
	}
	sort.SliceStable(va.TopCountries, func(i, j int) bool {
		return va.TopCountries[i].Views > va.TopCountries[j].Views
	})
	if len(va.TopCountries) > topCountryLimit {
		va.TopCountries = va.TopCountries[:topCountryLimit]
	}

	return va
}

func classifyDevice(platform string) string {
	p := strings.ToLower(platform)
	switch {
	case strings.Contains(p, "ipad"):
		return "tablet"
	case strings.Contains(p, "ios"), strings.Contains(p, "android"),
		strings.Contains(p, "iphone"):
		return "mobile"
	default:
		return "desktop"
	}
}
