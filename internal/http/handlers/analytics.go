package handlers

import (
	"time"

	"github.com/goccy/go-json"
	"github.com/valyala/fasthttp"

	"vidinsight/internal/analytics"
	"vidinsight/internal/store"
)

// SummaryHandler returns the global rollup, recomputed from the current
// log snapshot on every call.
func SummaryHandler(svc *analytics.Service) fasthttp.RequestHandler {
	return func(ctx *fasthttp.RequestCtx) {
		jsonResponse(ctx, svc.Summary())
	}
}

// SessionsHandler returns reconstructed sessions, most recent first.
func SessionsHandler(svc *analytics.Service) fasthttp.RequestHandler {
	return func(ctx *fasthttp.RequestCtx) {
		jsonResponse(ctx, svc.Sessions())
	}
}

// VideoDetailHandler returns the detail rollup for the video in the
// route. A video with no recorded interactions yields all-zero metrics,
// not a 404: absence of telemetry is not an error.
func VideoDetailHandler(svc *analytics.Service) fasthttp.RequestHandler {
	return func(ctx *fasthttp.RequestCtx) {
		videoID, _ := ctx.UserValue("id").(string)
		if videoID == "" {
			errResponse(ctx, fasthttp.StatusBadRequest, "missing video id")
			return
		}
		jsonResponse(ctx, svc.Video(videoID))
	}
}

// InteractionsHandler returns the raw log, optionally filtered by
// ?user= or ?video=.
func InteractionsHandler(svc *analytics.Service) fasthttp.RequestHandler {
	return func(ctx *fasthttp.RequestCtx) {
		if user := string(ctx.QueryArgs().Peek("user")); user != "" {
			jsonResponse(ctx, svc.InteractionsByUser(user))
			return
		}
		if video := string(ctx.QueryArgs().Peek("video")); video != "" {
			jsonResponse(ctx, svc.InteractionsByVideo(video))
			return
		}
		events := svc.Interactions()
		if events == nil {
			events = []store.Interaction{}
		}
		jsonResponse(ctx, events)
	}
}

// ExportHandler serves the full log plus its summary as a downloadable
// JSON document named after the export instant.
func ExportHandler(svc *analytics.Service) fasthttp.RequestHandler {
	return func(ctx *fasthttp.RequestCtx) {
		doc := svc.Export()
		body, err := json.MarshalIndent(doc, "", "  ")
		if err != nil {
			errResponse(ctx, fasthttp.StatusInternalServerError, "failed to encode export")
			return
		}
		ctx.SetContentType("application/json")
		ctx.Response.Header.Set("Content-Disposition",
			`attachment; filename="`+analytics.ExportFilename(doc.ExportedAt)+`"`)
		ctx.SetBody(body)
	}
}

// ClearHandler irreversibly empties the log. The operator confirmation
// travels as a header so an accidental bare POST does nothing.
func ClearHandler(svc *analytics.Service) fasthttp.RequestHandler {
	return func(ctx *fasthttp.RequestCtx) {
		if string(ctx.Request.Header.Peek("X-Confirm-Clear")) != "yes" {
			errResponse(ctx, fasthttp.StatusBadRequest, "clear requires X-Confirm-Clear: yes")
			return
		}
		if err := svc.Clear(); err != nil {
			errResponse(ctx, fasthttp.StatusInternalServerError, "failed to clear analytics data")
			return
		}
		ctx.SetContentType("application/json")
		ctx.SetBodyString(`{"status":"cleared","clearedAt":"` + time.Now().UTC().Format(time.RFC3339) + `"}`)
	}
}
