package handler

import (
	"bufio"
	"encoding/json"
	"time"

	"github.com/valyala/fasthttp"
	"go.uber.org/zap"

	"github.com/planora/backend/internal/notify"
	"github.com/planora/backend/pkg/httpcontext"
)

const heartbeatInterval = 25 * time.Second

type RemindersHandler struct {
	baseHandler
	hub *notify.Hub
}

func NewRemindersHandler(hub *notify.Hub, adapter *httpcontext.Adapter, logger *zap.Logger) *RemindersHandler {
	return &RemindersHandler{
		baseHandler: newBaseHandler(adapter, logger),
		hub:         hub,
	}
}

// @Summary Stream reminder notifications over SSE
// @Tags reminders
// @Router /api/v1/reminders/stream [get]
func (h *RemindersHandler) Stream(ctx *fasthttp.RequestCtx) {
	session := h.session(ctx)
	if session == nil {
		return
	}

	events, cancel := h.hub.Subscribe(session.UserEmail)
	logger := h.logger.With(zap.String("user", session.UserEmail))

	ctx.SetContentType("text/event-stream")
	ctx.Response.Header.Set("Cache-Control", "no-cache")
	ctx.Response.Header.Set("Connection", "keep-alive")
	ctx.Response.Header.Set("X-Accel-Buffering", "no")

	ctx.SetBodyStreamWriter(func(w *bufio.Writer) {
		defer cancel()

		heartbeat := time.NewTicker(heartbeatInterval)
		defer heartbeat.Stop()

		// An immediate comment frame lets the client confirm the stream
		// is open before the first reminder fires.
		if _, err := w.WriteString(": connected\n\n"); err != nil {
			return
		}
		if err := w.Flush(); err != nil {
			return
		}

		for {
			select {
			case event, ok := <-events:
				if !ok {
					return
				}
				if err := writeEvent(w, event); err != nil {
					logger.Debug("reminder stream closed", zap.Error(err))
					return
				}
			case <-heartbeat.C:
				if _, err := w.WriteString(": keep-alive\n\n"); err != nil {
					return
				}
				if err := w.Flush(); err != nil {
					return
				}
			}
		}
	})
}

func writeEvent(w *bufio.Writer, event notify.Event) error {
	payload, err := json.Marshal(event)
	if err != nil {
		return err
	}
	if _, err := w.WriteString("event: reminder\ndata: "); err != nil {
		return err
	}
	if _, err := w.Write(payload); err != nil {
		return err
	}
	if _, err := w.WriteString("\n\n"); err != nil {
		return err
	}
	return w.Flush()
}
