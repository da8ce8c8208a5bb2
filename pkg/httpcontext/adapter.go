package httpcontext

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/valyala/fasthttp"

	appLogger "github.com/planora/backend/pkg/logger"
)

const requestIDHeader = "X-Request-ID"

// Adapter bridges fasthttp's request context to a stdlib context with a
// deadline, so repositories and use cases stay free of fasthttp types.
type Adapter struct {
	timeout time.Duration
}

func NewAdapter(timeout time.Duration) *Adapter {
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	return &Adapter{timeout: timeout}
}

// Attach derives a deadline-bound context for the request and threads the
// request id through it. The id is echoed back in the response header so
// clients can correlate failures with server logs.
func (a *Adapter) Attach(ctx *fasthttp.RequestCtx) (context.Context, context.CancelFunc) {
	stdCtx, cancel := context.WithTimeout(context.Background(), a.timeout)

	id := requestID(ctx)
	stdCtx = appLogger.ContextWithRequestID(stdCtx, id)
	if ctx != nil {
		ctx.Response.Header.Set(requestIDHeader, id)
	}

	return stdCtx, cancel
}

func requestID(ctx *fasthttp.RequestCtx) string {
	if ctx != nil {
		if id := strings.TrimSpace(string(ctx.Request.Header.Peek(requestIDHeader))); id != "" {
			return id
		}
	}
	return uuid.NewString()
}
