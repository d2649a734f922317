package server

import (
	"context"
	"io"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/rowanarora/personal-website/internal/component"
)

// streamLabel pushes the rotating label as server-sent "label" events. The
// first event is the current frame; the stream ends when the client goes
// away, which also stops the timers. A reconnecting client passes the index
// it last showed as from, so the cycle carries on from there.
func (s *Server) streamLabel(c *gin.Context) {
	ctx := c.Request.Context()
	from, err := strconv.Atoi(c.DefaultQuery("from", "0"))
	if err != nil {
		c.String(http.StatusBadRequest, "invalid label index")
		return
	}
	cycler := component.NewCyclerAt(s.cfg.Portfolio.Technologies, from)
	first := cycler.Frame()

	frames := make(chan component.Frame)
	go cycler.Run(ctx, s.cfg.CycleInterval, s.cfg.FadeWindow, func(f component.Frame) {
		send[component.Frame](ctx, frames, f)
	})

	stream[component.Frame](c, "label", first, frames)
}

// streamShimmer pushes new dot opacity and scale as "shimmer" events.
// Positions in the payload are ignored by the browser.
func (s *Server) streamShimmer(c *gin.Context) {
	ctx := c.Request.Context()
	bg := component.NewBackground(s.cfg.Rand())

	frames := make(chan []component.Dot)
	go bg.Run(ctx, s.cfg.ShimmerInterval, func(dots []component.Dot) {
		send[[]component.Dot](ctx, frames, dots)
	})

	stream[[]component.Dot](c, "shimmer", nil, frames)
}

func send[T any](ctx context.Context, ch chan<- T, v T) {
	select {
	case ch <- v:
	case <-ctx.Done():
	}
}

// stream writes first, when set, and then every value from ch as an event
// named name until the request is done.
func stream[T any](c *gin.Context, name string, first any, ch <-chan T) {
	ctx := c.Request.Context()

	c.Header("Content-Type", "text/event-stream")
	c.Header("Cache-Control", "no-cache")
	c.Header("Connection", "keep-alive")
	c.Header("X-Accel-Buffering", "no")

	c.Status(http.StatusOK)
	if first != nil {
		c.SSEvent(name, first)
	}
	c.Writer.Flush()

	c.Stream(func(w io.Writer) bool {
		select {
		case <-ctx.Done():
			return false
		case v := <-ch:
			c.SSEvent(name, v)
			return true
		}
	})
}
