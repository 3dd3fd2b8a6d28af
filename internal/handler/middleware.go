package handler

import (
	"log"
	"runtime/debug"
	"time"

	"github.com/valyala/fasthttp"
)

func withLogging(next fasthttp.RequestHandler) fasthttp.RequestHandler {
	return func(ctx *fasthttp.RequestCtx) {
		start := time.Now()
		next(ctx)
		log.Printf("%s %s %s %d %v",
			ctx.RemoteIP(),
			ctx.Method(),
			ctx.Path(),
			ctx.Response.StatusCode(),
			time.Since(start),
		)
	}
}

func withRecovery(next fasthttp.RequestHandler) fasthttp.RequestHandler {
	return func(ctx *fasthttp.RequestCtx) {
		defer func() {
			if err := recover(); err != nil {
				log.Printf("Panic recovered: %v\nStack trace:\n%s", err, debug.Stack())
				ctx.Response.Reset()
				writeError(ctx, fasthttp.StatusInternalServerError, "Internal server error")
			}
		}()
		next(ctx)
	}
}
