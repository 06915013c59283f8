package main

import (
	"fmt"
	"strings"
	"time"

	"github.com/valyala/fasthttp"

	"github.com/lixenwraith/tinylog"
	"github.com/lixenwraith/tinylog/compat"
)

func main() {
	logger := tinylog.NewLogger()
	if err := logger.ApplyConfigString(
		"directory=/var/log/fasthttp",
		"name=fasthttp.log",
		"cache_soft_limit=32768",
	); err != nil {
		panic(err)
	}
	defer logger.Shutdown()

	fasthttpAdapter := compat.NewFastHTTPAdapter(
		logger,
		compat.WithDefaultLevel(tinylog.LevelInfo),
		compat.WithLevelDetector(customLevelDetector),
	)

	server := &fasthttp.Server{
		Handler: requestHandler,
		Logger:  fasthttpAdapter,

		Name:              "MyServer",
		Concurrency:       fasthttp.DefaultConcurrency,
		ReadTimeout:       5 * time.Second,
		WriteTimeout:      10 * time.Second,
		IdleTimeout:       120 * time.Second,
		TCPKeepalive:      true,
		ReduceMemoryUsage: true,
	}

	fmt.Println("Starting server on :8080")
	if err := server.ListenAndServe(":8080"); err != nil {
		panic(err)
	}
}

func requestHandler(ctx *fasthttp.RequestCtx) {
	ctx.SetContentType("text/plain")
	fmt.Fprintf(ctx, "Hello, world! Path: %s\n", ctx.Path())
}

func customLevelDetector(msg string) string {
	if strings.Contains(msg, "connection cannot be served") {
		return tinylog.LevelWarn
	}
	if strings.Contains(msg, "error when serving connection") {
		return tinylog.LevelError
	}
	return compat.DetectLogLevel(msg)
}
