package main

import (
	"context"
	"net/http"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/rcourtman/irconsole/internal/metrics"
)

func startMetricsServer(ctx context.Context, group *errgroup.Group, addr string) {
	mux := http.NewServeMux()
	mux.Handle("/metrics", metrics.Handler())

	serveUntilDone(ctx, group, "metrics endpoint", &http.Server{
		Addr:         addr,
		Handler:      mux,
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  30 * time.Second,
	})
}
