// Copyright 2026 KrakLabs
//
// SPDX-License-Identifier: AGPL-3.0-only

package main

import (
	"context"
	"encoding/json"
	flag "github.com/spf13/pflag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/loctreehq/loctree/internal/errors"
	"github.com/loctreehq/loctree/internal/ui"
	"github.com/loctreehq/loctree/pkg/model"
	"github.com/loctreehq/loctree/pkg/query"
	"github.com/loctreehq/loctree/pkg/snapshot"
)

// runServe implements `loctree serve`: a local HTTP endpoint over the
// persisted snapshot for ad hoc slice/focus/impact queries, plus an
// optional /metrics endpoint on a separate listener (spec §5: "runs on its own
// dedicated thread and shuts down when the main process exits").
// Grounded on the teacher's cmd/cie/index.go metrics-goroutine plus
// signal.Notify shutdown pattern, generalized from a side-channel
// metrics listener into the command's actual server.
func runServe(args []string) {
	fs := flag.NewFlagSet("serve", flag.ExitOnError)
	cf := &commonFlags{}
	addCommonFlags(fs, cf)
	addr := fs.String("addr", "127.0.0.1:7420", "HTTP listen address")
	metricsAddr := fs.String("metrics-addr", "", "Separate HTTP listen address for Prometheus metrics (empty to disable)")
	fs.Usage = func() {
		fmt.Fprintln(os.Stderr, "Usage: loctree serve [--root <dir>] [--addr host:port] [--metrics-addr host:port]")
	}
	_ = fs.Parse(args)
	ui.InitColors(cf.noColor)

	root := absRootOrFail(cf)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	go func() {
		<-sigChan
		cancel()
	}()

	if *metricsAddr != "" {
		go serveMetrics(*metricsAddr)
	}

	mux := http.NewServeMux()
	mux.HandleFunc("/slice", serveSlice(root))
	mux.HandleFunc("/focus", serveFocus(root))
	mux.HandleFunc("/impact", serveImpact(root))
	mux.HandleFunc("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		fmt.Fprintln(w, "ok")
	})

	srv := &http.Server{Addr: *addr, Handler: mux}

	// The listener runs on its own goroutine so the main thread can
	// block on ctx and join the server's shutdown before returning,
	// matching the teacher's background-metrics-listener shape but
	// holding the handle for the command's full duration instead of
	// firing it and forgetting it.
	errCh := make(chan error, 1)
	go func() {
		ui.Successf("serving loctree queries on http://%s", *addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if err != nil && err != http.ErrServerClosed {
			fail(cf, errors.NewInternalError("HTTP server failed", err.Error(), "", err))
		}
	case <-ctx.Done():
		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer shutdownCancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			ui.Warningf("server shutdown error: %v", err)
		}
	}
}

// serveMetrics exposes the default Prometheus registry. pkg/scanner's
// and pkg/aggregate's metrics are registered only on their first use
// in a process, and serve neither scans nor builds findings, so this
// endpoint shows the Go-runtime and process metrics only.
func serveMetrics(addr string) {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())
	srv := &http.Server{Addr: addr, Handler: mux}
	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		ui.Warningf("metrics server error: %v", err)
	}
}

func serveSlice(root string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		path := r.URL.Query().Get("path")
		if path == "" {
			http.Error(w, "missing ?path=", http.StatusBadRequest)
			return
		}
		snap, err := loadSnapshotForServe(root, w)
		if err != nil {
			return
		}
		withConsumers := r.URL.Query().Get("consumers") == "true"
		writeJSONResponse(w, query.Slice(snap, path, withConsumers))
	}
}

func serveFocus(root string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		dir := r.URL.Query().Get("dir")
		snap, err := loadSnapshotForServe(root, w)
		if err != nil {
			return
		}
		writeJSONResponse(w, query.Focus(snap, dir))
	}
}

func serveImpact(root string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		path := r.URL.Query().Get("path")
		if path == "" {
			http.Error(w, "missing ?path=", http.StatusBadRequest)
			return
		}
		snap, err := loadSnapshotForServe(root, w)
		if err != nil {
			return
		}
		writeJSONResponse(w, query.Impact(snap, path, 0))
	}
}

func loadSnapshotForServe(root string, w http.ResponseWriter) (*model.Snapshot, error) {
	snap, err := snapshot.Load(root, snapshot.LoadOptions{})
	if err != nil {
		http.Error(w, err.Error(), http.StatusNotFound)
		return nil, err
	}
	return snap, nil
}

func writeJSONResponse(w http.ResponseWriter, data any) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(data)
}
