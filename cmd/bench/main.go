// Command bench runs a synthetic page workload against an LRU-K buffer pool
// and exposes optional pprof/Prometheus endpoints.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"math/rand"
	"net/http"
	_ "net/http/pprof" // registers /debug/pprof/* on DefaultServeMux
	"os"
	"runtime"
	"sync/atomic"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"golang.org/x/sync/errgroup"

	"github.com/IvanBrykalov/lruk/internal/pool"
	pmet "github.com/IvanBrykalov/lruk/metrics/prom"
)

func main() {
	// ---- Flags ----
	var (
		frames = flag.Int("frames", 4_096, "buffer pool size (frames)")
		k      = flag.Int("k", 2, "LRU-K access window")

		workers  = flag.Int("workers", 2*runtime.GOMAXPROCS(0), "number of worker goroutines")
		duration = flag.Duration("duration", 10*time.Second, "benchmark duration")
		hold     = flag.Duration("hold", 0, "time a worker keeps each page pinned")

		pages   = flag.Int("pages", 100_000, "page id space")
		zipfS   = flag.Float64("zipf_s", 1.1, "Zipf s > 1 (skew)")
		zipfV   = flag.Float64("zipf_v", 1.0, "Zipf v")
		scanPct = flag.Int("scan_pct", 2, "percentage of operations that start a sequential scan")
		scanLen = flag.Int("scan_len", 256, "pages per sequential scan")
		seed    = flag.Int64("seed", time.Now().UnixNano(), "random seed")

		pprofAddr   = flag.String("pprof", "", "serve pprof at addr (e.g. :6060); empty = disabled")
		metricsAddr = flag.String("http", ":8080", "serve Prometheus metrics at addr; empty = disabled")
		logLevel    = flag.String("log_level", "info", "log level: debug | info | warn | error")
	)
	flag.Parse()

	var level slog.Level
	if err := level.UnmarshalText([]byte(*logLevel)); err != nil {
		fmt.Fprintf(os.Stderr, "bad -log_level: %v\n", err)
		os.Exit(2)
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))

	// ---- pprof server (on DefaultServeMux) ----
	if *pprofAddr != "" {
		go func() {
			logger.Info("pprof: serving", slog.String("addr", *pprofAddr))
			logger.Error("pprof server stopped", slog.Any("err", http.ListenAndServe(*pprofAddr, nil)))
		}()
	}

	// ---- Prometheus metrics (on DefaultServeMux) ----
	metrics := pmet.New(nil, "lruk", "bench", nil)
	if *metricsAddr != "" {
		http.Handle("/metrics", promhttp.Handler())
		go func() {
			logger.Info("metrics: serving", slog.String("addr", *metricsAddr))
			logger.Error("metrics server stopped", slog.Any("err", http.ListenAndServe(*metricsAddr, nil)))
		}()
	}

	// ---- Build pool ----
	bp, err := pool.New(pool.Options{
		Frames:  *frames,
		K:       *k,
		Metrics: metrics,
		Logger:  logger,
	})
	if err != nil {
		logger.Error("cannot build pool", slog.Any("err", err))
		os.Exit(1)
	}

	// ---- Snapshot flags for goroutines ----
	pagesMax := uint64(*pages - 1)
	seedBase := *seed
	zipfSVal, zipfVVal := *zipfS, *zipfV
	scanPctVal, scanLenVal := *scanPct, *scanLen
	holdVal := *hold
	workersN := *workers
	if workersN <= 0 {
		workersN = 1
	}

	// ---- Load generation ----
	var ops, scans, full atomic.Uint64
	ctx, cancel := context.WithTimeout(context.Background(), *duration)
	defer cancel()

	start := time.Now()
	g, gctx := errgroup.WithContext(ctx)
	for w := 0; w < workersN; w++ {
		g.Go(func() error {
			// Each worker gets its own RNG + Zipf (rand.Rand is NOT goroutine-safe).
			localR := rand.New(rand.NewSource(seedBase + int64(w)*9973))
			localZipf := rand.NewZipf(localR, zipfSVal, zipfVVal, pagesMax)

			visit := func(page pool.PageID) error {
				if _, err := bp.Fetch(gctx, page); err != nil {
					if errors.Is(err, pool.ErrNoFreeFrame) {
						full.Add(1)
						return nil
					}
					return err
				}
				ops.Add(1)
				if holdVal > 0 {
					time.Sleep(holdVal)
				}
				return bp.Unpin(page)
			}

			for gctx.Err() == nil {
				if int(localR.Int31n(100)) < scanPctVal {
					scans.Add(1)
					first := pool.PageID(localR.Int63n(int64(pagesMax) + 1))
					for i := 0; i < scanLenVal && gctx.Err() == nil; i++ {
						if err := visit(first + pool.PageID(i)); err != nil {
							return err
						}
					}
					continue
				}
				if err := visit(pool.PageID(localZipf.Uint64())); err != nil {
					return err
				}
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil && !errors.Is(err, context.DeadlineExceeded) && !errors.Is(err, context.Canceled) {
		logger.Error("workload failed", slog.Any("err", err))
		os.Exit(1)
	}
	elapsed := time.Since(start)

	// ---- Report ----
	st := bp.Stats()
	hitRate := 0.0
	if n := st.Hits + st.Misses; n > 0 {
		hitRate = float64(st.Hits) / float64(n) * 100
	}
	logger.Info("done",
		slog.Int("frames", *frames),
		slog.Int("k", *k),
		slog.Int("workers", workersN),
		slog.Int("pages", *pages),
		slog.Duration("elapsed", elapsed),
		slog.Int64("seed", seedBase),
	)
	fmt.Printf("ops=%d (%.0f ops/s)  scans=%d  pool_full=%d\n",
		ops.Load(), float64(ops.Load())/elapsed.Seconds(), scans.Load(), full.Load())
	fmt.Printf("hits=%d  misses=%d  hit-rate=%.2f%%\n", st.Hits, st.Misses, hitRate)
	fmt.Printf("resident=%d  evictions=%d  early=%d  stable=%d\n",
		st.Resident, st.Replacer.Evictions, st.Replacer.Early, st.Replacer.Stable)
}
