package main

import (
	"flag"
	"fmt"
	"math/rand"
	"os"
	"os/signal"
	"strings"
	"sync"
	"sync/atomic"
	"syscall"
	"time"

	"github.com/lixenwraith/tinylog"
)

const (
	totalBursts    = 100
	logsPerBurst   = 500
	maxMessageSize = 2000
	numWorkers     = 50
)

// Example TOML content for stress test
var tomlContent = `
# Example stress_config.toml
[tinylog]
  name = "stress_test.log"
  directory = "./logs"
  base_directory = "."
  flush_interval_ms = 200
  min_flush_interval_ms = 20
  heartbeat_interval_s = 1
  cache_soft_limit = 262144
  cache_hard_limit = 1048576
  max_file_size = 1048576 # Force frequent rotation (1MiB)
  max_archive_size = 4194304 # Force archive wipes (4MiB)
  archive_codec = "zstd"
  archive_workers = 2
  error_retry = 3
`

var levels = []string{
	tinylog.LevelDebug,
	tinylog.LevelInfo,
	tinylog.LevelWarn,
	tinylog.LevelError,
}

var logger *tinylog.Logger

func generateRandomMessage(size int) string {
	const chars = "abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789 "
	var sb strings.Builder
	sb.Grow(size)
	for i := 0; i < size; i++ {
		sb.WriteByte(chars[rand.Intn(len(chars))])
	}
	return sb.String()
}

// logBurst simulates a burst of logging activity
func logBurst(burstID int) {
	for i := 0; i < logsPerBurst; i++ {
		level := levels[rand.Intn(len(levels))]
		msg := generateRandomMessage(rand.Intn(maxMessageSize) + 10)
		logger.Log(level, msg, "wkr", burstID%numWorkers, "bst", burstID, "seq", i)
	}
}

// worker goroutine function
func worker(burstChan chan int, wg *sync.WaitGroup, completedBursts *atomic.Int64) {
	defer wg.Done()
	for burstID := range burstChan {
		logBurst(burstID)
		completed := completedBursts.Add(1)
		if completed%10 == 0 || completed == totalBursts {
			fmt.Printf("\rProgress: %d/%d bursts completed", completed, totalBursts)
		}
	}
}

func main() {
	configFile := flag.String("config", "stress_config.toml", "config file, written with example values if missing")
	flag.Parse()

	fmt.Println("--- tinylog Stress Test ---")

	if _, err := os.Stat(*configFile); os.IsNotExist(err) {
		if err := os.WriteFile(*configFile, []byte(tomlContent), 0644); err != nil {
			fmt.Fprintf(os.Stderr, "Failed to write example config: %v\n", err)
			os.Exit(1)
		}
		fmt.Printf("Created example config file: %s\n", *configFile)
	}

	cfg, err := tinylog.NewConfigFromFile(*configFile)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load config: %v\n", err)
		os.Exit(1)
	}

	shared, err := tinylog.NewSharedConfig(cfg)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Invalid config: %v\n", err)
		os.Exit(1)
	}
	logger = tinylog.NewLogger(shared)
	fmt.Printf("Logger %s writing to: %s\n", logger.ID(), logger.LogPath())

	fmt.Printf("Starting stress test: %d workers, %d bursts, %d logs/burst.\n",
		numWorkers, totalBursts, logsPerBurst)
	fmt.Println("Press Ctrl+C to stop early.")

	// --- Setup Workers and Signal Handling ---
	burstChan := make(chan int, numWorkers)
	var wg sync.WaitGroup
	completedBursts := atomic.Int64{}
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	stopChan := make(chan struct{})

	go func() {
		<-sigChan
		fmt.Println("\n[Signal Received] Stopping burst generation...")
		close(stopChan)
	}()

	for i := 0; i < numWorkers; i++ {
		wg.Add(1)
		go worker(burstChan, &wg, &completedBursts)
	}

	// --- Run Test ---
	startTime := time.Now()
submit:
	for i := 1; i <= totalBursts; i++ {
		select {
		case burstChan <- i:
		case <-stopChan:
			fmt.Println("[Signal Received] Halting burst submission.")
			break submit
		}
	}
	close(burstChan)

	fmt.Println("\nWaiting for workers to finish...")
	wg.Wait()
	duration := time.Since(startTime)
	finalCompleted := completedBursts.Load()

	fmt.Printf("\n--- Test Finished ---")
	fmt.Printf("\nCompleted %d/%d bursts in %v\n", finalCompleted, totalBursts, duration.Round(time.Millisecond))
	if finalCompleted > 0 && duration.Seconds() > 0 {
		logsPerSec := float64(finalCompleted*logsPerBurst) / duration.Seconds()
		fmt.Printf("Approximate Logs/sec: %.2f\n", logsPerSec)
	}

	// --- Shutdown Logger ---
	fmt.Println("Shutting down logger (allowing up to 10s)...")
	if err := logger.Shutdown(10 * time.Second); err != nil {
		fmt.Fprintf(os.Stderr, "Logger shutdown error: %v\n", err)
	} else {
		fmt.Println("Logger shutdown complete.")
	}

	s := logger.Stats()
	fmt.Printf("Flushes: %d, rotations: %d, archives: %d, archive wipes: %d, archive skips: %d\n",
		s.Flushes, s.Rotations, s.Archives, s.ArchiveWipes, s.ArchiveSkips)
	fmt.Printf("Dropped at hard limit: %d, persist failures: %d, archive failures: %d\n",
		s.DroppedRecords, s.PersistFailures, s.ArchiveFailures)
}
