// Package downloader launches the external novel downloader for one novel
// at a time. Requests are queued, run by a single worker and throttled so
// a burst of clicks does not hammer the remote site.
package downloader

import (
	"context"
	"errors"
	"fmt"
	"log"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/vrsandeep/novelshelf/internal/models"
	"github.com/vrsandeep/novelshelf/internal/util"
	"golang.org/x/time/rate"
)

var (
	ErrDownloaderNotFound = errors.New("downloader executable not found")
	ErrQueueFull          = errors.New("download queue is full")
	ErrMissingNovelID     = errors.New("novel id is required")
	ErrStopped            = errors.New("downloader is stopped")
)

// JobID identifies downloader messages in progress updates.
const JobID = "downloader"

const queueSize = 64

// Recorder persists finished downloads.
type Recorder interface {
	RecordDownload(r *models.DownloadResult) error
}

// Broadcaster sends a JSON-encodable value to every connected client.
type Broadcaster interface {
	BroadcastJSON(v any)
}

// CommandFunc builds the process to run. It exists so tests can swap the
// executable.
type CommandFunc func(ctx context.Context, name string, args ...string) *exec.Cmd

// Options configures a Runner.
type Options struct {
	Path          string // downloader executable
	OutputDir     string
	RatePerMinute int // <= 0 disables throttling
	Recorder      Recorder
	Broadcaster   Broadcaster
	Command       CommandFunc
}

// Runner owns the download queue.
type Runner struct {
	path      string
	outputDir string
	limiter   *rate.Limiter
	recorder  Recorder
	hub       Broadcaster
	command   CommandFunc

	queue chan models.DownloadRequest

	mu      sync.Mutex
	paused  bool
	resume  chan struct{}
	running bool
	cancel  context.CancelFunc
	done    chan struct{}
}

// New creates a Runner. Call Start before Enqueue.
func New(opts Options) *Runner {
	limit := rate.Inf
	if opts.RatePerMinute > 0 {
		limit = rate.Every(time.Minute / time.Duration(opts.RatePerMinute))
	}
	if opts.Command == nil {
		opts.Command = exec.CommandContext
	}
	return &Runner{
		path:      opts.Path,
		outputDir: opts.OutputDir,
		limiter:   rate.NewLimiter(limit, 1),
		recorder:  opts.Recorder,
		hub:       opts.Broadcaster,
		command:   opts.Command,
		queue:     make(chan models.DownloadRequest, queueSize),
		resume:    make(chan struct{}),
	}
}

// OutputPath is where the downloader writes the novel titled title.
func (r *Runner) OutputPath(title string) string {
	return filepath.Join(r.outputDir, util.SanitizeFilename(title)+".html")
}

// Args builds the downloader's command line.
func Args(novelID, outputPath string) []string {
	return []string{"-autostart", "-novelid", novelID, "-html", "-output", outputPath}
}

// Run downloads one novel synchronously. A non-zero exit status is a
// failed result, not an error; errors mean the downloader never ran.
func (r *Runner) Run(ctx context.Context, req models.DownloadRequest) (*models.DownloadResult, error) {
	if strings.TrimSpace(req.NovelID) == "" {
		return nil, ErrMissingNovelID
	}
	if _, err := os.Stat(r.path); err != nil {
		return nil, fmt.Errorf("%w: %s", ErrDownloaderNotFound, r.path)
	}
	if err := util.EnsureWritableDir(r.outputDir); err != nil {
		return nil, fmt.Errorf("output directory: %w", err)
	}
	if err := r.limiter.Wait(ctx); err != nil {
		return nil, err
	}

	title := req.Title
	if title == "" {
		title = req.NovelID
	}
	output := r.OutputPath(title)
	log.Printf("Running downloader for novel %s, writing to %s", req.NovelID, output)

	cmd := r.command(ctx, r.path, Args(req.NovelID, output)...)
	out, err := cmd.CombinedOutput()

	result := &models.DownloadResult{
		NovelID:    req.NovelID,
		Title:      title,
		OutputPath: output,
		Success:    err == nil,
		FinishedAt: time.Now(),
	}
	if err != nil {
		var exitErr *exec.ExitError
		if !errors.As(err, &exitErr) {
			return nil, fmt.Errorf("failed to run downloader: %w", err)
		}
		result.Message = fmt.Sprintf("downloader exited with code %d", exitErr.ExitCode())
		if msg := strings.TrimSpace(string(out)); msg != "" {
			result.Message += ": " + lastLine(msg)
		}
		log.Printf("Download of novel %s failed: %s", req.NovelID, result.Message)
	} else {
		log.Printf("Downloader for novel %s finished. Check %s", req.NovelID, output)
	}
	return result, nil
}

// Start launches the worker. It is a no-op if already running.
func (r *Runner) Start(ctx context.Context) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.running {
		return
	}
	ctx, r.cancel = context.WithCancel(ctx)
	r.done = make(chan struct{})
	r.running = true
	go r.worker(ctx, r.done)
	log.Println("Download worker started.")
}

// Stop cancels the running download, if any, and waits for the worker.
func (r *Runner) Stop() {
	r.mu.Lock()
	if !r.running {
		r.mu.Unlock()
		return
	}
	r.running = false
	r.cancel()
	done := r.done
	r.mu.Unlock()
	<-done
}

// Enqueue schedules a download and returns immediately.
func (r *Runner) Enqueue(req models.DownloadRequest) error {
	if strings.TrimSpace(req.NovelID) == "" {
		return ErrMissingNovelID
	}
	r.mu.Lock()
	running := r.running
	r.mu.Unlock()
	if !running {
		return ErrStopped
	}
	select {
	case r.queue <- req:
		r.notify(req.NovelID, fmt.Sprintf("Queued download of %s", displayTitle(req)), "queued", 0, false)
		return nil
	default:
		return ErrQueueFull
	}
}

// Pending is the number of queued requests not yet started.
func (r *Runner) Pending() int {
	return len(r.queue)
}

// Pause stops the worker from picking up new requests. The current
// download, if any, runs to completion.
func (r *Runner) Pause() {
	r.mu.Lock()
	r.paused = true
	r.mu.Unlock()
	log.Println("Download queue paused.")
}

// Resume undoes Pause.
func (r *Runner) Resume() {
	r.mu.Lock()
	if r.paused {
		r.paused = false
		close(r.resume)
		r.resume = make(chan struct{})
	}
	r.mu.Unlock()
	log.Println("Download queue resumed.")
}

func (r *Runner) IsPaused() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.paused
}

// waitUnpaused blocks while the queue is paused.
func (r *Runner) waitUnpaused(ctx context.Context) error {
	for {
		r.mu.Lock()
		paused, resume := r.paused, r.resume
		r.mu.Unlock()
		if !paused {
			return nil
		}
		select {
		case <-resume:
		case <-ctx.Done():
			return ctx.Err()
		}
	}
}

func (r *Runner) worker(ctx context.Context, done chan struct{}) {
	defer close(done)
	for {
		if err := r.waitUnpaused(ctx); err != nil {
			return
		}
		select {
		case <-ctx.Done():
			return
		case req := <-r.queue:
			r.process(ctx, req)
		}
	}
}

func (r *Runner) process(ctx context.Context, req models.DownloadRequest) {
	r.notify(req.NovelID, fmt.Sprintf("Downloading %s...", displayTitle(req)), "in_progress", 0, false)

	result, err := r.Run(ctx, req)
	if err != nil {
		log.Printf("Download of novel %s could not start: %v", req.NovelID, err)
		result = &models.DownloadResult{
			NovelID:    req.NovelID,
			Title:      displayTitle(req),
			Message:    err.Error(),
			FinishedAt: time.Now(),
		}
	}
	if r.recorder != nil {
		if err := r.recorder.RecordDownload(result); err != nil {
			log.Printf("Error recording download of novel %s: %v", req.NovelID, err)
		}
	}
	if result.Success {
		r.notify(req.NovelID, fmt.Sprintf("Downloaded %s to %s", result.Title, result.OutputPath), "completed", 100, true)
	} else {
		r.notify(req.NovelID, fmt.Sprintf("Download failed: %s", result.Message), "failed", 0, true)
	}
}

func (r *Runner) notify(novelID, message, status string, progress float64, done bool) {
	if r.hub == nil {
		return
	}
	r.hub.BroadcastJSON(models.ProgressUpdate{
		JobID:    JobID,
		RunID:    novelID,
		Message:  message,
		Progress: progress,
		Status:   status,
		Done:     done,
	})
}

func displayTitle(req models.DownloadRequest) string {
	if req.Title != "" {
		return req.Title
	}
	return req.NovelID
}

func lastLine(s string) string {
	if i := strings.LastIndexByte(s, '\n'); i >= 0 {
		return strings.TrimSpace(s[i+1:])
	}
	return s
}
