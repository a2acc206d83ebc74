package jobs_test

import (
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vrsandeep/novelshelf/internal/config"
	"github.com/vrsandeep/novelshelf/internal/cover"
	"github.com/vrsandeep/novelshelf/internal/importer"
	"github.com/vrsandeep/novelshelf/internal/jobs"
	"github.com/vrsandeep/novelshelf/internal/websocket"
)

type fakeJobContext struct {
	cfg    *config.Config
	ws     *websocket.Hub
	jobMgr *jobs.JobManager
}

func (f *fakeJobContext) Config() *config.Config       { return f.cfg }
func (f *fakeJobContext) WsHub() *websocket.Hub        { return f.ws }
func (f *fakeJobContext) JobManager() *jobs.JobManager { return f.jobMgr }
func (f *fakeJobContext) Ingester() *importer.Ingester { return nil }
func (f *fakeJobContext) Covers() *cover.Resolver      { return nil }

func newFakeContext() *fakeJobContext {
	return &fakeJobContext{cfg: &config.Config{}, ws: websocket.NewHub()}
}

func statusOf(t *testing.T, mgr *jobs.JobManager, id string) jobs.JobStatus {
	t.Helper()
	for _, s := range mgr.GetStatus() {
		if s.ID == id {
			return s
		}
	}
	t.Fatalf("job %s not registered", id)
	return jobs.JobStatus{}
}

func TestManager_NewManager(t *testing.T) {
	mgr := jobs.NewManager(newFakeContext())
	assert.NotNil(t, mgr)
	assert.Empty(t, mgr.GetStatus())
	assert.False(t, mgr.IsRunning())
}

func TestManager_RegisterAndGetStatus(t *testing.T) {
	mgr := jobs.NewManager(newFakeContext())
	mgr.Register("jobB", "Job B", func(ctx jobs.JobContext) error { return nil })
	mgr.Register("jobA", "Job A", func(ctx jobs.JobContext) error { return nil })
	statuses := mgr.GetStatus()
	require.Len(t, statuses, 2)
	assert.Equal(t, "jobA", statuses[0].ID)
	assert.Equal(t, "Job B", statuses[1].Name)
	assert.Equal(t, "idle", statuses[0].Status)
}

func TestManager_RunJob_SuccessAndStatus(t *testing.T) {
	ctx := newFakeContext()
	mgr := jobs.NewManager(ctx)
	ctx.jobMgr = mgr
	called := make(chan struct{})
	mgr.Register("jobX", "Job X", func(ctx jobs.JobContext) error { close(called); return nil })

	require.NoError(t, mgr.Run("jobX"))
	<-called
	require.Eventually(t, func() bool { return statusOf(t, mgr, "jobX").Status == "success" }, time.Second, 5*time.Millisecond)
	assert.False(t, statusOf(t, mgr, "jobX").EndTime.IsZero())
}

func TestManager_RunJob_Error(t *testing.T) {
	ctx := newFakeContext()
	mgr := jobs.NewManager(ctx)
	mgr.Register("bad", "Bad", func(ctx jobs.JobContext) error { return errors.New("source missing") })

	require.NoError(t, mgr.RunJob("bad", ctx))
	require.Eventually(t, func() bool { return statusOf(t, mgr, "bad").Status == "failed" }, time.Second, 5*time.Millisecond)
	assert.Equal(t, "source missing", statusOf(t, mgr, "bad").Message)
}

func TestManager_RunJob_AlreadyRunning(t *testing.T) {
	ctx := newFakeContext()
	mgr := jobs.NewManager(ctx)
	ctx.jobMgr = mgr
	block := make(chan struct{})
	mgr.Register("jobY", "Job Y", func(ctx jobs.JobContext) error { <-block; return nil })
	require.NoError(t, mgr.RunJob("jobY", ctx))
	assert.True(t, mgr.IsRunning())
	assert.Error(t, mgr.RunJob("jobY", ctx))
	close(block)
	require.Eventually(t, func() bool { return !mgr.IsRunning() }, time.Second, 5*time.Millisecond)
}

func TestManager_RunJob_NotFound(t *testing.T) {
	ctx := newFakeContext()
	mgr := jobs.NewManager(ctx)
	assert.Error(t, mgr.RunJob("nojob", ctx))
}

func TestManager_RunJob_Panic(t *testing.T) {
	ctx := newFakeContext()
	mgr := jobs.NewManager(ctx)
	ctx.jobMgr = mgr
	mgr.Register("panicJob", "Panic Job", func(ctx jobs.JobContext) error { panic("fail") })
	require.NoError(t, mgr.RunJob("panicJob", ctx))
	require.Eventually(t, func() bool { return statusOf(t, mgr, "panicJob").Status == "failed" }, time.Second, 5*time.Millisecond)
	assert.Contains(t, statusOf(t, mgr, "panicJob").Message, "panicked")
}

func TestManager_Concurrency(t *testing.T) {
	ctx := newFakeContext()
	mgr := jobs.NewManager(ctx)
	ctx.jobMgr = mgr
	var mu sync.Mutex
	var count int
	release := make(chan struct{})
	mgr.Register("jobC", "Job C", func(ctx jobs.JobContext) error {
		mu.Lock()
		count++
		mu.Unlock()
		<-release
		return nil
	})
	wg := sync.WaitGroup{}
	for i := 0; i < 5; i++ {
		wg.Add(1)
		go func() {
			_ = mgr.RunJob("jobC", ctx)
			wg.Done()
		}()
	}
	wg.Wait()
	close(release)
	require.Eventually(t, func() bool { return !mgr.IsRunning() }, time.Second, 5*time.Millisecond)
	mu.Lock()
	assert.Equal(t, 1, count, "job should only run once concurrently")
	mu.Unlock()
}
