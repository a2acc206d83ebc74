package jobs_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/vrsandeep/novelshelf/internal/jobs"
)

func TestStartJobs_DisabledInterval(t *testing.T) {
	ctx := newFakeContext()
	ctx.jobMgr = jobs.NewManager(ctx)

	s := jobs.StartJobs(ctx)
	defer s.Stop()
	assert.Equal(t, 0, s.Len())
}

func TestStartJobs_SchedulesCatalogImport(t *testing.T) {
	ctx := newFakeContext()
	ctx.cfg.Catalog.ReimportInterval = 30
	ctx.jobMgr = jobs.NewManager(ctx)

	s := jobs.StartJobs(ctx)
	defer s.Stop()
	assert.Equal(t, 1, s.Len())
}
