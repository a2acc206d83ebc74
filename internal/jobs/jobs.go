package jobs

import (
	"log"
	"time"

	"github.com/go-co-op/gocron"
)

const (
	CatalogImportJob = "catalog-import"
	CoverCacheJob    = "cover-cache-reset"
)

// StartJobs starts the background job scheduler. The caller owns the
// returned scheduler and should Stop it on shutdown.
func StartJobs(app JobContext) *gocron.Scheduler {
	s := gocron.NewScheduler(time.UTC)
	s.SingletonModeAll()

	startCatalogImportJob(s, app)

	log.Println("Starting background job scheduler...")
	s.StartAsync()
	return s
}

func startCatalogImportJob(s *gocron.Scheduler, app JobContext) {
	interval := app.Config().Catalog.ReimportInterval
	if interval <= 0 {
		log.Println("Catalog re-import interval is 0, scheduled import is disabled.")
		return
	}

	jobId := CatalogImportJob
	log.Printf("Scheduling job: '%s' to run every %d minutes.", jobId, interval)

	_, err := s.Every(interval).Minutes().WaitForSchedule().Do(func() {
		log.Println("Scheduler is triggering job:", jobId)
		// Submit the job to the manager instead of running it directly.
		// This prevents conflicts with manually triggered jobs.
		err := app.JobManager().RunJob(jobId, app)
		if err != nil {
			log.Printf("Scheduled job '%s' could not start: %v", jobId, err)
		}
	})
	if err != nil {
		log.Printf("Error scheduling '%s' job: %v", jobId, err)
	}
}
