// This file contains the job tasks that keep the in-memory catalog in sync
// with the metadata file and the covers folder.

package library

import (
	"context"
	"errors"
	"fmt"
	"log"

	"github.com/vrsandeep/novelshelf/internal/importer"
	"github.com/vrsandeep/novelshelf/internal/jobs"
)

// RegisterJobs registers the catalog jobs with the manager.
func RegisterJobs(jm *jobs.JobManager) {
	jm.Register(jobs.CatalogImportJob, "Catalog Import", ImportCatalog)
	jm.Register(jobs.CoverCacheJob, "Cover Cache Reset", ResetCoverCache)
}

// ImportCatalog re-imports the configured metadata file and waits for the
// import to end.
func ImportCatalog(ctx jobs.JobContext) error {
	path := ctx.Config().Catalog.SourcePath
	in := ctx.Ingester()
	if err := in.Start(path); err != nil {
		return err
	}
	if err := in.Wait(context.Background()); err != nil {
		return err
	}

	stats := in.Stats()
	if stats.State == importer.StateFailed {
		return errors.New(stats.Message)
	}
	log.Printf("Catalog import of %s complete: %d novels, %d bad lines", path, stats.Imported, stats.Errors)
	return nil
}

// ResetCoverCache forgets cached cover lookups so new or removed cover
// files are noticed.
func ResetCoverCache(ctx jobs.JobContext) error {
	covers := ctx.Covers()
	if covers == nil {
		return fmt.Errorf("cover resolver is not configured")
	}
	covers.Purge()
	log.Println("Cover cache cleared.")
	return nil
}
