package api

import (
	"fmt"
	"net/http"
	"os"

	"github.com/vrsandeep/novelshelf/internal/importer"
	"github.com/vrsandeep/novelshelf/internal/jobs"
	"github.com/vrsandeep/novelshelf/internal/view"
)

// handleStartImport re-imports the configured metadata file through the
// job manager. The import runs in the background; progress is pushed over
// the websocket.
func (s *Server) handleStartImport(w http.ResponseWriter, r *http.Request) {
	path := s.app.Config().Catalog.SourcePath
	if info, err := os.Stat(path); err != nil || !info.Mode().IsRegular() {
		RespondWithError(w, http.StatusNotFound, fmt.Sprintf("%v: %s", importer.ErrSourceNotFound, path))
		return
	}
	if s.app.Ingester().State() == importer.StateImporting {
		RespondWithError(w, http.StatusConflict, importer.ErrAlreadyImporting.Error())
		return
	}
	if err := s.app.JobManager().RunJob(jobs.CatalogImportJob, s.app); err != nil {
		RespondWithError(w, http.StatusConflict, err.Error())
		return
	}

	RespondWithJSON(w, http.StatusAccepted, map[string]string{
		"message": "Import of " + path + " started.",
		"job_id":  jobs.CatalogImportJob,
	})
}

type importStatus struct {
	Import  importer.Stats `json:"import"`
	Session view.Status    `json:"session"`
}

func (s *Server) handleImportStatus(w http.ResponseWriter, r *http.Request) {
	RespondWithJSON(w, http.StatusOK, importStatus{
		Import:  s.app.Ingester().Stats(),
		Session: s.app.Session().Status(),
	})
}
