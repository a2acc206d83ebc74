package api_test

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vrsandeep/novelshelf/internal/api"
	"github.com/vrsandeep/novelshelf/internal/jobs"
	"github.com/vrsandeep/novelshelf/internal/testutil"
)

func TestImportHandlers(t *testing.T) {
	server, app := testutil.SetupTestServer(t)
	router := server.Router()

	t.Run("Missing source file", func(t *testing.T) {
		rr := doRequest(t, router, "POST", "/api/import", "")
		assert.Equal(t, http.StatusNotFound, rr.Code)
	})

	t.Run("Import and status", func(t *testing.T) {
		data := ""
		for _, l := range sampleLines {
			data += l + "\n"
		}
		require.NoError(t, os.WriteFile(app.Config().Catalog.SourcePath, []byte(data), 0644))

		rr := doRequest(t, router, "POST", "/api/import", "")
		require.Equal(t, http.StatusAccepted, rr.Code, rr.Body.String())

		var status struct {
			Import struct {
				State    string `json:"state"`
				Imported int    `json:"imported"`
				Errors   int    `json:"errors"`
			} `json:"import"`
			Session struct {
				Message     string `json:"message"`
				Importing   bool   `json:"importing"`
				CatalogSize int    `json:"catalog_size"`
			} `json:"session"`
		}
		require.Eventually(t, func() bool {
			rr := doRequest(t, router, "GET", "/api/import/status", "")
			if rr.Code != http.StatusOK || json.Unmarshal(rr.Body.Bytes(), &status) != nil {
				return false
			}
			return status.Import.State == "finished" && !status.Session.Importing
		}, 5*time.Second, 10*time.Millisecond)

		assert.Equal(t, 3, status.Import.Imported)
		assert.Equal(t, 1, status.Import.Errors)
		assert.Equal(t, 3, status.Session.CatalogSize)
		assert.Equal(t, "Import complete! Total novels: 3", status.Session.Message)

		// API imports run as the catalog-import job.
		require.Eventually(t, func() bool {
			for _, js := range app.JobManager().GetStatus() {
				if js.ID == jobs.CatalogImportJob {
					return js.Status == "success"
				}
			}
			return false
		}, 5*time.Second, 10*time.Millisecond)
	})

	t.Run("Rejected while importing", func(t *testing.T) {
		pr, pw := io.Pipe()
		require.NoError(t, app.Ingester().StartReader("pipe", pr))

		rr := doRequest(t, router, "POST", "/api/import", "")
		assert.Equal(t, http.StatusConflict, rr.Code)
		assert.Contains(t, rr.Body.String(), "already in progress")

		pw.Close()
		require.NoError(t, app.Ingester().Wait(context.Background()))
	})

	t.Run("Directory source", func(t *testing.T) {
		cfg := testutil.TestConfig(t)
		cfg.Catalog.SourcePath = t.TempDir()
		dirServer := api.NewServer(testutil.SetupTestAppWithConfig(t, cfg))

		rr := doRequest(t, dirServer.Router(), "POST", "/api/import", "")
		assert.Equal(t, http.StatusNotFound, rr.Code)
	})
}
