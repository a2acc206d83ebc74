package api_test

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/vrsandeep/novelshelf/internal/api"
	"github.com/vrsandeep/novelshelf/internal/core"
	"github.com/vrsandeep/novelshelf/internal/testutil"
)

func apiRouter(app *core.App) http.Handler {
	return api.NewServer(app).Router()
}

func TestHealthAndVersion(t *testing.T) {
	server, app := testutil.SetupTestServer(t)
	app.Version = "test"
	router := server.Router()

	rr := doRequest(t, router, "GET", "/api/health", "")
	assert.Equal(t, http.StatusOK, rr.Code)

	rr = doRequest(t, router, "GET", "/api/version", "")
	assert.Equal(t, http.StatusOK, rr.Code)
	assert.JSONEq(t, `{"version":"test"}`, rr.Body.String())
}

func TestJobsEndpoints(t *testing.T) {
	server, _ := testutil.SetupTestServer(t)
	router := server.Router()

	rr := doRequest(t, router, "GET", "/api/jobs/status", "")
	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Contains(t, rr.Body.String(), "catalog-import")

	rr = doRequest(t, router, "POST", "/api/jobs/run", `{"job_id":"cover-cache-reset"}`)
	assert.Equal(t, http.StatusAccepted, rr.Code)

	rr = doRequest(t, router, "POST", "/api/jobs/run", `{"job_id":"nope"}`)
	assert.Equal(t, http.StatusConflict, rr.Code)

	rr = doRequest(t, router, "POST", "/api/jobs/run", `not json`)
	assert.Equal(t, http.StatusBadRequest, rr.Code)
}
