package api_test

import (
	"encoding/json"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vrsandeep/novelshelf/internal/testutil"
)

func TestCategoryHandlers(t *testing.T) {
	server, app := testutil.SetupTestServer(t)
	router := server.Router()
	testutil.ImportCatalog(t, app, sampleLines...)

	var created struct {
		ID   int64  `json:"id"`
		Name string `json:"name"`
	}

	t.Run("Create", func(t *testing.T) {
		rr := doRequest(t, router, "POST", "/api/categories", `{"name":"To Read"}`)
		require.Equal(t, http.StatusCreated, rr.Code, rr.Body.String())
		require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &created))
		assert.Equal(t, "To Read", created.Name)

		rr = doRequest(t, router, "POST", "/api/categories", `{"name":"to read"}`)
		assert.Equal(t, http.StatusConflict, rr.Code)
		rr = doRequest(t, router, "POST", "/api/categories", `{"name":""}`)
		assert.Equal(t, http.StatusBadRequest, rr.Code)
	})

	base := "/api/categories/" + itoa(created.ID)

	t.Run("Add novels and list them", func(t *testing.T) {
		rr := doRequest(t, router, "POST", base+"/novels", `{"novel_ids":["2","gone","1"]}`)
		require.Equal(t, http.StatusNoContent, rr.Code, rr.Body.String())

		rr = doRequest(t, router, "GET", base+"/novels", "")
		require.Equal(t, http.StatusOK, rr.Code)
		var novels []struct {
			ID string `json:"id"`
		}
		require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &novels))
		require.Len(t, novels, 2, "ids missing from the catalog are skipped")

		rr = doRequest(t, router, "GET", "/api/novels/2", "")
		assert.Contains(t, rr.Body.String(), `"categories":["To Read"]`)
	})

	t.Run("Rename, remove and delete", func(t *testing.T) {
		rr := doRequest(t, router, "PUT", base, `{"name":"Reading"}`)
		assert.Equal(t, http.StatusNoContent, rr.Code)

		rr = doRequest(t, router, "DELETE", base+"/novels/2", "")
		assert.Equal(t, http.StatusNoContent, rr.Code)

		rr = doRequest(t, router, "GET", base, "")
		require.Equal(t, http.StatusOK, rr.Code)
		var cat struct {
			Name     string   `json:"name"`
			NovelIDs []string `json:"novel_ids"`
		}
		require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &cat))
		assert.Equal(t, "Reading", cat.Name)
		assert.ElementsMatch(t, []string{"gone", "1"}, cat.NovelIDs)

		rr = doRequest(t, router, "GET", "/api/categories", "")
		assert.Equal(t, http.StatusOK, rr.Code)
		assert.Contains(t, rr.Body.String(), "Reading")

		rr = doRequest(t, router, "DELETE", base, "")
		assert.Equal(t, http.StatusNoContent, rr.Code)
		rr = doRequest(t, router, "GET", base, "")
		assert.Equal(t, http.StatusNotFound, rr.Code)
	})

	t.Run("Bad ids", func(t *testing.T) {
		rr := doRequest(t, router, "GET", "/api/categories/abc", "")
		assert.Equal(t, http.StatusBadRequest, rr.Code)
		rr = doRequest(t, router, "POST", "/api/categories/999/novels", `{"novel_ids":["1"]}`)
		assert.Equal(t, http.StatusNotFound, rr.Code)
	})
}
