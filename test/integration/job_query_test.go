package integration

import (
	"encoding/json"
	"fmt"
	"net/http"
	"testing"

	"workhub_backend/internal/models"
	"workhub_backend/test/helpers"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestJobFilterAndPatch(t *testing.T) {
	ts := helpers.NewTestServer(t)
	defer ts.Close()

	client := helpers.RegisterUser(t, ts, "Query Client", models.UserRoleClient)
	worker := helpers.RegisterUser(t, ts, "Query Worker", models.UserRoleWorker)

	jobID := helpers.CreateJobViaAPI(t, ts, client, "Mow the lawn")
	helpers.CreateJobViaAPI(t, ts, client, "Walk the dog")

	t.Run("filter without predicates is a client error", func(t *testing.T) {
		res, _ := ts.SendRequest(t, http.MethodGet, "/api/v1/jobs/filter", "", nil)
		assert.Equal(t, http.StatusBadRequest, res.StatusCode)
	})

	t.Run("unknown filter key is a client error", func(t *testing.T) {
		res, _ := ts.SendRequest(t, http.MethodGet, "/api/v1/jobs/filter?salary=1000", "", nil)
		assert.Equal(t, http.StatusBadRequest, res.StatusCode)
	})

	t.Run("filter matches on equality", func(t *testing.T) {
		res, body := ts.SendRequest(t, http.MethodGet, "/api/v1/jobs/filter?title=Mow+the+lawn", "", nil)
		require.Equal(t, http.StatusOK, res.StatusCode, body)

		var jobs []struct {
			ID    uint   `json:"id"`
			Title string `json:"title"`
		}
		require.NoError(t, json.Unmarshal([]byte(body), &jobs))
		require.Len(t, jobs, 1)
		assert.Equal(t, jobID, jobs[0].ID)
	})

	t.Run("filter by poster and status", func(t *testing.T) {
		path := fmt.Sprintf("/api/v1/jobs/filter?posted_by=%d&status=pending", client.ID)
		res, body := ts.SendRequest(t, http.MethodGet, path, "", nil)
		require.Equal(t, http.StatusOK, res.StatusCode, body)

		var jobs []json.RawMessage
		require.NoError(t, json.Unmarshal([]byte(body), &jobs))
		assert.Len(t, jobs, 2)
	})

	t.Run("worker cannot create jobs", func(t *testing.T) {
		res, _ := ts.SendRequest(t, http.MethodPost, "/api/v1/jobs/create", worker.Token, map[string]interface{}{
			"title": "Workers cannot post",
		})
		assert.Equal(t, http.StatusForbidden, res.StatusCode)
	})

	updatePath := fmt.Sprintf("/api/v1/jobs/update/%d", jobID)

	t.Run("patch echoes only the supplied fields", func(t *testing.T) {
		res, body := ts.SendRequest(t, http.MethodPatch, updatePath, client.Token, map[string]interface{}{
			"title": "Mow the lawn, carefully",
			"city":  "Astana",
		})
		require.Equal(t, http.StatusOK, res.StatusCode, body)

		var echo map[string]interface{}
		require.NoError(t, json.Unmarshal([]byte(body), &echo))
		assert.Len(t, echo, 2)
		assert.Equal(t, "Mow the lawn, carefully", echo["title"])
		assert.Equal(t, "Astana", echo["city"])

		res, body = ts.SendRequest(t, http.MethodGet, fmt.Sprintf("/api/v1/jobs/%d", jobID), "", nil)
		require.Equal(t, http.StatusOK, res.StatusCode, body)
		var job struct {
			Title string `json:"title"`
			City  string `json:"city"`
		}
		require.NoError(t, json.Unmarshal([]byte(body), &job))
		assert.Equal(t, "Mow the lawn, carefully", job.Title)
		assert.Equal(t, "Astana", job.City)
	})

	t.Run("empty patch is a client error", func(t *testing.T) {
		res, _ := ts.SendRequest(t, http.MethodPatch, updatePath, client.Token, map[string]interface{}{})
		assert.Equal(t, http.StatusBadRequest, res.StatusCode)
	})

	t.Run("immutable column is a client error", func(t *testing.T) {
		res, _ := ts.SendRequest(t, http.MethodPatch, updatePath, client.Token, map[string]interface{}{
			"status": "complete",
		})
		assert.Equal(t, http.StatusBadRequest, res.StatusCode)
	})

	t.Run("only the poster can patch", func(t *testing.T) {
		res, _ := ts.SendRequest(t, http.MethodPatch, updatePath, worker.Token, map[string]interface{}{
			"title": "hijacked",
		})
		assert.Equal(t, http.StatusForbidden, res.StatusCode)
	})

	t.Run("remove deletes the job and its applications", func(t *testing.T) {
		helpers.ApplyToJob(t, ts, worker, jobID)

		res, _ := ts.SendRequest(t, http.MethodDelete, fmt.Sprintf("/api/v1/jobs/remove/%d", jobID), client.Token, nil)
		require.Equal(t, http.StatusOK, res.StatusCode)

		res, _ = ts.SendRequest(t, http.MethodGet, fmt.Sprintf("/api/v1/jobs/%d", jobID), "", nil)
		assert.Equal(t, http.StatusNotFound, res.StatusCode)

		var count int64
		require.NoError(t, ts.DB.Model(&models.Application{}).Where("applied_to = ?", jobID).Count(&count).Error)
		assert.Zero(t, count)
	})
}
