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

type jobPayload struct {
	ID         uint     `json:"id"`
	Title      string   `json:"title"`
	Status     string   `json:"status"`
	PostedBy   uint     `json:"posted_by"`
	AssignedTo *uint    `json:"assigned_to"`
	StartTime  *string  `json:"start_time"`
	EndTime    *string  `json:"end_time"`
	PaymentDue *float64 `json:"payment_due"`
}

func TestJobLifecycle(t *testing.T) {
	ts := helpers.NewTestServer(t)
	defer ts.Close()

	client := helpers.RegisterUser(t, ts, "Lifecycle Client", models.UserRoleClient)
	worker := helpers.RegisterUser(t, ts, "Lifecycle Worker", models.UserRoleWorker)

	jobID := helpers.CreateJobViaAPI(t, ts, client, "Deep clean apartment")

	t.Run("new job is pending", func(t *testing.T) {
		res, body := ts.SendRequest(t, http.MethodGet, fmt.Sprintf("/api/v1/jobs/%d", jobID), "", nil)
		require.Equal(t, http.StatusOK, res.StatusCode, body)

		var job jobPayload
		require.NoError(t, json.Unmarshal([]byte(body), &job))
		assert.Equal(t, "pending", job.Status)
		assert.Equal(t, client.ID, job.PostedBy)
		assert.Nil(t, job.AssignedTo)
	})

	t.Run("start before assign is rejected", func(t *testing.T) {
		res, _ := ts.SendRequest(t, http.MethodPost, fmt.Sprintf("/api/v1/jobs/%d/start", jobID), worker.Token, nil)
		// Исполнитель еще не назначен
		assert.Equal(t, http.StatusForbidden, res.StatusCode)
	})

	helpers.ApplyToJob(t, ts, worker, jobID)

	t.Run("duplicate application conflicts", func(t *testing.T) {
		res, _ := ts.SendRequest(t, http.MethodPost, fmt.Sprintf("/api/v1/jobs/%d/apply", jobID), worker.Token, nil)
		assert.Equal(t, http.StatusConflict, res.StatusCode)
	})

	t.Run("only the poster can assign", func(t *testing.T) {
		res, _ := ts.SendRequest(t, http.MethodPost, fmt.Sprintf("/api/v1/jobs/%d/assign", jobID), worker.Token, map[string]interface{}{
			"worker_id": worker.ID,
		})
		assert.Equal(t, http.StatusForbidden, res.StatusCode)
	})

	helpers.AssignWorker(t, ts, client, jobID, worker.ID)

	t.Run("assign sets status and worker", func(t *testing.T) {
		res, body := ts.SendRequest(t, http.MethodGet, fmt.Sprintf("/api/v1/jobs/%d", jobID), "", nil)
		require.Equal(t, http.StatusOK, res.StatusCode, body)

		var job jobPayload
		require.NoError(t, json.Unmarshal([]byte(body), &job))
		assert.Equal(t, "active", job.Status)
		require.NotNil(t, job.AssignedTo)
		assert.Equal(t, worker.ID, *job.AssignedTo)
	})

	t.Run("assign delivers an auto-message", func(t *testing.T) {
		path := fmt.Sprintf("/api/v1/messages/conversation/%d/%d/%d", client.ID, worker.ID, jobID)
		res, body := ts.SendRequest(t, http.MethodGet, path, worker.Token, nil)
		require.Equal(t, http.StatusOK, res.StatusCode, body)

		var msgs []struct {
			ConversationID string `json:"conversation_id"`
			SentBy         uint   `json:"sent_by"`
			Body           string `json:"body"`
		}
		require.NoError(t, json.Unmarshal([]byte(body), &msgs))
		require.Len(t, msgs, 1)
		assert.Equal(t, client.ID, msgs[0].SentBy)
		assert.Contains(t, msgs[0].Body, "You have been assigned to")
	})

	t.Run("second assign is an invalid transition", func(t *testing.T) {
		res, _ := ts.SendRequest(t, http.MethodPost, fmt.Sprintf("/api/v1/jobs/%d/assign", jobID), client.Token, map[string]interface{}{
			"worker_id": worker.ID,
		})
		assert.Equal(t, http.StatusConflict, res.StatusCode)
	})

	t.Run("only the assigned worker can start", func(t *testing.T) {
		res, _ := ts.SendRequest(t, http.MethodPost, fmt.Sprintf("/api/v1/jobs/%d/start", jobID), client.Token, nil)
		assert.Equal(t, http.StatusForbidden, res.StatusCode)
	})

	t.Run("start stamps the clock", func(t *testing.T) {
		res, body := ts.SendRequest(t, http.MethodPost, fmt.Sprintf("/api/v1/jobs/%d/start", jobID), worker.Token, nil)
		require.Equal(t, http.StatusOK, res.StatusCode, body)

		var job jobPayload
		require.NoError(t, json.Unmarshal([]byte(body), &job))
		assert.Equal(t, "in progress", job.Status)
		assert.NotNil(t, job.StartTime)
	})

	t.Run("finish computes payment", func(t *testing.T) {
		res, body := ts.SendRequest(t, http.MethodPost, fmt.Sprintf("/api/v1/jobs/%d/finish", jobID), worker.Token, map[string]interface{}{
			"after_image_url": "https://files.test.local/after.jpg",
		})
		require.Equal(t, http.StatusOK, res.StatusCode, body)

		var job jobPayload
		require.NoError(t, json.Unmarshal([]byte(body), &job))
		assert.Equal(t, "pending review", job.Status)
		assert.NotNil(t, job.EndTime)
		require.NotNil(t, job.PaymentDue)
		assert.GreaterOrEqual(t, *job.PaymentDue, 0.0)
	})

	t.Run("complete closes the job with review and payout", func(t *testing.T) {
		res, body := ts.SendRequest(t, http.MethodPost, fmt.Sprintf("/api/v1/jobs/%d/complete", jobID), client.Token, map[string]interface{}{
			"tip": 500.0,
			"review": map[string]interface{}{
				"title": "Great work",
				"body":  "Spotless.",
				"stars": 5,
			},
		})
		require.Equal(t, http.StatusOK, res.StatusCode, body)

		var result struct {
			Job    jobPayload `json:"job"`
			Review *struct {
				Stars       float64 `json:"stars"`
				ReviewedFor uint    `json:"reviewed_for"`
			} `json:"review"`
			Payout *struct {
				TransTo uint   `json:"trans_to"`
				Tip     string `json:"tip"`
				Total   string `json:"total"`
			} `json:"payout"`
		}
		require.NoError(t, json.Unmarshal([]byte(body), &result))
		assert.Equal(t, "complete", result.Job.Status)
		require.NotNil(t, result.Review)
		assert.Equal(t, worker.ID, result.Review.ReviewedFor)
		assert.Equal(t, 5.0, result.Review.Stars)
		require.NotNil(t, result.Payout)
		assert.Equal(t, worker.ID, result.Payout.TransTo)
		assert.Equal(t, "500", result.Payout.Tip)
	})

	t.Run("worker rating reflects the review", func(t *testing.T) {
		res, body := ts.SendRequest(t, http.MethodGet, fmt.Sprintf("/api/v1/reviews/user/%d/rating", worker.ID), "", nil)
		require.Equal(t, http.StatusOK, res.StatusCode, body)

		var rating struct {
			Average float64 `json:"average"`
			Count   int64   `json:"count"`
		}
		require.NoError(t, json.Unmarshal([]byte(body), &rating))
		assert.Equal(t, 5.0, rating.Average)
		assert.Equal(t, int64(1), rating.Count)
	})

	t.Run("completed job cannot be removed", func(t *testing.T) {
		res, _ := ts.SendRequest(t, http.MethodDelete, fmt.Sprintf("/api/v1/jobs/remove/%d", jobID), client.Token, nil)
		assert.Equal(t, http.StatusConflict, res.StatusCode)
	})
}
