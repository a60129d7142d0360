package integration

import (
	"encoding/json"
	"fmt"
	"net/http"
	"testing"
	"time"

	"workhub_backend/internal/models"
	chatmodels "workhub_backend/internal/models/chat"
	"workhub_backend/test/helpers"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type messagePayload struct {
	ID             uint   `json:"id"`
	ConversationID string `json:"conversation_id"`
	SentBy         uint   `json:"sent_by"`
	SentTo         uint   `json:"sent_to"`
	Body           string `json:"body"`
	IsRead         bool   `json:"is_read"`
}

func sendMessage(t *testing.T, ts *helpers.TestServer, from *helpers.AuthUser, to uint, jobID uint, body string) messagePayload {
	t.Helper()

	res, resBody := ts.SendRequest(t, http.MethodPost, "/api/v1/messages/create", from.Token, map[string]interface{}{
		"body":    body,
		"sent_to": to,
		"job_id":  jobID,
	})
	require.Equal(t, http.StatusCreated, res.StatusCode, resBody)

	var msg messagePayload
	require.NoError(t, json.Unmarshal([]byte(resBody), &msg))
	return msg
}

func TestConversations(t *testing.T) {
	ts := helpers.NewTestServer(t)
	defer ts.Close()

	client := helpers.RegisterUser(t, ts, "Chat Client", models.UserRoleClient)
	worker := helpers.RegisterUser(t, ts, "Chat Worker", models.UserRoleWorker)
	other := helpers.RegisterUser(t, ts, "Other Worker", models.UserRoleWorker)

	jobID := helpers.CreateJobViaAPI(t, ts, client, "Fix the fence")
	secondJobID := helpers.CreateJobViaAPI(t, ts, client, "Paint the fence")

	expectedConv := func(a, b, j uint) string {
		lo, hi := a, b
		if lo > hi {
			lo, hi = hi, lo
		}
		return fmt.Sprintf("u%du%dj%d", lo, hi, j)
	}

	t.Run("conversation id does not depend on direction", func(t *testing.T) {
		first := sendMessage(t, ts, worker, client.ID, jobID, "Is the job still open?")
		reply := sendMessage(t, ts, client, worker.ID, jobID, "It is, come take a look.")

		want := expectedConv(worker.ID, client.ID, jobID)
		assert.Equal(t, want, first.ConversationID)
		assert.Equal(t, want, reply.ConversationID)
	})

	t.Run("same job pair in another job is a separate conversation", func(t *testing.T) {
		msg := sendMessage(t, ts, worker, client.ID, secondJobID, "About the painting job")
		assert.Equal(t, expectedConv(worker.ID, client.ID, secondJobID), msg.ConversationID)
		assert.NotEqual(t, expectedConv(worker.ID, client.ID, jobID), msg.ConversationID)
	})

	t.Run("messaging yourself is a client error", func(t *testing.T) {
		res, _ := ts.SendRequest(t, http.MethodPost, "/api/v1/messages/create", worker.Token, map[string]interface{}{
			"body":    "hello me",
			"sent_to": worker.ID,
			"job_id":  jobID,
		})
		assert.Equal(t, http.StatusBadRequest, res.StatusCode)
	})

	t.Run("unknown recipient is a client error", func(t *testing.T) {
		res, _ := ts.SendRequest(t, http.MethodPost, "/api/v1/messages/create", worker.Token, map[string]interface{}{
			"body":    "anyone there?",
			"sent_to": 999999,
			"job_id":  jobID,
		})
		assert.Equal(t, http.StatusNotFound, res.StatusCode)
	})

	t.Run("conversation is newest first regardless of participant order", func(t *testing.T) {
		pathA := fmt.Sprintf("/api/v1/messages/conversation/%d/%d/%d", worker.ID, client.ID, jobID)
		pathB := fmt.Sprintf("/api/v1/messages/conversation/%d/%d/%d", client.ID, worker.ID, jobID)

		res, bodyA := ts.SendRequest(t, http.MethodGet, pathA, worker.Token, nil)
		require.Equal(t, http.StatusOK, res.StatusCode, bodyA)
		res, bodyB := ts.SendRequest(t, http.MethodGet, pathB, worker.Token, nil)
		require.Equal(t, http.StatusOK, res.StatusCode, bodyB)
		assert.JSONEq(t, bodyA, bodyB)

		var msgs []messagePayload
		require.NoError(t, json.Unmarshal([]byte(bodyA), &msgs))
		require.Len(t, msgs, 2)
		// Новые сверху
		assert.Equal(t, "It is, come take a look.", msgs[0].Body)
		assert.Equal(t, "Is the job still open?", msgs[1].Body)
	})

	t.Run("empty conversation is an empty list, not an error", func(t *testing.T) {
		path := fmt.Sprintf("/api/v1/messages/conversation/%d/%d/%d", other.ID, client.ID, jobID)
		res, body := ts.SendRequest(t, http.MethodGet, path, other.Token, nil)
		require.Equal(t, http.StatusOK, res.StatusCode, body)
		assert.JSONEq(t, "[]", body)
	})

	t.Run("all messages involving a user are chronological", func(t *testing.T) {
		path := fmt.Sprintf("/api/v1/messages/convo/%d", worker.ID)
		res, body := ts.SendRequest(t, http.MethodGet, path, worker.Token, nil)
		require.Equal(t, http.StatusOK, res.StatusCode, body)

		var msgs []messagePayload
		require.NoError(t, json.Unmarshal([]byte(body), &msgs))
		require.Len(t, msgs, 3)
		assert.Equal(t, "Is the job still open?", msgs[0].Body)
		assert.Equal(t, "It is, come take a look.", msgs[1].Body)
		assert.Equal(t, "About the painting job", msgs[2].Body)
	})

	t.Run("previews show the last message of each conversation", func(t *testing.T) {
		path := fmt.Sprintf("/api/v1/messages/conversations/%d", worker.ID)
		res, body := ts.SendRequest(t, http.MethodGet, path, worker.Token, nil)
		require.Equal(t, http.StatusOK, res.StatusCode, body)

		var previews []struct {
			messagePayload
			UnreadCount int64 `json:"unread_count"`
		}
		require.NoError(t, json.Unmarshal([]byte(body), &previews))
		require.Len(t, previews, 2)

		byConv := map[string]string{}
		for _, p := range previews {
			byConv[p.ConversationID] = p.Body
		}
		assert.Equal(t, "It is, come take a look.", byConv[expectedConv(worker.ID, client.ID, jobID)])
		assert.Equal(t, "About the painting job", byConv[expectedConv(worker.ID, client.ID, secondJobID)])
	})

	t.Run("another user's feed is forbidden", func(t *testing.T) {
		path := fmt.Sprintf("/api/v1/messages/convo/%d", worker.ID)
		res, _ := ts.SendRequest(t, http.MethodGet, path, other.Token, nil)
		assert.Equal(t, http.StatusForbidden, res.StatusCode)
	})

	t.Run("another pair's conversation is forbidden", func(t *testing.T) {
		path := fmt.Sprintf("/api/v1/messages/conversation/%d/%d/%d", worker.ID, client.ID, jobID)
		res, _ := ts.SendRequest(t, http.MethodGet, path, other.Token, nil)
		assert.Equal(t, http.StatusForbidden, res.StatusCode)
	})
}

func TestMarkConversationRead(t *testing.T) {
	ts := helpers.NewTestServer(t)
	defer ts.Close()

	client := helpers.RegisterUser(t, ts, "Inbox Client", models.UserRoleClient)
	worker := helpers.RegisterUser(t, ts, "Inbox Worker", models.UserRoleWorker)
	outsider := helpers.RegisterUser(t, ts, "Inbox Outsider", models.UserRoleWorker)

	jobID := helpers.CreateJobViaAPI(t, ts, client, "Move boxes")
	sendMessage(t, ts, worker, client.ID, jobID, "I can start tomorrow")
	sendMessage(t, ts, worker, client.ID, jobID, "Or tonight if needed")

	path := fmt.Sprintf("/api/v1/messages/conversation/%d/%d/%d/read", worker.ID, client.ID, jobID)

	t.Run("outsider cannot mark the conversation", func(t *testing.T) {
		res, _ := ts.SendRequest(t, http.MethodPut, path, outsider.Token, nil)
		assert.Equal(t, http.StatusForbidden, res.StatusCode)
	})

	t.Run("recipient marks all inbound messages", func(t *testing.T) {
		res, body := ts.SendRequest(t, http.MethodPut, path, client.Token, nil)
		require.Equal(t, http.StatusOK, res.StatusCode, body)

		var out struct {
			MarkedRead int64 `json:"marked_read"`
		}
		require.NoError(t, json.Unmarshal([]byte(body), &out))
		assert.EqualValues(t, 2, out.MarkedRead)
	})

	t.Run("repeat marking is a zero no-op", func(t *testing.T) {
		res, body := ts.SendRequest(t, http.MethodPut, path, client.Token, nil)
		require.Equal(t, http.StatusOK, res.StatusCode, body)

		var out struct {
			MarkedRead int64 `json:"marked_read"`
		}
		require.NoError(t, json.Unmarshal([]byte(body), &out))
		assert.EqualValues(t, 0, out.MarkedRead)
	})
}

// Два сообщения с одинаковым created_at не должны раздваивать переписку
// в ленте превью: побеждает большее id.
func TestConversationPreviewTieBreak(t *testing.T) {
	ts := helpers.NewTestServer(t)
	defer ts.Close()

	client := helpers.RegisterUser(t, ts, "Tie Client", models.UserRoleClient)
	worker := helpers.RegisterUser(t, ts, "Tie Worker", models.UserRoleWorker)
	jobID := helpers.CreateJobViaAPI(t, ts, client, "Hang shelves")

	conv, err := chatmodels.NewConversation(worker.ID, client.ID, jobID)
	require.NoError(t, err)
	require.NoError(t, ts.DB.Create(conv).Error)

	at := time.Now().UTC().Truncate(time.Second)
	earlier := &chatmodels.Message{
		ConversationID: conv.ID,
		SentBy:         worker.ID,
		SentTo:         client.ID,
		Body:           "same instant, lower id",
		CreatedAt:      at,
	}
	later := &chatmodels.Message{
		ConversationID: conv.ID,
		SentBy:         client.ID,
		SentTo:         worker.ID,
		Body:           "same instant, higher id",
		CreatedAt:      at,
	}
	require.NoError(t, ts.DB.Create(earlier).Error)
	require.NoError(t, ts.DB.Create(later).Error)

	path := fmt.Sprintf("/api/v1/messages/conversations/%d", worker.ID)
	res, body := ts.SendRequest(t, http.MethodGet, path, worker.Token, nil)
	require.Equal(t, http.StatusOK, res.StatusCode, body)

	var previews []messagePayload
	require.NoError(t, json.Unmarshal([]byte(body), &previews))
	require.Len(t, previews, 1)
	assert.Equal(t, "same instant, higher id", previews[0].Body)
}

func TestMessageReadStatus(t *testing.T) {
	ts := helpers.NewTestServer(t)
	defer ts.Close()

	client := helpers.RegisterUser(t, ts, "Read Client", models.UserRoleClient)
	worker := helpers.RegisterUser(t, ts, "Read Worker", models.UserRoleWorker)
	outsider := helpers.RegisterUser(t, ts, "Outsider", models.UserRoleWorker)

	jobID := helpers.CreateJobViaAPI(t, ts, client, "Assemble furniture")
	msg := sendMessage(t, ts, worker, client.ID, jobID, "When can I start?")
	require.False(t, msg.IsRead)

	markRead := func(token string) (*http.Response, string) {
		return ts.SendRequest(t, http.MethodPut, fmt.Sprintf("/api/v1/messages/update/%d", msg.ID), token, map[string]interface{}{
			"message": map[string]interface{}{"is_read": true},
		})
	}

	t.Run("recipient marks the message read", func(t *testing.T) {
		res, body := markRead(client.Token)
		require.Equal(t, http.StatusOK, res.StatusCode, body)

		var updated messagePayload
		require.NoError(t, json.Unmarshal([]byte(body), &updated))
		assert.True(t, updated.IsRead)
	})

	t.Run("marking read twice is idempotent", func(t *testing.T) {
		res, body := markRead(client.Token)
		require.Equal(t, http.StatusOK, res.StatusCode, body)

		var updated messagePayload
		require.NoError(t, json.Unmarshal([]byte(body), &updated))
		assert.True(t, updated.IsRead)
	})

	t.Run("outsider cannot touch the flag", func(t *testing.T) {
		res, _ := markRead(outsider.Token)
		assert.Equal(t, http.StatusForbidden, res.StatusCode)
	})

	t.Run("body without is_read is a client error", func(t *testing.T) {
		res, _ := ts.SendRequest(t, http.MethodPut, fmt.Sprintf("/api/v1/messages/update/%d", msg.ID), client.Token, map[string]interface{}{
			"message": map[string]interface{}{},
		})
		assert.Equal(t, http.StatusBadRequest, res.StatusCode)
	})

	t.Run("missing message is not found", func(t *testing.T) {
		res, _ := ts.SendRequest(t, http.MethodGet, "/api/v1/messages/999999", client.Token, nil)
		assert.Equal(t, http.StatusNotFound, res.StatusCode)
	})
}
