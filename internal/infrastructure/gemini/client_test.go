package gemini

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/planora/backend/domain"
)

func testClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	client := NewClient("test-key", 5*time.Second)
	client.baseURL = server.URL
	return client
}

func candidateResponse(text string) []byte {
	payload := map[string]interface{}{
		"candidates": []map[string]interface{}{
			{
				"content": map[string]interface{}{
					"parts": []map[string]string{{"text": text}},
				},
			},
		},
	}
	out, _ := json.Marshal(payload)
	return out
}

func TestSuggestTasksSuccess(t *testing.T) {
	var gotPath, gotKey string
	var gotBody generateRequest

	client := testClient(t, func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotKey = r.Header.Get("x-goog-api-key")
		require.NoError(t, json.NewDecoder(r.Body).Decode(&gotBody))

		w.Write(candidateResponse(`[
			{"title":"Review lecture notes","description":"Chapter 4","category":"Study","priority":"High"},
			{"title":"Go for a 20 minute walk","category":"Health","priority":"Medium"},
			{"title":"Call grandma","category":"Personal","priority":"Low"}
		]`))
	})

	drafts, err := client.SuggestTasks(context.Background())
	require.NoError(t, err)
	require.Len(t, drafts, 3)

	assert.Equal(t, "/models/gemini-2.5-flash:generateContent", gotPath)
	assert.Equal(t, "test-key", gotKey)
	assert.Equal(t, "application/json", gotBody.GenerationConfig.ResponseMimeType)

	assert.Equal(t, "Review lecture notes", drafts[0].Title)
	assert.Equal(t, domain.CategoryStudy, drafts[0].Category)
	assert.Equal(t, domain.PriorityHigh, drafts[0].Priority)
	assert.True(t, drafts[1].DueDate.IsZero(), "drafts carry no due date of their own")
}

func TestSuggestTasksRejectsUnknownEnum(t *testing.T) {
	client := testClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write(candidateResponse(`[
			{"title":"ok","category":"Study","priority":"High"},
			{"title":"bad","category":"Chores","priority":"High"}
		]`))
	})

	drafts, err := client.SuggestTasks(context.Background())
	assert.Nil(t, drafts, "one bad entry fails the whole batch")
	assert.True(t, domain.IsDomainError(err, domain.ErrCodeUpstream))
}

func TestSuggestTasksRejectsMissingTitle(t *testing.T) {
	client := testClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write(candidateResponse(`[{"category":"Study","priority":"High"}]`))
	})

	_, err := client.SuggestTasks(context.Background())
	assert.True(t, domain.IsDomainError(err, domain.ErrCodeUpstream))
}

func TestSuggestTasksRejectsEmptyBatch(t *testing.T) {
	client := testClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write(candidateResponse(`[]`))
	})

	_, err := client.SuggestTasks(context.Background())
	assert.True(t, domain.IsDomainError(err, domain.ErrCodeUpstream))
}

func TestSuggestTasksAPIError(t *testing.T) {
	var calls int
	client := testClient(t, func(w http.ResponseWriter, r *http.Request) {
		calls++
		w.WriteHeader(http.StatusTooManyRequests)
		w.Write([]byte(`{"error":{"code":429,"message":"quota exhausted","status":"RESOURCE_EXHAUSTED"}}`))
	})

	_, err := client.SuggestTasks(context.Background())
	require.Error(t, err)
	assert.True(t, domain.IsDomainError(err, domain.ErrCodeUpstream))
	assert.Contains(t, err.Error(), "quota exhausted")
	assert.Equal(t, 1, calls, "failures are not retried")
}

func TestSuggestTasksMalformedCandidate(t *testing.T) {
	client := testClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write(candidateResponse(`not json at all`))
	})

	_, err := client.SuggestTasks(context.Background())
	assert.True(t, domain.IsDomainError(err, domain.ErrCodeUpstream))
}

func TestSuggestTasksMissingAPIKey(t *testing.T) {
	client := NewClient("", time.Second)
	_, err := client.SuggestTasks(context.Background())
	assert.True(t, domain.IsDomainError(err, domain.ErrCodeUpstream))
}
