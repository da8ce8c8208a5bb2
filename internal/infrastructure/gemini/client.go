package gemini

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/planora/backend/domain"
)

const (
	defaultBaseURL = "https://generativelanguage.googleapis.com/v1beta"
	defaultModel   = "gemini-2.5-flash"
)

// suggestionPrompt asks for the fixed starter batch: one Study, one Health
// and one Personal task, each with a description and a priority.
const suggestionPrompt = `You are an AI assistant for a student planner app.
Your goal is to help students stay organized and productive.
Suggest three distinct and useful tasks for a student for today.
One task should be for 'Study', one for 'Health', and one 'Personal'.
Provide a short, helpful description for each task.
Assign a relevant priority to each.
Provide the output in the specified JSON format.`

// Client performs the one-shot suggestion round trip against the Gemini
// generateContent API. It never retries: a failed or malformed response is a
// single reportable error and the caller's task store stays untouched.
type Client struct {
	apiKey  string
	baseURL string
	model   string
	client  *http.Client
}

type generateRequest struct {
	Contents         []content        `json:"contents"`
	GenerationConfig generationConfig `json:"generationConfig"`
}

type content struct {
	Parts []part `json:"parts"`
}

type part struct {
	Text string `json:"text"`
}

type generationConfig struct {
	ResponseMimeType string          `json:"responseMimeType"`
	ResponseSchema   json.RawMessage `json:"responseSchema"`
}

type generateResponse struct {
	Candidates []struct {
		Content struct {
			Parts []part `json:"parts"`
		} `json:"content"`
	} `json:"candidates"`
}

type apiError struct {
	Error struct {
		Code    int    `json:"code"`
		Message string `json:"message"`
		Status  string `json:"status"`
	} `json:"error"`
}

// suggestionSchema constrains the model output to an ordered array of task
// drafts with enum-checked category and priority.
var suggestionSchema = json.RawMessage(`{
  "type": "ARRAY",
  "items": {
    "type": "OBJECT",
    "properties": {
      "title": {"type": "STRING"},
      "description": {"type": "STRING"},
      "category": {"type": "STRING", "enum": ["Study", "Health", "Personal", "General"]},
      "priority": {"type": "STRING", "enum": ["High", "Medium", "Low"]}
    },
    "required": ["title", "category", "priority"]
  }
}`)

// NewClient creates a Gemini client.
func NewClient(apiKey string, timeout time.Duration) *Client {
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &Client{
		apiKey:  apiKey,
		baseURL: defaultBaseURL,
		model:   defaultModel,
		client:  &http.Client{Timeout: timeout},
	}
}

// SuggestTasks requests the starter batch and maps it into task drafts. The
// drafts come back without ids, completion state, or due dates; the caller
// stamps those before merging.
func (c *Client) SuggestTasks(ctx context.Context) ([]domain.TaskDraft, error) {
	if c.apiKey == "" {
		return nil, domain.WrapError(domain.ErrCodeUpstream, "task suggestion failed", fmt.Errorf("GEMINI_API_KEY not set"))
	}

	body, err := json.Marshal(generateRequest{
		Contents: []content{{Parts: []part{{Text: suggestionPrompt}}}},
		GenerationConfig: generationConfig{
			ResponseMimeType: "application/json",
			ResponseSchema:   suggestionSchema,
		},
	})
	if err != nil {
		return nil, err
	}

	url := fmt.Sprintf("%s/models/%s:generateContent", c.baseURL, c.model)
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("x-goog-api-key", c.apiKey)

	resp, err := c.client.Do(httpReq)
	if err != nil {
		return nil, domain.WrapError(domain.ErrCodeUpstream, "task suggestion failed", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, domain.WrapError(domain.ErrCodeUpstream, "task suggestion failed", err)
	}

	if resp.StatusCode != http.StatusOK {
		var apiErr apiError
		if json.Unmarshal(respBody, &apiErr) == nil && apiErr.Error.Message != "" {
			return nil, domain.WrapError(domain.ErrCodeUpstream, "task suggestion failed",
				fmt.Errorf("gemini API error (%d): %s", resp.StatusCode, apiErr.Error.Message))
		}
		return nil, domain.WrapError(domain.ErrCodeUpstream, "task suggestion failed",
			fmt.Errorf("gemini API error (%d)", resp.StatusCode))
	}

	var generated generateResponse
	if err := json.Unmarshal(respBody, &generated); err != nil {
		return nil, domain.WrapError(domain.ErrCodeUpstream, "task suggestion failed", err)
	}
	if len(generated.Candidates) == 0 || len(generated.Candidates[0].Content.Parts) == 0 {
		return nil, domain.WrapError(domain.ErrCodeUpstream, "task suggestion failed",
			fmt.Errorf("empty gemini response"))
	}

	return parseDrafts([]byte(generated.Candidates[0].Content.Parts[0].Text))
}

// parseDrafts enforces the response-shape contract: any missing required
// field or unknown enum value fails the whole batch, never a partial accept.
func parseDrafts(raw []byte) ([]domain.TaskDraft, error) {
	var drafts []domain.TaskDraft
	if err := json.Unmarshal(raw, &drafts); err != nil {
		return nil, domain.WrapError(domain.ErrCodeUpstream, "task suggestion failed", err)
	}
	if len(drafts) == 0 {
		return nil, domain.WrapError(domain.ErrCodeUpstream, "task suggestion failed",
			fmt.Errorf("no suggestions returned"))
	}
	for i, draft := range drafts {
		if err := draft.Validate(); err != nil {
			return nil, domain.WrapError(domain.ErrCodeUpstream, "task suggestion failed",
				fmt.Errorf("suggestion %d: %w", i, err))
		}
	}
	return drafts, nil
}
