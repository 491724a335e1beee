package advisor

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/fitlife-app/fitlife/internal/store"

	log "github.com/sirupsen/logrus"
)

// example API call
// https://generativelanguage.googleapis.com/v1beta/models/gemini-2.5-flash:generateContent

const (
	DefaultBaseURL = "https://generativelanguage.googleapis.com"
	DefaultModel   = "gemini-2.5-flash"

	// the upstream call gets a hard cap, a stuck generation request
	// must not hold the caller hostage
	requestTimeout = 30 * time.Second
)

// fixed degraded-output strings, returned instead of errors: a failed
// generation call never propagates as a fault to the caller
const (
	dietAdviceEmptyFallback = "Could not generate advice at this time."
	dietAdviceErrFallback   = "Sorry, there was an error connecting to the AI nutritionist. Please ensure your API key is valid."
	forumCommentFallback    = "Keep up the good work!"
	forumCommentErrFallback = "Great post!"
)

type Client struct {
	baseURL    string
	apiKey     string
	model      string
	httpClient *http.Client
}

func NewClient(baseURL, apiKey, model string, httpClient *http.Client) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	if model == "" {
		model = DefaultModel
	}
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	return &Client{
		baseURL:    baseURL,
		apiKey:     apiKey,
		model:      model,
		httpClient: httpClient,
	}
}

type generateContentRequest struct {
	Contents []requestContent `json:"contents"`
}

type requestContent struct {
	Parts []contentPart `json:"parts"`
}

type contentPart struct {
	Text string `json:"text"`
}

type generateContentResponse struct {
	Candidates []struct {
		Content struct {
			Parts []contentPart `json:"parts"`
		} `json:"content"`
	} `json:"candidates"`
}

// DietAdvice asks the model for a personalized plan based on the profile.
// On any failure it degrades to a fixed apology text, it never errors out.
func (c *Client) DietAdvice(ctx context.Context, user store.UserProfile) string {
	prompt := fmt.Sprintf(`Act as a professional nutritionist and fitness coach.
My profile is:
- Name: %s
- Age: %d
- Gender: %s
- Height: %g cm
- Weight: %g kg
- Activity Level: %s

1. Calculate my BMI and classify it (Underweight, Normal, Overweight, Obese).
2. Estimate my Daily Calorie Maintenance (TDEE).
3. Provide a specific, bulleted daily meal plan (Breakfast, Lunch, Dinner, Snack) tailored to my goal of maintaining a healthy lifestyle.
4. Give 3 specific health tips based on my stats.

Format the output in clear Markdown using headings (###) and bullet points. Keep it encouraging.`,
		user.Name, user.Age, user.Gender, user.Height, user.Weight, user.ActivityLevel,
	)

	advice, err := c.generate(ctx, prompt)
	if err != nil {
		log.Errorf("generate diet advice: %s", err)
		return dietAdviceErrFallback
	}
	if advice == "" {
		return dietAdviceEmptyFallback
	}
	return advice
}

// ForumComment asks the model for a short encouraging reply to a post.
// Same degradation policy as DietAdvice.
func (c *Client) ForumComment(ctx context.Context, postContent string) string {
	prompt := fmt.Sprintf(`You are a helpful fitness community moderator.
A user posted this in the forum: %q

Write a short, encouraging, and helpful comment (under 50 words) in response to this post.`,
		postContent,
	)

	comment, err := c.generate(ctx, prompt)
	if err != nil {
		log.Errorf("generate forum comment: %s", err)
		return forumCommentErrFallback
	}
	if comment == "" {
		return forumCommentFallback
	}
	return comment
}

func (c *Client) generate(ctx context.Context, prompt string) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, requestTimeout)
	defer cancel()

	reqBody := generateContentRequest{
		Contents: []requestContent{
			{Parts: []contentPart{{Text: prompt}}},
		},
	}
	reqBytes, err := json.Marshal(reqBody)
	if err != nil {
		return "", fmt.Errorf("marshal generate request: %w", err)
	}

	generateUrl := fmt.Sprintf("%s/v1beta/models/%s:generateContent", c.baseURL, c.model)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, generateUrl, bytes.NewReader(reqBytes))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("x-goog-api-key", c.apiKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("http client do: %w", err)
	}
	defer resp.Body.Close()

	respBytes, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("read generate response bytes: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("generate call status [%d]: %s", resp.StatusCode, respBytes)
	}

	var generateResp generateContentResponse
	if err := json.Unmarshal(respBytes, &generateResp); err != nil {
		return "", fmt.Errorf("unmarshal generate response bytes: %w", err)
	}

	if len(generateResp.Candidates) == 0 {
		return "", nil
	}

	var text string
	for _, part := range generateResp.Candidates[0].Content.Parts {
		text += part.Text
	}
	return text, nil
}
