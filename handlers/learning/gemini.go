package learning

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"time"

	"github.com/7ever/Nerdo.Africa/utils"
)

// GeminiClient calls the generative text API that produces roadmap
// phase lists.
type GeminiClient struct {
	APIKey string
	Model  string

	// BaseURL is a field so tests can point the client at a stub server.
	BaseURL    string
	HTTPClient *http.Client
}

func NewGeminiClient() *GeminiClient {
	baseURL := os.Getenv("GEMINI_BASE_URL")
	if baseURL == "" {
		baseURL = "https://generativelanguage.googleapis.com"
	}
	model := os.Getenv("GEMINI_MODEL")
	if model == "" {
		model = "gemini-1.5-flash"
	}
	return &GeminiClient{
		APIKey:     os.Getenv("GEMINI_API_KEY"),
		Model:      model,
		BaseURL:    baseURL,
		HTTPClient: &http.Client{Timeout: 30 * time.Second},
	}
}

type geminiRequest struct {
	Contents []geminiContent `json:"contents"`
}

type geminiContent struct {
	Parts []geminiPart `json:"parts"`
}

type geminiPart struct {
	Text string `json:"text"`
}

type geminiResponse struct {
	Candidates []struct {
		Content geminiContent `json:"content"`
	} `json:"candidates"`
}

// GenerateText sends one prompt and returns the first candidate's text.
func (g *GeminiClient) GenerateText(prompt string) (string, error) {
	payload := geminiRequest{
		Contents: []geminiContent{{Parts: []geminiPart{{Text: prompt}}}},
	}
	body, err := json.Marshal(payload)
	if err != nil {
		return "", err
	}

	endpoint := fmt.Sprintf("%s/v1beta/models/%s:generateContent?key=%s", g.BaseURL, g.Model, g.APIKey)
	resp, err := g.HTTPClient.Post(endpoint, "application/json", bytes.NewBuffer(body))
	if err != nil {
		return "", utils.NewExternalError("gemini", utils.KindTransient, err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusOK:
	case resp.StatusCode == http.StatusTooManyRequests || resp.StatusCode >= 500:
		return "", utils.NewExternalError("gemini", utils.KindTransient,
			fmt.Errorf("status %d", resp.StatusCode))
	default:
		return "", utils.NewExternalError("gemini", utils.KindPermanent,
			fmt.Errorf("status %d", resp.StatusCode))
	}

	var parsed geminiResponse
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return "", err
	}
	if len(parsed.Candidates) == 0 || len(parsed.Candidates[0].Content.Parts) == 0 {
		return "", utils.NewExternalError("gemini", utils.KindPermanent,
			fmt.Errorf("response carried no candidates"))
	}
	return parsed.Candidates[0].Content.Parts[0].Text, nil
}
