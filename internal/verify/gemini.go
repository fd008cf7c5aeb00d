package verify

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

const defaultBaseURL = "https://generativelanguage.googleapis.com/v1beta"

// Gemini verifies presence by asking a hosted vision model whether the
// claimed student is visible in a classroom photo. Constructed once at
// startup and injected into the pipeline.
type Gemini struct {
	APIKey  string
	Model   string
	BaseURL string
	HTTP    *http.Client
}

// NewGemini creates a Gemini-backed verifier with a hard request timeout.
func NewGemini(apiKey, model string, timeout time.Duration) *Gemini {
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &Gemini{
		APIKey:  apiKey,
		Model:   model,
		BaseURL: defaultBaseURL,
		HTTP:    &http.Client{Timeout: timeout},
	}
}

type generateRequest struct {
	Contents []content `json:"contents"`
}

type content struct {
	Parts []part `json:"parts"`
}

type part struct {
	Text       string      `json:"text,omitempty"`
	InlineData *inlineData `json:"inline_data,omitempty"`
}

type inlineData struct {
	MimeType string `json:"mime_type"`
	Data     string `json:"data"`
}

type generateResponse struct {
	Candidates []struct {
		Content struct {
			Parts []struct {
				Text string `json:"text"`
			} `json:"parts"`
		} `json:"content"`
	} `json:"candidates"`
}

// Verify sends the image and claimed name to the model and parses the
// verdict out of its reply. Any failure is returned as an error; the
// caller decides how to degrade.
func (g *Gemini) Verify(ctx context.Context, image []byte, claimedName string) (Verdict, error) {
	if g.APIKey == "" {
		return Verdict{}, fmt.Errorf("gemini api key not configured")
	}
	if len(image) == 0 {
		return Verdict{}, fmt.Errorf("image required")
	}

	prompt := fmt.Sprintf(`Analyze this classroom photo. Is student %q clearly visible and looking at the camera?
Return a JSON object with:
- verified: boolean
- confidence: number (0-1)
- message: string explanation
- detectedName: string (if you see other students, name them if labels are visible, otherwise null)

Only return the JSON object, no other text.`, claimedName)

	reqBody := generateRequest{
		Contents: []content{{
			Parts: []part{
				{InlineData: &inlineData{
					MimeType: "image/jpeg",
					Data:     base64.StdEncoding.EncodeToString(image),
				}},
				{Text: prompt},
			},
		}},
	}

	payload, err := json.Marshal(reqBody)
	if err != nil {
		return Verdict{}, err
	}

	url := fmt.Sprintf("%s/models/%s:generateContent?key=%s", g.BaseURL, g.Model, g.APIKey)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(payload))
	if err != nil {
		return Verdict{}, err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := g.HTTP.Do(req)
	if err != nil {
		return Verdict{}, fmt.Errorf("gemini request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		body, _ := io.ReadAll(resp.Body)
		return Verdict{}, fmt.Errorf("gemini error %s: %s", resp.Status, string(body))
	}

	var out generateResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return Verdict{}, fmt.Errorf("failed to decode gemini response: %w", err)
	}
	if len(out.Candidates) == 0 || len(out.Candidates[0].Content.Parts) == 0 {
		return Verdict{}, fmt.Errorf("gemini returned no candidates")
	}

	text := out.Candidates[0].Content.Parts[0].Text
	return parseVerdict(text)
}

// parseVerdict extracts the first JSON object from the model's reply.
// The model is asked for bare JSON but routinely wraps it in prose or
// markdown fences, so we cut from the first '{' to the last '}'.
func parseVerdict(text string) (Verdict, error) {
	start := strings.Index(text, "{")
	end := strings.LastIndex(text, "}")
	if start < 0 || end < start {
		return Verdict{}, fmt.Errorf("no JSON object in model response")
	}

	var v Verdict
	if err := json.Unmarshal([]byte(text[start:end+1]), &v); err != nil {
		return Verdict{}, fmt.Errorf("could not parse model response: %w", err)
	}
	if v.Message == "" {
		v.Message = "Analysis complete"
	}
	return v, nil
}
