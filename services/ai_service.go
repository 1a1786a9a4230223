package services

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/citigov/smartcity/config"
	"github.com/citigov/smartcity/models"
)

const (
	visionModel    = "gemini-3-pro-preview"
	groundingModel = "gemini-3-flash-preview"
	mapsModel      = "gemini-2.5-flash"
	videoModel     = "veo-3.1-fast-generate-preview"

	// fallbackAddress is returned when reverse geocoding fails; location
	// stays usable without an address label.
	fallbackAddress = "Address localized to GPS coordinates."

	videoPrompt = "A professional handheld camera shot inspecting this urban damage, showing its impact on the street."
)

// AIService is the opaque generative-AI collaborator: image classification,
// legitimacy verification, address resolution, search grounding and
// evidence-video generation.
type AIService interface {
	AnalyzeProblemImage(ctx context.Context, imageB64 string) (*models.ImageAnalysis, error)
	VerifyComplaintImage(ctx context.Context, imageB64 string, category models.ComplaintCategory) *models.VerificationResult
	AddressFromCoords(ctx context.Context, lat, lng float64) string
	SearchGrounding(ctx context.Context, query string) (*GroundingResult, error)
	GenerateEvidenceVideo(ctx context.Context, imageB64 string) (string, error)
}

// GroundingResult carries grounded text plus its source chunks.
type GroundingResult struct {
	Text    string            `json:"text"`
	Sources []json.RawMessage `json:"sources"`
}

type geminiService struct {
	Config *config.Config
	client *http.Client

	// videoPollInterval paces the long-running operation polls.
	videoPollInterval time.Duration
}

func NewAIService(conf *config.Config) AIService {
	return &geminiService{
		Config:            conf,
		client:            &http.Client{Timeout: 60 * time.Second},
		videoPollInterval: 10 * time.Second,
	}
}

type geminiPart struct {
	Text       string            `json:"text,omitempty"`
	InlineData *geminiInlineData `json:"inline_data,omitempty"`
}

type geminiInlineData struct {
	MimeType string `json:"mime_type"`
	Data     string `json:"data"`
}

type geminiRequest struct {
	Contents []struct {
		Parts []geminiPart `json:"parts"`
	} `json:"contents"`
	GenerationConfig map[string]interface{}   `json:"generationConfig,omitempty"`
	Tools            []map[string]interface{} `json:"tools,omitempty"`
	ToolConfig       map[string]interface{}   `json:"toolConfig,omitempty"`
}

type geminiResponse struct {
	Candidates []struct {
		Content struct {
			Parts []struct {
				Text string `json:"text"`
			} `json:"parts"`
		} `json:"content"`
		GroundingMetadata struct {
			GroundingChunks []json.RawMessage `json:"groundingChunks"`
		} `json:"groundingMetadata"`
	} `json:"candidates"`
}

func newGeminiRequest(parts ...geminiPart) *geminiRequest {
	req := &geminiRequest{}
	req.Contents = append(req.Contents, struct {
		Parts []geminiPart `json:"parts"`
	}{Parts: parts})
	return req
}

// stripDataURI removes a data: prefix so only raw base64 goes on the wire.
func stripDataURI(imageB64 string) string {
	if idx := strings.Index(imageB64, ","); idx != -1 && strings.HasPrefix(imageB64, "data:") {
		return imageB64[idx+1:]
	}
	return imageB64
}

func (g *geminiService) generateContent(ctx context.Context, model string, payload *geminiRequest) (*geminiResponse, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("marshaling gemini request: %v", err)
	}

	url := fmt.Sprintf("%s/v1beta/models/%s:generateContent?key=%s", g.Config.GeminiBaseUrl, model, g.Config.GeminiApiKey)
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := g.client.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("calling gemini: %v", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("gemini returned %d: %s", resp.StatusCode, string(raw))
	}

	var out geminiResponse
	if err := json.Unmarshal(raw, &out); err != nil {
		return nil, fmt.Errorf("decoding gemini response: %v", err)
	}
	return &out, nil
}

func firstCandidateText(resp *geminiResponse) string {
	if len(resp.Candidates) == 0 {
		return ""
	}
	var sb strings.Builder
	for _, p := range resp.Candidates[0].Content.Parts {
		sb.WriteString(p.Text)
	}
	return sb.String()
}

// AnalyzeProblemImage classifies the photo into one of the six categories
// and drafts a short description.
func (g *geminiService) AnalyzeProblemImage(ctx context.Context, imageB64 string) (*models.ImageAnalysis, error) {
	prompt := `You are a Smart City AI Assistant. Analyze this photo taken by a citizen.
Identify:
1. The most likely category from this list: GARBAGE, ROAD_DAMAGE, WATER_LEAKAGE, DRAINAGE, STREET_LIGHT, OTHER.
2. A concise, professional 1-2 sentence description of the issue.
Return a JSON object with 'category' and 'description'.`

	payload := newGeminiRequest(
		geminiPart{Text: prompt},
		geminiPart{InlineData: &geminiInlineData{MimeType: "image/jpeg", Data: stripDataURI(imageB64)}},
	)
	payload.GenerationConfig = map[string]interface{}{
		"responseMimeType": "application/json",
	}

	resp, err := g.generateContent(ctx, visionModel, payload)
	if err != nil {
		return nil, err
	}

	var analysis models.ImageAnalysis
	if err := json.Unmarshal([]byte(firstCandidateText(resp)), &analysis); err != nil {
		return nil, fmt.Errorf("decoding analysis: %v", err)
	}
	if !models.IsValidCategory(analysis.Category) {
		analysis.Category = models.CategoryOther
	}
	return &analysis, nil
}

// VerifyComplaintImage judges whether the photo supports the claimed
// category. Any failure degrades to a manual-review verdict so submission
// is never blocked by the collaborator.
func (g *geminiService) VerifyComplaintImage(ctx context.Context, imageB64 string, category models.ComplaintCategory) *models.VerificationResult {
	prompt := fmt.Sprintf(`System role: Expert Urban Infrastructure Auditor.
Task: Analyze this photo for a reported %q complaint.
Rules:
1. Determine if the issue is physically visible in the photo.
2. Rate the legitimacy based on evidence.
3. Provide a clear reason for your decision.
Return a JSON object only with 'isLegitimate', 'reason' and 'confidence'.`, category)

	payload := newGeminiRequest(
		geminiPart{Text: prompt},
		geminiPart{InlineData: &geminiInlineData{MimeType: "image/jpeg", Data: stripDataURI(imageB64)}},
	)
	payload.GenerationConfig = map[string]interface{}{
		"responseMimeType": "application/json",
	}

	resp, err := g.generateContent(ctx, visionModel, payload)
	if err == nil {
		var verdict models.VerificationResult
		if jsonErr := json.Unmarshal([]byte(firstCandidateText(resp)), &verdict); jsonErr == nil {
			return &verdict
		}
		err = fmt.Errorf("unparseable verdict")
	}

	log.Printf("verification failed, falling back to manual review: %v", err)
	return &models.VerificationResult{
		IsLegitimate: true,
		Reason:       "Detailed AI analysis failed. Manual review required.",
		Confidence:   0.5,
	}
}

// AddressFromCoords resolves a street address through maps grounding.
// Failure is non-fatal and yields the static fallback label.
func (g *geminiService) AddressFromCoords(ctx context.Context, lat, lng float64) string {
	payload := newGeminiRequest(geminiPart{
		Text: fmt.Sprintf("Identify the precise municipal and street address for coordinates %f, %f in India.", lat, lng),
	})
	payload.Tools = []map[string]interface{}{{"googleMaps": map[string]interface{}{}}}
	payload.ToolConfig = map[string]interface{}{
		"retrievalConfig": map[string]interface{}{
			"latLng": map[string]float64{"latitude": lat, "longitude": lng},
		},
	}

	resp, err := g.generateContent(ctx, mapsModel, payload)
	if err != nil {
		log.Printf("maps grounding failed: %v", err)
		return fallbackAddress
	}
	text := strings.TrimSpace(firstCandidateText(resp))
	if text == "" {
		return fallbackAddress
	}
	return text
}

// SearchGrounding answers an admin-console research query with sources.
func (g *geminiService) SearchGrounding(ctx context.Context, query string) (*GroundingResult, error) {
	payload := newGeminiRequest(geminiPart{Text: query})
	payload.Tools = []map[string]interface{}{{"googleSearch": map[string]interface{}{}}}

	resp, err := g.generateContent(ctx, groundingModel, payload)
	if err != nil {
		return nil, err
	}

	result := &GroundingResult{Text: firstCandidateText(resp)}
	if len(resp.Candidates) > 0 {
		result.Sources = resp.Candidates[0].GroundingMetadata.GroundingChunks
	}
	return result, nil
}

type veoInstance struct {
	Prompt string    `json:"prompt"`
	Image  *veoImage `json:"image,omitempty"`
}

type veoImage struct {
	BytesBase64Encoded string `json:"bytesBase64Encoded"`
	MimeType           string `json:"mimeType"`
}

type veoRequest struct {
	Instances  []veoInstance          `json:"instances"`
	Parameters map[string]interface{} `json:"parameters,omitempty"`
}

type veoOperation struct {
	Name  string `json:"name"`
	Done  bool   `json:"done"`
	Error *struct {
		Message string `json:"message"`
	} `json:"error,omitempty"`
	Response struct {
		GenerateVideoResponse struct {
			GeneratedSamples []struct {
				Video struct {
					URI string `json:"uri"`
				} `json:"video"`
			} `json:"generatedSamples"`
		} `json:"generateVideoResponse"`
	} `json:"response"`
}

// GenerateEvidenceVideo animates the complaint photo into a short
// inspection clip through the Veo long-running endpoint, polling until the
// operation completes. The returned download URI carries the API key.
func (g *geminiService) GenerateEvidenceVideo(ctx context.Context, imageB64 string) (string, error) {
	payload := &veoRequest{
		Instances: []veoInstance{{
			Prompt: videoPrompt,
			Image:  &veoImage{BytesBase64Encoded: stripDataURI(imageB64), MimeType: "image/png"},
		}},
		Parameters: map[string]interface{}{
			"numberOfVideos": 1,
			"resolution":     "720p",
			"aspectRatio":    "16:9",
		},
	}

	startURL := fmt.Sprintf("%s/v1beta/models/%s:predictLongRunning?key=%s", g.Config.GeminiBaseUrl, videoModel, g.Config.GeminiApiKey)
	op, err := g.pollVeoOperation(ctx, http.MethodPost, startURL, payload)
	if err != nil {
		return "", err
	}

	for !op.Done {
		select {
		case <-ctx.Done():
			return "", ctx.Err()
		case <-time.After(g.videoPollInterval):
		}
		pollURL := fmt.Sprintf("%s/v1beta/%s?key=%s", g.Config.GeminiBaseUrl, op.Name, g.Config.GeminiApiKey)
		op, err = g.pollVeoOperation(ctx, http.MethodGet, pollURL, nil)
		if err != nil {
			return "", err
		}
	}

	if op.Error != nil {
		return "", fmt.Errorf("video generation failed: %s", op.Error.Message)
	}
	samples := op.Response.GenerateVideoResponse.GeneratedSamples
	if len(samples) == 0 || samples[0].Video.URI == "" {
		return "", fmt.Errorf("video generation returned no video")
	}

	uri := samples[0].Video.URI
	sep := "?"
	if strings.Contains(uri, "?") {
		sep = "&"
	}
	return uri + sep + "key=" + g.Config.GeminiApiKey, nil
}

func (g *geminiService) pollVeoOperation(ctx context.Context, method, url string, payload *veoRequest) (*veoOperation, error) {
	var body io.Reader
	if payload != nil {
		raw, err := json.Marshal(payload)
		if err != nil {
			return nil, fmt.Errorf("marshaling veo request: %v", err)
		}
		body = bytes.NewReader(raw)
	}

	httpReq, err := http.NewRequestWithContext(ctx, method, url, body)
	if err != nil {
		return nil, err
	}
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := g.client.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("calling veo: %v", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("veo returned %d: %s", resp.StatusCode, string(raw))
	}

	var op veoOperation
	if err := json.Unmarshal(raw, &op); err != nil {
		return nil, fmt.Errorf("decoding veo operation: %v", err)
	}
	return &op, nil
}
