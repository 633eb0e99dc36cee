// Package vision extracts medication details from label photos by calling an
// OpenAI-compatible vision completion endpoint.
package vision

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"medtrack/config"
	domainerrors "medtrack/internal/domain/errors"
	"medtrack/internal/domain/service"

	"github.com/go-resty/resty/v2"
	"github.com/pkg/errors"
	"go.uber.org/fx"
)

const requestTimeout = 45 * time.Second

const scanPrompt = `Extract the medication details from this label photo.
Respond with a single JSON object using these keys:
name, generic_name, dose_amount (number), dose_unit, instructions (array of strings), confidence (0.0-1.0).
Use null for anything not visible on the label.`

// Params holds dependencies for the label scanner, injected by Fx
type Params struct {
	fx.In

	Config *config.Config
	Logger *slog.Logger
}

// New creates a LabelScanner. Without a configured endpoint every scan fails
// with ErrScannerUnavailable so callers can degrade to manual entry.
func New(params Params) service.LabelScanner {
	cfg := params.Config.Vision
	if cfg == nil || cfg.Endpoint == "" || cfg.APIKey == "" {
		params.Logger.Info("Vision endpoint not configured, label scanning disabled")

		return &unavailableScanner{}
	}

	client := resty.New().
		SetBaseURL(cfg.Endpoint).
		SetTimeout(requestTimeout).
		SetAuthToken(cfg.APIKey).
		SetHeader("Content-Type", "application/json")

	return &visionScanner{
		client: client,
		model:  cfg.Model,
		logger: params.Logger,
	}
}

type unavailableScanner struct{}

func (s *unavailableScanner) ScanLabel(context.Context, []byte) (*service.MedicationDraft, error) {
	return nil, domainerrors.ErrScannerUnavailable
}

type visionScanner struct {
	client *resty.Client
	model  string
	logger *slog.Logger
}

type completionRequest struct {
	Model    string              `json:"model"`
	Messages []completionMessage `json:"messages"`
}

type completionMessage struct {
	Role    string        `json:"role"`
	Content []contentPart `json:"content"`
}

type contentPart struct {
	Type     string    `json:"type"`
	Text     string    `json:"text,omitempty"`
	ImageURL *imageURL `json:"image_url,omitempty"`
}

type imageURL struct {
	URL string `json:"url"`
}

type completionResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
	Error *struct {
		Message string `json:"message"`
	} `json:"error,omitempty"`
}

// ScanLabel sends the photo to the vision model and parses its JSON reply.
func (s *visionScanner) ScanLabel(ctx context.Context, imageJPEG []byte) (*service.MedicationDraft, error) {
	if len(imageJPEG) == 0 {
		return nil, domainerrors.ErrValidation.WrapMessage("empty image")
	}

	dataURL := fmt.Sprintf("data:image/jpeg;base64,%s", base64.StdEncoding.EncodeToString(imageJPEG))

	request := completionRequest{
		Model: s.model,
		Messages: []completionMessage{
			{
				Role: "user",
				Content: []contentPart{
					{Type: "text", Text: scanPrompt},
					{Type: "image_url", ImageURL: &imageURL{URL: dataURL}},
				},
			},
		},
	}

	var response completionResponse
	resp, err := s.client.R().
		SetContext(ctx).
		SetBody(request).
		SetResult(&response).
		Post("/chat/completions")
	if err != nil {
		return nil, errors.Wrap(err, "vision request failed")
	}

	if resp.IsError() {
		message := ""
		if response.Error != nil {
			message = response.Error.Message
		}

		return nil, errors.Errorf("vision endpoint returned status %d: %s", resp.StatusCode(), message)
	}

	if len(response.Choices) == 0 {
		return nil, errors.New("vision endpoint returned no choices")
	}

	draft, err := parseDraft(response.Choices[0].Message.Content)
	if err != nil {
		return nil, err
	}

	s.logger.Info("Label scanned",
		slog.String("name", draft.Name),
		slog.Float64("confidence", draft.Confidence),
	)

	return draft, nil
}

// parseDraft tolerates models that wrap the JSON object in a code fence or
// surrounding prose.
func parseDraft(content string) (*service.MedicationDraft, error) {
	start := strings.Index(content, "{")
	end := strings.LastIndex(content, "}")
	if start < 0 || end <= start {
		return nil, errors.New("vision reply contains no JSON object")
	}

	var draft service.MedicationDraft
	if err := json.Unmarshal([]byte(content[start:end+1]), &draft); err != nil {
		return nil, errors.Wrap(err, "failed to parse vision reply")
	}

	return &draft, nil
}
