package gemini

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"sync"

	"google.golang.org/genai"

	"github.com/calref/retouch-api/internal/editing"
	"github.com/calref/retouch-api/internal/service/credential"
)

// Editor implements the editing.Editor interface using Google's Gemini
// image model.
type Editor struct {
	logger *slog.Logger
	creds  *credential.State
	model  string

	// The client is rebuilt when the credential key changes, so a
	// re-authorized key takes effect on the next call.
	mu        sync.Mutex
	client    *genai.Client
	clientKey string
}

// NewEditor creates an Editor bound to the given model and credential state.
// No client is created until the first call, so construction never fails on
// a missing key.
func NewEditor(logger *slog.Logger, creds *credential.State, model string) (*Editor, error) {
	if logger == nil {
		return nil, errors.New("logger cannot be nil")
	}
	if creds == nil {
		return nil, errors.New("credential state cannot be nil")
	}
	if model == "" {
		return nil, fmt.Errorf("%w: model name cannot be empty", editing.ErrInvalidConfig)
	}

	return &Editor{
		logger: logger.With(slog.String("component", "gemini_editor")),
		creds:  creds,
		model:  model,
	}, nil
}

// EditImage sends one image and its instruction to the Gemini API and
// returns the edited image bytes. Failures are mapped onto the editing
// package's sentinel errors.
func (e *Editor) EditImage(ctx context.Context, req *editing.EditRequest) (*editing.EditedImage, error) {
	key := e.creds.APIKey()
	if key == "" {
		return nil, fmt.Errorf("%w: no API key configured", editing.ErrInvalidConfig)
	}

	client, err := e.clientFor(ctx, key)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to create Gemini client: %v", editing.ErrInvalidConfig, err)
	}

	parts := []*genai.Part{
		genai.NewPartFromBytes(req.ImageData, req.MediaType),
		genai.NewPartFromText(req.Instruction),
	}
	contents := []*genai.Content{
		genai.NewContentFromParts(parts, genai.RoleUser),
	}
	cfg := &genai.GenerateContentConfig{
		ResponseModalities: []string{"IMAGE", "TEXT"},
		ImageConfig: &genai.ImageConfig{
			AspectRatio: req.AspectRatio,
			ImageSize:   req.ResolutionTier,
		},
	}

	e.logger.InfoContext(ctx, "calling Gemini edit",
		slog.String("model", e.model),
		slog.String("aspect_ratio", req.AspectRatio),
		slog.Int("image_bytes", len(req.ImageData)))

	resp, err := client.Models.GenerateContent(ctx, e.model, contents, cfg)
	if err != nil {
		mapped := mapAPIError(err)
		e.logger.ErrorContext(ctx, "Gemini edit call failed", slog.Any("error", mapped))
		return nil, mapped
	}

	edited, err := extractImage(resp)
	if err != nil {
		e.logger.ErrorContext(ctx, "Gemini edit response unusable", slog.Any("error", err))
		return nil, err
	}

	e.logger.InfoContext(ctx, "Gemini edit succeeded",
		slog.Int("result_bytes", len(edited.Data)),
		slog.String("media_type", edited.MediaType))
	return edited, nil
}

// clientFor returns a client built with the given key, reusing the cached
// one when the key has not changed.
func (e *Editor) clientFor(ctx context.Context, key string) (*genai.Client, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.client != nil && e.clientKey == key {
		return e.client, nil
	}

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  key,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, err
	}

	e.client = client
	e.clientKey = key
	return client, nil
}

// mapAPIError translates a transport-level failure from the genai client
// into one of the editing sentinel errors.
func mapAPIError(err error) error {
	var apiErr genai.APIError
	if errors.As(err, &apiErr) {
		switch apiErr.Code {
		// The Gemini API reports a rejected key as 400 INVALID_ARGUMENT or,
		// for some key states, as 404 on the model resource.
		case http.StatusUnauthorized, http.StatusForbidden, http.StatusNotFound:
			return fmt.Errorf("%w: %v", editing.ErrAuthRejected, err)
		case http.StatusBadRequest:
			if apiErr.Status == "INVALID_ARGUMENT" || apiErr.Status == "UNAUTHENTICATED" {
				return fmt.Errorf("%w: %v", editing.ErrAuthRejected, err)
			}
		case http.StatusTooManyRequests:
			return fmt.Errorf("%w: %v", editing.ErrRateLimited, err)
		}
	}
	return fmt.Errorf("%w: %v", editing.ErrEditFailed, err)
}

// extractImage pulls the first inline image part out of a generate
// response. A safety stop maps to ErrSafetyBlocked; a response with no
// inline image maps to ErrNoImageGenerated.
func extractImage(resp *genai.GenerateContentResponse) (*editing.EditedImage, error) {
	if resp == nil || len(resp.Candidates) == 0 {
		if resp != nil && resp.PromptFeedback != nil && resp.PromptFeedback.BlockReason != "" {
			return nil, fmt.Errorf("%w: prompt blocked: %s", editing.ErrSafetyBlocked, resp.PromptFeedback.BlockReason)
		}
		return nil, fmt.Errorf("%w: no candidates in response", editing.ErrNoImageGenerated)
	}

	candidate := resp.Candidates[0]
	if candidate.FinishReason == genai.FinishReasonSafety {
		return nil, fmt.Errorf("%w: candidate stopped for safety", editing.ErrSafetyBlocked)
	}
	if candidate.Content == nil {
		return nil, fmt.Errorf("%w: empty candidate content", editing.ErrNoImageGenerated)
	}

	for _, part := range candidate.Content.Parts {
		if part == nil || part.InlineData == nil || len(part.InlineData.Data) == 0 {
			continue
		}
		mediaType := part.InlineData.MIMEType
		if mediaType == "" {
			mediaType = "image/png"
		}
		return &editing.EditedImage{
			Data:      part.InlineData.Data,
			MediaType: mediaType,
		}, nil
	}

	return nil, fmt.Errorf("%w: response contained no image parts", editing.ErrNoImageGenerated)
}
