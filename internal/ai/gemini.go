package ai

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/google/generative-ai-go/genai"
	"google.golang.org/api/googleapi"
	"google.golang.org/api/iterator"
	"google.golang.org/api/option"
)

const (
	aiTemperature   = 0.1
	generateMethod  = "generateContent"
	modelNamePrefix = "models/"

	// Quota errors get a fixed wait, same for every attempt. Not exponential.
	maxAttempts      = 3
	defaultRetryWait = 60 * time.Second
)

// ErrRetriesExhausted is returned after maxAttempts consecutive quota errors.
var ErrRetriesExhausted = errors.New("retries exhausted")

// UnknownModelError means the provider does not recognize the requested
// model identifier. Retrying cannot fix it.
type UnknownModelError struct {
	Model string
}

func (e *UnknownModelError) Error() string {
	return fmt.Sprintf("model %q not found, pick another model", e.Model)
}

// RetryFunc is called before each quota-triggered wait so long backoffs
// are visible to the user.
type RetryFunc func(attempt int, wait time.Duration)

type GeminiProvider struct {
	retryWait time.Duration
}

func NewGeminiProvider() *GeminiProvider {
	return &GeminiProvider{retryWait: defaultRetryWait}
}

// ListModels returns the model identifiers usable with the given key,
// provider prefix stripped. Any failure yields an empty list: the caller
// treats that as "discovery unavailable", not as zero models existing.
// Nothing is cached; every call re-authenticates.
func (g *GeminiProvider) ListModels(ctx context.Context, apiKey string) []string {
	client, err := genai.NewClient(ctx, option.WithAPIKey(apiKey))
	if err != nil {
		return nil
	}
	defer client.Close()

	var names []string
	it := client.ListModels(ctx)
	for {
		info, err := it.Next()
		if errors.Is(err, iterator.Done) {
			break
		}
		if err != nil {
			return nil
		}
		if !supportsGeneration(info) {
			continue
		}
		names = append(names, strings.TrimPrefix(info.Name, modelNamePrefix))
	}
	return names
}

func supportsGeneration(info *genai.ModelInfo) bool {
	for _, m := range info.SupportedGenerationMethods {
		if m == generateMethod {
			return true
		}
	}
	return false
}

// Generate sends the prompt plus optional images to the named model and
// returns the raw reply text verbatim. Quota errors (429) are retried up
// to maxAttempts with a fixed wait; unknown-model and any other error fail
// immediately.
func (g *GeminiProvider) Generate(ctx context.Context, apiKey, modelID, prompt string, images [][]byte, onRetry RetryFunc) (string, error) {
	client, err := genai.NewClient(ctx, option.WithAPIKey(apiKey))
	if err != nil {
		return "", fmt.Errorf("failed to create gemini client: %w", err)
	}
	defer client.Close()

	model := client.GenerativeModel(modelID)
	model.SetTemperature(aiTemperature)

	parts := make([]genai.Part, 0, len(images)+1)
	parts = append(parts, genai.Text(prompt))
	for _, img := range images {
		parts = append(parts, genai.ImageData("jpeg", img))
	}

	call := func() (string, error) {
		resp, err := model.GenerateContent(ctx, parts...)
		if err != nil {
			return "", err
		}
		return responseText(resp)
	}

	return g.invokeWithRetry(ctx, modelID, call, onRetry)
}

// invokeWithRetry classifies call errors and drives the bounded
// constant-interval retry loop.
func (g *GeminiProvider) invokeWithRetry(ctx context.Context, modelID string, call func() (string, error), onRetry RetryFunc) (string, error) {
	attempt := 0
	operation := func() (string, error) {
		attempt++
		text, err := call()
		if err == nil {
			return text, nil
		}
		switch {
		case isQuotaError(err):
			return "", err
		case isUnknownModelError(err):
			return "", backoff.Permanent(&UnknownModelError{Model: modelID})
		default:
			return "", backoff.Permanent(err)
		}
	}

	notify := func(err error, wait time.Duration) {
		if onRetry != nil {
			onRetry(attempt, wait)
		}
	}

	bo := backoff.WithContext(
		backoff.WithMaxRetries(backoff.NewConstantBackOff(g.retryWait), maxAttempts-1),
		ctx,
	)

	text, err := backoff.RetryNotifyWithData(operation, bo, notify)
	if err != nil {
		if isQuotaError(err) {
			return "", fmt.Errorf("%w after %d attempts: %v", ErrRetriesExhausted, maxAttempts, err)
		}
		return "", err
	}
	return text, nil
}

func responseText(resp *genai.GenerateContentResponse) (string, error) {
	if len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil || len(resp.Candidates[0].Content.Parts) == 0 {
		return "", errors.New("empty response from model")
	}
	text, ok := resp.Candidates[0].Content.Parts[0].(genai.Text)
	if !ok {
		return "", errors.New("unexpected response format")
	}
	return string(text), nil
}

func isQuotaError(err error) bool {
	var apiErr *googleapi.Error
	if errors.As(err, &apiErr) && apiErr.Code == http.StatusTooManyRequests {
		return true
	}
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "429") || strings.Contains(msg, "quota") || strings.Contains(msg, "rate limit")
}

func isUnknownModelError(err error) bool {
	var apiErr *googleapi.Error
	if errors.As(err, &apiErr) && apiErr.Code == http.StatusNotFound {
		return true
	}
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "404") || strings.Contains(msg, "not found")
}
