// Package imagegen turns a text prompt into an inline listing image.
package imagegen

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"image"
	_ "image/gif"
	"image/jpeg"
	_ "image/png"
	"io"
	"log/slog"
	"math/rand/v2"
	"net/http"
	"net/url"
	"strings"

	"github.com/diewo77/go-directory/internal/config"
	"github.com/nfnt/resize"
)

const (
	// PlaceholderURL is served when the image upstream fails.
	PlaceholderURL = "https://images.unsplash.com/photo-1517248135467-4c7edcad34c4?q=80&w=1000"
	BusyWarning    = "AI Busy, showing placeholder"

	maxSeed      = 999999
	maxImageSize = 20 << 20
	jpegQuality  = 80
)

var ErrPromptRequired = errors.New("prompt_required")

// Result is the JSON body returned to the admin UI.
type Result struct {
	URL     string `json:"url"`
	Warning string `json:"warning,omitempty"`
}

type Service struct {
	cfg     config.AIConfig
	client  *http.Client
	seed    func() int
	maxBody int64
}

func New(cfg config.AIConfig) *Service {
	return &Service{
		cfg:     cfg,
		client:  &http.Client{},
		seed:    func() int { return rand.IntN(maxSeed) },
		maxBody: maxImageSize,
	}
}

// Generate optimizes prompt, fetches an image for it and returns it as a
// data URL. Upstream failures degrade to the placeholder; only a blank
// prompt is an error. Both upstream calls share one AI_TIMEOUT deadline.
func (s *Service) Generate(ctx context.Context, prompt string) (Result, error) {
	prompt = strings.TrimSpace(prompt)
	if prompt == "" {
		return Result{}, ErrPromptRequired
	}
	if s.cfg.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.cfg.Timeout)
		defer cancel()
	}
	optimized := s.optimize(ctx, prompt)

	body, err := s.fetch(ctx, s.imageURL(optimized))
	if err != nil {
		slog.Warn("image upstream failed, using placeholder", "error", err)
		return Result{URL: PlaceholderURL, Warning: BusyWarning}, nil
	}
	data, contentType := s.shrink(body)
	return Result{URL: "data:" + contentType + ";base64," + base64.StdEncoding.EncodeToString(data)}, nil
}

func (s *Service) imageURL(prompt string) string {
	return fmt.Sprintf("%s/%s?width=1024&height=720&model=flux&seed=%d&nologo=true",
		strings.TrimRight(s.cfg.ImageURL, "/"), url.PathEscape(prompt), s.seed())
}

type geminiPart struct {
	Text string `json:"text"`
}

type geminiContent struct {
	Parts []geminiPart `json:"parts"`
}

type geminiRequest struct {
	Contents []geminiContent `json:"contents"`
}

type geminiResponse struct {
	Candidates []struct {
		Content geminiContent `json:"content"`
	} `json:"candidates"`
}

// optimize asks Gemini for a richer prompt and falls back to prompt on
// any failure.
func (s *Service) optimize(ctx context.Context, prompt string) string {
	if s.cfg.GeminiAPIKey == "" || s.cfg.PromptURL == "" {
		return prompt
	}
	reqBody, err := json.Marshal(geminiRequest{Contents: []geminiContent{{
		Parts: []geminiPart{{Text: "Professional prompt for: " + prompt + ". Descriptive only."}},
	}}})
	if err != nil {
		return prompt
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.cfg.PromptURL, bytes.NewReader(reqBody))
	if err != nil {
		return prompt
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("x-goog-api-key", s.cfg.GeminiAPIKey)

	resp, err := s.client.Do(req)
	if err != nil {
		slog.Debug("prompt optimization failed", "error", err)
		return prompt
	}
	defer resp.Body.Close()
	if resp.StatusCode/100 != 2 {
		slog.Debug("prompt optimization rejected", "status", resp.StatusCode)
		return prompt
	}
	var out geminiResponse
	if err := json.NewDecoder(io.LimitReader(resp.Body, 1<<20)).Decode(&out); err != nil {
		return prompt
	}
	if len(out.Candidates) == 0 || len(out.Candidates[0].Content.Parts) == 0 {
		return prompt
	}
	if text := strings.TrimSpace(out.Candidates[0].Content.Parts[0].Text); text != "" {
		return text
	}
	return prompt
}

func (s *Service) fetch(ctx context.Context, u string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, err
	}
	resp, err := s.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	if resp.StatusCode/100 != 2 {
		return nil, fmt.Errorf("image upstream status %d", resp.StatusCode)
	}
	body, err := io.ReadAll(io.LimitReader(resp.Body, s.maxBody+1))
	if err != nil {
		return nil, err
	}
	if int64(len(body)) > s.maxBody {
		return nil, fmt.Errorf("image upstream body exceeds %d bytes", s.maxBody)
	}
	return body, nil
}

// shrink downscales images wider than the configured maximum and
// re-encodes them as JPEG. Anything else is returned untouched.
func (s *Service) shrink(body []byte) ([]byte, string) {
	sniffed := http.DetectContentType(body)
	img, _, err := image.Decode(bytes.NewReader(body))
	if err != nil || s.cfg.MaxWidth <= 0 || img.Bounds().Dx() <= s.cfg.MaxWidth {
		return body, sniffed
	}
	small := resize.Resize(uint(s.cfg.MaxWidth), 0, img, resize.Lanczos3)
	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, small, &jpeg.Options{Quality: jpegQuality}); err != nil {
		return body, sniffed
	}
	return buf.Bytes(), "image/jpeg"
}
