package imagegen

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"image"
	"image/color"
	"image/jpeg"
	"image/png"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/diewo77/go-directory/internal/config"
)

func pngBytes(t *testing.T, w, h int) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for x := 0; x < w; x++ {
		img.Set(x, 0, color.RGBA{R: 200, A: 255})
	}
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		t.Fatal(err)
	}
	return buf.Bytes()
}

func newService(imageURL, promptURL, key string) *Service {
	s := New(config.AIConfig{
		GeminiAPIKey: key,
		PromptURL:    promptURL,
		ImageURL:     imageURL,
		Timeout:      5 * time.Second,
		MaxWidth:     64,
	})
	s.seed = func() int { return 42 }
	return s
}

func decodeDataURL(t *testing.T, u string) (string, []byte) {
	t.Helper()
	rest, ok := strings.CutPrefix(u, "data:")
	if !ok {
		t.Fatalf("not a data URL: %.40s", u)
	}
	ct, b64, ok := strings.Cut(rest, ";base64,")
	if !ok {
		t.Fatalf("malformed data URL: %.40s", u)
	}
	raw, err := base64.StdEncoding.DecodeString(b64)
	if err != nil {
		t.Fatal(err)
	}
	return ct, raw
}

func TestGenerate_BlankPrompt(t *testing.T) {
	called := false
	up := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) { called = true }))
	defer up.Close()

	_, err := newService(up.URL, up.URL, "k").Generate(context.Background(), "   ")
	if !errors.Is(err, ErrPromptRequired) {
		t.Fatalf("expected ErrPromptRequired, got %v", err)
	}
	if called {
		t.Fatal("upstream must not be called for a blank prompt")
	}
}

func TestGenerate_OptimizesAndDownscales(t *testing.T) {
	gemini := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("x-goog-api-key") != "k" {
			w.WriteHeader(http.StatusForbidden)
			return
		}
		var req geminiRequest
		json.NewDecoder(r.Body).Decode(&req)
		if got := req.Contents[0].Parts[0].Text; got != "Professional prompt for: cozy cafe. Descriptive only." {
			t.Errorf("unexpected gemini prompt %q", got)
		}
		io.WriteString(w, `{"candidates":[{"content":{"parts":[{"text":"warm cozy cafe interior"}]}}]}`)
	}))
	defer gemini.Close()

	var gotPath, gotQuery string
	images := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath, gotQuery = r.URL.EscapedPath(), r.URL.RawQuery
		w.Write(pngBytes(t, 128, 32))
	}))
	defer images.Close()

	res, err := newService(images.URL+"/prompt", gemini.URL, "k").Generate(context.Background(), "cozy cafe")
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	if gotPath != "/prompt/warm%20cozy%20cafe%20interior" {
		t.Errorf("unexpected image path %q", gotPath)
	}
	if gotQuery != "width=1024&height=720&model=flux&seed=42&nologo=true" {
		t.Errorf("unexpected query %q", gotQuery)
	}
	ct, raw := decodeDataURL(t, res.URL)
	if ct != "image/jpeg" {
		t.Fatalf("expected re-encoded jpeg, got %s", ct)
	}
	img, err := jpeg.Decode(bytes.NewReader(raw))
	if err != nil {
		t.Fatal(err)
	}
	if b := img.Bounds(); b.Dx() != 64 || b.Dy() != 16 {
		t.Errorf("expected 64x16, got %dx%d", b.Dx(), b.Dy())
	}
	if res.Warning != "" {
		t.Errorf("unexpected warning %q", res.Warning)
	}
}

func TestGenerate_PromptFallbackAndPassThrough(t *testing.T) {
	gemini := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer gemini.Close()

	small := pngBytes(t, 16, 16)
	var gotPath string
	images := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.EscapedPath()
		w.Write(small)
	}))
	defer images.Close()

	res, err := newService(images.URL, gemini.URL, "k").Generate(context.Background(), "spa")
	if err != nil {
		t.Fatal(err)
	}
	if gotPath != "/spa" {
		t.Errorf("expected original prompt, got path %q", gotPath)
	}
	ct, raw := decodeDataURL(t, res.URL)
	if ct != "image/png" || !bytes.Equal(raw, small) {
		t.Errorf("expected png passed through, got %s (%d bytes)", ct, len(raw))
	}
}

func TestGenerate_UpstreamFailureServesPlaceholder(t *testing.T) {
	images := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer images.Close()

	res, err := newService(images.URL, "", "").Generate(context.Background(), "gym")
	if err != nil {
		t.Fatal(err)
	}
	if res.URL != PlaceholderURL || res.Warning != BusyWarning {
		t.Errorf("unexpected result %+v", res)
	}
}

func TestGenerate_NonImagePayload(t *testing.T) {
	images := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		io.WriteString(w, "plain words")
	}))
	defer images.Close()

	res, err := newService(images.URL, "", "").Generate(context.Background(), "x")
	if err != nil {
		t.Fatal(err)
	}
	ct, raw := decodeDataURL(t, res.URL)
	if !strings.HasPrefix(ct, "text/plain") || string(raw) != "plain words" {
		t.Errorf("unexpected pass-through %s %q", ct, raw)
	}
}

func TestSeedRange(t *testing.T) {
	s := New(config.AIConfig{})
	for i := 0; i < 1000; i++ {
		if n := s.seed(); n < 0 || n >= maxSeed {
			t.Fatalf("seed %d out of range", n)
		}
	}
}

func TestGenerate_OversizedBodyServesPlaceholder(t *testing.T) {
	payload := pngBytes(t, 16, 16)
	images := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write(payload)
	}))
	defer images.Close()

	s := newService(images.URL, "", "")
	s.maxBody = int64(len(payload)) - 1
	res, err := s.Generate(context.Background(), "bakery")
	if err != nil {
		t.Fatal(err)
	}
	if res.URL != PlaceholderURL || res.Warning != BusyWarning {
		t.Errorf("expected placeholder for oversized body, got %.40s", res.URL)
	}

	s.maxBody = int64(len(payload))
	res, err = s.Generate(context.Background(), "bakery")
	if err != nil {
		t.Fatal(err)
	}
	if _, raw := decodeDataURL(t, res.URL); !bytes.Equal(raw, payload) {
		t.Errorf("body at the limit should pass through intact, got %d bytes", len(raw))
	}
}

func TestGenerate_UpstreamCallsShareOneDeadline(t *testing.T) {
	wait := func(r *http.Request, d time.Duration) bool {
		select {
		case <-time.After(d):
			return true
		case <-r.Context().Done():
			return false
		}
	}
	gemini := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !wait(r, 300*time.Millisecond) {
			return
		}
		json.NewEncoder(w).Encode(map[string]any{
			"candidates": []any{map[string]any{"content": map[string]any{"parts": []any{map[string]string{"text": "sunlit salon"}}}}},
		})
	}))
	defer gemini.Close()

	var imageHit atomic.Bool
	images := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		imageHit.Store(true)
		if !wait(r, 300*time.Millisecond) {
			return
		}
		w.Write(pngBytes(t, 8, 8))
	}))
	defer images.Close()

	s := newService(images.URL, gemini.URL, "k")
	s.cfg.Timeout = 400 * time.Millisecond
	start := time.Now()
	res, err := s.Generate(context.Background(), "salon")
	if err != nil {
		t.Fatal(err)
	}
	if !imageHit.Load() {
		t.Fatal("image upstream was not called")
	}
	if res.URL != PlaceholderURL {
		t.Errorf("expected placeholder once the shared deadline passed, got %.40s", res.URL)
	}
	if elapsed := time.Since(start); elapsed > 2*time.Second {
		t.Errorf("generate took %v, deadline not enforced", elapsed)
	}
}
