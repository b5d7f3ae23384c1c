package handlers

import (
	"context"
	"errors"
	"net/http"

	"github.com/diewo77/go-directory/internal/httpx"
	"github.com/diewo77/go-directory/internal/services/imagegen"
)

// ImageGenerator is satisfied by *imagegen.Service.
type ImageGenerator interface {
	Generate(ctx context.Context, prompt string) (imagegen.Result, error)
}

type ImageHandler struct {
	gen ImageGenerator
}

func NewImageHandler(gen ImageGenerator) *ImageHandler {
	return &ImageHandler{gen: gen}
}

func (h *ImageHandler) Generate(w http.ResponseWriter, r *http.Request) {
	var in struct {
		Prompt string `json:"prompt"`
	}
	if !decode(w, r, &in) {
		return
	}
	res, err := h.gen.Generate(r.Context(), in.Prompt)
	if err != nil {
		if errors.Is(err, imagegen.ErrPromptRequired) {
			httpx.JSONError(w, http.StatusBadRequest, "prompt_required", nil)
			return
		}
		writeServiceError(w, err, "image_generate_failed")
		return
	}
	httpx.JSON(w, http.StatusOK, res)
}
