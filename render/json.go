package render

import (
	"context"
	"encoding/json"

	"github.com/postarch/postarch"
)

// Compile-time interface verification.
var _ postarch.Renderer = (*JSONRenderer)(nil)

// JSONRenderer renders a post as a structured JSON document: metadata
// plus the ordered block sequence.
type JSONRenderer struct{}

// NewJSONRenderer creates a new JSONRenderer.
func NewJSONRenderer() *JSONRenderer {
	return &JSONRenderer{}
}

// Format returns postarch.FormatJSON.
func (r *JSONRenderer) Format() postarch.Format {
	return postarch.FormatJSON
}

type jsonBlock struct {
	Kind      postarch.BlockKind `json:"kind"`
	Level     int                `json:"level,omitempty"`
	Text      string             `json:"text,omitempty"`
	HTML      string             `json:"html,omitempty"`
	ImageURL  string             `json:"image_url,omitempty"`
	LocalPath string             `json:"local_path,omitempty"`
	Alt       string             `json:"alt,omitempty"`
}

type jsonDocument struct {
	Metadata    Meta        `json:"metadata"`
	Blocks      []jsonBlock `json:"blocks"`
	ContentHTML string      `json:"content_html"`
}

// Render serializes the post.
func (r *JSONRenderer) Render(_ context.Context, post *postarch.ExtractedPost) ([]byte, error) {
	doc := jsonDocument{
		Metadata:    NewMeta(post),
		Blocks:      make([]jsonBlock, 0, len(post.Blocks)),
		ContentHTML: BlocksHTML(post),
	}
	for _, block := range post.Blocks {
		doc.Blocks = append(doc.Blocks, jsonBlock{
			Kind:      block.Kind,
			Level:     block.Level,
			Text:      block.Text,
			HTML:      block.HTML,
			ImageURL:  block.ImageURL,
			LocalPath: block.LocalPath,
			Alt:       block.Alt,
		})
	}

	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return nil, postarch.Errorf(postarch.ERENDER, "marshaling JSON document: %v", err)
	}
	return append(data, '\n'), nil
}
