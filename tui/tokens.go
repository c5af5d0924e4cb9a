package tui

import (
	"fmt"

	"github.com/tiktoken-go/tokenizer"
)

// TokenCounter estimates how many model tokens a note will take.
type TokenCounter interface {
	Count(text string) int
}

type codecCounter struct {
	codec tokenizer.Codec
}

// NewTokenCounter returns a counter for a tiktoken encoding name such as
// "r50k_base" (GPT-2) or "cl100k_base".
func NewTokenCounter(encoding string) (TokenCounter, error) {
	codec, err := tokenizer.Get(tokenizer.Encoding(encoding))
	if err != nil {
		return nil, fmt.Errorf("token encoding %q: %w", encoding, err)
	}
	return codecCounter{codec: codec}, nil
}

func (c codecCounter) Count(text string) int {
	if text == "" {
		return 0
	}
	ids, _, err := c.codec.Encode(text)
	if err != nil {
		return 0
	}
	return len(ids)
}
