// File: internal/infra/adapters/summarize/tokens.go
package summarize

import (
	"fmt"

	"github.com/pkoukk/tiktoken-go"

	"telegram-media-bots/internal/domain/ports/adapter"
)

var _ adapter.TokenCounter = (*TiktokenCounter)(nil)

// TiktokenCounter counts tokens with a BPE encoding. The count gates
// document size before any provider is called; cl100k_base is close
// enough for every provider we route to.
type TiktokenCounter struct {
	enc *tiktoken.Tiktoken
}

func NewTiktokenCounter(encoding string) (*TiktokenCounter, error) {
	if encoding == "" {
		encoding = "cl100k_base"
	}
	enc, err := tiktoken.GetEncoding(encoding)
	if err != nil {
		return nil, fmt.Errorf("load encoding %s: %w", encoding, err)
	}
	return &TiktokenCounter{enc: enc}, nil
}

func (t *TiktokenCounter) CountTokens(text string) (int, error) {
	return len(t.enc.Encode(text, nil, nil)), nil
}
