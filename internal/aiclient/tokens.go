package aiclient

import (
	"sync"

	"github.com/pkoukk/tiktoken-go"
)

// fallbackEncoding is used for models tiktoken does not know by name.
const fallbackEncoding = "o200k_base"

// TokenEstimator approximates how many tokens text costs for model.
type TokenEstimator interface {
	Estimate(model, text string) (int, bool)
}

// TiktokenEstimator counts tokens with OpenAI's BPE tables. Encodings are
// loaded lazily and cached per model.
type TiktokenEstimator struct {
	mu        sync.Mutex
	encodings map[string]*tiktoken.Tiktoken
}

func NewTiktokenEstimator() *TiktokenEstimator {
	return &TiktokenEstimator{encodings: make(map[string]*tiktoken.Tiktoken)}
}

// Estimate returns false when no encoding could be loaded.
func (e *TiktokenEstimator) Estimate(model, text string) (int, bool) {
	enc := e.encoding(model)
	if enc == nil {
		return 0, false
	}
	return len(enc.Encode(text, nil, nil)), true
}

func (e *TiktokenEstimator) encoding(model string) *tiktoken.Tiktoken {
	e.mu.Lock()
	defer e.mu.Unlock()
	if enc, ok := e.encodings[model]; ok {
		return enc
	}
	enc, err := tiktoken.EncodingForModel(model)
	if err != nil {
		enc, err = tiktoken.GetEncoding(fallbackEncoding)
	}
	if err != nil {
		enc = nil
	}
	// Failures are cached too so a missing table is not refetched per request.
	e.encodings[model] = enc
	return enc
}
