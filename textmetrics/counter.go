// Copyright 2025 Poiesic Systems
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package textmetrics

import (
	"fmt"

	"github.com/pkoukk/tiktoken-go"
)

// DefaultEncoding is the tiktoken encoding used when none is given.
const DefaultEncoding = "cl100k_base"

// TokenCounter counts tokens in a span of text.
// Implementations must be safe for concurrent use.
type TokenCounter interface {
	CountTokens(text string) int
}

// HeuristicCounter counts tokens with EstimateTokens.
type HeuristicCounter struct{}

// CountTokens implements TokenCounter.
func (HeuristicCounter) CountTokens(text string) int {
	return EstimateTokens(text)
}

// TiktokenCounter counts tokens with a BPE encoding.
type TiktokenCounter struct {
	encoding string
	tke      *tiktoken.Tiktoken
}

// NewTiktokenCounter creates a counter for an encoding name or a model name.
// An empty name selects DefaultEncoding.
//
// The first call for an encoding downloads its BPE ranks unless a local
// cache is configured through TIKTOKEN_CACHE_DIR.
func NewTiktokenCounter(encodingOrModel string) (*TiktokenCounter, error) {
	if encodingOrModel == "" {
		encodingOrModel = DefaultEncoding
	}

	tke, err := tiktoken.GetEncoding(encodingOrModel)
	if err == nil {
		return &TiktokenCounter{encoding: encodingOrModel, tke: tke}, nil
	}

	tke, err = tiktoken.EncodingForModel(encodingOrModel)
	if err != nil {
		return nil, fmt.Errorf("unknown tiktoken encoding or model %q: %w", encodingOrModel, err)
	}
	return &TiktokenCounter{encoding: encodingOrModel, tke: tke}, nil
}

// CountTokens implements TokenCounter.
func (c *TiktokenCounter) CountTokens(text string) int {
	if text == "" {
		return 0
	}
	return len(c.tke.Encode(text, nil, nil))
}

// Encoding returns the encoding or model name the counter was created with.
func (c *TiktokenCounter) Encoding() string {
	return c.encoding
}

var (
	_ TokenCounter = HeuristicCounter{}
	_ TokenCounter = (*TiktokenCounter)(nil)
)
