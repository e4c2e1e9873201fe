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

// Package ai provides the embedding abstraction used by the ingestion pipeline.
//
// The pipeline depends only on the Embedder interface, so the backend producing
// vectors can be swapped without touching ingestion code.
//
// # Implementation Packages
//
//   - ai/hash: Deterministic placeholder embedder. No I/O, no randomness; the
//     default backend and the reference for reproducible ingestion.
//   - ai/openai: Embeddings from an OpenAI-compatible API (OpenAI, Ollama,
//     LocalAI, vLLM) with optional request rate limiting.
//   - ai/mock: Test doubles with injectable behavior and call counting.
//
// # Constructor Return Type Pattern
//
// Public constructors (hash.NewProvider, openai.NewProvider, openai.NewEmbedder)
// return INTERFACE types to enforce abstraction and prevent accidental coupling
// to concrete implementations.
//
//	provider, err := openai.NewProvider(config)  // returns ai.Provider
//
// Test utility constructors (mock.NewMockEmbedder) return CONCRETE types to
// enable test assertions and behavior injection.
//
//	mockEmbed := mock.NewMockEmbedder()
//	mockEmbed.EmbedTextsFunc = ...
//	count := mockEmbed.CallCount()
//
// hash.New returns the concrete *hash.Embedder because its Dimensions method is
// part of its contract.
//
// # Usage Example
//
//	config := ai.NewConfig(ai.WithProvider(ai.ProviderOpenAI))
//	provider, err := openai.NewProvider(config)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer provider.Close()
//
//	vectors, err := provider.Embedder().EmbedTexts(ctx, []string{"Hello world"})
package ai
