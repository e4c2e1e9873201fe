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

package main

import (
	"fmt"
	"log"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/urfave/cli/v2"
)

func main() {
	if err := newApp().Run(os.Args); err != nil {
		log.Fatal(err)
	}
}

func newApp() *cli.App {
	return &cli.App{
		Name:  "docingest",
		Usage: "Chunk, embed and store documents",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "log-level",
				Aliases: []string{"l"},
				Usage:   "Set logging level (debug, info, warn, error)",
				Value:   "info",
			},
			&cli.StringFlag{
				Name:    "config",
				Aliases: []string{"c"},
				Usage:   "Path to TOML config file (default: ./docingest.toml if present)",
			},
			&cli.StringFlag{
				Name:    "db",
				Aliases: []string{"d"},
				Usage:   "Path to BadgerDB database directory",
			},
		},
		Before: setupLogger,
		Commands: []*cli.Command{
			{
				Name:      "ingest",
				Usage:     "Chunk, embed and store files (use - for stdin)",
				ArgsUsage: "FILE...",
				Action:    ingestCommand,
				Flags: append(chunkingFlags(),
					&cli.StringFlag{
						Name:  "id",
						Usage: "Document ID (single input only; defaults to the file path)",
					},
					&cli.StringFlag{
						Name:  "scope",
						Usage: "Scope tag stored with every chunk",
					},
					&cli.StringFlag{
						Name:  "business-id",
						Usage: "Business identifier stored with every chunk",
					},
					&cli.StringFlag{
						Name:  "dataset-id",
						Usage: "Dataset identifier stored with every chunk",
					},
					&cli.StringSliceFlag{
						Name:  "agent-key",
						Usage: "Agent key stored with every chunk (repeatable)",
					},
					&cli.IntFlag{
						Name:  "pool-size",
						Usage: "Number of documents processed concurrently",
					},
					&cli.DurationFlag{
						Name:  "timeout",
						Usage: "Per-document timeout (0 disables)",
					},
				),
			},
			{
				Name:      "chunk",
				Usage:     "Print the chunks of a file as JSON without storing them",
				ArgsUsage: "FILE",
				Action:    chunkCommand,
				Flags:     chunkingFlags(),
			},
			{
				Name:   "list",
				Usage:  "List stored documents",
				Action: listCommand,
				Flags:  filterFlags(),
			},
			{
				Name:      "show",
				Usage:     "Show a stored document and its chunks",
				ArgsUsage: "DOCUMENT_ID",
				Action:    showCommand,
				Flags: []cli.Flag{
					&cli.BoolFlag{
						Name:  "full",
						Usage: "Print complete chunk text",
					},
				},
			},
			{
				Name:      "delete",
				Usage:     "Delete stored documents",
				ArgsUsage: "DOCUMENT_ID...",
				Action:    deleteCommand,
			},
			{
				Name:   "reembed",
				Usage:  "Reembed all stored chunks with the configured embedder",
				Action: reembedCommand,
				Flags: append(filterFlags(),
					&cli.StringFlag{
						Name:  "embedding-provider",
						Usage: "Embedding provider (hash, openai)",
					},
					&cli.StringFlag{
						Name:  "embedding-host",
						Usage: "Embedding service host URL",
					},
					&cli.StringFlag{
						Name:  "embedding-model",
						Usage: "Embedding model name",
					},
					&cli.IntFlag{
						Name:  "dimensions",
						Usage: "Vector length of the hash provider",
					},
					&cli.IntFlag{
						Name:  "batch-size",
						Usage: "Number of chunks to embed in each batch",
						Value: 100,
					},
					&cli.IntFlag{
						Name:  "report-interval",
						Usage: "Report progress every N chunks",
						Value: 100,
					},
					&cli.IntFlag{
						Name:  "max-retries",
						Usage: "Maximum attempts for each embedding call",
						Value: 3,
					},
					&cli.DurationFlag{
						Name:  "retry-delay",
						Usage: "Base delay for exponential backoff",
						Value: 1 * time.Second,
					},
					&cli.BoolFlag{
						Name:  "normalize",
						Usage: "Scale vectors to unit length",
					},
				),
			},
		},
	}
}

func chunkingFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:    "strategy",
			Aliases: []string{"s"},
			Usage:   "Chunking strategy (auto, semantic, paragraph, sentence, markdown, code)",
		},
		&cli.IntFlag{
			Name:  "chunk-size",
			Usage: "Target chunk length in characters",
		},
		&cli.IntFlag{
			Name:  "overlap",
			Usage: "Characters repeated at the start of the next chunk",
		},
		&cli.StringFlag{
			Name:  "type",
			Usage: "Document type (TEXT, MARKDOWN, ...); defaults to the file extension",
		},
		&cli.StringFlag{
			Name:  "tokenizer",
			Usage: "Token counter: heuristic or a tiktoken encoding such as cl100k_base",
		},
	}
}

func filterFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:  "filter-scope",
			Usage: "Only documents with this scope",
		},
		&cli.StringFlag{
			Name:  "filter-business-id",
			Usage: "Only documents with this business identifier",
		},
		&cli.StringFlag{
			Name:  "filter-dataset-id",
			Usage: "Only documents with this dataset identifier",
		},
	}
}

func setupLogger(c *cli.Context) error {
	// Get log level from flag and normalize to lowercase
	levelStr := strings.ToLower(c.String("log-level"))

	var level slog.Level
	switch levelStr {
	case "debug":
		level = slog.LevelDebug
	case "info":
		level = slog.LevelInfo
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	default:
		return fmt.Errorf("invalid log level %q: must be one of debug, info, warn, error", levelStr)
	}

	logger := slog.New(slog.NewTextHandler(c.App.ErrWriter, &slog.HandlerOptions{
		Level: level,
	}))
	slog.SetDefault(logger)

	return nil
}
