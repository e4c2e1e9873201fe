package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"text/tabwriter"
	"unicode/utf8"

	"github.com/urfave/cli/v2"

	"github.com/poiesic/docingest"
	"github.com/poiesic/docingest/chunking"
	"github.com/poiesic/docingest/config"
	"github.com/poiesic/docingest/core"
	"github.com/poiesic/docingest/ingestion"
	"github.com/poiesic/docingest/reembed"
	"github.com/poiesic/docingest/storage"
)

// loadConfig reads the config file and environment, then applies flags.
func loadConfig(c *cli.Context) (config.Config, error) {
	cfg, err := config.Load(c.String("config"))
	if err != nil {
		return cfg, err
	}

	strs := map[string]*string{
		"db":                 &cfg.Database.Path,
		"strategy":           &cfg.Chunking.Strategy,
		"tokenizer":          &cfg.Chunking.Tokenizer,
		"scope":              &cfg.Ingest.Scope,
		"business-id":        &cfg.Ingest.BusinessID,
		"dataset-id":         &cfg.Ingest.DatasetID,
		"embedding-provider": &cfg.Embedding.Provider,
		"embedding-host":     &cfg.Embedding.Host,
		"embedding-model":    &cfg.Embedding.Model,
	}
	for name, dst := range strs {
		if c.IsSet(name) {
			*dst = c.String(name)
		}
	}

	ints := map[string]*int{
		"chunk-size": &cfg.Chunking.ChunkSize,
		"overlap":    &cfg.Chunking.Overlap,
		"pool-size":  &cfg.Ingest.PoolSize,
		"dimensions": &cfg.Embedding.Dimensions,
	}
	for name, dst := range ints {
		if c.IsSet(name) {
			*dst = c.Int(name)
		}
	}

	if c.IsSet("agent-key") {
		cfg.Ingest.AgentKeys = c.StringSlice("agent-key")
	}
	if c.IsSet("timeout") {
		cfg.Ingest.Timeout = c.Duration("timeout").String()
	}
	return cfg, nil
}

func openDatabase(cfg config.Config) (*docingest.Database, error) {
	if cfg.Database.Path == "" {
		return nil, errors.New("database path is required")
	}
	return docingest.NewDatabase(cfg.Database.Path, docingest.WithAIConfig(cfg.AIConfig()))
}

func newAssembler(cfg config.Config) (*chunking.Assembler, error) {
	counter, err := cfg.TokenCounter()
	if err != nil {
		return nil, err
	}
	return chunking.NewAssembler(chunking.WithTokenCounter(counter)), nil
}

// chunkingOptions resolves the chunking options for one input path.
func chunkingOptions(c *cli.Context, cfg config.Config, path string) (core.ChunkingOptions, error) {
	opts, err := cfg.ChunkingOptions()
	if err != nil {
		return opts, err
	}
	if c.IsSet("type") {
		opts.DocumentType, err = core.ParseDocumentType(c.String("type"))
		if err != nil {
			return opts, err
		}
	} else {
		opts.DocumentType = core.DocumentTypeFromExtension(filepath.Ext(path))
	}
	return opts, nil
}

func readInput(c *cli.Context, path string) (string, error) {
	if path == "-" {
		data, err := io.ReadAll(c.App.Reader)
		return string(data), err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return "", err
	}
	if !utf8.Valid(data) {
		return "", fmt.Errorf("%s: not valid UTF-8 text", path)
	}
	return string(data), nil
}

func ingestCommand(c *cli.Context) error {
	paths := c.Args().Slice()
	if len(paths) == 0 {
		return errors.New("at least one FILE is required")
	}
	if c.IsSet("id") && len(paths) != 1 {
		return errors.New("--id can only be used with a single FILE")
	}

	cfg, err := loadConfig(c)
	if err != nil {
		return err
	}

	docs := make([]ingestion.Document, len(paths))
	for i, path := range paths {
		chunkingOpts, err := chunkingOptions(c, cfg, path)
		if err != nil {
			return err
		}
		content, err := readInput(c, path)
		if err != nil {
			return err
		}

		id := path
		if c.IsSet("id") {
			id = c.String("id")
		}
		docs[i] = ingestion.Document{
			ID:      id,
			Content: content,
			Options: &ingestion.IngestOptions{
				Chunking:   chunkingOpts,
				Scope:      cfg.Ingest.Scope,
				BusinessID: cfg.Ingest.BusinessID,
				DatasetID:  cfg.Ingest.DatasetID,
				AgentKeys:  cfg.Ingest.AgentKeys,
			},
		}
	}

	assembler, err := newAssembler(cfg)
	if err != nil {
		return err
	}
	timeout, err := cfg.DocumentTimeout()
	if err != nil {
		return err
	}

	db, err := openDatabase(cfg)
	if err != nil {
		return err
	}
	defer db.Close()

	pipelineOpts := []ingestion.Option{
		ingestion.WithAssembler(assembler),
		ingestion.WithDocumentTimeout(timeout),
	}
	if cfg.Ingest.PoolSize > 0 {
		pipelineOpts = append(pipelineOpts, ingestion.WithPoolSize(cfg.Ingest.PoolSize))
	}
	pipeline, err := db.NewIngestionPipeline(pipelineOpts...)
	if err != nil {
		return err
	}
	defer pipeline.Release()

	batch := pipeline.BatchProcessDocuments(c.Context, docs)

	w := c.App.Writer
	for _, r := range batch.Results {
		if r.OK() {
			fmt.Fprintf(w, "%s\t%d chunks\n", r.DocumentID, r.ChunkCount)
		} else {
			fmt.Fprintf(w, "%s\tFAILED: %v\n", r.DocumentID, r.Err)
		}
	}
	fmt.Fprintf(w, "processed %d/%d documents\n", batch.Processed, len(docs))

	return batch.Err()
}

type chunkOutput struct {
	Index      int    `json:"index"`
	Strategy   string `json:"strategy"`
	Chars      int    `json:"chars"`
	Overlap    int    `json:"overlap"`
	EstTokens  int    `json:"est_tokens"`
	ReadingSec int    `json:"reading_sec"`
	Text       string `json:"text"`
}

func chunkCommand(c *cli.Context) error {
	if c.NArg() != 1 {
		return errors.New("exactly one FILE is required")
	}
	path := c.Args().First()

	cfg, err := loadConfig(c)
	if err != nil {
		return err
	}
	opts, err := chunkingOptions(c, cfg, path)
	if err != nil {
		return err
	}
	content, err := readInput(c, path)
	if err != nil {
		return err
	}
	assembler, err := newAssembler(cfg)
	if err != nil {
		return err
	}

	chunks, err := assembler.Chunk(content, opts)
	if err != nil {
		return err
	}

	out := make([]chunkOutput, len(chunks))
	for i, chunk := range chunks {
		out[i] = chunkOutput{
			Index:      chunk.Index,
			Strategy:   string(chunk.Meta.Strategy),
			Chars:      utf8.RuneCountInString(chunk.Text),
			Overlap:    chunk.Overlap,
			EstTokens:  chunk.Meta.EstTokens,
			ReadingSec: chunk.Meta.ReadingSec,
			Text:       chunk.Text,
		}
	}

	enc := json.NewEncoder(c.App.Writer)
	enc.SetIndent("", "  ")
	return enc.Encode(out)
}

func manifestFilter(c *cli.Context) storage.ManifestFilter {
	return storage.ManifestFilter{
		Scope:      c.String("filter-scope"),
		BusinessID: c.String("filter-business-id"),
		DatasetID:  c.String("filter-dataset-id"),
	}
}

func listCommand(c *cli.Context) error {
	cfg, err := loadConfig(c)
	if err != nil {
		return err
	}
	db, err := openDatabase(cfg)
	if err != nil {
		return err
	}
	defer db.Close()

	manifests, err := db.ChunkRepository().ListManifests(c.Context, manifestFilter(c))
	if err != nil {
		return err
	}

	tw := tabwriter.NewWriter(c.App.Writer, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "DOCUMENT\tTYPE\tCHUNKS\tSCOPE\tBUSINESS\tDATASET\tUPDATED")
	for _, m := range manifests {
		fmt.Fprintf(tw, "%s\t%s\t%d\t%s\t%s\t%s\t%s\n", m.DocumentID, m.DocumentType, m.ChunkCount,
			m.Scope, m.BusinessID, m.DatasetID, m.UpdatedAt.Format("2006-01-02 15:04:05"))
	}
	return tw.Flush()
}

func showCommand(c *cli.Context) error {
	if c.NArg() != 1 {
		return errors.New("exactly one DOCUMENT_ID is required")
	}
	documentID := c.Args().First()

	cfg, err := loadConfig(c)
	if err != nil {
		return err
	}
	db, err := openDatabase(cfg)
	if err != nil {
		return err
	}
	defer db.Close()

	repo := db.ChunkRepository()
	manifest, err := repo.GetManifest(c.Context, documentID)
	if err != nil {
		return fmt.Errorf("%s: %w", documentID, err)
	}
	chunks, err := repo.GetDocumentChunks(c.Context, documentID)
	if err != nil {
		return fmt.Errorf("%s: %w", documentID, err)
	}

	w := c.App.Writer
	fmt.Fprintf(w, "Document: %s\n", manifest.DocumentID)
	fmt.Fprintf(w, "Type:     %s\n", manifest.DocumentType)
	fmt.Fprintf(w, "Scope:    %s\n", manifest.Scope)
	if manifest.BusinessID != "" {
		fmt.Fprintf(w, "Business: %s\n", manifest.BusinessID)
	}
	if manifest.DatasetID != "" {
		fmt.Fprintf(w, "Dataset:  %s\n", manifest.DatasetID)
	}
	fmt.Fprintf(w, "Chunks:   %d\n", manifest.ChunkCount)

	for _, chunk := range chunks {
		fmt.Fprintf(w, "\n[%d] %s, %d tokens, %ds, %d dims, id %016x\n", chunk.Index, chunk.Meta.Strategy,
			chunk.Meta.EstTokens, chunk.Meta.ReadingSec, len(chunk.Embedding), uint64(chunk.Id))
		text := chunk.Content
		if !c.Bool("full") {
			text = preview(text, 80)
		}
		fmt.Fprintln(w, text)
	}
	return nil
}

// preview shortens s to at most n runes.
func preview(s string, n int) string {
	if utf8.RuneCountInString(s) <= n {
		return s
	}
	runes := []rune(s)
	return string(runes[:n-3]) + "..."
}

func deleteCommand(c *cli.Context) error {
	if c.NArg() == 0 {
		return errors.New("at least one DOCUMENT_ID is required")
	}

	cfg, err := loadConfig(c)
	if err != nil {
		return err
	}
	db, err := openDatabase(cfg)
	if err != nil {
		return err
	}
	defer db.Close()

	var errs []error
	for _, documentID := range c.Args().Slice() {
		if err := db.ChunkRepository().DeleteDocument(c.Context, documentID); err != nil {
			errs = append(errs, fmt.Errorf("%s: %w", documentID, err))
			continue
		}
		fmt.Fprintf(c.App.Writer, "deleted %s\n", documentID)
	}
	return errors.Join(errs...)
}

func reembedCommand(c *cli.Context) error {
	cfg, err := loadConfig(c)
	if err != nil {
		return err
	}
	db, err := openDatabase(cfg)
	if err != nil {
		return err
	}
	defer db.Close()

	reembedConfig := &reembed.Config{
		BatchSize:      c.Int("batch-size"),
		ReportInterval: c.Int("report-interval"),
		MaxRetries:     c.Int("max-retries"),
		RetryDelay:     c.Duration("retry-delay"),
		Normalize:      c.Bool("normalize"),
		Filter:         manifestFilter(c),
	}

	_, err = db.NewReembedder(nil, reembedConfig, c.App.ErrWriter).Run(c.Context)
	return err
}
