package core

import (
	"errors"
	"testing"
)

func TestValidateChunkingOptions(t *testing.T) {
	tests := []struct {
		name    string
		opts    ChunkingOptions
		wantErr error
	}{
		{
			name:    "defaults are valid",
			opts:    DefaultChunkingOptions(),
			wantErr: nil,
		},
		{
			name:    "zero overlap",
			opts:    ChunkingOptions{ChunkSize: 10, Overlap: 0, Strategy: StrategySentence, DocumentType: DocumentTypeText},
			wantErr: nil,
		},
		{
			name:    "zero chunk size",
			opts:    ChunkingOptions{ChunkSize: 0, Overlap: 0, Strategy: StrategyAuto, DocumentType: DocumentTypeText},
			wantErr: ErrInvalidChunkSize,
		},
		{
			name:    "negative chunk size",
			opts:    ChunkingOptions{ChunkSize: -5, Strategy: StrategyAuto, DocumentType: DocumentTypeText},
			wantErr: ErrInvalidChunkSize,
		},
		{
			name:    "overlap equal to chunk size",
			opts:    ChunkingOptions{ChunkSize: 100, Overlap: 100, Strategy: StrategyAuto, DocumentType: DocumentTypeText},
			wantErr: ErrInvalidOverlap,
		},
		{
			name:    "overlap larger than chunk size",
			opts:    ChunkingOptions{ChunkSize: 100, Overlap: 150, Strategy: StrategyAuto, DocumentType: DocumentTypeText},
			wantErr: ErrInvalidOverlap,
		},
		{
			name:    "negative overlap",
			opts:    ChunkingOptions{ChunkSize: 100, Overlap: -1, Strategy: StrategyAuto, DocumentType: DocumentTypeText},
			wantErr: ErrInvalidOverlap,
		},
		{
			name:    "unknown strategy",
			opts:    ChunkingOptions{ChunkSize: 100, Overlap: 10, Strategy: "fancy", DocumentType: DocumentTypeText},
			wantErr: ErrUnknownStrategy,
		},
		{
			name:    "unknown document type",
			opts:    ChunkingOptions{ChunkSize: 100, Overlap: 10, Strategy: StrategyAuto, DocumentType: "ODT"},
			wantErr: ErrUnknownDocumentType,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateChunkingOptions(tt.opts)

			if tt.wantErr == nil {
				if err != nil {
					t.Errorf("ValidateChunkingOptions() unexpected error = %v", err)
				}
				return
			}

			if err == nil {
				t.Fatalf("ValidateChunkingOptions() expected error %v, got nil", tt.wantErr)
			}
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("ValidateChunkingOptions() error = %v, want %v", err, tt.wantErr)
			}
			if !errors.Is(err, ErrConfiguration) {
				t.Errorf("ValidateChunkingOptions() error = %v, should wrap ErrConfiguration", err)
			}
		})
	}
}

func TestValidateStorageRecord(t *testing.T) {
	valid := func() *StorageRecord {
		return &StorageRecord{
			Id:         1,
			DocumentID: "doc",
			Content:    "text",
			Embedding:  []float32{0.1},
			Scope:      DefaultScope,
		}
	}

	tests := []struct {
		name    string
		record  *StorageRecord
		wantErr error
	}{
		{name: "valid", record: valid(), wantErr: nil},
		{name: "nil record", record: nil, wantErr: ErrInvalidRecord},
		{
			name: "empty document id",
			record: func() *StorageRecord {
				r := valid()
				r.DocumentID = ""
				return r
			}(),
			wantErr: ErrEmptyDocumentID,
		},
		{
			name: "empty content",
			record: func() *StorageRecord {
				r := valid()
				r.Content = ""
				return r
			}(),
			wantErr: ErrEmptyContent,
		},
		{
			name: "empty embedding",
			record: func() *StorageRecord {
				r := valid()
				r.Embedding = nil
				return r
			}(),
			wantErr: ErrEmptyEmbedding,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateStorageRecord(tt.record)
			if tt.wantErr == nil {
				if err != nil {
					t.Errorf("ValidateStorageRecord() unexpected error = %v", err)
				}
				return
			}
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("ValidateStorageRecord() error = %v, want %v", err, tt.wantErr)
			}
		})
	}
}
