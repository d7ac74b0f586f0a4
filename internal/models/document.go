package models

import (
	"encoding/json"

	"gorm.io/datatypes"
)

// DocumentStatus is the pipeline state of an uploaded document.
type DocumentStatus string

const (
	StatusPending    DocumentStatus = "pending"
	StatusProcessing DocumentStatus = "processing"
	StatusCompleted  DocumentStatus = "completed"
	StatusProcessed  DocumentStatus = "processed"
	StatusError      DocumentStatus = "error"
)

// TaskStatusProcessed marks a finished pipeline step.
const TaskStatusProcessed = "processed"

const (
	FileTypePDF  = "pdf"
	FileTypeDOCX = "docx"
	FileTypeTXT  = "txt"
)

// Document is an uploaded file tracked by the processing pipeline.
type Document struct {
	Base
	Title         string         `json:"title"`
	FileType      string         `json:"file_type"`
	FileSize      int64          `json:"file_size"`
	FilePath      *string        `json:"file_path,omitempty"`
	Status        DocumentStatus `json:"status"`
	Error         *string        `json:"error"`
	Analysis      datatypes.JSON `json:"analysis"`
	ExtractedText string         `json:"extracted_text"`
	Metadata      datatypes.JSON `json:"metadata"`
}

func (Document) TableName() string { return "doc_processor_documents" }

// Analysis is the structured output of the analysis step.
type Analysis struct {
	Summary  string   `json:"summary"`
	Keywords []string `json:"keywords"`
}

// DocumentMetadata holds counts computed during extraction.
type DocumentMetadata struct {
	WordCount *int `json:"wordCount,omitempty"`
	PageCount *int `json:"pageCount,omitempty"`
}

// ParsedAnalysis decodes the analysis column. It returns nil when the
// column is empty, JSON null, or not an object.
func (d *Document) ParsedAnalysis() *Analysis {
	var a *Analysis
	if !decodeJSONColumn(d.Analysis, &a) {
		return nil
	}
	return a
}

// ParsedMetadata decodes the metadata column, nil when absent.
func (d *Document) ParsedMetadata() *DocumentMetadata {
	var m *DocumentMetadata
	if !decodeJSONColumn(d.Metadata, &m) {
		return nil
	}
	return m
}

// ErrorMessage returns the pipeline error, only while the document is in
// the error state.
func (d *Document) ErrorMessage() string {
	if d.Status != StatusError || d.Error == nil {
		return ""
	}
	return *d.Error
}

func decodeJSONColumn(raw datatypes.JSON, dest interface{}) bool {
	if len(raw) == 0 {
		return false
	}
	if err := json.Unmarshal(raw, dest); err != nil {
		return false
	}
	return true
}

// ProcessingTask is one step of the pipeline for a document.
type ProcessingTask struct {
	Base
	DocumentID string `json:"document_id" gorm:"index"`
	TaskType   string `json:"task_type"`
	Status     string `json:"status"`
}

func (ProcessingTask) TableName() string { return "doc_processor_processing_tasks" }

// DocumentChunk is a bounded slice of a document's extracted text.
type DocumentChunk struct {
	Base
	DocumentID string  `json:"document_id" gorm:"index"`
	ChunkIndex int     `json:"chunk_index"`
	Content    string  `json:"content"`
	TokenCount int     `json:"token_count"`
	Heading    *string `json:"heading,omitempty"`
	PageNumber *int    `json:"page_number,omitempty"`
}

func (DocumentChunk) TableName() string { return "doc_processor_document_chunks" }

// DocumentEntity is a named item extracted from a document.
type DocumentEntity struct {
	Base
	DocumentID string `json:"document_id" gorm:"index"`
	EntityType string `json:"entity_type"`
	EntityText string `json:"entity_text"`
}

func (DocumentEntity) TableName() string { return "doc_processor_document_entities" }
