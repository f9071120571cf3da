package ingest

import (
	"fmt"
	"strings"
	"time"

	"github.com/gwak2837/shabangnet-sub001/internal/domain/shared"
)

// UploadKind identifies where an uploaded file came from
type UploadKind string

const (
	UploadKindMall     UploadKind = "mall"     // arbitrary shopping-mall export
	UploadKindPlatform UploadKind = "platform" // central order platform export
)

// IsValid checks if the upload kind is valid
func (k UploadKind) IsValid() bool {
	return k == UploadKindMall || k == UploadKindPlatform
}

// UploadStatus represents the status of an ingestion run
type UploadStatus string

const (
	UploadStatusProcessing UploadStatus = "processing"
	UploadStatusCompleted  UploadStatus = "completed"
	UploadStatusError      UploadStatus = "error"
)

// IsTerminal returns true if this is a terminal state
func (s UploadStatus) IsTerminal() bool {
	return s == UploadStatusCompleted || s == UploadStatusError
}

// MetadataVersion is the current version of the Upload metadata payload
const MetadataVersion = 1

// ErrorSampleLimit caps the error samples kept on the audit record; the full
// error count is still reported in ErrorRows.
const ErrorSampleLimit = 20

// ErrorSample is one row-level error kept for operator review
type ErrorSample struct {
	Row     int    `json:"row"`
	Message string `json:"message"`
}

// Metadata is the versioned free-form payload persisted with an upload
type Metadata struct {
	V                        int           `json:"v"`
	Kind                     UploadKind    `json:"kind"`
	MallName                 string        `json:"mallName,omitempty"`
	Summary                  string        `json:"summary,omitempty"`
	ErrorSamples             []ErrorSample `json:"errorSamples,omitempty"`
	AutoCreatedManufacturers []string      `json:"autoCreatedManufacturers,omitempty"`
}

// Upload is one ingestion run's audit record. It is created when the run
// starts, finalized exactly once when the run ends, and immutable afterwards.
type Upload struct {
	shared.BaseEntity
	FileName        string       `gorm:"type:varchar(300);not null" json:"file_name"`
	FileSize        int64        `gorm:"not null;default:0" json:"file_size"`
	FileType        string       `gorm:"type:varchar(20)" json:"file_type"`
	TotalRows       int          `gorm:"not null;default:0" json:"total_rows"`
	ProcessedRows   int          `gorm:"not null;default:0" json:"processed_rows"`
	ErrorRows       int          `gorm:"not null;default:0" json:"error_rows"`
	Status          UploadStatus `gorm:"type:varchar(20);not null;default:'processing'" json:"status"`
	Metadata        Metadata     `gorm:"serializer:json;type:jsonb" json:"metadata"`
	ErrorMessage    string       `gorm:"type:text" json:"error_message,omitempty"`
	ResultObjectKey string       `gorm:"type:varchar(500)" json:"result_object_key,omitempty"`
	CompletedAt     *time.Time   `json:"completed_at,omitempty"`
}

// TableName returns the table name for GORM
func (Upload) TableName() string {
	return "uploads"
}

// NewUpload creates an upload audit record in the processing state
func NewUpload(kind UploadKind, fileName string, fileSize int64, mallName string) (*Upload, error) {
	if !kind.IsValid() {
		return nil, shared.NewDomainError("INVALID_UPLOAD_KIND", fmt.Sprintf("Invalid upload kind: %s", kind))
	}
	fileName = strings.TrimSpace(fileName)
	if fileName == "" {
		return nil, shared.NewDomainError("INVALID_FILE_NAME", "File name cannot be empty")
	}
	if fileSize < 0 {
		return nil, shared.NewDomainError("INVALID_FILE_SIZE", "File size cannot be negative")
	}

	fileType := strings.TrimPrefix(strings.ToLower(fileExt(fileName)), ".")

	return &Upload{
		BaseEntity: shared.NewBaseEntity(),
		FileName:   fileName,
		FileSize:   fileSize,
		FileType:   fileType,
		Status:     UploadStatusProcessing,
		Metadata: Metadata{
			V:        MetadataVersion,
			Kind:     kind,
			MallName: strings.TrimSpace(mallName),
		},
	}, nil
}

func fileExt(name string) string {
	if i := strings.LastIndex(name, "."); i >= 0 {
		return name[i:]
	}
	return ""
}

// Complete finalizes a successful run. Row-level errors do not prevent
// completion; they are counted and sampled.
func (u *Upload) Complete(totalRows, processedRows, errorRows int, summary string, samples []ErrorSample, autoCreated []string) error {
	if u.Status.IsTerminal() {
		return shared.NewDomainError("INVALID_STATE", fmt.Sprintf("Cannot complete upload from state: %s", u.Status))
	}

	u.Status = UploadStatusCompleted
	u.TotalRows = totalRows
	u.ProcessedRows = processedRows
	u.ErrorRows = errorRows
	u.Metadata.Summary = summary
	if len(samples) > ErrorSampleLimit {
		samples = samples[:ErrorSampleLimit]
	}
	u.Metadata.ErrorSamples = samples
	u.Metadata.AutoCreatedManufacturers = autoCreated
	now := time.Now()
	u.CompletedAt = &now
	u.UpdatedAt = now
	return nil
}

// Fail finalizes a run aborted by an unrecoverable error. All counts are
// zeroed: the surrounding transaction rolled back, so nothing was persisted.
func (u *Upload) Fail(message string) error {
	if u.Status.IsTerminal() {
		return shared.NewDomainError("INVALID_STATE", fmt.Sprintf("Cannot fail upload from state: %s", u.Status))
	}

	u.Status = UploadStatusError
	u.TotalRows = 0
	u.ProcessedRows = 0
	u.ErrorRows = 0
	u.ErrorMessage = message
	now := time.Now()
	u.CompletedAt = &now
	u.UpdatedAt = now
	return nil
}

// SetResultObjectKey records the storage key of the generated workbook
func (u *Upload) SetResultObjectKey(key string) {
	u.ResultObjectKey = key
}
