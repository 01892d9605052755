package domain

import "time"

// Folder groups documents.
type Folder struct {
	ID            int64     `json:"id"`
	Name          string    `json:"name"`
	Parent        *int64    `json:"parent,omitempty"`
	Property      *int64    `json:"property,omitempty"`
	DocumentCount int       `json:"document_count,omitempty"`
	CreatedAt     time.Time `json:"created_at"`
}

func (f Folder) RecordID() int64 { return f.ID }
func (f Folder) Label() string   { return f.Name + "/" }

// Document is an uploaded file.
type Document struct {
	ID           int64     `json:"id"`
	Title        string    `json:"title"`
	Description  string    `json:"description,omitempty"`
	DocumentType string    `json:"document_type,omitempty"`
	File         string    `json:"file"`
	FileSize     int64     `json:"file_size,omitempty"`
	Folder       *int64    `json:"folder,omitempty"`
	Property     *int64    `json:"property,omitempty"`
	Tenant       *int64    `json:"tenant,omitempty"`
	Lease        *int64    `json:"lease,omitempty"`
	CreatedAt    time.Time `json:"created_at"`
}

func (d Document) RecordID() int64 { return d.ID }
func (d Document) Label() string   { return d.Title }

// DocumentUpload is the multipart payload for a new document.
type DocumentUpload struct {
	Title        string
	Description  string
	DocumentType string
	Folder       *int64
	Property     *int64
	FileName     string
	Content      []byte
}
