package app

import (
	"io"
	"time"
)

// UploadImageRequest carries one inbound image upload.
type UploadImageRequest struct {
	Reader      io.Reader
	FileName    string
	ContentType string
	SizeBytes   int64
	Folder      string // full folder path, or the root sentinel
}

// UploadImageResponse is the stable reference issued for an uploaded image.
type UploadImageResponse struct {
	URL      string `json:"url"`
	Filename string `json:"filename"`
	Folder   string `json:"folder"`
}

// ImageInfo describes one stored image in a folder listing.
type ImageInfo struct {
	URL        string    `json:"url"`
	Filename   string    `json:"filename"`
	Size       int64     `json:"size"`
	UploadedAt time.Time `json:"uploadedAt"`
}
