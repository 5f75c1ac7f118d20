// Package kss provides the key storage service for files stored outside of the database,
// like company logos. There are two backends: the local filesystem and AWS S3.
package kss

import (
	"context"
	"io"
	"strings"
)

// Driver defines the interface for the KSS service
type Driver interface {
	// Upload stores data under key and returns the public URL of the stored object
	Upload(ctx context.Context, key, contentType string, data io.Reader) (URL string, err error)
	// Delete deletes the object stored under key
	Delete(ctx context.Context, key string) error
	// DeleteAllWithPrefix deletes all objects whose key starts with prefix
	DeleteAllWithPrefix(ctx context.Context, prefix string) error
}

// DriverType represents the different type of KSS Drivers
type DriverType string

// DriverTypeLocal is the local filesystem implementation of the KSS service
const DriverTypeLocal DriverType = "Local"

// DriverTypeAWSS3 is the AWS S3 implementation of the KSS service
const DriverTypeAWSS3 DriverType = "AWSS3"

// ExtensionForContentType returns the file extension for an image content type,
// or an empty string if the content type is not a supported image
func ExtensionForContentType(contentType string) string {
	if i := strings.IndexByte(contentType, ';'); i >= 0 {
		contentType = contentType[:i]
	}
	switch strings.TrimSpace(strings.ToLower(contentType)) {
	case "image/png":
		return ".png"
	case "image/jpeg":
		return ".jpg"
	case "image/gif":
		return ".gif"
	case "image/svg+xml":
		return ".svg"
	case "image/webp":
		return ".webp"
	}
	return ""
}

func validKey(key string) bool {
	return len(key) > 0 && !strings.Contains(key, "..") && !strings.HasPrefix(key, "/")
}
