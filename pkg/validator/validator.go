package validator

import (
	"fmt"
	"mime"
	"path"
	"regexp"
	"strings"
)

const (
	maxFileNameLen    = 255
	maxFolderPathLen  = 1024
	maxImageSizeBytes = int64(5 * 1024 * 1024)
	asciiControlStart = 32
	asciiDelete       = 127

	// RootSentinel is the reserved name for the top-level uploads location.
	// It is never a legal segment inside a folder path.
	RootSentinel = "root"

	errNameEmptyFmt              = "name is empty after sanitization"
	errFileNameEmptyFmt          = "file name cannot be empty"
	errFileNameMaxLengthFmt      = "file name must not exceed %d characters"
	errFileNamePathSepFmt        = "file name cannot contain path separators"
	errFileNameControlCharsFmt   = "file name cannot contain control characters"
	errFolderPathEmptyFmt        = "folder path cannot be empty"
	errFolderPathMaxLengthFmt    = "folder path must not exceed %d characters"
	errFolderPathBackslashFmt    = "folder path cannot contain backslashes"
	errFolderPathEdgeSlashFmt    = "folder path cannot start or end with a slash"
	errFolderPathEmptySegFmt     = "folder path contains empty segment"
	errFolderPathTraversalFmt    = "folder path cannot contain path traversal"
	errFolderPathReservedFmt     = "folder path cannot contain the reserved segment %q"
	errFolderPathBadSegmentFmt   = "folder path segment %q contains illegal characters"
	errContentTypeInvalidFmt     = "invalid content type"
	errContentTypeNotImageFmt    = "content type %q is not an image type"
	errImageSizeNegativeFmt      = "image size cannot be negative"
	errImageSizeMaxFmt           = "image exceeds maximum size of %d bytes"
)

var (
	whitespaceRun  = regexp.MustCompile(`\s+`)
	disallowedChar = regexp.MustCompile(`[^a-z0-9\-_]`)
	hyphenRun      = regexp.MustCompile(`-{2,}`)
	underscoreRun  = regexp.MustCompile(`_{2,}`)
	safeSegment    = regexp.MustCompile(`^[a-z0-9\-_]+$`)
)

// SanitizeName normalizes a user-supplied folder name into a safe path
// segment: lowercased, whitespace runs folded to single hyphens, anything
// outside [a-z0-9-_] stripped, repeated separators collapsed. The result of a
// second pass is always identical to the first.
func SanitizeName(raw string) (string, error) {
	s := strings.ToLower(raw)
	s = whitespaceRun.ReplaceAllString(s, "-")
	s = disallowedChar.ReplaceAllString(s, "")
	s = hyphenRun.ReplaceAllString(s, "-")
	s = underscoreRun.ReplaceAllString(s, "_")

	if s == "" {
		return "", fmt.Errorf(errNameEmptyFmt)
	}

	return s, nil
}

// JoinPath composes a full folder path from a parent path and a sanitized
// leaf segment. An empty parent means the uploads root.
func JoinPath(parentPath, name string) string {
	if parentPath == "" {
		return name
	}
	return strings.TrimRight(parentPath, "/") + "/" + name
}

// FolderPath validates a caller-supplied slash-joined folder path. This is
// the sole defense against path traversal: every externally supplied path
// must pass here before it reaches a storage backend.
func FolderPath(p string) error {
	if p == "" {
		return fmt.Errorf(errFolderPathEmptyFmt)
	}

	if len(p) > maxFolderPathLen {
		return fmt.Errorf(errFolderPathMaxLengthFmt, maxFolderPathLen)
	}

	if strings.Contains(p, "\\") {
		return fmt.Errorf(errFolderPathBackslashFmt)
	}

	if strings.HasPrefix(p, "/") || strings.HasSuffix(p, "/") {
		return fmt.Errorf(errFolderPathEdgeSlashFmt)
	}

	for _, seg := range strings.Split(p, "/") {
		if seg == "" {
			return fmt.Errorf(errFolderPathEmptySegFmt)
		}
		if seg == ".." || seg == "." {
			return fmt.Errorf(errFolderPathTraversalFmt)
		}
		if seg == RootSentinel {
			return fmt.Errorf(errFolderPathReservedFmt, RootSentinel)
		}
		if !safeSegment.MatchString(seg) {
			return fmt.Errorf(errFolderPathBadSegmentFmt, seg)
		}
	}

	return nil
}

// IsValidPath reports whether FolderPath accepts p.
func IsValidPath(p string) bool {
	return FolderPath(p) == nil
}

// FileName validates a storage key leaf supplied by a caller.
func FileName(name string) error {
	if name == "" {
		return fmt.Errorf(errFileNameEmptyFmt)
	}

	if len(name) > maxFileNameLen {
		return fmt.Errorf(errFileNameMaxLengthFmt, maxFileNameLen)
	}

	if strings.Contains(name, "..") || strings.Contains(name, "/") || strings.Contains(name, "\\") {
		return fmt.Errorf(errFileNamePathSepFmt)
	}

	for _, char := range name {
		if char < asciiControlStart || char == asciiDelete {
			return fmt.Errorf(errFileNameControlCharsFmt)
		}
	}

	return nil
}

// SanitizeFileName normalizes an original upload name, preserving a lowercase
// alphanumeric extension when one exists.
func SanitizeFileName(raw string) (string, error) {
	ext := strings.ToLower(path.Ext(raw))
	base := strings.TrimSuffix(raw, path.Ext(raw))

	safeBase, err := SanitizeName(base)
	if err != nil {
		return "", err
	}

	ext = disallowedChar.ReplaceAllString(ext[min(len(ext), 1):], "")
	if ext == "" {
		return safeBase, nil
	}

	return safeBase + "." + ext, nil
}

// ImageContentType accepts only image/* media types.
func ImageContentType(contentType string) error {
	mediaType, _, err := mime.ParseMediaType(contentType)
	if err != nil {
		return fmt.Errorf(errContentTypeInvalidFmt)
	}

	if !strings.HasPrefix(mediaType, "image/") {
		return fmt.Errorf(errContentTypeNotImageFmt, mediaType)
	}

	return nil
}

// ImageSize enforces the upload payload cap.
func ImageSize(size int64) error {
	if size < 0 {
		return fmt.Errorf(errImageSizeNegativeFmt)
	}

	if size > maxImageSizeBytes {
		return fmt.Errorf(errImageSizeMaxFmt, maxImageSizeBytes)
	}

	return nil
}

// MaxImageSizeBytes is the upload payload cap shared with transport limits.
func MaxImageSizeBytes() int64 {
	return maxImageSizeBytes
}
