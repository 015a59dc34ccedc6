package entities

import (
	"encoding/base64"
	"fmt"
)

// Encoding tags how FileContent.Content is represented.
type Encoding string

const (
	// EncodingRaw means Content holds the file text as-is.
	EncodingRaw Encoding = "utf-8"
	// EncodingBase64 means Content holds the base64 encoded file bytes,
	// possibly wrapped across several lines.
	EncodingBase64 Encoding = "base64"
)

// FileContent is the current state of one file in the target repository,
// exactly as the provider reported it. Resolvers never decode it.
type FileContent struct {
	Path     string
	Encoding Encoding
	Content  string
}

// Text decodes Content according to Encoding.
func (f FileContent) Text() (string, error) {
	switch f.Encoding {
	case EncodingRaw, "":
		return f.Content, nil
	case EncodingBase64:
		decoded, err := base64.StdEncoding.DecodeString(f.Content)
		if err != nil {
			return "", fmt.Errorf("failed to decode base64 content of %q: %w", f.Path, err)
		}
		return string(decoded), nil
	default:
		return "", fmt.Errorf("unsupported encoding %q for %q", f.Encoding, f.Path)
	}
}
