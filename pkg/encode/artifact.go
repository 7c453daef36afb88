// Package encode converts uploaded drawing files into the transport-safe
// inline representation consumed by extraction requests.
package encode

import (
	"encoding/base64"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
)

// Artifact is one encoded input file: a base64 payload plus its declared
// media type. The payload round-trips byte-exactly through Decode.
type Artifact struct {
	Data     string `json:"data"`
	MIMEType string `json:"mimeType"`
	Name     string `json:"name,omitempty"`
}

// EncodingError reports a failure to read a source file to completion.
// An encoding failure is fatal to the whole run: no extraction can proceed
// without the drawings.
type EncodingError struct {
	Name string
	Err  error
}

func (e *EncodingError) Error() string {
	return fmt.Sprintf("encode artifact %q: %v", e.Name, e.Err)
}

func (e *EncodingError) Unwrap() error { return e.Err }

// FromReader encodes everything readable from r into an Artifact.
func FromReader(r io.Reader, name, mimeType string) (Artifact, error) {
	raw, err := io.ReadAll(r)
	if err != nil {
		return Artifact{}, &EncodingError{Name: name, Err: err}
	}
	return Artifact{
		Data:     base64.StdEncoding.EncodeToString(raw),
		MIMEType: mimeType,
		Name:     name,
	}, nil
}

// FromFile encodes the file at path, inferring the media type from the
// extension when mimeType is empty.
func FromFile(path, mimeType string) (Artifact, error) {
	f, err := os.Open(path)
	if err != nil {
		return Artifact{}, &EncodingError{Name: filepath.Base(path), Err: err}
	}
	defer f.Close()

	if mimeType == "" {
		mimeType = mimeTypeForExt(filepath.Ext(path))
	}
	return FromReader(f, filepath.Base(path), mimeType)
}

// Decode returns the raw bytes of the artifact payload.
func (a Artifact) Decode() ([]byte, error) {
	raw, err := base64.StdEncoding.DecodeString(a.Data)
	if err != nil {
		return nil, fmt.Errorf("decode artifact %q: %w", a.Name, err)
	}
	return raw, nil
}

// Drawings are expected as PDFs; images show up occasionally.
func mimeTypeForExt(ext string) string {
	switch strings.ToLower(ext) {
	case ".pdf":
		return "application/pdf"
	case ".png":
		return "image/png"
	case ".jpg", ".jpeg":
		return "image/jpeg"
	default:
		return "application/octet-stream"
	}
}
