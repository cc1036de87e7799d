// Copyright 2026 The Go Pebble Authors
// SPDX-License-Identifier: Apache-2.0

package pebble

import (
	"fmt"

	"github.com/go-json-experiment/json"
	"github.com/go-json-experiment/json/jsontext"
)

// PartKind discriminates the variants of the Part union.
type PartKind string

// Registered Part discriminant values.
const (
	PartKindText PartKind = "text"
	PartKindFile PartKind = "file"
	PartKindData PartKind = "data"
)

// Part is a tagged content fragment composed into Messages and
// Artifacts. The kind discriminant uniquely determines which other
// fields are legal and required; no variant may carry another variant's
// required field. Concrete variants are TextPart, FilePart, and
// DataPart.
type Part interface {
	// PartKind returns the discriminant value of the variant.
	PartKind() PartKind
	// Validate ensures the variant's required fields are populated.
	Validate() error
}

// partDecoders maps each discriminant value to its variant decoder.
// The discriminant is checked before any other field is read.
var partDecoders = map[PartKind]func(data []byte) (Part, error){
	PartKindText: decodeTextPart,
	PartKindFile: decodeFilePart,
	PartKindData: decodeDataPart,
}

// UnmarshalPart decodes a single content part, dispatching on the kind
// discriminant. A missing or unregistered discriminant yields an
// unknown-discriminant SchemaError; a recognized discriminant with an
// invalid field set yields a shape-mismatch SchemaError.
func UnmarshalPart(data []byte) (Part, error) {
	if err := CheckDepth("Part", data); err != nil {
		return nil, err
	}

	var peek struct {
		Kind *PartKind `json:"kind"`
	}
	if err := json.Unmarshal(data, &peek); err != nil {
		return nil, errShapeMismatch("Part", "", nil, err)
	}
	if peek.Kind == nil {
		return nil, errUnknownDiscriminant("Part", "")
	}

	decode, ok := partDecoders[*peek.Kind]
	if !ok {
		return nil, errUnknownDiscriminant("Part", string(*peek.Kind))
	}
	return decode(data)
}

// MarshalPart encodes a single content part with its kind discriminant.
func MarshalPart(p Part) ([]byte, error) {
	return json.Marshal(p)
}

func unmarshalParts(entity string, raw []jsontext.Value) ([]Part, error) {
	if raw == nil {
		return nil, nil
	}
	parts := make([]Part, len(raw))
	for i, v := range raw {
		p, err := UnmarshalPart(v)
		if err != nil {
			return nil, fmt.Errorf("%s parts[%d]: %w", entity, i, err)
		}
		parts[i] = p
	}
	return parts, nil
}

// TextPart is a text segment.
type TextPart struct {
	// Text is the text content of the part.
	Text string
	// Metadata carries arbitrary part metadata.
	Metadata map[string]any
	// Embeddings optionally carries an embedding vector for the text.
	Embeddings []float64
}

var _ Part = (*TextPart)(nil)

// PartKind implements Part.
func (*TextPart) PartKind() PartKind { return PartKindText }

// Validate implements Part. An empty string is a valid text payload;
// presence is enforced at decode time.
func (p *TextPart) Validate() error { return nil }

type textPartWire struct {
	Kind       PartKind       `json:"kind"`
	Text       *string        `json:"text,omitzero"`
	Metadata   map[string]any `json:"metadata,omitzero"`
	Embeddings []float64      `json:"embeddings,omitzero"`
}

// MarshalJSON implements json.Marshaler.
func (p *TextPart) MarshalJSON() ([]byte, error) {
	return json.Marshal(textPartWire{
		Kind:       PartKindText,
		Text:       &p.Text,
		Metadata:   p.Metadata,
		Embeddings: p.Embeddings,
	})
}

// UnmarshalJSON implements json.Unmarshaler.
func (p *TextPart) UnmarshalJSON(data []byte) error {
	decoded, err := decodeTextPart(data)
	if err != nil {
		return err
	}
	*p = *decoded.(*TextPart)
	return nil
}

func decodeTextPart(data []byte) (Part, error) {
	var wire textPartWire
	if err := json.Unmarshal(data, &wire, json.RejectUnknownMembers(true)); err != nil {
		return nil, errShapeMismatch("Part", string(PartKindText), nil, err)
	}
	if wire.Kind != PartKindText {
		return nil, errShapeMismatch("Part", string(PartKindText), nil, nil)
	}
	if wire.Text == nil {
		return nil, errShapeMismatch("Part", string(PartKindText), []string{"text"}, nil)
	}
	return &TextPart{
		Text:       *wire.Text,
		Metadata:   wire.Metadata,
		Embeddings: wire.Embeddings,
	}, nil
}

// FilePart is a file segment. The file content is carried either inline
// as base64 bytes or by URI reference, never both.
type FilePart struct {
	// File locates the file content.
	File FileContent
	// Metadata carries arbitrary part metadata.
	Metadata map[string]any
	// Embeddings optionally carries an embedding vector for the file.
	Embeddings []float64
}

var _ Part = (*FilePart)(nil)

// PartKind implements Part.
func (*FilePart) PartKind() PartKind { return PartKindFile }

// Validate implements Part.
func (p *FilePart) Validate() error {
	if p.File == nil {
		return errShapeMismatch("Part", string(PartKindFile), []string{"file"}, nil)
	}
	return p.File.Validate()
}

type filePartWire struct {
	Kind       PartKind       `json:"kind"`
	File       jsontext.Value `json:"file,omitzero"`
	Metadata   map[string]any `json:"metadata,omitzero"`
	Embeddings []float64      `json:"embeddings,omitzero"`
}

type filePartEncodeWire struct {
	Kind       PartKind       `json:"kind"`
	File       FileContent    `json:"file"`
	Metadata   map[string]any `json:"metadata,omitzero"`
	Embeddings []float64      `json:"embeddings,omitzero"`
}

// MarshalJSON implements json.Marshaler.
func (p *FilePart) MarshalJSON() ([]byte, error) {
	return json.Marshal(filePartEncodeWire{
		Kind:       PartKindFile,
		File:       p.File,
		Metadata:   p.Metadata,
		Embeddings: p.Embeddings,
	})
}

// UnmarshalJSON implements json.Unmarshaler.
func (p *FilePart) UnmarshalJSON(data []byte) error {
	decoded, err := decodeFilePart(data)
	if err != nil {
		return err
	}
	*p = *decoded.(*FilePart)
	return nil
}

func decodeFilePart(data []byte) (Part, error) {
	var wire filePartWire
	if err := json.Unmarshal(data, &wire, json.RejectUnknownMembers(true)); err != nil {
		return nil, errShapeMismatch("Part", string(PartKindFile), nil, err)
	}
	if wire.Kind != PartKindFile {
		return nil, errShapeMismatch("Part", string(PartKindFile), nil, nil)
	}
	if wire.File == nil {
		return nil, errShapeMismatch("Part", string(PartKindFile), []string{"file"}, nil)
	}
	file, err := UnmarshalFileContent(wire.File)
	if err != nil {
		return nil, err
	}
	return &FilePart{
		File:       file,
		Metadata:   wire.Metadata,
		Embeddings: wire.Embeddings,
	}, nil
}

// DataPart is a structured data segment, e.g. an embedded JSON object.
type DataPart struct {
	// Data is the structured payload.
	Data map[string]any
	// Metadata carries arbitrary part metadata.
	Metadata map[string]any
	// Embeddings optionally carries an embedding vector for the data.
	Embeddings []float64
}

var _ Part = (*DataPart)(nil)

// PartKind implements Part.
func (*DataPart) PartKind() PartKind { return PartKindData }

// Validate implements Part.
func (p *DataPart) Validate() error {
	if p.Data == nil {
		return errShapeMismatch("Part", string(PartKindData), []string{"data"}, nil)
	}
	return nil
}

type dataPartWire struct {
	Kind       PartKind       `json:"kind"`
	Data       map[string]any `json:"data,omitzero"`
	Metadata   map[string]any `json:"metadata,omitzero"`
	Embeddings []float64      `json:"embeddings,omitzero"`
}

// MarshalJSON implements json.Marshaler.
func (p *DataPart) MarshalJSON() ([]byte, error) {
	data := p.Data
	if data == nil {
		data = map[string]any{}
	}
	return json.Marshal(struct {
		Kind       PartKind       `json:"kind"`
		Data       map[string]any `json:"data"`
		Metadata   map[string]any `json:"metadata,omitzero"`
		Embeddings []float64      `json:"embeddings,omitzero"`
	}{
		Kind:       PartKindData,
		Data:       data,
		Metadata:   p.Metadata,
		Embeddings: p.Embeddings,
	})
}

// UnmarshalJSON implements json.Unmarshaler.
func (p *DataPart) UnmarshalJSON(data []byte) error {
	decoded, err := decodeDataPart(data)
	if err != nil {
		return err
	}
	*p = *decoded.(*DataPart)
	return nil
}

func decodeDataPart(data []byte) (Part, error) {
	var wire dataPartWire
	if err := json.Unmarshal(data, &wire, json.RejectUnknownMembers(true)); err != nil {
		return nil, errShapeMismatch("Part", string(PartKindData), nil, err)
	}
	if wire.Kind != PartKindData {
		return nil, errShapeMismatch("Part", string(PartKindData), nil, nil)
	}
	if wire.Data == nil {
		return nil, errShapeMismatch("Part", string(PartKindData), []string{"data"}, nil)
	}
	return &DataPart{
		Data:       wire.Data,
		Metadata:   wire.Metadata,
		Embeddings: wire.Embeddings,
	}, nil
}

// FileContent locates the content of a FilePart. Exactly one locator
// form is present per instance: FileWithBytes carries the content
// inline, FileWithURI carries a reference.
type FileContent interface {
	// Validate ensures the locator's required fields are populated.
	Validate() error

	fileContentForm()
}

// FileWithBytes is file content embedded as a base64-encoded string.
type FileWithBytes struct {
	// Bytes is the base64-encoded file content.
	Bytes string `json:"bytes"`
	// MimeType is the MIME type of the file.
	MimeType string `json:"mimeType,omitzero"`
	// Name is the file name.
	Name string `json:"name,omitzero"`
}

var _ FileContent = (*FileWithBytes)(nil)

func (*FileWithBytes) fileContentForm() {}

// Validate implements FileContent.
func (f *FileWithBytes) Validate() error {
	if f.Bytes == "" {
		return errShapeMismatch("FileContent", "bytes", []string{"bytes"}, nil)
	}
	return nil
}

// FileWithURI is file content referenced by URI.
type FileWithURI struct {
	// URI references the file content.
	URI string `json:"uri"`
	// MimeType is the MIME type of the file.
	MimeType string `json:"mimeType,omitzero"`
	// Name is the file name.
	Name string `json:"name,omitzero"`
}

var _ FileContent = (*FileWithURI)(nil)

func (*FileWithURI) fileContentForm() {}

// Validate implements FileContent.
func (f *FileWithURI) Validate() error {
	if f.URI == "" {
		return errShapeMismatch("FileContent", "uri", []string{"uri"}, nil)
	}
	return nil
}

// UnmarshalFileContent decodes the content locator of a FilePart,
// requiring exactly one of the bytes and uri forms.
func UnmarshalFileContent(data []byte) (FileContent, error) {
	var wire struct {
		Bytes    *string `json:"bytes,omitzero"`
		URI      *string `json:"uri,omitzero"`
		MimeType string  `json:"mimeType,omitzero"`
		Name     string  `json:"name,omitzero"`
	}
	if err := json.Unmarshal(data, &wire, json.RejectUnknownMembers(true)); err != nil {
		return nil, errShapeMismatch("FileContent", "", nil, err)
	}
	switch {
	case wire.Bytes != nil && wire.URI != nil:
		return nil, errShapeMismatch("FileContent", "", nil, nil)
	case wire.Bytes != nil:
		return &FileWithBytes{Bytes: *wire.Bytes, MimeType: wire.MimeType, Name: wire.Name}, nil
	case wire.URI != nil:
		return &FileWithURI{URI: *wire.URI, MimeType: wire.MimeType, Name: wire.Name}, nil
	default:
		return nil, errShapeMismatch("FileContent", "", []string{"bytes", "uri"}, nil)
	}
}
