package client

import (
	"bytes"
	"encoding/json"
	"fmt"
	"mime/multipart"
	"net/textproto"
)

type PartKind int

const (
	PartText PartKind = iota
	PartJSON
	PartBinary
)

// Part is one named field of a multipart body
type Part struct {
	Name        string
	Kind        PartKind
	Value       string
	Data        []byte
	Filename    string
	ContentType string
}

// MultipartForm keeps parts in the order they were added
type MultipartForm struct {
	parts []Part
}

func NewMultipartForm() *MultipartForm {
	return &MultipartForm{}
}

func (f *MultipartForm) AddText(name, value string) {
	f.parts = append(f.parts, Part{Name: name, Kind: PartText, Value: value})
}

// AddJSON marshals v and sends it as a string field
func (f *MultipartForm) AddJSON(name string, v interface{}) error {
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("encode %s: %w", name, err)
	}
	f.parts = append(f.parts, Part{Name: name, Kind: PartJSON, Value: string(data)})
	return nil
}

func (f *MultipartForm) AddFile(name, filename, contentType string, data []byte) {
	f.parts = append(f.parts, Part{Name: name, Kind: PartBinary, Filename: filename, ContentType: contentType, Data: data})
}

func (f *MultipartForm) Parts() []Part {
	return f.parts
}

// Part returns the first part with name
func (f *MultipartForm) Part(name string) (Part, bool) {
	for _, p := range f.parts {
		if p.Name == name {
			return p, true
		}
	}
	return Part{}, false
}

// Encode renders the body and returns it with its Content-Type header value
func (f *MultipartForm) Encode() ([]byte, string, error) {
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)

	for _, p := range f.parts {
		switch p.Kind {
		case PartText, PartJSON:
			if err := w.WriteField(p.Name, p.Value); err != nil {
				return nil, "", err
			}
		case PartBinary:
			h := make(textproto.MIMEHeader)
			h.Set("Content-Disposition", fmt.Sprintf(`form-data; name=%q; filename=%q`, p.Name, p.Filename))
			contentType := p.ContentType
			if contentType == "" {
				contentType = "application/octet-stream"
			}
			h.Set("Content-Type", contentType)
			pw, err := w.CreatePart(h)
			if err != nil {
				return nil, "", err
			}
			if _, err := pw.Write(p.Data); err != nil {
				return nil, "", err
			}
		}
	}

	if err := w.Close(); err != nil {
		return nil, "", err
	}
	return buf.Bytes(), w.FormDataContentType(), nil
}
