package apiclient

import (
	"bytes"
	"fmt"
	"io"
	"mime/multipart"
	"net/textproto"
	"strings"

	"github.com/angelmondragon/delivery-admin/pkg/upload"
)

var quoteEscaper = strings.NewReplacer("\\", "\\\\", `"`, "\\\"")

type part struct {
	name string
	text string
	file *upload.File
}

// Multipart is an ordered form-data body. Fields keep insertion order.
type Multipart struct {
	parts []part
}

func NewMultipart() *Multipart {
	return &Multipart{}
}

// Field appends a text field, even when empty.
func (m *Multipart) Field(name, value string) *Multipart {
	m.parts = append(m.parts, part{name: name, text: value})
	return m
}

// OptionalField appends value only when it is not blank.
func (m *Multipart) OptionalField(name, value string) *Multipart {
	if strings.TrimSpace(value) == "" {
		return m
	}
	return m.Field(name, value)
}

// File appends a file part. A nil file is skipped.
func (m *Multipart) File(name string, f *upload.File) *Multipart {
	if f == nil {
		return m
	}
	m.parts = append(m.parts, part{name: name, file: f})
	return m
}

// Names lists the part names in order.
func (m *Multipart) Names() []string {
	names := make([]string, 0, len(m.parts))
	for _, p := range m.parts {
		names = append(names, p.name)
	}
	return names
}

// Encode renders the body and its content type, including the boundary.
func (m *Multipart) Encode() (io.Reader, string, error) {
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	for _, p := range m.parts {
		if p.file == nil {
			if err := w.WriteField(p.name, p.text); err != nil {
				return nil, "", fmt.Errorf("write field %s: %w", p.name, err)
			}
			continue
		}
		header := make(textproto.MIMEHeader)
		header.Set("Content-Disposition", fmt.Sprintf(`form-data; name="%s"; filename="%s"`,
			quoteEscaper.Replace(p.name), quoteEscaper.Replace(p.file.Name)))
		header.Set("Content-Type", p.file.ContentType)
		fw, err := w.CreatePart(header)
		if err != nil {
			return nil, "", fmt.Errorf("create part %s: %w", p.name, err)
		}
		if _, err := fw.Write(p.file.Data); err != nil {
			return nil, "", fmt.Errorf("write part %s: %w", p.name, err)
		}
	}
	if err := w.Close(); err != nil {
		return nil, "", err
	}
	return &buf, w.FormDataContentType(), nil
}
