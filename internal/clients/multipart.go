package clients

import (
	"bytes"
	"fmt"
	"io"
	"mime/multipart"
	"net/textproto"
	"strings"
)

// FilePart is a file attached to a multipart body.
type FilePart struct {
	Field       string
	Filename    string
	ContentType string
	Content     []byte
}

type formField struct {
	name  string
	value string
}

// MultipartBody collects ordered form fields and files.
type MultipartBody struct {
	fields []formField
	files  []FilePart
}

func NewMultipartBody() *MultipartBody {
	return &MultipartBody{}
}

// Set appends a text field.
func (b *MultipartBody) Set(name, value string) *MultipartBody {
	b.fields = append(b.fields, formField{name: name, value: value})
	return b
}

// Attach appends a file part.
func (b *MultipartBody) Attach(file FilePart) *MultipartBody {
	b.files = append(b.files, file)
	return b
}

// FieldNames lists text fields then file fields, in insertion order.
func (b *MultipartBody) FieldNames() []string {
	names := make([]string, 0, len(b.fields)+len(b.files))
	for _, f := range b.fields {
		names = append(names, f.name)
	}
	for _, f := range b.files {
		names = append(names, f.Field)
	}
	return names
}

// Encode renders the body and returns it with its content type.
func (b *MultipartBody) Encode() (io.Reader, string, error) {
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)

	for _, f := range b.fields {
		if err := w.WriteField(f.name, f.value); err != nil {
			return nil, "", err
		}
	}

	for _, file := range b.files {
		header := make(textproto.MIMEHeader)
		header.Set("Content-Disposition",
			fmt.Sprintf(`form-data; name="%s"; filename="%s"`, escapeQuotes(file.Field), escapeQuotes(file.Filename)))
		contentType := file.ContentType
		if contentType == "" {
			contentType = "application/octet-stream"
		}
		header.Set("Content-Type", contentType)

		part, err := w.CreatePart(header)
		if err != nil {
			return nil, "", err
		}
		if _, err := part.Write(file.Content); err != nil {
			return nil, "", err
		}
	}

	if err := w.Close(); err != nil {
		return nil, "", err
	}
	return &buf, w.FormDataContentType(), nil
}

var quoteEscaper = strings.NewReplacer("\\", "\\\\", `"`, "\\\"")

func escapeQuotes(s string) string {
	return quoteEscaper.Replace(s)
}
