package testhelpers

import (
	"bytes"
	"mime"
	"mime/multipart"
	"net/textproto"
	"testing"

	"github.com/stretchr/testify/require"
)

// Minimal payloads that pass content sniffing
var (
	PNGBytes = append([]byte("\x89PNG\r\n\x1a\n\x00\x00\x00\rIHDR"), make([]byte, 32)...)
	PDFBytes = []byte("%PDF-1.4\n1 0 obj\n<<>>\nendobj\ntrailer\n<<>>\n%%EOF\n")
)

// MultipartBody builds a multipart form with plain fields and one "file" part.
// It returns the body and its Content-Type header value.
func MultipartBody(t *testing.T, fields map[string]string, filename, contentType string, content []byte) (*bytes.Buffer, string) {
	t.Helper()
	return MultipartBodyWithField(t, "file", fields, filename, contentType, content)
}

// MultipartBodyWithField is MultipartBody with the file part named fileField
func MultipartBodyWithField(t *testing.T, fileField string, fields map[string]string, filename, contentType string, content []byte) (*bytes.Buffer, string) {
	t.Helper()

	var body bytes.Buffer
	w := multipart.NewWriter(&body)
	for k, v := range fields {
		require.NoError(t, w.WriteField(k, v))
	}
	if filename != "" {
		h := make(textproto.MIMEHeader)
		h.Set("Content-Disposition", `form-data; name="`+fileField+`"; filename="`+filename+`"`)
		h.Set("Content-Type", contentType)
		part, err := w.CreatePart(h)
		require.NoError(t, err)
		_, err = part.Write(content)
		require.NoError(t, err)
	}
	require.NoError(t, w.Close())
	return &body, w.FormDataContentType()
}

// NewFileHeader parses a single-file multipart form and returns the header of its "file" part
func NewFileHeader(t *testing.T, filename, contentType string, content []byte) *multipart.FileHeader {
	t.Helper()

	body, formType := MultipartBody(t, nil, filename, contentType, content)
	_, params, err := mime.ParseMediaType(formType)
	require.NoError(t, err)
	form, err := multipart.NewReader(body, params["boundary"]).ReadForm(10 << 20)
	require.NoError(t, err)
	t.Cleanup(func() { _ = form.RemoveAll() })
	return form.File["file"][0]
}
