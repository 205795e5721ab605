package document_test

import (
	"bytes"
	"context"
	"io"
	"mime/multipart"
	"net/textproto"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/vendor-admin-api/internal/application/document"
	"github.com/jhoicas/vendor-admin-api/internal/domain"
)

const boundary = "test-boundary-0123456789"

type part struct {
	field, filename, contentType string
	content                      []byte
}

func multipartBody(t *testing.T, parts ...part) *bytes.Buffer {
	t.Helper()
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	require.NoError(t, w.SetBoundary(boundary))
	for _, p := range parts {
		h := textproto.MIMEHeader{}
		disp := `form-data; name="` + p.field + `"`
		if p.filename != "" {
			disp += `; filename="` + p.filename + `"`
		}
		h.Set("Content-Disposition", disp)
		if p.contentType != "" {
			h.Set("Content-Type", p.contentType)
		}
		pw, err := w.CreatePart(h)
		require.NoError(t, err)
		_, err = pw.Write(p.content)
		require.NoError(t, err)
	}
	require.NoError(t, w.Close())
	return &buf
}

func TestReceive_PNGValido(t *testing.T) {
	var stored bytes.Buffer
	in := document.NewIntake(document.WithSink(func() io.Writer { return &stored }))
	body := multipartBody(t, part{field: "file", filename: "id.png", contentType: "image/png", content: []byte("\x89PNG datos")})

	got, err := in.Receive(context.Background(), body, boundary)
	require.NoError(t, err)
	assert.Equal(t, "id.png", got.Filename)
	assert.Equal(t, "image/png", got.ContentType)
	assert.EqualValues(t, len("\x89PNG datos"), got.Size)
	assert.Equal(t, "\x89PNG datos", stored.String())
}

func TestReceive_SoloPrimeraParte(t *testing.T) {
	in := document.NewIntake()
	body := multipartBody(t,
		part{field: "file", filename: "a.pdf", contentType: "application/pdf", content: []byte("%PDF")},
		part{field: "file", filename: "b.exe", contentType: "application/x-msdownload", content: []byte("MZ")},
	)
	got, err := in.Receive(context.Background(), body, boundary)
	require.NoError(t, err)
	assert.Equal(t, "a.pdf", got.Filename)
}

func TestReceive_Rechazos(t *testing.T) {
	in := document.NewIntake()
	cases := map[string]struct {
		body []byte
		want error
	}{
		"sin partes": {
			body: multipartBody(t).Bytes(),
			want: document.ErrNoFile,
		},
		"sin nombre de archivo": {
			body: multipartBody(t, part{field: "file", contentType: "image/png", content: []byte("x")}).Bytes(),
			want: document.ErrNoFilename,
		},
		"tipo no permitido": {
			body: multipartBody(t, part{field: "file", filename: "a.gif", contentType: "image/gif", content: []byte("GIF")}).Bytes(),
			want: document.ErrInvalidType,
		},
		"sin content-type": {
			body: multipartBody(t, part{field: "file", filename: "a.png", content: []byte("x")}).Bytes(),
			want: document.ErrInvalidType,
		},
	}
	for name, tc := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := in.Receive(context.Background(), bytes.NewReader(tc.body), boundary)
			assert.ErrorIs(t, err, tc.want)
			assert.ErrorIs(t, err, domain.ErrInvalidInput)
		})
	}
}

func TestReceive_ContentTypeConParametros(t *testing.T) {
	in := document.NewIntake()
	body := multipartBody(t, part{field: "file", filename: "a.jpg", contentType: "Image/JPEG; charset=binary", content: []byte("jpg")})
	got, err := in.Receive(context.Background(), body, boundary)
	require.NoError(t, err)
	assert.Equal(t, "image/jpeg", got.ContentType)
}

func TestReceive_LimiteExacto(t *testing.T) {
	in := document.NewIntake(document.WithMaxSize(1024))

	_, err := in.Receive(context.Background(), multipartBody(t, part{field: "file", filename: "a.pdf", contentType: "application/pdf", content: bytes.Repeat([]byte("a"), 1024)}), boundary)
	assert.NoError(t, err, "exactamente el tope se acepta")

	_, err = in.Receive(context.Background(), multipartBody(t, part{field: "file", filename: "a.pdf", contentType: "application/pdf", content: bytes.Repeat([]byte("a"), 1025)}), boundary)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
	assert.Contains(t, domain.PublicMessage(err), "1024 bytes")
}

// lazyReader produce n bytes bajo demanda y cuenta cuántos se leyeron.
type lazyReader struct {
	remaining int64
	read      int64
}

func (r *lazyReader) Read(p []byte) (int, error) {
	if r.remaining <= 0 {
		return 0, io.EOF
	}
	n := int64(len(p))
	if n > r.remaining {
		n = r.remaining
	}
	for i := int64(0); i < n; i++ {
		p[i] = 'x'
	}
	r.remaining -= n
	r.read += n
	return int(n), nil
}

func TestReceive_15MiB_AbortaAntesDeLeerTodo(t *testing.T) {
	const size = 15 << 20
	head := "--" + boundary + "\r\n" +
		"Content-Disposition: form-data; name=\"file\"; filename=\"big.png\"\r\n" +
		"Content-Type: image/png\r\n\r\n"
	tail := "\r\n--" + boundary + "--\r\n"
	payload := &lazyReader{remaining: size}
	body := io.MultiReader(strings.NewReader(head), payload, strings.NewReader(tail))

	_, err := document.NewIntake().Receive(context.Background(), body, boundary)
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
	assert.Contains(t, domain.PublicMessage(err), "exceeds the maximum allowed size")
	assert.Less(t, payload.read, int64(document.MaxFileSize+(1<<20)), "se abortó cerca del tope, no al final")
}

func TestReceive_ContextoCancelado(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	body := multipartBody(t, part{field: "file", filename: "a.pdf", contentType: "application/pdf", content: []byte("%PDF")})

	_, err := document.NewIntake().Receive(ctx, body, boundary)
	assert.ErrorIs(t, err, document.ErrUploadTimeout)
}

func TestReceive_SinBoundary(t *testing.T) {
	_, err := document.NewIntake().Receive(context.Background(), strings.NewReader("x"), "")
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}
