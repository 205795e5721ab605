// Package document recibe documentos de identidad subidos por multipart.
// El cuerpo se consume en streaming: el límite de tamaño se comprueba mientras llegan
// los bytes, nunca después de cargar el archivo completo en memoria.
package document

import (
	"context"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"strings"

	"github.com/jhoicas/vendor-admin-api/internal/domain"
)

// MaxFileSize tope de bytes por archivo (10 MiB).
const MaxFileSize int64 = 10 << 20

// Tipos de contenido aceptados para documentos de identidad.
var defaultAllowedTypes = []string{"image/jpeg", "image/jpg", "image/png", "application/pdf"}

var (
	ErrNoFile        = domain.NewValidationError("No file provided")
	ErrNoFilename    = domain.NewValidationError("No filename provided")
	ErrInvalidType   = domain.NewValidationError("Invalid file type. Only images and PDFs are allowed.")
	ErrUploadTimeout = domain.NewValidationError("Upload timed out")
)

// Received resultado de una recepción aceptada.
type Received struct {
	Filename    string
	ContentType string
	Size        int64
}

// Intake valida y consume la primera parte de archivo de un cuerpo multipart.
// Inmutable tras NewIntake.
type Intake struct {
	maxSize int64
	allowed map[string]struct{}
	sink    func() io.Writer
}

// Option ajusta el Intake.
type Option func(*Intake)

// WithMaxSize cambia el tope de bytes.
func WithMaxSize(n int64) Option {
	return func(in *Intake) {
		if n > 0 {
			in.maxSize = n
		}
	}
}

// WithSink fija el destino de los bytes aceptados (por defecto se descartan).
func WithSink(newSink func() io.Writer) Option {
	return func(in *Intake) { in.sink = newSink }
}

// NewIntake construye el receptor con el límite de 10 MiB y la lista de tipos por defecto.
func NewIntake(opts ...Option) *Intake {
	in := &Intake{
		maxSize: MaxFileSize,
		allowed: make(map[string]struct{}, len(defaultAllowedTypes)),
		sink:    func() io.Writer { return io.Discard },
	}
	for _, t := range defaultAllowedTypes {
		in.allowed[t] = struct{}{}
	}
	for _, opt := range opts {
		opt(in)
	}
	return in
}

// MaxSize tope configurado en bytes.
func (in *Intake) MaxSize() int64 { return in.maxSize }

// Receive lee el cuerpo multipart delimitado por boundary. Solo se procesa la primera parte;
// el resto del cuerpo no se lee. Cancelar ctx aborta la lectura.
func (in *Intake) Receive(ctx context.Context, body io.Reader, boundary string) (*Received, error) {
	if boundary == "" {
		return nil, domain.NewValidationError("request is not multipart/form-data")
	}
	mr := multipart.NewReader(&ctxReader{ctx: ctx, r: body}, boundary)

	part, err := mr.NextPart()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return nil, ErrNoFile
		}
		return nil, in.readError(ctx, err)
	}
	defer part.Close()

	filename := part.FileName()
	if filename == "" {
		return nil, ErrNoFilename
	}
	contentType := partContentType(part)
	if _, ok := in.allowed[contentType]; !ok {
		return nil, ErrInvalidType
	}

	sink := &boundedSink{w: in.sink(), limit: in.maxSize}
	if _, err := io.Copy(sink, part); err != nil {
		return nil, in.readError(ctx, err)
	}
	return &Received{Filename: filename, ContentType: contentType, Size: sink.n}, nil
}

func (in *Intake) readError(ctx context.Context, err error) error {
	switch {
	case errors.Is(err, errTooLarge):
		return domain.NewValidationError(fmt.Sprintf("File size exceeds the maximum allowed size of %d bytes", in.maxSize))
	case ctx.Err() != nil:
		return ErrUploadTimeout
	default:
		return &domain.Error{Kind: domain.ErrInvalidInput, Message: "malformed multipart body", Err: err}
	}
}

// partContentType tipo declarado sin parámetros; sin cabecera se asume application/octet-stream.
func partContentType(p *multipart.Part) string {
	ct := p.Header.Get("Content-Type")
	if ct == "" {
		return "application/octet-stream"
	}
	if i := strings.IndexByte(ct, ';'); i >= 0 {
		ct = ct[:i]
	}
	return strings.ToLower(strings.TrimSpace(ct))
}

var errTooLarge = errors.New("document: size limit exceeded")

// boundedSink escribe en w y falla en cuanto el total supera limit.
type boundedSink struct {
	w     io.Writer
	limit int64
	n     int64
}

func (s *boundedSink) Write(p []byte) (int, error) {
	if s.n+int64(len(p)) > s.limit {
		return 0, errTooLarge
	}
	n, err := s.w.Write(p)
	s.n += int64(n)
	return n, err
}

// ctxReader corta la lectura cuando el contexto se cancela o vence.
type ctxReader struct {
	ctx context.Context
	r   io.Reader
}

func (c *ctxReader) Read(p []byte) (int, error) {
	if err := c.ctx.Err(); err != nil {
		return 0, err
	}
	return c.r.Read(p)
}
