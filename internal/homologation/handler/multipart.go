package handler

import (
	"errors"
	"io"
	"mime/multipart"
	"net/http"
	"strings"

	"github.com/cavidescun/314q34wefasd/internal/homologation/models"
	dErrors "github.com/cavidescun/314q34wefasd/pkg/domain-errors"
)

const (
	maxFileSize   = 10 << 20
	maxFormSize   = 6*maxFileSize + 1<<20
	maxFormMemory = 32 << 20

	fieldIdentityDocument = "document"
)

// documentFields maps form file fields to the documents they carry.
var documentFields = []struct {
	name    string
	docType models.DocumentType
}{
	{"bachiller", models.DocumentBachelorDiploma},
	{"titulo", models.DocumentTitle},
	{"sabana_notas", models.DocumentTranscript},
	{"carta_homologacion", models.DocumentHomologationLetter},
	{"contenidos_programaticos", models.DocumentProgrammaticContents},
}

type multipartForm struct {
	form *multipart.Form
}

type uploadedFile struct {
	filename    string
	contentType string
	content     []byte
}

func parseMultipart(w http.ResponseWriter, r *http.Request) (*multipartForm, error) {
	r.Body = http.MaxBytesReader(w, r.Body, maxFormSize)
	if err := r.ParseMultipartForm(maxFormMemory); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			return nil, dErrors.New(dErrors.CodeBadRequest, "request body is too large")
		}
		return nil, dErrors.Wrap(err, dErrors.CodeBadRequest, "invalid multipart form")
	}
	return &multipartForm{form: r.MultipartForm}, nil
}

func (f *multipartForm) value(key string) string {
	if vs := f.form.Value[key]; len(vs) > 0 {
		return vs[0]
	}
	return ""
}

// file reads the first file sent under key. A missing or empty file is nil.
func (f *multipartForm) file(key string) (*uploadedFile, error) {
	headers := f.form.File[key]
	if len(headers) == 0 || headers[0].Size == 0 {
		return nil, nil
	}
	header := headers[0]
	if header.Size > maxFileSize {
		return nil, dErrors.New(dErrors.CodeValidation, "file exceeds the 10MB limit").WithMeta("field", key)
	}

	src, err := header.Open()
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeBadRequest, "unreadable file").WithMeta("field", key)
	}
	defer src.Close()
	content, err := io.ReadAll(src)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeBadRequest, "unreadable file").WithMeta("field", key)
	}

	contentType := header.Header.Get("Content-Type")
	if contentType == "" || strings.HasPrefix(contentType, "application/octet-stream") {
		contentType = http.DetectContentType(content)
	}
	return &uploadedFile{filename: header.Filename, contentType: contentType, content: content}, nil
}

func (f *multipartForm) cleanup() {
	_ = f.form.RemoveAll()
}
