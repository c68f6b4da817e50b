package handler

import (
	"encoding/json"
	"errors"
	"io"
	"mime/multipart"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/dtroode/furniture-server/internal/apierrors"
	"github.com/dtroode/furniture-server/internal/model"
)

// requestForm is the decoded body of a mutation request.
type requestForm struct {
	fields model.FormFields
	files  map[string][]*multipart.FileHeader
}

// readForm decodes multipart, JSON and url-encoded bodies into string fields.
// JSON values that are not strings keep their JSON text, so "true", "5" and
// "[...]" arrive the same way a multipart client would send them.
func readForm(c echo.Context) (requestForm, error) {
	contentType := c.Request().Header.Get(echo.HeaderContentType)

	switch {
	case strings.HasPrefix(contentType, echo.MIMEMultipartForm):
		form, err := c.MultipartForm()
		if err != nil {
			return requestForm{}, apierrors.NewErrInvalidInput("Malformed multipart body")
		}
		return requestForm{fields: firstValues(form.Value), files: form.File}, nil

	case strings.HasPrefix(contentType, echo.MIMEApplicationJSON):
		var raw map[string]json.RawMessage
		err := json.NewDecoder(c.Request().Body).Decode(&raw)
		if err != nil && !errors.Is(err, io.EOF) {
			return requestForm{}, apierrors.NewErrInvalidInput("Malformed JSON body")
		}
		fields := make(model.FormFields, len(raw))
		for name, value := range raw {
			fields[name] = jsonFieldValue(value)
		}
		return requestForm{fields: fields}, nil

	default:
		values, err := c.FormParams()
		if err != nil {
			return requestForm{}, apierrors.NewErrInvalidInput("Malformed form body")
		}
		return requestForm{fields: firstValues(values)}, nil
	}
}

func firstValues(values map[string][]string) model.FormFields {
	fields := make(model.FormFields, len(values))
	for name, vs := range values {
		if len(vs) > 0 {
			fields[name] = vs[0]
		}
	}
	return fields
}

// jsonFieldValue unwraps JSON strings and keeps other values as JSON text.
// A JSON null becomes "" and is treated like any empty form value.
func jsonFieldValue(raw json.RawMessage) string {
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return s
	}
	return string(raw)
}

// openUploads opens every file header. The returned func closes them all.
func openUploads(headers []*multipart.FileHeader) ([]model.Upload, func(), error) {
	uploads := make([]model.Upload, 0, len(headers))
	closers := make([]io.Closer, 0, len(headers))
	closeAll := func() {
		for _, c := range closers {
			_ = c.Close()
		}
	}

	for _, fh := range headers {
		f, err := fh.Open()
		if err != nil {
			closeAll()
			return nil, func() {}, apierrors.NewErrInvalidInput("Unable to read file %s", fh.Filename)
		}
		closers = append(closers, f)
		uploads = append(uploads, model.Upload{
			Filename:    fh.Filename,
			ContentType: fh.Header.Get(echo.HeaderContentType),
			Size:        fh.Size,
			Body:        f,
		})
	}

	return uploads, closeAll, nil
}
