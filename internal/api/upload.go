package api

import (
	"encoding/base64"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
)

var (
	errNoImage  = errors.New("image is required")
	errNotImage = errors.New("uploaded file is not an image")
)

type image struct {
	data []byte
	mime string
}

func (i image) dataURL() string {
	return "data:" + i.mime + ";base64," + base64.StdEncoding.EncodeToString(i.data)
}

// parseForm reads multipart or urlencoded bodies up to limit bytes.
func parseForm(w http.ResponseWriter, r *http.Request, limit int64) error {
	r.Body = http.MaxBytesReader(w, r.Body, limit)
	err := r.ParseMultipartForm(limit)
	if err != nil && !errors.Is(err, http.ErrNotMultipart) {
		return err
	}
	return nil
}

// formImage returns the uploaded file under field. The sniffed content
// type wins; the declared one is used only when sniffing is inconclusive.
func formImage(r *http.Request, field string) (image, error) {
	if r.MultipartForm == nil {
		return image{}, errNoImage
	}

	file, header, err := r.FormFile(field)
	if err != nil {
		if errors.Is(err, http.ErrMissingFile) {
			return image{}, errNoImage
		}
		return image{}, fmt.Errorf("read %s: %w", field, err)
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		return image{}, fmt.Errorf("read %s: %w", field, err)
	}
	if len(data) == 0 {
		return image{}, errNoImage
	}

	mime := http.DetectContentType(data)
	if !strings.HasPrefix(mime, "image/") {
		declared := header.Header.Get("Content-Type")
		if mime != "application/octet-stream" || !strings.HasPrefix(declared, "image/") {
			return image{}, errNotImage
		}
		mime = declared
	}
	return image{data: data, mime: mime}, nil
}

func formError(w http.ResponseWriter, err error) {
	var tooLarge *http.MaxBytesError
	if errors.As(err, &tooLarge) {
		respondError(w, http.StatusRequestEntityTooLarge, "upload too large")
		return
	}
	respondError(w, http.StatusBadRequest, "invalid form body")
}
