package layout

import (
	"bytes"
	"encoding/base64"
	"errors"
	"fmt"
	"strings"

	"github.com/gabriel-vasile/mimetype"
	"github.com/go-pdf/fpdf"
)

var (
	errUnsupportedImage = errors.New("unsupported image type")
	errMalformedImage   = errors.New("malformed image data")
)

// decodeImage accepts a data URL ("data:image/png;base64,...") or bare base64
// and returns the bytes with the fpdf image type sniffed from the content.
func decodeImage(ref string) ([]byte, string, error) {
	payload := strings.TrimSpace(ref)
	if strings.HasPrefix(payload, "data:") {
		comma := strings.IndexByte(payload, ',')
		if comma < 0 {
			return nil, "", errors.New("data url without payload")
		}
		if !strings.Contains(payload[:comma], ";base64") {
			return nil, "", errors.New("data url is not base64 encoded")
		}
		payload = payload[comma+1:]
	}

	data, err := base64.StdEncoding.DecodeString(payload)
	if err != nil {
		// some encoders drop the padding
		var rawErr error
		if data, rawErr = base64.RawStdEncoding.DecodeString(strings.TrimRight(payload, "=")); rawErr != nil {
			return nil, "", fmt.Errorf("decode base64: %w", err)
		}
	}

	mtype := mimetype.Detect(data)
	switch {
	case mtype.Is("image/png"):
		return data, "PNG", nil
	case mtype.Is("image/jpeg"):
		return data, "JPG", nil
	case mtype.Is("image/gif"):
		return data, "GIF", nil
	default:
		return nil, "", fmt.Errorf("%w: %s", errUnsupportedImage, mtype.String())
	}
}

// imageRegistry registers each distinct image once per document and
// remembers the ones that failed.
type imageRegistry struct {
	pdf   *fpdf.Fpdf
	names map[string]string
	bad   map[string]error
}

func newImageRegistry(pdf *fpdf.Fpdf) *imageRegistry {
	return &imageRegistry{pdf: pdf, names: map[string]string{}, bad: map[string]error{}}
}

// register returns the fpdf image name for ref. A failed registration
// clears the fpdf error state so rendering can go on.
func (r *imageRegistry) register(ref string) (string, error) {
	if name, ok := r.names[ref]; ok {
		return name, nil
	}
	if err, ok := r.bad[ref]; ok {
		return "", err
	}

	data, imageType, err := decodeImage(ref)
	if err == nil {
		name := fmt.Sprintf("img%d", len(r.names)+len(r.bad))
		if err = r.registerBytes(name, imageType, data); err == nil {
			r.names[ref] = name
			return name, nil
		}
	}
	r.bad[ref] = err
	return "", err
}

// registerBytes hands data to fpdf. fpdf panics on some truncated PNG streams
// instead of setting its error state, so both outcomes become an error.
func (r *imageRegistry) registerBytes(name, imageType string, data []byte) (err error) {
	defer func() {
		if rec := recover(); rec != nil {
			r.pdf.ClearError()
			err = fmt.Errorf("%w: %v", errMalformedImage, rec)
		}
	}()

	r.pdf.RegisterImageOptionsReader(name, fpdf.ImageOptions{ImageType: imageType}, bytes.NewReader(data))
	if !r.pdf.Ok() {
		err = r.pdf.Error()
		r.pdf.ClearError()
	}
	return err
}
