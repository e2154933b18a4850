package handler

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/gabriel-vasile/mimetype"
	"github.com/gofiber/fiber/v2"

	"github.com/saturnino-fabrica-de-software/moodmirror/internal/domain"
)

const (
	defaultMaxImageSize = 10 * 1024 * 1024 // 10MB
)

var validImageTypes = map[string]bool{
	"image/jpeg": true,
	"image/png":  true,
	"image/webp": true,
}

// extractImage reads the upload from the "image" multipart field or, for
// non-multipart requests, from the raw body. The type is sniffed from the
// bytes, the declared Content-Type is not trusted.
func extractImage(c *fiber.Ctx, maxSize int) ([]byte, error) {
	if maxSize <= 0 {
		maxSize = defaultMaxImageSize
	}

	var imageBytes []byte
	if strings.HasPrefix(c.Get(fiber.HeaderContentType), fiber.MIMEMultipartForm) {
		file, err := c.FormFile("image")
		if err != nil {
			return nil, domain.ErrValidationFailed.WithError(fmt.Errorf("image field is required: %w", err))
		}
		if file.Size > int64(maxSize) {
			return nil, domain.ErrInvalidImage.WithDetail("image exceeds upload limit", nil)
		}

		f, err := file.Open()
		if err != nil {
			return nil, domain.ErrInvalidImage.WithError(err)
		}
		defer func() {
			_ = f.Close()
		}()

		imageBytes, err = io.ReadAll(io.LimitReader(f, int64(maxSize)+1))
		if err != nil {
			return nil, domain.ErrInvalidImage.WithError(err)
		}
	} else {
		// fasthttp reuses the body buffer after the handler returns
		imageBytes = append([]byte(nil), c.Body()...)
	}

	if len(imageBytes) == 0 {
		return nil, domain.ErrInvalidImage.WithDetail("image is empty", nil)
	}
	if len(imageBytes) > maxSize {
		return nil, domain.ErrInvalidImage.WithDetail("image exceeds upload limit", nil)
	}

	mtype := mimetype.Detect(imageBytes)
	if !validImageTypes[mtype.String()] {
		return nil, domain.ErrInvalidImage.WithError(errors.New("unsupported image type " + mtype.String()))
	}

	return imageBytes, nil
}
