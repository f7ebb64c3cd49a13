package form

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/gabriel-vasile/mimetype"
	"github.com/pkg/errors"
	"github.com/talkincode/shopdesk/internal/domain"
)

// MaxImageSize is the largest accepted product image
const MaxImageSize = 4 << 20

// NewAttachment checks that data is an image of at most MaxImageSize bytes
func NewAttachment(filename string, data []byte) (*domain.Attachment, error) {
	if len(data) == 0 {
		return nil, errors.New("image is empty")
	}
	if len(data) > MaxImageSize {
		return nil, errors.Errorf("image is %d bytes, the limit is 4MB", len(data))
	}
	mt := mimetype.Detect(data)
	if !strings.HasPrefix(mt.String(), "image/") {
		return nil, errors.Errorf("%s is not an image", mt.String())
	}
	if filename == "" {
		filename = "photo" + mt.Extension()
	}
	return &domain.Attachment{Filename: filepath.Base(filename), ContentType: mt.String(), Data: data}, nil
}

// LoadAttachment reads an image file from disk
func LoadAttachment(path string) (*domain.Attachment, error) {
	st, err := os.Stat(path)
	if err != nil {
		return nil, errors.Wrap(err, "open image")
	}
	if st.Size() > MaxImageSize {
		return nil, errors.Errorf("image is %d bytes, the limit is 4MB", st.Size())
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrap(err, "read image")
	}
	return NewAttachment(path, data)
}
