package apiclient

import (
	"bytes"
	"fmt"
	"mime/multipart"
	"net/textproto"
	"strconv"

	"github.com/gabriel-vasile/mimetype"
	"github.com/pkg/errors"
	"github.com/talkincode/shopdesk/internal/domain"
)

// EncodeProductForm renders a product payload as multipart/form-data.
// The photo part is written only when payload.Photo is set.
func EncodeProductForm(payload domain.ProductPayload) ([]byte, string, error) {
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	fields := [][2]string{
		{"name", payload.Name},
		{"price", payload.Price},
		{"isActive", strconv.FormatBool(payload.IsActive)},
	}
	if payload.CategoryID > 0 {
		fields = append(fields, [2]string{"categoryId", strconv.FormatInt(payload.CategoryID, 10)})
	}
	if payload.BrandID > 0 {
		fields = append(fields, [2]string{"brandId", strconv.FormatInt(payload.BrandID, 10)})
	}
	for _, f := range fields {
		if err := w.WriteField(f[0], f[1]); err != nil {
			return nil, "", errors.Wrapf(err, "write field %s", f[0])
		}
	}
	if ph := payload.Photo; ph != nil {
		ctype := ph.ContentType
		if ctype == "" {
			ctype = mimetype.Detect(ph.Data).String()
		}
		name := ph.Filename
		if name == "" {
			name = "photo" + mimetype.Detect(ph.Data).Extension()
		}
		h := make(textproto.MIMEHeader)
		h.Set("Content-Disposition", fmt.Sprintf(`form-data; name="photo"; filename=%q`, name))
		h.Set("Content-Type", ctype)
		part, err := w.CreatePart(h)
		if err != nil {
			return nil, "", errors.Wrap(err, "create photo part")
		}
		if _, err := part.Write(ph.Data); err != nil {
			return nil, "", errors.Wrap(err, "write photo part")
		}
	}
	if err := w.Close(); err != nil {
		return nil, "", errors.Wrap(err, "close multipart writer")
	}
	return buf.Bytes(), w.FormDataContentType(), nil
}
