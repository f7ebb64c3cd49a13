package domain

import (
	"strconv"
	"strings"

	"github.com/pkg/errors"
	"github.com/spf13/cast"
)

// Decimal is a price kept in its textual form. The backend sends it either
// as a JSON string ("12.50") or as a bare number.
type Decimal string

func (d *Decimal) UnmarshalJSON(b []byte) error {
	s := strings.TrimSpace(string(b))
	if s == "null" {
		*d = ""
		return nil
	}
	if uq, err := strconv.Unquote(s); err == nil {
		s = uq
	}
	if s != "" {
		if _, err := cast.ToFloat64E(s); err != nil {
			return errors.Errorf("invalid decimal %q", s)
		}
	}
	*d = Decimal(s)
	return nil
}

func (d Decimal) MarshalJSON() ([]byte, error) {
	return []byte(strconv.Quote(string(d))), nil
}

// Float returns the numeric value, 0 when blank or malformed
func (d Decimal) Float() float64 {
	return cast.ToFloat64(string(d))
}

func (d Decimal) String() string {
	return string(d)
}

// Product mirrors the backend product record
type Product struct {
	ID       int64     `json:"id"`
	Name     string    `json:"name"`
	Price    Decimal   `json:"price"`
	Photo    string    `json:"photo,omitempty"` // URL, empty when the product has no image
	IsActive bool      `json:"isActive"`
	Category *Category `json:"category,omitempty"`
	Brand    *Brand    `json:"brand,omitempty"`
}

// CategoryID returns the referenced category id or 0
func (p Product) CategoryID() int64 {
	if p.Category == nil {
		return 0
	}
	return p.Category.ID
}

// BrandID returns the referenced brand id or 0
func (p Product) BrandID() int64 {
	if p.Brand == nil {
		return 0
	}
	return p.Brand.ID
}

// Attachment is an image file attached to a product write
type Attachment struct {
	Filename    string
	ContentType string
	Data        []byte
}

// ProductPayload is the body of a product create/update.
// A nil Photo means no photo part is sent and the stored image is kept.
type ProductPayload struct {
	Name       string
	Price      string
	IsActive   bool
	CategoryID int64
	BrandID    int64
	Photo      *Attachment
}
