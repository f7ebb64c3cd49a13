package export

import (
	"io"
	"strconv"
	"strings"

	"github.com/360EntSecGroup-Skylar/excelize"
	"github.com/gocarina/gocsv"
	"github.com/pkg/errors"
	"github.com/talkincode/shopdesk/internal/domain"
)

type Format string

const (
	CSV  Format = "csv"
	XLSX Format = "xlsx"
)

// ParseFormat accepts csv or xlsx, case-insensitive
func ParseFormat(s string) (Format, error) {
	switch f := Format(strings.ToLower(strings.TrimSpace(s))); f {
	case CSV, XLSX:
		return f, nil
	}
	return "", errors.Errorf("unsupported export format %q", s)
}

// Extension returns the file suffix for f
func (f Format) Extension() string {
	return "." + string(f)
}

type record interface {
	cells() []interface{}
}

type productRecord struct {
	ID       int64  `csv:"id"`
	Name     string `csv:"name"`
	Price    string `csv:"price"`
	Category string `csv:"category"`
	Brand    string `csv:"brand"`
	IsActive bool   `csv:"isActive"`
	Photo    string `csv:"photo"`
}

func (r *productRecord) cells() []interface{} {
	return []interface{}{r.ID, r.Name, r.Price, r.Category, r.Brand, r.IsActive, r.Photo}
}

type catalogRecord struct {
	ID       int64  `csv:"id"`
	Name     string `csv:"name"`
	IsActive bool   `csv:"isActive"`
}

func (r *catalogRecord) cells() []interface{} {
	return []interface{}{r.ID, r.Name, r.IsActive}
}

type userRecord struct {
	ID       string `csv:"id"`
	Username string `csv:"username"`
	Email    string `csv:"email"`
	FullName string `csv:"fullName"`
	Roles    string `csv:"roles"`
	IsActive bool   `csv:"isActive"`
}

func (r *userRecord) cells() []interface{} {
	return []interface{}{r.ID, r.Username, r.Email, r.FullName, r.Roles, r.IsActive}
}

var (
	productHeader = []string{"id", "name", "price", "category", "brand", "isActive", "photo"}
	catalogHeader = []string{"id", "name", "isActive"}
	userHeader    = []string{"id", "username", "email", "fullName", "roles", "isActive"}
)

// Products writes a page of products
func Products(w io.Writer, f Format, items []domain.Product) error {
	recs := make([]*productRecord, 0, len(items))
	for _, p := range items {
		r := &productRecord{ID: p.ID, Name: p.Name, Price: p.Price.String(), IsActive: p.IsActive, Photo: p.Photo}
		if p.Category != nil {
			r.Category = p.Category.Name
		}
		if p.Brand != nil {
			r.Brand = p.Brand.Name
		}
		recs = append(recs, r)
	}
	return write(w, f, productHeader, recs)
}

// Categories writes a page of categories
func Categories(w io.Writer, f Format, items []domain.Category) error {
	recs := make([]*catalogRecord, 0, len(items))
	for _, c := range items {
		recs = append(recs, &catalogRecord{ID: c.ID, Name: c.Name, IsActive: c.IsActive})
	}
	return write(w, f, catalogHeader, recs)
}

// Brands writes a page of brands
func Brands(w io.Writer, f Format, items []domain.Brand) error {
	recs := make([]*catalogRecord, 0, len(items))
	for _, b := range items {
		recs = append(recs, &catalogRecord{ID: b.ID, Name: b.Name, IsActive: b.IsActive})
	}
	return write(w, f, catalogHeader, recs)
}

// Users writes a page of users
func Users(w io.Writer, f Format, items []domain.User) error {
	recs := make([]*userRecord, 0, len(items))
	for _, u := range items {
		roles := make([]string, len(u.Roles))
		for i, r := range u.Roles {
			roles[i] = string(r)
		}
		recs = append(recs, &userRecord{
			ID: u.ID, Username: u.Username, Email: u.Email, FullName: u.FullName,
			Roles: strings.Join(roles, ","), IsActive: u.IsActive,
		})
	}
	return write(w, f, userHeader, recs)
}

func write[R record](w io.Writer, f Format, header []string, recs []R) error {
	switch f {
	case CSV:
		if len(recs) == 0 {
			_, err := io.WriteString(w, strings.Join(header, ",")+"\n")
			return errors.Wrap(err, "write csv header")
		}
		return errors.Wrap(gocsv.Marshal(recs, w), "write csv")
	case XLSX:
		return writeSheet(w, header, recs)
	}
	return errors.Errorf("unsupported export format %q", f)
}

const sheet = "Sheet1"

func writeSheet[R record](w io.Writer, header []string, recs []R) error {
	xf := excelize.NewFile()
	for i, h := range header {
		xf.SetCellValue(sheet, cellName(i, 1), h)
	}
	for r, rec := range recs {
		for c, v := range rec.cells() {
			xf.SetCellValue(sheet, cellName(c, r+2), v)
		}
	}
	return errors.Wrap(xf.Write(w), "write xlsx")
}

// cellName converts a 0-based column and 1-based row into an A1 reference
func cellName(col, row int) string {
	name := ""
	for n := col + 1; n > 0; n = (n - 1) / 26 {
		name = string(rune('A'+(n-1)%26)) + name
	}
	return name + strconv.Itoa(row)
}
