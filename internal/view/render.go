package view

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/pkg/errors"
	"github.com/talkincode/shopdesk/internal/form"
	"github.com/talkincode/shopdesk/internal/listing"
)

// Options tunes list rendering
type Options struct {
	EmptyText  string
	Chips      []listing.Chip
	ShowFooter bool
}

// List writes the loading, errored, empty or populated rendering of s
func List[T any](w io.Writer, s listing.State[T], cols []Column[T], opt Options) error {
	var b strings.Builder
	if len(opt.Chips) > 0 {
		labels := make([]string, len(opt.Chips))
		for i, c := range opt.Chips {
			labels[i] = fmt.Sprintf("[%s: %s ×]", c.Key, c.Label)
		}
		b.WriteString("Filters: " + strings.Join(labels, " ") + "\n")
	}
	switch s.Status {
	case listing.Idle, listing.Loading:
		b.WriteString("Loading...\n")
	case listing.Errored:
		msg := "unknown error"
		if s.Err != nil {
			msg = s.Err.Error()
		}
		b.WriteString("Error: " + msg + "\n")
	case listing.Empty:
		text := opt.EmptyText
		if text == "" {
			text = "No results."
		}
		b.WriteString(text + "\n")
	case listing.Populated:
		header, rows := Rows(s.Items(), cols)
		if err := Table(&b, header, rows); err != nil {
			return err
		}
	}
	if opt.ShowFooter && s.Status != listing.Loading && s.TotalPages() > 0 {
		b.WriteString(Footer(s.Page, s.TotalPages(), s.Total()) + "\n")
	}
	_, err := io.WriteString(w, b.String())
	return errors.Wrap(err, "write list")
}

// Footer renders "Page 2 of 5 (42 total)  1 [2] 3 … 5"
func Footer(page, totalPages, total int) string {
	parts := make([]string, 0, 7)
	for _, l := range listing.VisiblePages(page, totalPages) {
		switch {
		case l.Ellipsis:
			parts = append(parts, "…")
		case l.Current:
			parts = append(parts, "["+strconv.Itoa(l.Number)+"]")
		default:
			parts = append(parts, strconv.Itoa(l.Number))
		}
	}
	return fmt.Sprintf("Page %d of %d (%d total)  %s", page, totalPages, total, strings.Join(parts, " "))
}

// Summary writes the price summary line of a product page
func Summary(w io.Writer, sum PriceSummary) error {
	_, err := fmt.Fprintf(w, "Prices on page: min %.2f  mean %.2f  max %.2f (%d items)\n", sum.Min, sum.Mean, sum.Max, sum.Count)
	return errors.Wrap(err, "write summary")
}

// Form writes a modal's title, fields and validation state
func Form(w io.Writer, m *form.Modal) error {
	var b strings.Builder
	b.WriteString(m.Title() + "\n")
	if d := m.Description(); d != "" {
		b.WriteString(d + "\n")
	}
	draft := m.Draft()
	errs := m.Errors()
	rows := make([][]string, 0, len(m.Fields()))
	for _, f := range m.Fields() {
		rows = append(rows, []string{f, fieldValue(draft, f), errs[f]})
	}
	if err := Table(&b, []string{"FIELD", "VALUE", "ERROR"}, rows); err != nil {
		return err
	}
	if err := m.Err(); err != nil {
		b.WriteString("Error: " + err.Error() + "\n")
	}
	_, err := io.WriteString(w, b.String())
	return errors.Wrap(err, "write form")
}

func fieldValue(d form.Draft, field string) string {
	switch field {
	case "name":
		return d.Name
	case "price":
		return d.Price
	case "isActive":
		return yesNo(d.IsActive)
	case "categoryId":
		return idOrDash(d.CategoryID)
	case "brandId":
		return idOrDash(d.BrandID)
	case "photo":
		if d.Photo != nil {
			return d.Photo.Filename + " (new)"
		}
		return d.PhotoURL
	case "username":
		return d.Username
	case "email":
		return d.Email
	case "fullName":
		return d.FullName
	case "password":
		return strings.Repeat("*", len(d.Password))
	case "roles":
		roles := make([]string, len(d.Roles))
		for i, r := range d.Roles {
			roles[i] = string(r)
		}
		return strings.Join(roles, ",")
	}
	return ""
}

func idOrDash(n int64) string {
	if n <= 0 {
		return "-"
	}
	return id(n)
}
