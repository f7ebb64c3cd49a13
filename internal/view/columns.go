package view

import (
	"strconv"
	"strings"

	"github.com/talkincode/shopdesk/internal/domain"
)

func yesNo(b bool) string {
	if b {
		return "yes"
	}
	return "no"
}

func id(n int64) string {
	return strconv.FormatInt(n, 10)
}

var ProductColumns = []Column[domain.Product]{
	{"ID", func(p domain.Product) string { return id(p.ID) }},
	{"NAME", func(p domain.Product) string { return p.Name }},
	{"PRICE", func(p domain.Product) string { return p.Price.String() }},
	{"CATEGORY", func(p domain.Product) string {
		if p.Category == nil {
			return "-"
		}
		return p.Category.Name
	}},
	{"BRAND", func(p domain.Product) string {
		if p.Brand == nil {
			return "-"
		}
		return p.Brand.Name
	}},
	{"ACTIVE", func(p domain.Product) string { return yesNo(p.IsActive) }},
	{"PHOTO", func(p domain.Product) string { return yesNo(p.Photo != "") }},
}

var CategoryColumns = []Column[domain.Category]{
	{"ID", func(c domain.Category) string { return id(c.ID) }},
	{"NAME", func(c domain.Category) string { return c.Name }},
	{"ACTIVE", func(c domain.Category) string { return yesNo(c.IsActive) }},
}

var BrandColumns = []Column[domain.Brand]{
	{"ID", func(b domain.Brand) string { return id(b.ID) }},
	{"NAME", func(b domain.Brand) string { return b.Name }},
	{"ACTIVE", func(b domain.Brand) string { return yesNo(b.IsActive) }},
}

var UserColumns = []Column[domain.User]{
	{"ID", func(u domain.User) string { return u.ID }},
	{"USERNAME", func(u domain.User) string { return u.Username }},
	{"EMAIL", func(u domain.User) string { return u.Email }},
	{"FULL NAME", func(u domain.User) string { return u.FullName }},
	{"ROLES", func(u domain.User) string {
		roles := make([]string, len(u.Roles))
		for i, r := range u.Roles {
			roles[i] = string(r)
		}
		return strings.Join(roles, ",")
	}},
	{"ACTIVE", func(u domain.User) string { return yesNo(u.IsActive) }},
}
