package apiclient

import (
	"net/url"
	"strconv"
	"strings"

	"github.com/talkincode/shopdesk/internal/domain"
)

// present reports whether a filter value constrains the list
func present(v string) bool {
	v = strings.TrimSpace(v)
	return v != "" && v != domain.All
}

// BuildQuery encodes pagination and the set filters. Blank and "all" values are left out.
func BuildQuery(f domain.Filter, p domain.Pagination) url.Values {
	q := url.Values{}
	if p.Limit > 0 {
		q.Set("limit", strconv.Itoa(p.Limit))
	}
	q.Set("offset", strconv.Itoa(p.Offset))
	set := func(key, val string) {
		if present(val) {
			q.Set(key, strings.TrimSpace(val))
		}
	}
	set("name", f.Name)
	set("categoryId", f.CategoryID)
	set("brandId", f.BrandID)
	set("isActive", f.IsActive)
	set("minPrice", f.MinPrice)
	set("maxPrice", f.MaxPrice)
	return q
}
