package listing

import (
	"github.com/spf13/cast"
	"github.com/talkincode/shopdesk/internal/domain"
)

type ChipKey string

const (
	ChipCategory ChipKey = "category"
	ChipBrand    ChipKey = "brand"
	ChipActive   ChipKey = "active"
)

// Chip is a removable marker for a filter that is not "all"
type Chip struct {
	Key   ChipKey
	Label string
}

// ActiveChips lists the applied category, brand and active filters.
// Category and brand labels are looked up in the option lists; an unknown id shows as "#id".
func ActiveChips(category, brand, active string, categories, brands []domain.Option) []Chip {
	var chips []Chip
	label := func(opts []domain.Option, v string) string {
		if o, ok := domain.FindOption(opts, cast.ToInt64(v)); ok {
			return o.Name
		}
		return "#" + v
	}
	if isSet(category) {
		chips = append(chips, Chip{Key: ChipCategory, Label: label(categories, category)})
	}
	if isSet(brand) {
		chips = append(chips, Chip{Key: ChipBrand, Label: label(brands, brand)})
	}
	if isSet(active) {
		l := "Inactive"
		if cast.ToBool(active) {
			l = "Active"
		}
		chips = append(chips, Chip{Key: ChipActive, Label: l})
	}
	return chips
}

func isSet(v string) bool {
	return v != "" && v != domain.All
}

func normalize(v string) string {
	if v == "" {
		return domain.All
	}
	return v
}
