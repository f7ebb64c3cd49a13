package domain

// Category mirrors the backend category record
type Category struct {
	ID       int64  `json:"id"`
	Name     string `json:"name"`
	IsActive bool   `json:"isActive"`
}

// Brand mirrors the backend brand record
type Brand struct {
	ID       int64  `json:"id"`
	Name     string `json:"name"`
	IsActive bool   `json:"isActive"`
}

// CatalogPayload is the JSON body for category and brand writes
type CatalogPayload struct {
	Name     string `json:"name"`
	IsActive *bool  `json:"isActive,omitempty"`
}

// Option is a picker entry built from a category or brand
type Option struct {
	ID   int64
	Name string
}

// CategoryOptions converts categories into picker entries
func CategoryOptions(items []Category) []Option {
	opts := make([]Option, 0, len(items))
	for _, c := range items {
		opts = append(opts, Option{ID: c.ID, Name: c.Name})
	}
	return opts
}

// BrandOptions converts brands into picker entries
func BrandOptions(items []Brand) []Option {
	opts := make([]Option, 0, len(items))
	for _, b := range items {
		opts = append(opts, Option{ID: b.ID, Name: b.Name})
	}
	return opts
}

// FindOption returns the option with the given id
func FindOption(opts []Option, id int64) (Option, bool) {
	for _, o := range opts {
		if o.ID == id {
			return o, true
		}
	}
	return Option{}, false
}
