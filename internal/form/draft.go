package form

import (
	"strings"

	"github.com/pkg/errors"
	"github.com/spf13/cast"
	"github.com/talkincode/shopdesk/internal/domain"
)

// Draft holds the editable values of any form kind; each kind reads only its fields
type Draft struct {
	Name       string
	Price      string
	IsActive   bool
	CategoryID int64
	BrandID    int64
	Photo      *domain.Attachment
	PhotoURL   string // image currently stored, shown in edit mode

	Username string
	Email    string
	FullName string
	Password string
	Roles    []domain.Role
}

// Set assigns a field from text input
func (d *Draft) Set(field, value string) error {
	switch field {
	case "name":
		d.Name = value
	case "price":
		d.Price = value
	case "isActive", "active":
		b, err := cast.ToBoolE(strings.TrimSpace(value))
		if err != nil {
			return errors.Errorf("isActive: %q is not a boolean", value)
		}
		d.IsActive = b
	case "categoryId", "category":
		id, err := cast.ToInt64E(strings.TrimSpace(value))
		if err != nil {
			return errors.Errorf("categoryId: %q is not an id", value)
		}
		d.CategoryID = id
	case "brandId", "brand":
		id, err := cast.ToInt64E(strings.TrimSpace(value))
		if err != nil {
			return errors.Errorf("brandId: %q is not an id", value)
		}
		d.BrandID = id
	case "username":
		d.Username = value
	case "email":
		d.Email = value
	case "fullName":
		d.FullName = value
	case "password":
		d.Password = value
	case "roles":
		d.Roles = nil
		for _, r := range strings.Split(value, ",") {
			if r = strings.ToLower(strings.TrimSpace(r)); r != "" {
				d.Roles = append(d.Roles, domain.Role(r))
			}
		}
	default:
		return errors.Errorf("unknown field %q", field)
	}
	return nil
}

// ToggleRole adds or removes r
func (d *Draft) ToggleRole(r domain.Role) {
	for i, v := range d.Roles {
		if v == r {
			d.Roles = append(d.Roles[:i:i], d.Roles[i+1:]...)
			return
		}
	}
	d.Roles = append(d.Roles, r)
}

// draftFrom prefills a draft for kind from an existing entity. A nil entity, typed
// or not, yields create defaults and edit false.
func draftFrom(kind Kind, entity interface{}) (d Draft, id string, edit bool, err error) {
	switch e := entity.(type) {
	case nil:
		return Draft{IsActive: true}, "", false, nil
	case *domain.Category:
		if e == nil {
			return draftFrom(kind, nil)
		}
		return draftFrom(kind, *e)
	case *domain.Brand:
		if e == nil {
			return draftFrom(kind, nil)
		}
		return draftFrom(kind, *e)
	case *domain.Product:
		if e == nil {
			return draftFrom(kind, nil)
		}
		return draftFrom(kind, *e)
	case *domain.User:
		if e == nil {
			return draftFrom(kind, nil)
		}
		return draftFrom(kind, *e)
	case domain.Category:
		if kind != KindCategory {
			break
		}
		return Draft{Name: e.Name, IsActive: e.IsActive}, cast.ToString(e.ID), true, nil
	case domain.Brand:
		if kind != KindBrand {
			break
		}
		return Draft{Name: e.Name, IsActive: e.IsActive}, cast.ToString(e.ID), true, nil
	case domain.Product:
		if kind != KindProduct {
			break
		}
		return Draft{
			Name:       e.Name,
			Price:      e.Price.String(),
			IsActive:   e.IsActive,
			CategoryID: e.CategoryID(),
			BrandID:    e.BrandID(),
			PhotoURL:   e.Photo,
		}, cast.ToString(e.ID), true, nil
	case domain.User:
		if kind != KindUser {
			break
		}
		return Draft{
			Username: e.Username,
			Email:    e.Email,
			FullName: e.FullName,
			IsActive: e.IsActive,
			Roles:    append([]domain.Role(nil), e.Roles...),
		}, e.ID, true, nil
	default:
		return Draft{}, "", false, errors.Errorf("unsupported entity %T", entity)
	}
	return Draft{}, "", false, errors.Errorf("cannot edit %T in a %s form", entity, kind)
}
