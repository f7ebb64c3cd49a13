package mockapi

import (
	"github.com/talkincode/shopdesk/internal/domain"
	"go.uber.org/zap"
)

// Demo accounts created by seed
const (
	AdminEmail    = "admin@shopdesk.local"
	AdminPassword = "Admin123"
	SalesEmail    = "sales@shopdesk.local"
	SalesPassword = "Sales123"
)

func (s *Server) seedUser(u domain.User, password string) {
	hash, err := hashPassword(password)
	if err != nil {
		zap.L().Error("failed to seed user", zap.String("username", u.Username), zap.Error(err))
		return
	}
	s.store.users.ReplaceOrInsert(userRow{User: u, PasswordHash: hash})
	zap.L().Info("initialized demo account", zap.String("namespace", "mockapi"), zap.String("email", u.Email))
}

// seed loads demo accounts, categories, brands and products
func (s *Server) seed() {
	s.store.mu.Lock()
	defer s.store.mu.Unlock()

	s.seedUser(domain.User{
		ID: "u1", Username: "admin", Email: AdminEmail, FullName: "Shop Administrator",
		IsActive: true, Roles: []domain.Role{domain.RoleAdmin},
	}, AdminPassword)
	s.seedUser(domain.User{
		ID: "u2", Username: "sales", Email: SalesEmail, FullName: "Sales Desk",
		IsActive: true, Roles: []domain.Role{domain.RoleSales},
	}, SalesPassword)

	cats := map[string]int64{}
	for _, name := range []string{"Gaseosas", "Lácteos", "Snacks"} {
		c := domain.Category{ID: s.store.id(), Name: name, IsActive: true}
		s.store.categories.ReplaceOrInsert(c)
		cats[name] = c.ID
	}
	brands := map[string]int64{}
	for _, name := range []string{"Andina", "Gloria", "PepsiCo"} {
		b := domain.Brand{ID: s.store.id(), Name: name, IsActive: true}
		s.store.brands.ReplaceOrInsert(b)
		brands[name] = b.ID
	}

	products := []struct {
		name, price, category, brand string
		active                       bool
	}{
		{"Inca Kola 500ml", "2.50", "Gaseosas", "Andina", true},
		{"Coca-Cola 1.5L", "5.90", "Gaseosas", "Andina", true},
		{"Pepsi 500ml", "2.20", "Gaseosas", "PepsiCo", true},
		{"Leche Gloria 1L", "4.30", "Lácteos", "Gloria", true},
		{"Yogurt Fresa 1L", "6.10", "Lácteos", "Gloria", false},
		{"Papas Lays 150g", "3.80", "Snacks", "PepsiCo", true},
		{"Doritos 90g", "2.90", "Snacks", "PepsiCo", true},
		{"Queso Fresco 250g", "8.50", "Lácteos", "Gloria", true},
		{"Agua San Luis 625ml", "1.50", "Gaseosas", "Andina", true},
		{"Cheetos 75g", "2.40", "Snacks", "PepsiCo", true},
		{"Sprite 500ml", "2.30", "Gaseosas", "Andina", false},
		{"Mantequilla 200g", "7.20", "Lácteos", "Gloria", true},
	}
	for _, p := range products {
		s.store.products.ReplaceOrInsert(domain.Product{
			ID:       s.store.id(),
			Name:     p.name,
			Price:    domain.Decimal(p.price),
			IsActive: p.active,
			Category: &domain.Category{ID: cats[p.category]},
			Brand:    &domain.Brand{ID: brands[p.brand]},
		})
	}
	zap.L().Info("seeded demo catalog",
		zap.String("namespace", "mockapi"),
		zap.Int("categories", len(cats)),
		zap.Int("brands", len(brands)),
		zap.Int("products", len(products)))
}
