package server

import (
	"context"

	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/gildedspoon/tableside"
)

// seed loads a demo menu and two accounts into an empty database so a
// fresh checkout of the project is usable immediately.
func (s *Server) seed(ctx context.Context) error {
	count, err := s.db.NewSelect().Model((*User)(nil)).Count(ctx)
	if err != nil {
		return err
	}
	if count > 0 {
		return nil
	}

	accounts := []struct {
		username string
		password string
		role     tableside.Role
	}{
		{"admin", "admin123", tableside.RoleAdmin},
		{"guest", "guest123", tableside.RoleUser},
	}
	for _, acct := range accounts {
		hash, err := bcrypt.GenerateFromPassword([]byte(acct.password), s.cfg.BcryptCost)
		if err != nil {
			return err
		}
		user := &User{Username: acct.username, PasswordHash: string(hash), Role: acct.role}
		if _, err := s.db.NewInsert().Model(user).Exec(ctx); err != nil {
			return err
		}
	}

	menu := []*MenuItem{
		{Name: "Paneer Tikka", Price: 245, Description: "Char-grilled cottage cheese with mint chutney"},
		{Name: "Butter Chicken", Price: 320, Description: "Tandoori chicken in a tomato cream gravy"},
		{Name: "Dal Makhani", Price: 210, Description: "Black lentils simmered overnight"},
		{Name: "Garlic Naan", Price: 55, Description: "Leavened flatbread with roasted garlic"},
		{Name: "Gulab Jamun", Price: 95, Description: "Milk dumplings in saffron syrup"},
	}
	if _, err := s.db.NewInsert().Model(&menu).Exec(ctx); err != nil {
		return err
	}

	s.logger.Info("seeded demo data",
		zap.Int("accounts", len(accounts)),
		zap.Int("menu_items", len(menu)),
	)
	return nil
}
