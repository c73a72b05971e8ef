package model

import (
	"atlas/internal/auth"
	"atlas/internal/config"
	"atlas/internal/entity"
	"context"
	"errors"
	"strings"

	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

// SeedDefaults bootstraps the database: the default ad platforms, and a
// super-admin account when the user table is empty.
func SeedDefaults(ctx context.Context, repo Repository, cfg config.Config) error {
	if repo == nil {
		return nil
	}
	if err := seedPlatforms(ctx, repo); err != nil {
		return err
	}
	return seedAdminUser(ctx, repo, cfg)
}

func seedPlatforms(ctx context.Context, repo Repository) error {
	seeds := []entity.DbPlatform{
		{Code: "facebook", Name: "Facebook Ads", IsActive: true},
		{Code: "google", Name: "Google Ads", IsActive: true},
		{Code: "tiktok", Name: "TikTok Ads", IsActive: true},
		{Code: "snapchat", Name: "Snapchat Ads", IsActive: true},
	}

	for _, seed := range seeds {
		_, err := repo.GetPlatformByCode(ctx, seed.Code)
		switch {
		case err == nil:
			continue
		case errors.Is(err, gorm.ErrRecordNotFound):
			platform := seed
			if err := repo.CreatePlatform(ctx, &platform); err != nil {
				return err
			}
		default:
			return err
		}
	}
	return nil
}

func seedAdminUser(ctx context.Context, repo Repository, cfg config.Config) error {
	count, err := repo.CountUsers(ctx)
	if err != nil {
		return err
	}
	if count > 0 {
		return nil
	}

	password := strings.TrimSpace(cfg.AdminPassword)
	if password == "" {
		logrus.Warn("no users exist and ADMIN_PASSWORD is unset; skipping super admin seed")
		return nil
	}
	if err := auth.ValidatePasswordPolicy(password); err != nil {
		return err
	}

	hash, err := auth.HashPassword(password)
	if err != nil {
		return err
	}

	user := &entity.DbUser{
		Email:        auth.NormalizeEmail(cfg.AdminEmail),
		PasswordHash: hash,
		DisplayName:  "Administrator",
		Role:         entity.RoleSuperAdmin,
		IsActive:     true,
	}
	if err := repo.CreateUser(ctx, user); err != nil {
		return err
	}

	logrus.WithField("email", user.Email).Info("seeded super admin account")
	return nil
}
