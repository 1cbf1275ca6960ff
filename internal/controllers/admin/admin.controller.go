package adminController

import (
	"context"
	"regexp"

	"muster/config"
	"muster/internal/logger"
	. "muster/internal/models"
	"muster/internal/repositories"

	"golang.org/x/crypto/bcrypt"
)

// Password strength: at least 10 chars with letters, digits and a symbol.
var (
	passwordLength = regexp.MustCompile(`.{10,}`)
	passwordLetter = regexp.MustCompile(`[A-Za-z]`)
	passwordDigit  = regexp.MustCompile(`\d`)
	passwordSymbol = regexp.MustCompile(`[^A-Za-z0-9]`)
)

type AdminController struct {
	adminRepo repositories.AdminRepository
	Config    config.Config
	log       logger.Logger
}

func New(adminRepo repositories.AdminRepository, config config.Config) *AdminController {
	return &AdminController{
		adminRepo: adminRepo,
		Config:    config,
		log:       logger.New("AdminController"),
	}
}

// EnsureDefaultAdmin creates the configured admin account when no admin
// exists yet, so a fresh install is immediately usable.
func (ac *AdminController) EnsureDefaultAdmin(ctx context.Context) error {
	log := ac.log.Function("EnsureDefaultAdmin")

	count, err := ac.adminRepo.Count(ctx)
	if err != nil {
		return log.Err("failed to count admins", err)
	}
	if count > 0 {
		return nil
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(ac.Config.AdminPassword), bcrypt.DefaultCost)
	if err != nil {
		return log.Err("failed to hash default password", err)
	}

	admin := &Admin{
		Username:     ac.Config.AdminUsername,
		PasswordHash: string(hash),
	}
	if err := ac.adminRepo.Create(ctx, admin); err != nil {
		return log.Err("failed to create default admin", err)
	}

	log.Warn("Default admin created, change the password", "username", admin.Username)
	return nil
}

// Login verifies credentials and returns the admin record, or ErrNotFound
// for both unknown usernames and wrong passwords.
func (ac *AdminController) Login(ctx context.Context, username, password string) (*Admin, error) {
	log := ac.log.Function("Login")

	admin, err := ac.adminRepo.GetByUsername(ctx, username)
	if err != nil {
		return nil, log.Err("failed to get admin", err, "username", username)
	}
	if admin == nil {
		return nil, ErrNotFound
	}

	if err := bcrypt.CompareHashAndPassword([]byte(admin.PasswordHash), []byte(password)); err != nil {
		return nil, ErrNotFound
	}

	return admin, nil
}

// ChangePassword verifies the current password, enforces the strength rule,
// and stores the new hash.
func (ac *AdminController) ChangePassword(ctx context.Context, adminID int, current, password string) error {
	log := ac.log.Function("ChangePassword")

	if !PasswordStrong(password) {
		return ErrWeakPassword
	}

	admin, err := ac.adminRepo.GetByID(ctx, adminID)
	if err != nil {
		return log.Err("failed to get admin", err, "adminID", adminID)
	}
	if admin == nil {
		return ErrNotFound
	}

	if err := bcrypt.CompareHashAndPassword([]byte(admin.PasswordHash), []byte(current)); err != nil {
		return ErrNotFound
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return log.Err("failed to hash password", err)
	}

	if err := ac.adminRepo.UpdatePasswordHash(ctx, adminID, string(hash)); err != nil {
		return log.Err("failed to update password", err, "adminID", adminID)
	}

	return nil
}

func PasswordStrong(password string) bool {
	return passwordLength.MatchString(password) &&
		passwordLetter.MatchString(password) &&
		passwordDigit.MatchString(password) &&
		passwordSymbol.MatchString(password)
}
