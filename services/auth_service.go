package services

import (
	"errors"
	"time"

	"github.com/soumaisfe-svg/vida-fit-control-1/config"
	"github.com/soumaisfe-svg/vida-fit-control-1/models"
	"github.com/soumaisfe-svg/vida-fit-control-1/utils"

	"gorm.io/gorm"
)

// RegisterUser creates an account and returns it with a fresh session token.
func RegisterUser(email, password, name string) (*models.User, string, error) {
	if email == "" || password == "" {
		return nil, "", utils.NewValidationError("email and password are required")
	}

	var existing models.User
	if err := config.DB.Where("email = ?", email).First(&existing).Error; err == nil {
		return nil, "", utils.NewValidationError("user already exists")
	}

	hashed, err := utils.HashPassword(password)
	if err != nil {
		return nil, "", err
	}

	user := models.User{
		Email:    email,
		Password: hashed,
		Name:     name,
		Role:     models.RoleUser,
	}
	if err := config.DB.Create(&user).Error; err != nil {
		return nil, "", err
	}

	token, err := utils.GenerateJWT(user.ID, user.Email, user.Role)
	if err != nil {
		return nil, "", err
	}

	utils.Log.Info().Str("email", email).Msg("user registered")
	return &user, token, nil
}

// AuthenticateUser checks credentials and issues a session token.
func AuthenticateUser(email, password string) (*models.User, string, error) {
	var user models.User
	if err := config.DB.Where("email = ?", email).First(&user).Error; err != nil {
		return nil, "", &utils.AuthError{Msg: "invalid email or password"}
	}

	if !utils.CheckPasswordHash(password, user.Password) {
		return nil, "", &utils.AuthError{Msg: "invalid email or password"}
	}

	token, err := utils.GenerateJWT(user.ID, user.Email, user.Role)
	if err != nil {
		return nil, "", err
	}
	return &user, token, nil
}

// StartPasswordReset issues a short-lived reset code and emails it. The
// email send is best-effort; callers always answer the same way so account
// existence is not leaked.
func StartPasswordReset(email string) error {
	var user models.User
	if err := config.DB.Where("email = ?", email).First(&user).Error; err != nil {
		return nil // same response either way
	}

	code := utils.GenerateRandomToken(6)
	user.ResetToken = code
	user.ResetTokenExp = time.Now().Add(15 * time.Minute)
	if err := config.DB.Save(&user).Error; err != nil {
		return err
	}

	if err := utils.SendResetEmail(user.Email, code); err != nil {
		utils.Log.Error().Err(err).Str("email", email).Msg("reset email failed")
	}
	return nil
}

// CompletePasswordReset swaps the password for a valid, unexpired code.
func CompletePasswordReset(code, newPassword string) error {
	if code == "" || newPassword == "" {
		return utils.NewValidationError("token and new password are required")
	}

	var user models.User
	err := config.DB.Where("reset_token = ?", code).First(&user).Error
	if errors.Is(err, gorm.ErrRecordNotFound) || (err == nil && time.Now().After(user.ResetTokenExp)) {
		return utils.NewValidationError("invalid or expired token")
	}
	if err != nil {
		return err
	}

	hashed, err := utils.HashPassword(newPassword)
	if err != nil {
		return err
	}

	user.Password = hashed
	user.ResetToken = ""
	user.ResetTokenExp = time.Time{}
	return config.DB.Save(&user).Error
}

// FindUserByID resolves a user or reports UserNotFound.
func FindUserByID(id uint) (*models.User, error) {
	var user models.User
	if err := config.DB.First(&user, id).Error; err != nil {
		return nil, utils.UserNotFoundError()
	}
	return &user, nil
}
