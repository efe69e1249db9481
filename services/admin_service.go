package services

import (
	"github.com/soumaisfe-svg/vida-fit-control-1/config"
	"github.com/soumaisfe-svg/vida-fit-control-1/models"
	"github.com/soumaisfe-svg/vida-fit-control-1/utils"
)

// AdminStats backs the dashboard counters.
type AdminStats struct {
	TotalUsers          int64 `json:"totalUsers"`
	PremiumUsers        int64 `json:"premiumUsers"`
	TotalSubscriptions  int64 `json:"totalSubscriptions"`
	ActiveSubscriptions int64 `json:"activeSubscriptions"`
	TotalReports        int64 `json:"totalReports"`
	TotalHabits         int64 `json:"totalHabits"`
	CoinsIssued         int64 `json:"coinsIssued"`
}

func GetAdminStats() (*AdminStats, error) {
	var s AdminStats
	db := config.DB

	if err := db.Model(&models.User{}).Count(&s.TotalUsers).Error; err != nil {
		return nil, err
	}
	if err := db.Model(&models.User{}).Where("is_premium = ?", true).Count(&s.PremiumUsers).Error; err != nil {
		return nil, err
	}
	if err := db.Model(&models.Subscription{}).Count(&s.TotalSubscriptions).Error; err != nil {
		return nil, err
	}
	if err := db.Model(&models.Subscription{}).
		Where("status = ?", models.SubscriptionActive).
		Count(&s.ActiveSubscriptions).Error; err != nil {
		return nil, err
	}
	if err := db.Model(&models.AIReport{}).Count(&s.TotalReports).Error; err != nil {
		return nil, err
	}
	if err := db.Model(&models.HabitRecord{}).Count(&s.TotalHabits).Error; err != nil {
		return nil, err
	}

	var issued *int64
	if err := db.Model(&models.CoinTransaction{}).
		Select("SUM(amount)").Scan(&issued).Error; err != nil {
		return nil, err
	}
	if issued != nil {
		s.CoinsIssued = *issued
	}

	return &s, nil
}

// ListUsers returns every account with credentials stripped.
func ListUsers() ([]map[string]interface{}, error) {
	var users []models.User
	if err := config.DB.Order("id ASC").Find(&users).Error; err != nil {
		return nil, err
	}

	out := make([]map[string]interface{}, 0, len(users))
	for i := range users {
		out = append(out, users[i].Sanitized())
	}
	return out, nil
}

// CreateUser is the admin path for provisioning accounts, including other
// admins. Regular registration never sets a role.
func CreateUser(email, password, name, role string) (*models.User, error) {
	if role == "" {
		role = models.RoleUser
	}
	if role != models.RoleUser && role != models.RoleAdmin {
		return nil, utils.NewValidationError("role must be user or admin")
	}

	user, _, err := RegisterUser(email, password, name)
	if err != nil {
		return nil, err
	}

	if role != user.Role {
		user.Role = role
		if err := config.DB.Save(user).Error; err != nil {
			return nil, err
		}
	}
	return user, nil
}

// UpdateUserPassword force-sets a password from the admin dashboard.
func UpdateUserPassword(email, newPassword string) error {
	if newPassword == "" {
		return utils.NewValidationError("new password is required")
	}

	var user models.User
	if err := config.DB.Where("email = ?", email).First(&user).Error; err != nil {
		return utils.UserNotFoundError()
	}

	hashed, err := utils.HashPassword(newPassword)
	if err != nil {
		return err
	}
	user.Password = hashed
	return config.DB.Save(&user).Error
}
