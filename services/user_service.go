package services

import (
	"fmt"

	"github.com/soumaisfe-svg/vida-fit-control-1/config"
	"github.com/soumaisfe-svg/vida-fit-control-1/models"
	"github.com/soumaisfe-svg/vida-fit-control-1/utils"
)

type ProfileInput struct {
	Name           string `json:"name"`
	ProfilePicture string `json:"profile_picture"` // base64 data URI
}

func GetUserProfile(userID uint) (map[string]interface{}, error) {
	user, err := FindUserByID(userID)
	if err != nil {
		return nil, err
	}

	profile := user.Sanitized()
	if user.PremiumSince != nil {
		profile["premiumSince"] = user.PremiumSince.Format("2006-01-02")
	}
	return profile, nil
}

func UpdateUserProfile(userID uint, input ProfileInput) error {
	user, err := FindUserByID(userID)
	if err != nil {
		return err
	}

	if input.Name != "" {
		user.Name = input.Name
	}
	if input.ProfilePicture != "" {
		url, err := utils.UploadBase64Image(input.ProfilePicture, "profile-pictures/"+user.Email)
		if err != nil {
			return fmt.Errorf("failed to upload picture: %w", err)
		}
		user.ProfilePicture = url
	}

	return config.DB.Save(user).Error
}

// RegisterDevice records an SNS push target for the user.
func RegisterDevice(userID uint, platform, tokenHash, endpointARN string) error {
	if platform != "android" && platform != "ios" {
		return utils.NewValidationError("platform must be android or ios")
	}
	dev := models.UserDevice{
		UserID:      userID,
		Platform:    platform,
		TokenHash:   tokenHash,
		EndpointARN: endpointARN,
		Enabled:     true,
	}
	return config.DB.
		Where("user_id = ? AND token_hash = ?", userID, tokenHash).
		Assign(dev).
		FirstOrCreate(&dev).Error
}
