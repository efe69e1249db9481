package services

import (
	"context"
	"encoding/json"
	"os"

	"github.com/soumaisfe-svg/vida-fit-control-1/models"
	"github.com/soumaisfe-svg/vida-fit-control-1/utils"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/sns"
	"gorm.io/gorm"
)

// PushService delivers mobile notifications through SNS platform endpoints
// registered per device. Best-effort: failures are logged, never surfaced.
type PushService struct {
	db     *gorm.DB
	client *sns.Client
}

func NewPushService(db *gorm.DB) *PushService {
	s := &PushService{db: db}
	if os.Getenv("AWS_REGION") == "" {
		return s
	}
	cfg, err := awsconfig.LoadDefaultConfig(context.TODO(),
		awsconfig.WithRegion(os.Getenv("AWS_REGION")))
	if err != nil {
		utils.Log.Warn().Err(err).Msg("sns unavailable")
		return s
	}
	s.client = sns.NewFromConfig(cfg)
	return s
}

func (s *PushService) PushToUser(userID uint, title, body string, data map[string]string) {
	if s.client == nil {
		return
	}

	var devices []models.UserDevice
	if err := s.db.Where("user_id = ? AND enabled = ?", userID, true).Find(&devices).Error; err != nil {
		utils.Log.Error().Err(err).Uint("user", userID).Msg("load push devices")
		return
	}

	payload := map[string]any{"title": title, "body": body, "data": data}
	msg, _ := json.Marshal(payload)

	for _, d := range devices {
		if d.EndpointARN == "" {
			continue
		}
		_, err := s.client.Publish(context.TODO(), &sns.PublishInput{
			TargetArn: aws.String(d.EndpointARN),
			Message:   aws.String(string(msg)),
		})
		if err != nil {
			utils.Log.Error().Err(err).Str("endpoint", d.EndpointARN).Msg("push failed")
		}
	}
}
