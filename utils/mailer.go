package utils

import (
	"context"
	"fmt"
	"os"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/ses"
	sestypes "github.com/aws/aws-sdk-go-v2/service/ses/types"
)

// SendResetEmail delivers the password-reset code via SES. Single attempt,
// no retry; the caller treats failure as best-effort.
func SendResetEmail(to, code string) error {
	cfg, err := awsconfig.LoadDefaultConfig(context.TODO(),
		awsconfig.WithRegion(os.Getenv("AWS_REGION")))
	if err != nil {
		return &UpstreamError{Service: "ses", Err: err}
	}
	client := ses.NewFromConfig(cfg)

	subject := "VivaFit Control – password reset"
	body := fmt.Sprintf(
		"Your password reset code is %s.\n\nIt expires in 15 minutes. If you did not request a reset, ignore this email.",
		code,
	)

	_, err = client.SendEmail(context.TODO(), &ses.SendEmailInput{
		Source: aws.String(os.Getenv("MAIL_FROM")),
		Destination: &sestypes.Destination{
			ToAddresses: []string{to},
		},
		Message: &sestypes.Message{
			Subject: &sestypes.Content{Data: aws.String(subject)},
			Body: &sestypes.Body{
				Text: &sestypes.Content{Data: aws.String(body)},
			},
		},
	})
	if err != nil {
		return &UpstreamError{Service: "ses", Err: err}
	}
	return nil
}
