package utils

import (
	"bytes"
	"context"
	"encoding/base64"
	"fmt"
	"mime"
	"os"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	s3types "github.com/aws/aws-sdk-go-v2/service/s3/types"
)

var s3Client *s3.Client

// InitS3 sets up the shared S3 client. Photo uploads fail gracefully when it
// was never initialized (local runs without AWS credentials).
func InitS3() error {
	region := os.Getenv("S3_REGION")
	if region == "" {
		region = os.Getenv("AWS_REGION")
	}

	cfg, err := awsconfig.LoadDefaultConfig(context.TODO(), awsconfig.WithRegion(region))
	if err != nil {
		return fmt.Errorf("load AWS config for S3: %w", err)
	}

	s3Client = s3.NewFromConfig(cfg)
	return nil
}

// UploadBase64Image stores a "data:<mime>;base64,<data>" payload under the
// given key prefix and returns its public URL.
func UploadBase64Image(base64Data, prefix string) (string, error) {
	if s3Client == nil {
		return "", &UpstreamError{Service: "s3", Err: fmt.Errorf("client not initialized")}
	}

	parts := strings.Split(base64Data, ",")
	if len(parts) != 2 || !strings.HasPrefix(parts[0], "data:") {
		return "", NewValidationError("invalid base64 image")
	}

	mediaType := strings.TrimPrefix(parts[0], "data:")
	contentType := strings.SplitN(mediaType, ";", 2)[0]

	ext := ".jpg"
	switch contentType {
	case "image/jpeg", "image/jpg":
	default:
		if exts, _ := mime.ExtensionsByType(contentType); len(exts) > 0 {
			ext = exts[0]
		} else if sub := strings.SplitN(contentType, "/", 2); len(sub) == 2 {
			ext = "." + sub[1]
		}
	}

	data, err := base64.StdEncoding.DecodeString(parts[1])
	if err != nil {
		return "", NewValidationError("failed to decode image: %v", err)
	}

	key := fmt.Sprintf("%s/%d%s", prefix, time.Now().UnixNano(), ext)

	_, err = s3Client.PutObject(context.TODO(), &s3.PutObjectInput{
		Bucket:      aws.String(os.Getenv("S3_BUCKET")),
		Key:         aws.String(key),
		Body:        bytes.NewReader(data),
		ContentType: aws.String(contentType),
		ACL:         s3types.ObjectCannedACLPublicRead,
	})
	if err != nil {
		return "", &UpstreamError{Service: "s3", Err: err}
	}

	base := os.Getenv("CDN_URL")
	if base == "" {
		base = fmt.Sprintf("https://%s.s3.amazonaws.com", os.Getenv("S3_BUCKET"))
	}
	return fmt.Sprintf("%s/%s", base, key), nil
}
