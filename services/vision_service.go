package services

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/soumaisfe-svg/vida-fit-control-1/utils"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/rekognition"
	rektypes "github.com/aws/aws-sdk-go-v2/service/rekognition/types"
)

// FoodAnalysis is the calorie estimate for one food photo.
type FoodAnalysis struct {
	Food     string `json:"food"`
	Calories int    `json:"calories"`
	Source   string `json:"source"` // "openai" | "rekognition" | "estimate"
	ImageURL string `json:"imageUrl,omitempty"`
}

// VisionService turns a food photo into a calorie estimate. Primary path is
// the OpenAI vision API; when that fails it degrades to Rekognition labels
// against a static calorie table, and finally to a generic estimate. Each
// upstream gets a single attempt.
type VisionService struct {
	apiKey string
	client *http.Client
	rek    *rekognition.Client
}

func NewVisionService() *VisionService {
	s := &VisionService{
		apiKey: os.Getenv("OPENAI_API_KEY"),
		client: &http.Client{Timeout: 20 * time.Second},
	}
	if os.Getenv("AWS_REGION") != "" {
		cfg, err := awsconfig.LoadDefaultConfig(context.TODO(),
			awsconfig.WithRegion(os.Getenv("AWS_REGION")))
		if err == nil {
			s.rek = rekognition.NewFromConfig(cfg)
		} else {
			utils.Log.Warn().Err(err).Msg("rekognition unavailable")
		}
	}
	return s
}

// AnalyzePhoto uploads the image and estimates its calories.
func (s *VisionService) AnalyzePhoto(ctx context.Context, imageBase64 string) (*FoodAnalysis, error) {
	if imageBase64 == "" {
		return nil, utils.NewValidationError("image_base64 is required")
	}

	imageURL, err := utils.UploadBase64Image(imageBase64, "food-photos")
	if err != nil {
		// analysis can proceed on the inline payload; the URL is cosmetic
		utils.Log.Warn().Err(err).Msg("food photo upload failed")
		imageURL = ""
	}

	if s.apiKey != "" {
		if out, err := s.askVision(ctx, imageBase64); err == nil {
			out.ImageURL = imageURL
			return out, nil
		} else {
			utils.Log.Error().Err(err).Msg("vision upstream failed, trying rekognition")
		}
	}

	if s.rek != nil {
		if out, err := s.labelEstimate(ctx, imageBase64); err == nil {
			out.ImageURL = imageURL
			return out, nil
		} else {
			utils.Log.Error().Err(err).Msg("rekognition failed, using generic estimate")
		}
	}

	return &FoodAnalysis{Food: "mixed dish", Calories: 250, Source: "estimate", ImageURL: imageURL}, nil
}

func (s *VisionService) askVision(ctx context.Context, imageBase64 string) (*FoodAnalysis, error) {
	payload := map[string]interface{}{
		"model": "gpt-4o",
		"messages": []map[string]interface{}{
			{
				"role": "user",
				"content": []map[string]interface{}{
					{
						"type": "text",
						"text": `Identify the food in this photo and its approximate total calories. Reply ONLY in the format: "FOOD: [name] | CALORIES: [number]"`,
					},
					{
						"type":      "image_url",
						"image_url": map[string]string{"url": imageBase64},
					},
				},
			},
		},
		"max_tokens": 300,
	}
	b, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost,
		"https://api.openai.com/v1/chat/completions", bytes.NewReader(b))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+s.apiKey)

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, &utils.UpstreamError{Service: "openai-vision", Err: err}
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &utils.UpstreamError{Service: "openai-vision", Err: err}
	}
	if resp.StatusCode != http.StatusOK {
		return nil, &utils.UpstreamError{Service: "openai-vision", Err: fmt.Errorf("status %d", resp.StatusCode)}
	}

	var cr chatResponse
	if err := json.Unmarshal(body, &cr); err != nil {
		return nil, &utils.UpstreamError{Service: "openai-vision", Err: err}
	}
	if len(cr.Choices) == 0 {
		return nil, &utils.UpstreamError{Service: "openai-vision", Err: fmt.Errorf("empty completion")}
	}

	food, calories, ok := parseFoodAnalysis(cr.Choices[0].Message.Content)
	if !ok {
		return nil, &utils.UpstreamError{Service: "openai-vision", Err: fmt.Errorf("unparseable answer")}
	}
	return &FoodAnalysis{Food: food, Calories: calories, Source: "openai"}, nil
}

// parseFoodAnalysis extracts name and calories from the
// "FOOD: x | CALORIES: n" answer shape (the Portuguese variant included).
func parseFoodAnalysis(answer string) (string, int, bool) {
	parts := strings.Split(answer, "|")
	if len(parts) != 2 {
		return "", 0, false
	}

	name := strings.TrimSpace(parts[0])
	for _, prefix := range []string{"FOOD:", "ALIMENTO:"} {
		if strings.HasPrefix(strings.ToUpper(name), prefix) {
			name = strings.TrimSpace(name[len(prefix):])
			break
		}
	}

	calPart := strings.TrimSpace(parts[1])
	for _, prefix := range []string{"CALORIES:", "CALORIAS:"} {
		if strings.HasPrefix(strings.ToUpper(calPart), prefix) {
			calPart = strings.TrimSpace(calPart[len(prefix):])
			break
		}
	}
	fields := strings.Fields(calPart)
	if len(fields) == 0 {
		return "", 0, false
	}
	calories, err := strconv.Atoi(strings.TrimSuffix(fields[0], "."))
	if err != nil || name == "" {
		return "", 0, false
	}
	return name, calories, true
}

// calorieTable backs the Rekognition fallback: rough per-serving values for
// common label hits.
var calorieTable = map[string]int{
	"pizza":     285,
	"burger":    354,
	"hamburger": 354,
	"salad":     150,
	"pasta":     220,
	"rice":      206,
	"sandwich":  300,
	"fruit":     80,
	"banana":    105,
	"apple":     95,
	"cake":      350,
	"bread":     80,
	"egg":       78,
	"chicken":   230,
	"fish":      180,
	"soup":      120,
}

func (s *VisionService) labelEstimate(ctx context.Context, imageBase64 string) (*FoodAnalysis, error) {
	idx := strings.Index(imageBase64, ",")
	if idx < 0 || !strings.HasPrefix(imageBase64, "data:image") {
		return nil, utils.NewValidationError("invalid data URI")
	}
	data, err := base64.StdEncoding.DecodeString(imageBase64[idx+1:])
	if err != nil {
		return nil, utils.NewValidationError("invalid base64 payload")
	}

	out, err := s.rek.DetectLabels(ctx, &rekognition.DetectLabelsInput{
		Image:         &rektypes.Image{Bytes: data},
		MaxLabels:     aws.Int32(5),
		MinConfidence: aws.Float32(75),
	})
	if err != nil {
		return nil, &utils.UpstreamError{Service: "rekognition", Err: err}
	}

	for _, l := range out.Labels {
		name := strings.ToLower(aws.ToString(l.Name))
		if cal, ok := calorieTable[name]; ok {
			return &FoodAnalysis{Food: name, Calories: cal, Source: "rekognition"}, nil
		}
	}
	if len(out.Labels) > 0 {
		return &FoodAnalysis{
			Food:     strings.ToLower(aws.ToString(out.Labels[0].Name)),
			Calories: 250,
			Source:   "rekognition",
		}, nil
	}
	return nil, &utils.UpstreamError{Service: "rekognition", Err: fmt.Errorf("no labels detected")}
}
