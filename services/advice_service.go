package services

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/soumaisfe-svg/vida-fit-control-1/models"
	"github.com/soumaisfe-svg/vida-fit-control-1/utils"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// AdviceService answers health questions through the OpenAI chat API,
// falling back to deterministic keyword-matched templates whenever the
// upstream call fails or no key is configured. Single attempt, no retry.
type AdviceService struct {
	db     *gorm.DB
	apiKey string
	model  string
	client *http.Client
}

func NewAdviceService(db *gorm.DB) *AdviceService {
	model := os.Getenv("OPENAI_MODEL")
	if model == "" {
		model = "gpt-4o-mini"
	}
	return &AdviceService{
		db:     db,
		apiKey: os.Getenv("OPENAI_API_KEY"),
		model:  model,
		client: &http.Client{Timeout: 10 * time.Second},
	}
}

// Research produces and stores an advice report. Premium-gated: free
// accounts get a PremiumRequiredError so the client can route to checkout.
func (s *AdviceService) Research(ctx context.Context, userID uint, question string) (*models.AIReport, error) {
	if strings.TrimSpace(question) == "" {
		return nil, utils.NewValidationError("question is required")
	}

	user, err := FindUserByID(userID)
	if err != nil {
		return nil, err
	}
	if !user.HasPremiumAccess() {
		return nil, &utils.PremiumRequiredError{}
	}

	answer, source := s.answer(ctx, question)

	report := models.AIReport{
		ID:       uuid.NewString(),
		UserID:   userID,
		Question: question,
		Answer:   answer,
		Source:   source,
	}
	if err := s.db.Create(&report).Error; err != nil {
		return nil, err
	}
	return &report, nil
}

// History lists a user's reports, newest first.
func (s *AdviceService) History(userID uint) ([]models.AIReport, error) {
	var reports []models.AIReport
	err := s.db.
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Find(&reports).Error
	return reports, err
}

func (s *AdviceService) answer(ctx context.Context, question string) (string, string) {
	if s.apiKey == "" {
		return FallbackAnswer(question), "fallback"
	}
	answer, err := s.askOpenAI(ctx, question)
	if err != nil {
		utils.Log.Error().Err(err).Msg("advice upstream failed, using fallback")
		return FallbackAnswer(question), "fallback"
	}
	return answer, "openai"
}

type chatRequest struct {
	Model    string        `json:"model"`
	Messages []chatMessage `json:"messages"`
	MaxTok   int           `json:"max_tokens"`
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
}

func (s *AdviceService) askOpenAI(ctx context.Context, question string) (string, error) {
	payload := chatRequest{
		Model: s.model,
		Messages: []chatMessage{
			{Role: "system", Content: "You are a friendly health coach for a habit-tracking app. Answer with practical, structured advice in markdown."},
			{Role: "user", Content: question},
		},
		MaxTok: 600,
	}
	b, err := json.Marshal(payload)
	if err != nil {
		return "", err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost,
		"https://api.openai.com/v1/chat/completions", bytes.NewReader(b))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+s.apiKey)

	resp, err := s.client.Do(req)
	if err != nil {
		return "", &utils.UpstreamError{Service: "openai", Err: err}
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", &utils.UpstreamError{Service: "openai", Err: err}
	}
	if resp.StatusCode != http.StatusOK {
		return "", &utils.UpstreamError{Service: "openai", Err: fmt.Errorf("status %d", resp.StatusCode)}
	}

	var cr chatResponse
	if err := json.Unmarshal(body, &cr); err != nil {
		return "", &utils.UpstreamError{Service: "openai", Err: err}
	}
	if len(cr.Choices) == 0 || cr.Choices[0].Message.Content == "" {
		return "", &utils.UpstreamError{Service: "openai", Err: fmt.Errorf("empty completion")}
	}
	return cr.Choices[0].Message.Content, nil
}

// FallbackAnswer is the static keyword-matched response used when the LLM
// is unreachable or unconfigured. The mapping is deterministic.
func FallbackAnswer(question string) string {
	q := strings.ToLower(question)

	switch {
	case strings.Contains(q, "sleep") || strings.Contains(q, "sono") || strings.Contains(q, "dormir"):
		return sleepGuide
	case strings.Contains(q, "meal") || strings.Contains(q, "diet") ||
		strings.Contains(q, "menu") || strings.Contains(q, "eat") ||
		strings.Contains(q, "cardápio") || strings.Contains(q, "alimentação"):
		return mealPlan
	default:
		return genericAdvice
	}
}

const sleepGuide = `# Improving Your Sleep

**Personalized tips:**

1. **Consistent routine**: go to bed and wake up at the same time every day
2. **Ideal environment**: dark, quiet and cool bedroom (18–22°C)
3. **Avoid screens**: switch devices off one hour before bed
4. **Wind down**: practice deep breathing or meditation
5. **Food**: skip caffeine after 2pm and heavy meals late at night

**Recommended target:** 7–9 hours per night

Try these for two weeks and follow your progress in the app!`

const mealPlan = `# Your Healthy Menu

**Breakfast (7–8am):** scrambled eggs with tomato, a slice of whole-grain
bread, one fruit, unsweetened coffee or tea.

**Morning snack (10am):** plain yogurt with granola, a handful of nuts.

**Lunch (12–1pm):** brown rice, beans, grilled chicken (150g), green salad,
steamed vegetables.

**Afternoon snack (4pm):** mixed fruit and a slice of white cheese.

**Dinner (7–8pm):** grilled fish or an omelet, full salad, one medium sweet
potato.

**Hydration:** 2–3 liters of water across the day.`

const genericAdvice = `# Personalized Report

Thanks for using VivaFit Control!

Your question was reviewed; here are a few recommendations:

- Keep a consistent daily routine
- Track your habits every day
- Celebrate small wins
- Be kind to yourself

Keep using the app for better results!`
