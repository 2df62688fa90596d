// Package gemini implements the AI gateway on top of the Gemini API.
package gemini

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/debemdeboas/inkdraft/internal/assist"
	"github.com/rs/zerolog"
	"golang.org/x/time/rate"
	"google.golang.org/genai"
)

const (
	DefaultModel             = "gemini-2.0-flash"
	DefaultTemperature       = 0.7
	DefaultRequestsPerMinute = 30
)

const systemInstruction = `You are a writing assistant for a blog editor.
Answer with HTML only, using the tags <h1>, <h2>, <h3>, <p>, <strong>, <em>, <u>, <s>, <blockquote>, <pre>, <code>, <ol>, <ul>, <li> and <a>.
Never wrap the answer in Markdown code fences and never add commentary before or after the HTML.`

type Config struct {
	APIKey            string
	Model             string
	Temperature       float64
	RequestsPerMinute int
}

// generator is the subset of the genai models service the client uses.
type generator interface {
	GenerateContent(ctx context.Context, model string, contents []*genai.Content, config *genai.GenerateContentConfig) (*genai.GenerateContentResponse, error)
}

type Client struct {
	models      generator
	model       string
	temperature float32
	limiter     *rate.Limiter
	logger      zerolog.Logger
}

func NewClient(ctx context.Context, cfg Config, logger zerolog.Logger) (*Client, error) {
	if cfg.APIKey == "" {
		return nil, errors.New("gemini: API key is required")
	}

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  cfg.APIKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create genai client: %w", err)
	}

	return newClient(client.Models, cfg, logger), nil
}

func newClient(models generator, cfg Config, logger zerolog.Logger) *Client {
	if cfg.Model == "" {
		cfg.Model = DefaultModel
	}
	if cfg.Temperature <= 0 {
		cfg.Temperature = DefaultTemperature
	}
	if cfg.RequestsPerMinute <= 0 {
		cfg.RequestsPerMinute = DefaultRequestsPerMinute
	}

	return &Client{
		models:      models,
		model:       cfg.Model,
		temperature: float32(cfg.Temperature),
		limiter:     rate.NewLimiter(rate.Every(time.Minute/time.Duration(cfg.RequestsPerMinute)), 1),
		logger:      logger.With().Str("component", "gemini").Str("model", cfg.Model).Logger(),
	}
}

func (c *Client) Generate(ctx context.Context, req assist.GenerateRequest) (assist.Result, error) {
	return c.complete(ctx, generatePrompt(req))
}

func (c *Client) Improve(ctx context.Context, content string, kind assist.Kind) (assist.Result, error) {
	return c.complete(ctx, improvePrompt(content, kind))
}

func (c *Client) complete(ctx context.Context, prompt string) (assist.Result, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return assist.Result{}, fmt.Errorf("rate limit: %w", err)
	}

	start := time.Now()
	resp, err := c.models.GenerateContent(ctx, c.model, genai.Text(prompt), &genai.GenerateContentConfig{
		SystemInstruction: genai.NewContentFromText(systemInstruction, genai.RoleUser),
		Temperature:       genai.Ptr(c.temperature),
	})
	if err != nil {
		return assist.Result{}, fmt.Errorf("generate content: %w", err)
	}

	text := stripFences(resp.Text())
	c.logger.Debug().
		Dur("duration", time.Since(start)).
		Int("prompt_chars", len(prompt)).
		Int("response_chars", len(text)).
		Msg("Gemini response")

	if text == "" {
		return assist.Result{Success: false, Error: "The AI returned an empty response"}, nil
	}
	return assist.Result{Success: true, Content: text}, nil
}

func generatePrompt(req assist.GenerateRequest) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Write a complete, engaging blog post titled %q.\n", req.Title)
	if req.Category != "" {
		fmt.Fprintf(&b, "Category: %s.\n", req.Category)
	}
	if len(req.Tags) > 0 {
		fmt.Fprintf(&b, "Tags: %s.\n", strings.Join(req.Tags, ", "))
	}
	b.WriteString("Include an introduction, several sections with headings and a conclusion.")
	return b.String()
}

var improveInstructions = map[assist.Kind]string{
	assist.KindEnhance:  "Improve the clarity, flow and word choice of the following post while keeping its meaning and length.",
	assist.KindExpand:   "Expand the following post with more detail, examples and explanation while keeping its structure.",
	assist.KindSimplify: "Rewrite the following post in simpler language that is easier to read, keeping the key points.",
}

func improvePrompt(content string, kind assist.Kind) string {
	instruction, ok := improveInstructions[kind]
	if !ok {
		instruction = improveInstructions[assist.KindEnhance]
	}
	return instruction + "\n\n" + content
}

// stripFences removes a Markdown code fence wrapped around the answer.
func stripFences(s string) string {
	s = strings.TrimSpace(s)
	if !strings.HasPrefix(s, "```") {
		return s
	}
	s = strings.TrimPrefix(s, "```")
	if i := strings.IndexByte(s, '\n'); i >= 0 {
		s = s[i+1:]
	} else {
		s = ""
	}
	s = strings.TrimSpace(s)
	s = strings.TrimSuffix(s, "```")
	return strings.TrimSpace(s)
}
