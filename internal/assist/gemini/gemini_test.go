package gemini

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/debemdeboas/inkdraft/internal/assist"
	"github.com/rs/zerolog"
	"google.golang.org/genai"
)

type fakeModels struct {
	model   string
	prompt  string
	config  *genai.GenerateContentConfig
	text    string
	err     error
	invoked int
}

func (f *fakeModels) GenerateContent(ctx context.Context, model string, contents []*genai.Content, config *genai.GenerateContentConfig) (*genai.GenerateContentResponse, error) {
	f.invoked++
	f.model = model
	f.config = config
	if len(contents) > 0 && len(contents[0].Parts) > 0 {
		f.prompt = contents[0].Parts[0].Text
	}
	if f.err != nil {
		return nil, f.err
	}
	return &genai.GenerateContentResponse{
		Candidates: []*genai.Candidate{{
			Content: genai.NewContentFromText(f.text, genai.RoleModel),
		}},
	}, nil
}

func newTestClient(f *fakeModels) *Client {
	return newClient(f, Config{RequestsPerMinute: 6000}, zerolog.Nop())
}

func TestStripFences(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"<p>x</p>", "<p>x</p>"},
		{"  <p>x</p>\n", "<p>x</p>"},
		{"```html\n<p>x</p>\n```", "<p>x</p>"},
		{"```\n<p>x</p>```", "<p>x</p>"},
		{"```", ""},
	}
	for _, tt := range tests {
		if got := stripFences(tt.in); got != tt.want {
			t.Errorf("stripFences(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestGeneratePrompt(t *testing.T) {
	p := generatePrompt(assist.GenerateRequest{Title: "Hello", Category: "tech", Tags: []string{"go", "ai"}})
	for _, want := range []string{`"Hello"`, "Category: tech.", "Tags: go, ai."} {
		if !strings.Contains(p, want) {
			t.Errorf("Expected prompt to contain %q, got %q", want, p)
		}
	}

	bare := generatePrompt(assist.GenerateRequest{Title: "Hello"})
	if strings.Contains(bare, "Category") || strings.Contains(bare, "Tags") {
		t.Errorf("Expected empty category and tags to be omitted, got %q", bare)
	}
}

func TestImprovePrompt(t *testing.T) {
	for _, kind := range assist.Kinds {
		p := improvePrompt("<p>body</p>", kind)
		if !strings.HasPrefix(p, improveInstructions[kind]) || !strings.HasSuffix(p, "<p>body</p>") {
			t.Errorf("Unexpected %s prompt %q", kind, p)
		}
	}
}

func TestClientGenerate(t *testing.T) {
	f := &fakeModels{text: "```html\n<p>World</p>\n```"}
	c := newTestClient(f)

	res, err := c.Generate(context.Background(), assist.GenerateRequest{Title: "Hello"})
	if err != nil {
		t.Fatalf("Generate failed: %v", err)
	}
	if !res.Success || res.Content != "<p>World</p>" {
		t.Errorf("Unexpected result %+v", res)
	}
	if f.model != DefaultModel {
		t.Errorf("Expected default model, got %q", f.model)
	}
	if f.config == nil || f.config.SystemInstruction == nil || f.config.Temperature == nil {
		t.Fatal("Expected system instruction and temperature to be set")
	}
	if *f.config.Temperature != float32(DefaultTemperature) {
		t.Errorf("Unexpected temperature %v", *f.config.Temperature)
	}
	if !strings.Contains(f.prompt, "Hello") {
		t.Errorf("Expected title in prompt, got %q", f.prompt)
	}
}

func TestClientEmptyResponse(t *testing.T) {
	c := newTestClient(&fakeModels{text: "   "})

	res, err := c.Improve(context.Background(), "<p>x</p>", assist.KindExpand)
	if err != nil {
		t.Fatalf("Expected no call error, got %v", err)
	}
	if res.Success || res.Error == "" {
		t.Errorf("Expected unsuccessful result with message, got %+v", res)
	}
}

func TestClientCallError(t *testing.T) {
	boom := errors.New("503 unavailable")
	c := newTestClient(&fakeModels{err: boom})

	if _, err := c.Generate(context.Background(), assist.GenerateRequest{Title: "x"}); !errors.Is(err, boom) {
		t.Errorf("Expected wrapped call error, got %v", err)
	}
}

func TestClientRespectsCancelledContext(t *testing.T) {
	f := &fakeModels{text: "<p>x</p>"}
	c := newClient(f, Config{RequestsPerMinute: 1}, zerolog.Nop())

	// The first request consumes the only token.
	if _, err := c.Generate(context.Background(), assist.GenerateRequest{Title: "x"}); err != nil {
		t.Fatal(err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := c.Generate(ctx, assist.GenerateRequest{Title: "x"}); err == nil {
		t.Error("Expected rate limiter to give up on a cancelled context")
	}
	if f.invoked != 1 {
		t.Errorf("Expected a single backend call, got %d", f.invoked)
	}
}

func TestNewClientRequiresKey(t *testing.T) {
	if _, err := NewClient(context.Background(), Config{}, zerolog.Nop()); err == nil {
		t.Error("Expected error without API key")
	}
}
