package inference

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/generative-ai-go/genai"
	"google.golang.org/api/option"
)

// Gemini wraps one genai client for both text generation and vision prompts.
// The client is created once and must be closed on shutdown.
type Gemini struct {
	cl          *genai.Client
	model       string
	visionModel string
	temperature float32
	modelInfo   func(ctx context.Context, name string) error
}

func NewGemini(ctx context.Context, apiKey, model, visionModel string, temperature float32) (*Gemini, error) {
	apiKey = strings.TrimSpace(apiKey)
	if apiKey == "" {
		return nil, errors.New("GEMINI_API_KEY is empty")
	}
	cl, err := genai.NewClient(ctx, option.WithAPIKey(apiKey))
	if err != nil {
		return nil, fmt.Errorf("gemini client: %w", err)
	}
	if strings.TrimSpace(visionModel) == "" {
		visionModel = model
	}
	g := &Gemini{cl: cl, model: strings.TrimSpace(model), visionModel: strings.TrimSpace(visionModel), temperature: temperature}
	g.modelInfo = func(ctx context.Context, name string) error {
		_, err := g.cl.GenerativeModel(name).Info(ctx)
		return err
	}
	return g, nil
}

func (g *Gemini) Model() string       { return g.model }
func (g *Gemini) VisionModel() string { return g.visionModel }

func (g *Gemini) Close() error {
	if g.cl == nil {
		return nil
	}
	return g.cl.Close()
}

// generationConfig asks for a JSON body when jsonOut is set.
func generationConfig(temperature float32, jsonOut bool) genai.GenerationConfig {
	cfg := genai.GenerationConfig{Temperature: ptrFloat32(temperature)}
	if jsonOut {
		cfg.ResponseMIMEType = "application/json"
	}
	return cfg
}

func (g *Gemini) generative(name string, jsonOut bool) *genai.GenerativeModel {
	m := g.cl.GenerativeModel(name)
	m.GenerationConfig = generationConfig(g.temperature, jsonOut)
	return m
}

// Generate completes a text prompt.
func (g *Gemini) Generate(ctx context.Context, prompt string) (string, error) {
	defer observe("gemini", "generate", time.Now())
	resp, err := g.generative(g.model, false).GenerateContent(ctx, genai.Text(prompt))
	if err != nil {
		return "", fmt.Errorf("gemini generate: %w", err)
	}
	txt := firstText(resp)
	if txt == "" {
		return "", errors.New("gemini generate: empty response")
	}
	return strings.TrimSpace(txt), nil
}

// Describe sends the prompt together with one image. The exam prompts expect
// a JSON answer, so the response is requested as application/json.
func (g *Gemini) Describe(ctx context.Context, prompt, mimeType string, image []byte) (string, error) {
	defer observe("gemini", "describe", time.Now())
	parts := []genai.Part{
		genai.Text(prompt),
		&genai.Blob{MIMEType: mimeType, Data: image},
	}
	resp, err := g.generative(g.visionModel, true).GenerateContent(ctx, parts...)
	if err != nil {
		return "", fmt.Errorf("gemini describe: %w", err)
	}
	txt := firstText(resp)
	if txt == "" {
		return "", errors.New("gemini describe: empty response")
	}
	return txt, nil
}

// Ping fetches the text model's metadata.
func (g *Gemini) Ping(ctx context.Context) error {
	return g.ping(ctx, g.model)
}

// PingVision fetches the vision model's metadata.
func (g *Gemini) PingVision(ctx context.Context) error {
	return g.ping(ctx, g.visionModel)
}

func (g *Gemini) ping(ctx context.Context, name string) error {
	if err := g.modelInfo(ctx, name); err != nil {
		return fmt.Errorf("gemini model info %s: %w", name, err)
	}
	return nil
}

func firstText(resp *genai.GenerateContentResponse) string {
	if resp == nil || len(resp.Candidates) == 0 {
		return ""
	}
	for _, c := range resp.Candidates {
		if c.Content == nil {
			continue
		}
		for _, p := range c.Content.Parts {
			if t, ok := p.(genai.Text); ok {
				return string(t)
			}
		}
	}
	return ""
}

func ptrFloat32(v float32) *float32 { return &v }
