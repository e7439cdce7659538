package adapter

import (
	"context"
	"strings"

	"github.com/lucentlab/lucent/pkg/model"
	"github.com/m-mizutani/goerr/v2"
	"google.golang.org/genai"
)

// Gemini is the interface for the generative model that drives the intake
// conversation. The provider keeps no server-side session, so callers resend
// the full history on every call.
type Gemini interface {
	GenerateContent(ctx context.Context, contents []*genai.Content, config *genai.GenerateContentConfig) (*genai.GenerateContentResponse, error)
}

type GeminiClient struct {
	client          *genai.Client
	generativeModel string
}

type GeminiOption func(*GeminiClient)

func WithGenerativeModel(name string) GeminiOption {
	return func(g *GeminiClient) {
		g.generativeModel = name
	}
}

// GeminiConfig selects the backend: APIKey for the Gemini API, or
// Project and Location for Vertex AI. APIKey wins when both are set.
type GeminiConfig struct {
	APIKey   string
	Project  string
	Location string
}

func NewGemini(ctx context.Context, cfg GeminiConfig, opts ...GeminiOption) (*GeminiClient, error) {
	clientConfig := &genai.ClientConfig{}
	switch {
	case cfg.APIKey != "":
		clientConfig.APIKey = cfg.APIKey
		clientConfig.Backend = genai.BackendGeminiAPI
	case cfg.Project != "":
		clientConfig.Project = cfg.Project
		clientConfig.Location = cfg.Location
		clientConfig.Backend = genai.BackendVertexAI
	default:
		return nil, goerr.New("either gemini api key or project is required")
	}

	client, err := genai.NewClient(ctx, clientConfig)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to create genai client")
	}

	g := &GeminiClient{
		client:          client,
		generativeModel: "gemini-2.0-flash",
	}

	for _, opt := range opts {
		opt(g)
	}

	return g, nil
}

func (g *GeminiClient) GenerateContent(ctx context.Context, contents []*genai.Content, config *genai.GenerateContentConfig) (*genai.GenerateContentResponse, error) {
	resp, err := g.client.Models.GenerateContent(ctx, g.generativeModel, contents, config)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to generate content",
			goerr.T(model.TagUpstream), goerr.V("model", g.generativeModel))
	}
	return resp, nil
}

// ReplyText extracts the text of the first candidate. A prompt rejected by
// the content safety filter is reported as a distinct error kind so callers
// can tell it apart from transport failures.
func ReplyText(resp *genai.GenerateContentResponse) (string, error) {
	if resp == nil {
		return "", goerr.New("empty response from gemini", goerr.T(model.TagUpstream))
	}

	if fb := resp.PromptFeedback; fb != nil && fb.BlockReason != "" {
		return "", goerr.New("prompt blocked by content safety filter",
			goerr.T(model.TagUpstream), goerr.T(model.TagContentBlocked),
			goerr.V("reason", fb.BlockReason))
	}

	if len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil {
		return "", goerr.New("gemini returned no candidates", goerr.T(model.TagUpstream))
	}

	var sb strings.Builder
	for _, part := range resp.Candidates[0].Content.Parts {
		sb.WriteString(part.Text)
	}
	return strings.TrimSpace(sb.String()), nil
}
