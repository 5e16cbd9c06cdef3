package service

import (
	"bufio"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/soyamkaran351-cloud/Farmer-support-system/internal/config"
	"github.com/soyamkaran351-cloud/Farmer-support-system/internal/model"
)

const sourceAI = "ai"

const detectPrompt = `Analyze this crop image and identify any diseases or health issues.
Answer in exactly this format:

**Disease Name:** <disease name, or Healthy>
**Confidence:** <0-100>%
**Treatment:**
<specific treatment steps>
**Recommendations:**
<prevention tips and practical advice>

If the crop is healthy, say so. Be specific and practical.`

const assistantPrompt = `You are Krishi Mitra, a friendly agricultural assistant for Indian farmers.
Give practical, specific advice on crops, soil, irrigation, pests and diseases, fertilizers,
weather preparation, market prices and government schemes. Keep answers short and clear,
use simple language, and reply in the language the farmer writes in.
If a question needs an expert on site, say so.`

type AIService struct {
	cfg *config.Config
	up  *Upstream
}

func NewAIService(cfg *config.Config, up *Upstream) *AIService {
	return &AIService{cfg: cfg, up: up}
}

// wireMessage is one chat-completions message. Content is either a string or
// a slice of contentPart.
type wireMessage struct {
	Role    string `json:"role"`
	Content any    `json:"content"`
}

type contentPart struct {
	Type     string    `json:"type"`
	Text     string    `json:"text,omitempty"`
	ImageURL *imageRef `json:"image_url,omitempty"`
}

type imageRef struct {
	URL string `json:"url"`
}

func (s *AIService) doChat(ctx context.Context, messages []wireMessage, stream bool, flush func(string)) (string, error) {
	key, err := s.cfg.Require(config.KeyAIGateway)
	if err != nil {
		return "", err
	}
	body := map[string]any{
		"model":    s.cfg.AI.Model,
		"stream":   stream,
		"messages": messages,
	}
	header := http.Header{}
	header.Set("Authorization", "Bearer "+key)

	resp, err := s.up.postJSON(ctx, sourceAI, s.cfg.AI.BaseURL+"/chat/completions", header, body)
	if err != nil {
		return "", fmt.Errorf("llm call: %w", err)
	}
	defer resp.Body.Close()

	if !stream {
		data, err := io.ReadAll(resp.Body)
		if err != nil {
			return "", &UpstreamError{Source: sourceAI, Status: resp.StatusCode, Err: err}
		}
		var result struct {
			Choices []struct {
				Message struct {
					Content string `json:"content"`
				} `json:"message"`
			} `json:"choices"`
		}
		if err := json.Unmarshal(data, &result); err != nil {
			return "", &UpstreamError{Source: sourceAI, Status: resp.StatusCode, Err: fmt.Errorf("decode response: %w", err)}
		}
		if len(result.Choices) == 0 {
			return "", &UpstreamError{Source: sourceAI, Status: resp.StatusCode, Err: errors.New("empty choices")}
		}
		return result.Choices[0].Message.Content, nil
	}

	scanner := bufio.NewScanner(resp.Body)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	var full strings.Builder
	for scanner.Scan() {
		line := scanner.Text()
		if !strings.HasPrefix(line, "data: ") {
			continue
		}
		data := line[6:]
		if data == "[DONE]" {
			break
		}
		var chunk struct {
			Choices []struct {
				Delta struct {
					Content string `json:"content"`
				} `json:"delta"`
			} `json:"choices"`
		}
		if json.Unmarshal([]byte(data), &chunk) == nil && len(chunk.Choices) > 0 {
			token := chunk.Choices[0].Delta.Content
			if token != "" {
				full.WriteString(token)
				if flush != nil {
					flush(token)
				}
			}
		}
	}
	if err := scanner.Err(); err != nil {
		return full.String(), &UpstreamError{Source: sourceAI, Status: resp.StatusCode, Err: fmt.Errorf("read stream: %w", err)}
	}
	return full.String(), nil
}

// DetectDisease asks the vision model to assess the crop photo at imageURL
// and returns its raw answer.
func (s *AIService) DetectDisease(ctx context.Context, imageURL string) (string, error) {
	messages := []wireMessage{{
		Role: "user",
		Content: []contentPart{
			{Type: "text", Text: detectPrompt},
			{Type: "image_url", ImageURL: &imageRef{URL: imageURL}},
		},
	}}
	answer, err := s.doChat(ctx, messages, false, nil)
	if err != nil {
		return "", fmt.Errorf("detect disease: %w", err)
	}
	return answer, nil
}

// Chat sends the conversation behind the assistant prompt and returns the
// reply unchanged.
func (s *AIService) Chat(ctx context.Context, history []model.ChatMessage) (string, error) {
	reply, err := s.doChat(ctx, withAssistantPrompt(history), false, nil)
	if err != nil {
		return "", fmt.Errorf("chat: %w", err)
	}
	return reply, nil
}

// StreamChat is Chat with tokens passed to flush as they arrive. The full
// reply is returned once the stream ends.
func (s *AIService) StreamChat(ctx context.Context, history []model.ChatMessage, flush func(string)) (string, error) {
	reply, err := s.doChat(ctx, withAssistantPrompt(history), true, flush)
	if err != nil {
		return reply, fmt.Errorf("stream chat: %w", err)
	}
	return reply, nil
}

func withAssistantPrompt(history []model.ChatMessage) []wireMessage {
	out := make([]wireMessage, 0, len(history)+1)
	out = append(out, wireMessage{Role: "system", Content: assistantPrompt})
	for _, m := range history {
		out = append(out, wireMessage{Role: m.Role, Content: m.Content})
	}
	return out
}
