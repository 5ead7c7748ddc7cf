package services

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"
)

// OpenAIService wraps the OpenAI client for chat completions and audio
// transcription.
type OpenAIService struct {
	client             *openai.Client
	model              string
	transcriptionModel string
}

func NewOpenAIService(apiKey, model, transcriptionModel string, opts ...option.RequestOption) *OpenAIService {
	opts = append([]option.RequestOption{option.WithAPIKey(apiKey)}, opts...)
	client := openai.NewClient(opts...)
	return &OpenAIService{
		client:             &client,
		model:              model,
		transcriptionModel: transcriptionModel,
	}
}

func (s *OpenAIService) Generate(ctx context.Context, systemPrompt, userPrompt string) (string, error) {
	if s == nil || s.client == nil {
		return "", errors.New("openai client not initialized")
	}
	messages := []openai.ChatCompletionMessageParamUnion{}
	if systemPrompt != "" {
		messages = append(messages, openai.SystemMessage(systemPrompt))
	}
	messages = append(messages, openai.UserMessage(userPrompt))

	completion, err := s.client.Chat.Completions.New(ctx, openai.ChatCompletionNewParams{
		Messages: messages,
		Model:    openai.ChatModel(s.model),
	})
	if err != nil {
		return "", err
	}
	if len(completion.Choices) == 0 {
		return "", fmt.Errorf("OpenAI returned no completion choices")
	}
	return cleanModelOutput(completion.Choices[0].Message.Content), nil
}

func (s *OpenAIService) Provider() string {
	return "openai"
}

// Transcribe turns recorded speech into text.
func (s *OpenAIService) Transcribe(ctx context.Context, audio io.Reader) (string, error) {
	if s == nil || s.client == nil {
		return "", errors.New("openai client not initialized")
	}
	transcription, err := s.client.Audio.Transcriptions.New(ctx, openai.AudioTranscriptionNewParams{
		File:  audio,
		Model: openai.AudioModel(s.transcriptionModel),
	})
	if err != nil {
		return "", fmt.Errorf("transcription failed: %w", err)
	}
	return transcription.Text, nil
}
