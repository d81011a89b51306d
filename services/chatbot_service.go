package services

import (
	"context"
	"net/http"
	"strings"

	"github.com/yashrajoria/storefront/clients"
	"github.com/yashrajoria/storefront/models"
)

type ChatbotService interface {
	Ask(ctx context.Context, message string) (string, error)
}

type chatbotService struct {
	api *clients.APIClient
}

func NewChatbotService(api *clients.APIClient) ChatbotService {
	return &chatbotService{api: api}
}

func (s *chatbotService) Ask(ctx context.Context, message string) (string, error) {
	req := models.ChatRequest{Message: strings.TrimSpace(message)}
	if err := Validate(req); err != nil {
		return "", err
	}
	var out models.ChatReply
	err := s.api.JSON(ctx, clients.Call{
		Method: http.MethodPost, Path: "/chatbot", Body: req,
		Fallback: "The assistant is not available right now.",
	}, &out)
	if err != nil {
		return "", err
	}
	return out.Reply, nil
}
