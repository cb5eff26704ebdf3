/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

package billing

import (
	"context"
	"strings"

	"github.com/suparena/tenantstore/errors"
	models "github.com/suparena/tenantstore/storagemodels"
)

// Demo collections. They are global, not tenant scoped, and are seeded on
// first listing.

func (s *Service) ListUsers(ctx context.Context) ([]models.User, error) {
	return s.users.List(ctx, "")
}

func (s *Service) ListChats(ctx context.Context) ([]models.ChatBoard, error) {
	return s.chats.List(ctx, "")
}

// ListMessages returns the messages of chatID in send order.
func (s *Service) ListMessages(ctx context.Context, chatID string) ([]models.ChatMessage, error) {
	if err := s.chats.EnsureSeed(ctx); err != nil {
		return nil, err
	}
	board, err := s.chats.Get(ctx, chatID)
	if err != nil {
		return nil, err
	}
	if board.Messages == nil {
		return []models.ChatMessage{}, nil
	}
	return board.Messages, nil
}

// SendMessage appends a message from userID to chatID.
func (s *Service) SendMessage(ctx context.Context, chatID, userID, text string) (models.ChatMessage, error) {
	if strings.TrimSpace(userID) == "" {
		return models.ChatMessage{}, errors.NewValidationError("userId", "is required")
	}
	if strings.TrimSpace(text) == "" {
		return models.ChatMessage{}, errors.NewValidationError("text", "is required")
	}
	if err := s.chats.EnsureSeed(ctx); err != nil {
		return models.ChatMessage{}, err
	}

	msg := models.ChatMessage{
		ID:     s.newID(),
		ChatID: chatID,
		UserID: userID,
		Text:   text,
		TS:     s.now().UnixMilli(),
	}
	_, err := s.chats.Mutate(ctx, chatID, func(b models.ChatBoard) (models.ChatBoard, error) {
		b.Messages = append(b.Messages[:len(b.Messages):len(b.Messages)], msg)
		return b, nil
	})
	if err != nil {
		return models.ChatMessage{}, err
	}
	return msg, nil
}
