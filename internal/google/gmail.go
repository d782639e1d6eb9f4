package google

import (
	"context"
	"fmt"
	"log/slog"

	"google.golang.org/api/gmail/v1"
	"google.golang.org/api/option"
)

// GmailClient sends composed messages through the Gmail API.
type GmailClient struct {
	service *gmail.Service
	logger  *slog.Logger
}

// NewGmailClient creates a Gmail client authenticated with the saved token.
func NewGmailClient(ctx context.Context, logger *slog.Logger, clientID, clientSecret, tokenFile string) (*GmailClient, error) {
	client, err := newHTTPClient(ctx, clientID, clientSecret, tokenFile)
	if err != nil {
		return nil, err
	}

	service, err := gmail.NewService(ctx, option.WithHTTPClient(client))
	if err != nil {
		return nil, fmt.Errorf("failed to create gmail service: %w", err)
	}

	return &GmailClient{service: service, logger: logger}, nil
}

// Send hands an already transport-encoded message to the Gmail API on behalf
// of the authenticated user.
func (c *GmailClient) Send(ctx context.Context, raw string) error {
	_, err := c.service.Users.Messages.Send("me", &gmail.Message{Raw: raw}).Context(ctx).Do()
	if err != nil {
		return fmt.Errorf("failed to send message: %w", err)
	}
	c.logger.Info("Email sent.")
	return nil
}
