package client

import "github.com/gabot/faq-backend/internal/entity"

func toClientSummary(c *entity.Client) *entity.ClientSummary {
	return &entity.ClientSummary{
		ID:       c.ID,
		Username: c.Username,
		Role:     c.Role,
		Status:   c.Status,
	}
}
