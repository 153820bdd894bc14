package api

import (
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/capling-app/capling/internal/common"
	"github.com/capling-app/capling/internal/engine"
	"github.com/capling-app/capling/internal/model"
)

// createTransactionRequest is the POST /transactions body. Amount is
// signed: negative for deposits, positive for spends. Timestamp is Unix
// milliseconds; zero means now.
type createTransactionRequest struct {
	UserID      string  `json:"userId"`
	AccountID   string  `json:"accountId"`
	Merchant    string  `json:"merchant"`
	Category    string  `json:"category"`
	Description string  `json:"description"`
	Amount      float64 `json:"amount"`
	Timestamp   int64   `json:"timestamp"`
}

func (s *Server) handleCreateTransaction(c *fiber.Ctx) error {
	var req createTransactionRequest
	if err := c.BodyParser(&req); err != nil {
		return s.fail(c, common.NewValidationError("invalid request body"))
	}

	var timestamp time.Time
	if req.Timestamp != 0 {
		timestamp = time.UnixMilli(req.Timestamp).UTC()
	}

	resp, err := s.processor.Process(c.Context(), engine.Request{
		UserID:      req.UserID,
		AccountID:   req.AccountID,
		Merchant:    req.Merchant,
		Amount:      req.Amount,
		Category:    model.Category(req.Category),
		Description: req.Description,
		Timestamp:   timestamp,
	})
	if err != nil {
		return s.fail(c, err)
	}

	return c.JSON(fiber.Map{
		"success":     true,
		"transaction": resp.Transaction,
		"newBalance":  resp.NewBalance,
		"analysis": fiber.Map{
			"classification": resp.Analysis.Classification,
			"reflection":     resp.Analysis.Reflection,
		},
		"shouldShowGoalAllocation": resp.ShouldShowGoalAllocation,
	})
}

func (s *Server) handleListTransactions(c *fiber.Ctx) error {
	userID := c.Query("userId")
	limit := c.QueryInt("limit", 10)

	transactions, err := s.processor.List(c.Context(), userID, limit)
	if err != nil {
		return s.fail(c, err)
	}

	return c.JSON(fiber.Map{
		"success": true,
		"data":    transactions,
	})
}

type justifyRequest struct {
	Justification string `json:"justification"`
}

func (s *Server) handleJustify(c *fiber.Ctx) error {
	var req justifyRequest
	if err := c.BodyParser(&req); err != nil {
		return s.fail(c, common.NewValidationError("invalid request body"))
	}

	result, err := s.processor.Justify(c.Context(), c.Params("id"), req.Justification)
	if err != nil {
		return s.fail(c, err)
	}

	body := fiber.Map{
		"success":     true,
		"accepted":    result.Accepted,
		"reasoning":   result.Reasoning,
		"transaction": result.Transaction,
	}
	if result.BudgetAdjustment != nil {
		body["budgetAdjustment"] = result.BudgetAdjustment
	}
	return c.JSON(body)
}

func (s *Server) handleInsights(c *fiber.Ctx) error {
	report, err := s.insights.Report(c.Context(), c.Query("userId"))
	if err != nil {
		return s.fail(c, err)
	}

	return c.JSON(fiber.Map{
		"success":  true,
		"insights": report,
	})
}
