package handlers

import (
	"github.com/ezauction/ezauction/web/utils"
	"github.com/gofiber/fiber/v2"
)

type placeBidRequest struct {
	TeamID int64 `json:"teamId"`
	Amount int64 `json:"amount"`
}

// HandlePlaceBid records a bid from a team owner against the active lot.
func (app *WebApp) HandlePlaceBid(c *fiber.Ctx) error {
	var req placeBidRequest
	if err := c.BodyParser(&req); err != nil {
		return utils.SendBadRequest(c, "Invalid request body", nil)
	}
	if req.TeamID == 0 {
		return utils.SendBadRequest(c, "teamId is required", nil)
	}

	result, err := app.Engine.PlaceBid(c.Context(), req.TeamID, req.Amount)
	if err != nil {
		return sendAuctionError(c, err)
	}

	return utils.SendSuccess(c, result, "Bid placed")
}

// HandleOwnerCurrentInfo returns the bidding view for one team: the active
// lot, bid history and the team's wallet position against it.
func (app *WebApp) HandleOwnerCurrentInfo(c *fiber.Ctx) error {
	teamID, err := parseInt64(c.Query("teamId"))
	if err != nil {
		return utils.SendBadRequest(c, "teamId query parameter is required", nil)
	}

	snap, err := app.Manager.OwnerSnapshot(c.Context(), teamID)
	if err != nil {
		return sendAuctionError(c, err)
	}

	return utils.SendSuccess(c, snap, "")
}
