package handlers

import (
	"github.com/ezauction/ezauction/ezauction/database/models"
	"github.com/ezauction/ezauction/web/utils"
	"github.com/gofiber/fiber/v2"
)

// HandleAuctionState returns the singleton auction state row.
func (app *WebApp) HandleAuctionState(c *fiber.Ctx) error {
	state, err := app.Manager.State(c.Context())
	if err != nil {
		return sendAuctionError(c, err)
	}
	return utils.SendSuccess(c, state, "")
}

type auctionStatusRequest struct {
	Status models.AuctionStatus `json:"status"`
}

// HandleSetAuctionStatus transitions the auction between STOPPED, LIVE and
// PAUSED.
func (app *WebApp) HandleSetAuctionStatus(c *fiber.Ctx) error {
	var req auctionStatusRequest
	if err := c.BodyParser(&req); err != nil {
		return utils.SendBadRequest(c, "Invalid request body", nil)
	}

	if err := app.Manager.SetStatus(c.Context(), req.Status); err != nil {
		return sendAuctionError(c, err)
	}
	return utils.SendSuccess(c, fiber.Map{"status": req.Status}, "Auction status updated")
}

type biddingLockRequest struct {
	Locked bool `json:"locked"`
}

// HandleSetBiddingLock toggles the global bidding lock.
func (app *WebApp) HandleSetBiddingLock(c *fiber.Ctx) error {
	var req biddingLockRequest
	if err := c.BodyParser(&req); err != nil {
		return utils.SendBadRequest(c, "Invalid request body", nil)
	}

	if err := app.Manager.SetBiddingLocked(c.Context(), req.Locked); err != nil {
		return sendAuctionError(c, err)
	}
	return utils.SendSuccess(c, fiber.Map{"locked": req.Locked}, "Bidding lock updated")
}

type incrementsRequest struct {
	Increment1 int64 `json:"increment1"`
	Increment2 int64 `json:"increment2"`
	Increment3 int64 `json:"increment3"`
}

// HandleSetIncrements updates the bid increment schedule.
func (app *WebApp) HandleSetIncrements(c *fiber.Ctx) error {
	var req incrementsRequest
	if err := c.BodyParser(&req); err != nil {
		return utils.SendBadRequest(c, "Invalid request body", nil)
	}

	if err := app.Manager.SetIncrements(c.Context(), req.Increment1, req.Increment2, req.Increment3); err != nil {
		return sendAuctionError(c, err)
	}
	return utils.SendSuccess(c, req, "Bid increments updated")
}

type maxPlayersRequest struct {
	MaxPlayersPerTeam int `json:"maxPlayersPerTeam"`
}

// HandleSetMaxPlayers updates the roster cap.
func (app *WebApp) HandleSetMaxPlayers(c *fiber.Ctx) error {
	var req maxPlayersRequest
	if err := c.BodyParser(&req); err != nil {
		return utils.SendBadRequest(c, "Invalid request body", nil)
	}

	if err := app.Manager.SetMaxPlayersPerTeam(c.Context(), req.MaxPlayersPerTeam); err != nil {
		return sendAuctionError(c, err)
	}
	return utils.SendSuccess(c, req, "Max players per team updated")
}

// HandleUndoBid removes the most recent bid on the active lot.
func (app *WebApp) HandleUndoBid(c *fiber.Ctx) error {
	highest, err := app.Engine.UndoLastBid(c.Context())
	if err != nil {
		return sendAuctionError(c, err)
	}
	return utils.SendSuccess(c, fiber.Map{"highestBid": highest}, "Last bid removed")
}

// HandleResetBidding clears every bid on the active lot.
func (app *WebApp) HandleResetBidding(c *fiber.Ctx) error {
	if err := app.Engine.ResetBidding(c.Context()); err != nil {
		return sendAuctionError(c, err)
	}
	return utils.SendSuccess(c, nil, "Bidding reset")
}
