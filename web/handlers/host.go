package handlers

import (
	"github.com/ezauction/ezauction/web/utils"
	"github.com/gofiber/fiber/v2"
)

// HandleHostCurrentInfo returns the spectator view of the auction for the
// host display: current lot, highest bid, bid list and pool progress.
func (app *WebApp) HandleHostCurrentInfo(c *fiber.Ctx) error {
	snap, err := app.Manager.Snapshot(c.Context())
	if err != nil {
		return sendAuctionError(c, err)
	}
	return utils.SendSuccess(c, snap, "")
}

// HandleHostBids lists the bids on the active lot, highest first.
func (app *WebApp) HandleHostBids(c *fiber.Ctx) error {
	state, err := app.Manager.State(c.Context())
	if err != nil {
		return sendAuctionError(c, err)
	}
	if state.CurrentPlayerID == nil {
		return utils.SendSuccess(c, []any{}, "")
	}

	bids, err := app.Bids.ListForPlayer(c.Context(), *state.CurrentPlayerID)
	if err != nil {
		return sendAuctionError(c, err)
	}
	return utils.SendSuccess(c, bids, "")
}

// HandleHostTeams lists every team with its current budget for the host's
// side panel.
func (app *WebApp) HandleHostTeams(c *fiber.Ctx) error {
	teams, err := app.Teams.GetAll(c.Context())
	if err != nil {
		return sendAuctionError(c, err)
	}
	return utils.SendSuccess(c, teams, "")
}
