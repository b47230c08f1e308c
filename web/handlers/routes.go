package handlers

import (
	"github.com/ezauction/ezauction/web/utils"
	"github.com/gofiber/fiber/v2"
)

// SetupRoutes registers every API route on the app.
func (app *WebApp) SetupRoutes(router *fiber.App) {
	api := router.Group("/api")

	api.Get("/health", func(c *fiber.Ctx) error {
		if err := app.DB.Ping(c.Context()); err != nil {
			return utils.SendInternalServerError(c, "Database unreachable")
		}
		return utils.SendSuccess(c, fiber.Map{
			"version": app.Version,
			"commit":  app.Commit,
		}, "ok")
	})

	// Owner endpoints used by team dashboards.
	owner := api.Group("/owner")
	owner.Get("/current-info", app.HandleOwnerCurrentInfo)
	owner.Post("/bid", app.HandlePlaceBid)

	// Host endpoints used by the projector display.
	host := api.Group("/host")
	host.Get("/current-info", app.HandleHostCurrentInfo)
	host.Get("/bids", app.HandleHostBids)
	host.Get("/teams", app.HandleHostTeams)

	admin := api.Group("/admin")

	admin.Get("/auction/state", app.HandleAuctionState)
	admin.Put("/auction/status", app.HandleSetAuctionStatus)
	admin.Put("/auction/bidding-lock", app.HandleSetBiddingLock)
	admin.Put("/auction/increments", app.HandleSetIncrements)
	admin.Put("/auction/max-players", app.HandleSetMaxPlayers)

	admin.Post("/bids/undo", app.HandleUndoBid)
	admin.Post("/bids/reset", app.HandleResetBidding)

	admin.Get("/teams", app.HandleListTeams)
	admin.Post("/teams", app.HandleCreateTeam)
	admin.Get("/teams/:id", app.HandleGetTeam)
	admin.Put("/teams/:id", app.HandleUpdateTeam)
	admin.Delete("/teams/:id", app.HandleDeleteTeam)
	admin.Put("/teams/:id/budget", app.HandleSetTeamBudget)
	admin.Put("/teams/:id/lock", app.HandleSetTeamLock)
	admin.Get("/teams/:id/squad", app.HandleTeamSquad)

	admin.Get("/players", app.HandleListPlayers)
	admin.Post("/players", app.HandleCreatePlayer)
	admin.Get("/players/:id", app.HandleGetPlayer)
	admin.Put("/players/:id", app.HandleUpdatePlayer)
	admin.Delete("/players/:id", app.HandleDeletePlayer)
	admin.Post("/players/:id/load", app.HandleLoadPlayer)
	admin.Post("/players/:id/mark", app.HandleMarkPlayer)
	admin.Post("/players/:id/remove-from-team", app.HandleRemovePlayerFromTeam)
	admin.Post("/players/:id/reset-unsold", app.HandleResetUnsoldTag)
	admin.Get("/players/:id/bids", app.HandlePlayerBids)

	admin.Get("/history", app.HandleSoldHistory)

	router.Use("/ws", UpgradeWebsocket)
	router.Get("/ws", app.HandleEventStream())
}
