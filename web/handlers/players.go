package handlers

import (
	"encoding/json"
	"errors"

	"github.com/ezauction/ezauction/ezauction/database/models"
	"github.com/ezauction/ezauction/web/utils"
	"github.com/gofiber/fiber/v2"
)

type playerRequest struct {
	Name         string `json:"name"`
	Image        string `json:"image"`
	Role         string `json:"role"`
	Country      string `json:"country"`
	BasePrice    int64  `json:"basePrice"`
	SerialNumber *int64 `json:"serialNumber"`
}

// HandleListPlayers lists the catalog, optionally filtered by status and
// owning team.
func (app *WebApp) HandleListPlayers(c *fiber.Ctx) error {
	status := models.PlayerStatus(c.Query("status"))
	if status == "" {
		players, err := app.Players.GetAll(c.Context())
		if err != nil {
			return sendAuctionError(c, err)
		}
		return utils.SendSuccess(c, players, "")
	}
	if status != models.PlayerStatusAvailable && status != models.PlayerStatusSold {
		return utils.SendBadRequest(c, "Invalid status filter", nil)
	}

	var soldToTeam *int64
	if q := c.Query("teamId"); q != "" {
		id, err := parseInt64(q)
		if err != nil {
			return utils.SendBadRequest(c, "Invalid teamId filter", nil)
		}
		soldToTeam = &id
	}

	players, err := app.Players.GetByStatus(c.Context(), status, soldToTeam)
	if err != nil {
		return sendAuctionError(c, err)
	}
	return utils.SendSuccess(c, players, "")
}

func (app *WebApp) HandleGetPlayer(c *fiber.Ctx) error {
	id, err := paramID(c)
	if err != nil {
		return utils.SendBadRequest(c, "Invalid player id", nil)
	}

	player, err := app.Players.GetByID(c.Context(), id)
	if err != nil {
		return sendAuctionError(c, err)
	}
	return utils.SendSuccess(c, player, "")
}

func (app *WebApp) HandleCreatePlayer(c *fiber.Ctx) error {
	var req playerRequest
	if err := c.BodyParser(&req); err != nil {
		return utils.SendBadRequest(c, "Invalid request body", nil)
	}
	if req.Name == "" || req.Role == "" {
		return utils.SendBadRequest(c, "Player name and role are required", nil)
	}
	if req.BasePrice <= 0 {
		return utils.SendBadRequest(c, "Base price must be positive", nil)
	}
	if req.SerialNumber != nil && *req.SerialNumber < 1 {
		return utils.SendBadRequest(c, "Serial number must be positive", nil)
	}

	player := &models.Player{
		Name:         req.Name,
		Image:        req.Image,
		Role:         req.Role,
		Country:      req.Country,
		BasePrice:    req.BasePrice,
		Status:       models.PlayerStatusAvailable,
		SerialNumber: req.SerialNumber,
	}
	if err := app.Manager.CreatePlayer(c.Context(), player); err != nil {
		return sendAuctionError(c, err)
	}
	return utils.SendCreated(c, player, "Player created")
}

// updatePlayerRequest distinguishes absent fields from explicit values so a
// partial body only touches what it names. The serial stays raw because an
// explicit null means "clear the slot" while omitting it means "keep it".
type updatePlayerRequest struct {
	Name         *string         `json:"name"`
	Image        *string         `json:"image"`
	Role         *string         `json:"role"`
	Country      *string         `json:"country"`
	BasePrice    *int64          `json:"basePrice"`
	SerialNumber json.RawMessage `json:"serialNumber"`
}

func applyPlayerUpdate(player *models.Player, req *updatePlayerRequest) error {
	if req.Name != nil {
		if *req.Name == "" {
			return errors.New("Player name cannot be empty")
		}
		player.Name = *req.Name
	}
	if req.Role != nil {
		if *req.Role == "" {
			return errors.New("Player role cannot be empty")
		}
		player.Role = *req.Role
	}
	if req.Image != nil {
		player.Image = *req.Image
	}
	if req.Country != nil {
		player.Country = *req.Country
	}
	if req.BasePrice != nil {
		if *req.BasePrice <= 0 {
			return errors.New("Base price must be positive")
		}
		player.BasePrice = *req.BasePrice
	}
	if len(req.SerialNumber) > 0 {
		if string(req.SerialNumber) == "null" {
			player.SerialNumber = nil
		} else {
			var serial int64
			if err := json.Unmarshal(req.SerialNumber, &serial); err != nil || serial < 1 {
				return errors.New("Serial number must be positive")
			}
			player.SerialNumber = &serial
		}
	}
	return nil
}

func (app *WebApp) HandleUpdatePlayer(c *fiber.Ctx) error {
	id, err := paramID(c)
	if err != nil {
		return utils.SendBadRequest(c, "Invalid player id", nil)
	}

	player, err := app.Players.GetByID(c.Context(), id)
	if err != nil {
		return sendAuctionError(c, err)
	}

	var req updatePlayerRequest
	if err := c.BodyParser(&req); err != nil {
		return utils.SendBadRequest(c, "Invalid request body", nil)
	}
	if err := applyPlayerUpdate(player, &req); err != nil {
		return utils.SendBadRequest(c, err.Error(), nil)
	}

	if err := app.Manager.UpdatePlayer(c.Context(), player); err != nil {
		return sendAuctionError(c, err)
	}
	return utils.SendSuccess(c, player, "Player updated")
}

func (app *WebApp) HandleDeletePlayer(c *fiber.Ctx) error {
	id, err := paramID(c)
	if err != nil {
		return utils.SendBadRequest(c, "Invalid player id", nil)
	}

	if err := app.Manager.DeletePlayer(c.Context(), id); err != nil {
		return sendAuctionError(c, err)
	}
	return utils.SendSuccess(c, nil, "Player deleted")
}

// HandleLoadPlayer puts a player up as the active lot.
func (app *WebApp) HandleLoadPlayer(c *fiber.Ctx) error {
	id, err := paramID(c)
	if err != nil {
		return utils.SendBadRequest(c, "Invalid player id", nil)
	}

	player, err := app.Manager.LoadPlayer(c.Context(), id)
	if err != nil {
		return sendAuctionError(c, err)
	}
	return utils.SendSuccess(c, player, "Player loaded for auction")
}

type markPlayerRequest struct {
	Status     models.PlayerStatus `json:"status"`
	SoldPrice  *int64              `json:"soldPrice"`
	SoldToTeam *int64              `json:"soldToTeam"`
}

// HandleMarkPlayer settles the active lot as SOLD or UNSOLD, then the next
// available player is loaded automatically.
func (app *WebApp) HandleMarkPlayer(c *fiber.Ctx) error {
	id, err := paramID(c)
	if err != nil {
		return utils.SendBadRequest(c, "Invalid player id", nil)
	}

	var req markPlayerRequest
	if err := c.BodyParser(&req); err != nil {
		return utils.SendBadRequest(c, "Invalid request body", nil)
	}

	result, err := app.Manager.MarkPlayer(c.Context(), id, req.Status, req.SoldPrice, req.SoldToTeam)
	if err != nil {
		return sendAuctionError(c, err)
	}
	return utils.SendSuccess(c, result, "Player marked")
}

// HandleRemovePlayerFromTeam reverses a completed sale, refunding the buyer.
func (app *WebApp) HandleRemovePlayerFromTeam(c *fiber.Ctx) error {
	id, err := paramID(c)
	if err != nil {
		return utils.SendBadRequest(c, "Invalid player id", nil)
	}

	player, err := app.Manager.RemovePlayerFromTeam(c.Context(), id)
	if err != nil {
		return sendAuctionError(c, err)
	}
	return utils.SendSuccess(c, player, "Player removed from team")
}

// HandleResetUnsoldTag clears the early-requeue flag on a player.
func (app *WebApp) HandleResetUnsoldTag(c *fiber.Ctx) error {
	id, err := paramID(c)
	if err != nil {
		return utils.SendBadRequest(c, "Invalid player id", nil)
	}

	if err := app.Manager.ResetUnsoldTag(c.Context(), id); err != nil {
		return sendAuctionError(c, err)
	}
	return utils.SendSuccess(c, nil, "Unsold tag cleared")
}

// HandlePlayerBids lists the bid history for a player, highest first.
func (app *WebApp) HandlePlayerBids(c *fiber.Ctx) error {
	id, err := paramID(c)
	if err != nil {
		return utils.SendBadRequest(c, "Invalid player id", nil)
	}

	if _, err := app.Players.GetByID(c.Context(), id); err != nil {
		return sendAuctionError(c, err)
	}

	bids, err := app.Bids.ListForPlayer(c.Context(), id)
	if err != nil {
		return sendAuctionError(c, err)
	}
	return utils.SendSuccess(c, bids, "")
}

// HandleSoldHistory lists completed sales, newest first.
func (app *WebApp) HandleSoldHistory(c *fiber.Ctx) error {
	players, err := app.Players.SoldHistory(c.Context())
	if err != nil {
		return sendAuctionError(c, err)
	}
	return utils.SendSuccess(c, players, "")
}
