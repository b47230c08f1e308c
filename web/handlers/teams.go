package handlers

import (
	"github.com/ezauction/ezauction/ezauction/database/models"
	"github.com/ezauction/ezauction/web/utils"
	"github.com/gofiber/fiber/v2"
)

type teamRequest struct {
	Name      string `json:"name"`
	OwnerName string `json:"ownerName"`
	Logo      string `json:"logo"`
	Budget    int64  `json:"budget"`
}

func (app *WebApp) HandleListTeams(c *fiber.Ctx) error {
	teams, err := app.Teams.GetAll(c.Context())
	if err != nil {
		return sendAuctionError(c, err)
	}
	return utils.SendSuccess(c, teams, "")
}

func (app *WebApp) HandleGetTeam(c *fiber.Ctx) error {
	id, err := paramID(c)
	if err != nil {
		return utils.SendBadRequest(c, "Invalid team id", nil)
	}

	team, err := app.Teams.GetByID(c.Context(), id)
	if err != nil {
		return sendAuctionError(c, err)
	}
	return utils.SendSuccess(c, team, "")
}

func (app *WebApp) HandleCreateTeam(c *fiber.Ctx) error {
	var req teamRequest
	if err := c.BodyParser(&req); err != nil {
		return utils.SendBadRequest(c, "Invalid request body", nil)
	}
	if req.Name == "" {
		return utils.SendBadRequest(c, "Team name is required", nil)
	}
	if req.Budget < 0 {
		return utils.SendBadRequest(c, "Budget must not be negative", nil)
	}

	team := &models.Team{
		Name:      req.Name,
		OwnerName: req.OwnerName,
		Logo:      req.Logo,
		Budget:    req.Budget,
	}
	if err := app.Manager.CreateTeam(c.Context(), team); err != nil {
		return sendAuctionError(c, err)
	}
	return utils.SendCreated(c, team, "Team created")
}

func (app *WebApp) HandleUpdateTeam(c *fiber.Ctx) error {
	id, err := paramID(c)
	if err != nil {
		return utils.SendBadRequest(c, "Invalid team id", nil)
	}

	team, err := app.Teams.GetByID(c.Context(), id)
	if err != nil {
		return sendAuctionError(c, err)
	}

	var req teamRequest
	if err := c.BodyParser(&req); err != nil {
		return utils.SendBadRequest(c, "Invalid request body", nil)
	}
	if req.Name != "" {
		team.Name = req.Name
	}
	team.OwnerName = req.OwnerName
	team.Logo = req.Logo

	if err := app.Manager.UpdateTeam(c.Context(), team); err != nil {
		return sendAuctionError(c, err)
	}
	return utils.SendSuccess(c, team, "Team updated")
}

func (app *WebApp) HandleDeleteTeam(c *fiber.Ctx) error {
	id, err := paramID(c)
	if err != nil {
		return utils.SendBadRequest(c, "Invalid team id", nil)
	}

	if err := app.Manager.DeleteTeam(c.Context(), id); err != nil {
		return sendAuctionError(c, err)
	}
	return utils.SendSuccess(c, nil, "Team deleted")
}

type teamBudgetRequest struct {
	Budget int64 `json:"budget"`
}

// HandleSetTeamBudget overrides a team's budget directly.
func (app *WebApp) HandleSetTeamBudget(c *fiber.Ctx) error {
	id, err := paramID(c)
	if err != nil {
		return utils.SendBadRequest(c, "Invalid team id", nil)
	}

	var req teamBudgetRequest
	if err := c.BodyParser(&req); err != nil {
		return utils.SendBadRequest(c, "Invalid request body", nil)
	}

	if err := app.Manager.SetTeamBudget(c.Context(), id, req.Budget); err != nil {
		return sendAuctionError(c, err)
	}
	return utils.SendSuccess(c, fiber.Map{"teamId": id, "budget": req.Budget}, "Budget updated")
}

type teamLockRequest struct {
	Locked bool `json:"locked"`
}

// HandleSetTeamLock toggles a single team's bidding lock.
func (app *WebApp) HandleSetTeamLock(c *fiber.Ctx) error {
	id, err := paramID(c)
	if err != nil {
		return utils.SendBadRequest(c, "Invalid team id", nil)
	}

	var req teamLockRequest
	if err := c.BodyParser(&req); err != nil {
		return utils.SendBadRequest(c, "Invalid request body", nil)
	}

	if err := app.Manager.SetTeamLock(c.Context(), id, req.Locked); err != nil {
		return sendAuctionError(c, err)
	}
	return utils.SendSuccess(c, fiber.Map{"teamId": id, "locked": req.Locked}, "Team lock updated")
}

// HandleTeamSquad lists the players a team has bought.
func (app *WebApp) HandleTeamSquad(c *fiber.Ctx) error {
	id, err := paramID(c)
	if err != nil {
		return utils.SendBadRequest(c, "Invalid team id", nil)
	}

	if _, err := app.Teams.GetByID(c.Context(), id); err != nil {
		return sendAuctionError(c, err)
	}

	squad, err := app.Players.SquadFor(c.Context(), id)
	if err != nil {
		return sendAuctionError(c, err)
	}
	return utils.SendSuccess(c, squad, "")
}
