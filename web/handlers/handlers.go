package handlers

import (
	"errors"
	"strconv"

	"github.com/ezauction/ezauction/ezauction/auction"
	"github.com/ezauction/ezauction/ezauction/database"
	"github.com/ezauction/ezauction/ezauction/database/repositories"
	"github.com/ezauction/ezauction/web/utils"
	"github.com/gofiber/fiber/v2"
)

// WebApp represents the web application with all dependencies
type WebApp struct {
	DB      *database.DB
	Manager *auction.Manager
	Engine  *auction.BidEngine

	Players repositories.PlayerRepository
	Teams   repositories.TeamRepository
	Bids    repositories.BidRepository

	Version string
	Commit  string
}

// parseInt64 is a utility function to parse int64 from string
func parseInt64(s string) (int64, error) {
	return strconv.ParseInt(s, 10, 64)
}

func paramID(c *fiber.Ctx) (int64, error) {
	return parseInt64(c.Params("id"))
}

func formatInt64(v int64) string {
	return strconv.FormatInt(v, 10)
}

// sendAuctionError maps domain errors onto HTTP responses, attaching the
// constraint values clients need to correct a rejected bid.
func sendAuctionError(c *fiber.Ctx, err error) error {
	var minErr *auction.MinimumBidError
	if errors.As(err, &minErr) {
		return utils.SendBadRequest(c, err.Error(), map[string]string{
			"minimumBid": formatInt64(minErr.MinimumBid),
		})
	}

	var capErr *auction.MaxBidExceededError
	if errors.As(err, &capErr) {
		return utils.SendBadRequest(c, err.Error(), map[string]string{
			"maxBidAllowed":       formatInt64(capErr.MaxBidAllowed),
			"minimumAmountToKeep": formatInt64(capErr.MinimumAmountToKeep),
			"remainingPlayers":    strconv.Itoa(capErr.RemainingPlayers),
		})
	}

	var fullErr *auction.SquadFullError
	if errors.As(err, &fullErr) {
		return utils.SendBadRequest(c, err.Error(), map[string]string{
			"maxPlayersPerTeam": strconv.Itoa(fullErr.MaxPlayersPerTeam),
		})
	}

	switch {
	case errors.Is(err, repositories.ErrPlayerNotFound),
		errors.Is(err, repositories.ErrTeamNotFound):
		return utils.SendNotFound(c, err.Error())

	case errors.Is(err, auction.ErrInvalidAmount),
		errors.Is(err, auction.ErrInvalidStatus),
		errors.Is(err, auction.ErrInvalidIncrement),
		errors.Is(err, auction.ErrInvalidMaxPlayers),
		errors.Is(err, auction.ErrInvalidBudget):
		return utils.SendBadRequest(c, err.Error(), nil)

	case errors.Is(err, auction.ErrAuctionNotLive),
		errors.Is(err, auction.ErrBiddingLocked),
		errors.Is(err, auction.ErrTeamBiddingLocked),
		errors.Is(err, auction.ErrNoActiveLot),
		errors.Is(err, auction.ErrAlreadyHighestBidder),
		errors.Is(err, auction.ErrNoBids),
		errors.Is(err, auction.ErrNoBidsToUndo),
		errors.Is(err, auction.ErrLotNotActive),
		errors.Is(err, auction.ErrPlayerNotSold),
		errors.Is(err, auction.ErrPlayerOnAuction),
		errors.Is(err, repositories.ErrInsufficientBudget):
		return utils.SendConflict(c, err.Error(), nil)
	}

	return utils.SendInternalServerError(c, "Internal server error")
}
