package auction

import (
	"context"
	"sort"
	"time"

	"github.com/ezauction/ezauction/ezauction/database/models"
	"github.com/ezauction/ezauction/ezauction/database/repositories"
)

// memStore is an in-memory stand-in for the database, shared by the fake
// repositories below so scenario tests exercise the real engine and manager
// logic end to end.
type memStore struct {
	state        *models.AuctionState
	players      map[int64]*models.Player
	teams        map[int64]*models.Team
	bids         []*models.Bid
	nextPlayerID int64
	nextTeamID   int64
	nextBidID    int64

	// markSoldErr makes the next MarkSold call fail, simulating a write
	// error after the budget debit went through.
	markSoldErr error
}

func newMemStore() *memStore {
	return &memStore{
		state: &models.AuctionState{
			ID:                models.AuctionStateID,
			Status:            models.AuctionStatusStopped,
			BidIncrement1:     500,
			BidIncrement2:     1000,
			BidIncrement3:     5000,
			MaxPlayersPerTeam: 10,
		},
		players: make(map[int64]*models.Player),
		teams:   make(map[int64]*models.Team),
	}
}

func (s *memStore) addTeam(name string, budget int64) *models.Team {
	s.nextTeamID++
	t := &models.Team{ID: s.nextTeamID, Name: name, Budget: budget}
	s.teams[t.ID] = t
	return t
}

func (s *memStore) addPlayer(name string, basePrice int64) *models.Player {
	s.nextPlayerID++
	p := &models.Player{
		ID:        s.nextPlayerID,
		Name:      name,
		Role:      "Batsman",
		BasePrice: basePrice,
		Status:    models.PlayerStatusAvailable,
	}
	s.players[p.ID] = p
	return p
}

type memStateRepo struct{ s *memStore }

func (r *memStateRepo) Get(context.Context) (*models.AuctionState, error) {
	return r.s.state, nil
}

func (r *memStateRepo) SetStatus(_ context.Context, status models.AuctionStatus) error {
	r.s.state.Status = status
	return nil
}

func (r *memStateRepo) SetCurrentPlayer(_ context.Context, playerID *int64, status models.AuctionStatus) error {
	r.s.state.CurrentPlayerID = playerID
	r.s.state.Status = status
	return nil
}

func (r *memStateRepo) SetBiddingLocked(_ context.Context, locked bool) error {
	r.s.state.BiddingLocked = locked
	return nil
}

func (r *memStateRepo) SetIncrements(_ context.Context, inc1, inc2, inc3 int64) error {
	r.s.state.BidIncrement1 = inc1
	r.s.state.BidIncrement2 = inc2
	r.s.state.BidIncrement3 = inc3
	return nil
}

func (r *memStateRepo) SetMaxPlayersPerTeam(_ context.Context, max int) error {
	r.s.state.MaxPlayersPerTeam = max
	return nil
}

type memPlayerRepo struct{ s *memStore }

func (r *memPlayerRepo) Create(_ context.Context, player *models.Player) error {
	r.s.nextPlayerID++
	player.ID = r.s.nextPlayerID
	if player.Status == "" {
		player.Status = models.PlayerStatusAvailable
	}
	r.s.players[player.ID] = player
	return nil
}

func (r *memPlayerRepo) GetByID(_ context.Context, id int64) (*models.Player, error) {
	p, ok := r.s.players[id]
	if !ok {
		return nil, repositories.ErrPlayerNotFound
	}
	return p, nil
}

func (r *memPlayerRepo) GetAll(context.Context) ([]*models.Player, error) {
	out := make([]*models.Player, 0, len(r.s.players))
	for _, p := range r.s.players {
		out = append(out, p)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (r *memPlayerRepo) Update(_ context.Context, player *models.Player) error {
	if _, ok := r.s.players[player.ID]; !ok {
		return repositories.ErrPlayerNotFound
	}
	r.s.players[player.ID] = player
	return nil
}

func (r *memPlayerRepo) Delete(_ context.Context, id int64) error {
	if _, ok := r.s.players[id]; !ok {
		return repositories.ErrPlayerNotFound
	}
	delete(r.s.players, id)
	kept := r.s.bids[:0]
	for _, b := range r.s.bids {
		if b.PlayerID != id {
			kept = append(kept, b)
		}
	}
	r.s.bids = kept
	return nil
}

func (r *memPlayerRepo) GetByStatus(_ context.Context, status models.PlayerStatus, soldToTeam *int64) ([]*models.Player, error) {
	var out []*models.Player
	for _, p := range r.s.players {
		if p.Status != status {
			continue
		}
		if soldToTeam != nil && (p.SoldToTeam == nil || *p.SoldToTeam != *soldToTeam) {
			continue
		}
		out = append(out, p)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (r *memPlayerRepo) SoldHistory(ctx context.Context) ([]*models.Player, error) {
	out, err := r.GetByStatus(ctx, models.PlayerStatusSold, nil)
	if err != nil {
		return nil, err
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID > out[j].ID })
	return out, nil
}

func (r *memPlayerRepo) CountSoldTo(_ context.Context, teamID int64) (int, error) {
	n := 0
	for _, p := range r.s.players {
		if p.Status == models.PlayerStatusSold && p.SoldToTeam != nil && *p.SoldToTeam == teamID {
			n++
		}
	}
	return n, nil
}

func (r *memPlayerRepo) CountByStatus(context.Context) (int, int, error) {
	sold, available := 0, 0
	for _, p := range r.s.players {
		switch p.Status {
		case models.PlayerStatusSold:
			sold++
		case models.PlayerStatusAvailable:
			available++
		}
	}
	return sold, available, nil
}

func (r *memPlayerRepo) NextAvailable(context.Context) (*models.Player, error) {
	var next *models.Player
	for _, p := range r.s.players {
		if p.Status != models.PlayerStatusAvailable {
			continue
		}
		if next == nil {
			next = p
			continue
		}
		if p.WasUnsold != next.WasUnsold {
			if p.WasUnsold {
				next = p
			}
			continue
		}
		if p.ID < next.ID {
			next = p
		}
	}
	return next, nil
}

func (r *memPlayerRepo) MarkSold(_ context.Context, id int64, price int64, teamID int64) error {
	if r.s.markSoldErr != nil {
		return r.s.markSoldErr
	}
	p, ok := r.s.players[id]
	if !ok {
		return repositories.ErrPlayerNotFound
	}
	p.Status = models.PlayerStatusSold
	p.SoldPrice = &price
	p.SoldToTeam = &teamID
	p.WasUnsold = false
	return nil
}

func (r *memPlayerRepo) MarkAvailable(_ context.Context, id int64, wasUnsold bool) error {
	p, ok := r.s.players[id]
	if !ok {
		return repositories.ErrPlayerNotFound
	}
	p.Status = models.PlayerStatusAvailable
	p.SoldPrice = nil
	p.SoldToTeam = nil
	p.WasUnsold = wasUnsold
	return nil
}

func (r *memPlayerRepo) ClearUnsoldTag(_ context.Context, id int64) error {
	p, ok := r.s.players[id]
	if !ok {
		return repositories.ErrPlayerNotFound
	}
	p.WasUnsold = false
	return nil
}

func (r *memPlayerRepo) SquadFor(ctx context.Context, teamID int64) ([]*models.Player, error) {
	return r.GetByStatus(ctx, models.PlayerStatusSold, &teamID)
}

type memTeamRepo struct{ s *memStore }

func (r *memTeamRepo) Create(_ context.Context, team *models.Team) error {
	r.s.nextTeamID++
	team.ID = r.s.nextTeamID
	r.s.teams[team.ID] = team
	return nil
}

func (r *memTeamRepo) GetByID(_ context.Context, id int64) (*models.Team, error) {
	t, ok := r.s.teams[id]
	if !ok {
		return nil, repositories.ErrTeamNotFound
	}
	return t, nil
}

func (r *memTeamRepo) GetAll(context.Context) ([]*models.Team, error) {
	out := make([]*models.Team, 0, len(r.s.teams))
	for _, t := range r.s.teams {
		out = append(out, t)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (r *memTeamRepo) Update(_ context.Context, team *models.Team) error {
	if _, ok := r.s.teams[team.ID]; !ok {
		return repositories.ErrTeamNotFound
	}
	r.s.teams[team.ID] = team
	return nil
}

func (r *memTeamRepo) Delete(_ context.Context, id int64) error {
	if _, ok := r.s.teams[id]; !ok {
		return repositories.ErrTeamNotFound
	}
	delete(r.s.teams, id)
	return nil
}

func (r *memTeamRepo) Debit(_ context.Context, id int64, amount int64) error {
	t, ok := r.s.teams[id]
	if !ok {
		return repositories.ErrTeamNotFound
	}
	if t.Budget < amount {
		return repositories.ErrInsufficientBudget
	}
	t.Budget -= amount
	return nil
}

func (r *memTeamRepo) Credit(_ context.Context, id int64, amount int64) error {
	t, ok := r.s.teams[id]
	if !ok {
		return repositories.ErrTeamNotFound
	}
	t.Budget += amount
	return nil
}

func (r *memTeamRepo) SetBudget(_ context.Context, id int64, budget int64) error {
	t, ok := r.s.teams[id]
	if !ok {
		return repositories.ErrTeamNotFound
	}
	t.Budget = budget
	return nil
}

func (r *memTeamRepo) SetBiddingLock(_ context.Context, id int64, locked bool) error {
	t, ok := r.s.teams[id]
	if !ok {
		return repositories.ErrTeamNotFound
	}
	t.BiddingLocked = locked
	return nil
}

type memBidRepo struct{ s *memStore }

func (r *memBidRepo) Create(_ context.Context, bid *models.Bid) error {
	r.s.nextBidID++
	bid.ID = r.s.nextBidID
	if bid.Timestamp.IsZero() {
		bid.Timestamp = time.Now()
	}
	r.s.bids = append(r.s.bids, bid)
	return nil
}

func (r *memBidRepo) HighestForPlayer(_ context.Context, playerID int64) (*models.Bid, error) {
	var best *models.Bid
	for _, b := range r.s.bids {
		if b.PlayerID != playerID {
			continue
		}
		if best == nil || b.Amount > best.Amount {
			best = b
		}
	}
	return best, nil
}

func (r *memBidRepo) LatestForPlayer(_ context.Context, playerID int64) (*models.Bid, error) {
	var latest *models.Bid
	for _, b := range r.s.bids {
		if b.PlayerID != playerID {
			continue
		}
		if latest == nil || b.ID > latest.ID {
			latest = b
		}
	}
	return latest, nil
}

func (r *memBidRepo) ListForPlayer(_ context.Context, playerID int64) ([]*models.Bid, error) {
	var out []*models.Bid
	for _, b := range r.s.bids {
		if b.PlayerID == playerID {
			out = append(out, b)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Amount > out[j].Amount })
	return out, nil
}

func (r *memBidRepo) Delete(_ context.Context, id int64) error {
	for i, b := range r.s.bids {
		if b.ID == id {
			r.s.bids = append(r.s.bids[:i], r.s.bids[i+1:]...)
			return nil
		}
	}
	return nil
}

func (r *memBidRepo) DeleteForPlayer(_ context.Context, playerID int64) error {
	kept := r.s.bids[:0]
	for _, b := range r.s.bids {
		if b.PlayerID != playerID {
			kept = append(kept, b)
		}
	}
	r.s.bids = kept
	return nil
}

// newTestManager wires a manager and engine over a fresh in-memory store.
func newTestManager() (*Manager, *BidEngine, *memStore) {
	store := newMemStore()
	mgr := NewManager(
		&memStateRepo{s: store},
		&memPlayerRepo{s: store},
		&memTeamRepo{s: store},
		&memBidRepo{s: store},
		NewBroadcaster(),
	)
	return mgr, mgr.BidEngine(), store
}
