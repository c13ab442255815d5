package sandbox

import (
	"sort"
	"strings"
	"sync"
	"time"

	"reader-booking/internal/models"

	"golang.org/x/crypto/bcrypt"
)

// Repository is the sandbox's in-memory state: seeded accounts and orders.
// It stands in for the production backend's database so the order engine
// can be exercised without external infrastructure.
type Repository struct {
	mu     sync.RWMutex
	users  map[int64]*models.User
	orders map[int64]*models.Order
	nextID int64
}

// NewRepository returns an empty repository.
func NewRepository() *Repository {
	return &Repository{
		users:  make(map[int64]*models.User),
		orders: make(map[int64]*models.Order),
		nextID: 1,
	}
}

// AddUser registers an account with a bcrypt-hashed password and returns it.
// The email must not already be registered.
func (r *Repository) AddUser(name, email, password string, role models.Role) (*models.User, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, u := range r.users {
		if strings.EqualFold(u.Email, email) {
			return nil, models.ErrEmailTaken
		}
	}
	u := &models.User{
		ID:           r.nextID,
		Role:         role,
		Name:         name,
		Email:        email,
		PasswordHash: string(hash),
		CreatedAt:    time.Now(),
	}
	r.nextID++
	r.users[u.ID] = u
	return u, nil
}

// Authenticate checks credentials and returns the matching account.
func (r *Repository) Authenticate(email, password string) (*models.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, u := range r.users {
		if strings.EqualFold(u.Email, email) {
			if bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(password)) != nil {
				return nil, models.ErrInvalidCredentials
			}
			out := *u
			return &out, nil
		}
	}
	return nil, models.ErrInvalidCredentials
}

// CreateOrder stores a new pending order for the given client.
func (r *Repository) CreateOrder(clientID int64, req models.CreateOrderRequest) models.Order {
	r.mu.Lock()
	defer r.mu.Unlock()
	now := time.Now()
	o := &models.Order{
		ID:         r.nextID,
		ClientID:   clientID,
		OrderDate:  req.OrderDate,
		AddressOne: req.AddressOne,
		AddressTwo: req.AddressTwo,
		City:       req.City,
		Country:    req.Country,
		PostNumber: req.PostNumber,
		Latitude:   req.Latitude,
		Longitude:  req.Longitude,
		CreatedAt:  now,
		UpdatedAt:  now,
	}
	r.nextID++
	r.orders[o.ID] = o
	return *o
}

// GetOrder returns a copy of the order with the given id.
func (r *Repository) GetOrder(id int64) (models.Order, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	o, ok := r.orders[id]
	if !ok {
		return models.Order{}, models.ErrNotFound
	}
	return *o, nil
}

// ApplyPatch merges a lifecycle patch into the stored order and returns the
// updated copy.
func (r *Repository) ApplyPatch(id int64, patch models.OrderPatch) (models.Order, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	o, ok := r.orders[id]
	if !ok {
		return models.Order{}, models.ErrNotFound
	}
	now := time.Now()
	patch.UpdatedAt = &now
	patch.Apply(o)
	return *o, nil
}

// orderScope narrows a list to what the calling account may see.
type orderScope struct {
	actorID int64
	role    models.Role
	admin   bool
}

// ListOrders filters, sorts and paginates. Result ordering is newest first
// by creation time with id as tiebreaker, which keeps pages stable for a
// fixed query. An out-of-range page yields an empty content slice, not an
// error.
func (r *Repository) ListOrders(q models.Query, scope orderScope) models.Page[models.Order] {
	r.mu.RLock()
	matched := make([]models.Order, 0, len(r.orders))
	for _, o := range r.orders {
		if r.matches(*o, q, scope) {
			matched = append(matched, *o)
		}
	}
	r.mu.RUnlock()

	sort.Slice(matched, func(i, j int) bool {
		if !matched[i].CreatedAt.Equal(matched[j].CreatedAt) {
			return matched[i].CreatedAt.After(matched[j].CreatedAt)
		}
		return matched[i].ID > matched[j].ID
	})

	total := len(matched)
	start := (q.Page - 1) * q.Limit
	if start >= total {
		return models.NewPage([]models.Order{}, total, q.Limit)
	}
	end := start + q.Limit
	if end > total {
		end = total
	}
	return models.NewPage(matched[start:end], total, q.Limit)
}

func (r *Repository) matches(o models.Order, q models.Query, scope orderScope) bool {
	if !r.inScope(o, q, scope) {
		return false
	}
	if q.Status != "" && q.Status != models.StatusAll && string(o.Status()) != q.Status {
		return false
	}
	if q.Start > 0 && o.OrderDate.UnixMilli() < q.Start {
		return false
	}
	if q.End > 0 && o.OrderDate.UnixMilli() > q.End {
		return false
	}
	if q.Search != "" && !matchesSearch(o, q.Search) {
		return false
	}
	return true
}

// inScope applies role visibility plus the target semantics layered on top
// of the generic filters: "monthly" is the reader's orders dated this
// month, "pending" is the unassigned queue readers pick from.
func (r *Repository) inScope(o models.Order, q models.Query, scope orderScope) bool {
	if scope.admin {
		return true
	}
	switch scope.role {
	case models.RoleClient:
		return o.ClientID == scope.actorID
	case models.RoleReader:
		switch q.Target {
		case models.TargetPending:
			return o.Status() == models.StatusPending
		case models.TargetMonthly:
			if o.ReaderID == nil || *o.ReaderID != scope.actorID {
				return false
			}
			now := time.Now()
			return o.OrderDate.Year() == now.Year() && o.OrderDate.Month() == now.Month()
		default:
			return o.ReaderID != nil && *o.ReaderID == scope.actorID
		}
	default:
		return false
	}
}

func matchesSearch(o models.Order, term string) bool {
	term = strings.ToLower(term)
	for _, field := range []string{o.AddressOne, o.AddressTwo, o.City, o.Country} {
		if strings.Contains(strings.ToLower(field), term) {
			return true
		}
	}
	return false
}
