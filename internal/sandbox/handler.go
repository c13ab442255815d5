package sandbox

import (
	"net/http"
	"strconv"
	"time"

	"reader-booking/internal/models"
	"reader-booking/internal/modules/orders"
	"reader-booking/pkg/utils"

	"github.com/labstack/echo/v4"
)

// Handler serves the sandbox's HTTP surface. It enforces the same lifecycle
// guards as the engine's local pre-checks, since the backend is always the
// authority of record.
type Handler struct {
	repo      *Repository
	jwtSecret string
	tokenTTL  time.Duration
}

// NewHandler creates a sandbox handler.
func NewHandler(repo *Repository, jwtSecret string, tokenTTL time.Duration) *Handler {
	return &Handler{repo: repo, jwtSecret: jwtSecret, tokenTTL: tokenTTL}
}

// Login authenticates a seeded account and mints a bearer token.
func (h *Handler) Login(c echo.Context) error {
	var req models.LoginRequest
	if err := c.Bind(&req); err != nil {
		return utils.RespondWithError(c, http.StatusBadRequest, "Invalid request body")
	}
	if err := utils.GetValidator().Validate(req); err != nil {
		return utils.RespondWithError(c, http.StatusBadRequest, err.Error())
	}

	user, err := h.repo.Authenticate(req.Email, req.Password)
	if err != nil {
		return utils.HandleServiceError(c, err)
	}
	token, err := utils.GenerateToken(user.ID, user.Role, h.jwtSecret, h.tokenTTL)
	if err != nil {
		return utils.RespondWithError(c, http.StatusInternalServerError, "Failed to issue token")
	}
	return utils.RespondWithJSON(c, http.StatusOK, models.AuthResponse{AccessToken: token, User: user})
}

// Signup registers a client or reader account and logs it in.
func (h *Handler) Signup(c echo.Context) error {
	var req models.SignupRequest
	if err := c.Bind(&req); err != nil {
		return utils.RespondWithError(c, http.StatusBadRequest, "Invalid request body")
	}
	if err := utils.GetValidator().Validate(req); err != nil {
		return utils.RespondWithError(c, http.StatusBadRequest, err.Error())
	}

	user, err := h.repo.AddUser(req.Name, req.Email, req.Password, req.Role)
	if err != nil {
		return utils.HandleServiceError(c, err)
	}
	token, err := utils.GenerateToken(user.ID, user.Role, h.jwtSecret, h.tokenTTL)
	if err != nil {
		return utils.RespondWithError(c, http.StatusInternalServerError, "Failed to issue token")
	}
	return utils.RespondWithJSON(c, http.StatusCreated, models.AuthResponse{AccessToken: token, User: user})
}

// CreateOrder books a new reading for the calling client.
func (h *Handler) CreateOrder(c echo.Context) error {
	userID, role, err := utils.ExtractUserInfo(c)
	if err != nil {
		return err
	}
	if role != models.RoleClient {
		return utils.RespondWithError(c, http.StatusForbidden, "Only clients can place orders")
	}

	var req models.CreateOrderRequest
	if err := c.Bind(&req); err != nil {
		return utils.RespondWithError(c, http.StatusBadRequest, "Invalid request body")
	}
	if err := utils.GetValidator().Validate(req); err != nil {
		return utils.RespondWithError(c, http.StatusBadRequest, err.Error())
	}

	order := h.repo.CreateOrder(userID, req)
	return utils.RespondWithJSON(c, http.StatusCreated, order)
}

// ListAllOrders serves the admin list view.
func (h *Handler) ListAllOrders(c echo.Context) error {
	userID, _, err := utils.ExtractUserInfo(c)
	if err != nil {
		return err
	}
	q := queryFromParams(c)
	page := h.repo.ListOrders(q, orderScope{actorID: userID, role: models.RoleAdmin, admin: true})
	return utils.RespondWithJSON(c, http.StatusOK, page)
}

// ListOrdersForLoggedUser serves client and reader list views, including the
// reader's monthly and pending targets.
func (h *Handler) ListOrdersForLoggedUser(c echo.Context) error {
	userID, role, err := utils.ExtractUserInfo(c)
	if err != nil {
		return err
	}
	q := queryFromParams(c)
	page := h.repo.ListOrders(q, orderScope{actorID: userID, role: role})
	return utils.RespondWithJSON(c, http.StatusOK, page)
}

// AssignOrder binds a reader to a pending order (admin only; the route
// carries AdminRequired).
func (h *Handler) AssignOrder(c echo.Context) error {
	userID, role, err := utils.ExtractUserInfo(c)
	if err != nil {
		return err
	}
	orderID, err := utils.ParseIDParam(c, "orderId")
	if err != nil {
		return utils.RespondWithError(c, http.StatusBadRequest, err.Error())
	}

	var req models.AssignOrderRequest
	if err := c.Bind(&req); err != nil {
		return utils.RespondWithError(c, http.StatusBadRequest, "Invalid request body")
	}
	if err := utils.GetValidator().Validate(req); err != nil {
		return utils.RespondWithError(c, http.StatusBadRequest, err.Error())
	}

	return h.mutate(c, orderID, orders.MutationAssign,
		orders.Actor{UserID: userID, Role: role},
		orders.MutationPayload{ReaderID: req.ReaderID})
}

// MutateOrder handles PUT /order/:orderId, which carries either a reader
// acceptance ({readerId}) or a client field update, matching the wire
// contract where both share a path and differ by body.
func (h *Handler) MutateOrder(c echo.Context) error {
	userID, role, err := utils.ExtractUserInfo(c)
	if err != nil {
		return err
	}
	orderID, err := utils.ParseIDParam(c, "orderId")
	if err != nil {
		return utils.RespondWithError(c, http.StatusBadRequest, err.Error())
	}

	var req struct {
		ReaderID int64 `json:"readerId"`
		models.UpdateOrderRequest
	}
	if err := c.Bind(&req); err != nil {
		return utils.RespondWithError(c, http.StatusBadRequest, "Invalid request body")
	}

	actor := orders.Actor{UserID: userID, Role: role}
	if req.ReaderID != 0 {
		return h.mutate(c, orderID, orders.MutationAccept, actor, orders.MutationPayload{ReaderID: req.ReaderID})
	}
	if err := utils.GetValidator().Validate(req.UpdateOrderRequest); err != nil {
		return utils.RespondWithError(c, http.StatusBadRequest, err.Error())
	}
	return h.mutate(c, orderID, orders.MutationUpdate, actor, orders.MutationPayload{Fields: req.UpdateOrderRequest})
}

// CancelOrder withdraws the calling client's pending order.
func (h *Handler) CancelOrder(c echo.Context) error {
	userID, role, err := utils.ExtractUserInfo(c)
	if err != nil {
		return err
	}
	orderID, err := utils.ParseIDParam(c, "orderId")
	if err != nil {
		return utils.RespondWithError(c, http.StatusBadRequest, err.Error())
	}
	return h.mutate(c, orderID, orders.MutationCancel,
		orders.Actor{UserID: userID, Role: role}, orders.MutationPayload{})
}

// RejectOrder records the assigned reader's decline.
func (h *Handler) RejectOrder(c echo.Context) error {
	userID, role, err := utils.ExtractUserInfo(c)
	if err != nil {
		return err
	}
	orderID, err := utils.ParseIDParam(c, "orderId")
	if err != nil {
		return utils.RespondWithError(c, http.StatusBadRequest, err.Error())
	}
	return h.mutate(c, orderID, orders.MutationReject,
		orders.Actor{UserID: userID, Role: role}, orders.MutationPayload{})
}

// CompleteOrder closes out an accepted order. Completion is not a
// user-facing control; in the sandbox it is an admin endpoint so the
// terminal success state is reachable in dev.
func (h *Handler) CompleteOrder(c echo.Context) error {
	userID, role, err := utils.ExtractUserInfo(c)
	if err != nil {
		return err
	}
	orderID, err := utils.ParseIDParam(c, "orderId")
	if err != nil {
		return utils.RespondWithError(c, http.StatusBadRequest, err.Error())
	}
	return h.mutate(c, orderID, orders.MutationComplete,
		orders.Actor{UserID: userID, Role: role}, orders.MutationPayload{})
}

// mutate runs the shared guard-then-apply path for every lifecycle endpoint.
func (h *Handler) mutate(c echo.Context, orderID int64, kind orders.MutationKind, actor orders.Actor, payload orders.MutationPayload) error {
	order, err := h.repo.GetOrder(orderID)
	if err != nil {
		return utils.HandleServiceError(c, err)
	}
	patch, err := orders.Transition(order, kind, actor, payload)
	if err != nil {
		return utils.HandleServiceError(c, err)
	}
	updated, err := h.repo.ApplyPatch(orderID, patch)
	if err != nil {
		return utils.HandleServiceError(c, err)
	}
	return utils.RespondWithJSON(c, http.StatusOK, updated)
}

// queryFromParams binds the list query contract from URL parameters,
// falling back to safe defaults rather than erroring on junk input.
func queryFromParams(c echo.Context) models.Query {
	page, limit := utils.GetPageLimit(c)
	q := models.Query{
		Page:   page,
		Limit:  limit,
		Status: c.QueryParam("status"),
		Search: c.QueryParam("search"),
		Target: c.QueryParam("target"),
	}
	if v := c.QueryParam("start"); v != "" {
		if ms, err := parseMillis(v); err == nil {
			q.Start = ms
		}
	}
	if v := c.QueryParam("end"); v != "" {
		if ms, err := parseMillis(v); err == nil {
			q.End = ms
		}
	}
	return q
}

func parseMillis(v string) (int64, error) {
	return strconv.ParseInt(v, 10, 64)
}
