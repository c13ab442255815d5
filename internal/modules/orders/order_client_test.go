package orders_test

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"reader-booking/internal/models"
	"reader-booking/internal/modules/orders"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) (*orders.Client, *httptest.Server) {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	c := orders.NewClient(srv.URL, 5*time.Second, func() string { return "test-token" })
	return c, srv
}

func respond(t *testing.T, w http.ResponseWriter, status int, env any) {
	t.Helper()
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	require.NoError(t, json.NewEncoder(w).Encode(env))
}

func TestListOrdersSendsQueryAndAuth(t *testing.T) {
	var gotPath, gotAuth, gotReqID string
	var gotQuery map[string][]string
	c, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotAuth = r.Header.Get("Authorization")
		gotReqID = r.Header.Get("X-Request-ID")
		gotQuery = r.URL.Query()
		respond(t, w, http.StatusOK, models.APIResponse[models.Page[models.Order]]{
			Success: true,
			Data:    models.NewPage([]models.Order{{ID: 1}, {ID: 2}}, 23, 10),
		})
	})

	q := models.Query{Page: 1, Limit: 10, Status: models.StatusAll, Search: "harbor"}
	page, err := c.ListOrders(context.Background(), q)
	require.NoError(t, err)

	assert.Equal(t, "/admin/allOrders", gotPath)
	assert.Equal(t, "Bearer test-token", gotAuth)
	assert.NotEmpty(t, gotReqID)
	assert.Equal(t, []string{"1"}, gotQuery["page"])
	assert.Equal(t, []string{"10"}, gotQuery["limit"])
	assert.Equal(t, []string{"harbor"}, gotQuery["search"])
	// "all" means no status filter on the wire.
	assert.NotContains(t, gotQuery, "status")

	assert.Len(t, page.Content, 2)
	assert.Equal(t, 23, page.ItemsCount)
	assert.Equal(t, 3, page.PageCount)
}

func TestListOrdersForCurrentUserCarriesTarget(t *testing.T) {
	var gotPath, gotTarget string
	c, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotTarget = r.URL.Query().Get("target")
		respond(t, w, http.StatusOK, models.APIResponse[models.Page[models.Order]]{
			Success: true,
			Data:    models.NewPage([]models.Order{}, 0, 10),
		})
	})

	_, err := c.ListOrdersForCurrentUser(context.Background(), models.Query{
		Page: 1, Limit: 10, Target: models.TargetPending,
	})
	require.NoError(t, err)
	assert.Equal(t, "/order/allOrdersForLoggedUser", gotPath)
	assert.Equal(t, models.TargetPending, gotTarget)
}

func TestListOrdersValidatesQueryLocally(t *testing.T) {
	called := false
	c, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		called = true
	})

	_, err := c.ListOrders(context.Background(), models.Query{Page: 0, Limit: 10})
	assert.Error(t, err)
	_, err = c.ListOrders(context.Background(), models.Query{Page: 1, Limit: 33})
	assert.Error(t, err)
	assert.False(t, called, "invalid queries must not reach the wire")
}

func TestAssignDecodesConfirmedOrder(t *testing.T) {
	readerID := int64(3)
	var gotMethod, gotPath string
	var gotBody models.AssignOrderRequest
	c, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		gotMethod = r.Method
		gotPath = r.URL.Path
		require.NoError(t, json.NewDecoder(r.Body).Decode(&gotBody))
		respond(t, w, http.StatusOK, models.APIResponse[models.Order]{
			Success: true,
			Data:    models.Order{ID: 7, ClientID: 11, ReaderID: &readerID},
		})
	})

	order, err := c.Assign(context.Background(), 7, 3)
	require.NoError(t, err)
	assert.Equal(t, http.MethodPut, gotMethod)
	assert.Equal(t, "/admin/7", gotPath)
	assert.EqualValues(t, 3, gotBody.ReaderID)
	require.NotNil(t, order.ReaderID)
	assert.EqualValues(t, 3, *order.ReaderID)
}

func TestCancelUsesDelete(t *testing.T) {
	var gotMethod, gotPath string
	c, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		gotMethod = r.Method
		gotPath = r.URL.Path
		respond(t, w, http.StatusOK, models.APIResponse[models.Order]{
			Success: true,
			Data:    models.Order{ID: 5, IsDeleted: true},
		})
	})

	order, err := c.Cancel(context.Background(), 5)
	require.NoError(t, err)
	assert.Equal(t, http.MethodDelete, gotMethod)
	assert.Equal(t, "/order/5", gotPath)
	assert.True(t, order.IsDeleted)
}

func TestServerRejectionCarriesMessage(t *testing.T) {
	c, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		respond(t, w, http.StatusConflict, models.APIResponse[any]{
			Success: false,
			Message: "order status does not allow this transition",
		})
	})

	_, err := c.Cancel(context.Background(), 5)
	require.Error(t, err)
	var srv *models.ServerError
	require.ErrorAs(t, err, &srv)
	assert.Equal(t, http.StatusConflict, srv.StatusCode)
	assert.Equal(t, "order status does not allow this transition", srv.Message)
}

func TestEnvelopeFalseIsFailureEvenWith200(t *testing.T) {
	c, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		respond(t, w, http.StatusOK, models.APIResponse[any]{Success: false, Message: "nope"})
	})

	_, err := c.Reject(context.Background(), 9)
	var srv *models.ServerError
	require.ErrorAs(t, err, &srv)
	assert.Equal(t, "nope", srv.Message)
}

func TestNetworkFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	c := orders.NewClient(srv.URL, time.Second, nil)
	srv.Close() // Connection refused from here on.

	_, err := c.ListOrders(context.Background(), models.Query{Page: 1, Limit: 10})
	require.Error(t, err)
	var srvErr *models.ServerError
	assert.False(t, errors.As(err, &srvErr), "transport failures are not server rejections")
}
