package handler

import (
	"log/slog"
	"net/http"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"praxis/internal/notification/readstate"
	notifservice "praxis/internal/notification/service"
	"praxis/internal/platform/middleware"
	"praxis/internal/visibility/models"
	visservice "praxis/internal/visibility/service"
	"praxis/internal/visibility/store/records"
	"praxis/internal/visibility/store/roster"
	id "praxis/pkg/domain"
	"praxis/pkg/platform/bus"
	"praxis/pkg/requestcontext"
	"praxis/pkg/testutil"
)

func newTestRouter(t *testing.T) (*chi.Mux, *records.InMemory) {
	t.Helper()

	rs := roster.NewInMemory()
	recs := records.NewInMemory()
	notifier := bus.New()

	visSvc, err := visservice.New(rs, recs)
	require.NoError(t, err)

	svc, err := notifservice.New(visSvc, readstate.NewInMemory(notifier), notifier)
	require.NoError(t, err)

	h := New(svc, slog.Default())
	router := chi.NewRouter()
	router.Route("/api", h.Register)
	return router, recs
}

func withSession(req *http.Request, p models.Principal, profile id.ProfileID) *http.Request {
	ctx := middleware.WithPrincipal(req.Context(), p)
	ctx = requestcontext.WithProfileID(ctx, profile)
	return req.WithContext(ctx)
}

func TestCarouselFlow(t *testing.T) {
	router, recs := newTestRouter(t)

	recs.AddMessage(models.SystemMessage{
		ID: "m1", Title: "Old", Priority: models.PriorityUrgent,
		CreatedAt: time.Now().Add(-2 * time.Hour),
	})
	recs.AddMessage(models.SystemMessage{
		ID: "m2", Title: "New", Priority: models.PriorityUrgent,
		CreatedAt: time.Now().Add(-time.Hour),
	})

	employee := models.Principal{ID: "e1", Role: models.RoleEmployee, CompanyID: "C1"}
	profile := id.ProfileID("profile-a")

	req := withSession(testutil.NewJSONRequest(t, http.MethodPost, "/api/carousel/open", nil), employee, profile)
	rr := testutil.DoRequest(router, req)
	require.Equal(t, http.StatusOK, rr.Code)

	var st StateResponse
	testutil.DecodeJSON(t, rr, &st)
	assert.Equal(t, "presenting", st.Phase)
	require.NotNil(t, st.Current)
	assert.Equal(t, "m2", st.Current.ID, "newest first")
	assert.Equal(t, []string{"m2", "m1"}, st.Queue)

	req = withSession(testutil.NewJSONRequest(t, http.MethodPost, "/api/carousel/next", nil), employee, profile)
	rr = testutil.DoRequest(router, req)
	require.Equal(t, http.StatusOK, rr.Code)

	st = StateResponse{}
	testutil.DecodeJSON(t, rr, &st)
	assert.Equal(t, "presenting", st.Phase)
	require.NotNil(t, st.Current)
	assert.Equal(t, "m1", st.Current.ID)

	req = withSession(testutil.NewJSONRequest(t, http.MethodGet, "/api/notifications/unread-count", nil), employee, profile)
	rr = testutil.DoRequest(router, req)
	require.Equal(t, http.StatusOK, rr.Code)

	var badge UnreadCountResponse
	testutil.DecodeJSON(t, rr, &badge)
	assert.Equal(t, 1, badge.Unread)

	req = withSession(testutil.NewJSONRequest(t, http.MethodPost, "/api/carousel/dismiss-all", nil), employee, profile)
	rr = testutil.DoRequest(router, req)
	require.Equal(t, http.StatusOK, rr.Code)

	st = StateResponse{}
	testutil.DecodeJSON(t, rr, &st)
	assert.Equal(t, "closed", st.Phase)

	req = withSession(testutil.NewJSONRequest(t, http.MethodGet, "/api/notifications/unread-count", nil), employee, profile)
	rr = testutil.DoRequest(router, req)
	require.Equal(t, http.StatusOK, rr.Code)

	badge = UnreadCountResponse{}
	testutil.DecodeJSON(t, rr, &badge)
	assert.Zero(t, badge.Unread)
}

func TestNextWithoutOpenConflicts(t *testing.T) {
	router, _ := newTestRouter(t)

	employee := models.Principal{ID: "e1", Role: models.RoleEmployee, CompanyID: "C1"}

	req := withSession(testutil.NewJSONRequest(t, http.MethodPost, "/api/carousel/next", nil), employee, "profile-a")
	rr := testutil.DoRequest(router, req)

	assert.Equal(t, http.StatusConflict, rr.Code)
}

func TestCarouselRequiresPrincipal(t *testing.T) {
	router, _ := newTestRouter(t)

	req := testutil.NewJSONRequest(t, http.MethodPost, "/api/carousel/open", nil)
	rr := testutil.DoRequest(router, req)

	assert.Equal(t, http.StatusUnauthorized, rr.Code)
}

func TestMissingProfileRejected(t *testing.T) {
	router, _ := newTestRouter(t)

	employee := models.Principal{ID: "e1", Role: models.RoleEmployee, CompanyID: "C1"}

	req := testutil.NewJSONRequest(t, http.MethodPost, "/api/carousel/open", nil)
	req = req.WithContext(middleware.WithPrincipal(req.Context(), employee))
	rr := testutil.DoRequest(router, req)

	assert.Equal(t, http.StatusBadRequest, rr.Code)
}
