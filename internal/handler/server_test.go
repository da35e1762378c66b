package handler_test

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/voyagecms/backend/internal/domain"
	"github.com/voyagecms/backend/internal/handler"
	"github.com/voyagecms/backend/internal/service"
)

// Mocks are test doubles for the handler's service interfaces.
// Set only the method fields your test needs; an unset method panics,
// which fails the test loudly if a handler calls something unexpected.

type mockTripServicer struct {
	create     func(ctx context.Context, title, departureTitle string) (domain.TripDetail, error)
	list       func(ctx context.Context, publicOnly bool) ([]domain.TripSummary, error)
	getByID    func(ctx context.Context, id int64) (domain.TripDetail, error)
	getBySlug  func(ctx context.Context, slug string, publicOnly bool) (domain.TripDetail, error)
	latest     func(ctx context.Context) (domain.TripDetail, error)
	updateMeta func(ctx context.Context, id int64, req service.TripMetaRequest) (domain.Trip, error)
	save       func(ctx context.Context, id int64, req service.SaveTripRequest) (domain.TripDetail, error)
	delete     func(ctx context.Context, id int64) error
}

func (m *mockTripServicer) Create(ctx context.Context, title, departureTitle string) (domain.TripDetail, error) {
	return m.create(ctx, title, departureTitle)
}
func (m *mockTripServicer) List(ctx context.Context, publicOnly bool) ([]domain.TripSummary, error) {
	return m.list(ctx, publicOnly)
}
func (m *mockTripServicer) GetByID(ctx context.Context, id int64) (domain.TripDetail, error) {
	return m.getByID(ctx, id)
}
func (m *mockTripServicer) GetBySlug(ctx context.Context, slug string, publicOnly bool) (domain.TripDetail, error) {
	return m.getBySlug(ctx, slug, publicOnly)
}
func (m *mockTripServicer) Latest(ctx context.Context) (domain.TripDetail, error) {
	return m.latest(ctx)
}
func (m *mockTripServicer) UpdateMeta(ctx context.Context, id int64, req service.TripMetaRequest) (domain.Trip, error) {
	return m.updateMeta(ctx, id, req)
}
func (m *mockTripServicer) Save(ctx context.Context, id int64, req service.SaveTripRequest) (domain.TripDetail, error) {
	return m.save(ctx, id, req)
}
func (m *mockTripServicer) Delete(ctx context.Context, id int64) error {
	return m.delete(ctx, id)
}

var _ handler.TripServicer = (*mockTripServicer)(nil)

type mockScheduleServicer struct {
	createDay     func(ctx context.Context, tripID int64, req service.CreateDayRequest) ([]domain.Day, error)
	deleteDay     func(ctx context.Context, tripID, dayID int64, shiftFollowing bool) ([]domain.Day, error)
	reorderDays   func(ctx context.Context, tripID, dayID, targetDayID int64) ([]domain.Day, error)
	updateDayDate func(ctx context.Context, tripID, dayID int64, newDate string) ([]domain.Day, error)
}

func (m *mockScheduleServicer) CreateDay(ctx context.Context, tripID int64, req service.CreateDayRequest) ([]domain.Day, error) {
	return m.createDay(ctx, tripID, req)
}
func (m *mockScheduleServicer) DeleteDay(ctx context.Context, tripID, dayID int64, shiftFollowing bool) ([]domain.Day, error) {
	return m.deleteDay(ctx, tripID, dayID, shiftFollowing)
}
func (m *mockScheduleServicer) ReorderDays(ctx context.Context, tripID, dayID, targetDayID int64) ([]domain.Day, error) {
	return m.reorderDays(ctx, tripID, dayID, targetDayID)
}
func (m *mockScheduleServicer) UpdateDayDate(ctx context.Context, tripID, dayID int64, newDate string) ([]domain.Day, error) {
	return m.updateDayDate(ctx, tripID, dayID, newDate)
}

var _ handler.ScheduleServicer = (*mockScheduleServicer)(nil)

type mockItemServicer struct {
	appendItem      func(ctx context.Context, tripID, dayID int64) ([]domain.Item, error)
	insertItemAfter func(ctx context.Context, tripID, dayID, afterItemID int64) ([]domain.Item, error)
	updateItem      func(ctx context.Context, tripID, dayID, itemID int64, req service.UpdateItemRequest) ([]domain.Item, error)
	deleteItem      func(ctx context.Context, tripID, dayID, itemID int64) ([]domain.Item, error)
}

func (m *mockItemServicer) AppendItem(ctx context.Context, tripID, dayID int64) ([]domain.Item, error) {
	return m.appendItem(ctx, tripID, dayID)
}
func (m *mockItemServicer) InsertItemAfter(ctx context.Context, tripID, dayID, afterItemID int64) ([]domain.Item, error) {
	return m.insertItemAfter(ctx, tripID, dayID, afterItemID)
}
func (m *mockItemServicer) UpdateItem(ctx context.Context, tripID, dayID, itemID int64, req service.UpdateItemRequest) ([]domain.Item, error) {
	return m.updateItem(ctx, tripID, dayID, itemID, req)
}
func (m *mockItemServicer) DeleteItem(ctx context.Context, tripID, dayID, itemID int64) ([]domain.Item, error) {
	return m.deleteItem(ctx, tripID, dayID, itemID)
}

var _ handler.ItemServicer = (*mockItemServicer)(nil)

type mockExportServicer struct {
	rows func(ctx context.Context, tripID int64) ([]domain.ExportRow, error)
	pdf  func(ctx context.Context, tripID int64) ([]byte, error)
}

func (m *mockExportServicer) Rows(ctx context.Context, tripID int64) ([]domain.ExportRow, error) {
	return m.rows(ctx, tripID)
}
func (m *mockExportServicer) PDF(ctx context.Context, tripID int64) ([]byte, error) {
	return m.pdf(ctx, tripID)
}

var _ handler.ExportServicer = (*mockExportServicer)(nil)

type mockAuthServicer struct {
	login func(ctx context.Context, email, password string) (string, error)
}

func (m *mockAuthServicer) Login(ctx context.Context, email, password string) (string, error) {
	return m.login(ctx, email, password)
}

var _ handler.AuthServicer = (*mockAuthServicer)(nil)

type mockBundleProvider struct {
	bundle func(locale, namespace string) (json.RawMessage, error)
}

func (m *mockBundleProvider) Bundle(locale, namespace string) (json.RawMessage, error) {
	return m.bundle(locale, namespace)
}

var _ handler.BundleProvider = (*mockBundleProvider)(nil)

// okVerifier accepts every token; admin-route tests use it so they can focus
// on handler behavior. Auth rejection itself is covered in the middleware
// package tests.
type okVerifier struct{}

func (okVerifier) Verify(string) (string, error) { return "admin@example.com", nil }

// deps bundles every mock so tests only fill in what they exercise.
type deps struct {
	trips    *mockTripServicer
	schedule *mockScheduleServicer
	items    *mockItemServicer
	export   *mockExportServicer
	auth     *mockAuthServicer
	bundles  *mockBundleProvider
}

// newHTTPHandler wires a Server with the given mocks into the real router,
// mirroring how main.go wires it in production.
func newHTTPHandler(d deps) http.Handler {
	if d.trips == nil {
		d.trips = &mockTripServicer{}
	}
	if d.schedule == nil {
		d.schedule = &mockScheduleServicer{}
	}
	if d.items == nil {
		d.items = &mockItemServicer{}
	}
	if d.export == nil {
		d.export = &mockExportServicer{}
	}
	if d.auth == nil {
		d.auth = &mockAuthServicer{}
	}
	if d.bundles == nil {
		d.bundles = &mockBundleProvider{}
	}

	srv := handler.NewServer(d.trips, d.schedule, d.items, d.export, d.auth, d.bundles)
	logger := slog.New(slog.NewTextHandler(&bytes.Buffer{}, nil))
	return handler.NewRouter(srv, okVerifier{}, logger, nil)
}

func jsonBody(t *testing.T, v any) *bytes.Buffer {
	t.Helper()
	b, err := json.Marshal(v)
	require.NoError(t, err)
	return bytes.NewBuffer(b)
}

// doAdmin performs an authenticated request against the handler under test.
func doAdmin(h http.Handler, method, target string, body *bytes.Buffer) *httptest.ResponseRecorder {
	if body == nil {
		body = &bytes.Buffer{}
	}
	req := httptest.NewRequest(method, target, body)
	req.Header.Set("Authorization", "Bearer test-token")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func TestHealthz(t *testing.T) {
	h := newHTTPHandler(deps{})

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/healthz", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	require.JSONEq(t, `{"status":"ok"}`, rec.Body.String())
}

func TestAdminRoutesRequireToken(t *testing.T) {
	h := newHTTPHandler(deps{})

	req := httptest.NewRequest(http.MethodGet, "/api/admin/trips", nil)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	require.Equal(t, http.StatusUnauthorized, rec.Code)
	require.JSONEq(t,
		`{"error":{"code":"unauthorized","message":"missing or invalid bearer token"}}`,
		rec.Body.String())
}
