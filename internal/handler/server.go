// Package handler implements the HTTP handlers for the Voyage CMS API.
// Handlers are methods on Server, split into domain-specific files
// (trip.go, day.go, item.go, ...) but sharing the same struct so they can
// access its dependencies. Routing lives in router.go.
package handler

import (
	"context"
	"encoding/json"

	"github.com/voyagecms/backend/internal/domain"
	"github.com/voyagecms/backend/internal/service"
)

// TripServicer defines the trip operations the handlers depend on.
// Defining the interfaces here (in the consumer package) lets handler tests
// inject a mock without touching the database or service layer.
type TripServicer interface {
	Create(ctx context.Context, title, departureTitle string) (domain.TripDetail, error)
	List(ctx context.Context, publicOnly bool) ([]domain.TripSummary, error)
	GetByID(ctx context.Context, id int64) (domain.TripDetail, error)
	GetBySlug(ctx context.Context, slug string, publicOnly bool) (domain.TripDetail, error)
	Latest(ctx context.Context) (domain.TripDetail, error)
	UpdateMeta(ctx context.Context, id int64, req service.TripMetaRequest) (domain.Trip, error)
	Save(ctx context.Context, id int64, req service.SaveTripRequest) (domain.TripDetail, error)
	Delete(ctx context.Context, id int64) error
}

// ScheduleServicer defines the day-level schedule operations.
type ScheduleServicer interface {
	CreateDay(ctx context.Context, tripID int64, req service.CreateDayRequest) ([]domain.Day, error)
	DeleteDay(ctx context.Context, tripID, dayID int64, shiftFollowing bool) ([]domain.Day, error)
	ReorderDays(ctx context.Context, tripID, dayID, targetDayID int64) ([]domain.Day, error)
	UpdateDayDate(ctx context.Context, tripID, dayID int64, newDate string) ([]domain.Day, error)
}

// ItemServicer defines the item-level schedule operations.
type ItemServicer interface {
	AppendItem(ctx context.Context, tripID, dayID int64) ([]domain.Item, error)
	InsertItemAfter(ctx context.Context, tripID, dayID, afterItemID int64) ([]domain.Item, error)
	UpdateItem(ctx context.Context, tripID, dayID, itemID int64, req service.UpdateItemRequest) ([]domain.Item, error)
	DeleteItem(ctx context.Context, tripID, dayID, itemID int64) ([]domain.Item, error)
}

// ExportServicer renders a trip's itinerary for download.
type ExportServicer interface {
	Rows(ctx context.Context, tripID int64) ([]domain.ExportRow, error)
	PDF(ctx context.Context, tripID int64) ([]byte, error)
}

// AuthServicer exchanges admin credentials for a session token.
type AuthServicer interface {
	Login(ctx context.Context, email, password string) (string, error)
}

// BundleProvider serves translation bundles by locale and namespace.
type BundleProvider interface {
	Bundle(locale, namespace string) (json.RawMessage, error)
}

// Server holds the handlers' dependencies. Wire it into a router with
// NewRouter.
type Server struct {
	trips    TripServicer
	schedule ScheduleServicer
	items    ItemServicer
	export   ExportServicer
	auth     AuthServicer
	bundles  BundleProvider
}

// NewServer constructs the Server with all its dependencies.
func NewServer(
	trips TripServicer,
	schedule ScheduleServicer,
	items ItemServicer,
	export ExportServicer,
	auth AuthServicer,
	bundles BundleProvider,
) *Server {
	return &Server{
		trips:    trips,
		schedule: schedule,
		items:    items,
		export:   export,
		auth:     auth,
		bundles:  bundles,
	}
}
