package database

import (
	"database/sql"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/swifttransit/bus-booking-backend/internal/domain"
	"github.com/swifttransit/bus-booking-backend/internal/models"
)

// RouteRepository handles database operations for the routes table
type RouteRepository struct {
	db *sqlx.DB
}

// NewRouteRepository creates a new RouteRepository
func NewRouteRepository(db *sqlx.DB) *RouteRepository {
	return &RouteRepository{db: db}
}

// Create inserts a new route
func (r *RouteRepository) Create(route *models.Route) error {
	route.ID = uuid.New()

	query := `
		INSERT INTO routes (id, origin_station_id, destination_station_id, distance_km, estimated_minutes)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING created_at, updated_at`

	err := r.db.QueryRow(query,
		route.ID, route.OriginStationID, route.DestinationStationID,
		route.DistanceKm, route.EstimatedMinutes,
	).Scan(&route.CreatedAt, &route.UpdatedAt)
	if isForeignKeyViolation(err) {
		return domain.NotFoundError{Resource: "station"}
	}
	return err
}

// GetByID retrieves a route with its station names joined
func (r *RouteRepository) GetByID(routeID uuid.UUID) (*models.Route, error) {
	var route models.Route
	query := `
		SELECT rt.id, rt.origin_station_id, rt.destination_station_id,
		       rt.distance_km, rt.estimated_minutes, rt.created_at, rt.updated_at,
		       o.name AS origin_name, d.name AS destination_name
		FROM routes rt
		JOIN stations o ON o.id = rt.origin_station_id
		JOIN stations d ON d.id = rt.destination_station_id
		WHERE rt.id = $1`

	err := r.db.Get(&route, query, routeID)
	if err == sql.ErrNoRows {
		return nil, domain.NotFoundError{Resource: "route"}
	}
	if err != nil {
		return nil, err
	}
	return &route, nil
}

// List retrieves all routes with station names joined
func (r *RouteRepository) List() ([]models.Route, error) {
	routes := []models.Route{}
	query := `
		SELECT rt.id, rt.origin_station_id, rt.destination_station_id,
		       rt.distance_km, rt.estimated_minutes, rt.created_at, rt.updated_at,
		       o.name AS origin_name, d.name AS destination_name
		FROM routes rt
		JOIN stations o ON o.id = rt.origin_station_id
		JOIN stations d ON d.id = rt.destination_station_id
		ORDER BY o.name, d.name`

	err := r.db.Select(&routes, query)
	return routes, err
}

// Delete removes a route. Trips referencing it get route_id set to NULL.
func (r *RouteRepository) Delete(routeID uuid.UUID) error {
	result, err := r.db.Exec(`DELETE FROM routes WHERE id = $1`, routeID)
	if err != nil {
		return err
	}
	rows, _ := result.RowsAffected()
	if rows == 0 {
		return domain.NotFoundError{Resource: "route"}
	}
	return nil
}
