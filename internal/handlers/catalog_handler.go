package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/swifttransit/bus-booking-backend/internal/database"
	"github.com/swifttransit/bus-booking-backend/internal/domain"
	"github.com/swifttransit/bus-booking-backend/internal/models"
)

// CatalogHandler handles the fleet and schedule catalog: stations, routes,
// bus types, buses and trips. These are thin CRUD endpoints; the repositories
// carry the validation.
type CatalogHandler struct {
	stationRepo *database.StationRepository
	routeRepo   *database.RouteRepository
	busTypeRepo *database.BusTypeRepository
	busRepo     *database.BusRepository
	tripRepo    *database.TripRepository
}

// NewCatalogHandler creates a new CatalogHandler
func NewCatalogHandler(
	stationRepo *database.StationRepository,
	routeRepo *database.RouteRepository,
	busTypeRepo *database.BusTypeRepository,
	busRepo *database.BusRepository,
	tripRepo *database.TripRepository,
) *CatalogHandler {
	return &CatalogHandler{
		stationRepo: stationRepo,
		routeRepo:   routeRepo,
		busTypeRepo: busTypeRepo,
		busRepo:     busRepo,
		tripRepo:    tripRepo,
	}
}

// --- Stations ---

// CreateStation creates a station
// @Summary Create a station
// @Tags Catalog
// @Accept json
// @Produce json
// @Param request body models.CreateStationRequest true "Station"
// @Success 201 {object} models.Station
// @Security BearerAuth
// @Router /api/v1/stations [post]
func (h *CatalogHandler) CreateStation(c *gin.Context) {
	var req models.CreateStationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body", "details": err.Error()})
		return
	}

	station := &models.Station{Name: req.Name}
	if err := h.stationRepo.Create(station); err != nil {
		respondDomainError(c, err)
		return
	}

	c.JSON(http.StatusCreated, station)
}

// ListStations lists all stations
// @Summary List stations
// @Tags Catalog
// @Produce json
// @Success 200 {array} models.Station
// @Router /api/v1/stations [get]
func (h *CatalogHandler) ListStations(c *gin.Context) {
	stations, err := h.stationRepo.List()
	if err != nil {
		respondDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, stations)
}

// RenameStation renames a station
// @Summary Rename a station
// @Tags Catalog
// @Accept json
// @Produce json
// @Param id path string true "Station ID"
// @Param request body models.UpdateStationRequest true "New name"
// @Success 200 {object} models.Station
// @Security BearerAuth
// @Router /api/v1/stations/{id} [put]
func (h *CatalogHandler) RenameStation(c *gin.Context) {
	stationID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid station ID"})
		return
	}

	var req models.UpdateStationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body", "details": err.Error()})
		return
	}

	if err := h.stationRepo.Rename(stationID, req.Name); err != nil {
		respondDomainError(c, err)
		return
	}

	station, err := h.stationRepo.GetByID(stationID)
	if err != nil {
		respondDomainError(c, err)
		return
	}

	c.JSON(http.StatusOK, station)
}

// DeleteStation removes a station and its routes
// @Summary Delete a station
// @Tags Catalog
// @Param id path string true "Station ID"
// @Success 200 {object} map[string]interface{}
// @Security BearerAuth
// @Router /api/v1/stations/{id} [delete]
func (h *CatalogHandler) DeleteStation(c *gin.Context) {
	stationID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid station ID"})
		return
	}

	if err := h.stationRepo.Delete(stationID); err != nil {
		respondDomainError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Station deleted"})
}

// --- Routes ---

// CreateRoute creates a route between two stations
// @Summary Create a route
// @Tags Catalog
// @Accept json
// @Produce json
// @Param request body models.CreateRouteRequest true "Route"
// @Success 201 {object} models.Route
// @Security BearerAuth
// @Router /api/v1/routes [post]
func (h *CatalogHandler) CreateRoute(c *gin.Context) {
	var req models.CreateRouteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body", "details": err.Error()})
		return
	}

	originID, err := uuid.Parse(req.OriginStationID)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid origin_station_id"})
		return
	}
	destinationID, err := uuid.Parse(req.DestinationStationID)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid destination_station_id"})
		return
	}
	if originID == destinationID {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Origin and destination must differ"})
		return
	}

	route := &models.Route{
		OriginStationID:      originID,
		DestinationStationID: destinationID,
		DistanceKm:           req.DistanceKm,
		EstimatedMinutes:     req.EstimatedMinutes,
	}
	if err := h.routeRepo.Create(route); err != nil {
		respondDomainError(c, err)
		return
	}

	c.JSON(http.StatusCreated, route)
}

// ListRoutes lists all routes with station names joined
// @Summary List routes
// @Tags Catalog
// @Produce json
// @Success 200 {array} models.Route
// @Router /api/v1/routes [get]
func (h *CatalogHandler) ListRoutes(c *gin.Context) {
	routes, err := h.routeRepo.List()
	if err != nil {
		respondDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, routes)
}

// DeleteRoute removes a route
// @Summary Delete a route
// @Tags Catalog
// @Param id path string true "Route ID"
// @Success 200 {object} map[string]interface{}
// @Security BearerAuth
// @Router /api/v1/routes/{id} [delete]
func (h *CatalogHandler) DeleteRoute(c *gin.Context) {
	routeID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid route ID"})
		return
	}

	if err := h.routeRepo.Delete(routeID); err != nil {
		respondDomainError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Route deleted"})
}

// --- Bus types ---

// CreateBusType creates a bus type with its price multiplier
// @Summary Create a bus type
// @Tags Catalog
// @Accept json
// @Produce json
// @Param request body models.CreateBusTypeRequest true "Bus type"
// @Success 201 {object} models.BusType
// @Security BearerAuth
// @Router /api/v1/bus-types [post]
func (h *CatalogHandler) CreateBusType(c *gin.Context) {
	var req models.CreateBusTypeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body", "details": err.Error()})
		return
	}

	busType := &models.BusType{Name: req.Name, PriceMultiplier: req.PriceMultiplier}
	if err := h.busTypeRepo.Create(busType); err != nil {
		respondDomainError(c, err)
		return
	}

	c.JSON(http.StatusCreated, busType)
}

// ListBusTypes lists all bus types
// @Summary List bus types
// @Tags Catalog
// @Produce json
// @Success 200 {array} models.BusType
// @Router /api/v1/bus-types [get]
func (h *CatalogHandler) ListBusTypes(c *gin.Context) {
	busTypes, err := h.busTypeRepo.List()
	if err != nil {
		respondDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, busTypes)
}

// --- Buses ---

// CreateBus registers a bus with its seat grid dimensions
// @Summary Register a bus
// @Tags Catalog
// @Accept json
// @Produce json
// @Param request body models.CreateBusRequest true "Bus"
// @Success 201 {object} models.Bus
// @Security BearerAuth
// @Router /api/v1/buses [post]
func (h *CatalogHandler) CreateBus(c *gin.Context) {
	var req models.CreateBusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body", "details": err.Error()})
		return
	}

	busTypeID, err := uuid.Parse(req.BusTypeID)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid bus_type_id"})
		return
	}

	bus := &models.Bus{
		PlateNumber:  req.PlateNumber,
		BusTypeID:    busTypeID,
		SeatCapacity: req.SeatCapacity,
		GridRows:     req.GridRows,
		GridCols:     req.GridCols,
		GridFloors:   req.GridFloors,
	}
	if req.DriverID != nil {
		driverID, err := uuid.Parse(*req.DriverID)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid driver_id"})
			return
		}
		bus.DriverID = &driverID
	}

	if err := h.busRepo.Create(bus); err != nil {
		respondDomainError(c, err)
		return
	}

	c.JSON(http.StatusCreated, bus)
}

// ListBuses lists all buses with their types joined
// @Summary List buses
// @Tags Catalog
// @Produce json
// @Success 200 {array} models.Bus
// @Router /api/v1/buses [get]
func (h *CatalogHandler) ListBuses(c *gin.Context) {
	buses, err := h.busRepo.List()
	if err != nil {
		respondDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, buses)
}

// GetBus retrieves one bus
// @Summary Get a bus
// @Tags Catalog
// @Produce json
// @Param id path string true "Bus ID"
// @Success 200 {object} models.Bus
// @Router /api/v1/buses/{id} [get]
func (h *CatalogHandler) GetBus(c *gin.Context) {
	busID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid bus ID"})
		return
	}

	bus, err := h.busRepo.GetByID(busID)
	if err != nil {
		respondDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, bus)
}

// --- Trips ---

// CreateTrip schedules a trip
// @Summary Schedule a trip
// @Tags Catalog
// @Accept json
// @Produce json
// @Param request body models.CreateTripRequest true "Trip"
// @Success 201 {object} models.Trip
// @Security BearerAuth
// @Router /api/v1/trips [post]
func (h *CatalogHandler) CreateTrip(c *gin.Context) {
	var req models.CreateTripRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body", "details": err.Error()})
		return
	}

	trip, err := tripFromRequest(&req)
	if err != nil {
		respondDomainError(c, err)
		return
	}

	if err := h.tripRepo.Create(trip); err != nil {
		respondDomainError(c, err)
		return
	}

	c.JSON(http.StatusCreated, trip)
}

// ListTrips lists all scheduled trips
// @Summary List trips
// @Tags Catalog
// @Produce json
// @Success 200 {array} models.Trip
// @Router /api/v1/trips [get]
func (h *CatalogHandler) ListTrips(c *gin.Context) {
	trips, err := h.tripRepo.List()
	if err != nil {
		respondDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, trips)
}

// GetTrip retrieves one trip with its bus joined
// @Summary Get a trip
// @Tags Catalog
// @Produce json
// @Param id path string true "Trip ID"
// @Success 200 {object} models.Trip
// @Router /api/v1/trips/{id} [get]
func (h *CatalogHandler) GetTrip(c *gin.Context) {
	tripID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid trip ID"})
		return
	}

	trip, err := h.tripRepo.GetByIDWithBus(tripID)
	if err != nil {
		respondDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, trip)
}

// DeleteTrip removes a trip
// @Summary Delete a trip
// @Tags Catalog
// @Param id path string true "Trip ID"
// @Success 200 {object} map[string]interface{}
// @Security BearerAuth
// @Router /api/v1/trips/{id} [delete]
func (h *CatalogHandler) DeleteTrip(c *gin.Context) {
	tripID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid trip ID"})
		return
	}

	if err := h.tripRepo.Delete(tripID); err != nil {
		respondDomainError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Trip deleted"})
}

// tripFromRequest parses and validates the wire shape of a trip
func tripFromRequest(req *models.CreateTripRequest) (*models.Trip, error) {
	routeID, err := uuid.Parse(req.RouteID)
	if err != nil {
		return nil, domain.ValidationError{Field: "route_id", Msg: "must be a valid UUID"}
	}
	busID, err := uuid.Parse(req.BusID)
	if err != nil {
		return nil, domain.ValidationError{Field: "bus_id", Msg: "must be a valid UUID"}
	}

	departure, err := time.Parse(time.RFC3339, req.DepartureTime)
	if err != nil {
		return nil, domain.ValidationError{Field: "departure_time", Msg: "must be RFC 3339"}
	}
	arrival, err := time.Parse(time.RFC3339, req.ArrivalTime)
	if err != nil {
		return nil, domain.ValidationError{Field: "arrival_time", Msg: "must be RFC 3339"}
	}

	trip := &models.Trip{
		RouteID:       &routeID,
		BusID:         &busID,
		DepartureTime: departure,
		ArrivalTime:   arrival,
		BasePrice:     req.BasePrice,
	}
	if req.DriverID != nil {
		driverID, err := uuid.Parse(*req.DriverID)
		if err != nil {
			return nil, domain.ValidationError{Field: "driver_id", Msg: "must be a valid UUID"}
		}
		trip.DriverID = &driverID
	}

	return trip, nil
}
