package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	appmarketplace "github.com/dealerhub/backend/internal/application/marketplace"
	"github.com/dealerhub/backend/internal/domain/marketplace"
	"github.com/dealerhub/backend/internal/interfaces/http/dto"
)

// MarketplaceHandler handles marketplace connection, publish and sync endpoints
type MarketplaceHandler struct {
	BaseHandler
	connections *appmarketplace.ConnectionService
	publisher   *appmarketplace.PublishService
	sync        *appmarketplace.SyncService
}

// NewMarketplaceHandler creates a new MarketplaceHandler
func NewMarketplaceHandler(
	connections *appmarketplace.ConnectionService,
	publisher *appmarketplace.PublishService,
	sync *appmarketplace.SyncService,
) *MarketplaceHandler {
	return &MarketplaceHandler{
		connections: connections,
		publisher:   publisher,
		sync:        sync,
	}
}

// Connect links a branch to a marketplace platform. The branch comes from
// the request body and must match the actor's branch; credentials are
// validated against the platform before anything is stored.
func (h *MarketplaceHandler) Connect(c *gin.Context) {
	actor, err := getActor(c)
	if err != nil {
		h.Unauthorized(c, "Authentication required")
		return
	}

	var req ConnectRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, "Invalid request format: "+err.Error())
		return
	}

	branchID, err := uuid.Parse(req.BranchID)
	if err != nil {
		h.BadRequest(c, "Invalid branch_id")
		return
	}

	conn, err := h.connections.Connect(c.Request.Context(), actor, appmarketplace.ConnectInput{
		BranchID:    branchID,
		Platform:    marketplace.PlatformCode(req.Platform),
		Credentials: marketplace.Credentials(req.Credentials),
	})
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Created(c, conn)
}

// Disconnect removes the actor's branch connection to a platform
func (h *MarketplaceHandler) Disconnect(c *gin.Context) {
	actor, err := getActor(c)
	if err != nil {
		h.Unauthorized(c, "Authentication required")
		return
	}

	var uri PlatformURI
	if err := c.ShouldBindUri(&uri); err != nil {
		h.BadRequest(c, "Invalid platform parameter")
		return
	}

	err = h.connections.Disconnect(c.Request.Context(), actor, actor.BranchID, marketplace.PlatformCode(uri.Platform))
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.NoContent(c)
}

// ListConnections lists the actor's branch connections with redacted credentials
func (h *MarketplaceHandler) ListConnections(c *gin.Context) {
	actor, err := getActor(c)
	if err != nil {
		h.Unauthorized(c, "Authentication required")
		return
	}

	conns, err := h.connections.ListConnections(c.Request.Context(), actor, actor.BranchID)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, conns)
}

// Publish pushes a single vehicle to one platform. A rejected publish is a
// normal outcome: the response carries the listing in its error state.
func (h *MarketplaceHandler) Publish(c *gin.Context) {
	actor, err := getActor(c)
	if err != nil {
		h.Unauthorized(c, "Authentication required")
		return
	}

	var req PublishRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, "Invalid request format: "+err.Error())
		return
	}

	vehicleID, err := uuid.Parse(req.VehicleID)
	if err != nil {
		h.BadRequest(c, "Invalid vehicle_id")
		return
	}

	listing, err := h.publisher.Publish(c.Request.Context(), actor, appmarketplace.PublishInput{
		VehicleID: vehicleID,
		Platform:  marketplace.PlatformCode(req.Platform),
	})
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, listing)
}

// ListVehicleListings lists a vehicle's listings across all platforms
func (h *MarketplaceHandler) ListVehicleListings(c *gin.Context) {
	actor, err := getActor(c)
	if err != nil {
		h.Unauthorized(c, "Authentication required")
		return
	}

	var uri dto.IDRequest
	if err := c.ShouldBindUri(&uri); err != nil {
		h.BadRequest(c, "Invalid vehicle ID")
		return
	}
	vehicleID, err := uuid.Parse(uri.ID)
	if err != nil {
		h.BadRequest(c, "Invalid vehicle ID")
		return
	}

	listings, err := h.publisher.ListListings(c.Request.Context(), actor, vehicleID)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, listings)
}

// Sync re-publishes every available vehicle of the actor's branch to every
// connected platform and reports the aggregate outcome.
func (h *MarketplaceHandler) Sync(c *gin.Context) {
	actor, err := getActor(c)
	if err != nil {
		h.Unauthorized(c, "Authentication required")
		return
	}

	result, err := h.sync.SyncBranch(c.Request.Context(), actor, actor.BranchID)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, result)
}
