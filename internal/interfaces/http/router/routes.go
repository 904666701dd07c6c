package router

import (
	"github.com/gin-gonic/gin"

	"github.com/dealerhub/backend/internal/interfaces/http/handler"
)

// MarketplaceRoutes registers the marketplace connection, publish and sync
// endpoints. All of them require an authenticated actor.
type MarketplaceRoutes struct {
	handler *handler.MarketplaceHandler
}

// NewMarketplaceRoutes creates a new MarketplaceRoutes registrar
func NewMarketplaceRoutes(h *handler.MarketplaceHandler) *MarketplaceRoutes {
	return &MarketplaceRoutes{handler: h}
}

// RegisterRoutes implements RouteRegistrar
func (r *MarketplaceRoutes) RegisterRoutes(rg *gin.RouterGroup) {
	g := rg.Group("/marketplace")

	g.POST("/connections", r.handler.Connect)
	g.DELETE("/connections/:platform", r.handler.Disconnect)
	g.GET("/connections", r.handler.ListConnections)

	g.POST("/listings/publish", r.handler.Publish)
	g.GET("/vehicles/:id/listings", r.handler.ListVehicleListings)

	g.POST("/sync", r.handler.Sync)
}

// SystemRoutes registers health and system information endpoints. The health
// route is listed in the JWT middleware skip paths so probes reach it
// without credentials.
type SystemRoutes struct {
	handler *handler.SystemHandler
}

// NewSystemRoutes creates a new SystemRoutes registrar
func NewSystemRoutes(h *handler.SystemHandler) *SystemRoutes {
	return &SystemRoutes{handler: h}
}

// RegisterRoutes implements RouteRegistrar
func (r *SystemRoutes) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("/health", r.handler.Health)

	sys := rg.Group("/system")
	sys.GET("/info", r.handler.GetSystemInfo)
}
