package routes

import (
	ginlog "github.com/gin-contrib/logger"
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"tccs_backend/internal/allocation"
	"tccs_backend/internal/controllers"
)

// SetupRouter wires the controllers onto the gin engine. The database handle
// and allocation engine are injected here and flow into every controller.
func SetupRouter(db *gorm.DB) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(ginlog.SetLogger())

	engine := allocation.NewEngine(db)

	auth := controllers.NewAuthController(db)
	branches := controllers.NewBranchController(db)
	consignments := controllers.NewConsignmentController(db, engine)
	trucks := controllers.NewTruckController(db, engine)
	reports := controllers.NewReportController(db)

	AuthRoutes(r, auth)
	BranchRoutes(r, branches)
	ConsignmentRoutes(r, consignments)
	TruckRoutes(r, trucks)
	ReportRoutes(r, reports)

	return r
}
