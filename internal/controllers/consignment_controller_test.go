package controllers

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"tccs_backend/internal/allocation"
	"tccs_backend/internal/middleware"
	"tccs_backend/internal/models"
)

// openTestDB opens a private in-memory database and migrates the schema.
func openTestDB(t *testing.T, name string) *gorm.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", name)
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{TranslateError: true})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(
		&models.Branch{},
		&models.User{},
		&models.Truck{},
		&models.Consignment{},
		&models.ConsignmentTruck{},
		&models.TruckAssignment{},
		&models.Revenue{},
	))
	return db
}

func seedConsignment(t *testing.T, db *gorm.DB, code string, sourceID, destID uint) models.Consignment {
	t.Helper()
	c := models.Consignment{
		TrackingCode:        code,
		Volume:              10,
		Weight:              5,
		SenderName:          "Asha Traders",
		SenderAddress:       "12 Market Road",
		ReceiverName:        "Lakshmi Stores",
		ReceiverAddress:     "4 Harbour Lane",
		Status:              models.ConsignmentPending,
		Charge:              100,
		BranchID:            sourceID,
		DestinationBranchID: destID,
	}
	require.NoError(t, db.Create(&c).Error)
	return c
}

func bearerFor(t *testing.T, u *models.User) string {
	t.Helper()
	token, err := middleware.GenerateToken(u.ID, u.Role, u.BranchID)
	require.NoError(t, err)
	return "Bearer " + token
}

func TestListConsignmentsScopedToEmployeeBranch(t *testing.T) {
	gin.SetMode(gin.TestMode)
	db := openTestDB(t, "consignment-scoping")

	east := models.Branch{Name: "East", Location: "East Side"}
	west := models.Branch{Name: "West", Location: "West Side"}
	require.NoError(t, db.Create(&east).Error)
	require.NoError(t, db.Create(&west).Error)

	employee := models.User{Username: "clerk", Password: "x", Role: models.RoleEmployee, BranchID: &east.ID}
	manager := models.User{Username: "boss", Password: "x", Role: models.RoleManager, BranchID: &west.ID}
	require.NoError(t, db.Create(&employee).Error)
	require.NoError(t, db.Create(&manager).Error)

	seedConsignment(t, db, "east-1", east.ID, west.ID)
	seedConsignment(t, db, "east-2", east.ID, west.ID)
	seedConsignment(t, db, "west-1", west.ID, east.ID)

	cc := NewConsignmentController(db, allocation.NewEngine(db))
	r := gin.New()
	r.GET("/consignments", middleware.RequireAuth(), cc.ListConsignments)

	list := func(u *models.User) []models.Consignment {
		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/consignments", nil)
		req.Header.Set("Authorization", bearerFor(t, u))
		r.ServeHTTP(w, req)
		require.Equal(t, http.StatusOK, w.Code)

		var body struct {
			Data []models.Consignment `json:"data"`
		}
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
		return body.Data
	}

	// The employee sees only their own branch's consignments.
	fromEmployee := list(&employee)
	require.Len(t, fromEmployee, 2)
	for _, c := range fromEmployee {
		assert.Equal(t, east.ID, c.BranchID)
	}

	// The manager sees every branch.
	assert.Len(t, list(&manager), 3)
}

func TestGetConsignmentOtherBranchForbidden(t *testing.T) {
	gin.SetMode(gin.TestMode)
	db := openTestDB(t, "consignment-cross-branch")

	east := models.Branch{Name: "East", Location: "East Side"}
	west := models.Branch{Name: "West", Location: "West Side"}
	require.NoError(t, db.Create(&east).Error)
	require.NoError(t, db.Create(&west).Error)

	employee := models.User{Username: "clerk", Password: "x", Role: models.RoleEmployee, BranchID: &east.ID}
	require.NoError(t, db.Create(&employee).Error)

	foreign := seedConsignment(t, db, "west-1", west.ID, east.ID)

	cc := NewConsignmentController(db, allocation.NewEngine(db))
	r := gin.New()
	r.GET("/consignments/:id", middleware.RequireAuth(), cc.GetConsignment)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, fmt.Sprintf("/consignments/%d", foreign.ID), nil)
	req.Header.Set("Authorization", bearerFor(t, &employee))
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusForbidden, w.Code)
}
