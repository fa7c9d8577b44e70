package controllers

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"building-backend/models"
	"building-backend/utils"
)

// BuildingRepository is everything the HTTP layer needs from the
// building/floor store.
type BuildingRepository interface {
	ListBuildings(ctx context.Context) ([]models.Building, error)
	GetBuilding(ctx context.Context, id string) (*models.Building, error)
	CreateBuilding(ctx context.Context, building *models.Building) (*models.Building, error)
	UpdateBuilding(ctx context.Context, id string, upd models.BuildingUpdate) (*models.Building, error)
	DeleteBuilding(ctx context.Context, id string) error
	AddFloor(ctx context.Context, buildingID string, floor models.Floor) (*models.Building, error)
	UpdateFloor(ctx context.Context, buildingID, floorID string, fields map[string]any) (*models.Building, error)
	UpdateFloorMapURL(ctx context.Context, floorID, url string) (*models.Building, error)
	DeleteFloor(ctx context.Context, buildingID, floorID string) (*models.Building, error)
	FindFloor(ctx context.Context, floorID string) (*models.FloorLookup, error)
}

type BuildingController struct {
	buildings BuildingRepository
}

func NewBuildingController(buildings BuildingRepository) *BuildingController {
	return &BuildingController{buildings: buildings}
}

// GetBuildings handles GET /api/buildings (public).
func (bc *BuildingController) GetBuildings(c *gin.Context) {
	buildings, err := bc.buildings.ListBuildings(c.Request.Context())
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, buildings)
}

// GetBuilding handles GET /api/buildings/:id (public).
func (bc *BuildingController) GetBuilding(c *gin.Context) {
	building, err := bc.buildings.GetBuilding(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, building)
}

// CreateBuilding handles POST /api/buildings (protected).
func (bc *BuildingController) CreateBuilding(c *gin.Context) {
	var building models.Building
	if err := c.ShouldBindJSON(&building); err != nil {
		utils.JSONError(c, http.StatusBadRequest, "Invalid request payload")
		return
	}

	created, err := bc.buildings.CreateBuilding(c.Request.Context(), &building)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusCreated, created)
}

// UpdateBuilding handles PUT /api/buildings/:id (protected). The floors array
// is rejected here; floor mutation has its own endpoints.
func (bc *BuildingController) UpdateBuilding(c *gin.Context) {
	var upd models.BuildingUpdate
	if err := c.ShouldBindJSON(&upd); err != nil {
		utils.JSONError(c, http.StatusBadRequest, "Invalid request payload")
		return
	}

	building, err := bc.buildings.UpdateBuilding(c.Request.Context(), c.Param("id"), upd)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, building)
}

// DeleteBuilding handles DELETE /api/buildings/:id (protected). Embedded
// floors are removed with the building.
func (bc *BuildingController) DeleteBuilding(c *gin.Context) {
	if err := bc.buildings.DeleteBuilding(c.Request.Context(), c.Param("id")); err != nil {
		respondServiceError(c, err)
		return
	}
	utils.JSONMessage(c, http.StatusOK, "Building deleted successfully")
}

// AddFloor handles POST /api/buildings/:id/floors (protected).
func (bc *BuildingController) AddFloor(c *gin.Context) {
	var floor models.Floor
	if err := c.ShouldBindJSON(&floor); err != nil {
		utils.JSONError(c, http.StatusBadRequest, "Invalid request payload")
		return
	}

	building, err := bc.buildings.AddFloor(c.Request.Context(), c.Param("id"), floor)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusCreated, building)
}

// UpdateFloor handles PUT /api/buildings/:id/floors/:floorId (protected).
func (bc *BuildingController) UpdateFloor(c *gin.Context) {
	var fields map[string]any
	if err := c.ShouldBindJSON(&fields); err != nil {
		utils.JSONError(c, http.StatusBadRequest, "Invalid request payload")
		return
	}

	building, err := bc.buildings.UpdateFloor(c.Request.Context(), c.Param("id"), c.Param("floorId"), fields)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, building)
}

// DeleteFloor handles DELETE /api/buildings/:id/floors/:floorId (protected).
func (bc *BuildingController) DeleteFloor(c *gin.Context) {
	building, err := bc.buildings.DeleteFloor(c.Request.Context(), c.Param("id"), c.Param("floorId"))
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, building)
}
