package controllers

import (
	"context"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"

	"building-backend/services"
	"building-backend/utils"
)

// AssetSaver is the upload pipeline as seen from the HTTP layer.
type AssetSaver interface {
	SaveFloorMap(ctx context.Context, data []byte, contentType string) (string, error)
}

// MapOpener streams back a stored floor map. Only the GridFS store variant
// needs this; the local store serves its directory statically.
type MapOpener interface {
	Open(ctx context.Context, name string) (io.ReadCloser, error)
}

type FloorController struct {
	buildings BuildingRepository
	assets    AssetSaver
}

func NewFloorController(buildings BuildingRepository, assets AssetSaver) *FloorController {
	return &FloorController{buildings: buildings, assets: assets}
}

// GetFloor handles GET /api/floors/:floorId (public). Floor ids are only
// unique within one building; this returns the first match across buildings.
func (fc *FloorController) GetFloor(c *gin.Context) {
	lookup, err := fc.buildings.FindFloor(c.Request.Context(), c.Param("floorId"))
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, lookup)
}

// UploadFloorMap handles POST /api/floors/:floorId/upload-map (protected).
// The uploaded image is validated and transformed in memory, persisted to the
// asset store, and then reconciled with the floor through a positional
// map-url update that leaves sibling floors untouched.
func (fc *FloorController) UploadFloorMap(c *gin.Context) {
	floorID := c.Param("floorId")

	fileHeader, err := c.FormFile("map")
	if err != nil {
		utils.JSONError(c, http.StatusBadRequest, "No file uploaded")
		return
	}
	if fileHeader.Size > services.MaxUploadSize {
		utils.JSONError(c, http.StatusBadRequest, "File exceeds the 5MB limit")
		return
	}

	// The floor must exist before anything is written to the asset store.
	if _, err := fc.buildings.FindFloor(c.Request.Context(), floorID); err != nil {
		respondServiceError(c, err)
		return
	}

	file, err := fileHeader.Open()
	if err != nil {
		utils.JSONError(c, http.StatusInternalServerError, "Failed to read upload")
		return
	}
	defer file.Close()

	data, err := io.ReadAll(io.LimitReader(file, services.MaxUploadSize+1))
	if err != nil {
		utils.JSONError(c, http.StatusInternalServerError, "Failed to read upload")
		return
	}
	if len(data) > services.MaxUploadSize {
		utils.JSONError(c, http.StatusBadRequest, "File exceeds the 5MB limit")
		return
	}

	mapURL, err := fc.assets.SaveFloorMap(c.Request.Context(), data, fileHeader.Header.Get("Content-Type"))
	if err != nil {
		respondServiceError(c, err)
		return
	}

	if _, err := fc.buildings.UpdateFloorMapURL(c.Request.Context(), floorID, mapURL); err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Floor map uploaded successfully",
		"mapUrl":  mapURL,
	})
}

// ServeFloorMap handles GET /uploads/floor-maps/:name when the GridFS store
// is active.
func ServeFloorMap(maps MapOpener) gin.HandlerFunc {
	return func(c *gin.Context) {
		stream, err := maps.Open(c.Request.Context(), c.Param("name"))
		if err != nil {
			utils.JSONError(c, http.StatusNotFound, "Floor map not found")
			return
		}
		defer stream.Close()

		c.Header("Content-Type", "image/jpeg")
		c.Status(http.StatusOK)
		if _, err := io.Copy(c.Writer, stream); err != nil {
			utils.Logger.WithError(err).Error("streaming floor map failed")
		}
	}
}
