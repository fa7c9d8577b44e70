package controllers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"building-backend/services"
	"building-backend/utils"
)

// respondServiceError maps service errors onto the HTTP error taxonomy.
// Anything uncategorized becomes a generic 500; internals are logged, never
// sent to the caller.
func respondServiceError(c *gin.Context, err error) {
	var ve *services.ValidationError
	switch {
	case errors.As(err, &ve):
		utils.JSONError(c, http.StatusBadRequest, ve.Message)
	case errors.Is(err, services.ErrBuildingNotFound):
		utils.JSONError(c, http.StatusNotFound, "Building not found")
	case errors.Is(err, services.ErrFloorNotFound):
		utils.JSONError(c, http.StatusNotFound, "Floor not found")
	case errors.Is(err, services.ErrDuplicateBuildingID):
		utils.JSONError(c, http.StatusBadRequest, "Building with this id already exists")
	case errors.Is(err, services.ErrAdminExists):
		utils.JSONError(c, http.StatusBadRequest, "Admin already exists")
	case errors.Is(err, services.ErrInvalidCredentials):
		utils.JSONError(c, http.StatusUnauthorized, "Invalid credentials")
	case errors.Is(err, services.ErrUploadFailed):
		utils.Logger.WithError(err).Error("floor map upload failed")
		utils.JSONError(c, http.StatusInternalServerError, "Failed to upload floor map")
	default:
		utils.Logger.WithError(err).Error("request failed")
		utils.JSONError(c, http.StatusInternalServerError, "Server error")
	}
}
