package catalog

import (
	"errors"
	"net/http"
	"strconv"

	"villagestay/internal/pkg/response"

	"github.com/gin-gonic/gin"
)

type Handler struct {
	service *Service
}

func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// RegisterPublicRoutes wires the browse/search endpoints.
func (h *Handler) RegisterPublicRoutes(rg *gin.RouterGroup) {
	rg.GET("/packages", h.ListPackages)
	rg.GET("/packages/:id", h.GetPackage)
}

// RegisterAdminRoutes wires catalog management (admin role required).
func (h *Handler) RegisterAdminRoutes(rg *gin.RouterGroup) {
	rg.POST("/packages", h.CreatePackage)
	rg.PUT("/packages/:id", h.UpdatePackage)
	rg.DELETE("/packages/:id", h.DeletePackage)
	rg.POST("/packages/reconcile-earnings", h.ReconcileEarnings)
}

func (h *Handler) ListPackages(c *gin.Context) {
	var q ListPackagesQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid query parameters")
		return
	}

	pkgs, total, err := h.service.List(c.Request.Context(), q)
	if err != nil {
		response.Error(c, http.StatusServiceUnavailable, "STORAGE_UNAVAILABLE", "Failed to list packages")
		return
	}
	response.Success(c, http.StatusOK, gin.H{"packages": pkgs, "total": total})
}

func (h *Handler) GetPackage(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		response.Error(c, http.StatusBadRequest, "INVALID_ID", "Invalid package ID")
		return
	}

	p, err := h.service.GetByID(c.Request.Context(), id)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			response.Error(c, http.StatusNotFound, "PACKAGE_NOT_FOUND", "Package not found")
			return
		}
		response.Error(c, http.StatusServiceUnavailable, "STORAGE_UNAVAILABLE", "Failed to load package")
		return
	}
	response.Success(c, http.StatusOK, gin.H{"package": p})
}

func (h *Handler) CreatePackage(c *gin.Context) {
	var req PackageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid request body")
		return
	}

	p, err := h.service.Create(c.Request.Context(), req)
	if err != nil {
		h.writeError(c, err, "Failed to create package")
		return
	}
	response.Success(c, http.StatusCreated, gin.H{"package": p})
}

func (h *Handler) UpdatePackage(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		response.Error(c, http.StatusBadRequest, "INVALID_ID", "Invalid package ID")
		return
	}

	var req PackageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid request body")
		return
	}

	p, err := h.service.Update(c.Request.Context(), id, req)
	if err != nil {
		h.writeError(c, err, "Failed to update package")
		return
	}
	response.Success(c, http.StatusOK, gin.H{"package": p})
}

func (h *Handler) DeletePackage(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		response.Error(c, http.StatusBadRequest, "INVALID_ID", "Invalid package ID")
		return
	}

	if err := h.service.Delete(c.Request.Context(), id); err != nil {
		h.writeError(c, err, "Failed to delete package")
		return
	}
	response.Message(c, http.StatusOK, "Package deleted")
}

func (h *Handler) ReconcileEarnings(c *gin.Context) {
	updated, err := h.service.ReconcileVillageEarnings(c.Request.Context())
	if err != nil {
		response.Error(c, http.StatusServiceUnavailable, "STORAGE_UNAVAILABLE", "Failed to reconcile village earnings")
		return
	}
	response.Success(c, http.StatusOK, gin.H{"packages_updated": updated})
}

func (h *Handler) writeError(c *gin.Context, err error, fallback string) {
	switch {
	case errors.Is(err, ErrValidation):
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid package data")
	case errors.Is(err, ErrDuplicateName):
		response.Error(c, http.StatusConflict, "DUPLICATE_NAME", "A package with this name already exists")
	case errors.Is(err, ErrNotFound):
		response.Error(c, http.StatusNotFound, "PACKAGE_NOT_FOUND", "Package not found")
	default:
		response.Error(c, http.StatusServiceUnavailable, "STORAGE_UNAVAILABLE", fallback)
	}
}
