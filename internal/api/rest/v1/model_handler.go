package v1

import (
	"fmt"
	"net/http"

	"github.com/cynsight/assistivox-ai/internal/domain/models"

	"github.com/gin-gonic/gin"
)

// ModelHandler defines the interface for handling model catalog operations
type ModelHandler interface {
	ListCatalog(ctx *gin.Context)
	ListInstalled(ctx *gin.Context)
	Install(ctx *gin.Context)
}

// modelHandler struct holds the model service
type modelHandler struct {
	modelService models.ModelService
}

// NewModelHandler creates a new ModelHandler
func NewModelHandler(modelService models.ModelService) ModelHandler {
	return &modelHandler{
		modelService: modelService,
	}
}

// ListCatalog fetches the downloadable model catalog with install state
func (handler *modelHandler) ListCatalog(ctx *gin.Context) {
	listResponse := []CatalogEntryResponse{}
	for _, entry := range handler.modelService.Catalog() {
		installed, err := handler.modelService.IsInstalled(ctx, entry.Engine, entry.ID)
		if err != nil {
			ctx.JSON(http.StatusInternalServerError, ErrorResponse{Message: fmt.Sprintf("could not check install state: %v", err)})
			return
		}
		listResponse = append(listResponse, CatalogEntryResponse{
			Engine:      entry.Engine,
			Name:        entry.Name,
			ID:          entry.ID,
			Description: entry.Description,
			SizeMB:      entry.SizeMB,
			Installed:   installed,
		})
	}

	ctx.JSON(http.StatusOK, listResponse)
}

// ListInstalled fetches the models present on disk
func (handler *modelHandler) ListInstalled(ctx *gin.Context) {
	installed, err := handler.modelService.Installed(ctx)
	if err != nil {
		ctx.JSON(http.StatusInternalServerError, ErrorResponse{Message: fmt.Sprintf("could not scan installed models: %v", err)})
		return
	}

	listResponse := []InstalledModelResponse{}
	for _, model := range installed {
		listResponse = append(listResponse, InstalledModelResponse{
			Engine: model.Engine,
			ID:     model.ID,
			Path:   model.Path,
		})
	}

	ctx.JSON(http.StatusOK, listResponse)
}

// Install downloads and unpacks a catalog model
func (handler *modelHandler) Install(ctx *gin.Context) {
	engine := ctx.Param("engine")
	name := ctx.Param("name")

	installed, err := handler.modelService.Install(ctx, engine, name, nil)
	if err != nil {
		ctx.JSON(http.StatusBadRequest, ErrorResponse{Message: fmt.Sprintf("could not install %s model %s: %v", engine, name, err)})
		return
	}

	ctx.JSON(http.StatusCreated, InstalledModelResponse{
		Engine: installed.Engine,
		ID:     installed.ID,
		Path:   installed.Path,
	})
}
