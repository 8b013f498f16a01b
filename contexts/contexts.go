package contexts

import (
	"variantstore/api/models"
	"variantstore/api/models/constants"
	"variantstore/api/services"
	variantsService "variantstore/api/services/variants"

	"github.com/labstack/echo"
)

type (
	// "Helper" Context to pass into routes that need
	// the service singletons and the run's sample metadata
	IngestContext struct {
		echo.Context
		Config           *models.Config
		Samples          map[string]*models.Sample
		IngestionService *services.IngestionService
		VariantService   *variantsService.VariantService

		// set by middleware
		Sample *models.Sample
		Kind   constants.IngestionKind
	}
)
