package main

import (
	"github.com/grailbio/base/log"
	"github.com/labstack/echo"
	"github.com/labstack/echo/middleware"

	"variantstore/api/contexts"
	gam "variantstore/api/middleware"
	"variantstore/api/models"
	dataTypesMvc "variantstore/api/mvc/data-types"
	ingestionMvc "variantstore/api/mvc/ingestion"
	serviceInfoMvc "variantstore/api/mvc/service-info"
	variantsMvc "variantstore/api/mvc/variants"
	workflowsMvc "variantstore/api/mvc/workflows"
	"variantstore/api/services"
	"variantstore/api/services/sanitation"
	variantsService "variantstore/api/services/variants"
)

func serve(env *environment) error {
	// Service Singletons
	iz := services.NewIngestionService(env.store, env.cfg, env.runtime, env.samples)
	vs := variantsService.NewVariantService(env.cfg, env.store)
	ss := sanitation.NewSanitationService(env.cfg, iz)
	defer ss.Stop()

	e := newServer(env.cfg, env.samples, iz, vs)

	log.Printf("Running on Port : %s", env.cfg.Api.Port)
	return e.Start(":" + env.cfg.Api.Port)
}

func newServer(cfg *models.Config, samples map[string]*models.Sample, iz *services.IngestionService, vs *variantsService.VariantService) *echo.Echo {
	e := echo.New()

	e.Use(middleware.Recover())
	e.Use(middleware.CORSWithConfig(middleware.CORSConfig{
		AllowOrigins: []string{"*"},
		AllowMethods: []string{echo.GET, echo.PUT, echo.POST, echo.DELETE},
	}))

	// -- Override handlers with the custom context
	//		to be able to provide variables and global singletons
	e.Use(func(h echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			cc := &contexts.IngestContext{
				Context:          c,
				Config:           cfg,
				Samples:          samples,
				IngestionService: iz,
				VariantService:   vs,
			}
			return h(cc)
		}
	})

	// -- Root
	e.GET("/", serviceInfoMvc.GetWelcome)
	e.GET("/service-info", serviceInfoMvc.GetServiceInfo)

	// -- Data-Types
	e.GET("/data-types", dataTypesMvc.GetDataTypes)
	e.GET("/data-types/variant/schema", dataTypesMvc.GetVariantDataTypeSchema)
	e.GET("/data-types/coverage/schema", dataTypesMvc.GetCoverageDataTypeSchema)

	// -- Samples
	e.GET("/samples", variantsMvc.GetSamples)
	e.GET("/samples/:sample/counts", variantsMvc.GetSampleCounts,
		// middleware
		gam.MandateSampleAttribute)

	e.GET("/samples/ingestion/run", ingestionMvc.SamplesIngest,
		// middleware
		gam.MandateSampleAttribute,
		gam.MandateIngestionKindAttribute)
	e.GET("/samples/ingestion/requests", ingestionMvc.GetAllIngestionRequests)
	e.GET("/samples/ingestion/requests/:id", ingestionMvc.GetIngestionRequest)
	e.GET("/samples/ingestion/stats", ingestionMvc.IngestionStats)

	// -- Workflows
	e.GET("/workflows", workflowsMvc.WorkflowsGet)

	return e
}
