package handler

import (
	"net/http"

	"github.com/avilchez/commerce-insights-api/infrastructure/artifact"
	"github.com/avilchez/commerce-insights-api/infrastructure/repository"
	"github.com/avilchez/commerce-insights-api/internal/api/handler/router"
	"github.com/avilchez/commerce-insights-api/internal/usecases/authenticating"
	"github.com/avilchez/commerce-insights-api/internal/usecases/processing"
	"github.com/avilchez/commerce-insights-api/pkg/middleware"
)

func Healthcheck() []router.Route {
	return []router.Route{
		{
			Path:    "/healthcheck",
			Method:  http.MethodGet,
			Handler: HealthcheckHandler(),
		},
	}
}

func Authentication(service authenticating.Authenticator) []router.Route {
	return []router.Route{
		{
			Path:    "/v1/login",
			Method:  http.MethodPost,
			Handler: Login(service),
		},
	}
}

func Pipeline(processor processing.Processor) []router.Route {
	return []router.Route{
		{
			Path:        "/v1/pipeline/run",
			Method:      http.MethodPost,
			Handler:     RunPipeline(processor),
			Middlewares: []func(http.Handler) http.Handler{middleware.AdminOnly()},
		},
		{
			Path:        "/v1/pipeline/sample",
			Method:      http.MethodPost,
			Handler:     RunSample(processor),
			Middlewares: []func(http.Handler) http.Handler{middleware.AdminOnly()},
		},
		{
			Path:        "/v1/pipeline/status",
			Method:      http.MethodGet,
			Handler:     PipelineStatus(processor),
			Middlewares: []func(http.Handler) http.Handler{middleware.AllRoles()},
		},
	}
}

func Results(store artifact.Store, processor processing.Processor, runs repository.AnalysisRunRepository) []router.Route {
	return []router.Route{
		{
			Path:        "/v1/runs",
			Method:      http.MethodGet,
			Handler:     GetRuns(runs),
			Middlewares: []func(http.Handler) http.Handler{middleware.AllRoles()},
		},
		{
			// httprouter não aceita rota estática sob o mesmo segmento de
			// /v1/results/:name, então o resumo vive em /v1/summary
			Path:        "/v1/summary",
			Method:      http.MethodGet,
			Handler:     GetSummary(processor),
			Middlewares: []func(http.Handler) http.Handler{middleware.AllRoles()},
		},
		{
			Path:        "/v1/results/:name",
			Method:      http.MethodGet,
			Handler:     GetArtifact(store),
			Middlewares: []func(http.Handler) http.Handler{middleware.AllRoles()},
		},
	}
}
