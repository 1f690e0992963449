package router

import (
	"stayRank/internal/rest"

	"github.com/labstack/echo/v4"
)

func SetupInferenceRoutes(api *echo.Group, handler *rest.InferenceHandler, curation *rest.CurationHandler) {
	inference := api.Group("/inference")

	inference.POST("/start", handler.Start)
	inference.GET("/status/:task_id", handler.Status)
	inference.GET("/results/:task_id", curation.Results)
	inference.PUT("/select", curation.Select)
}

func SetupTrainingRoutes(api *echo.Group, handler *rest.TrainingHandler, adminOnly echo.MiddlewareFunc) {
	train := api.Group("/train")

	train.POST("/start", handler.Start, adminOnly)
	train.GET("/status/:task_id", handler.Status)

	api.GET("/models", handler.Models, adminOnly)
}

func SetupContentRoutes(api *echo.Group, handler *rest.CurationHandler) {
	content := api.Group("/content")

	content.GET("/info", handler.Info)
	content.GET("/location/:id", handler.GetLocation)
	content.GET("/locations", handler.GetLocations)
	content.GET("/user/:id", handler.GetUser)
	content.GET("/users", handler.GetUsers)
	content.GET("/result/:id", handler.GetResult)
	content.GET("/results/:task_id", handler.GetResults)
}
