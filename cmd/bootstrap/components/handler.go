package components

import (
	"expo-booth-service/internal/handler"
	"expo-booth-service/internal/handler/api"
	"expo-booth-service/internal/handler/middleware"

	"go.uber.org/fx"
)

var HandlerModule = fx.Module("handler",
	fx.Provide(
		api.NewBoothHandler,
		api.NewReservationHandler,
		middleware.NewAuthMiddleware,
	),
	fx.Invoke(handler.NewRouter),
)
