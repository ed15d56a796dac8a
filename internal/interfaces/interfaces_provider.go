package interfaces

import (
	"github.com/google/wire"

	"lingua-server/session-api/internal/interfaces/httpserver"
	"lingua-server/session-api/internal/interfaces/httpserver/handlers"
	"lingua-server/session-api/internal/interfaces/httpserver/routes"
)

// InterfacesProvider provides all interface dependencies.
var InterfacesProvider = wire.NewSet(
	handlers.HandlerProvider,
	routes.RouteProvider,
	httpserver.New,
)
