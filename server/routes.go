package server

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus/promhttp"
)

func (s *Server) initRoutes() {
	// USERS
	s.RegisterRouteHandler("POST "+RouteUsersLogin, ChainMiddleware(s.LoginHandler(), s.APIMiddleware(RouteUsersLogin)...))
	s.RegisterRouteHandler("POST "+RouteUsersRefresh, ChainMiddleware(s.RefreshHandler(), s.APIMiddleware(RouteUsersRefresh)...))
	s.RegisterRouteHandler("POST "+RouteUsersLogout, ChainMiddleware(s.LogoutHandler(), s.APIMiddleware(RouteUsersLogout, s.OptionalAuth())...))
	s.RegisterRouteHandler("GET "+RouteUsersProfile, ChainMiddleware(s.ProfileHandler(), s.APIMiddleware(RouteUsersProfile, s.RequireAuth())...))

	// CATALOGUE (public)
	s.RegisterRouteHandler("GET "+RouteProducts, ChainMiddleware(s.ProductsHandler(), s.APIMiddleware(RouteProducts)...))
	s.RegisterRouteHandler("GET "+RouteProduct, ChainMiddleware(s.ProductHandler(), s.APIMiddleware(RouteProduct)...))

	// ORDERS
	s.RegisterRouteHandler("GET "+RouteMyOrders, ChainMiddleware(s.MyOrdersHandler(), s.APIMiddleware(RouteMyOrders, s.RequireAuth())...))
	s.RegisterRouteHandler("GET "+RouteOrders, ChainMiddleware(s.AllOrdersHandler(), s.APIMiddleware(RouteOrders, s.RequireAuth(), s.RequireAdmin())...))

	// Preflight for every API route
	s.RegisterRouteHandler("OPTIONS /api/", ChainMiddleware(func(w http.ResponseWriter, r *http.Request) {}, s.CorsMiddleware))

	s.RegisterRouteFunc("GET "+RouteHealth, s.HealthHandler())
	s.RegisterRouteHandler("GET "+RouteMetrics, promhttp.HandlerFor(s.registry, promhttp.HandlerOpts{}))
}
