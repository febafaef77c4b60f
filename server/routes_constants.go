package server

// Route path constants
// All application routes are defined here to ensure consistency and prevent typos
const (
	// User Routes - Login, Refresh & Logout
	RouteUsersLogin   = "/api/users/login"
	RouteUsersRefresh = "/api/users/refresh"
	RouteUsersLogout  = "/api/users/logout"
	RouteUsersProfile = "/api/users/profile"

	// Catalogue Routes
	RouteProducts = "/api/products"
	RouteProduct  = "/api/products/{id}"

	// Order Routes
	RouteOrders   = "/api/orders"
	RouteMyOrders = "/api/orders/mine"

	// Operational Routes
	RouteHealth  = "/health"
	RouteMetrics = "/metrics"
)
