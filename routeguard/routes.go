package routeguard

// View route constants
// All navigable views are defined here to ensure consistency and prevent typos.
const (
	// Public views
	RouteLogin          = "/login"
	RouteRegister       = "/register"
	RouteForgotPassword = "/forgot-password"
	RouteResetPassword  = "/reset-password"

	// Shopper views
	RouteWelcome        = "/welcome"
	RouteUserInfo       = "/userinfo"
	RouteCart           = "/cart"
	RouteOrders         = "/orders"
	RouteChangePassword = "/changepassword"
	RouteDeleteAccount  = "/delete-account"

	// Admin views
	RouteAdminHome          = "/admin"
	RouteAdminProfile       = "/admin/profile"
	RouteAdminProducts      = "/admin/products"
	RouteAdminOrders        = "/admin/orders"
	RouteAdminDeleteAccount = "/admin/delete-account"
)
