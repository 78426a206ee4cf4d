package api

import "strings"

// Endpoint paths for the storefront backend.
// All backend operations are defined here to ensure consistency and prevent typos.
const (
	// Public endpoints - reachable without a session
	EndpointLogin          = "/login"
	EndpointRegister       = "/register"
	EndpointForgotPassword = "/forgot-password"
	EndpointResetPassword  = "/reset-password"

	// Account endpoints
	EndpointUserHome           = "/api/user/home"
	EndpointUserInfo           = "/api/user/userinfo"
	EndpointUserLogout         = "/api/user/logout"
	EndpointChangePassword     = "/api/user/changepassword"
	EndpointDeleteAccount      = "/api/user/accountdeletion"
	EndpointAdminHome          = "/api/admin/home"
	EndpointAdminInfo          = "/api/admin/admininfo"
	EndpointAdminDeleteAccount = "/api/admin/accountdeletion"

	// Cart endpoints
	EndpointCartItems      = "/api/user/getcartitem"
	EndpointAddToCart      = "/api/user/addtocart"
	EndpointUpdateQuantity = "/api/user/updatequantity"
	EndpointDeleteCartItem = "/api/user/deletecartitem"

	// Order endpoints
	EndpointFetchOrders = "/api/user/fetchorder"
	EndpointCancelOrder = "/api/user/cancelorder" // + /{orderID}

	// Product endpoints
	EndpointProductDetails = "/api/products/details" // + /{productID}
	EndpointProductImage   = "/api/products/image"   // + /{productID}
)

// publicEndpoints lists the operations reachable without a valid session.
// A request to any of these must never carry a credential, so a stale
// session cannot contaminate a login or registration attempt.
var publicEndpoints = []string{
	EndpointLogin,
	EndpointRegister,
	EndpointForgotPassword,
	EndpointResetPassword,
}

// IsPublicEndpoint reports whether the request path belongs to the public
// allow-list. Matching is substring-based, mirroring the contract the
// backend was built against.
func IsPublicEndpoint(path string) bool {
	for _, p := range publicEndpoints {
		if strings.Contains(path, p) {
			return true
		}
	}
	return false
}
