package application

import "expvar"

// Counters published under /api/debug/vars
var (
	productsCreated  = expvar.NewInt("products_created")
	productCacheHits = expvar.NewInt("product_cache_hits")
	usersRegistered  = expvar.NewInt("users_registered")
	loginsFailed     = expvar.NewInt("logins_failed")
	passwordResets   = expvar.NewInt("password_resets")
	cartItemsAdded   = expvar.NewInt("cart_items_added")
	checkoutSessions = expvar.NewInt("checkout_sessions_created")
)
