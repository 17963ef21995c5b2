package adminapi

// InitRouter registers every admin api route. Call after webserver.Init.
func InitRouter() {
	registerAuthRoutes()
	registerProductRoutes()
	registerLocaleRoutes()
	registerMetricsRoutes()
}
