package routes

// Routes package cung cấp tất cả routing functions cho Address Normalizer
//
// Cấu trúc:
// - api.go: API routes (/v1/*), health routes, middleware
// - web.go: Web routes (/, /docs)
//
// Sử dụng:
// routes.SetupAllRoutes(router, addressController, adminController, logger)
