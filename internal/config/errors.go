package config

const (
	// Database errors
	ErrInitializeDatabaseFmt = "Failed to initialize database: %v"

	// Storage errors
	ErrUnknownStorageDriverFmt = "unknown storage driver %q"
	ErrUnknownUploadDriverFmt  = "unknown upload driver %q"

	// AI errors
	ErrCreateGatewayFmt = "Failed to create AI gateway: %v"

	// Config errors
	ErrWriteConfigContentFmt = "Failed to write config content: %v"
)
