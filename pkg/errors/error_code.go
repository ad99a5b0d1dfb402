package errors

// ErrorCode represents a unique error code for identifying different error types.
type ErrorCode int

const (
	// General errors (1-99)
	ErrCodeUnknown ErrorCode = 1

	// Validation errors (100-199)
	ErrCodeInvalidParameter     ErrorCode = 100
	ErrCodeInvalidConfiguration ErrorCode = 101
	ErrCodeInvalidBlendWindow   ErrorCode = 102
	ErrCodeInvalidDateRange     ErrorCode = 103

	// Schema errors (200-299)
	ErrCodeSchema        ErrorCode = 200
	ErrCodeMissingColumn ErrorCode = 201
	ErrCodeInvalidValue  ErrorCode = 202

	// Builder stage errors (300-399)
	ErrCodeRanking       ErrorCode = 300
	ErrCodePairing       ErrorCode = 301
	ErrCodeRollDetection ErrorCode = 302
	ErrCodeBlending      ErrorCode = 303

	// Data source errors (400-499)
	ErrCodeDataSourceUnavailable ErrorCode = 400
	ErrCodeQueryFailed           ErrorCode = 401
	ErrCodeNoDataFound           ErrorCode = 402

	// Writer errors (500-599)
	ErrCodeWriterNotInitialized ErrorCode = 500
	ErrCodeWriteFailed          ErrorCode = 501
	ErrCodeExportFailed         ErrorCode = 502

	// Market reference errors (600-699)
	ErrCodeMarketConfigNotFound ErrorCode = 600
	ErrCodeMarketConfigInvalid  ErrorCode = 601
	ErrCodeMarketNotFound       ErrorCode = 602

	// Signal errors (700-799)
	ErrCodeSignalNotFound      ErrorCode = 700
	ErrCodeSignalAlreadyExists ErrorCode = 701
	ErrCodeSignalCalculation   ErrorCode = 702
)
