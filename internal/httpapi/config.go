package httpapi

// maxBodyBytes controls the maximum allowed request body size for JSON endpoints.
var maxBodyBytes int64 = 1 << 20

// SetMaxBodyBytes allows configuring the maximum request body size.
func SetMaxBodyBytes(n int64) {
	if n <= 0 {
		maxBodyBytes = 1 << 20
		return
	}
	maxBodyBytes = n
}

// uploadMaxBytes bounds multipart image uploads.
var uploadMaxBytes int64 = 20 << 20

// SetUploadMaxBytes configures the multipart upload limit. Non-positive values restore 20 MiB.
func SetUploadMaxBytes(n int64) {
	if n <= 0 {
		uploadMaxBytes = 20 << 20
		return
	}
	uploadMaxBytes = n
}

// requestTimeout bounds how long a model-backed request may run.
// Zero means no additional timeout beyond server/connection timeouts.
var requestTimeout = int64(0) // seconds

// SetRequestTimeoutSeconds sets the per-request timeout in seconds (0 disables).
func SetRequestTimeoutSeconds(sec int64) {
	if sec < 0 {
		sec = 0
	}
	requestTimeout = sec
}

// CORS configuration (opt-in). If disabled, no CORS middleware is added.
var (
	corsEnabled        bool
	corsAllowedOrigins []string
	corsAllowedMethods []string
	corsAllowedHeaders []string
)

// SetCORSOptions configures CORS behavior for the HTTP server.
func SetCORSOptions(enabled bool, origins, methods, headers []string) {
	corsEnabled = enabled
	corsAllowedOrigins = append([]string(nil), origins...)
	corsAllowedMethods = append([]string(nil), methods...)
	corsAllowedHeaders = append([]string(nil), headers...)
}
