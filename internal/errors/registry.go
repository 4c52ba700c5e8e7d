package errors

// ErrorTemplate defines a registered error type.
type ErrorTemplate struct {
	Category Category
	Message  string
	Detail   string
	DocURL   string
}

// registry maps error codes to their templates.
var registry = map[string]ErrorTemplate{
	// ============================================
	// Config Errors (E001-E019)
	// ============================================

	"E001": {
		Category: CategoryConfig,
		Message:  "Invalid config file",
		Detail:   "The configuration file is malformed JSON.",
		DocURL:   "https://vtree.dev/docs/errors/E001",
	},
	"E002": {
		Category: CategoryConfig,
		Message:  "Missing required configuration",
		Detail:   "A required configuration value is not set.",
		DocURL:   "https://vtree.dev/docs/errors/E002",
	},
	"E003": {
		Category: CategoryConfig,
		Message:  "Invalid port number",
		Detail:   "The configured transport port is invalid or already in use.",
		DocURL:   "https://vtree.dev/docs/errors/E003",
	},
	"E004": {
		Category: CategoryConfig,
		Message:  "Invalid snapshot store configuration",
		Detail:   "The snapshot store backend is set to s3 but the bucket or region is missing.",
		DocURL:   "https://vtree.dev/docs/errors/E004",
	},
	"E005": {
		Category: CategoryConfig,
		Message:  "Invalid log level",
		Detail:   "The configured log level is not one of debug, info, warn, error.",
		DocURL:   "https://vtree.dev/docs/errors/E005",
	},

	// ============================================
	// Codec Errors (E020-E039)
	// ============================================

	"E020": {
		Category: CategoryCodec,
		Message:  "Malformed node payload",
		Detail:   "The JSON payload could not be decoded into a Node.",
		DocURL:   "https://vtree.dev/docs/errors/E020",
	},
	"E021": {
		Category: CategoryCodec,
		Message:  "Unknown node kind",
		Detail:   "The node's \"kind\" field was not \"Element\" or \"Text\".",
		DocURL:   "https://vtree.dev/docs/errors/E021",
	},
	"E022": {
		Category: CategoryCodec,
		Message:  "Unknown patch op kind",
		Detail:   "The NodeOp's \"kind\" field did not match any known operation.",
		DocURL:   "https://vtree.dev/docs/errors/E022",
	},

	// ============================================
	// Transport Errors (E040-E059)
	// ============================================

	"E040": {
		Category: CategoryTransport,
		Message:  "Missing document ID",
		Detail:   "The request did not include a document ID (the \"doc\" query parameter or the \"docID\" body field).",
		DocURL:   "https://vtree.dev/docs/errors/E040",
	},
	"E041": {
		Category: CategoryTransport,
		Message:  "WebSocket upgrade failed",
		Detail:   "The HTTP connection could not be upgraded to a WebSocket.",
		DocURL:   "https://vtree.dev/docs/errors/E041",
	},
	"E042": {
		Category: CategoryTransport,
		Message:  "Request body too large",
		Detail:   "The request body exceeded the configured maximum size.",
		DocURL:   "https://vtree.dev/docs/errors/E042",
	},
	"E043": {
		Category: CategoryTransport,
		Message:  "Unsupported method",
		Detail:   "The endpoint does not support the request's HTTP method.",
		DocURL:   "https://vtree.dev/docs/errors/E043",
	},

	// ============================================
	// Snapshot Errors (E060-E079)
	// ============================================

	"E060": {
		Category: CategorySnapshot,
		Message:  "Document not found",
		Detail:   "No snapshot exists yet for the requested document ID.",
		DocURL:   "https://vtree.dev/docs/errors/E060",
	},
	"E061": {
		Category: CategorySnapshot,
		Message:  "Snapshot store unavailable",
		Detail:   "The snapshot store backend (memory or S3) could not be reached.",
		DocURL:   "https://vtree.dev/docs/errors/E061",
	},
	"E062": {
		Category: CategorySnapshot,
		Message:  "Snapshot decode failed",
		Detail:   "A stored snapshot could not be decoded back into a Node tree.",
		DocURL:   "https://vtree.dev/docs/errors/E062",
	},

	// ============================================
	// CLI Errors (E080-E099)
	// ============================================

	"E080": {
		Category: CategoryCLI,
		Message:  "Input file not found",
		Detail:   "The JSON file passed to the command does not exist.",
		DocURL:   "https://vtree.dev/docs/errors/E080",
	},
	"E081": {
		Category: CategoryCLI,
		Message:  "Invalid flag combination",
		Detail:   "The command was invoked with flags that cannot be combined.",
		DocURL:   "https://vtree.dev/docs/errors/E081",
	},
	"E082": {
		Category: CategoryCLI,
		Message:  "Invalid output format",
		Detail:   "The --format flag must be one of json, text.",
		DocURL:   "https://vtree.dev/docs/errors/E082",
	},
}

// GetAllCodes returns all registered error codes.
func GetAllCodes() []string {
	codes := make([]string, 0, len(registry))
	for code := range registry {
		codes = append(codes, code)
	}
	return codes
}

// GetTemplate returns the template for an error code.
func GetTemplate(code string) (ErrorTemplate, bool) {
	t, ok := registry[code]
	return t, ok
}

// Register adds a new error template to the registry.
func Register(code string, template ErrorTemplate) {
	registry[code] = template
}
