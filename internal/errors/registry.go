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
	// Runtime Errors (E001-E009)
	// ============================================

	"E001": {
		Category: CategoryRuntime,
		Message:  "Unknown data key",
		Detail:   "Only keys present in the initial data object can be read or written. Keys cannot be added after the instance is created.",
		DocURL:   "https://vbind.dev/docs/errors/E001",
	},
	"E002": {
		Category: CategoryRuntime,
		Message:  "Observer target detached",
		Detail:   "A bound node was removed from the document. Its binding can no longer be refreshed.",
		DocURL:   "https://vbind.dev/docs/errors/E002",
	},
	"E003": {
		Category: CategoryRuntime,
		Message:  "Refresh failed",
		Detail:   "One or more bindings could not be updated after a data change. Every binding was attempted.",
		DocURL:   "https://vbind.dev/docs/errors/E003",
	},

	// ============================================
	// Template Errors (E010-E019)
	// ============================================

	"E010": {
		Category: CategoryTemplate,
		Message:  "Template references unknown data key",
		Detail:   "An interpolation or v-model names a key that is not in the data object.",
		DocURL:   "https://vbind.dev/docs/errors/E010",
	},
	"E011": {
		Category: CategoryTemplate,
		Message:  "Handler method not found",
		Detail:   "An @event attribute names a method that was not declared in the instance options.",
		DocURL:   "https://vbind.dev/docs/errors/E011",
	},
	"E012": {
		Category: CategoryTemplate,
		Message:  "Malformed handler expression",
		Detail:   `Handlers must be a method name, optionally followed by an argument list: "save" or "add(1, 'x')".`,
		DocURL:   "https://vbind.dev/docs/errors/E012",
	},
	"E013": {
		Category: CategoryTemplate,
		Message:  "Malformed interpolation",
		Detail:   "An interpolation marker is unterminated or empty. Markers look like {{ key }}.",
		DocURL:   "https://vbind.dev/docs/errors/E013",
	},
	"E014": {
		Category: CategoryTemplate,
		Message:  "Mount element not found",
		Detail:   "The el selector did not match any element in the document.",
		DocURL:   "https://vbind.dev/docs/errors/E014",
	},
	"E015": {
		Category: CategoryTemplate,
		Message:  "v-model on unsupported element",
		Detail:   "v-model can only be used on input, textarea and select elements.",
		DocURL:   "https://vbind.dev/docs/errors/E015",
	},

	// ============================================
	// Config Errors (E020-E029)
	// ============================================

	"E020": {
		Category: CategoryConfig,
		Message:  "Invalid configuration",
		Detail:   "The configuration failed validation.",
		DocURL:   "https://vbind.dev/docs/errors/E020",
	},
	"E021": {
		Category: CategoryConfig,
		Message:  "Configuration file unreadable",
		Detail:   "The configuration file exists but could not be read or parsed.",
		DocURL:   "https://vbind.dev/docs/errors/E021",
	},

	// ============================================
	// Source Errors (E030-E039)
	// ============================================

	"E030": {
		Category: CategorySource,
		Message:  "Template source unreadable",
		Detail:   "The template could not be read from its source.",
		DocURL:   "https://vbind.dev/docs/errors/E030",
	},
	"E031": {
		Category: CategorySource,
		Message:  "Invalid data document",
		Detail:   "Data documents must be a JSON object mapping keys to values.",
		DocURL:   "https://vbind.dev/docs/errors/E031",
	},
	"E032": {
		Category: CategorySource,
		Message:  "Unsupported source scheme",
		Detail:   "Sources are file paths, \"-\" for stdin, or s3://bucket/key URLs.",
		DocURL:   "https://vbind.dev/docs/errors/E032",
	},

	// ============================================
	// CLI Errors (E040-E049)
	// ============================================

	"E040": {
		Category: CategoryCLI,
		Message:  "Invalid assignment",
		Detail:   "Assignments are written key=value (for --set) or selector=value (for --input).",
		DocURL:   "https://vbind.dev/docs/errors/E040",
	},
}

// Lookup returns the template registered for code.
func Lookup(code string) (ErrorTemplate, bool) {
	t, ok := registry[code]
	return t, ok
}

// Codes returns all registered error codes.
func Codes() []string {
	codes := make([]string, 0, len(registry))
	for code := range registry {
		codes = append(codes, code)
	}
	return codes
}
