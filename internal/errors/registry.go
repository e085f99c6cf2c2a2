package errors

// ErrorTemplate defines a registered error type.
type ErrorTemplate struct {
	Category Category
	Message  string
	Detail   string
}

// registry maps error codes to their templates.
var registry = map[string]ErrorTemplate{
	// ============================================
	// Parse Errors (B100-B199)
	// ============================================

	"B100": {
		Category: CategoryParse,
		Message:  "Empty directive",
		Detail:   "A binding attribute must name at least one reference.",
	},
	"B101": {
		Category: CategoryParse,
		Message:  "Empty reference name",
		Detail:   "A multivalue expression contains an empty participant, e.g. \"a++b\" or a trailing separator.",
	},
	"B102": {
		Category: CategoryParse,
		Message:  "Unknown calculation",
		Detail:   "The calculation named after the calc separator is not registered.",
	},
	"B103": {
		Category: CategoryParse,
		Message:  "Empty calculation name",
		Detail:   "The calc separator must be followed by the name of a registered calculation.",
	},
	"B104": {
		Category: CategoryParse,
		Message:  "Unsupported scope value",
		Detail:   "A b-iter scope must resolve to an ordered collection.",
	},

	// ============================================
	// Invocation Errors (B200-B299)
	// ============================================

	"B200": {
		Category: CategoryInvocation,
		Message:  "Reference is not callable",
		Detail:   "Call requires the reference to hold a function value.",
	},
	"B201": {
		Category: CategoryInvocation,
		Message:  "Invalid call arguments",
		Detail:   "The arguments do not match the function's parameters.",
	},

	// ============================================
	// Config Errors (B300-B399)
	// ============================================

	"B300": {
		Category: CategoryConfig,
		Message:  "Invalid config file",
		Detail:   "The configuration file could not be read or parsed.",
	},
	"B301": {
		Category: CategoryConfig,
		Message:  "Invalid port",
		Detail:   "Port must be between 0 and 65535.",
	},
	"B302": {
		Category: CategoryConfig,
		Message:  "Conflicting directive names",
		Detail:   "Directive attribute names and suffixes must be distinct and non-empty.",
	},

	// ============================================
	// CLI Errors (B400-B499)
	// ============================================

	"B400": {
		Category: CategoryCLI,
		Message:  "Cannot read template",
		Detail:   "The template file could not be opened or parsed as HTML.",
	},
	"B401": {
		Category: CategoryCLI,
		Message:  "Cannot read data",
		Detail:   "The data file must be a JSON or YAML object.",
	},
	"B402": {
		Category: CategoryCLI,
		Message:  "Invalid operation",
		Detail:   "Live operations are set, delete, react, call, push, pop, splice and move.",
	},

	// ============================================
	// Publish Errors (B500-B599)
	// ============================================

	"B500": {
		Category: CategoryPublish,
		Message:  "Publish failed",
		Detail:   "The rendered snapshot could not be stored.",
	},
	"B501": {
		Category: CategoryPublish,
		Message:  "Invalid publish target",
		Detail:   "Targets are s3://bucket/key or a local file path.",
	},
}

// Lookup returns the template registered for code.
func Lookup(code string) (ErrorTemplate, bool) {
	t, ok := registry[code]
	return t, ok
}
