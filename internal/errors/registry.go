package errors

// ErrorTemplate defines a registered error type.
type ErrorTemplate struct {
	Category Category
	Message  string
}

// Registered codes.
const (
	CodeMalformedTemplate    = "E001"
	CodeComponentNotFound    = "E002"
	CodeDuplicateComponentID = "E003"
	CodeExpressionFailure    = "E004"
	CodeUnknownComponentKind = "E005"
	CodeRecursionLimit       = "E006"
	CodeComponentCycle       = "E007"

	CodeConfigInvalid  = "E120"
	CodeConfigNotFound = "E121"
	CodeConfigPort     = "E122"
	CodeConfigValue    = "E123"

	CodeTemplateNotFound = "E140"
	CodeDataFile         = "E141"
	CodeServe            = "E142"
)

// registry maps error codes to their templates.
var registry = map[string]ErrorTemplate{
	// Template and component errors (E001-E019)
	CodeMalformedTemplate: {
		Category: CategoryTemplate,
		Message:  "Malformed template",
	},
	CodeComponentNotFound: {
		Category: CategoryComponent,
		Message:  "Component not found",
	},
	CodeDuplicateComponentID: {
		Category: CategoryComponent,
		Message:  "Duplicate component id",
	},
	CodeExpressionFailure: {
		Category: CategoryRender,
		Message:  "Expression evaluation failed",
	},
	CodeUnknownComponentKind: {
		Category: CategoryTemplate,
		Message:  "Unknown component kind",
	},
	CodeRecursionLimit: {
		Category: CategoryComponent,
		Message:  "Component nesting too deep",
	},
	CodeComponentCycle: {
		Category: CategoryComponent,
		Message:  "Component cycle detected",
	},

	// Configuration errors (E120-E139)
	CodeConfigInvalid: {
		Category: CategoryConfig,
		Message:  "Invalid configuration file",
	},
	CodeConfigNotFound: {
		Category: CategoryConfig,
		Message:  "Configuration file not found",
	},
	CodeConfigPort: {
		Category: CategoryConfig,
		Message:  "Invalid port",
	},
	CodeConfigValue: {
		Category: CategoryConfig,
		Message:  "Invalid configuration value",
	},

	// CLI errors (E140-E159)
	CodeTemplateNotFound: {
		Category: CategoryCLI,
		Message:  "Template not found",
	},
	CodeDataFile: {
		Category: CategoryCLI,
		Message:  "Invalid data file",
	},
	CodeServe: {
		Category: CategoryCLI,
		Message:  "Server failed",
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
