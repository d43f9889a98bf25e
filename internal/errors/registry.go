package errors

import "sort"

// ErrorTemplate defines a registered error type.
type ErrorTemplate struct {
	Category   Category
	Message    string
	Detail     string
	Suggestion string
}

// registry maps error codes to their templates.
var registry = map[string]ErrorTemplate{
	// Scheduler (R001-R009)
	"R001": {
		Category:   CategoryScheduler,
		Message:    "Maximum recursive updates exceeded",
		Detail:     "A reactive effect is mutating its own dependencies and thus recursively triggering itself.",
		Suggestion: "Check component render functions, post-update hooks and watcher sources for writes to state they read.",
	},
	"R002": {
		Category: CategoryScheduler,
		Message:  "Scheduler job panicked",
	},
	"R003": {
		Category: CategoryScheduler,
		Message:  "Post-flush callback panicked",
	},

	// Render (R010-R019)
	"R010": {
		Category: CategoryRender,
		Message:  "Render function panicked",
	},
	"R011": {
		Category: CategoryRender,
		Message:  "Component setup panicked",
	},
	"R012": {
		Category: CategoryRender,
		Message:  "Lifecycle hook panicked",
	},
	"R013": {
		Category: CategoryRender,
		Message:  "Component update panicked",
	},

	// Watch (R020-R029)
	"R020": {
		Category: CategoryWatch,
		Message:  "Watcher getter panicked",
	},
	"R021": {
		Category: CategoryWatch,
		Message:  "Watcher callback panicked",
	},
	"R022": {
		Category: CategoryWatch,
		Message:  "Watcher cleanup panicked",
	},

	// Reactivity (R030-R039)
	"R030": {
		Category: CategoryReactivity,
		Message:  "Effect scope stopped",
		Detail:   "Cannot run an inactive effect scope.",
	},
	"R031": {
		Category: CategoryReactivity,
		Message:  "Application error handler panicked",
	},

	// Config (C001-C009)
	"C001": {
		Category:   CategoryConfig,
		Message:    "Invalid configuration file",
		Suggestion: "Check reactor.toml for syntax errors.",
	},
	"C002": {
		Category: CategoryConfig,
		Message:  "Invalid configuration value",
	},

	// CLI (X001-X009)
	"X001": {
		Category: CategoryCLI,
		Message:  "Invalid diff scenario",
	},
	"X002": {
		Category:   CategoryCLI,
		Message:    "Report upload failed",
		Suggestion: "Check the s3:// URL, AWS credentials and region.",
	},
}

// GetAllCodes returns all registered error codes in sorted order.
func GetAllCodes() []string {
	codes := make([]string, 0, len(registry))
	for code := range registry {
		codes = append(codes, code)
	}
	sort.Strings(codes)
	return codes
}

// GetTemplate returns the template for an error code.
func GetTemplate(code string) (ErrorTemplate, bool) {
	t, ok := registry[code]
	return t, ok
}

// Register adds a custom error template.
func Register(code string, template ErrorTemplate) {
	registry[code] = template
}
