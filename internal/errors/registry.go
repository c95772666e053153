package errors

// Registered error codes.
const (
	CodeKindRequired     = "E100"
	CodeNotAKind         = "E101"
	CodeFunctionData     = "E102"
	CodeUnexpectedNode   = "E103"
	CodeUnknownTextMode  = "E104"
	CodeTagInText        = "E105"
	CodeNoParent         = "E106"
	CodeNotAMember       = "E107"
	CodeAlreadyAttached  = "E108"
	CodeNotRendered      = "E109"
	CodeComputationPanic = "E120"
	CodeAttributeUpdate  = "E121"
	CodeRawMarkup        = "E122"
	CodeConfigInvalid    = "E140"
	CodeConfigRead       = "E141"
	CodeTreeDecode       = "E160"
	CodeUnknownComponent = "E161"
	CodePublishFailed    = "E162"
	CodeUnknownVar       = "E163"
)

// ErrorTemplate defines a registered error type.
type ErrorTemplate struct {
	Category Category
	Message  string
	Detail   string
}

// registry maps error codes to their templates.
var registry = map[string]ErrorTemplate{
	// ============================================
	// Contract Errors (E100-E119)
	// ============================================

	CodeKindRequired: {
		Category: CategoryContract,
		Message:  "A component kind is required, not an instance",
		Detail:   "Instances are produced by instantiating a kind and cannot be instantiated or rendered again.",
	},
	CodeNotAKind: {
		Category: CategoryContract,
		Message:  "Expected component kind",
		Detail:   "Only kinds created with component.Define or Kind.Extend can be instantiated.",
	},
	CodeFunctionData: {
		Category: CategoryContract,
		Message:  "Data argument can't be a function",
		Detail:   "RenderWithData wraps its data in a constant accessor; a function value is ambiguous.",
	},
	CodeUnexpectedNode: {
		Category: CategoryContract,
		Message:  "Unexpected node in content tree",
	},
	CodeUnknownTextMode: {
		Category: CategoryContract,
		Message:  "Unknown text mode",
	},
	CodeTagInText: {
		Category: CategoryContract,
		Message:  "Can't insert tags in attributes or TEXTAREA elements",
	},
	CodeNoParent: {
		Category: CategoryContract,
		Message:  "Materialization parent required",
	},
	CodeNotAMember: {
		Category: CategoryContract,
		Message:  "Reference unit is not a member of this range",
	},
	CodeAlreadyAttached: {
		Category: CategoryContract,
		Message:  "Range is already attached",
		Detail:   "A range can be inserted into one parent only.",
	},
	CodeNotRendered: {
		Category: CategoryContract,
		Message:  "Expected an instance rendered with Engine.Render",
	},

	// ============================================
	// Runtime Errors (E120-E139)
	// ============================================

	CodeComputationPanic: {
		Category: CategoryRuntime,
		Message:  "Computation panicked",
	},
	CodeAttributeUpdate: {
		Category: CategoryRuntime,
		Message:  "Attribute update failed",
		Detail:   "The element's attributes may be partially applied.",
	},
	CodeRawMarkup: {
		Category: CategoryRuntime,
		Message:  "Raw markup could not be parsed",
	},

	// ============================================
	// Config Errors (E140-E159)
	// ============================================

	CodeConfigInvalid: {
		Category: CategoryConfig,
		Message:  "Invalid configuration",
	},
	CodeConfigRead: {
		Category: CategoryConfig,
		Message:  "Configuration file could not be read",
	},

	// ============================================
	// CLI Errors (E160-E179)
	// ============================================

	CodeTreeDecode: {
		Category: CategoryCLI,
		Message:  "Content tree document is invalid",
	},
	CodeUnknownComponent: {
		Category: CategoryCLI,
		Message:  "Unknown component",
	},
	CodePublishFailed: {
		Category: CategoryCLI,
		Message:  "Publishing rendered output failed",
	},
	CodeUnknownVar: {
		Category: CategoryCLI,
		Message:  "Unknown tree variable",
		Detail:   "Declare the variable under vars in the tree file.",
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
