package diag

// Kind identifies the class of a Diagnostic. These are the seven kinds named
// in the parser's error-handling design: one for raw grammar violations and
// six for the semantic post-checks performed during parsing.
type Kind string

const (
	Syntax                  Kind = "SYNTAX"
	IllegalAssignmentTarget Kind = "ILLEGAL_ASSIGNMENT_TARGET"
	IllegalArgumentOrder    Kind = "ILLEGAL_ARGUMENT_ORDER"
	IllegalParameter        Kind = "ILLEGAL_PARAMETER"
	DisallowedFeature       Kind = "DISALLOWED_FEATURE"
	MalformedLoad           Kind = "MALFORMED_LOAD"
	MalformedFString        Kind = "MALFORMED_FSTRING"
)
