package metrics

const (
	namespaceCorruption = "corruption"
	namespaceBacking    = "backing"
	namespaceStorage    = "storage"
)

const (
	subsystemInterceptor = "interceptor"
	subsystemFabricator  = "fabricator"
	subsystemCandidates  = "candidates"
	subsystemBadger      = "badger"
)

const (
	LabelKind     = "kind"
	LabelDecision = "decision"
	LabelReason   = "reason"
	LabelStage    = "stage"
	LabelResource = "resource"
)

// interception decisions
const (
	DecisionPassThrough = "pass_through"
	DecisionCorrupted   = "corrupted"
	DecisionSuppressed  = "suppressed"
	DecisionAborted     = "aborted"
)

const (
	ResourceUndefined      = "undefined"
	ResourceValidators     = "validators"
	ResourceValidationCode = "validation_code"
)
