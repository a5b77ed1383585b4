package encoding

// List of domain separation tags for signatures produced by network participants.
//
// Each signature covers a canonical payload prefixed with a domain tag, so that a signature
// over one kind of object can never be replayed as a signature over another.

func tag(domain string) string {
	return protocolPrefix + domain
}

// protocol version and prefix
const protocolPrefix = "VALIDATION-V1.0_"

var (
	// CandidateProducerTag is used by producers signing candidate descriptors.
	CandidateProducerTag = tag("Candidate-Producer")
)
