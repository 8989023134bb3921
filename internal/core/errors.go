package core

// ErrorKind classifies a failed operation for transport mapping.
type ErrorKind int

const (
	KindNone ErrorKind = iota
	KindNotFound
	KindValidation
	KindUnexpected
)

func (k ErrorKind) String() string {
	switch k {
	case KindNone:
		return "none"
	case KindNotFound:
		return "not_found"
	case KindValidation:
		return "validation"
	case KindUnexpected:
		return "unexpected"
	default:
		return "unknown"
	}
}
