package errors

// Dumped flattens an error chain for structured logging.
type Dumped struct {
	TopMessage string
	Code       Code
	Chain      []string
}

// Dump walks the wrapped chain and collects each message for log output.
func Dump(err error) Dumped {
	out := Dumped{Code: CodeInternal}
	if err == nil {
		return out
	}
	out.TopMessage = err.Error()
	if typed := As(err); typed != nil {
		out.Code = typed.Code()
	}
	for current := err; current != nil; current = unwrapOne(current) {
		out.Chain = append(out.Chain, current.Error())
	}
	return out
}

func unwrapOne(err error) error {
	u, ok := err.(interface{ Unwrap() error })
	if !ok {
		return nil
	}
	return u.Unwrap()
}
