package validator

import (
	"errors"
	"strings"

	"github.com/go-playground/validator/v10"
)

// Fields maps a binding error to field name -> failed rule, e.g.
// {"email": "email"}. It returns nil for errors that are not validation
// failures, such as malformed JSON.
func Fields(err error) map[string]string {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return nil
	}

	fields := make(map[string]string, len(verrs))
	for _, fe := range verrs {
		fields[lowerFirst(fe.Field())] = fe.Tag()
	}
	return fields
}

func lowerFirst(s string) string {
	if s == "" {
		return s
	}
	return strings.ToLower(s[:1]) + s[1:]
}
