package middleware

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"github.com/pasinduisuranga/traveler-app/internal/respond"
)

// Payload is implemented by request body types. Normalize coerces the
// decoded value (trimming, lowercasing, defaulting); Validate then collects
// every violation rather than stopping at the first.
type Payload interface {
	Normalize()
	Validate() []respond.FieldError
}

type bodyCtxKey struct{}

// ValidateBody decodes the request body into T, normalizes and validates it,
// and stores the result in the request context for the handler. Unknown
// fields in the body are silently dropped by the decode. An empty body
// decodes to the zero value, so required-field violations are still reported
// together. Any violation rejects with 400 before later gate stages run.
func ValidateBody[T any, PT interface {
	*T
	Payload
}]() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			var body T
			pt := PT(&body)

			if err := json.NewDecoder(r.Body).Decode(pt); err != nil && !errors.Is(err, io.EOF) {
				respond.Error(w, http.StatusBadRequest, "Invalid request body")
				return
			}

			pt.Normalize()
			if errs := pt.Validate(); len(errs) > 0 {
				respond.ValidationFailed(w, errs)
				return
			}

			ctx := context.WithValue(r.Context(), bodyCtxKey{}, pt)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// Body returns the normalized request body placed in the context by
// ValidateBody. Nil when the route did not declare a schema for T.
func Body[T any](r *http.Request) *T {
	v, _ := r.Context().Value(bodyCtxKey{}).(*T)
	return v
}
