// Package validator provides HTTP middleware that validates requests and
// responses against a declarative OpenAPI 3 schema document, built on the
// kin-openapi validation engine.
//
// # Design
//
// The middleware is a thin routing-and-normalization layer: all schema
// semantics (type coercion, required fields, formats, security requirements)
// belong to kin-openapi. The package decides only three things: which paths
// are validated, which directions (request/response) are validated, and how
// engine errors are shaped on the wire.
//
// The schema document is loaded and validated once at construction, so a
// missing or malformed document fails fast instead of surfacing per-request.
//
// # Validation flow
//
// For each request the middleware:
//
//  1. Bypasses validation entirely when the path matches the combined
//     ignore pattern built from Config.IgnorePaths.
//  2. Resolves the request against the schema's routes; unresolvable
//     requests are rejected with 404 (unknown path) or 405 (known path,
//     wrong method).
//  3. Validates the request when enabled. A violation is answered with the
//     normalized body {status, message, errors: [{path, message,
//     errorCode}]} using the violation's own status, and never reaches the
//     wrapped handler.
//  4. Validates the response when enabled. The response is buffered for
//     inspection; violations are logged but the original response is always
//     forwarded unmodified. Response validation is a development aid and
//     defaults off outside the development environment.
//
// # Error handling
//
// Validation failures travel as *ValidationError. WriteValidationError only
// recognizes that type: any other error leaves the ResponseWriter untouched
// and returns false, so handler errors unrelated to validation keep flowing
// through the caller's usual error path.
//
// # Fx integration
//
// FXModule provides *Middleware with an optional Logger dependency:
//
//	app := fx.New(
//	    validator.FXModule,
//	    fx.Provide(provideValidatorConfig),
//	    fx.Invoke(registerRoutes),
//	)
package validator
