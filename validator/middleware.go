package validator

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"net/http"
	"regexp"
	"strings"

	"github.com/getkin/kin-openapi/openapi3"
	"github.com/getkin/kin-openapi/openapi3filter"
	"github.com/getkin/kin-openapi/routers"
	"github.com/getkin/kin-openapi/routers/gorillamux"
)

// Middleware validates HTTP requests and responses against a declarative
// OpenAPI schema document. All validation semantics are delegated to the
// kin-openapi validation engine; this type only routes, normalizes errors,
// and decides which paths and directions to validate.
type Middleware struct {
	cfg    Config
	logger Logger

	doc    *openapi3.T
	router routers.Router

	// ignorePattern is the combined prefix-anchored pattern built from
	// Config.IgnorePaths; nil when no paths are ignored.
	ignorePattern *regexp.Regexp
}

// NewMiddleware creates a schema validator middleware from the provided
// configuration. The schema document is loaded and validated at
// construction, so a missing or malformed document fails fast.
//
// Example:
//
//	mw, err := validator.NewMiddleware(validator.Config{
//	    SchemaPath:  "api/openapi.yaml",
//	    IgnorePaths: []string{"/healthz", "/metrics"},
//	})
//	if err != nil {
//	    return err
//	}
//	handler := mw.Wrap(mux)
func NewMiddleware(cfg Config) (*Middleware, error) {
	if cfg.SchemaPath == "" {
		return nil, ErrSchemaPathRequired
	}
	applyDefaults(&cfg)

	loader := openapi3.NewLoader()
	doc, err := loader.LoadFromFile(cfg.SchemaPath)
	if err != nil {
		return nil, fmt.Errorf("failed to load schema document: %w", err)
	}
	if err := doc.Validate(loader.Context); err != nil {
		return nil, fmt.Errorf("invalid schema document: %w", err)
	}

	router, err := gorillamux.NewRouter(doc)
	if err != nil {
		return nil, fmt.Errorf("failed to build schema router: %w", err)
	}

	ignorePattern, err := combineIgnorePaths(cfg.IgnorePaths)
	if err != nil {
		return nil, fmt.Errorf("invalid ignore path: %w", err)
	}

	return &Middleware{
		cfg:           cfg,
		doc:           doc,
		router:        router,
		ignorePattern: ignorePattern,
	}, nil
}

// combineIgnorePaths normalizes literal and regexp entries into one combined
// pattern anchored at the start of the request path.
func combineIgnorePaths(paths []string) (*regexp.Regexp, error) {
	if len(paths) == 0 {
		return nil, nil
	}
	fragments := make([]string, 0, len(paths))
	for _, p := range paths {
		if p == "" {
			continue
		}
		fragments = append(fragments, "(?:"+p+")")
	}
	if len(fragments) == 0 {
		return nil, nil
	}
	return regexp.Compile("^(?:" + strings.Join(fragments, "|") + ")")
}

// WithLogger attaches a logger to the middleware for validation warnings.
// This method uses the builder pattern and returns the middleware for method chaining.
func (m *Middleware) WithLogger(logger Logger) *Middleware {
	m.logger = logger
	return m
}

// Wrap returns a handler that validates traffic against the schema before
// and after delegating to next.
//
// Requests on ignored paths pass straight through. A request violating the
// schema is answered with the normalized {status, message, errors[]} JSON
// body and never reaches next. Response validation, when enabled, buffers
// the response for inspection; violations are logged but the original
// response is still forwarded to the client.
func (m *Middleware) Wrap(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if m.ignorePattern != nil && m.ignorePattern.MatchString(r.URL.Path) {
			next.ServeHTTP(w, r)
			return
		}

		route, pathParams, err := m.router.FindRoute(r)
		if err != nil {
			vErr := translateRoutingError(err)
			m.logWarn(r.Context(), "Request rejected by schema router", map[string]interface{}{
				"path":   r.URL.Path,
				"method": r.Method,
				"status": vErr.Status,
			})
			WriteValidationError(w, vErr)
			return
		}

		input := &openapi3filter.RequestValidationInput{
			Request:    r,
			PathParams: pathParams,
			Route:      route,
			Options: &openapi3filter.Options{
				MultiError:         true,
				AuthenticationFunc: openapi3filter.NoopAuthenticationFunc,
			},
		}

		if *m.cfg.ValidateRequests {
			if err := openapi3filter.ValidateRequest(r.Context(), input); err != nil {
				vErr := translateRequestError(err)
				m.logWarn(r.Context(), "Request failed schema validation", map[string]interface{}{
					"path":   r.URL.Path,
					"method": r.Method,
					"status": vErr.Status,
					"errors": len(vErr.Errors),
				})
				WriteValidationError(w, vErr)
				return
			}
		}

		if !*m.cfg.ValidateResponses {
			next.ServeHTTP(w, r)
			return
		}

		recorder := newResponseRecorder(w)
		next.ServeHTTP(recorder, r)

		if err := m.validateResponse(r.Context(), input, recorder); err != nil {
			m.logWarn(r.Context(), "Response failed schema validation", map[string]interface{}{
				"path":   r.URL.Path,
				"method": r.Method,
				"error":  err.Error(),
			})
		}
		recorder.flush()
	})
}

// Handler is Wrap in the func(http.Handler) http.Handler shape expected by
// middleware chains.
func (m *Middleware) Handler() func(http.Handler) http.Handler {
	return m.Wrap
}

// validateResponse runs the buffered response through the validation engine.
func (m *Middleware) validateResponse(ctx context.Context, input *openapi3filter.RequestValidationInput, recorder *responseRecorder) error {
	responseInput := &openapi3filter.ResponseValidationInput{
		RequestValidationInput: input,
		Status:                 recorder.statusCode(),
		Header:                 recorder.Header(),
	}
	responseInput.SetBodyBytes(recorder.bodyBytes())
	return openapi3filter.ValidateResponse(ctx, responseInput)
}

// translateRoutingError maps router failures onto ValidationError.
func translateRoutingError(err error) *ValidationError {
	status := http.StatusNotFound
	code := "route_not_found"
	if errors.Is(err, routers.ErrMethodNotAllowed) {
		status = http.StatusMethodNotAllowed
		code = "method_not_allowed"
	}
	return &ValidationError{
		Status: status,
		Errors: []ValidationIssue{{
			Path:      "",
			Message:   err.Error(),
			ErrorCode: code,
		}},
	}
}

// translateRequestError normalizes the validation engine's error shapes into
// a single ValidationError.
func translateRequestError(err error) *ValidationError {
	vErr := &ValidationError{Status: http.StatusBadRequest}

	var multi openapi3.MultiError
	if errors.As(err, &multi) {
		for _, sub := range multi {
			appendIssue(vErr, sub)
		}
		return vErr
	}

	appendIssue(vErr, err)
	return vErr
}

// appendIssue converts one engine error into a ValidationIssue on vErr,
// adjusting the status for authentication failures.
func appendIssue(vErr *ValidationError, err error) {
	var reqErr *openapi3filter.RequestError
	if errors.As(err, &reqErr) {
		issue := ValidationIssue{
			Message:   reqErr.Error(),
			ErrorCode: "invalid_body",
		}
		if reqErr.Parameter != nil {
			issue.Path = reqErr.Parameter.Name
			issue.ErrorCode = "bad_parameter"
		}
		vErr.Errors = append(vErr.Errors, issue)
		return
	}

	var secErr *openapi3filter.SecurityRequirementsError
	if errors.As(err, &secErr) {
		vErr.Status = http.StatusUnauthorized
		vErr.Errors = append(vErr.Errors, ValidationIssue{
			Message:   secErr.Error(),
			ErrorCode: "unauthorized",
		})
		return
	}

	vErr.Errors = append(vErr.Errors, ValidationIssue{
		Message:   err.Error(),
		ErrorCode: "validation_error",
	})
}

// responseRecorder buffers a response so it can be validated before being
// forwarded to the client.
type responseRecorder struct {
	w      http.ResponseWriter
	status int
	body   bytes.Buffer
}

func newResponseRecorder(w http.ResponseWriter) *responseRecorder {
	return &responseRecorder{w: w, status: http.StatusOK}
}

func (r *responseRecorder) Header() http.Header {
	return r.w.Header()
}

func (r *responseRecorder) WriteHeader(status int) {
	r.status = status
}

func (r *responseRecorder) Write(b []byte) (int, error) {
	return r.body.Write(b)
}

func (r *responseRecorder) statusCode() int {
	return r.status
}

func (r *responseRecorder) bodyBytes() []byte {
	return r.body.Bytes()
}

// flush forwards the buffered status and body to the underlying writer.
func (r *responseRecorder) flush() {
	r.w.WriteHeader(r.status)
	_, _ = r.w.Write(r.body.Bytes())
}

// logWarn logs a warning message using the configured logger if available.
func (m *Middleware) logWarn(ctx context.Context, msg string, fields map[string]interface{}) {
	if m.logger != nil {
		m.logger.WarnWithContext(ctx, msg, nil, fields)
	}
	// Silently skip if no logger configured
}
