package validator

import (
	"go.uber.org/fx"
)

// FXModule defines the Fx module for the schema validator middleware.
//
// The module provides *Middleware for wiring into an HTTP server's
// middleware chain. It has no lifecycle hooks: the schema document is loaded
// once at construction and the middleware holds no connections.
//
// Usage:
//
//	app := fx.New(
//	    validator.FXModule,
//	    fx.Provide(func() (validator.Config, error) {
//	        cfg, err := validator.ConfigFromEnv()
//	        cfg.SchemaPath = "api/openapi.yaml"
//	        return cfg, err
//	    }),
//	    fx.Invoke(func(mw *validator.Middleware, mux *http.ServeMux) {
//	        http.ListenAndServe(":8080", mw.Wrap(mux))
//	    }),
//	)
//
// Dependencies required by this module:
// - A validator.Config instance must be available in the dependency injection container
// - A Logger instance is optional but recommended for validation warnings
var FXModule = fx.Module("validator",
	fx.Provide(NewMiddlewareWithDI),
)

// Params groups the dependencies needed to create the validator middleware.
type Params struct {
	fx.In

	Config Config
	Logger Logger `optional:"true"` // Optional logger from servicekit logger
}

// NewMiddlewareWithDI creates the validator middleware using dependency
// injection. The optional logger is injected before the middleware is
// returned; everything else delegates to NewMiddleware.
func NewMiddlewareWithDI(params Params) (*Middleware, error) {
	mw, err := NewMiddleware(params.Config)
	if err != nil {
		return nil, err
	}
	if params.Logger != nil {
		mw = mw.WithLogger(params.Logger)
	}
	return mw, nil
}
