package gospatialsdk

import (
	"context"
	"fmt"
)

// WithSession manages session lifecycle with automatic cleanup.
//
// This helper creates a session, starts it with the provided options,
// executes the callback function, and ensures proper cleanup via Close()
// when done.
//
// The callback receives a fully started Session that is ready for use.
// If the callback returns an error, it is returned to the caller.
// If Close() fails, a warning is logged but does not override the callback's error.
//
// Example usage:
//
//	err := gospatialsdk.WithSession(ctx, func(s gospatialsdk.Session) error {
//	    if err := s.RunTool(ctx, "Aspect", []string{"DEM.dep", "aspect.dep"}); err != nil {
//	        return err
//	    }
//	    for ev, err := range s.ReceiveResponse(ctx) {
//	        if err != nil {
//	            return err
//	        }
//	        // process event...
//	    }
//	    return nil
//	},
//	    gospatialsdk.WithExecutableDir("/opt/gospatial"),
//	    gospatialsdk.WithWorkingDir("/data/JayStateForest"),
//	)
func WithSession(ctx context.Context, fn func(Session) error, opts ...Option) error {
	if ctx.Err() != nil {
		return ctx.Err()
	}

	options := applyOptions(opts)

	log := options.Logger
	if log == nil {
		log = NopLogger()
	}

	session := NewSession()
	if err := session.Start(ctx, opts...); err != nil {
		return fmt.Errorf("failed to start session: %w", err)
	}

	defer func() {
		if closeErr := session.Close(); closeErr != nil {
			log.Warn("failed to close session", "error", closeErr)
		}
	}()

	return fn(session)
}
