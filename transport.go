package gospatialsdk

import "github.com/jblindsay/gospatial-sdk-go/internal/config"

// Transport defines the interface for go-spatial process communication.
// Implement this to provide custom transports for testing, mocking,
// or alternative execution methods (e.g., remote invocation).
//
// The default implementation is CLITransport which spawns a subprocess.
// Custom transports can be injected via Options.Transport.
type Transport = config.Transport
