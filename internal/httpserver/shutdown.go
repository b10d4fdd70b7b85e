package httpserver

import "time"

// ShutdownTimeout bounds graceful shutdown. It is generous enough to let
// in-flight uploads finish streaming to the object store.
const ShutdownTimeout = 15 * time.Second
