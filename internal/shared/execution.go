package shared

import (
	"time"
)

// Execution holds operational metadata for a single remote generation call.
type Execution struct {
	Function string
	Backend  string
	Success  bool
	Latency  time.Duration
}
