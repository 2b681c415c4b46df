package ports

import "time"

// Clock supplies the current time to the core. Injected so stage timestamps
// and history ordering are deterministic under test.
type Clock interface {
	Now() time.Time
}
