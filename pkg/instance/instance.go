package instance

import (
	"os"

	"github.com/angelmondragon/sellerbazaar-backend/pkg/env"
)

const fallbackID = "local"

// GetID identifies this process in logs: an explicit instance id, the
// platform's dyno name, then the hostname.
func GetID() string {
	if id := env.First("", "SELLERBAZAAR_INSTANCE_ID", "DYNO"); id != "" {
		return id
	}
	if host, err := os.Hostname(); err == nil && host != "" {
		return host
	}
	return fallbackID
}
