package instance

import "github.com/angelmondragon/londonshop-backend/pkg/env"

// ID names the running process for log correlation: the platform dyno name,
// then the container hostname, then "local".
func ID() string {
	return env.First("local", "DYNO", "HOSTNAME")
}
