package instance

import "os"

// GetID identifies this process for lock ownership and log correlation.
// It prefers an explicit WORKER_ID, then the machine hostname, then a
// static fallback so callers always get a non-empty value.
func GetID() string {
	if id := os.Getenv("WORKER_ID"); id != "" {
		return id
	}
	if host, err := os.Hostname(); err == nil && host != "" {
		return host
	}
	return "worker-0"
}
