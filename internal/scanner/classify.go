package scanner

import "github.com/maxvaer/dirprobe/internal/config"

// Classify reports whether statusCode is one of the accepted codes.
func Classify(statusCode int, accepted config.StatusSet) bool {
	return accepted.Contains(statusCode)
}
