package constants

import "os"

// HitToleranceMs shifts startRange/endRange earlier for playback hit-testing.
const HitToleranceMs = 50

const (
	DefaultSpeed    = 1
	DefaultBPM      = 60
	DefaultBeats    = 4
	DefaultBeatType = 4
	DefaultAddr     = ":8080"
	DefaultTable    = "scoreline-summaries"
)

func getenv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func GetAddr() string {
	return getenv("SCORELINE_ADDR", DefaultAddr)
}

// GetRegion falls back to "localhost", which is what DynamoDB Local and
// most S3-compatible dev servers accept.
func GetRegion() string {
	return getenv("SCORELINE_AWS_REGION", "localhost")
}

// GetS3Endpoint is empty unless an S3-compatible endpoint is configured.
func GetS3Endpoint() string {
	return os.Getenv("SCORELINE_S3_ENDPOINT")
}

func GetDynamoEndpoint() string {
	return getenv("SCORELINE_DYNAMO_ENDPOINT", "http://localhost:8000")
}

func GetDynamoTable() string {
	return getenv("SCORELINE_DYNAMO_TABLE", DefaultTable)
}
