// Package constants provides centralized definitions of constants used throughout the application
package constants

// Environment variable names
const (
	// EnvToken is the environment variable containing the CI platform API token
	EnvToken = "GEMINI_WORKER_TOKEN"

	// EnvOwner is the environment variable containing the repository owner
	EnvOwner = "GEMINI_WORKER_OWNER"

	// EnvRepo is the environment variable containing the repository name
	EnvRepo = "GEMINI_WORKER_REPO"

	// EnvRef is the environment variable containing the git ref workflows run on
	EnvRef = "GEMINI_WORKER_REF"

	// EnvAPIURL is the environment variable overriding the CI platform API endpoint
	EnvAPIURL = "GEMINI_WORKER_API_URL"
)
