package config

const (
	DefaultDataDirectory  = "~/.local/share/curie"
	DefaultServerURL      = "http://localhost:8000"
	DefaultWelcomeMessage = "Hi! I can merge documents or match resumes to a JD. Tell me what you’d like to do."
)

func DefaultSystemConfig() *SystemConfig {
	return &SystemConfig{
		DataDirectory: DefaultDataDirectory,
	}
}

func DefaultUserConfig() *UserConfig {
	return &UserConfig{
		Server: ServerConfig{
			URL: DefaultServerURL,
		},
	}
}

func GenerateSystemConfigTemplate() string {
	return `# Curie System Configuration
# Location: ~/.config/curie/settings.toml
# This file uses TOML format: https://toml.io

# Directory where the client database and user config are stored
data_directory = "~/.local/share/curie"
`
}

func GenerateUserConfigTemplate() string {
	return `# Curie User Configuration
# Location: <data_directory>/config.toml
# This file uses TOML format: https://toml.io

[server]
# Base URL of the Curie agent server
url = "http://localhost:8000"

# Optional HTTP timeout (Go duration, e.g. "90s"). Empty means no client timeout.
request_timeout = ""

# Greeting shown as the first assistant message (optional)
# welcome_message = "Hi! I can merge documents or match resumes to a JD."
`
}
