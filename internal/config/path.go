package config

const (
	UploadsUrlPath = "/uploads/"

	ExampleConfigFile = "config.example.yaml"
	DefaultConfigFile = "config.yaml"
)
