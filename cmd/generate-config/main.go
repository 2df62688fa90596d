package main

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/debemdeboas/inkdraft/internal/config"
)

const header = "# Inkdraft Configuration Example\n" +
	"# Copy this file to " + config.DefaultConfigFile + " and customize as needed.\n" +
	"# Secrets (GEMINI_API_KEY, S3_ACCESS_KEY_ID, S3_SECRET_ACCESS_KEY) are read from the environment.\n\n"

func main() {
	output, err := render(config.Default())
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error generating YAML: %v\n", err)
		os.Exit(1)
	}

	outputFile := config.ExampleConfigFile
	if len(os.Args) > 1 {
		outputFile = os.Args[1]
	}

	if outputFile == "-" {
		fmt.Print(string(output))
		return
	}

	if err := os.WriteFile(outputFile, output, 0o644); err != nil {
		fmt.Fprintf(os.Stderr, config.ErrWriteConfigContentFmt+"\n", err)
		os.Exit(1)
	}
	fmt.Printf("Generated example config: %s\n", outputFile)
}

func render(cfg *config.Config) ([]byte, error) {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return nil, err
	}
	return append([]byte(header), data...), nil
}
