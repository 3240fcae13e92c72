package main

import (
	"flag"
	"log"
	"os"
	"path/filepath"

	"github.com/grovetools/pollwatch/config"
)

func main() {
	output := flag.String("o", "schema/definitions/pollwatch.schema.json", "Output path for the generated schema")
	flag.Parse()

	schemaBytes, err := config.GenerateSchema()
	if err != nil {
		log.Fatalf("Error generating schema: %v", err)
	}

	if err := os.MkdirAll(filepath.Dir(*output), 0755); err != nil {
		log.Fatalf("Error creating schema directory: %v", err)
	}

	if err := os.WriteFile(*output, append(schemaBytes, '\n'), 0644); err != nil {
		log.Fatalf("Error writing schema file: %v", err)
	}

	log.Printf("Successfully generated schema at %s", *output)
}
