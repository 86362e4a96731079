package config

import (
	"os"
	"strings"
	"testing"
)

func TestInitializeConfigurationWritesLocalFile(testingInstance *testing.T) {
	workingDirectory := testingInstance.TempDir()

	destinationPath, initializeError := InitializeConfiguration(InitOptions{
		Target:           InitTargetLocal,
		WorkingDirectory: workingDirectory,
	})
	if initializeError != nil {
		testingInstance.Fatalf("InitializeConfiguration error: %v", initializeError)
	}

	writtenContent, readError := os.ReadFile(destinationPath)
	if readError != nil {
		testingInstance.Fatalf("reading written configuration: %v", readError)
	}
	if !strings.Contains(string(writtenContent), "dump:") {
		testingInstance.Errorf("expected dump section in template, got %q", writtenContent)
	}
}

func TestInitializeConfigurationRefusesOverwriteWithoutForce(testingInstance *testing.T) {
	workingDirectory := testingInstance.TempDir()
	options := InitOptions{Target: InitTargetLocal, WorkingDirectory: workingDirectory}

	if _, firstError := InitializeConfiguration(options); firstError != nil {
		testingInstance.Fatalf("first initialization failed: %v", firstError)
	}
	if _, secondError := InitializeConfiguration(options); secondError == nil {
		testingInstance.Fatalf("expected error when overwriting without force")
	}

	options.Force = true
	if _, forcedError := InitializeConfiguration(options); forcedError != nil {
		testingInstance.Fatalf("forced initialization failed: %v", forcedError)
	}
}
