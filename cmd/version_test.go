package cmd

import (
	"bytes"
	"strings"
	"testing"
)

func TestNewVersionCmd(t *testing.T) {
	versionCmd := newVersionCmd()

	if versionCmd.Use != "version" {
		t.Errorf("Expected Use to be 'version', got %s", versionCmd.Use)
	}
	if versionCmd.Short == "" || versionCmd.Long == "" {
		t.Error("Expected Short and Long descriptions to be set")
	}
	if versionCmd.Run == nil {
		t.Error("Expected Run function to be set")
	}
}

// executeRoot runs the root command with args and returns what it printed.
func executeRoot(t *testing.T, args ...string) string {
	t.Helper()

	var buf bytes.Buffer
	rootCmd.SetOut(&buf)
	rootCmd.SetErr(&buf)
	rootCmd.SetArgs(args)
	defer func() {
		rootCmd.SetOut(nil)
		rootCmd.SetErr(nil)
		rootCmd.SetArgs(nil)
	}()

	if err := rootCmd.Execute(); err != nil {
		t.Fatalf("Error executing %v: %v", args, err)
	}
	return buf.String()
}

func TestVersionOutput(t *testing.T) {
	originalVersion := GetVersion()
	defer SetVersion(originalVersion)

	SetVersion("1.2.3-test")
	if got := GetVersion(); got != "1.2.3-test" {
		t.Fatalf("Expected GetVersion to return the version set, got %q", got)
	}

	expected := "contacts version 1.2.3-test\n"
	for _, args := range [][]string{{"version"}, {"--version"}} {
		if output := executeRoot(t, args...); output != expected {
			t.Errorf("%v: expected output %q, got %q", args, expected, output)
		}
	}
}

func TestVersionCommandWithEmptyVersion(t *testing.T) {
	originalVersion := GetVersion()
	defer SetVersion(originalVersion)
	SetVersion("")

	versionCmd := newVersionCmd()
	var buf bytes.Buffer
	versionCmd.SetOut(&buf)
	versionCmd.Run(versionCmd, []string{})

	if output := buf.String(); output != "contacts version \n" {
		t.Errorf("Expected the bare version line, got %q", output)
	}
}

func TestVersionCommandHelp(t *testing.T) {
	output := executeRoot(t, "version", "--help")
	if !strings.Contains(output, "This is contacts's.") {
		t.Errorf("Help output should contain description. Got: %q", output)
	}
}
