package support

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"strings"
	"time"

	"github.com/cucumber/godog"
)

// substituteCommandVariables replaces placeholders in a scenario command with
// scenario-specific values.
func (testCtx *TestContext) substituteCommandVariables(command string) string {
	return strings.ReplaceAll(command, "{temp_dir}", testCtx.TempDir)
}

// iRunCommand executes a command and stores the result.
func (testCtx *TestContext) iRunCommand(command string) error {
	command = testCtx.substituteCommandVariables(command)

	testCtx.LastCommand = command
	testCtx.LastStartTime = time.Now()

	parts := strings.Fields(command)
	if len(parts) == 0 {
		return errors.New("empty command")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	cmd := exec.CommandContext(ctx, parts[0], parts[1:]...)
	cmd.Dir = testCtx.TempDir
	cmd.Env = append(os.Environ(), testCtx.EnvVars...)

	output, err := cmd.CombinedOutput()
	testCtx.LastOutput = string(output)
	testCtx.LastError = err
	testCtx.LastDuration = time.Since(testCtx.LastStartTime)

	if err != nil {
		exitError := &exec.ExitError{}
		if errors.As(err, &exitError) {
			testCtx.LastExitCode = exitError.ExitCode()
		} else {
			testCtx.LastExitCode = -1
		}
	} else {
		testCtx.LastExitCode = 0
	}

	return nil
}

// theCommandShouldSucceed verifies the command succeeded.
func (testCtx *TestContext) theCommandShouldSucceed() error {
	if testCtx.LastExitCode != 0 {
		return fmt.Errorf("command failed with exit code %d: %w\nOutput: %s",
			testCtx.LastExitCode, testCtx.LastError, testCtx.LastOutput)
	}
	return nil
}

// theCommandShouldFail verifies the command failed.
func (testCtx *TestContext) theCommandShouldFail() error {
	if testCtx.LastExitCode == 0 {
		return fmt.Errorf("command succeeded when it should have failed\nOutput: %s", testCtx.LastOutput)
	}
	return nil
}

// theOutputShouldContain verifies the output contains specific text.
func (testCtx *TestContext) theOutputShouldContain(expectedText string) error {
	if !strings.Contains(testCtx.LastOutput, expectedText) {
		return fmt.Errorf("output does not contain '%s'\nActual output: %s", expectedText, testCtx.LastOutput)
	}
	return nil
}

// theOutputShouldNotContain verifies the output omits specific text.
func (testCtx *TestContext) theOutputShouldNotContain(unexpectedText string) error {
	if strings.Contains(testCtx.LastOutput, unexpectedText) {
		return fmt.Errorf("output contains '%s' but should not\nActual output: %s",
			unexpectedText, testCtx.LastOutput)
	}
	return nil
}

// theErrorShouldMention verifies the combined output of a failed command
// contains specific text.
func (testCtx *TestContext) theErrorShouldMention(errorText string) error {
	if testCtx.LastError == nil && testCtx.LastExitCode == 0 {
		return fmt.Errorf("no error occurred, but expected error containing '%s'", errorText)
	}
	if !strings.Contains(strings.ToLower(testCtx.LastOutput), strings.ToLower(errorText)) {
		return fmt.Errorf("error output does not mention '%s'\nActual output: %s",
			errorText, testCtx.LastOutput)
	}
	return nil
}

// theOutputShouldBeValidJSON verifies the output contains a valid JSON document.
func (testCtx *TestContext) theOutputShouldBeValidJSON() error {
	output := strings.TrimSpace(testCtx.LastOutput)

	// Skip any preceding plain-text lines before the JSON document.
	jsonStart := -1
	for i, r := range output {
		if r == '{' || r == '[' {
			jsonStart = i
			break
		}
	}
	if jsonStart == -1 {
		return fmt.Errorf("no JSON found in output: %s", testCtx.LastOutput)
	}

	var js json.RawMessage
	if err := json.Unmarshal([]byte(output[jsonStart:]), &js); err != nil {
		return fmt.Errorf("output is not valid JSON: %w\nJSON part: %s", err, output[jsonStart:])
	}
	return nil
}

// theJSONShouldContain verifies the JSON output contains a top-level field.
func (testCtx *TestContext) theJSONShouldContain(field string) error {
	if err := testCtx.theOutputShouldBeValidJSON(); err != nil {
		return err
	}

	output := strings.TrimSpace(testCtx.LastOutput)
	jsonStart := strings.IndexAny(output, "{[")
	if jsonStart == -1 {
		return errors.New("no JSON found in output")
	}

	var data map[string]interface{}
	if err := json.Unmarshal([]byte(output[jsonStart:]), &data); err != nil {
		return fmt.Errorf("failed to parse JSON: %w", err)
	}

	if _, exists := data[field]; !exists {
		return fmt.Errorf("field '%s' not found in JSON", field)
	}
	return nil
}

// RegisterCommonSteps registers command execution and output verification steps.
func (testCtx *TestContext) RegisterCommonSteps(sc *godog.ScenarioContext) {
	sc.Step(`^I run "([^"]*)"$`, testCtx.iRunCommand)
	sc.Step(`^the command should succeed$`, testCtx.theCommandShouldSucceed)
	sc.Step(`^the command should fail$`, testCtx.theCommandShouldFail)
	sc.Step(`^the output should contain "([^"]*)"$`, testCtx.theOutputShouldContain)
	sc.Step(`^the output should not contain "([^"]*)"$`, testCtx.theOutputShouldNotContain)
	sc.Step(`^the error should mention "([^"]*)"$`, testCtx.theErrorShouldMention)
	sc.Step(`^the output should be valid JSON$`, testCtx.theOutputShouldBeValidJSON)
	sc.Step(`^the JSON should contain "([^"]*)"$`, testCtx.theJSONShouldContain)
}
