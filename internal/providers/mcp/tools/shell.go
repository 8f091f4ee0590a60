package tools

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"os/exec"
	"runtime"
	"strings"
	"time"
)

const executeCommandSchema = `{
  "type": "object",
  "properties": {
    "command": {"type": "string", "description": "The shell command to run"}
  },
  "required": ["command"]
}`

const (
	outputTailLines = 200
	execTimeout     = 5 * time.Minute
)

// Shell is the native command runner. It works in the runtime directory
// on the owner's machine; the owner gate upstream is the only access
// control.
type Shell struct {
	WorkDir string
}

func NewShell(workDir string) *Shell {
	return &Shell{WorkDir: workDir}
}

type shellArgs struct {
	Command string `json:"command"`
}

func (s *Shell) ExecuteCommand(ctx context.Context, args json.RawMessage) (string, error) {
	input, err := decodeArgs[shellArgs](args)
	if err != nil {
		return "", err
	}

	ctx, cancel := context.WithTimeout(ctx, execTimeout)
	defer cancel()

	cmd := s.command(ctx, input.Command)

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	runErr := cmd.Run()
	out := tailLines(stdout.String())
	errOut := tailLines(stderr.String())

	switch {
	case runErr != nil && ctx.Err() == context.DeadlineExceeded:
		return fmt.Sprintf("Command timed out after %v\nSTDOUT:\n%s\nSTDERR:\n%s", execTimeout, out, errOut), nil
	case runErr != nil:
		return fmt.Sprintf("Command failed: %v\nSTDOUT:\n%s\nSTDERR:\n%s", runErr, out, errOut), nil
	}
	return fmt.Sprintf("STDOUT:\n%s\nSTDERR:\n%s", out, errOut), nil
}

func (s *Shell) command(ctx context.Context, line string) *exec.Cmd {
	var cmd *exec.Cmd
	if runtime.GOOS == "windows" {
		cmd = exec.CommandContext(ctx, "cmd", "/C", line)
	} else {
		cmd = exec.CommandContext(ctx, "sh", "-c", line)
	}
	if s.WorkDir != "" {
		cmd.Dir = s.WorkDir
	}
	return cmd
}

// tailLines keeps command output model-sized: the last N lines only.
func tailLines(output string) string {
	output = strings.TrimSpace(output)
	if output == "" {
		return "(empty)"
	}

	lines := strings.Split(output, "\n")
	if len(lines) <= outputTailLines {
		return output
	}
	kept := lines[len(lines)-outputTailLines:]
	return fmt.Sprintf("... (output truncated, showing last %d lines)\n%s", outputTailLines, strings.Join(kept, "\n"))
}

func (s *Shell) GetDefinitions() map[string]Definition {
	return map[string]Definition{
		"execute_command": {
			Description: "Run a shell command on the owner's machine",
			Schema:      executeCommandSchema,
			Handler:     s.ExecuteCommand,
		},
	}
}
