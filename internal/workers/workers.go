// Package workers provides the orchestrator's sample TaskWorker
// collaborators: environment detection, patch application, and review
// summarisation. These are example collaborators demonstrating the
// orchestrator.TaskWorker contract, not core library code; a real
// deployment supplies its own.
package workers

import (
	"bytes"
	"os"
	"os/exec"

	"github.com/harrison/orchestrator/internal/models"
	"github.com/harrison/orchestrator/internal/orchestrator"
)

// EnvWorker detects the project's languages and build tools by probing
// for a handful of well-known marker files in the current directory.
type EnvWorker struct{}

func (EnvWorker) Name() string { return "env" }

func (EnvWorker) CanHandle(task models.Task) bool {
	return task.Worker() == "env" || stringField(task.Payload, "action") == "detect"
}

func (EnvWorker) Run(task models.Task) (map[string]any, error) {
	exists := func(p string) bool {
		_, err := os.Stat(p)
		return err == nil
	}

	var langs, tools []string
	reasons := map[string]any{}
	add := func(lang, reason string) {
		langs = append(langs, lang)
		reasons[lang] = reason
	}

	if exists("package.json") {
		add("node", "package.json")
	}
	if exists("requirements.txt") || exists("pyproject.toml") {
		add("python", "requirements/pyproject")
	}
	if exists("Cargo.toml") {
		add("rust", "Cargo.toml")
	}
	if exists("go.mod") {
		add("go", "go.mod")
	}
	if exists("pom.xml") || exists("build.gradle") {
		add("java", "pom.xml/gradle")
	}
	if exists("Gemfile") {
		add("ruby", "Gemfile")
	}
	if exists("composer.json") {
		add("php", "composer.json")
	}
	if exists("Makefile") {
		tools = append(tools, "make")
	}
	if exists("Dockerfile") {
		tools = append(tools, "dockerfile")
	}
	if exists("Justfile") || exists("justfile") {
		tools = append(tools, "just")
	}

	container := map[string]any{
		"languages": toAnySlice(langs),
		"tools":     toAnySlice(tools),
		"reasons":   reasons,
	}
	return map[string]any{
		"memory_update": map[string]any{"container": container},
		"note":          "environment detection complete",
		"task_id":       task.ID,
	}, nil
}

// PatchWorker applies a unified diff via "git apply" or the POSIX
// "patch" utility, chosen by payload["tool"].
type PatchWorker struct{}

func (PatchWorker) Name() string { return "patch" }

func (PatchWorker) CanHandle(task models.Task) bool {
	return task.Worker() == "patch" || stringField(task.Payload, "action") == "apply_patch"
}

func (PatchWorker) Run(task models.Task) (map[string]any, error) {
	action := stringField(task.Payload, "action")
	if action != "apply_patch" {
		return nil, orchestrator.NewUnsupported("patch action")
	}

	patch := stringField(task.Payload, "patch")
	tool := stringField(task.Payload, "tool")
	if tool == "" {
		tool = "git"
	}
	cwd := stringField(task.Payload, "cwd")

	var cmd *exec.Cmd
	if tool == "patch" {
		cmd = exec.Command("patch", "-p0", "-t")
	} else {
		cmd = exec.Command("git", "apply", "-p0", "--whitespace=nowarn")
	}
	if cwd != "" {
		cmd.Dir = cwd
	}
	cmd.Stdin = bytes.NewBufferString(patch)
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	err := cmd.Run()
	success := err == nil
	exitCode := 0
	if exitErr, ok := err.(*exec.ExitError); ok {
		exitCode = exitErr.ExitCode()
	} else if err != nil {
		return nil, orchestrator.NewExecutionFailed("patch command failed to start", err)
	}

	return map[string]any{
		"success": success,
		"tool":    tool,
		"status":  exitCode,
		"stdout":  stdout.String(),
		"stderr":  stderr.String(),
	}, nil
}

// ReviewerWorker echoes payload["summary"] back as a review result.
type ReviewerWorker struct{}

func (ReviewerWorker) Name() string { return "reviewer" }

func (ReviewerWorker) CanHandle(task models.Task) bool {
	return task.Worker() == "reviewer"
}

func (ReviewerWorker) Run(task models.Task) (map[string]any, error) {
	summary := task.Payload["summary"]
	if summary == nil {
		summary = []any{}
	}
	return map[string]any{
		"review":  map[string]any{"summary": summary},
		"success": true,
		"task_id": task.ID,
	}, nil
}

func stringField(m map[string]any, key string) string {
	s, _ := m[key].(string)
	return s
}

func toAnySlice(ss []string) []any {
	out := make([]any, len(ss))
	for i, s := range ss {
		out[i] = s
	}
	return out
}

var (
	_ orchestrator.TaskWorker = EnvWorker{}
	_ orchestrator.TaskWorker = PatchWorker{}
	_ orchestrator.TaskWorker = ReviewerWorker{}
)
