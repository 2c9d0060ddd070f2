package provider

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"os/exec"
	"strings"
	"sync"
)

const localProviderName = "local"

// ModelEngine is the loadable inference backend behind LocalProvider.
// Load is expensive and must only ever run once per process.
type ModelEngine interface {
	Load(ctx context.Context) error
	Generate(ctx context.Context, system, user string) (string, error)
}

// LocalProvider runs inference in-process through a lazily loaded engine.
// The engine is not touched until the first Generate call; availability
// checks look at the filesystem only.
type LocalProvider struct {
	engine    ModelEngine
	modelName string
	modelPath string

	loadOnce sync.Once
	loadErr  error
}

// NewLocalProvider wires an engine to the model file it will load.
func NewLocalProvider(engine ModelEngine, modelName, modelPath string) *LocalProvider {
	return &LocalProvider{
		engine:    engine,
		modelName: modelName,
		modelPath: modelPath,
	}
}

func (p *LocalProvider) Name() string      { return localProviderName }
func (p *LocalProvider) ModelName() string { return p.modelName }

// Available reports whether the model file exists. It never loads the
// engine; a server that only ever uses the primary backend must not pay
// the local model's startup cost.
func (p *LocalProvider) Available(ctx context.Context) bool {
	info, err := os.Stat(p.modelPath)
	return err == nil && !info.IsDir()
}

// Generate loads the engine on first use, then delegates. A failed load is
// remembered and returned on every subsequent call.
func (p *LocalProvider) Generate(ctx context.Context, prompt Prompt) (string, error) {
	p.loadOnce.Do(func() {
		p.loadErr = p.engine.Load(ctx)
	})
	if p.loadErr != nil {
		return "", fmt.Errorf("%w: engine load failed: %v", ErrUnavailable, p.loadErr)
	}
	user := prompt.User
	if prompt.FollowUp != "" {
		user += "\n\nPrevious incomplete answer:\n" + prompt.PriorAnswer + "\n\n" + prompt.FollowUp
	}
	return p.engine.Generate(ctx, prompt.System, user)
}

var _ Provider = (*LocalProvider)(nil)

// CommandEngine shells out to a local inference runner binary. The prompt
// goes in on stdin and the completion comes back on stdout.
type CommandEngine struct {
	runnerPath string
	modelPath  string
	extraArgs  []string
}

// NewCommandEngine builds an engine around a runner binary and a model file.
func NewCommandEngine(runnerPath, modelPath string, extraArgs ...string) *CommandEngine {
	return &CommandEngine{runnerPath: runnerPath, modelPath: modelPath, extraArgs: extraArgs}
}

// Load verifies the runner binary and the model file are usable.
func (e *CommandEngine) Load(ctx context.Context) error {
	if _, err := exec.LookPath(e.runnerPath); err != nil {
		return fmt.Errorf("inference runner not found: %w", err)
	}
	if _, err := os.Stat(e.modelPath); err != nil {
		return fmt.Errorf("model file not found: %w", err)
	}
	return nil
}

// Generate runs the binary once per request.
func (e *CommandEngine) Generate(ctx context.Context, system, user string) (string, error) {
	args := append([]string{"--model", e.modelPath}, e.extraArgs...)
	cmd := exec.CommandContext(ctx, e.runnerPath, args...)
	cmd.Stdin = strings.NewReader(system + "\n\n" + user)

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		return "", fmt.Errorf("inference runner failed: %w: %s", err, strings.TrimSpace(stderr.String()))
	}
	return stdout.String(), nil
}

var _ ModelEngine = (*CommandEngine)(nil)
