package medflow

import (
	"bytes"
	"embed"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"text/template"
)

// embeddedPrompts holds the default prompt templates shipped with the
// library. Deployments can override any of them by pointing a
// PromptLoader at a directory with matching .txt files.
//
//go:embed prompts/*.txt
var embeddedPrompts embed.FS

// PromptLoader loads and renders prompt templates. Safe for concurrent
// use: requests share one loader (usually the package default), so the
// template cache is guarded.
type PromptLoader struct {
	dirs []string // Directories to search before the embedded set

	mu    sync.Mutex
	cache map[string]*template.Template // Cached templates, guarded by mu
}

// NewPromptLoader creates a prompt loader. Directories are searched in
// order; the embedded prompts are the final fallback.
func NewPromptLoader(dirs ...string) *PromptLoader {
	return &PromptLoader{
		dirs:  dirs,
		cache: make(map[string]*template.Template),
	}
}

// Load loads and renders a prompt with variable substitution.
func (l *PromptLoader) Load(name string, vars map[string]any) (string, error) {
	tmpl, err := l.getTemplate(name)
	if err != nil {
		return "", err
	}

	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, vars); err != nil {
		return "", fmt.Errorf("render prompt %s: %w", name, err)
	}

	return buf.String(), nil
}

// Exists checks if a prompt exists.
func (l *PromptLoader) Exists(name string) bool {
	_, err := l.loadRaw(name)
	return err == nil
}

// getTemplate returns a parsed template, caching on first use.
func (l *PromptLoader) getTemplate(name string) (*template.Template, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if tmpl, ok := l.cache[name]; ok {
		return tmpl, nil
	}

	raw, err := l.loadRaw(name)
	if err != nil {
		return nil, err
	}

	tmpl, err := template.New(name).Parse(raw)
	if err != nil {
		return nil, fmt.Errorf("parse prompt %s: %w", name, err)
	}

	l.cache[name] = tmpl
	return tmpl, nil
}

// loadRaw finds the raw template text, searching dirs then embedded.
func (l *PromptLoader) loadRaw(name string) (string, error) {
	filename := name + ".txt"

	for _, dir := range l.dirs {
		data, err := os.ReadFile(filepath.Join(dir, filename))
		if err == nil {
			return string(data), nil
		}
	}

	data, err := embeddedPrompts.ReadFile("prompts/" + filename)
	if err != nil {
		return "", fmt.Errorf("prompt %s not found", name)
	}
	return string(data), nil
}

// defaultPrompts is the loader nodes use when the context carries none.
var defaultPrompts = NewPromptLoader()

// loadPrompt renders a prompt using the context loader or the embedded
// defaults.
func loadPrompt(loader *PromptLoader, name string, vars map[string]any) (string, error) {
	if loader == nil {
		loader = defaultPrompts
	}
	prompt, err := loader.Load(name, vars)
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(prompt), nil
}
