package prompt

import (
	"fmt"
	"sync"
)

// Registry holds the system prompts registered for the billing
// pipeline's LLM calls, keyed by ID (e.g. "extraction.facts",
// "phase2.medical_bill"). One process-wide instance is populated by
// billing.go's init(), so every prompt used at runtime is known and
// inspectable before the first document is analyzed.
type Registry struct {
	prompts map[string]*PromptTemplate
	schemas map[string]*ResponseSchema
	mu      sync.RWMutex
}

var (
	globalRegistry *Registry
	once           sync.Once
)

// Get returns the package-wide registry singleton.
func Get() *Registry {
	once.Do(func() {
		globalRegistry = &Registry{
			prompts: make(map[string]*PromptTemplate),
			schemas: make(map[string]*ResponseSchema),
		}
	})
	return globalRegistry
}

// Register adds a prompt template to the registry, keyed by its ID.
func (r *Registry) Register(pt *PromptTemplate) error {
	if pt.ID == "" {
		return fmt.Errorf("prompt ID cannot be empty")
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.prompts[pt.ID] = pt
	return nil
}

// RegisterSchema adds a response schema to the registry, keyed by its ID.
func (r *Registry) RegisterSchema(schema *ResponseSchema) error {
	if schema.ID == "" {
		return fmt.Errorf("schema ID cannot be empty")
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.schemas[schema.ID] = schema
	return nil
}

// GetPrompt retrieves a prompt template by ID.
func (r *Registry) GetPrompt(id string) (*PromptTemplate, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if p, ok := r.prompts[id]; ok {
		return p, nil
	}
	return nil, fmt.Errorf("prompt not found: %s", id)
}

// GetSchema retrieves a response schema by ID.
func (r *Registry) GetSchema(id string) (*ResponseSchema, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if s, ok := r.schemas[id]; ok {
		return s, nil
	}
	return nil, fmt.Errorf("schema not found: %s", id)
}

// GetSystemPrompt returns only the system prompt string for id.
func (r *Registry) GetSystemPrompt(id string) (string, error) {
	pt, err := r.GetPrompt(id)
	if err != nil {
		return "", err
	}
	return pt.SystemPrompt, nil
}

// MustGetSystemPrompt is GetSystemPrompt without the error return, for
// the prompt-builder functions that embed a system prompt registered
// at init time: a missing ID there is a wiring bug, not a runtime
// condition the caller can recover from, so it panics immediately
// instead of silently building a prompt around an empty instruction.
func (r *Registry) MustGetSystemPrompt(id string) string {
	sys, err := r.GetSystemPrompt(id)
	if err != nil {
		panic(fmt.Sprintf("prompt registry: %v", err))
	}
	return sys
}

// ListPrompts returns all registered prompt IDs.
func (r *Registry) ListPrompts() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	ids := make([]string, 0, len(r.prompts))
	for id := range r.prompts {
		ids = append(ids, id)
	}
	return ids
}

// ListByCategory returns all prompts registered under category (e.g.
// CategoryExtraction, CategoryPatient).
func (r *Registry) ListByCategory(category string) []*PromptTemplate {
	r.mu.RLock()
	defer r.mu.RUnlock()
	var result []*PromptTemplate
	for _, pt := range r.prompts {
		if pt.Category == category {
			result = append(result, pt)
		}
	}
	return result
}

// Count returns the number of registered prompts.
func (r *Registry) Count() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.prompts)
}

// Clear removes all registered prompts and schemas, leaving the registry
// empty.
func (r *Registry) Clear() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.prompts = make(map[string]*PromptTemplate)
	r.schemas = make(map[string]*ResponseSchema)
}
