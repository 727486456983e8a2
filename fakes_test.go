package advisor

import (
	"context"
	"sync"
)

// fakeLLM returns scripted replies in order and repeats the last one.
type fakeLLM struct {
	mu      sync.Mutex
	replies []string
	prompts []string
	models  []string
}

func (f *fakeLLM) Complete(ctx context.Context, prompt, model string) string {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.prompts = append(f.prompts, prompt)
	f.models = append(f.models, model)
	if len(f.replies) == 0 {
		return ""
	}
	i := len(f.prompts) - 1
	if i >= len(f.replies) {
		i = len(f.replies) - 1
	}
	return f.replies[i]
}

func (f *fakeLLM) calls() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.prompts)
}

func (f *fakeLLM) lastPrompt() string {
	f.mu.Lock()
	defer f.mu.Unlock()
	if len(f.prompts) == 0 {
		return ""
	}
	return f.prompts[len(f.prompts)-1]
}

// fakeCatalog serves search hits by query and specifications by id.
type fakeCatalog struct {
	mu       sync.Mutex
	hits     map[string][]DeviceSummary
	specs    map[string]DeviceSpecification
	searches []SearchParams
	fetches  []FetchParams
	panicMsg string

	// fetchPanics makes FetchByID panic with the message for an id.
	fetchPanics map[string]string
}

func (f *fakeCatalog) Search(ctx context.Context, params SearchParams) []DeviceSummary {
	if f.panicMsg != "" {
		panic(f.panicMsg)
	}
	f.mu.Lock()
	defer f.mu.Unlock()

	f.searches = append(f.searches, params)
	return f.hits[params.Query]
}

func (f *fakeCatalog) FetchByID(ctx context.Context, params FetchParams) DeviceSpecification {
	f.mu.Lock()
	f.fetches = append(f.fetches, params)
	msg, panics := f.fetchPanics[params.ID]
	spec := f.specs[params.ID]
	f.mu.Unlock()

	if panics {
		panic(msg)
	}
	return spec
}

func phone(id, name string) DeviceSpecification {
	return DeviceSpecification{"id": id, "name": name, "ram": "8GB"}
}
