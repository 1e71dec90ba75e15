package store

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"

	"github.com/rpgo/fiscal-engine/internal/domain"
)

// Memory is an in-memory FilingStore for tests and single-shot CLI runs.
type Memory struct {
	mu      sync.RWMutex
	records []FilingRecord
	rules   map[string][]byte
}

func NewMemory() *Memory {
	return &Memory{rules: make(map[string][]byte)}
}

func (m *Memory) SetFiled(_ context.Context, rec FilingRecord) error {
	if rec.DeadlineID == "" {
		return fmt.Errorf("filing record has no deadline id")
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.records = append(m.records, rec)
	return nil
}

func (m *Memory) Filings(_ context.Context, year int) (map[string]bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	var matching []FilingRecord
	for _, r := range m.records {
		if r.Year == year {
			matching = append(matching, r)
		}
	}
	return Fold(matching), nil
}

func (m *Memory) History(_ context.Context, deadlineID string) ([]FilingRecord, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	var out []FilingRecord
	for _, r := range m.records {
		if r.DeadlineID == deadlineID {
			out = append(out, r)
		}
	}
	return out, nil
}

// SaveRules keeps an encoded copy so later changes to cfg do not leak in.
func (m *Memory) SaveRules(_ context.Context, name string, cfg *domain.Configuration) error {
	data, err := json.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("failed to encode rules %s: %w", name, err)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.rules[name] = data
	return nil
}

func (m *Memory) LoadRules(_ context.Context, name string) (*domain.Configuration, error) {
	m.mu.RLock()
	data, ok := m.rules[name]
	m.mu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrRulesNotFound, name)
	}
	var cfg domain.Configuration
	if err := json.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to decode rules %s: %w", name, err)
	}
	return &cfg, nil
}

func (m *Memory) Close() error { return nil }
