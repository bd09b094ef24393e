package catalog

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/goliatone/go-quizbox/internal/domain"
	"github.com/google/uuid"
	"gopkg.in/yaml.v3"
)

// Fixtures is the YAML seed document understood by Seed.
type Fixtures struct {
	Questions []QuestionFixture `yaml:"questions"`
	Riddles   []RiddleFixture   `yaml:"riddles"`
	Jokes     []JokeFixture     `yaml:"jokes"`
}

type QuestionFixture struct {
	ID         string   `yaml:"id"`
	Category   string   `yaml:"category"`
	Prompt     string   `yaml:"prompt"`
	Answer     string   `yaml:"answer"`
	Choices    []string `yaml:"choices"`
	Difficulty string   `yaml:"difficulty"`
	Status     string   `yaml:"status"`
}

type RiddleFixture struct {
	ID     string `yaml:"id"`
	Prompt string `yaml:"prompt"`
	Answer string `yaml:"answer"`
	Hint   string `yaml:"hint"`
	Status string `yaml:"status"`
}

type JokeFixture struct {
	ID        string `yaml:"id"`
	Category  string `yaml:"category"`
	Setup     string `yaml:"setup"`
	Punchline string `yaml:"punchline"`
	Status    string `yaml:"status"`
}

// LoadFixtures reads a YAML fixture file.
func LoadFixtures(path string) (Fixtures, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Fixtures{}, fmt.Errorf("read fixtures: %w", err)
	}
	return ParseFixtures(data)
}

// ParseFixtures decodes a YAML fixture document.
func ParseFixtures(data []byte) (Fixtures, error) {
	var fx Fixtures
	if err := yaml.Unmarshal(data, &fx); err != nil {
		return Fixtures{}, fmt.Errorf("decode fixtures: %w", err)
	}
	return fx, nil
}

// SeedSummary reports how many records Seed created per kind.
type SeedSummary map[domain.ContentKind]int

// Seed inserts the fixtures through the registry's bun stores.
func Seed(ctx context.Context, registry *Registry, fx Fixtures) (SeedSummary, error) {
	if registry == nil || registry.Questions == nil || registry.Riddles == nil || registry.Jokes == nil {
		return nil, ErrDatabaseRequired
	}
	summary := SeedSummary{}

	for i, item := range fx.Questions {
		id, status, err := fixtureIdentity(item.ID, item.Status)
		if err != nil {
			return summary, fmt.Errorf("question fixture %d: %w", i, err)
		}
		difficulty := strings.TrimSpace(item.Difficulty)
		if difficulty == "" {
			difficulty = "medium"
		}
		record := &Question{
			ID:         id,
			Category:   strings.TrimSpace(item.Category),
			Prompt:     item.Prompt,
			Answer:     item.Answer,
			Choices:    item.Choices,
			Difficulty: difficulty,
			Status:     string(status),
		}
		if _, err := registry.Questions.Create(ctx, record); err != nil {
			return summary, fmt.Errorf("seed question %s: %w", id, err)
		}
		summary[domain.KindQuestion]++
	}

	for i, item := range fx.Riddles {
		id, status, err := fixtureIdentity(item.ID, item.Status)
		if err != nil {
			return summary, fmt.Errorf("riddle fixture %d: %w", i, err)
		}
		record := &Riddle{
			ID:     id,
			Prompt: item.Prompt,
			Answer: item.Answer,
			Status: string(status),
		}
		if hint := strings.TrimSpace(item.Hint); hint != "" {
			record.Hint = &hint
		}
		if _, err := registry.Riddles.Create(ctx, record); err != nil {
			return summary, fmt.Errorf("seed riddle %s: %w", id, err)
		}
		summary[domain.KindRiddle]++
	}

	for i, item := range fx.Jokes {
		id, status, err := fixtureIdentity(item.ID, item.Status)
		if err != nil {
			return summary, fmt.Errorf("joke fixture %d: %w", i, err)
		}
		record := &Joke{
			ID:        id,
			Category:  strings.TrimSpace(item.Category),
			Setup:     item.Setup,
			Punchline: item.Punchline,
			Status:    string(status),
		}
		if _, err := registry.Jokes.Create(ctx, record); err != nil {
			return summary, fmt.Errorf("seed joke %s: %w", id, err)
		}
		summary[domain.KindJoke]++
	}

	return summary, nil
}

func fixtureIdentity(rawID, rawStatus string) (uuid.UUID, domain.ContentStatus, error) {
	id := uuid.New()
	if trimmed := strings.TrimSpace(rawID); trimmed != "" {
		parsed, err := uuid.Parse(trimmed)
		if err != nil {
			return uuid.Nil, "", fmt.Errorf("invalid id %q: %w", rawID, err)
		}
		id = parsed
	}
	status := domain.StatusDraft
	if strings.TrimSpace(rawStatus) != "" {
		parsed, ok := domain.ParseContentStatus(rawStatus)
		if !ok {
			return uuid.Nil, "", fmt.Errorf("%w: %s", ErrInvalidStatus, rawStatus)
		}
		status = parsed
	}
	return id, status, nil
}
