package catalog

import (
	"time"

	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

// Question is a multiple choice quiz entry.
type Question struct {
	bun.BaseModel `bun:"table:questions,alias:q"`

	ID         uuid.UUID `bun:",pk,type:uuid"                     json:"id"`
	Category   string    `bun:"category,notnull"                  json:"category"`
	Prompt     string    `bun:"prompt,notnull"                    json:"prompt"`
	Answer     string    `bun:"answer,notnull"                    json:"answer"`
	Choices    []string  `bun:"choices,type:jsonb"                json:"choices,omitempty"`
	Difficulty string    `bun:"difficulty,notnull,default:'medium'" json:"difficulty"`
	Status     string    `bun:"status,notnull,default:'draft'"    json:"status"`
	CreatedAt  time.Time `bun:"created_at,nullzero,default:current_timestamp" json:"created_at"`
	UpdatedAt  time.Time `bun:"updated_at,nullzero,default:current_timestamp" json:"updated_at"`
}

// Riddle pairs a prompt with its answer and an optional hint.
type Riddle struct {
	bun.BaseModel `bun:"table:riddles,alias:r"`

	ID        uuid.UUID `bun:",pk,type:uuid"                  json:"id"`
	Prompt    string    `bun:"prompt,notnull"                 json:"prompt"`
	Answer    string    `bun:"answer,notnull"                 json:"answer"`
	Hint      *string   `bun:"hint"                           json:"hint,omitempty"`
	Status    string    `bun:"status,notnull,default:'draft'" json:"status"`
	CreatedAt time.Time `bun:"created_at,nullzero,default:current_timestamp" json:"created_at"`
	UpdatedAt time.Time `bun:"updated_at,nullzero,default:current_timestamp" json:"updated_at"`
}

// Joke is a setup/punchline pair.
type Joke struct {
	bun.BaseModel `bun:"table:jokes,alias:j"`

	ID        uuid.UUID `bun:",pk,type:uuid"                  json:"id"`
	Category  string    `bun:"category"                       json:"category,omitempty"`
	Setup     string    `bun:"setup,notnull"                  json:"setup"`
	Punchline string    `bun:"punchline,notnull"              json:"punchline"`
	Status    string    `bun:"status,notnull,default:'draft'" json:"status"`
	CreatedAt time.Time `bun:"created_at,nullzero,default:current_timestamp" json:"created_at"`
	UpdatedAt time.Time `bun:"updated_at,nullzero,default:current_timestamp" json:"updated_at"`
}

func (q *Question) statusFields() (uuid.UUID, string, time.Time) { return q.ID, q.Status, q.UpdatedAt }
func (r *Riddle) statusFields() (uuid.UUID, string, time.Time)   { return r.ID, r.Status, r.UpdatedAt }
func (j *Joke) statusFields() (uuid.UUID, string, time.Time)     { return j.ID, j.Status, j.UpdatedAt }
