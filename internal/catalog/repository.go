package catalog

import (
	"github.com/goliatone/go-repository-bun"
	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

func NewQuestionRepository(db *bun.DB) repository.Repository[*Question] {
	return repository.MustNewRepository(db, repository.ModelHandlers[*Question]{
		NewRecord: func() *Question { return &Question{} },
		GetID: func(q *Question) uuid.UUID {
			return q.ID
		},
		SetID: func(q *Question, id uuid.UUID) {
			q.ID = id
		},
		GetIdentifier: func() string {
			return "id"
		},
		GetIdentifierValue: func(q *Question) string {
			if q == nil {
				return ""
			}
			return q.ID.String()
		},
	})
}

func NewRiddleRepository(db *bun.DB) repository.Repository[*Riddle] {
	return repository.MustNewRepository(db, repository.ModelHandlers[*Riddle]{
		NewRecord: func() *Riddle { return &Riddle{} },
		GetID: func(r *Riddle) uuid.UUID {
			return r.ID
		},
		SetID: func(r *Riddle, id uuid.UUID) {
			r.ID = id
		},
		GetIdentifier: func() string {
			return "id"
		},
		GetIdentifierValue: func(r *Riddle) string {
			if r == nil {
				return ""
			}
			return r.ID.String()
		},
	})
}

func NewJokeRepository(db *bun.DB) repository.Repository[*Joke] {
	return repository.MustNewRepository(db, repository.ModelHandlers[*Joke]{
		NewRecord: func() *Joke { return &Joke{} },
		GetID: func(j *Joke) uuid.UUID {
			return j.ID
		},
		SetID: func(j *Joke, id uuid.UUID) {
			j.ID = id
		},
		GetIdentifier: func() string {
			return "id"
		},
		GetIdentifierValue: func(j *Joke) string {
			if j == nil {
				return ""
			}
			return j.ID.String()
		},
	})
}
