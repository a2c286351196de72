package models

import "time"

// Project represents a portfolio project as persisted in projects.json
type Project struct {
	ID        int64      `json:"id"`
	Title     string     `json:"title"`
	Link      *string    `json:"link"`
	Media     *string    `json:"media"`
	CreatedAt time.Time  `json:"createdAt"`
	UpdatedAt *time.Time `json:"updatedAt,omitempty"`
}

type ProjectFields struct {
	Title string  `json:"title"`
	Link  *string `json:"link"`
}

// ProjectPatch holds the fields of a project update. Nil fields keep their prior values.
type ProjectPatch struct {
	Title *string `json:"title"`
	Link  *string `json:"link"`
}

func (patch ProjectPatch) Apply(p *Project) {
	if patch.Title != nil {
		p.Title = *patch.Title
	}
	if patch.Link != nil {
		p.Link = patch.Link
	}
}
