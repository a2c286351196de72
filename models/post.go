package models

import "time"

// DefaultPostType is used when a post is created without a type
const DefaultPostType = "blog"

// Post represents a blog post as persisted in posts.json
type Post struct {
	ID        int64      `json:"id"`
	Title     string     `json:"title"`
	Content   string     `json:"content"`
	Type      string     `json:"type"`
	Link      *string    `json:"link"`
	BlogLink  *string    `json:"blogLink"`
	Media     *string    `json:"media"`
	CreatedAt time.Time  `json:"createdAt"`
	UpdatedAt *time.Time `json:"updatedAt,omitempty"`
}

// PostFields holds the client-supplied fields of a new post
type PostFields struct {
	Title    string  `json:"title"`
	Content  string  `json:"content"`
	Type     string  `json:"type"`
	Link     *string `json:"link"`
	BlogLink *string `json:"blogLink"`
}

// PostPatch holds the fields of a post update. Nil fields keep their prior values.
type PostPatch struct {
	Title    *string `json:"title"`
	Content  *string `json:"content"`
	Type     *string `json:"type"`
	Link     *string `json:"link"`
	BlogLink *string `json:"blogLink"`
}

// Apply merges the patch over p
func (patch PostPatch) Apply(p *Post) {
	if patch.Title != nil {
		p.Title = *patch.Title
	}
	if patch.Content != nil {
		p.Content = *patch.Content
	}
	if patch.Type != nil {
		p.Type = *patch.Type
	}
	if patch.Link != nil {
		p.Link = patch.Link
	}
	if patch.BlogLink != nil {
		p.BlogLink = patch.BlogLink
	}
}
