// Package devto adapts tool calls to the dev.to HTTP API.
package devto

import (
	"encoding/json"
	"strings"

	"github.com/pressops/devto-mcp/internal/gateway"
)

// TagList tolerates both encodings dev.to uses for tags: a JSON array on
// list endpoints and a comma-separated string on detail endpoints.
type TagList []string

func (t *TagList) UnmarshalJSON(data []byte) error {
	var list []string
	if err := json.Unmarshal(data, &list); err == nil {
		*t = list
		return nil
	}
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	if s == "" {
		*t = nil
		return nil
	}
	parts := strings.Split(s, ",")
	list = make([]string, 0, len(parts))
	for _, p := range parts {
		if v := strings.TrimSpace(p); v != "" {
			list = append(list, v)
		}
	}
	*t = list
	return nil
}

// article is the upstream article payload (only the fields the gateway uses).
type article struct {
	ID                   int     `json:"id"`
	Title                string  `json:"title"`
	URL                  string  `json:"url"`
	PublishedAt          string  `json:"published_at"`
	Description          string  `json:"description"`
	BodyMarkdown         string  `json:"body_markdown"`
	TagList              TagList `json:"tag_list"`
	Tags                 TagList `json:"tags"`
	CommentsCount        int     `json:"comments_count"`
	PublicReactionsCount int     `json:"public_reactions_count"`
	Published            bool    `json:"published"`
	User                 struct {
		Username string `json:"username"`
	} `json:"user"`
}

func (a *article) tags() []string {
	if len(a.TagList) > 0 {
		return a.TagList
	}
	return a.Tags
}

// user is the upstream user payload.
type user struct {
	Name            string `json:"name"`
	Username        string `json:"username"`
	Summary         string `json:"summary"`
	Location        string `json:"location"`
	JoinedAt        string `json:"joined_at"`
	TwitterUsername string `json:"twitter_username"`
	GithubUsername  string `json:"github_username"`
	WebsiteURL      string `json:"website_url"`
}

// comment is one node of an upstream comment thread.
type comment struct {
	IDCode    string    `json:"id_code"`
	CreatedAt string    `json:"created_at"`
	BodyHTML  string    `json:"body_html"`
	Children  []comment `json:"children"`
	User      struct {
		Username string `json:"username"`
	} `json:"user"`
}

// tag is one upstream tag entry.
type tag struct {
	ID   int    `json:"id"`
	Name string `json:"name"`
}

// ArticleSummary is the declared result shape for article listings.
type ArticleSummary struct {
	ID          int      `json:"id"`
	Title       string   `json:"title"`
	URL         string   `json:"url"`
	PublishedAt string   `json:"published_at"`
	Description string   `json:"description"`
	Tags        []string `json:"tags"`
	Author      string   `json:"author"`
}

// ArticleDetail is the declared result shape for a single article read.
type ArticleDetail struct {
	ArticleSummary
	Content        string `json:"content"`
	CommentsCount  int    `json:"comments_count"`
	ReactionsCount int    `json:"public_reactions_count"`
	Published      bool   `json:"published"`
}

// UserProfile is the declared result shape for user reads.
type UserProfile struct {
	Name            string `json:"name"`
	Username        string `json:"username"`
	Bio             string `json:"bio"`
	Location        string `json:"location"`
	JoinedAt        string `json:"joined_at"`
	TwitterUsername string `json:"twitter_username"`
	GithubUsername  string `json:"github_username"`
	WebsiteURL      string `json:"website_url"`
}

// CommentSummary is the declared result shape for comment threads.
type CommentSummary struct {
	ID        string           `json:"id"`
	Author    string           `json:"author"`
	CreatedAt string           `json:"created_at"`
	Body      string           `json:"body"`
	Children  []CommentSummary `json:"children,omitempty"`
}

// TagSummary is the declared result shape for tag listings.
type TagSummary struct {
	ID   int    `json:"id"`
	Name string `json:"name"`
}

// ArticleStatus is the declared result shape for mutations.
type ArticleStatus struct {
	ID     int    `json:"id"`
	Title  string `json:"title"`
	URL    string `json:"url"`
	Status string `json:"status"`
}

// DeleteStatus is the declared result shape for deletions.
type DeleteStatus struct {
	Status string `json:"status"`
}

// Reshape reduces a raw upstream payload to the tool's declared result
// shape. Malformed upstream JSON is an upstream fault, never a crash.
func Reshape(shape gateway.Shape, raw json.RawMessage) (interface{}, error) {
	switch shape {
	case gateway.ShapeArticleList:
		return reshapeArticleList(raw)
	case gateway.ShapeArticle:
		var a article
		if err := unmarshal(raw, &a); err != nil {
			return nil, err
		}
		return ArticleDetail{
			ArticleSummary: summarize(a),
			Content:        a.BodyMarkdown,
			CommentsCount:  a.CommentsCount,
			ReactionsCount: a.PublicReactionsCount,
			Published:      a.Published,
		}, nil
	case gateway.ShapeArticleStatus:
		var a article
		if err := unmarshal(raw, &a); err != nil {
			return nil, err
		}
		status := "Draft"
		if a.Published {
			status = "Published"
		}
		return ArticleStatus{ID: a.ID, Title: a.Title, URL: a.URL, Status: status}, nil
	case gateway.ShapeCommentList:
		var comments []comment
		if err := unmarshal(raw, &comments); err != nil {
			return nil, err
		}
		return summarizeComments(comments), nil
	case gateway.ShapeUser:
		var u user
		if err := unmarshal(raw, &u); err != nil {
			return nil, err
		}
		return UserProfile{
			Name:            u.Name,
			Username:        u.Username,
			Bio:             u.Summary,
			Location:        u.Location,
			JoinedAt:        u.JoinedAt,
			TwitterUsername: u.TwitterUsername,
			GithubUsername:  u.GithubUsername,
			WebsiteURL:      u.WebsiteURL,
		}, nil
	case gateway.ShapeTagList:
		var tags []tag
		if err := unmarshal(raw, &tags); err != nil {
			return nil, err
		}
		result := make([]TagSummary, len(tags))
		for i, t := range tags {
			result[i] = TagSummary{ID: t.ID, Name: t.Name}
		}
		return result, nil
	case gateway.ShapeDeleted:
		return DeleteStatus{Status: "Deleted"}, nil
	}
	return nil, gateway.Errorf(gateway.KindUpstreamUnavailable, "unknown result shape %q", shape)
}

// reshapeArticleList handles both list encodings: a bare array (article
// endpoints) and an object with a "result" array (the search endpoint).
func reshapeArticleList(raw json.RawMessage) (interface{}, error) {
	var articles []article
	if err := json.Unmarshal(raw, &articles); err != nil {
		var wrapped struct {
			Result []article `json:"result"`
		}
		if err := unmarshal(raw, &wrapped); err != nil {
			return nil, err
		}
		articles = wrapped.Result
	}
	result := make([]ArticleSummary, len(articles))
	for i, a := range articles {
		result[i] = summarize(a)
	}
	return result, nil
}

func summarize(a article) ArticleSummary {
	return ArticleSummary{
		ID:          a.ID,
		Title:       a.Title,
		URL:         a.URL,
		PublishedAt: a.PublishedAt,
		Description: a.Description,
		Tags:        a.tags(),
		Author:      a.User.Username,
	}
}

func summarizeComments(comments []comment) []CommentSummary {
	result := make([]CommentSummary, len(comments))
	for i, c := range comments {
		result[i] = CommentSummary{
			ID:        c.IDCode,
			Author:    c.User.Username,
			CreatedAt: c.CreatedAt,
			Body:      c.BodyHTML,
			Children:  summarizeComments(c.Children),
		}
	}
	return result
}

func unmarshal(raw json.RawMessage, v interface{}) error {
	if err := json.Unmarshal(raw, v); err != nil {
		return gateway.Errorf(gateway.KindUpstreamUnavailable, "upstream returned malformed JSON: %v", err)
	}
	return nil
}
