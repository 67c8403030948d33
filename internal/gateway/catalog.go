package gateway

import (
	"net/url"
	"strconv"
	"strings"
)

// ParamType is the semantic type of a tool parameter.
type ParamType string

const (
	ParamString  ParamType = "string"
	ParamNumber  ParamType = "number"
	ParamBoolean ParamType = "boolean"
)

// Param describes one parameter of a tool.
type Param struct {
	Name        string
	Type        ParamType
	Description string
	Required    bool
	// Default is applied when the argument is absent. Nil means no default.
	Default interface{}
	// Positive requires numeric values to be >= 1 (page numbers, ids).
	Positive bool
	// Enum restricts string values to the listed set.
	Enum []string
	// AllowNumeric lets a string parameter accept a JSON number
	// (platform-assigned ids arrive either way).
	AllowNumeric bool
	// Nullable marks a three-state field: absent, explicit null, or set.
	Nullable bool
}

// Shape declares a tool's result shape. The upstream payload is reduced to
// this shape after a successful call (field subset/renaming only).
type Shape string

const (
	ShapeArticleList   Shape = "article_list"
	ShapeArticle       Shape = "article"
	ShapeArticleStatus Shape = "article_status"
	ShapeCommentList   Shape = "comment_list"
	ShapeUser          Shape = "user"
	ShapeTagList       Shape = "tag_list"
	ShapeDeleted       Shape = "deleted"
)

// UpstreamRequest is the concrete upstream call a tool invocation maps to.
// Built once per call and immutable after construction.
type UpstreamRequest struct {
	Method        string
	Path          string
	Query         url.Values
	Body          interface{}
	Credential    Credential
	CorrelationID string
}

// Descriptor is one entry in the tool catalog: identifier, parameter list,
// auth requirement, result shape, and the mapping to an upstream request.
// The full set is constructed once at process start and never mutated.
type Descriptor struct {
	Name         string
	Description  string
	Params       []Param
	RequiresAuth bool
	Shape        Shape

	build func(args *Args) (*UpstreamRequest, error)
}

// Catalog is the immutable, process-wide tool table.
type Catalog struct {
	tools  []*Descriptor
	byName map[string]*Descriptor
}

// Lookup returns the descriptor for a tool identifier.
func (c *Catalog) Lookup(name string) (*Descriptor, bool) {
	d, ok := c.byName[name]
	return d, ok
}

// Tools returns the catalog entries in registration order.
func (c *Catalog) Tools() []*Descriptor {
	result := make([]*Descriptor, len(c.tools))
	copy(result, c.tools)
	return result
}

// Len returns the number of catalog entries.
func (c *Catalog) Len() int {
	return len(c.tools)
}

// pagingParams are shared by every listing tool.
func pagingParams(defaultPerPage int) []Param {
	return []Param{
		{Name: "page", Type: ParamNumber, Description: "Page number for pagination", Default: 1, Positive: true},
		{Name: "per_page", Type: ParamNumber, Description: "Number of results per page", Default: defaultPerPage, Positive: true},
	}
}

// pagingQuery builds the page/per_page query values from validated args.
func pagingQuery(args *Args) url.Values {
	q := url.Values{}
	q.Set("page", strconv.Itoa(args.Int("page")))
	q.Set("per_page", strconv.Itoa(args.Int("per_page")))
	return q
}

// splitTags converts a comma-separated tag string into a trimmed list.
func splitTags(s string) []string {
	parts := strings.Split(s, ",")
	tags := make([]string, 0, len(parts))
	for _, p := range parts {
		if t := strings.TrimSpace(p); t != "" {
			tags = append(tags, t)
		}
	}
	return tags
}

// isNumericID reports whether an identifier is a platform-assigned numeric id
// rather than a title-derived slug.
func isNumericID(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}

// articlePath routes an identifier to the correct upstream lookup:
// numeric ids use /articles/{id}, slugs use the path-based lookup
// /articles/{username}/{slug}. Each segment is escaped individually.
func articlePath(id string) (string, *Error) {
	if isNumericID(id) {
		return "/articles/" + id, nil
	}
	if strings.Contains(id, "..") {
		return "", Errorf(KindInvalidArgument, "invalid article identifier %q", id)
	}
	segments := strings.Split(strings.Trim(id, "/"), "/")
	if len(segments) == 0 || len(segments) > 2 {
		return "", Errorf(KindInvalidArgument, "invalid article identifier %q: expected a numeric id or username/slug", id)
	}
	for i, seg := range segments {
		if seg == "" {
			return "", Errorf(KindInvalidArgument, "invalid article identifier %q", id)
		}
		segments[i] = url.PathEscape(seg)
	}
	return "/articles/" + strings.Join(segments, "/"), nil
}

// NewCatalog constructs the full tool catalog. This is the single place the
// tool set is defined; both transports serve exactly this table.
func NewCatalog() *Catalog {
	c := &Catalog{byName: make(map[string]*Descriptor)}
	add := func(d *Descriptor) {
		c.tools = append(c.tools, d)
		c.byName[d.Name] = d
	}

	add(&Descriptor{
		Name:        "browse_latest_articles",
		Description: "Get the most recent articles from dev.to.",
		Params:      pagingParams(30),
		Shape:       ShapeArticleList,
		build: func(args *Args) (*UpstreamRequest, error) {
			return &UpstreamRequest{Method: "GET", Path: "/articles/latest", Query: pagingQuery(args)}, nil
		},
	})

	add(&Descriptor{
		Name:        "browse_popular_articles",
		Description: "Get the most popular articles from dev.to.",
		Params:      pagingParams(30),
		Shape:       ShapeArticleList,
		build: func(args *Args) (*UpstreamRequest, error) {
			return &UpstreamRequest{Method: "GET", Path: "/articles", Query: pagingQuery(args)}, nil
		},
	})

	add(&Descriptor{
		Name:        "browse_articles_by_tag",
		Description: "Get articles with a specific tag.",
		Params: append([]Param{
			{Name: "tag", Type: ParamString, Description: "The tag to filter articles by", Required: true},
		}, pagingParams(30)...),
		Shape: ShapeArticleList,
		build: func(args *Args) (*UpstreamRequest, error) {
			q := pagingQuery(args)
			q.Set("tag", args.String("tag"))
			return &UpstreamRequest{Method: "GET", Path: "/articles", Query: q}, nil
		},
	})

	add(&Descriptor{
		Name:        "browse_articles_by_user",
		Description: "Get articles published by a specific dev.to user.",
		Params: append([]Param{
			{Name: "username", Type: ParamString, Description: "The dev.to username to list articles for", Required: true},
		}, pagingParams(30)...),
		Shape: ShapeArticleList,
		build: func(args *Args) (*UpstreamRequest, error) {
			q := pagingQuery(args)
			q.Set("username", args.String("username"))
			return &UpstreamRequest{Method: "GET", Path: "/articles", Query: q}, nil
		},
	})

	add(&Descriptor{
		Name:        "search_articles",
		Description: "Search dev.to articles by keywords.",
		Params: append([]Param{
			{Name: "query", Type: ParamString, Description: "The search term", Required: true},
		}, pagingParams(30)...),
		Shape: ShapeArticleList,
		build: func(args *Args) (*UpstreamRequest, error) {
			q := pagingQuery(args)
			q.Set("search_fields", args.String("query"))
			return &UpstreamRequest{Method: "GET", Path: "/search/feed_content", Query: q}, nil
		},
	})

	add(&Descriptor{
		Name:        "get_article",
		Description: "Get a specific article by numeric id or by username/slug.",
		Params: []Param{
			{Name: "id", Type: ParamString, Description: "Numeric article id, or 'username/slug' for slug lookup", Required: true, AllowNumeric: true},
		},
		Shape: ShapeArticle,
		build: func(args *Args) (*UpstreamRequest, error) {
			path, err := articlePath(args.String("id"))
			if err != nil {
				return nil, err
			}
			return &UpstreamRequest{Method: "GET", Path: path}, nil
		},
	})

	add(&Descriptor{
		Name:        "get_article_comments",
		Description: "Get the comment threads for an article.",
		Params: []Param{
			{Name: "article_id", Type: ParamString, Description: "Numeric id of the article", Required: true, AllowNumeric: true},
		},
		Shape: ShapeCommentList,
		build: func(args *Args) (*UpstreamRequest, error) {
			id := args.String("article_id")
			if !isNumericID(id) {
				return nil, Errorf(KindInvalidArgument, "article_id must be a numeric id, got %q", id)
			}
			q := url.Values{}
			q.Set("a_id", id)
			return &UpstreamRequest{Method: "GET", Path: "/comments", Query: q}, nil
		},
	})

	add(&Descriptor{
		Name:        "get_user_profile",
		Description: "Get profile information for a dev.to user by username.",
		Params: []Param{
			{Name: "username", Type: ParamString, Description: "The username of the dev.to user", Required: true},
		},
		Shape: ShapeUser,
		build: func(args *Args) (*UpstreamRequest, error) {
			q := url.Values{}
			q.Set("url", args.String("username"))
			return &UpstreamRequest{Method: "GET", Path: "/users/by_username", Query: q}, nil
		},
	})

	add(&Descriptor{
		Name:        "get_user",
		Description: "Get profile information for a dev.to user by numeric id.",
		Params: []Param{
			{Name: "id", Type: ParamString, Description: "Numeric id of the user", Required: true, AllowNumeric: true},
		},
		Shape: ShapeUser,
		build: func(args *Args) (*UpstreamRequest, error) {
			id := args.String("id")
			if !isNumericID(id) {
				return nil, Errorf(KindInvalidArgument, "id must be a numeric user id, got %q", id)
			}
			return &UpstreamRequest{Method: "GET", Path: "/users/" + id}, nil
		},
	})

	add(&Descriptor{
		Name:        "list_tags",
		Description: "List tags on dev.to.",
		Params:      pagingParams(10),
		Shape:       ShapeTagList,
		build: func(args *Args) (*UpstreamRequest, error) {
			return &UpstreamRequest{Method: "GET", Path: "/tags", Query: pagingQuery(args)}, nil
		},
	})

	add(&Descriptor{
		Name:         "get_my_profile",
		Description:  "Get the authenticated user's own profile.",
		RequiresAuth: true,
		Shape:        ShapeUser,
		build: func(args *Args) (*UpstreamRequest, error) {
			return &UpstreamRequest{Method: "GET", Path: "/users/me"}, nil
		},
	})

	add(&Descriptor{
		Name:        "list_my_articles",
		Description: "List the authenticated user's articles.",
		Params: append([]Param{
			{Name: "status", Type: ParamString, Description: "Which articles to list: all, published, or unpublished", Default: "all", Enum: []string{"all", "published", "unpublished"}},
		}, pagingParams(30)...),
		RequiresAuth: true,
		Shape:        ShapeArticleList,
		build: func(args *Args) (*UpstreamRequest, error) {
			return &UpstreamRequest{Method: "GET", Path: "/articles/me/" + args.String("status"), Query: pagingQuery(args)}, nil
		},
	})

	add(&Descriptor{
		Name:        "create_article",
		Description: "Create a new article on dev.to. Created as a draft unless published is true.",
		Params: []Param{
			{Name: "title", Type: ParamString, Description: "The title of the article", Required: true},
			{Name: "content", Type: ParamString, Description: "The markdown content of the article", Required: true},
			{Name: "tags", Type: ParamString, Description: "Comma-separated list of tags (e.g. 'go,webdev')", Default: ""},
			{Name: "published", Type: ParamBoolean, Description: "Whether to publish immediately", Default: false},
			{Name: "description", Type: ParamString, Description: "Optional article description"},
			{Name: "series", Type: ParamString, Description: "Optional series name to file the article under"},
		},
		RequiresAuth: true,
		Shape:        ShapeArticleStatus,
		build: func(args *Args) (*UpstreamRequest, error) {
			article := map[string]interface{}{
				"title":         args.String("title"),
				"body_markdown": args.String("content"),
				"published":     args.Bool("published"),
				"tags":          splitTags(args.String("tags")),
			}
			if v := args.String("description"); v != "" {
				article["description"] = v
			}
			if v := args.String("series"); v != "" {
				article["series"] = v
			}
			return &UpstreamRequest{
				Method: "POST",
				Path:   "/articles",
				Body:   map[string]interface{}{"article": article},
			}, nil
		},
	})

	add(&Descriptor{
		Name:        "update_article",
		Description: "Update an existing article. Only the fields supplied are changed; pass null to clear a field.",
		Params: []Param{
			{Name: "id", Type: ParamString, Description: "Numeric id of the article to update", Required: true, AllowNumeric: true},
			{Name: "title", Type: ParamString, Description: "New title", Nullable: true},
			{Name: "content", Type: ParamString, Description: "New markdown content", Nullable: true},
			{Name: "tags", Type: ParamString, Description: "New comma-separated tag list; null clears all tags", Nullable: true},
			{Name: "published", Type: ParamBoolean, Description: "New publish status", Nullable: true},
			{Name: "description", Type: ParamString, Description: "New description", Nullable: true},
			{Name: "series", Type: ParamString, Description: "New series name; null removes the article from its series", Nullable: true},
		},
		RequiresAuth: true,
		Shape:        ShapeArticleStatus,
		build:        buildUpdateArticle,
	})

	add(&Descriptor{
		Name:        "publish_article",
		Description: "Publish a draft article.",
		Params: []Param{
			{Name: "id", Type: ParamString, Description: "Numeric id of the article to publish", Required: true, AllowNumeric: true},
		},
		RequiresAuth: true,
		Shape:        ShapeArticleStatus,
		build:        buildSetPublished(true),
	})

	add(&Descriptor{
		Name:        "unpublish_article",
		Description: "Unpublish an article, returning it to draft state.",
		Params: []Param{
			{Name: "id", Type: ParamString, Description: "Numeric id of the article to unpublish", Required: true, AllowNumeric: true},
		},
		RequiresAuth: true,
		Shape:        ShapeArticleStatus,
		build:        buildSetPublished(false),
	})

	add(&Descriptor{
		Name:        "delete_article",
		Description: "Delete an article permanently.",
		Params: []Param{
			{Name: "id", Type: ParamString, Description: "Numeric id of the article to delete", Required: true, AllowNumeric: true},
		},
		RequiresAuth: true,
		Shape:        ShapeDeleted,
		build: func(args *Args) (*UpstreamRequest, error) {
			id := args.String("id")
			if !isNumericID(id) {
				return nil, Errorf(KindInvalidArgument, "id must be a numeric article id, got %q", id)
			}
			return &UpstreamRequest{Method: "DELETE", Path: "/articles/" + id}, nil
		},
	})

	return c
}

// updateFieldNames maps tool argument names to upstream body field names for
// partial updates.
var updateFieldNames = map[string]string{
	"title":       "title",
	"content":     "body_markdown",
	"tags":        "tags",
	"published":   "published",
	"description": "description",
	"series":      "series",
}

// buildUpdateArticle builds a partial-update request. The body carries only
// the fields the caller explicitly supplied: absent fields are omitted
// entirely, explicit nulls are forwarded (tags clear to an empty list, which
// is how the upstream models "no tags").
func buildUpdateArticle(args *Args) (*UpstreamRequest, error) {
	id := args.String("id")
	if !isNumericID(id) {
		return nil, Errorf(KindInvalidArgument, "id must be a numeric article id, got %q", id)
	}

	article := map[string]interface{}{}
	for arg, field := range updateFieldNames {
		f := args.Field(arg)
		if !f.Present() {
			continue
		}
		switch {
		case arg == "tags" && f.Null():
			article[field] = []string{}
		case arg == "tags":
			article[field] = splitTags(args.String(arg))
		case f.Null():
			article[field] = nil
		case arg == "published":
			article[field] = args.Bool(arg)
		default:
			article[field] = args.String(arg)
		}
	}

	if len(article) == 0 {
		return nil, Errorf(KindInvalidArgument, "update_article requires at least one field to change")
	}

	return &UpstreamRequest{
		Method: "PUT",
		Path:   "/articles/" + id,
		Body:   map[string]interface{}{"article": article},
	}, nil
}

// buildSetPublished builds the publish/unpublish partial update.
func buildSetPublished(published bool) func(args *Args) (*UpstreamRequest, error) {
	return func(args *Args) (*UpstreamRequest, error) {
		id := args.String("id")
		if !isNumericID(id) {
			return nil, Errorf(KindInvalidArgument, "id must be a numeric article id, got %q", id)
		}
		return &UpstreamRequest{
			Method: "PUT",
			Path:   "/articles/" + id,
			Body:   map[string]interface{}{"article": map[string]interface{}{"published": published}},
		}, nil
	}
}
