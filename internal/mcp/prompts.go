package mcp

import (
	"context"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
)

// RegisterPrompts registers the canned prompt templates guiding clients
// through common content workflows.
func RegisterPrompts(s *server.MCPServer) int {
	prompts := []struct {
		prompt  mcp.Prompt
		handler server.PromptHandlerFunc
	}{
		{
			prompt: mcp.NewPrompt("get_article",
				mcp.WithPromptDescription("Read a dev.to article and summarize it"),
				mcp.WithArgument("id", mcp.ArgumentDescription("Article id or username/slug"), mcp.RequiredArgument()),
			),
			handler: staticPrompt(func(args map[string]string) string {
				return fmt.Sprintf("Please get the dev.to article %s and provide a summary of its key points and insights.", args["id"])
			}),
		},
		{
			prompt: mcp.NewPrompt("search_articles",
				mcp.WithPromptDescription("Search dev.to articles on a topic"),
				mcp.WithArgument("query", mcp.ArgumentDescription("Topic or keywords to search for"), mcp.RequiredArgument()),
			),
			handler: staticPrompt(func(args map[string]string) string {
				return fmt.Sprintf("Please search for articles on dev.to about %s and summarize the key findings.", args["query"])
			}),
		},
		{
			prompt: mcp.NewPrompt("list_my_articles",
				mcp.WithPromptDescription("List your own dev.to articles"),
			),
			handler: staticPrompt(func(map[string]string) string {
				return "Please list my articles on dev.to."
			}),
		},
		{
			prompt: mcp.NewPrompt("create_article",
				mcp.WithPromptDescription("Draft a new dev.to article"),
				mcp.WithArgument("title", mcp.ArgumentDescription("Title for the new article"), mcp.RequiredArgument()),
				mcp.WithArgument("topic", mcp.ArgumentDescription("What the article should cover"), mcp.RequiredArgument()),
			),
			handler: staticPrompt(func(args map[string]string) string {
				return fmt.Sprintf("Please create a new draft article on dev.to titled '%s' covering: %s.", args["title"], args["topic"])
			}),
		},
		{
			prompt: mcp.NewPrompt("update_article",
				mcp.WithPromptDescription("Update an existing dev.to article"),
				mcp.WithArgument("id", mcp.ArgumentDescription("Numeric id of the article"), mcp.RequiredArgument()),
				mcp.WithArgument("changes", mcp.ArgumentDescription("The changes to make"), mcp.RequiredArgument()),
			),
			handler: staticPrompt(func(args map[string]string) string {
				return fmt.Sprintf("Please update the dev.to article with id %s with the following changes: %s. Only change the fields mentioned.", args["id"], args["changes"])
			}),
		},
		{
			prompt: mcp.NewPrompt("publish_article",
				mcp.WithPromptDescription("Publish a draft dev.to article"),
				mcp.WithArgument("id", mcp.ArgumentDescription("Numeric id of the article"), mcp.RequiredArgument()),
			),
			handler: staticPrompt(func(args map[string]string) string {
				return fmt.Sprintf("Please publish the dev.to article with id %s.", args["id"])
			}),
		},
		{
			prompt: mcp.NewPrompt("get_user_profile",
				mcp.WithPromptDescription("Look up a dev.to user"),
				mcp.WithArgument("username", mcp.ArgumentDescription("The dev.to username"), mcp.RequiredArgument()),
			),
			handler: staticPrompt(func(args map[string]string) string {
				return fmt.Sprintf("Please get the dev.to profile for user %s and summarize who they are and what they write about.", args["username"])
			}),
		},
	}

	for _, p := range prompts {
		s.AddPrompt(p.prompt, p.handler)
	}
	return len(prompts)
}

// staticPrompt wraps a text template into a single-message prompt handler.
func staticPrompt(render func(args map[string]string) string) server.PromptHandlerFunc {
	return func(ctx context.Context, request mcp.GetPromptRequest) (*mcp.GetPromptResult, error) {
		text := render(request.Params.Arguments)
		return mcp.NewGetPromptResult("", []mcp.PromptMessage{
			mcp.NewPromptMessage(mcp.RoleUser, mcp.NewTextContent(text)),
		}), nil
	}
}
