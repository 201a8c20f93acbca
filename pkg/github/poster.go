// pkg/github/poster.go

package github

import (
	"github.com/CodeMonkeyCybersecurity/harmonia/pkg/harmonia_io"
)

// CommentPoster binds a Client to one pull request so the pipeline can
// publish a report without knowing which repository it is running in.
type CommentPoster struct {
	client *Client
	repo   string
	pr     int
}

// NewCommentPoster returns a poster for the given owner/name repository
// and pull request number.
func NewCommentPoster(client *Client, repo string, pr int) *CommentPoster {
	return &CommentPoster{client: client, repo: repo, pr: pr}
}

// PostComment publishes body as a single comment on the bound pull request.
func (p *CommentPoster) PostComment(rc *harmonia_io.RuntimeContext, body string) error {
	return p.client.PostIssueComment(rc, p.repo, p.pr, body)
}
