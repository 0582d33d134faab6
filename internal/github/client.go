// Package github はGitHub APIから活動サマリの元データを取得・集約する。
package github

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

const (
	defaultGraphQLURL = "https://api.github.com/graphql"
	defaultRESTURL    = "https://api.github.com"

	userAgent = "folio-portfolio"
)

// ClientConfig はGitHub APIクライアントの設定。
type ClientConfig struct {
	Token    string
	Username string

	// テスト用にオーバーライド可能なURL
	GraphQLURL string
	RESTURL    string
}

// Client はGitHubのGraphQL/REST APIを呼び出す。
type Client struct {
	config     ClientConfig
	httpClient *http.Client
}

// NewClient はClientを生成する。
func NewClient(config ClientConfig) *Client {
	if config.GraphQLURL == "" {
		config.GraphQLURL = defaultGraphQLURL
	}
	if config.RESTURL == "" {
		config.RESTURL = defaultRESTURL
	}
	return &Client{
		config:     config,
		httpClient: &http.Client{Timeout: 10 * time.Second},
	}
}

// Contributions はGraphQLのcontributionsCollectionから抽出した直近1週間の集計。
type Contributions struct {
	TotalCommits int
	// リポジトリ（owner/name）ごとのコミット数
	CommitsByRepo map[string]int
}

// contributionsQuery は直近1週間のコミット貢献を取得するGraphQLクエリ。
const contributionsQuery = `query($login: String!, $from: DateTime!, $to: DateTime!) {
  user(login: $login) {
    contributionsCollection(from: $from, to: $to) {
      totalCommitContributions
      commitContributionsByRepository(maxRepositories: 10) {
        repository { nameWithOwner }
        contributions { totalCount }
      }
    }
  }
}`

type graphqlRequest struct {
	Query     string         `json:"query"`
	Variables map[string]any `json:"variables"`
}

type contributionsResponse struct {
	Data struct {
		User struct {
			ContributionsCollection struct {
				TotalCommitContributions      int `json:"totalCommitContributions"`
				CommitContributionsByRepository []struct {
					Repository struct {
						NameWithOwner string `json:"nameWithOwner"`
					} `json:"repository"`
					Contributions struct {
						TotalCount int `json:"totalCount"`
					} `json:"contributions"`
				} `json:"commitContributionsByRepository"`
			} `json:"contributionsCollection"`
		} `json:"user"`
	} `json:"data"`
	Errors []struct {
		Message string `json:"message"`
	} `json:"errors"`
}

// FetchContributions は直近1週間のコミット貢献をGraphQLで取得する。
func (c *Client) FetchContributions(ctx context.Context) (*Contributions, error) {
	to := time.Now().UTC()
	from := to.AddDate(0, 0, -7)

	reqBody, err := json.Marshal(graphqlRequest{
		Query: contributionsQuery,
		Variables: map[string]any{
			"login": c.config.Username,
			"from":  from.Format(time.RFC3339),
			"to":    to.Format(time.RFC3339),
		},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to encode graphql request: %w", err)
	}

	body, err := c.do(ctx, http.MethodPost, c.config.GraphQLURL, bytes.NewReader(reqBody))
	if err != nil {
		return nil, err
	}

	var resp contributionsResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, fmt.Errorf("failed to parse contributions response: %w", err)
	}
	if len(resp.Errors) > 0 {
		return nil, fmt.Errorf("graphql error: %s", resp.Errors[0].Message)
	}

	result := &Contributions{
		TotalCommits:  resp.Data.User.ContributionsCollection.TotalCommitContributions,
		CommitsByRepo: map[string]int{},
	}
	for _, rc := range resp.Data.User.ContributionsCollection.CommitContributionsByRepository {
		result.CommitsByRepo[rc.Repository.NameWithOwner] = rc.Contributions.TotalCount
	}

	return result, nil
}

// PushEvent はRESTイベントAPIのPushEventから抽出した情報。
type PushEvent struct {
	Repo      string // owner/name
	CreatedAt time.Time
	Commits   []PushCommit
}

// PushCommit はPushEvent内の1コミット。
type PushCommit struct {
	SHA     string
	Message string
}

type restEvent struct {
	Type string `json:"type"`
	Repo struct {
		Name string `json:"name"`
	} `json:"repo"`
	CreatedAt time.Time `json:"created_at"`
	Payload   struct {
		Commits []struct {
			SHA     string `json:"sha"`
			Message string `json:"message"`
		} `json:"commits"`
	} `json:"payload"`
}

// FetchPushEvents はユーザーの公開イベントからPushEventのみを新しい順で返す。
func (c *Client) FetchPushEvents(ctx context.Context) ([]PushEvent, error) {
	url := fmt.Sprintf("%s/users/%s/events?per_page=100", c.config.RESTURL, c.config.Username)
	body, err := c.do(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}

	var events []restEvent
	if err := json.Unmarshal(body, &events); err != nil {
		return nil, fmt.Errorf("failed to parse events response: %w", err)
	}

	var pushes []PushEvent
	for _, e := range events {
		if e.Type != "PushEvent" {
			continue
		}
		p := PushEvent{
			Repo:      e.Repo.Name,
			CreatedAt: e.CreatedAt,
		}
		for _, commit := range e.Payload.Commits {
			p.Commits = append(p.Commits, PushCommit{SHA: commit.SHA, Message: commit.Message})
		}
		pushes = append(pushes, p)
	}

	return pushes, nil
}

// FetchLanguages は指定リポジトリ（owner/name）の言語別バイト数を取得する。
func (c *Client) FetchLanguages(ctx context.Context, repo string) (map[string]int64, error) {
	url := fmt.Sprintf("%s/repos/%s/languages", c.config.RESTURL, repo)
	body, err := c.do(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}

	languages := map[string]int64{}
	if err := json.Unmarshal(body, &languages); err != nil {
		return nil, fmt.Errorf("failed to parse languages response: %w", err)
	}

	return languages, nil
}

// do は認証ヘッダ付きでリクエストを送り、2xx以外をエラーにする。
func (c *Client) do(ctx context.Context, method, url string, body io.Reader) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, method, url, body)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.config.Token)
	req.Header.Set("Accept", "application/vnd.github+json")
	req.Header.Set("User-Agent", userAgent)
	if method == http.MethodPost {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("github api returned status %d: %s", resp.StatusCode, string(respBody))
	}

	return respBody, nil
}

// compile-time interface check
var _ ActivityFetcher = (*Client)(nil)
