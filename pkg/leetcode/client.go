package leetcode

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/fadedpez/leetbot/internal/types"
)

// DefaultURL is LeetCode's public GraphQL endpoint
const DefaultURL = "https://leetcode.com/graphql"

const questionOfTodayQuery = `query questionOfToday {
	activeDailyCodingChallengeQuestion {
		date
		link
		question {
			difficulty
			frontendQuestionId: questionFrontendId
			paidOnly: isPaidOnly
			title
			titleSlug
			topicTags {
				name
				id
				slug
			}
		}
	}
}`

// TopicTag labels a question
type TopicTag struct {
	Name string `json:"name"`
	Slug string `json:"slug"`
}

// Question is the daily coding challenge
type Question struct {
	Date       string     `json:"date"`
	Link       string     `json:"url"`
	Title      string     `json:"title"`
	Difficulty string     `json:"difficulty"`
	TopicTags  []TopicTag `json:"topicTags"`
}

type graphqlRequest struct {
	Query         string `json:"query"`
	OperationName string `json:"operationName"`
}

type graphqlResponse struct {
	Data struct {
		Active *struct {
			Date     string `json:"date"`
			Link     string `json:"link"`
			Question *struct {
				Difficulty string     `json:"difficulty"`
				Title      string     `json:"title"`
				TopicTags  []TopicTag `json:"topicTags"`
			} `json:"question"`
		} `json:"activeDailyCodingChallengeQuestion"`
	} `json:"data"`
	Errors []struct {
		Message string `json:"message"`
	} `json:"errors"`
}

// Client fetches the question of the day
type Client struct {
	endpoint   string
	siteURL    string
	httpClient *http.Client
}

// NewClient creates a client for the given GraphQL endpoint. An empty
// endpoint uses DefaultURL.
func NewClient(endpoint string, httpClient *http.Client) (*Client, error) {
	if endpoint == "" {
		endpoint = DefaultURL
	}
	u, err := url.Parse(endpoint)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return nil, types.NewGameError(types.ErrInvalidArgument, fmt.Sprintf("invalid LeetCode url %q", endpoint))
	}
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 10 * time.Second}
	}

	return &Client{
		endpoint:   endpoint,
		siteURL:    u.Scheme + "://" + u.Host,
		httpClient: httpClient,
	}, nil
}

// FetchDaily returns today's question
func (c *Client) FetchDaily(ctx context.Context) (*Question, error) {
	payload, err := json.Marshal(graphqlRequest{
		Query:         questionOfTodayQuery,
		OperationName: "questionOfToday",
	})
	if err != nil {
		return nil, fmt.Errorf("failed to encode query: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("failed to build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Referer", c.siteURL)

	res, err := c.httpClient.Do(req)
	if err != nil {
		return nil, types.WrapError(types.ErrNetworkError, "LeetCode request failed", err)
	}
	defer res.Body.Close()

	if res.StatusCode < 200 || res.StatusCode > 299 {
		io.Copy(io.Discard, res.Body)
		return nil, types.NewGameError(types.ErrNetworkError, fmt.Sprintf("LeetCode returned status %d", res.StatusCode))
	}

	var body graphqlResponse
	if err := json.NewDecoder(res.Body).Decode(&body); err != nil {
		return nil, types.WrapError(types.ErrInvalidResponse, "failed to decode LeetCode response", err)
	}
	if len(body.Errors) > 0 {
		return nil, types.NewGameError(types.ErrInvalidResponse, "LeetCode error: "+body.Errors[0].Message)
	}

	active := body.Data.Active
	if active == nil || active.Question == nil {
		return nil, types.NewGameError(types.ErrInvalidResponse, "LeetCode response has no daily question")
	}

	tags := active.Question.TopicTags
	if tags == nil {
		tags = []TopicTag{}
	}

	return &Question{
		Date:       active.Date,
		Link:       c.siteURL + active.Link,
		Title:      active.Question.Title,
		Difficulty: active.Question.Difficulty,
		TopicTags:  tags,
	}, nil
}
