package match

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	"github.com/elastic/go-elasticsearch/v8"
	"github.com/elastic/go-elasticsearch/v8/esapi"
	"github.com/fadedpez/leetbot/internal/logging"
	"github.com/fadedpez/leetbot/pkg/entities"
)

const matchMapping = `{
	"mappings": {
		"properties": {
			"id": { "type": "keyword" },
			"game_id": { "type": "keyword" },
			"guild_id": { "type": "keyword" },
			"channel_id": { "type": "keyword" },
			"challenger": {
				"properties": {
					"user_id": { "type": "keyword" },
					"choice": { "type": "keyword" }
				}
			},
			"opponent": {
				"properties": {
					"user_id": { "type": "keyword" },
					"choice": { "type": "keyword" }
				}
			},
			"winner_id": { "type": "keyword" },
			"tie": { "type": "boolean" },
			"resolved_at": { "type": "date" }
		}
	}
}`

// ElasticsearchConfig holds configuration options for the Elasticsearch repository
type ElasticsearchConfig struct {
	URL      string
	Username string
	Password string
	Index    string

	// Transport overrides the HTTP transport, mostly for tests
	Transport http.RoundTripper
}

// ElasticsearchRepository decorates another Repository and copies every saved
// match into an analytics index. Reads always go to the base repository.
type ElasticsearchRepository struct {
	baseRepo Repository
	client   *elasticsearch.Client
	index    string
	logger   *logging.Logger
}

// NewElasticsearchRepository creates the client and makes sure the index exists
func NewElasticsearchRepository(ctx context.Context, baseRepo Repository, config ElasticsearchConfig, logger *logging.Logger) (*ElasticsearchRepository, error) {
	cfg := elasticsearch.Config{
		Addresses: []string{config.URL},
		Transport: config.Transport,
	}
	if config.Username != "" && config.Password != "" {
		cfg.Username = config.Username
		cfg.Password = config.Password
	}

	client, err := elasticsearch.NewClient(cfg)
	if err != nil {
		return nil, fmt.Errorf("error creating Elasticsearch client: %w", err)
	}

	if config.Index == "" {
		config.Index = "leetbot_matches"
	}
	if logger == nil {
		logger = logging.Default
	}

	repo := &ElasticsearchRepository{
		baseRepo: baseRepo,
		client:   client,
		index:    config.Index,
		logger:   logger,
	}

	if err := repo.initIndex(ctx); err != nil {
		return nil, fmt.Errorf("error initializing index: %w", err)
	}
	return repo, nil
}

// initIndex creates the match index if it doesn't exist
func (r *ElasticsearchRepository) initIndex(ctx context.Context) error {
	existsReq := esapi.IndicesExistsRequest{Index: []string{r.index}}
	res, err := existsReq.Do(ctx, r.client)
	if err != nil {
		return fmt.Errorf("error checking if index exists: %w", err)
	}
	res.Body.Close()

	if res.StatusCode != http.StatusNotFound {
		return nil
	}

	createReq := esapi.IndicesCreateRequest{
		Index: r.index,
		Body:  strings.NewReader(matchMapping),
	}
	res, err = createReq.Do(ctx, r.client)
	if err != nil {
		return fmt.Errorf("error creating index: %w", err)
	}
	defer res.Body.Close()

	if res.IsError() {
		return fmt.Errorf("error creating index: %s", res.String())
	}
	return nil
}

// SaveMatch saves to the base repository first, then indexes the match.
// Indexing failures are logged and do not fail the save.
func (r *ElasticsearchRepository) SaveMatch(ctx context.Context, match *entities.Match) error {
	if err := r.baseRepo.SaveMatch(ctx, match); err != nil {
		return err
	}

	if err := r.indexMatch(ctx, match); err != nil {
		r.logger.Warn("Failed to index match %s: %v", match.ID, err)
	}
	return nil
}

func (r *ElasticsearchRepository) indexMatch(ctx context.Context, match *entities.Match) error {
	body, err := json.Marshal(match)
	if err != nil {
		return fmt.Errorf("error marshaling match: %w", err)
	}

	req := esapi.IndexRequest{
		Index:      r.index,
		DocumentID: match.ID,
		Body:       bytes.NewReader(body),
	}
	res, err := req.Do(ctx, r.client)
	if err != nil {
		return fmt.Errorf("error indexing match: %w", err)
	}
	defer res.Body.Close()

	if res.IsError() {
		return fmt.Errorf("error indexing match: %s", res.String())
	}
	return nil
}

// GetPlayerMatches delegates to the base repository
func (r *ElasticsearchRepository) GetPlayerMatches(ctx context.Context, playerID string, limit int) ([]*entities.Match, error) {
	return r.baseRepo.GetPlayerMatches(ctx, playerID, limit)
}

// Close closes the base repository
func (r *ElasticsearchRepository) Close() error {
	return r.baseRepo.Close()
}
