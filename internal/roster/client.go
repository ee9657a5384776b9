package roster

import (
	"context"
	"fmt"
	"log"
	"strings"
	"time"

	"project-attendance-backend/config"
	"project-attendance-backend/internal/apperror"
	"project-attendance-backend/internal/model"
	"project-attendance-backend/internal/repository"

	"github.com/gofiber/fiber/v2"
)

const allPIsPath = "/api/internal/all-pis"

type remotePI struct {
	Username string   `json:"username"`
	Email    string   `json:"email"`
	Projects []string `json:"projects"`
}

type allPIsResponse struct {
	Success bool       `json:"success"`
	PIs     []remotePI `json:"pis"`
}

// Client reads the PI list from the upstream identity service.
type Client struct {
	baseURL string
	apiKey  string
	timeout time.Duration
}

func NewClient(cfg config.RosterConfig) *Client {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &Client{
		baseURL: strings.TrimRight(cfg.BaseURL, "/"),
		apiKey:  cfg.APIKey,
		timeout: timeout,
	}
}

// FetchPIs returns every PI with its project codes. Any transport or payload problem
// is reported as UpstreamUnavailable.
func (c *Client) FetchPIs(ctx context.Context) ([]model.PI, error) {
	if c.baseURL == "" {
		return nil, apperror.New(apperror.InvalidInput, "roster API URL is not configured")
	}
	timeout := c.timeout
	if deadline, ok := ctx.Deadline(); ok {
		if left := time.Until(deadline); left < timeout {
			timeout = left
		}
	}
	if timeout <= 0 {
		return nil, apperror.Wrap(apperror.UpstreamUnavailable, context.DeadlineExceeded, "fetching PIs")
	}

	agent := fiber.Get(c.baseURL + allPIsPath)
	agent.Set("x-internal-api-key", c.apiKey)
	agent.Timeout(timeout)

	var resp allPIsResponse
	code, body, errs := agent.Struct(&resp)
	if len(errs) > 0 {
		return nil, apperror.Wrap(apperror.UpstreamUnavailable, errs[0], "fetching PIs")
	}
	if code != fiber.StatusOK {
		return nil, apperror.New(apperror.UpstreamUnavailable, "fetching PIs: status %d: %s", code, truncate(body, 200))
	}
	if !resp.Success {
		return nil, apperror.New(apperror.UpstreamUnavailable, "PI service reported failure")
	}

	pis := make([]model.PI, 0, len(resp.PIs))
	for _, p := range resp.PIs {
		if p.Username == "" {
			continue
		}
		pi := model.PI{Username: p.Username, Email: p.Email}
		for _, code := range p.Projects {
			pi.Projects = append(pi.Projects, model.PIProjectRelation{Username: p.Username, ProjectCode: code})
		}
		pis = append(pis, pi)
	}
	log.Printf("[ROSTER] fetched %d PI(s) from %s", len(pis), c.baseURL)
	return pis, nil
}

// Sync fetches the upstream PI list and mirrors it into the local roster. Nothing is
// written when the fetch fails.
func Sync(ctx context.Context, client *Client, repo repository.RosterRepository) (repository.SyncResult, error) {
	pis, err := client.FetchPIs(ctx)
	if err != nil {
		return repository.SyncResult{}, err
	}
	result, err := repo.SyncPIs(ctx, pis)
	if err != nil {
		return result, apperror.Wrap(apperror.UpstreamUnavailable, err, "syncing PIs")
	}
	log.Printf("[ROSTER] sync done: deleted=%d upserted=%d relations=%d (cleared %d)",
		result.DeletedPIs, result.UpsertedPIs, result.CreatedRelations, result.DeletedRelations)
	return result, nil
}

func truncate(b []byte, n int) string {
	if len(b) > n {
		return fmt.Sprintf("%s...", b[:n])
	}
	return string(b)
}
