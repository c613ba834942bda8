package databricks

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/srmds/takeoff/core/job"
	"github.com/srmds/takeoff/internal/errors"
)

const (
	EntityDatabricks = "databricks"

	apiPrefix = "api/2.0"
	pageLimit = 25
)

type HTTPClient interface {
	Do(req *http.Request) (*http.Response, error)
}

type request struct {
	path   string
	method string
	query  url.Values
	body   any
}

type apiError struct {
	ErrorCode string `json:"error_code"`
	Message   string `json:"message"`
}

type jobList struct {
	Jobs []struct {
		JobID    int64 `json:"job_id"`
		Settings struct {
			Name string `json:"name"`
		} `json:"settings"`
	} `json:"jobs"`
	HasMore bool `json:"has_more"`
}

type runList struct {
	Runs []struct {
		RunID int64 `json:"run_id"`
	} `json:"runs"`
	HasMore bool `json:"has_more"`
}

type scopeList struct {
	Scopes []struct {
		Name string `json:"name"`
	} `json:"scopes"`
}

// Client talks to the jobs and secrets api of a databricks workspace.
type Client struct {
	host   string
	token  string
	client HTTPClient
}

func NewClient(host, token string, client HTTPClient) *Client {
	if client == nil {
		client = http.DefaultClient
	}
	return &Client{host: host, token: token, client: client}
}

// ListJobs returns every job in the workspace. The list is read fresh on
// every call.
func (c *Client) ListJobs(ctx context.Context) ([]job.Summary, error) {
	summaries := []job.Summary{}
	for offset := 0; ; offset += pageLimit {
		var list jobList
		err := c.invoke(ctx, request{
			path:   "jobs/list",
			method: http.MethodGet,
			query:  url.Values{"limit": {strconv.Itoa(pageLimit)}, "offset": {strconv.Itoa(offset)}},
		}, &list)
		if err != nil {
			return nil, err
		}
		for _, j := range list.Jobs {
			summaries = append(summaries, job.Summary{Name: j.Settings.Name, ID: j.JobID})
		}
		if !list.HasMore || len(list.Jobs) == 0 {
			return summaries, nil
		}
	}
}

func (c *Client) CreateJob(ctx context.Context, doc *job.Document) (int64, error) {
	var resp struct {
		JobID int64 `json:"job_id"`
	}
	err := c.invoke(ctx, request{path: "jobs/create", method: http.MethodPost, body: doc}, &resp)
	return resp.JobID, err
}

// ResetJob overwrites all settings of an existing job.
func (c *Client) ResetJob(ctx context.Context, jobID int64, doc *job.Document) error {
	body := struct {
		JobID       int64         `json:"job_id"`
		NewSettings *job.Document `json:"new_settings"`
	}{jobID, doc}
	return c.invoke(ctx, request{path: "jobs/reset", method: http.MethodPost, body: body}, nil)
}

// ActiveRuns returns the ids of the pending and running runs of a job.
func (c *Client) ActiveRuns(ctx context.Context, jobID int64) ([]int64, error) {
	runIDs := []int64{}
	for offset := 0; ; offset += pageLimit {
		var list runList
		err := c.invoke(ctx, request{
			path:   "jobs/runs/list",
			method: http.MethodGet,
			query: url.Values{
				"job_id":      {strconv.FormatInt(jobID, 10)},
				"active_only": {"true"},
				"limit":       {strconv.Itoa(pageLimit)},
				"offset":      {strconv.Itoa(offset)},
			},
		}, &list)
		if err != nil {
			return nil, err
		}
		for _, r := range list.Runs {
			runIDs = append(runIDs, r.RunID)
		}
		if !list.HasMore || len(list.Runs) == 0 {
			return runIDs, nil
		}
	}
}

func (c *Client) CancelRun(ctx context.Context, runID int64) error {
	body := map[string]int64{"run_id": runID}
	return c.invoke(ctx, request{path: "jobs/runs/cancel", method: http.MethodPost, body: body}, nil)
}

func (c *Client) RunNow(ctx context.Context, jobID int64) (int64, error) {
	var resp struct {
		RunID int64 `json:"run_id"`
	}
	body := map[string]int64{"job_id": jobID}
	err := c.invoke(ctx, request{path: "jobs/run-now", method: http.MethodPost, body: body}, &resp)
	return resp.RunID, err
}

func (c *Client) ListScopes(ctx context.Context) ([]string, error) {
	var list scopeList
	if err := c.invoke(ctx, request{path: "secrets/scopes/list", method: http.MethodGet}, &list); err != nil {
		return nil, err
	}
	names := make([]string, 0, len(list.Scopes))
	for _, s := range list.Scopes {
		names = append(names, s.Name)
	}
	return names, nil
}

func (c *Client) CreateScope(ctx context.Context, scope string) error {
	body := map[string]string{"scope": scope, "initial_manage_principal": "users"}
	return c.invoke(ctx, request{path: "secrets/scopes/create", method: http.MethodPost, body: body}, nil)
}

// EnsureScope creates the secret scope unless it already exists.
func (c *Client) EnsureScope(ctx context.Context, scope string) error {
	scopes, err := c.ListScopes(ctx)
	if err != nil {
		return err
	}
	for _, s := range scopes {
		if s == scope {
			return nil
		}
	}
	return c.CreateScope(ctx, scope)
}

// PutSecret creates or overwrites a secret in the scope.
func (c *Client) PutSecret(ctx context.Context, scope, key, value string) error {
	body := map[string]string{"scope": scope, "key": key, "string_value": value}
	return c.invoke(ctx, request{path: "secrets/put", method: http.MethodPost, body: body}, nil)
}

func (c *Client) invoke(ctx context.Context, r request, out any) error {
	var body io.Reader
	if r.body != nil {
		payload, err := json.Marshal(r.body)
		if err != nil {
			return errors.API(EntityDatabricks, "failed to encode request for "+r.path, err)
		}
		body = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, r.method, c.buildEndPoint(r.path, r.query), body)
	if err != nil {
		return errors.API(EntityDatabricks, "failed to build http request for "+r.path, err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.token)

	resp, err := c.client.Do(req)
	if err != nil {
		return errors.API(EntityDatabricks, "failed to call "+r.path, err)
	}
	defer resp.Body.Close()

	payload, err := io.ReadAll(resp.Body)
	if err != nil {
		return errors.API(EntityDatabricks, "failed to read response of "+r.path, err)
	}
	if resp.StatusCode != http.StatusOK {
		return errors.API(EntityDatabricks, fmt.Sprintf("status code received %d on calling %s", resp.StatusCode, r.path), parseError(payload))
	}
	if out == nil || len(payload) == 0 {
		return nil
	}
	if err := json.Unmarshal(payload, out); err != nil {
		return errors.API(EntityDatabricks, "failed to decode response of "+r.path, err)
	}
	return nil
}

func parseError(payload []byte) error {
	var e apiError
	if err := json.Unmarshal(payload, &e); err != nil || e.ErrorCode == "" {
		return fmt.Errorf("%s", strings.TrimSpace(string(payload)))
	}
	return fmt.Errorf("%s: %s", e.ErrorCode, e.Message)
}

func (c *Client) buildEndPoint(path string, query url.Values) string {
	host := strings.TrimSuffix(c.host, "/")
	u, err := url.Parse(host)
	if err != nil || u.Host == "" {
		u = &url.URL{Scheme: "https", Host: host}
	}
	u.Path = strings.TrimSuffix(u.Path, "/") + "/" + apiPrefix + "/" + path
	u.RawQuery = query.Encode()
	return u.String()
}
