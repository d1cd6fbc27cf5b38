package yahoo

import (
	"context"
	stderrors "errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"regexp"
	"strconv"
	"strings"
	"time"

	sonic "github.com/bytedance/sonic"
	crerr "github.com/cockroachdb/errors"
	"github.com/valyala/bytebufferpool"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"

	"github.com/yfantasy-go/yfantasy/internal/domain/fantasy"
	"github.com/yfantasy-go/yfantasy/internal/platform/logging"
	"github.com/yfantasy-go/yfantasy/internal/platform/resilience"
)

const (
	defaultBaseURL = "https://fantasysports.yahooapis.com/fantasy/v2"

	// The remote service doles out players 25 per page and accepts at most
	// 25 player keys per request.
	PageSize     = 25
	MaxBatchKeys = 25
)

var bearerTokenRegex = regexp.MustCompile(`Bearer\s+[^\s"']+`)
var errYahooTransient = crerr.New("yahoo transient failure")

type ClientConfig struct {
	HTTPClient     *http.Client
	BaseURL        string
	AccessToken    string
	Timeout        time.Duration
	MaxRetries     int
	Logger         *logging.Logger
	CircuitBreaker resilience.CircuitBreakerConfig
}

// Client issues signed GET requests against the fantasy v2 endpoint and hands
// back the decoded JSON document. It knows nothing about the document shapes;
// the session contexts own extraction.
type Client struct {
	httpClient     *http.Client
	baseURL        string
	token          string
	maxRetries     int
	logger         *logging.Logger
	breaker        *resilience.CircuitBreaker
	circuitEnabled bool
	flight         resilience.SingleFlight
}

func NewClient(cfg ClientConfig) *Client {
	logger := cfg.Logger
	if logger == nil {
		logger = logging.Default()
	}

	httpClient := cfg.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: cfg.Timeout}
	}
	if httpClient.Timeout <= 0 {
		httpClient.Timeout = 20 * time.Second
	}
	if httpClient.Transport == nil {
		httpClient.Transport = otelhttp.NewTransport(http.DefaultTransport)
	}

	baseURL := strings.TrimRight(strings.TrimSpace(cfg.BaseURL), "/")
	if baseURL == "" {
		baseURL = defaultBaseURL
	}
	breakerCfg := resilience.NormalizeCircuitBreakerConfig(cfg.CircuitBreaker)

	return &Client{
		httpClient:     httpClient,
		baseURL:        baseURL,
		token:          strings.TrimSpace(cfg.AccessToken),
		maxRetries:     maxInt(cfg.MaxRetries, 0),
		logger:         logger,
		breaker:        resilience.NewCircuitBreaker(breakerCfg.FailureThreshold, breakerCfg.OpenTimeout, breakerCfg.HalfOpenMaxReq),
		circuitEnabled: breakerCfg.Enabled,
	}
}

// FetchJSON requests the given resource path and decodes the response body.
// A response carrying a top-level "error" key is a transport failure even when
// the HTTP status is 200.
func (c *Client) FetchJSON(ctx context.Context, path string) (map[string]any, error) {
	if c.circuitEnabled {
		if err := c.breaker.Allow(); err != nil {
			c.logger.WarnContext(ctx, "yahoo circuit breaker rejected request", "state", c.breaker.State())
			return nil, fmt.Errorf("%w: fantasy data provider is temporarily unavailable", fantasy.ErrDependencyUnavailable)
		}
	}

	fullURL := c.buildURL(path)

	out, err, _ := c.flight.Do(path, func() (any, error) {
		raw, reqErr := c.executeRequest(ctx, fullURL)
		if c.circuitEnabled {
			if reqErr != nil && stderrors.Is(reqErr, errYahooTransient) {
				c.breaker.RecordFailure()
			} else {
				c.breaker.RecordSuccess()
			}
		}
		return raw, reqErr
	})
	if err != nil {
		return nil, err
	}

	raw, ok := out.([]byte)
	if !ok {
		return nil, fmt.Errorf("unexpected response payload type %T", out)
	}

	var doc map[string]any
	if err := sonic.Unmarshal(raw, &doc); err != nil {
		return nil, fmt.Errorf("decode provider payload: %w", err)
	}

	if errPayload, found := doc["error"]; found {
		detail, _ := sonic.MarshalString(errPayload)
		return nil, fmt.Errorf("%w: provider error payload: %s", fantasy.ErrTransport, detail)
	}

	return doc, nil
}

func (c *Client) buildURL(path string) string {
	buf := bytebufferpool.Get()
	defer bytebufferpool.Put(buf)

	_, _ = buf.WriteString(c.baseURL)
	if !strings.HasPrefix(path, "/") {
		_ = buf.WriteByte('/')
	}
	_, _ = buf.WriteString(path)
	if strings.Contains(path, "?") {
		_, _ = buf.WriteString("&format=json")
	} else {
		_, _ = buf.WriteString("?format=json")
	}
	return buf.String()
}

func (c *Client) executeRequest(ctx context.Context, fullURL string) ([]byte, error) {
	var lastErr error
	for attempt := 0; attempt <= c.maxRetries; attempt++ {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, fullURL, nil)
		if err != nil {
			return nil, fmt.Errorf("build request: %w", err)
		}
		req.Header.Set("Accept", "application/json")
		if c.token != "" {
			req.Header.Set("Authorization", "Bearer "+c.token)
		}

		resp, err := c.httpClient.Do(req)
		if err != nil {
			lastErr = fmt.Errorf("%w: send request: %s", errYahooTransient, sanitizeSensitiveText(err.Error(), c.token))
		} else {
			raw, readErr := io.ReadAll(io.LimitReader(resp.Body, 6<<20))
			_ = resp.Body.Close()
			if readErr != nil {
				lastErr = fmt.Errorf("%w: read response body: %v", errYahooTransient, readErr)
			} else if resp.StatusCode >= 200 && resp.StatusCode < 300 {
				return raw, nil
			} else if isRetryableStatus(resp.StatusCode) {
				lastErr = fmt.Errorf("%w: provider status=%d body=%s", errYahooTransient, resp.StatusCode, abbreviateBody(raw))
			} else {
				return nil, fmt.Errorf("%w: provider status=%d body=%s", fantasy.ErrTransport, resp.StatusCode, abbreviateBody(raw))
			}
		}

		if attempt == c.maxRetries {
			break
		}
		backoff := time.Duration(attempt+1) * time.Second
		timer := time.NewTimer(backoff)
		select {
		case <-ctx.Done():
			timer.Stop()
			return nil, ctx.Err()
		case <-timer.C:
		}
	}

	if lastErr == nil {
		lastErr = crerr.New("provider request failed")
	}
	c.logger.WarnContext(ctx, "yahoo request failed", "url", redactURL(fullURL), "error", lastErr)
	return nil, fmt.Errorf("%w: %w", fantasy.ErrTransport, lastErr)
}

// ---- raw resource getters (fixed URL templates per entity type) ----

func (c *Client) StandingsRaw(ctx context.Context, leagueID string) (map[string]any, error) {
	return c.FetchJSON(ctx, "league/"+leagueID+"/standings")
}

func (c *Client) SettingsRaw(ctx context.Context, leagueID string) (map[string]any, error) {
	return c.FetchJSON(ctx, "league/"+leagueID+"/settings")
}

// ScoreboardRaw requests matchups for one week; week 0 means the remote
// service's current week.
func (c *Client) ScoreboardRaw(ctx context.Context, leagueID string, week int) (map[string]any, error) {
	path := "league/" + leagueID + "/scoreboard"
	if week > 0 {
		path += ";week=" + strconv.Itoa(week)
	}
	return c.FetchJSON(ctx, path)
}

func (c *Client) PlayersRaw(ctx context.Context, leagueID string, start int, status, position string) (map[string]any, error) {
	path := "league/" + leagueID + "/players;status=" + url.PathEscape(status)
	if position != "" {
		path += ";position=" + url.PathEscape(position)
	}
	path += ";start=" + strconv.Itoa(start) + ";out=percent_owned"
	return c.FetchJSON(ctx, path)
}

func (c *Client) PlayersByKeysRaw(ctx context.Context, leagueID string, playerIDs []int) (map[string]any, error) {
	return c.FetchJSON(ctx, "league/"+leagueID+"/players;player_keys="+joinPlayerKeys(gamePrefix(leagueID), playerIDs))
}

func (c *Client) SearchPlayersRaw(ctx context.Context, leagueID, search string) (map[string]any, error) {
	return c.FetchJSON(ctx, "league/"+leagueID+"/players;search="+url.PathEscape(search))
}

func (c *Client) PercentOwnedRaw(ctx context.Context, leagueID string, playerIDs []int) (map[string]any, error) {
	return c.FetchJSON(ctx, "league/"+leagueID+"/players;player_keys="+
		joinPlayerKeys(gamePrefix(leagueID), playerIDs)+"/percent_owned;type=week")
}

func (c *Client) OwnershipRaw(ctx context.Context, leagueID string, playerIDs []int) (map[string]any, error) {
	return c.FetchJSON(ctx, "league/"+leagueID+"/players;player_keys="+
		joinPlayerKeys(gamePrefix(leagueID), playerIDs)+"/ownership")
}

func (c *Client) DraftResultsRaw(ctx context.Context, leagueID string) (map[string]any, error) {
	return c.FetchJSON(ctx, "league/"+leagueID+"/draftresults")
}

func (c *Client) TransactionsRaw(ctx context.Context, leagueID, tranTypes, count string) (map[string]any, error) {
	path := "league/" + leagueID + "/transactions;types=" + url.PathEscape(tranTypes)
	if count != "" {
		path += ";count=" + url.PathEscape(count)
	}
	return c.FetchJSON(ctx, path)
}

// PlayerStatsRaw requests stat lines for up to 25 players keyed by game code
// (e.g. mlb.p.8370). reqType selects the date range; day and season qualify
// the "date" and "season" types respectively.
func (c *Client) PlayerStatsRaw(ctx context.Context, gameCode string, playerIDs []int, reqType string, day time.Time, season int) (map[string]any, error) {
	path := "players;player_keys=" + joinPlayerKeys(gameCode, playerIDs) + "/stats"
	switch reqType {
	case "season":
		// A bare /stats already means current-season totals.
		if season > 0 {
			path += ";type=season;season=" + strconv.Itoa(season)
		}
	case "average_season":
		path += ";type=average_season"
		if season > 0 {
			path += ";season=" + strconv.Itoa(season)
		}
	case "date":
		if day.IsZero() {
			day = time.Now()
		}
		path += ";type=date;date=" + day.Format("2006-01-02")
	case "lastweek", "lastmonth":
		path += ";type=" + reqType
	}
	return c.FetchJSON(ctx, path)
}

func (c *Client) UserTeamsRaw(ctx context.Context) (map[string]any, error) {
	return c.FetchJSON(ctx, "users;use_login=1/games/teams")
}

// gamePrefix peels the numeric game segment off a league key
// (388.l.27081 -> 388); player keys share that prefix.
func gamePrefix(leagueID string) string {
	if idx := strings.Index(leagueID, "."); idx > 0 {
		return leagueID[:idx]
	}
	return leagueID
}

func joinPlayerKeys(prefix string, playerIDs []int) string {
	keys := make([]string, 0, len(playerIDs))
	for _, id := range playerIDs {
		keys = append(keys, prefix+".p."+strconv.Itoa(id))
	}
	return strings.Join(keys, ",")
}

func sanitizeSensitiveText(value, token string) string {
	value = strings.TrimSpace(value)
	if value == "" {
		return value
	}
	if token != "" {
		value = strings.ReplaceAll(value, token, "REDACTED")
	}
	return bearerTokenRegex.ReplaceAllString(value, "Bearer REDACTED")
}

func redactURL(rawURL string) string {
	parsed, err := url.Parse(rawURL)
	if err != nil {
		return rawURL
	}
	query := parsed.Query()
	if query.Has("access_token") {
		query.Set("access_token", "REDACTED")
		parsed.RawQuery = query.Encode()
	}
	return parsed.String()
}

func abbreviateBody(body []byte) string {
	text := strings.TrimSpace(string(body))
	if len(text) <= 240 {
		return text
	}
	return text[:240] + "..."
}

func isRetryableStatus(code int) bool {
	return code == http.StatusTooManyRequests || code >= http.StatusInternalServerError
}

func maxInt(left, right int) int {
	if left > right {
		return left
	}
	return right
}
