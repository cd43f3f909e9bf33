package banner

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/hashicorp/go-retryablehttp"
	"github.com/rs/zerolog"
	"github.com/tidwall/gjson"
)

const (
	DefaultFirestoreURL = "https://firestore.googleapis.com"
	defaultPageSize     = 100
	maxPages            = 50
)

// FirestoreConfig locates a Firestore collection of banner documents.
type FirestoreConfig struct {
	BaseURL    string // default DefaultFirestoreURL
	ProjectID  string
	Database   string // default "(default)"
	Collection string // default "banners"
	APIKey     string // optional
	PageSize   int
	RetryMax   int
	Timeout    time.Duration
}

// FirestoreFeed reads banner documents through the Firestore REST API.
type FirestoreFeed struct {
	cfg    FirestoreConfig
	client *retryablehttp.Client
	log    zerolog.Logger
}

// NewFirestoreFeed creates a feed with a retrying HTTP client.
func NewFirestoreFeed(cfg FirestoreConfig, log zerolog.Logger) (*FirestoreFeed, error) {
	if cfg.ProjectID == "" {
		return nil, fmt.Errorf("firestore feed: project id is required")
	}
	if cfg.BaseURL == "" {
		cfg.BaseURL = DefaultFirestoreURL
	}
	if cfg.Database == "" {
		cfg.Database = "(default)"
	}
	if cfg.Collection == "" {
		cfg.Collection = "banners"
	}
	if cfg.PageSize <= 0 {
		cfg.PageSize = defaultPageSize
	}
	if cfg.RetryMax <= 0 {
		cfg.RetryMax = 3
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 15 * time.Second
	}

	log = log.With().Str("component", "firestore_feed").Logger()
	client := retryablehttp.NewClient()
	client.RetryMax = cfg.RetryMax
	client.RetryWaitMin = 200 * time.Millisecond
	client.RetryWaitMax = 2 * time.Second
	client.HTTPClient.Timeout = cfg.Timeout
	client.Logger = retryLogger{log}

	return &FirestoreFeed{cfg: cfg, client: client, log: log}, nil
}

// Name implements Named.
func (f *FirestoreFeed) Name() string {
	return "firestore:" + f.cfg.ProjectID + "/" + f.cfg.Collection
}

// FetchBanners lists every document in the collection, following page tokens.
func (f *FirestoreFeed) FetchBanners(ctx context.Context) ([]Record, error) {
	var records []Record
	token := ""
	for page := 0; page < maxPages; page++ {
		body, err := f.get(ctx, f.pageURL(token))
		if err != nil {
			return nil, err
		}
		for _, doc := range gjson.GetBytes(body, "documents").Array() {
			records = append(records, decodeDocument(doc))
		}
		token = gjson.GetBytes(body, "nextPageToken").String()
		if token == "" {
			return records, nil
		}
	}
	f.log.Warn().Int("pages", maxPages).Msg("Stopped paging banner collection")
	return records, nil
}

func (f *FirestoreFeed) pageURL(token string) string {
	u := fmt.Sprintf("%s/v1/projects/%s/databases/%s/documents/%s",
		strings.TrimRight(f.cfg.BaseURL, "/"),
		url.PathEscape(f.cfg.ProjectID), url.PathEscape(f.cfg.Database), url.PathEscape(f.cfg.Collection))
	q := url.Values{}
	q.Set("pageSize", fmt.Sprint(f.cfg.PageSize))
	if token != "" {
		q.Set("pageToken", token)
	}
	if f.cfg.APIKey != "" {
		q.Set("key", f.cfg.APIKey)
	}
	return u + "?" + q.Encode()
}

func (f *FirestoreFeed) get(ctx context.Context, u string) ([]byte, error) {
	req, err := retryablehttp.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "application/json")

	resp, err := f.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}
	if resp.StatusCode != http.StatusOK {
		msg := gjson.GetBytes(body, "error.message").String()
		if msg == "" {
			msg = http.StatusText(resp.StatusCode)
		}
		return nil, fmt.Errorf("status %d: %s", resp.StatusCode, msg)
	}
	return body, nil
}

// decodeDocument maps one Firestore document onto a Record. Firestore wraps
// every value in a typed envelope such as {"stringValue": "..."}.
func decodeDocument(doc gjson.Result) Record {
	name := doc.Get("name").String()
	fields := doc.Get("fields")

	r := Record{
		ID:           name[strings.LastIndex(name, "/")+1:],
		StartDate:    stringField(fields, "startDate"),
		EndDate:      stringField(fields, "endDate"),
		Type:         Type(stringField(fields, "type")),
		EventDetails: stringField(fields, "eventDetails"),
		Characters:   []Character{},
	}
	for _, v := range fields.Get("characters.arrayValue.values").Array() {
		cf := v.Get("mapValue.fields")
		r.Characters = append(r.Characters, Character{
			ID:        stringField(cf, "id"),
			Name:      stringField(cf, "name"),
			Image:     stringField(cf, "image"),
			Rarity:    intField(cf, "rarity"),
			AtkType:   stringField(cf, "atkType"),
			DefType:   stringField(cf, "defType"),
			IsNew:     cf.Get("isNew.booleanValue").Bool(),
			IsLimited: cf.Get("isLimited.booleanValue").Bool(),
			Class:     stringField(cf, "class"),
		})
	}
	for _, v := range fields.Get("rewards.arrayValue.values").Array() {
		r.Rewards = append(r.Rewards, v.Get("stringValue").String())
	}
	return r
}

func stringField(fields gjson.Result, key string) string {
	v := fields.Get(key)
	for _, kind := range []string{"stringValue", "timestampValue"} {
		if s := v.Get(kind); s.Exists() {
			return s.String()
		}
	}
	return ""
}

func intField(fields gjson.Result, key string) int {
	v := fields.Get(key)
	// integerValue is a decimal string in the REST encoding
	if n := v.Get("integerValue"); n.Exists() {
		return int(n.Int())
	}
	return int(v.Get("doubleValue").Float())
}

// retryLogger routes retryablehttp's leveled logging into zerolog.
type retryLogger struct{ log zerolog.Logger }

func (l retryLogger) Error(msg string, kv ...interface{}) { l.log.Error().Fields(kv).Msg(msg) }
func (l retryLogger) Warn(msg string, kv ...interface{})  { l.log.Warn().Fields(kv).Msg(msg) }
func (l retryLogger) Info(msg string, kv ...interface{})  { l.log.Debug().Fields(kv).Msg(msg) }
func (l retryLogger) Debug(msg string, kv ...interface{}) { l.log.Debug().Fields(kv).Msg(msg) }
