package banner

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const page1 = `{
  "documents": [{
    "name": "projects/p/databases/(default)/documents/banners/abc",
    "fields": {
      "startDate": {"timestampValue": "2024-06-10T02:00:00Z"},
      "endDate": {"stringValue": "2024-06-20T02:00:00Z"},
      "type": {"stringValue": "Fes"},
      "eventDetails": {"stringValue": "Festival"},
      "rewards": {"arrayValue": {"values": [{"stringValue": "Pyroxene"}]}},
      "characters": {"arrayValue": {"values": [{"mapValue": {"fields": {
        "id": {"stringValue": "10001"},
        "name": {"stringValue": "Hoshino"},
        "rarity": {"integerValue": "3"},
        "isLimited": {"booleanValue": true}
      }}}]}}
    }
  }],
  "nextPageToken": "tok2"
}`

const page2 = `{
  "documents": [{
    "name": "projects/p/databases/(default)/documents/banners/def",
    "fields": {
      "endDate": {"stringValue": "2024-07-01"},
      "type": {"stringValue": "New"}
    }
  }]
}`

func TestFirestoreFeedPaginates(t *testing.T) {
	var hits int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&hits, 1)
		assert.Equal(t, "/v1/projects/p/databases/(default)/documents/banners", r.URL.Path)
		assert.Equal(t, "k", r.URL.Query().Get("key"))
		w.Header().Set("Content-Type", "application/json")
		if r.URL.Query().Get("pageToken") == "tok2" {
			_, _ = w.Write([]byte(page2))
			return
		}
		_, _ = w.Write([]byte(page1))
	}))
	defer srv.Close()

	feed, err := NewFirestoreFeed(FirestoreConfig{BaseURL: srv.URL, ProjectID: "p", APIKey: "k"}, zerolog.Nop())
	require.NoError(t, err)
	assert.Equal(t, "firestore:p/banners", feed.Name())

	recs, err := feed.FetchBanners(context.Background())
	require.NoError(t, err)
	require.Len(t, recs, 2)
	assert.EqualValues(t, 2, atomic.LoadInt32(&hits))

	a := recs[0]
	assert.Equal(t, "abc", a.ID)
	assert.Equal(t, "2024-06-10T02:00:00Z", a.StartDate)
	assert.Equal(t, TypeFes, a.Type)
	assert.Equal(t, []string{"Pyroxene"}, a.Rewards)
	require.Len(t, a.Characters, 1)
	assert.Equal(t, Character{ID: "10001", Name: "Hoshino", Rarity: 3, IsLimited: true}, a.Characters[0])

	assert.Equal(t, "def", recs[1].ID)
	assert.Empty(t, recs[1].Characters)
}

func TestFirestoreFeedReportsStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusForbidden)
		_, _ = w.Write([]byte(`{"error":{"code":403,"message":"Missing or insufficient permissions."}}`))
	}))
	defer srv.Close()

	feed, err := NewFirestoreFeed(FirestoreConfig{BaseURL: srv.URL, ProjectID: "p"}, zerolog.Nop())
	require.NoError(t, err)

	_, err = FetchActiveBanners(context.Background(), feed, refNow)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "insufficient permissions")
}

func TestNewFirestoreFeedNeedsProject(t *testing.T) {
	_, err := NewFirestoreFeed(FirestoreConfig{}, zerolog.Nop())
	assert.Error(t, err)
}
