package banner

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubFeed struct {
	records []Record
	err     error
	calls   int
}

func (s *stubFeed) FetchBanners(ctx context.Context) ([]Record, error) {
	s.calls++
	return s.records, s.err
}

func (s *stubFeed) Name() string { return "stub" }

func TestFetchActiveBannersWrapsError(t *testing.T) {
	boom := errors.New("boom")
	_, err := FetchActiveBanners(context.Background(), &stubFeed{err: boom}, refNow)

	var fe *FetchError
	require.True(t, errors.As(err, &fe))
	assert.Equal(t, "stub", fe.Source)
	assert.ErrorIs(t, err, boom)
}

func TestSnapshotKeepsPreviousOnFailure(t *testing.T) {
	feed := &stubFeed{records: []Record{
		{ID: "a", EndDate: "2024-06-20"},
		{ID: "old", EndDate: "2024-06-01"},
	}}
	s := NewSnapshot(feed, zerolog.Nop())
	s.now = func() time.Time { return refNow }

	require.NoError(t, s.Refresh(context.Background()))
	got, at := s.Banners()
	assert.Equal(t, []string{"a"}, ids(got))
	assert.Equal(t, refNow, at)
	assert.NoError(t, s.LastError())

	feed.err = errors.New("offline")
	err := s.Refresh(context.Background())
	require.Error(t, err)
	assert.Error(t, s.LastError())

	got, _ = s.Banners()
	assert.Equal(t, []string{"a"}, ids(got))
}

func TestSnapshotExpiresBetweenRefreshes(t *testing.T) {
	feed := &stubFeed{records: []Record{{ID: "a", EndDate: "2024-06-20"}}}
	s := NewSnapshot(feed, zerolog.Nop())
	s.now = func() time.Time { return refNow }
	require.NoError(t, s.Refresh(context.Background()))

	s.now = func() time.Time { return day(21) }
	got, _ := s.Banners()
	assert.Empty(t, got)
}

func TestSnapshotSchedule(t *testing.T) {
	s := NewSnapshot(&stubFeed{}, zerolog.Nop())
	c := cron.New()
	id, err := s.Schedule(c, "@every 10m")
	require.NoError(t, err)
	assert.NotZero(t, id)
	assert.Len(t, c.Entries(), 1)

	_, err = s.Schedule(c, "not a spec")
	assert.Error(t, err)
}

func TestFileFeed(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "banners.yaml")
	doc := `banners:
  - id: "b1"
    startDate: "2024-06-10"
    endDate: "2024-06-20T03:00:00Z"
    type: "New"
    characters:
      - id: "10000"
        name: "Shiroko"
        rarity: 3
        isNew: true
`
	require.NoError(t, os.WriteFile(path, []byte(doc), 0o644))

	feed := FileFeed{Path: path}
	recs, err := feed.FetchBanners(context.Background())
	require.NoError(t, err)
	require.Len(t, recs, 1)
	assert.Equal(t, TypeNew, recs[0].Type)
	assert.Equal(t, "Shiroko", recs[0].Characters[0].Name)
	assert.True(t, recs[0].Characters[0].IsNew)

	_, err = FileFeed{Path: filepath.Join(dir, "missing.yaml")}.FetchBanners(context.Background())
	assert.Error(t, err)

	require.NoError(t, os.WriteFile(path, []byte("banners: [oops"), 0o644))
	_, err = feed.FetchBanners(context.Background())
	assert.Error(t, err)
}
