package rpc

import (
	"context"
	"errors"
	"net"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/credentials/insecure"
	"google.golang.org/grpc/metadata"
	"google.golang.org/grpc/status"
	"google.golang.org/grpc/test/bufconn"
	"google.golang.org/protobuf/types/known/structpb"

	"github.com/xtding233/ba-companion/internal/banner"
	"github.com/xtding233/ba-companion/internal/calc"
	"github.com/xtding233/ba-companion/internal/gamedata"
)

type fakeBanners struct {
	list []banner.Banner
	at   time.Time
	err  error
}

func (f *fakeBanners) Banners() ([]banner.Banner, time.Time) { return f.list, f.at }
func (f *fakeBanners) LastError() error                     { return f.err }

func dial(t *testing.T, banners BannerSource) *Client {
	t.Helper()
	lis := bufconn.Listen(1 << 20)
	svc := NewService(gamedata.NewLoader(""), banners, calc.DefaultBondPace, zerolog.Nop())
	srv := NewServer(svc, zerolog.Nop())
	go func() { _ = srv.Serve(lis) }()
	t.Cleanup(srv.Stop)

	conn, err := grpc.NewClient("passthrough:///bufnet",
		grpc.WithContextDialer(func(ctx context.Context, _ string) (net.Conn, error) {
			return lis.DialContext(ctx)
		}),
		grpc.WithTransportCredentials(insecure.NewCredentials()),
	)
	require.NoError(t, err)
	t.Cleanup(func() { _ = conn.Close() })
	return NewClient(conn)
}

func mustStruct(t *testing.T, m map[string]interface{}) *structpb.Struct {
	t.Helper()
	s, err := structpb.NewStruct(m)
	require.NoError(t, err)
	return s
}

func number(t *testing.T, s *structpb.Struct, key string) int {
	t.Helper()
	v, ok := s.GetFields()[key]
	require.True(t, ok, "missing %s", key)
	return int(v.GetNumberValue())
}

func TestBondExp(t *testing.T) {
	c := dial(t, nil)
	ctx := context.Background()

	var header metadata.MD
	out, err := c.BondExp(ctx, mustStruct(t, map[string]interface{}{"from": 1, "to": 100}), grpc.Header(&header))
	require.NoError(t, err)
	assert.Equal(t, 240225, number(t, out, "total_exp"))
	est := out.GetFields()["estimate"].GetStructValue()
	assert.Equal(t, 44, number(t, est, "months"))
	assert.NotEmpty(t, header.Get("x-request-id"))

	out, err = c.BondExp(ctx, mustStruct(t, map[string]interface{}{"from": 1, "to": 2, "pats": 0, "gifts": 0}))
	require.NoError(t, err)
	est = out.GetFields()["estimate"].GetStructValue()
	assert.Equal(t, 2410, number(t, est, "monthly_gain"))

	_, err = c.BondExp(ctx, mustStruct(t, map[string]interface{}{"from": 5, "to": 5}))
	assert.Equal(t, codes.InvalidArgument, status.Code(err))
}

func TestCharacterExp(t *testing.T) {
	c := dial(t, nil)
	out, err := c.CharacterExp(context.Background(), mustStruct(t, map[string]interface{}{
		"from_level": 1,
		"to_level":   90,
		"inventory":  map[string]interface{}{"pink": 50, "grey": 3},
	}))
	require.NoError(t, err)
	assert.Equal(t, 1005265, number(t, out, "total_exp"))
	assert.Equal(t, 500150, number(t, out, "available_exp"))
	assert.Equal(t, 505115, number(t, out, "exp_needed_after_inventory"))

	_, err = c.CharacterExp(context.Background(), mustStruct(t, map[string]interface{}{"from_level": "one"}))
	assert.Equal(t, codes.InvalidArgument, status.Code(err))
}

func TestPromotion(t *testing.T) {
	c := dial(t, nil)
	out, err := c.Promotion(context.Background(), mustStruct(t, map[string]interface{}{"from_rarity": 1, "to_rarity": 2}))
	require.NoError(t, err)
	assert.Equal(t, 40, number(t, out, "total_eligma"))

	_, err = c.Promotion(context.Background(), mustStruct(t, map[string]interface{}{"from_rarity": 0, "to_rarity": 2}))
	assert.Equal(t, codes.InvalidArgument, status.Code(err))
}

func TestActiveBanners(t *testing.T) {
	ctx := context.Background()

	_, err := dial(t, nil).ActiveBanners(ctx, &structpb.Struct{})
	assert.Equal(t, codes.FailedPrecondition, status.Code(err))

	failing := &fakeBanners{err: &banner.FetchError{Source: "firestore", Err: errors.New("down")}}
	_, err = dial(t, failing).ActiveBanners(ctx, &structpb.Struct{})
	assert.Equal(t, codes.Unavailable, status.Code(err))

	src := &fakeBanners{at: time.Now(), list: []banner.Banner{
		{ID: "a", Type: banner.TypeNew, Characters: []banner.Character{{Name: "Shiroko"}}},
		{ID: "b", Type: banner.TypeFes, Characters: []banner.Character{{Name: "Hoshino"}}},
	}}
	c := dial(t, src)
	out, err := c.ActiveBanners(ctx, mustStruct(t, map[string]interface{}{"type": "Fes"}))
	require.NoError(t, err)
	assert.Equal(t, 1, number(t, out, "count"))
	list := out.GetFields()["banners"].GetListValue().GetValues()
	require.Len(t, list, 1)
	assert.Equal(t, "b", list[0].GetStructValue().GetFields()["id"].GetStringValue())

	_, err = c.ActiveBanners(ctx, mustStruct(t, map[string]interface{}{"sort": "random"}))
	assert.Equal(t, codes.InvalidArgument, status.Code(err))
}
