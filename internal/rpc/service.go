// Package rpc serves the calculators over gRPC. Messages are
// google.protobuf.Struct values carrying the same JSON shapes the HTTP API
// uses, so no generated code is needed.
package rpc

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/encoding/protojson"
	"google.golang.org/protobuf/types/known/structpb"

	"github.com/xtding233/ba-companion/internal/banner"
	"github.com/xtding233/ba-companion/internal/calc"
)

const ServiceName = "bacalc.v1.Calculator"

// CalculatorSource yields the calculator for the current game data.
type CalculatorSource interface {
	Calculator() (*calc.Calculator, error)
}

// BannerSource yields the current active banners.
type BannerSource interface {
	Banners() ([]banner.Banner, time.Time)
	LastError() error
}

// CalculatorServer is the server API for bacalc.v1.Calculator.
type CalculatorServer interface {
	BondExp(context.Context, *structpb.Struct) (*structpb.Struct, error)
	CharacterExp(context.Context, *structpb.Struct) (*structpb.Struct, error)
	Promotion(context.Context, *structpb.Struct) (*structpb.Struct, error)
	ActiveBanners(context.Context, *structpb.Struct) (*structpb.Struct, error)
}

// Service implements CalculatorServer.
type Service struct {
	calcs   CalculatorSource
	banners BannerSource // nil when no feed is configured
	pace    calc.BondPace
	log     zerolog.Logger
}

var _ CalculatorServer = (*Service)(nil)

// NewService creates the gRPC service.
func NewService(calcs CalculatorSource, banners BannerSource, pace calc.BondPace, log zerolog.Logger) *Service {
	return &Service{
		calcs:   calcs,
		banners: banners,
		pace:    pace,
		log:     log.With().Str("component", "grpc").Logger(),
	}
}

type bondRequest struct {
	From  int    `json:"from"`
	To    int    `json:"to"`
	Pats  *int   `json:"pats"`
	Gifts *int   `json:"gifts"`
	Order string `json:"order"`
}

type bannersRequest struct {
	Q    string `json:"q"`
	Type string `json:"type"`
	Sort string `json:"sort"`
}

type bannersReply struct {
	Banners   []banner.Banner `json:"banners"`
	Count     int             `json:"count"`
	FetchedAt time.Time       `json:"fetched_at"`
	Stale     string          `json:"stale,omitempty"`
}

func (s *Service) calculator() (*calc.Calculator, error) {
	c, err := s.calcs.Calculator()
	if err != nil {
		s.log.Error().Err(err).Msg("Game data unavailable")
		return nil, status.Error(codes.Unavailable, "game data unavailable")
	}
	return c, nil
}

// BondExp returns a calc.BondReport.
func (s *Service) BondExp(ctx context.Context, in *structpb.Struct) (*structpb.Struct, error) {
	var req bondRequest
	if err := decode(in, &req); err != nil {
		return nil, err
	}
	pace := s.pace
	if req.Pats != nil {
		pace.PatsPerDay = *req.Pats
	}
	if req.Gifts != nil {
		pace.GiftsPerMonth = *req.Gifts
	}
	order, err := calc.ParseSortOrder(req.Order)
	if err != nil {
		return nil, toStatus(err)
	}
	c, err := s.calculator()
	if err != nil {
		return nil, err
	}
	rep, err := c.BondReport(req.From, req.To, pace, order)
	if err != nil {
		return nil, toStatus(err)
	}
	return encode(rep)
}

// CharacterExp takes a calc.CharacterRequest and returns a calc.CharacterResult.
func (s *Service) CharacterExp(ctx context.Context, in *structpb.Struct) (*structpb.Struct, error) {
	var req calc.CharacterRequest
	if err := decode(in, &req); err != nil {
		return nil, err
	}
	c, err := s.calculator()
	if err != nil {
		return nil, err
	}
	res, err := c.CharacterExpPlan(req)
	if err != nil {
		return nil, toStatus(err)
	}
	return encode(res)
}

// Promotion takes a calc.PromotionRequest and returns a calc.PromotionResult.
func (s *Service) Promotion(ctx context.Context, in *structpb.Struct) (*structpb.Struct, error) {
	var req calc.PromotionRequest
	if err := decode(in, &req); err != nil {
		return nil, err
	}
	c, err := s.calculator()
	if err != nil {
		return nil, err
	}
	res, err := c.PromotionPlan(req)
	if err != nil {
		return nil, toStatus(err)
	}
	return encode(res)
}

// ActiveBanners returns the snapshot filtered by q, type and sort.
func (s *Service) ActiveBanners(ctx context.Context, in *structpb.Struct) (*structpb.Struct, error) {
	var req bannersRequest
	if err := decode(in, &req); err != nil {
		return nil, err
	}
	query, err := banner.ParseQuery(req.Q, req.Type, req.Sort)
	if err != nil {
		return nil, status.Error(codes.InvalidArgument, err.Error())
	}
	if s.banners == nil {
		return nil, status.Error(codes.FailedPrecondition, "banner feed not configured")
	}
	list, fetchedAt := s.banners.Banners()
	lastErr := s.banners.LastError()
	if fetchedAt.IsZero() {
		if lastErr != nil {
			return nil, toStatus(lastErr)
		}
		return nil, status.Error(codes.Unavailable, "banner snapshot not ready")
	}
	out := banner.Apply(list, query)
	reply := bannersReply{Banners: out, Count: len(out), FetchedAt: fetchedAt}
	if lastErr != nil {
		reply.Stale = lastErr.Error()
	}
	return encode(reply)
}

// toStatus maps domain errors to gRPC codes.
func toStatus(err error) error {
	var fe *banner.FetchError
	switch {
	case errors.Is(err, calc.ErrRange), errors.Is(err, calc.ErrInvalidCombination):
		return status.Error(codes.InvalidArgument, err.Error())
	case errors.As(err, &fe):
		return status.Error(codes.Unavailable, err.Error())
	}
	return status.Error(codes.Internal, err.Error())
}

func decode(in *structpb.Struct, v interface{}) error {
	b, err := protojson.Marshal(in)
	if err != nil {
		return status.Error(codes.InvalidArgument, err.Error())
	}
	if err := json.Unmarshal(b, v); err != nil {
		return status.Error(codes.InvalidArgument, fmt.Sprintf("invalid request: %v", err))
	}
	return nil
}

func encode(v interface{}) (*structpb.Struct, error) {
	b, err := json.Marshal(v)
	if err != nil {
		return nil, status.Error(codes.Internal, err.Error())
	}
	out := &structpb.Struct{}
	if err := protojson.Unmarshal(b, out); err != nil {
		return nil, status.Error(codes.Internal, err.Error())
	}
	return out, nil
}

// Register adds svc to s.
func Register(s grpc.ServiceRegistrar, svc CalculatorServer) {
	s.RegisterService(&ServiceDesc, svc)
}
