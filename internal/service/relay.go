package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/lachabroderie/shop-api/internal/clients/mondialrelay"
)

// ErrNoPointsFound means the lookup succeeded but no usable locker remained
// after filtering. Distinct from a provider error: the handler maps it to a
// 404, not a 400.
var ErrNoPointsFound = errors.New("no pickup points found for this postal code")

// RelayClient is the slice of the Mondial Relay client the service needs.
type RelayClient interface {
	SearchPoints(ctx context.Context, codePostal string) (*mondialrelay.SearchResult, error)
}

type RelayService interface {
	Search(ctx context.Context, codePostal string) (*mondialrelay.SearchResult, error)
}

type relayService struct {
	log    *slog.Logger
	client RelayClient
}

func NewRelayService(log *slog.Logger, client RelayClient) RelayService {
	return &relayService{log: log, client: client}
}

// Search looks up lockers around the postal code. An empty surviving list
// is reported as ErrNoPointsFound rather than a provider error.
func (s *relayService) Search(ctx context.Context, codePostal string) (*mondialrelay.SearchResult, error) {
	const op = "service.RelayService.Search"
	logger := s.log.With(slog.String("op", op), slog.String("codePostal", codePostal))

	result, err := s.client.SearchPoints(ctx, codePostal)
	if err != nil {
		logger.Error("locker lookup failed", slog.Any("error", err))
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	if len(result.Points) == 0 {
		logger.Info("no pickup points after filtering")
		return nil, ErrNoPointsFound
	}

	return result, nil
}
