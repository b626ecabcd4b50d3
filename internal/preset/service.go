package preset

import (
	"context"
	stderrors "errors"
	"log/slog"

	"github.com/go-playground/validator/v10"

	"starmap-server/internal/search"
	"starmap-server/internal/shared/errors"
)

var validate = validator.New()

// Searcher is satisfied by *search.Service.
type Searcher interface {
	Run(ctx context.Context, q search.Query) ([]byte, error)
}

type Service struct {
	repo     Store
	searches Searcher
	logger   *slog.Logger
}

func NewService(repo Store, searches Searcher, logger *slog.Logger) *Service {
	return &Service{
		repo:     repo,
		searches: searches,
		logger:   logger,
	}
}

// Create validates the preset and its query before saving it.
func (s *Service) Create(ctx context.Context, req CreatePresetRequest, createdBy string) (*Preset, error) {
	logger := s.logger.With("component", "preset_service", "operation", "create_preset", "name", req.Name)

	if err := validate.Struct(req); err != nil {
		return nil, errors.WrapValidation("invalid preset", err)
	}
	if _, err := req.Query.Query(); err != nil {
		return nil, err
	}

	created, err := s.repo.Create(ctx, &Preset{
		Name:        req.Name,
		Description: req.Description,
		Query:       req.Query,
		CreatedBy:   createdBy,
	})
	if err != nil {
		if stderrors.Is(err, ErrDuplicateName) {
			return nil, errors.Conflictf("preset %q already exists", req.Name)
		}
		return nil, errors.WrapInternal("failed to create preset", err)
	}

	logger.Info("Preset saved", "preset_id", created.ID, "created_by", createdBy)
	return created, nil
}

func (s *Service) Get(ctx context.Context, id int) (*Preset, error) {
	p, err := s.repo.Get(ctx, id)
	if err != nil {
		return nil, errors.WrapInternal("failed to get preset", err)
	}
	if p == nil {
		return nil, errors.NotFoundf("preset %d not found", id)
	}
	return p, nil
}

func (s *Service) List(ctx context.Context) ([]Preset, error) {
	presets, err := s.repo.List(ctx)
	if err != nil {
		return nil, errors.WrapInternal("failed to list presets", err)
	}
	return presets, nil
}

func (s *Service) Delete(ctx context.Context, id int) error {
	deleted, err := s.repo.Delete(ctx, id)
	if err != nil {
		return errors.WrapInternal("failed to delete preset", err)
	}
	if !deleted {
		return errors.NotFoundf("preset %d not found", id)
	}
	return nil
}

// Run executes the saved query of a preset against the current universe.
func (s *Service) Run(ctx context.Context, id int) ([]byte, error) {
	p, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	q, err := p.Query.Query()
	if err != nil {
		return nil, err
	}

	s.logger.Debug("Running preset", "component", "preset_service", "preset_id", id, "name", p.Name)
	return s.searches.Run(ctx, q)
}
