package analysis

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/beautyai/beautyai-api/internal/analyzer"
	"github.com/beautyai/beautyai-api/internal/audit"
	"github.com/beautyai/beautyai-api/internal/auth"
	"github.com/beautyai/beautyai-api/internal/authz"
	domain "github.com/beautyai/beautyai-api/internal/domain/analysis"
	"github.com/beautyai/beautyai-api/internal/httperr"
	"github.com/beautyai/beautyai-api/internal/imaging"
	"github.com/beautyai/beautyai-api/internal/models"
	"github.com/beautyai/beautyai-api/internal/storage"
)

var (
	ErrClientNotFound        = httperr.ErrNotFound("client_not_found", "Client not found")
	ErrClientProfileNotFound = httperr.ErrNotFound("client_profile_not_found", "Client profile not found")
	ErrAnalysisNotFound      = httperr.ErrNotFound("analysis_not_found", "Analysis not found")
	ErrImageNotFound         = httperr.ErrNotFound("image_not_found", "Analysis has no image")

	ErrNoClientPermission   = httperr.ErrForbidden("no_permission_for_client", "No permission for this client")
	ErrNoAnalysisPermission = httperr.ErrForbidden("no_permission_for_analysis", "No permission for this analysis")

	ErrInvalidSkinType = httperr.ErrBadRequest("invalid_skin_type", "Unknown skin type")
	ErrInvalidMetrics  = httperr.ErrBadRequest("invalid_metrics", "Metrics must be between 0 and 100")
	ErrInvalidImage    = httperr.ErrBadRequest("invalid_image", "Image must be JPEG, PNG or WebP")
)

const (
	defaultLimit = 100
	maxLimit     = 500
)

type Auditor interface {
	Dispatch(ev audit.Event)
}

type ImageSettings struct {
	MaxSide int
	Quality float32
}

func notFoundAs(err error, nf error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nf
	}
	return err
}

// Service groups the analysis workflows; they share storage and inference.
type Service struct {
	repo     domain.Repository
	store    storage.Storage
	analyzer analyzer.Analyzer
	audit    Auditor
	image    ImageSettings
	log      *zap.Logger
	now      func() time.Time
}

func NewService(
	repo domain.Repository,
	store storage.Storage,
	az analyzer.Analyzer,
	audit Auditor,
	image ImageSettings,
	log *zap.Logger,
) *Service {
	return &Service{
		repo:     repo,
		store:    store,
		analyzer: az,
		audit:    audit,
		image:    image,
		log:      log,
		now:      time.Now,
	}
}

// ======================================================
// CREATE
// ======================================================

type CreateInput struct {
	ClientID uint
	SkinType string
	Notes    string
	// Image is optional.
	Image io.Reader
}

func (s *Service) Create(ctx context.Context, caller *models.User, in CreateInput) (*models.Analysis, error) {
	if err := auth.RequireAdmin(caller); err != nil {
		return nil, err
	}

	client, err := s.repo.GetClient(ctx, in.ClientID)
	if err != nil {
		return nil, notFoundAs(err, ErrClientNotFound)
	}
	if err := authz.Authorize(caller, client, authz.Manage); err != nil {
		return nil, ErrNoClientPermission
	}

	if in.SkinType != "" && !models.IsValidSkinType(in.SkinType) {
		return nil, ErrInvalidSkinType
	}

	a := &models.Analysis{
		ClientID:    client.ID,
		CreatedBy:   caller.ID,
		PerformedAt: s.now().UTC(),
		SkinType:    in.SkinType,
		Notes:       in.Notes,
	}

	var result *analyzer.Result
	if in.Image != nil {
		result, err = s.ingestImage(ctx, a, in.Image)
		if err != nil {
			return nil, err
		}
	}

	err = s.repo.Transaction(ctx, func(tx domain.Repository) error {
		if err := tx.CreateAnalysis(ctx, a); err != nil {
			return err
		}
		if result == nil || len(result.RecommendedProductIDs) == 0 {
			return nil
		}
		// unknown ids from the model are ignored
		products, err := tx.GetProductsByIDs(ctx, domain.UniqueIDs(result.RecommendedProductIDs))
		if err != nil {
			return err
		}
		if len(products) == 0 {
			return nil
		}
		return tx.ReplaceRecommendedProducts(ctx, a, products)
	})
	if err != nil {
		if a.ImagePath != "" {
			if derr := s.store.Delete(ctx, a.ImagePath); derr != nil {
				s.log.Warn("orphaned analysis image", zap.String("key", a.ImagePath), zap.Error(derr))
			}
		}
		return nil, err
	}

	s.audit.Dispatch(audit.Event{
		UserID:   &caller.ID,
		ClientID: &client.ID,
		Action:   audit.ActionAnalysisCreated,
		Entity:   "analysis",
		EntityID: &a.ID,
		Metadata: map[string]any{"image": a.ImagePath != ""},
	})

	return s.repo.GetAnalysis(ctx, a.ID)
}

// ingestImage normalises and stores the photo, then asks the analyzer for metrics.
// An analyzer failure is logged and the analysis is kept without metrics.
func (s *Service) ingestImage(ctx context.Context, a *models.Analysis, img io.Reader) (*analyzer.Result, error) {
	data, err := imaging.Normalize(img, s.image.MaxSide, s.image.Quality)
	if err != nil {
		if errors.Is(err, imaging.ErrUnsupportedImage) {
			return nil, ErrInvalidImage
		}
		return nil, err
	}

	key, err := s.store.Put(ctx, fmt.Sprintf("analyses/%d", a.ClientID), imaging.Extension, bytes.NewReader(data), imaging.ContentType)
	if err != nil {
		return nil, fmt.Errorf("store image: %w", err)
	}
	a.ImagePath = key

	result, err := s.analyzer.Analyze(ctx, data, imaging.ContentType)
	if err != nil {
		s.log.Warn("skin analysis unavailable", zap.Uint("client_id", a.ClientID), zap.Error(err))
		return nil, nil
	}

	if a.SkinType == "" && models.IsValidSkinType(result.SkinType) {
		a.SkinType = result.SkinType
	}
	a.HydrationLevel = result.HydrationLevel
	a.SebumLevel = result.SebumLevel
	a.Pigmentation = result.Pigmentation
	a.Wrinkles = result.Wrinkles
	a.Pores = result.Pores
	a.Sensitivity = result.Sensitivity
	a.AIRecommendations = result.Recommendations

	return result, nil
}

// ======================================================
// READ
// ======================================================

type ListInput struct {
	ClientID *uint
	Skip     int
	Limit    int
}

func (s *Service) List(ctx context.Context, caller *models.User, in ListInput) ([]models.Analysis, error) {
	skip, limit := in.Skip, in.Limit
	if skip < 0 {
		skip = 0
	}
	if limit <= 0 {
		limit = defaultLimit
	}
	if limit > maxLimit {
		limit = maxLimit
	}
	f := domain.ListFilter{Skip: skip, Limit: limit}

	switch caller.Role {
	case models.RoleSuperadmin:
		if in.ClientID != nil {
			f.ClientIDs = []uint{*in.ClientID}
		}

	case models.RoleAdmin:
		if in.ClientID != nil {
			client, err := s.repo.GetClient(ctx, *in.ClientID)
			if err != nil {
				return nil, notFoundAs(err, ErrNoClientPermission)
			}
			if !client.AssignedTo(caller.ID) {
				return nil, ErrNoClientPermission
			}
			f.ClientIDs = []uint{client.ID}
			break
		}

		ids, err := s.repo.ListClientIDsForCosmetologist(ctx, caller.ID)
		if err != nil {
			return nil, err
		}
		if len(ids) == 0 {
			return []models.Analysis{}, nil
		}
		f.ClientIDs = ids

	default:
		client, err := s.repo.GetClientByUserID(ctx, caller.ID)
		if err != nil {
			return nil, notFoundAs(err, ErrClientProfileNotFound)
		}
		f.ClientIDs = []uint{client.ID}
	}

	return s.repo.ListAnalyses(ctx, f)
}

func (s *Service) Get(ctx context.Context, caller *models.User, id uint) (*models.Analysis, error) {
	return s.load(ctx, caller, id, authz.Read)
}

func (s *Service) load(ctx context.Context, caller *models.User, id uint, access authz.Access) (*models.Analysis, error) {
	a, err := s.repo.GetAnalysis(ctx, id)
	if err != nil {
		return nil, notFoundAs(err, ErrAnalysisNotFound)
	}
	if a.Client == nil {
		return nil, ErrNoAnalysisPermission
	}
	if err := authz.Authorize(caller, a.Client, access); err != nil {
		return nil, ErrNoAnalysisPermission
	}
	return a, nil
}

// OpenImage streams the stored photo. The caller closes the reader.
func (s *Service) OpenImage(ctx context.Context, caller *models.User, id uint) (io.ReadCloser, string, error) {
	a, err := s.load(ctx, caller, id, authz.Read)
	if err != nil {
		return nil, "", err
	}
	if a.ImagePath == "" {
		return nil, "", ErrImageNotFound
	}

	rc, err := s.store.Get(ctx, a.ImagePath)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return nil, "", ErrImageNotFound
		}
		return nil, "", err
	}
	return rc, imaging.ContentType, nil
}

// ======================================================
// UPDATE
// ======================================================

func (s *Service) Update(ctx context.Context, caller *models.User, id uint, patch domain.Patch) (*models.Analysis, error) {
	if err := auth.RequireAdmin(caller); err != nil {
		return nil, err
	}

	a, err := s.load(ctx, caller, id, authz.Manage)
	if err != nil {
		return nil, err
	}

	if !patch.Valid() {
		if patch.SkinType != nil && *patch.SkinType != "" && !models.IsValidSkinType(*patch.SkinType) {
			return nil, ErrInvalidSkinType
		}
		return nil, ErrInvalidMetrics
	}

	patch.Apply(a)

	if err := s.repo.UpdateAnalysis(ctx, a); err != nil {
		return nil, err
	}
	return a, nil
}

// ReplaceProducts sets the recommended product set. Every id must exist.
func (s *Service) ReplaceProducts(ctx context.Context, caller *models.User, id uint, productIDs []uint) (*models.Analysis, error) {
	if err := auth.RequireAdmin(caller); err != nil {
		return nil, err
	}

	a, err := s.load(ctx, caller, id, authz.Manage)
	if err != nil {
		return nil, err
	}

	ids := domain.UniqueIDs(productIDs)

	products, err := s.repo.GetProductsByIDs(ctx, ids)
	if err != nil {
		return nil, err
	}

	byID := make(map[uint]models.Product, len(products))
	for _, p := range products {
		byID[p.ID] = p
	}

	ordered := make([]models.Product, 0, len(ids))
	for _, pid := range ids {
		p, ok := byID[pid]
		if !ok {
			return nil, httperr.ErrNotFound("product_not_found", fmt.Sprintf("Product with id %d not found", pid))
		}
		ordered = append(ordered, p)
	}

	if err := s.repo.ReplaceRecommendedProducts(ctx, a, ordered); err != nil {
		return nil, err
	}

	a.RecommendedProducts = ordered
	return a, nil
}
