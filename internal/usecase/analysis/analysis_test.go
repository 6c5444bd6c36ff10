package analysis

import (
	"bytes"
	"context"
	"errors"
	"image"
	"image/png"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/beautyai/beautyai-api/internal/analyzer"
	"github.com/beautyai/beautyai-api/internal/audit"
	domain "github.com/beautyai/beautyai-api/internal/domain/analysis"
	"github.com/beautyai/beautyai-api/internal/models"
	"github.com/beautyai/beautyai-api/internal/storage"
)

// ======================================================
// FAKES
// ======================================================

type fakeRepo struct {
	clients   map[uint]*models.Client
	products  map[uint]models.Product
	analyses  map[uint]*models.Analysis
	nextID    uint
	failWrite bool
}

var _ domain.Repository = (*fakeRepo)(nil)

func (r *fakeRepo) Transaction(_ context.Context, fn func(tx domain.Repository) error) error {
	snapshot := make(map[uint]*models.Analysis, len(r.analyses))
	for k, v := range r.analyses {
		cp := *v
		snapshot[k] = &cp
	}
	if err := fn(r); err != nil {
		r.analyses = snapshot
		return err
	}
	return nil
}

func (r *fakeRepo) GetClient(_ context.Context, id uint) (*models.Client, error) {
	if c, ok := r.clients[id]; ok {
		return c, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *fakeRepo) GetClientByUserID(_ context.Context, userID uint) (*models.Client, error) {
	for _, c := range r.clients {
		if c.UserID == userID {
			return c, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *fakeRepo) ListClientIDsForCosmetologist(_ context.Context, id uint) ([]uint, error) {
	var ids []uint
	for _, c := range r.clients {
		if c.AssignedTo(id) {
			ids = append(ids, c.ID)
		}
	}
	return ids, nil
}

func (r *fakeRepo) GetProductsByIDs(_ context.Context, ids []uint) ([]models.Product, error) {
	var out []models.Product
	for _, id := range ids {
		if p, ok := r.products[id]; ok {
			out = append(out, p)
		}
	}
	// unordered on purpose
	sort.Slice(out, func(i, j int) bool { return out[i].ID > out[j].ID })
	return out, nil
}

func (r *fakeRepo) CreateAnalysis(_ context.Context, a *models.Analysis) error {
	if r.failWrite {
		return errors.New("insert failed")
	}
	r.nextID++
	a.ID = r.nextID
	cp := *a
	r.analyses[a.ID] = &cp
	return nil
}

func (r *fakeRepo) UpdateAnalysis(_ context.Context, a *models.Analysis) error {
	cp := *a
	r.analyses[a.ID] = &cp
	return nil
}

func (r *fakeRepo) GetAnalysis(_ context.Context, id uint) (*models.Analysis, error) {
	a, ok := r.analyses[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	cp := *a
	cp.Client = r.clients[a.ClientID]
	return &cp, nil
}

func (r *fakeRepo) ListAnalyses(_ context.Context, f domain.ListFilter) ([]models.Analysis, error) {
	allowed := map[uint]bool{}
	for _, id := range f.ClientIDs {
		allowed[id] = true
	}
	var out []models.Analysis
	for _, a := range r.analyses {
		if f.ClientIDs == nil || allowed[a.ClientID] {
			out = append(out, *a)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID > out[j].ID })
	return out, nil
}

func (r *fakeRepo) ReplaceRecommendedProducts(_ context.Context, a *models.Analysis, products []models.Product) error {
	r.analyses[a.ID].RecommendedProducts = append([]models.Product(nil), products...)
	return nil
}

type fakeAnalyzer struct {
	result *analyzer.Result
	err    error
	calls  int
}

func (f *fakeAnalyzer) Analyze(context.Context, []byte, string) (*analyzer.Result, error) {
	f.calls++
	return f.result, f.err
}

type nopAuditor struct{ events []audit.Event }

func (a *nopAuditor) Dispatch(ev audit.Event) { a.events = append(a.events, ev) }

// ======================================================
// FIXTURE
// ======================================================

func uptr(v uint) *uint       { return &v }
func fptr(v float64) *float64 { return &v }
func sptr(v string) *string   { return &v }

var (
	root    = &models.User{ID: 1, Role: models.RoleSuperadmin}
	cosmoA  = &models.User{ID: 2, Role: models.RoleAdmin}
	cosmoB  = &models.User{ID: 3, Role: models.RoleAdmin}
	clientC = &models.User{ID: 5, Role: models.RoleClient}
	clientD = &models.User{ID: 6, Role: models.RoleClient}
)

type fixture struct {
	repo     *fakeRepo
	dir      string
	analyzer *fakeAnalyzer
	auditor  *nopAuditor
	svc      *Service
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	dir := t.TempDir()
	store, err := storage.NewLocalStorage(dir)
	require.NoError(t, err)

	repo := &fakeRepo{
		clients: map[uint]*models.Client{
			10: {ID: 10, UserID: 5, CosmetologistID: uptr(2)},
			11: {ID: 11, UserID: 6, CosmetologistID: uptr(3)},
		},
		products: map[uint]models.Product{
			3: {ID: 3, Name: "Serum"},
			9: {ID: 9, Name: "Cream"},
		},
		analyses: map[uint]*models.Analysis{},
	}

	az := &fakeAnalyzer{result: &analyzer.Result{
		SkinType:              "oily",
		HydrationLevel:        fptr(35),
		SebumLevel:            fptr(72),
		Recommendations:       "Light gel moisturiser.",
		RecommendedProductIDs: []uint{9, 404, 3, 9},
	}}
	aud := &nopAuditor{}

	svc := NewService(repo, store, az, aud, ImageSettings{MaxSide: 64, Quality: 75}, zap.NewNop())
	svc.now = func() time.Time { return time.Date(2026, 2, 2, 9, 0, 0, 0, time.UTC) }

	return &fixture{repo: repo, dir: dir, analyzer: az, auditor: aud, svc: svc}
}

func photo(t *testing.T) io.Reader {
	t.Helper()
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, image.NewRGBA(image.Rect(0, 0, 200, 100))))
	return &buf
}

func storedFiles(t *testing.T, dir string) []string {
	t.Helper()
	var files []string
	_ = filepath.Walk(dir, func(p string, info os.FileInfo, err error) error {
		if err == nil && !info.IsDir() {
			files = append(files, p)
		}
		return nil
	})
	return files
}

// ======================================================
// TESTS
// ======================================================

func TestCreate_WithImage(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	a, err := f.svc.Create(ctx, cosmoA, CreateInput{ClientID: 10, Notes: "first visit", Image: photo(t)})
	require.NoError(t, err)

	assert.Equal(t, uint(2), a.CreatedBy)
	assert.Equal(t, "oily", a.SkinType)
	assert.Equal(t, 35.0, *a.HydrationLevel)
	assert.Nil(t, a.Wrinkles)
	assert.Equal(t, "Light gel moisturiser.", a.AIRecommendations)
	assert.True(t, strings.HasPrefix(a.ImagePath, "analyses/10/"))
	assert.Len(t, a.RecommendedProducts, 2)
	assert.Len(t, storedFiles(t, f.dir), 1)
	assert.Equal(t, audit.ActionAnalysisCreated, f.auditor.events[0].Action)

	rc, ct, err := f.svc.OpenImage(ctx, clientC, a.ID)
	require.NoError(t, err)
	defer rc.Close()
	assert.Equal(t, "image/webp", ct)
	head := make([]byte, 4)
	_, err = io.ReadFull(rc, head)
	require.NoError(t, err)
	assert.Equal(t, "RIFF", string(head))
}

func TestCreate_ExplicitSkinTypeWins(t *testing.T) {
	f := newFixture(t)

	a, err := f.svc.Create(context.Background(), cosmoA, CreateInput{ClientID: 10, SkinType: "dry", Image: photo(t)})
	require.NoError(t, err)
	assert.Equal(t, "dry", a.SkinType)
}

func TestCreate_WithoutImageSkipsAnalyzer(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	a, err := f.svc.Create(ctx, cosmoA, CreateInput{ClientID: 10, SkinType: "normal"})
	require.NoError(t, err)
	assert.Equal(t, 0, f.analyzer.calls)
	assert.Empty(t, a.ImagePath)

	_, _, err = f.svc.OpenImage(ctx, cosmoA, a.ID)
	assert.ErrorIs(t, err, ErrImageNotFound)
}

func TestCreate_AnalyzerDownKeepsAnalysis(t *testing.T) {
	f := newFixture(t)
	f.analyzer.err = errors.New("timeout")
	f.analyzer.result = nil

	a, err := f.svc.Create(context.Background(), cosmoA, CreateInput{ClientID: 10, Image: photo(t)})
	require.NoError(t, err)
	assert.NotEmpty(t, a.ImagePath)
	assert.Nil(t, a.HydrationLevel)
	assert.Empty(t, a.RecommendedProducts)
}

func TestCreate_Failures(t *testing.T) {
	ctx := context.Background()

	f := newFixture(t)
	_, err := f.svc.Create(ctx, cosmoA, CreateInput{ClientID: 99})
	assert.ErrorIs(t, err, ErrClientNotFound)

	_, err = f.svc.Create(ctx, cosmoB, CreateInput{ClientID: 10})
	assert.ErrorIs(t, err, ErrNoClientPermission)

	_, err = f.svc.Create(ctx, clientC, CreateInput{ClientID: 10})
	assert.Error(t, err)

	_, err = f.svc.Create(ctx, cosmoA, CreateInput{ClientID: 10, SkinType: "greasy"})
	assert.ErrorIs(t, err, ErrInvalidSkinType)

	_, err = f.svc.Create(ctx, cosmoA, CreateInput{ClientID: 10, Image: strings.NewReader("nope")})
	assert.ErrorIs(t, err, ErrInvalidImage)

	assert.Empty(t, f.repo.analyses)
	assert.Empty(t, storedFiles(t, f.dir))
}

func TestCreate_WriteFailureRemovesImage(t *testing.T) {
	f := newFixture(t)
	f.repo.failWrite = true

	_, err := f.svc.Create(context.Background(), cosmoA, CreateInput{ClientID: 10, Image: photo(t)})
	require.Error(t, err)
	assert.Empty(t, storedFiles(t, f.dir))
}

func TestGetAndList(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	mine, err := f.svc.Create(ctx, cosmoA, CreateInput{ClientID: 10})
	require.NoError(t, err)
	other, err := f.svc.Create(ctx, cosmoB, CreateInput{ClientID: 11})
	require.NoError(t, err)

	_, err = f.svc.Get(ctx, clientD, mine.ID)
	assert.ErrorIs(t, err, ErrNoAnalysisPermission)
	_, err = f.svc.Get(ctx, clientD, 999)
	assert.ErrorIs(t, err, ErrAnalysisNotFound)

	got, err := f.svc.List(ctx, cosmoA, ListInput{})
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, mine.ID, got[0].ID)

	got, err = f.svc.List(ctx, clientD, ListInput{ClientID: uptr(10)})
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, other.ID, got[0].ID)

	_, err = f.svc.List(ctx, cosmoA, ListInput{ClientID: uptr(11)})
	assert.ErrorIs(t, err, ErrNoClientPermission)

	got, err = f.svc.List(ctx, root, ListInput{})
	require.NoError(t, err)
	assert.Len(t, got, 2)
}

func TestUpdate(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	a, err := f.svc.Create(ctx, cosmoA, CreateInput{ClientID: 10, SkinType: "dry"})
	require.NoError(t, err)

	updated, err := f.svc.Update(ctx, cosmoA, a.ID, domain.Patch{Wrinkles: fptr(22), Notes: sptr("follow-up")})
	require.NoError(t, err)
	assert.Equal(t, 22.0, *updated.Wrinkles)
	assert.Equal(t, "dry", updated.SkinType)
	assert.Equal(t, "follow-up", f.repo.analyses[a.ID].Notes)

	_, err = f.svc.Update(ctx, cosmoA, a.ID, domain.Patch{SkinType: sptr("greasy")})
	assert.ErrorIs(t, err, ErrInvalidSkinType)

	_, err = f.svc.Update(ctx, cosmoA, a.ID, domain.Patch{Pores: fptr(140)})
	assert.ErrorIs(t, err, ErrInvalidMetrics)

	_, err = f.svc.Update(ctx, cosmoB, a.ID, domain.Patch{})
	assert.ErrorIs(t, err, ErrNoAnalysisPermission)
}

func TestReplaceProducts(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	a, err := f.svc.Create(ctx, cosmoA, CreateInput{ClientID: 10})
	require.NoError(t, err)

	got, err := f.svc.ReplaceProducts(ctx, cosmoA, a.ID, []uint{3, 9, 3})
	require.NoError(t, err)
	require.Len(t, got.RecommendedProducts, 2)
	assert.Equal(t, uint(3), got.RecommendedProducts[0].ID)
	assert.Equal(t, uint(9), got.RecommendedProducts[1].ID)

	_, err = f.svc.ReplaceProducts(ctx, cosmoA, a.ID, []uint{3, 404})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Product with id 404 not found")
	assert.Len(t, f.repo.analyses[a.ID].RecommendedProducts, 2)

	got, err = f.svc.ReplaceProducts(ctx, cosmoA, a.ID, nil)
	require.NoError(t, err)
	assert.Empty(t, got.RecommendedProducts)
}
