package api

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/DavidHLP/CSGOSkinMetrics/internal/model"
	"github.com/DavidHLP/CSGOSkinMetrics/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/datatypes"
)

func testLogger() *logrus.Logger {
	logger := logrus.New()
	logger.SetOutput(io.Discard)
	return logger
}

type stubItemBlockRepo struct {
	snaps []*model.ItemBlockSnapshot
}

func (r *stubItemBlockRepo) Insert(ctx context.Context, snap *model.ItemBlockSnapshot) error {
	r.snaps = append(r.snaps, snap)
	return nil
}

func (r *stubItemBlockRepo) Latest(ctx context.Context) (*model.ItemBlockSnapshot, error) {
	if len(r.snaps) == 0 {
		return nil, nil
	}
	return r.snaps[len(r.snaps)-1], nil
}

func (r *stubItemBlockRepo) LatestN(ctx context.Context, n int) ([]*model.ItemBlockSnapshot, error) {
	return r.snaps, nil
}

func (r *stubItemBlockRepo) RangeByTime(ctx context.Context, start, end time.Time) ([]*model.ItemBlockSnapshot, error) {
	return r.snaps, nil
}

func (r *stubItemBlockRepo) FindBySuccess(ctx context.Context, success bool) ([]*model.ItemBlockSnapshot, error) {
	return r.snaps, nil
}

func (r *stubItemBlockRepo) Count(ctx context.Context) (int64, error) {
	return int64(len(r.snaps)), nil
}

func (r *stubItemBlockRepo) Page(ctx context.Context, page, size int) ([]*model.ItemBlockSnapshot, int64, error) {
	return r.snaps, int64(len(r.snaps)), nil
}

func (r *stubItemBlockRepo) DeleteAll(ctx context.Context) (int64, error) {
	n := int64(len(r.snaps))
	r.snaps = nil
	return n, nil
}

func newTestRouter(repo *stubItemBlockRepo) *gin.Engine {
	gin.SetMode(gin.TestMode)
	logger := testLogger()
	handler := NewItemBlockHandler(service.NewItemBlockService(repo, logger), repo, nil, logger)

	r := gin.New()
	group := r.Group("/api/item-block")
	{
		group.GET("/latest", handler.GetLatest)
		group.GET("/list", handler.GetList)
		group.GET("/count", handler.GetCount)
		group.GET("/category/:categoryName", handler.GetLatestCategory)
		group.GET("/category/:categoryName/:listType", handler.GetLatestCategoryList)
		group.DELETE("/all", handler.DeleteAll)
	}
	return r
}

func snapshotWithHotData(t *testing.T) *model.ItemBlockSnapshot {
	t.Helper()
	data := &model.ItemBlockData{
		Hot: &model.ItemBlockCategory{
			DefaultList: []model.ItemBlockItem{{Name: "AK-47 | 红线", Index: 1250.5, RiseFallRate: 2.35}},
			TopList:     []model.ItemBlockItem{{Name: "蝴蝶刀", Index: 9800, RiseFallRate: 5.1}},
			BottomList:  []model.ItemBlockItem{},
		},
	}
	buf, err := json.Marshal(data)
	require.NoError(t, err)
	js := datatypes.JSON(buf)
	return &model.ItemBlockSnapshot{
		SnapshotUUID: "test-snapshot",
		CaptureTime:  time.Now(),
		Success:      true,
		Data:         &js,
	}
}

func TestGetLatestNotFoundWhenEmpty(t *testing.T) {
	router := newTestRouter(&stubItemBlockRepo{})

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/item-block/latest", nil)
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestGetLatestReturnsSnapshot(t *testing.T) {
	repo := &stubItemBlockRepo{snaps: []*model.ItemBlockSnapshot{snapshotWithHotData(t)}}
	router := newTestRouter(repo)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/item-block/latest", nil)
	router.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)

	var body map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, "test-snapshot", body["id"])
	assert.Equal(t, true, body["success"])
	// 自增主键不对外暴露
	assert.NotContains(t, body, "ID")
}

func TestGetListShape(t *testing.T) {
	repo := &stubItemBlockRepo{snaps: []*model.ItemBlockSnapshot{snapshotWithHotData(t)}}
	router := newTestRouter(repo)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/item-block/list?page=0&size=10", nil)
	router.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)

	var body map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Contains(t, body, "content")
	assert.Equal(t, float64(1), body["totalElements"])
	assert.Equal(t, float64(0), body["page"])
	assert.Equal(t, float64(10), body["size"])
}

func TestGetLatestCategoryAliases(t *testing.T) {
	repo := &stubItemBlockRepo{snaps: []*model.ItemBlockSnapshot{snapshotWithHotData(t)}}
	router := newTestRouter(repo)

	for _, name := range []string{"hot", "HOT", "Hot"} {
		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/api/item-block/category/"+name, nil)
		router.ServeHTTP(w, req)
		assert.Equal(t, http.StatusOK, w.Code, "category %s", name)
	}

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/item-block/category/unknown", nil)
	router.ServeHTTP(w, req)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestGetLatestCategoryListTypes(t *testing.T) {
	repo := &stubItemBlockRepo{snaps: []*model.ItemBlockSnapshot{snapshotWithHotData(t)}}
	router := newTestRouter(repo)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/item-block/category/hot/top", nil)
	router.ServeHTTP(w, req)
	require.Equal(t, http.StatusOK, w.Code)

	var items []model.ItemBlockItem
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &items))
	require.Len(t, items, 1)
	assert.Equal(t, "蝴蝶刀", items[0].Name)

	w = httptest.NewRecorder()
	req = httptest.NewRequest(http.MethodGet, "/api/item-block/category/hot/sideways", nil)
	router.ServeHTTP(w, req)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestDeleteAllReportsCount(t *testing.T) {
	repo := &stubItemBlockRepo{snaps: []*model.ItemBlockSnapshot{snapshotWithHotData(t), snapshotWithHotData(t)}}
	router := newTestRouter(repo)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodDelete, "/api/item-block/all", nil)
	router.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "已删除 2 条ItemBlock记录", w.Body.String())

	count, err := repo.Count(context.Background())
	require.NoError(t, err)
	assert.Equal(t, int64(0), count)
}
