package crawler

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/DavidHLP/CSGOSkinMetrics/internal/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type memItemBlockRepo struct {
	snaps []*model.ItemBlockSnapshot
}

func (r *memItemBlockRepo) Insert(ctx context.Context, snap *model.ItemBlockSnapshot) error {
	r.snaps = append(r.snaps, snap)
	return nil
}

func (r *memItemBlockRepo) Latest(ctx context.Context) (*model.ItemBlockSnapshot, error) {
	if len(r.snaps) == 0 {
		return nil, nil
	}
	return r.snaps[len(r.snaps)-1], nil
}

func (r *memItemBlockRepo) LatestN(ctx context.Context, n int) ([]*model.ItemBlockSnapshot, error) {
	return nil, nil
}

func (r *memItemBlockRepo) RangeByTime(ctx context.Context, start, end time.Time) ([]*model.ItemBlockSnapshot, error) {
	return nil, nil
}

func (r *memItemBlockRepo) FindBySuccess(ctx context.Context, success bool) ([]*model.ItemBlockSnapshot, error) {
	return nil, nil
}

func (r *memItemBlockRepo) Count(ctx context.Context) (int64, error) {
	return int64(len(r.snaps)), nil
}

func (r *memItemBlockRepo) Page(ctx context.Context, page, size int) ([]*model.ItemBlockSnapshot, int64, error) {
	return nil, 0, nil
}

func (r *memItemBlockRepo) DeleteAll(ctx context.Context) (int64, error) {
	n := int64(len(r.snaps))
	r.snaps = nil
	return n, nil
}

type memStatisticsRepo struct {
	snaps []*model.StatisticsSnapshot
}

func (r *memStatisticsRepo) Insert(ctx context.Context, snap *model.StatisticsSnapshot) error {
	r.snaps = append(r.snaps, snap)
	return nil
}

func (r *memStatisticsRepo) Latest(ctx context.Context) (*model.StatisticsSnapshot, error) {
	if len(r.snaps) == 0 {
		return nil, nil
	}
	return r.snaps[len(r.snaps)-1], nil
}

func (r *memStatisticsRepo) LatestN(ctx context.Context, n int) ([]*model.StatisticsSnapshot, error) {
	return nil, nil
}

func (r *memStatisticsRepo) OldestN(ctx context.Context, n int) ([]*model.StatisticsSnapshot, error) {
	return nil, nil
}

func (r *memStatisticsRepo) RangeByTime(ctx context.Context, start, end time.Time) ([]*model.StatisticsSnapshot, error) {
	return nil, nil
}

func (r *memStatisticsRepo) Count(ctx context.Context) (int64, error) {
	return int64(len(r.snaps)), nil
}

func (r *memStatisticsRepo) Page(ctx context.Context, page, size int) ([]*model.StatisticsSnapshot, int64, error) {
	return nil, 0, nil
}

func (r *memStatisticsRepo) DeleteAll(ctx context.Context) (int64, error) {
	n := int64(len(r.snaps))
	r.snaps = nil
	return n, nil
}

func TestItemBlockCrawlPersistsSnapshot(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"success": true, "errorCode": 0, "data": {"hot": {"defaultList": [{"name": "AWP | 二西莫夫", "index": 500.0, "riseFallRate": 1.5}]}}}`))
	}))
	defer srv.Close()

	repo := &memItemBlockRepo{}
	c := NewItemBlockCrawler(NewFetcher(5*time.Second, testLogger()), repo, srv.URL, testLogger())

	require.NoError(t, c.Crawl(context.Background()))
	require.Len(t, repo.snaps, 1)
	assert.True(t, repo.snaps[0].Success)
	require.NotNil(t, repo.snaps[0].ParseData())
}

func TestItemBlockCrawlFailureEnvelopeStillPersists(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"success": false, "errorCode": 500, "errorMsg": "服务异常"}`))
	}))
	defer srv.Close()

	repo := &memItemBlockRepo{}
	c := NewItemBlockCrawler(NewFetcher(5*time.Second, testLogger()), repo, srv.URL, testLogger())

	require.NoError(t, c.Crawl(context.Background()))
	require.Len(t, repo.snaps, 1)
	assert.False(t, repo.snaps[0].Success)
	assert.Nil(t, repo.snaps[0].Data)
}

func TestItemBlockCrawlTransportFailurePersistsNothing(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer srv.Close()

	repo := &memItemBlockRepo{}
	c := NewItemBlockCrawler(NewFetcher(5*time.Second, testLogger()), repo, srv.URL, testLogger())

	require.Error(t, c.Crawl(context.Background()))
	assert.Empty(t, repo.snaps)
}

func TestStatisticsCrawlPersistsSnapshot(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"success": true, "errorCode": 0, "data": {"broadMarketIndex": 1600.0, "surviveNum": "100"}}`))
	}))
	defer srv.Close()

	repo := &memStatisticsRepo{}
	c := NewStatisticsCrawler(NewFetcher(5*time.Second, testLogger()), repo, srv.URL, testLogger())

	require.NoError(t, c.Crawl(context.Background()))
	require.Len(t, repo.snaps, 1)
	assert.Equal(t, 1600.0, repo.snaps[0].BroadMarketIndex)
}

func TestStatisticsCrawlFailureEnvelopePersistsNothing(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"success": false, "errorCode": 500, "errorMsg": "服务异常"}`))
	}))
	defer srv.Close()

	repo := &memStatisticsRepo{}
	c := NewStatisticsCrawler(NewFetcher(5*time.Second, testLogger()), repo, srv.URL, testLogger())

	// 与板块数据源刻意不同：失败时不落任何记录
	require.Error(t, c.Crawl(context.Background()))
	assert.Empty(t, repo.snaps)
}

func TestStatisticsCrawlMissingDataIsNotAnError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"success": true, "errorCode": 0}`))
	}))
	defer srv.Close()

	repo := &memStatisticsRepo{}
	c := NewStatisticsCrawler(NewFetcher(5*time.Second, testLogger()), repo, srv.URL, testLogger())

	require.NoError(t, c.Crawl(context.Background()))
	assert.Empty(t, repo.snaps)
}
