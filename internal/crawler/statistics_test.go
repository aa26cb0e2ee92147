package crawler

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStatisticsNormalizeSuccess(t *testing.T) {
	raw := []byte(`{
		"success": true,
		"errorCode": 0,
		"data": {
			"broadMarketIndex": 1580.25,
			"diffYesterday": 12.5,
			"diffYesterdayRatio": 0.8,
			"surviveNum": 1234567,
			"holdersNum": "890123",
			"riseFallType": "RISE",
			"riseFallDays": 3,
			"historyMarketIndexList": [[1700000000000, 1550.0], [1700086400000, 1580.25]],
			"todayStatistics": {
				"addNum": 4521,
				"addValuation": 1200000.5,
				"tradeNum": "8900",
				"turnover": 3400000.0,
				"addNumRatio": 1.2,
				"addAmountRatio": 0.9,
				"tradeVolumeRatio": 2.1,
				"tradeAmountRatio": 1.8
			},
			"yesterdayStatistics": {
				"addNum": "4400",
				"addValuation": 1100000.0,
				"tradeNum": 8700,
				"turnover": 3300000.0
			}
		}
	}`)

	c := NewStatisticsCrawler(nil, nil, "", testLogger())
	snap, err := c.Normalize(raw)
	require.NoError(t, err)
	require.NotNil(t, snap)

	assert.NotEmpty(t, snap.SnapshotUUID)
	assert.False(t, snap.CaptureTime.IsZero())
	assert.Equal(t, 1580.25, snap.BroadMarketIndex)
	assert.Equal(t, 12.5, snap.DiffYesterday)
	assert.Equal(t, 0.8, snap.DiffYesterdayRatio)
	// 计数字段不论上游给数字还是字符串，都落为字符串
	assert.Equal(t, "1234567", snap.SurviveNum)
	assert.Equal(t, "890123", snap.HoldersNum)
	assert.Equal(t, "RISE", snap.RiseFallType)
	assert.Equal(t, 3, snap.RiseFallDays)

	history := snap.ParseHistory()
	require.Len(t, history, 2)
	assert.Equal(t, []float64{1700000000000, 1550.0}, history[0])
	assert.Equal(t, []float64{1700086400000, 1580.25}, history[1])

	today := snap.ParseToday()
	require.NotNil(t, today)
	assert.Equal(t, "4521", today.AddNum)
	assert.Equal(t, "8900", today.TradeNum)
	assert.Equal(t, 3400000.0, today.Turnover)

	yesterday := snap.ParseYesterday()
	require.NotNil(t, yesterday)
	assert.Equal(t, "4400", yesterday.AddNum)
	assert.Equal(t, "8700", yesterday.TradeNum)
	assert.Equal(t, 3300000.0, yesterday.Turnover)
}

func TestStatisticsNormalizeFailureReturnsError(t *testing.T) {
	raw := []byte(`{"success": false, "errorCode": 429, "errorMsg": "请求过于频繁"}`)

	c := NewStatisticsCrawler(nil, nil, "", testLogger())
	snap, err := c.Normalize(raw)
	require.Error(t, err)
	assert.Nil(t, snap)

	var upstreamErr *UpstreamError
	require.ErrorAs(t, err, &upstreamErr)
	require.NotNil(t, upstreamErr.ErrorCode)
	assert.Equal(t, 429, *upstreamErr.ErrorCode)
	assert.Equal(t, "请求过于频繁", upstreamErr.ErrorMsg)
}

func TestStatisticsNormalizeMissingData(t *testing.T) {
	c := NewStatisticsCrawler(nil, nil, "", testLogger())

	for _, raw := range []string{
		`{"success": true, "errorCode": 0}`,
		`{"success": true, "errorCode": 0, "data": null}`,
	} {
		snap, err := c.Normalize([]byte(raw))
		require.ErrorIs(t, err, ErrNoData, "raw: %s", raw)
		assert.Nil(t, snap)
	}
}

func TestStatisticsNormalizeAbsentSubRecords(t *testing.T) {
	raw := []byte(`{
		"success": true,
		"errorCode": 0,
		"data": {"broadMarketIndex": 1500.0}
	}`)

	c := NewStatisticsCrawler(nil, nil, "", testLogger())
	snap, err := c.Normalize(raw)
	require.NoError(t, err)

	assert.Nil(t, snap.ParseToday())
	assert.Nil(t, snap.ParseYesterday())
	assert.Empty(t, snap.ParseHistory())
}

func TestParseHistoryListFiltersNonNumbers(t *testing.T) {
	raw := []byte(`{
		"success": true,
		"errorCode": 0,
		"data": {
			"broadMarketIndex": 1500.0,
			"historyMarketIndexList": [
				[1700000000000, 1550.0],
				"not-a-row",
				[1700086400000, "1580.25", 1600.0],
				[]
			]
		}
	}`)

	c := NewStatisticsCrawler(nil, nil, "", testLogger())
	snap, err := c.Normalize(raw)
	require.NoError(t, err)

	history := snap.ParseHistory()
	// 非数组的行整行丢弃；行内的字符串元素被过滤，真正的数字保留
	require.Len(t, history, 3)
	assert.Equal(t, []float64{1700000000000, 1550.0}, history[0])
	assert.Equal(t, []float64{1700086400000, 1600.0}, history[1])
	assert.Empty(t, history[2])
}

func TestStatisticsNormalizeMalformedJSON(t *testing.T) {
	c := NewStatisticsCrawler(nil, nil, "", testLogger())
	snap, err := c.Normalize([]byte(`not json`))
	require.Error(t, err)
	assert.Nil(t, snap)

	var parseErr *ParseError
	assert.ErrorAs(t, err, &parseErr)
}
