package cmd

import (
	"bytes"
	"errors"
	"strings"
	"testing"
	"time"

	"factorindex/internal/domain"
	mock_repository "factorindex/internal/repository/mocks"

	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

func TestImportAssets(t *testing.T) {
	t.Run("normalizes and upserts", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		assetRepository := mock_repository.NewMockAssetRepository(ctrl)

		input := "symbol,name,sector,currency,is_active\n" +
			"aapl,Apple,Technology,usd,true\n" +
			"SAP,SAP SE,Technology,EUR,false\n" +
			"MSFT,Microsoft,Technology,,true\n"

		assetRepository.EXPECT().Upsert(gomock.Nil(), []domain.Asset{
			{Symbol: "AAPL", Name: "Apple", Sector: "Technology", Currency: "USD", IsActive: true},
			{Symbol: "SAP", Name: "SAP SE", Sector: "Technology", Currency: "EUR", IsActive: false},
			{Symbol: "MSFT", Name: "Microsoft", Sector: "Technology", Currency: "USD", IsActive: true},
		}).Return(nil)

		n, err := ImportAssets(strings.NewReader(input), assetRepository)
		require.NoError(t, err)
		require.Equal(t, 3, n)
	})

	t.Run("duplicate symbol", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		assetRepository := mock_repository.NewMockAssetRepository(ctrl)

		input := "symbol,name,sector,currency,is_active\n" +
			"AAPL,Apple,Technology,USD,true\n" +
			"aapl,Apple again,Technology,USD,true\n"

		_, err := ImportAssets(strings.NewReader(input), assetRepository)
		require.ErrorContains(t, err, "duplicate symbol AAPL")
	})

	t.Run("repository error", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		assetRepository := mock_repository.NewMockAssetRepository(ctrl)
		assetRepository.EXPECT().Upsert(gomock.Nil(), gomock.Any()).Return(errors.New("connection reset"))

		_, err := ImportAssets(strings.NewReader("symbol,name,sector,currency,is_active\nAAPL,Apple,Tech,USD,true\n"), assetRepository)
		require.ErrorContains(t, err, "connection reset")
	})
}

func TestExportIndex(t *testing.T) {
	ctrl := gomock.NewController(t)
	indexValueRepository := mock_repository.NewMockIndexValueRepository(ctrl)
	start := time.Date(2024, 1, 2, 0, 0, 0, 0, time.UTC)

	indexValueRepository.EXPECT().List(gomock.Nil(), &start, gomock.Nil()).Return([]domain.IndexValue{
		{Date: start, Value: 100},
		{Date: start.AddDate(0, 0, 1), Value: 101.5},
	}, nil)

	buf := &bytes.Buffer{}
	n, err := ExportIndex(buf, indexValueRepository, &start, nil)
	require.NoError(t, err)
	require.Equal(t, 2, n)
	require.Equal(t, "date,value\n2024-01-02,100\n2024-01-03,101.5\n", buf.String())
}
