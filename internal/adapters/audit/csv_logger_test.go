package audit

import (
	"encoding/csv"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/lcalzada-xor/authgate/internal/core/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func readAll(t *testing.T, path string) [][]string {
	f, err := os.Open(path)
	require.NoError(t, err)
	defer f.Close()

	rows, err := csv.NewReader(f).ReadAll()
	require.NoError(t, err)
	return rows
}

func TestNewCSVLogger_WritesHeader(t *testing.T) {
	path := filepath.Join(t.TempDir(), "features.csv")

	_, err := NewCSVLogger(path)
	require.NoError(t, err)

	rows := readAll(t, path)
	require.Len(t, rows, 1)
	require.Len(t, rows[0], domain.FeaturesLen+1)
	assert.Equal(t, "email_length", rows[0][0])
	assert.Equal(t, "label", rows[0][domain.FeaturesLen])
}

func TestAppend_LabeledRows(t *testing.T) {
	path := filepath.Join(t.TempDir(), "features.csv")
	logger, err := NewCSVLogger(path)
	require.NoError(t, err)

	var v domain.FeatureVector
	v[domain.FeatEmailLength] = 15
	v[domain.FeatTimeSinceLast] = 3.5

	require.NoError(t, logger.Append(v, domain.LabelBenign))
	v[domain.FeatHasSQL] = 1
	require.NoError(t, logger.Append(v, domain.LabelAttack))

	rows := readAll(t, path)
	require.Len(t, rows, 3)
	assert.Equal(t, "15", rows[1][domain.FeatEmailLength])
	assert.Equal(t, "3.5", rows[1][domain.FeatTimeSinceLast])
	assert.Equal(t, "benign", rows[1][domain.FeaturesLen])
	assert.Equal(t, "1", rows[2][domain.FeatHasSQL])
	assert.Equal(t, "attack", rows[2][domain.FeaturesLen])
}

func TestNewCSVLogger_ExistingFileKeepsRows(t *testing.T) {
	path := filepath.Join(t.TempDir(), "features.csv")

	logger, err := NewCSVLogger(path)
	require.NoError(t, err)
	require.NoError(t, logger.Append(domain.FeatureVector{}, domain.LabelBenign))

	// Reopening must not rewrite the header or truncate.
	logger, err = NewCSVLogger(path)
	require.NoError(t, err)
	require.NoError(t, logger.Append(domain.FeatureVector{}, domain.LabelAttack))

	rows := readAll(t, path)
	assert.Len(t, rows, 3)
	assert.Equal(t, "email_length", rows[0][0])
}

func TestAppend_Concurrent(t *testing.T) {
	path := filepath.Join(t.TempDir(), "features.csv")
	logger, err := NewCSVLogger(path)
	require.NoError(t, err)

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			assert.NoError(t, logger.Append(domain.FeatureVector{}, domain.LabelBenign))
		}()
	}
	wg.Wait()

	rows := readAll(t, path)
	assert.Len(t, rows, 21)
	for _, row := range rows {
		assert.Len(t, row, domain.FeaturesLen+1)
	}
}
