package migrations

import (
	"io/fs"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFS_PairsUpAndDown(t *testing.T) {
	ups, err := fs.Glob(FS, "*.up.sql")
	require.NoError(t, err)
	require.NotEmpty(t, ups)

	for _, up := range ups {
		down := strings.TrimSuffix(up, ".up.sql") + ".down.sql"
		_, err := fs.Stat(FS, down)
		assert.NoError(t, err, "missing %s", down)
	}
}

func TestFS_ActiveSlotIndex(t *testing.T) {
	schema, err := fs.ReadFile(FS, "000001_init_schema.up.sql")
	require.NoError(t, err)

	sql := string(schema)
	assert.Contains(t, sql, "CREATE UNIQUE INDEX IF NOT EXISTS uq_appointments_doctor_time_active")
	assert.Contains(t, sql, "WHERE status = 'SCHEDULED'")
	assert.Contains(t, sql, "CONSTRAINT fk_appointments_doctor")
}
