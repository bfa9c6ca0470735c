package migrations

import (
	"io/fs"
	"testing"
	"testing/fstest"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFilesOrdersSQLOnly(t *testing.T) {
	fsys := fstest.MapFS{
		"010_indexes.sql": {Data: []byte("SELECT 1;")},
		"002_admins.sql":  {Data: []byte("SELECT 1;")},
		"README.md":       {Data: []byte("notes")},
		"001_init.sql":    {Data: []byte("SELECT 1;")},
	}

	files, err := Files(fsys)
	require.NoError(t, err)
	assert.Equal(t, []string{"001_init.sql", "002_admins.sql", "010_indexes.sql"}, files)
}

func TestVersion(t *testing.T) {
	assert.Equal(t, "001", Version("001_init.sql"))
	assert.Equal(t, "002", Version("sql/002_add_admins.sql"))
}

func TestEmbeddedSchema(t *testing.T) {
	files, err := Files(Embedded())
	require.NoError(t, err)
	require.NotEmpty(t, files)

	body, err := fs.ReadFile(Embedded(), files[0])
	require.NoError(t, err)
	schema := string(body)

	assert.Contains(t, schema, "enrollments_student_course_key UNIQUE (student_id, course_id)")
	assert.Contains(t, schema, "ON DELETE CASCADE")
	assert.Contains(t, schema, "CHECK (current_enrollment >= 0)")
}
