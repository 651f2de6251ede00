package output

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/arjunmahishi/stanalyzer/types"
)

func TestWriteCatalog(t *testing.T) {
	root := t.TempDir()
	typeRecords := []types.TypeRecord{{
		Kind:          types.Interface,
		SimpleName:    "I",
		QualifiedName: "com.x.I",
		FilePath:      "/svc/src/main/java/com/x/Foo.java",
		SourceText:    "interface I<T> {}",
		ModuleID:      "svc",
	}}
	members := []types.MemberRecord{{
		FullName:           "com.x.C::m()",
		SimpleName:         "m",
		OwnerQualifiedName: "com.x.C",
		ModuleID:           "svc",
		SourceText:         "void m() { a && b; }",
	}}

	require.NoError(t, WriteCatalog(root, "proj", typeRecords, members))

	typeData, err := os.ReadFile(filepath.Join(root, "proj", TypeFile))
	require.NoError(t, err)
	require.Contains(t, string(typeData), "\n  {\n    \"kind\": \"interface\"")
	require.Contains(t, string(typeData), `"content": "interface I<T> {}"`)
	require.Contains(t, string(typeData), `"isInterface": true`)
	require.Contains(t, string(typeData), `"serviceName": "svc"`)

	var gotTypes []types.TypeRecord
	require.NoError(t, json.Unmarshal(typeData, &gotTypes))
	require.Equal(t, typeRecords, gotTypes)

	methodData, err := os.ReadFile(filepath.Join(root, "proj", MethodFile))
	require.NoError(t, err)
	require.Contains(t, string(methodData), `"parentName": "com.x.C"`)
	require.Contains(t, string(methodData), `a && b`)

	var gotMembers []types.MemberRecord
	require.NoError(t, json.Unmarshal(methodData, &gotMembers))
	require.Equal(t, members, gotMembers)
}

func TestWriteCatalogEmpty(t *testing.T) {
	root := t.TempDir()
	require.NoError(t, WriteCatalog(root, "empty", nil, nil))

	for _, name := range []string{TypeFile, MethodFile} {
		data, err := os.ReadFile(filepath.Join(root, "empty", name))
		require.NoError(t, err)
		require.Equal(t, "[]\n", string(data))
	}
}

func TestWriteCatalogStopsAtTypeFailure(t *testing.T) {
	root := t.TempDir()
	// A directory where the type file should go makes its creation fail.
	require.NoError(t, os.MkdirAll(filepath.Join(root, "proj", TypeFile), 0o755))

	err := WriteCatalog(root, "proj", nil, nil)
	require.Error(t, err)
	require.Contains(t, err.Error(), "type catalog")

	_, err = os.Stat(filepath.Join(root, "proj", MethodFile))
	require.True(t, os.IsNotExist(err))
}

func TestWriteCatalogDirectoryFailure(t *testing.T) {
	root := t.TempDir()
	blocker := filepath.Join(root, "file")
	require.NoError(t, os.WriteFile(blocker, []byte("x"), 0o644))

	err := WriteCatalog(blocker, "proj", nil, nil)
	require.Error(t, err)
	require.Contains(t, err.Error(), "output directory")
}

func TestCatalogPathsDefault(t *testing.T) {
	typePath, methodPath := CatalogPaths("", "shop")
	require.Equal(t, filepath.Join("data", "java", "shop", "typeData.json"), typePath)
	require.Equal(t, filepath.Join("data", "java", "shop", "methodData.json"), methodPath)
}

func TestWriterCompact(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, New(Config{Output: &buf, Compact: true}).Write(map[string]string{"a": "<b>"}))
	require.Equal(t, "{\"a\":\"<b>\"}\n", buf.String())
}
