package main

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/Anomanderiz/wdh-character-vault/internal/config"
	"github.com/Anomanderiz/wdh-character-vault/internal/domain/character"
	"github.com/Anomanderiz/wdh-character-vault/internal/domain/shared"
	"github.com/Anomanderiz/wdh-character-vault/internal/repositories/characters"
	"github.com/Anomanderiz/wdh-character-vault/internal/services/vault"
	"github.com/Anomanderiz/wdh-character-vault/internal/testutils"
)

func setup(t *testing.T) (*cobra.Command, *bytes.Buffer) {
	t.Helper()

	logger = zap.NewNop()
	service = vault.NewService(&vault.ServiceConfig{Repository: characters.NewInMemoryRepository()})
	manifestPath = ""
	inMemory = false
	t.Cleanup(func() {
		service = nil
		manifestPath = ""
		inMemory = false
	})

	out := &bytes.Buffer{}
	cmd := &cobra.Command{}
	cmd.SetOut(out)
	cmd.SetContext(context.Background())
	return cmd, out
}

func writeExport(t *testing.T, dir, file string, actor *testutils.ActorBuilder) string {
	t.Helper()
	path := filepath.Join(dir, file)
	require.NoError(t, os.WriteFile(path, actor.JSON(), 0644))
	return path
}

func TestImportListShowDelete(t *testing.T) {
	cmd, out := setup(t)
	dir := t.TempDir()

	writeExport(t, dir, "brannoc.json", testutils.NewActor("f1", "Brannoc").
		WithClass("Fighter", 5).
		WithItem(testutils.Armor("Chain Mail", character.ArmorCategoryHeavy, 16, 0, true)))
	writeExport(t, dir, "vex.json", testutils.NewActor("r1", "Vex").WithClass("Rogue", 3))

	require.NoError(t, runImport(cmd, []string{dir}))
	assert.Contains(t, out.String(), "Imported 2 of 2")

	out.Reset()
	require.NoError(t, listCmd.RunE(cmd, nil))
	assert.Contains(t, out.String(), "Brannoc")
	assert.Contains(t, out.String(), "Vex")

	out.Reset()
	require.NoError(t, showCmd.RunE(cmd, []string{"brannoc"}))
	assert.Contains(t, out.String(), "Fighter 5")
	assert.Contains(t, out.String(), "16 (default)")

	out.Reset()
	require.NoError(t, searchCmd.RunE(cmd, []string{"rogue"}))
	assert.Contains(t, out.String(), "Vex")
	assert.NotContains(t, out.String(), "Brannoc")

	out.Reset()
	require.NoError(t, deleteCmd.RunE(cmd, []string{"r1"}))
	assert.Equal(t, "Deleted r1\n", out.String())

	assert.Error(t, showCmd.RunE(cmd, []string{"r1"}))
}

func TestImport_ReportsFailures(t *testing.T) {
	cmd, out := setup(t)
	dir := t.TempDir()
	good := writeExport(t, dir, "ok.json", testutils.NewActor("a1", "Able"))

	err := runImport(cmd, []string{good, filepath.Join(dir, "missing.json")})
	require.Error(t, err)
	assert.Contains(t, out.String(), "FAIL")
	assert.Contains(t, out.String(), "Imported 1 of 2")
}

func TestImport_Manifest(t *testing.T) {
	cmd, out := setup(t)
	dir := t.TempDir()
	writeExport(t, dir, "able.json", testutils.NewActor("a1", "Able"))
	manifest := filepath.Join(dir, "roster.yaml")
	require.NoError(t, os.WriteFile(manifest, []byte("characters:\n  - path: able.json\n    id: custom-id\n"), 0644))

	manifestPath = manifest
	require.NoError(t, runImport(cmd, nil))
	assert.Contains(t, out.String(), "custom-id")
}

func TestImport_WarnsWhenNotPersisted(t *testing.T) {
	cmd, out := setup(t)
	path := writeExport(t, t.TempDir(), "able.json", testutils.NewActor("a1", "Able"))

	require.NoError(t, runImport(cmd, []string{path}))
	assert.NotContains(t, out.String(), "nothing was persisted")

	out.Reset()
	service = vault.NewService(&vault.ServiceConfig{Repository: characters.NewInMemoryRepository()})
	inMemory = true
	require.NoError(t, runImport(cmd, []string{path}))
	assert.Contains(t, out.String(), "nothing was persisted")
}

func TestImport_NeedsInput(t *testing.T) {
	cmd, _ := setup(t)
	assert.Error(t, runImport(cmd, nil))
}

func TestCompute(t *testing.T) {
	cmd, out := setup(t)
	path := writeExport(t, t.TempDir(), "scout.json", testutils.NewActor("s1", "").
		WithAbilities(10, 16, 12, 14, 13, 8).
		WithSkill("ste", shared.AbilityDexterity, 1))

	require.NoError(t, computeCmd.RunE(cmd, []string{path}))
	assert.Contains(t, out.String(), vault.UnnamedCharacter)
	assert.Contains(t, out.String(), "Stealth")
}

func TestOpenRepository_FallsBackToMemory(t *testing.T) {
	logger = zap.NewNop()

	t.Cleanup(func() { inMemory = false })

	cfg = &config.Config{}
	repo, err := openRepository(context.Background())
	require.NoError(t, err)
	assert.IsType(t, &characters.InMemoryRepository{}, repo)
	assert.True(t, inMemory)

	cfg = &config.Config{Redis: config.RedisConfig{URL: "not a redis url"}}
	repo, err = openRepository(context.Background())
	require.NoError(t, err)
	assert.IsType(t, &characters.InMemoryRepository{}, repo)
}
