package vault_test

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/suite"
	"go.uber.org/mock/gomock"
	"go.uber.org/zap/zaptest"

	"github.com/Anomanderiz/wdh-character-vault/internal/domain/character"
	dnderr "github.com/Anomanderiz/wdh-character-vault/internal/errors"
	"github.com/Anomanderiz/wdh-character-vault/internal/repositories/characters"
	mockcharacters "github.com/Anomanderiz/wdh-character-vault/internal/repositories/characters/mock"
	"github.com/Anomanderiz/wdh-character-vault/internal/services/vault"
	mockvault "github.com/Anomanderiz/wdh-character-vault/internal/services/vault/mock"
	"github.com/Anomanderiz/wdh-character-vault/internal/testutils"
	mockuuid "github.com/Anomanderiz/wdh-character-vault/internal/uuid/mock"
)

var importedAt = time.Date(2024, 5, 4, 18, 30, 0, 0, time.UTC)

type VaultServiceTestSuite struct {
	suite.Suite
	ctrl    *gomock.Controller
	repo    characters.Repository
	uuidGen *mockuuid.MockGenerator
	svc     vault.Service
	ctx     context.Context
}

func (s *VaultServiceTestSuite) SetupTest() {
	s.ctrl = gomock.NewController(s.T())
	s.repo = characters.NewInMemoryRepository()
	s.uuidGen = mockuuid.NewMockGenerator(s.ctrl)

	clock := mockvault.NewMockTimeProvider(s.ctrl)
	clock.EXPECT().Now().Return(importedAt).AnyTimes()

	s.svc = vault.NewService(&vault.ServiceConfig{
		Repository:    s.repo,
		UUIDGenerator: s.uuidGen,
		TimeProvider:  clock,
		Logger:        zaptest.NewLogger(s.T()),
		Concurrency:   2,
	})
	s.ctx = context.Background()
}

func TestVaultServiceTestSuite(t *testing.T) {
	suite.Run(t, new(VaultServiceTestSuite))
}

func fighter() []byte {
	return testutils.NewActor("f1", "Brannoc").
		WithClass("Fighter", 5).
		WithAbilities(16, 12, 14, 8, 10, 10).
		WithItem(testutils.Armor("Chain Mail", character.ArmorCategoryHeavy, 16, 0, true)).
		JSON()
}

func wizard() []byte {
	return testutils.NewActor("w1", "Ilsabet").
		WithClass("Wizard", 3).
		WithAbilities(8, 14, 12, 17, 12, 10).
		WithItem(testutils.Trinket("Driftglobe", false, 0)).
		JSON()
}

func (s *VaultServiceTestSuite) writeFile(dir, name string, data []byte) string {
	path := filepath.Join(dir, name)
	s.Require().NoError(os.WriteFile(path, data, 0o600))
	return path
}

func (s *VaultServiceTestSuite) TestImport_UsesExportID() {
	record, err := s.svc.Import(s.ctx, fighter())
	s.Require().NoError(err)

	s.Equal("f1", record.ID)
	s.Equal("Brannoc", record.Name)
	s.Equal(importedAt, record.ImportedAt)

	stored, err := s.repo.Get(s.ctx, "f1")
	s.Require().NoError(err)
	s.JSONEq(string(fighter()), string(stored.Raw))
}

func (s *VaultServiceTestSuite) TestImport_AssignsContentID() {
	raw := []byte(`{"name": "Nameless Export", "system": {}}`)
	s.uuidGen.EXPECT().FromContent(raw).Return("generated-1")

	record, err := s.svc.Import(s.ctx, raw)
	s.Require().NoError(err)
	s.Equal("generated-1", record.ID)

	sheet, err := s.svc.Sheet(s.ctx, "generated-1")
	s.Require().NoError(err)
	s.Equal("generated-1", sheet.Snapshot.ID)
}

func (s *VaultServiceTestSuite) TestImport_UnnamedExport() {
	record, err := s.svc.Import(s.ctx, []byte(`{"_id": "x1"}`))
	s.Require().NoError(err)
	s.Equal(vault.UnnamedCharacter, record.Name)
}

func (s *VaultServiceTestSuite) TestImport_InvalidJSON() {
	_, err := s.svc.Import(s.ctx, []byte(`{"name":`))
	s.True(dnderr.IsInvalidArgument(err))
}

func (s *VaultServiceTestSuite) TestImport_Duplicate() {
	_, err := s.svc.Import(s.ctx, fighter())
	s.Require().NoError(err)

	_, err = s.svc.Import(s.ctx, fighter())
	s.True(dnderr.IsAlreadyExists(err))
	s.Equal("f1", dnderr.GetMeta(err)["snapshot_id"])
}

func (s *VaultServiceTestSuite) TestImportFiles() {
	dir := s.T().TempDir()
	fighterPath := s.writeFile(dir, "brannoc.json", fighter())
	badPath := s.writeFile(dir, "broken.json", []byte("{"))
	missing := filepath.Join(dir, "missing.json")

	results, err := s.svc.ImportFiles(s.ctx, []string{fighterPath, badPath, missing})
	s.Require().NoError(err)
	s.Require().Len(results, 3)

	s.Equal(fighterPath, results[0].Path)
	s.NoError(results[0].Err)
	s.Equal("f1", results[0].Record.ID)
	s.Equal(fighterPath, results[0].Record.Source)

	s.True(dnderr.IsInvalidArgument(results[1].Err))
	s.Nil(results[1].Record)

	s.True(dnderr.IsNotFound(results[2].Err))
}

func (s *VaultServiceTestSuite) TestImportFiles_SameExportTwice() {
	dir := s.T().TempDir()
	original := s.writeFile(dir, "brannoc.json", fighter())
	copied := s.writeFile(dir, "brannoc-copy.json", fighter())

	results, err := s.svc.ImportFiles(s.ctx, []string{original, original, copied})
	s.Require().NoError(err)
	s.Require().Len(results, 3)

	stored, duplicates := 0, 0
	for _, result := range results {
		switch {
		case result.Err == nil:
			stored++
			s.Equal("f1", result.Record.ID)
		case dnderr.IsAlreadyExists(result.Err):
			duplicates++
			s.Nil(result.Record)
		default:
			s.Failf("unexpected import error", "%s: %v", result.Path, result.Err)
		}
	}
	s.Equal(1, stored)
	s.Equal(2, duplicates)

	summaries, err := s.svc.List(s.ctx)
	s.Require().NoError(err)
	s.Len(summaries, 1)
}

func (s *VaultServiceTestSuite) TestImportFiles_Directory() {
	dir := s.T().TempDir()
	s.writeFile(dir, "b-wizard.json", wizard())
	s.writeFile(dir, "a-fighter.json", fighter())
	s.writeFile(dir, "notes.txt", []byte("ignored"))

	results, err := s.svc.ImportFiles(s.ctx, []string{dir})
	s.Require().NoError(err)
	s.Require().Len(results, 2)
	s.Equal(filepath.Join(dir, "a-fighter.json"), results[0].Path)
	s.Equal(filepath.Join(dir, "b-wizard.json"), results[1].Path)
	s.NoError(results[0].Err)
	s.NoError(results[1].Err)
}

func (s *VaultServiceTestSuite) TestImportManifest_RelativePaths() {
	dir := s.T().TempDir()
	s.Require().NoError(os.Mkdir(filepath.Join(dir, "exports"), 0o700))
	s.writeFile(filepath.Join(dir, "exports"), "brannoc.json", fighter())
	s.writeFile(filepath.Join(dir, "exports"), "ilsabet.json", wizard())

	manifest := s.writeFile(dir, "roster.yaml", []byte(`characters:
  - path: exports/brannoc.json
  - path: exports/ilsabet.json
    id: ilsabet
  - path: ""
`))

	results, err := s.svc.ImportManifest(s.ctx, manifest)
	s.Require().NoError(err)
	s.Require().Len(results, 3)

	s.Equal(filepath.Join(dir, "exports", "brannoc.json"), results[0].Path)
	s.Equal("f1", results[0].Record.ID)
	s.Equal("ilsabet", results[1].Record.ID)
	s.True(dnderr.IsInvalidArgument(results[2].Err))
}

func (s *VaultServiceTestSuite) TestImportManifest_JSON() {
	dir := s.T().TempDir()
	s.writeFile(dir, "brannoc.json", fighter())
	manifest := s.writeFile(dir, "roster.json", []byte(`{"characters": [{"path": "brannoc.json"}]}`))

	results, err := s.svc.ImportManifest(s.ctx, manifest)
	s.Require().NoError(err)
	s.Require().Len(results, 1)
	s.NoError(results[0].Err)
}

func (s *VaultServiceTestSuite) TestImportManifest_Errors() {
	_, err := s.svc.ImportManifest(s.ctx, filepath.Join(s.T().TempDir(), "nope.yaml"))
	s.True(dnderr.IsNotFound(err))

	bad := s.writeFile(s.T().TempDir(), "bad.yaml", []byte("characters: [unterminated"))
	_, err = s.svc.ImportManifest(s.ctx, bad)
	s.True(dnderr.IsInvalidArgument(err))
}

func (s *VaultServiceTestSuite) TestSheet() {
	_, err := s.svc.Import(s.ctx, fighter())
	s.Require().NoError(err)

	sheet, err := s.svc.Sheet(s.ctx, "f1")
	s.Require().NoError(err)

	s.Equal(5, sheet.Stats.Level)
	s.Equal(3, sheet.Stats.ProficiencyBonus)
	s.Equal(16, sheet.ArmorClass.Value)

	_, err = s.svc.Sheet(s.ctx, "missing")
	s.True(dnderr.IsNotFound(err))

	_, err = s.svc.Sheet(s.ctx, " ")
	s.True(dnderr.IsInvalidArgument(err))
}

func (s *VaultServiceTestSuite) TestListAndSearch() {
	_, err := s.svc.Import(s.ctx, wizard())
	s.Require().NoError(err)
	_, err = s.svc.Import(s.ctx, fighter())
	s.Require().NoError(err)

	all, err := s.svc.List(s.ctx)
	s.Require().NoError(err)
	s.Require().Len(all, 2)
	s.Equal("Brannoc", all[0].Name)
	s.Equal("Fighter 5", all[0].Classes)
	s.Equal(16, all[0].ArmorClass)
	s.Equal(3, all[1].Level)

	tests := []struct {
		query    string
		expected []string
	}{
		{"bran", []string{"f1"}},
		{"WIZARD", []string{"w1"}},
		{"driftglobe", []string{"w1"}},
		{"chain", []string{"f1"}},
		{"", []string{"f1", "w1"}},
		{"bard", nil},
	}

	for _, tt := range tests {
		matches, err := s.svc.Search(s.ctx, tt.query)
		s.Require().NoError(err)

		var ids []string
		for _, m := range matches {
			ids = append(ids, m.ID)
		}
		s.Equal(tt.expected, ids, "query %q", tt.query)
	}
}

func (s *VaultServiceTestSuite) TestFind() {
	_, err := s.svc.Import(s.ctx, fighter())
	s.Require().NoError(err)
	_, err = s.svc.Import(s.ctx, wizard())
	s.Require().NoError(err)
	_, err = s.svc.Import(s.ctx, testutils.NewActor("f2", "Brannoc the Younger").JSON())
	s.Require().NoError(err)

	byID, err := s.svc.Find(s.ctx, "w1")
	s.Require().NoError(err)
	s.Equal("Ilsabet", byID.Snapshot.Name)

	exact, err := s.svc.Find(s.ctx, "brannoc")
	s.Require().NoError(err)
	s.Equal("f1", exact.Snapshot.ID)

	partial, err := s.svc.Find(s.ctx, "ilsa")
	s.Require().NoError(err)
	s.Equal("w1", partial.Snapshot.ID)

	_, err = s.svc.Find(s.ctx, "bran")
	s.True(dnderr.IsInvalidArgument(err))
	s.ElementsMatch([]string{"f1", "f2"}, dnderr.GetMeta(err)["matches"])

	_, err = s.svc.Find(s.ctx, "nobody")
	s.True(dnderr.IsNotFound(err))
}

func (s *VaultServiceTestSuite) TestDelete() {
	_, err := s.svc.Import(s.ctx, fighter())
	s.Require().NoError(err)

	s.NoError(s.svc.Delete(s.ctx, "f1"))
	s.True(dnderr.IsNotFound(s.svc.Delete(s.ctx, "f1")))
	s.True(dnderr.IsInvalidArgument(s.svc.Delete(s.ctx, "")))
}

func TestService_RepositoryErrors(t *testing.T) {
	ctrl := gomock.NewController(t)
	repo := mockcharacters.NewMockRepository(ctrl)
	svc := vault.NewService(&vault.ServiceConfig{Repository: repo})
	ctx := context.Background()

	down := dnderr.WrapWithCode(errors.New("connection refused"), dnderr.CodeUnavailable, "failed to get snapshot")

	repo.EXPECT().Get(ctx, "f1").Return(nil, down)
	_, err := svc.Sheet(ctx, "f1")
	assert.Equal(t, dnderr.CodeUnavailable, dnderr.GetCode(err))
	assert.Equal(t, "f1", dnderr.GetMeta(err)["snapshot_id"])

	repo.EXPECT().Get(ctx, "f1").Return(nil, down)
	_, err = svc.Find(ctx, "f1")
	assert.Equal(t, dnderr.CodeUnavailable, dnderr.GetCode(err))

	repo.EXPECT().List(ctx).Return(nil, down)
	_, err = svc.List(ctx)
	assert.Error(t, err)

	repo.EXPECT().List(ctx).Return([]*character.Record{
		{ID: "bad", Name: "Corrupt", Raw: []byte("not json")},
	}, nil)
	summaries, err := svc.List(ctx)
	assert.NoError(t, err)
	assert.Empty(t, summaries)
}

func TestNewService_Panics(t *testing.T) {
	assert.Panics(t, func() { vault.NewService(nil) })
	assert.Panics(t, func() { vault.NewService(&vault.ServiceConfig{}) })
}

func TestImportFiles_Cancelled(t *testing.T) {
	svc := vault.NewService(&vault.ServiceConfig{Repository: characters.NewInMemoryRepository()})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := svc.ImportFiles(ctx, []string{"a.json", "b.json"})
	assert.ErrorIs(t, err, context.Canceled)
}
