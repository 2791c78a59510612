package vault

//go:generate mockgen -destination=mock/mock_service.go -package=mockvault -source=service.go

import (
	"context"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/Anomanderiz/wdh-character-vault/internal/domain/character"
	"github.com/Anomanderiz/wdh-character-vault/internal/domain/rulebook/dnd5e/calculators"
	dnderr "github.com/Anomanderiz/wdh-character-vault/internal/errors"
	"github.com/Anomanderiz/wdh-character-vault/internal/repositories/characters"
	"github.com/Anomanderiz/wdh-character-vault/internal/uuid"
)

// DefaultConcurrency is how many files are read and stored at once
const DefaultConcurrency = 4

// UnnamedCharacter is shown for exports without a name
const UnnamedCharacter = "Unnamed"

// Repository is an alias for the snapshot repository interface
type Repository = characters.Repository

// Service defines the vault service interface
type Service interface {
	// Import stores one raw export and returns the stored record
	Import(ctx context.Context, raw []byte) (*character.Record, error)

	// ImportFiles imports files and the *.json files of directories.
	// Failures are reported per file in the results.
	ImportFiles(ctx context.Context, paths []string) ([]*ImportResult, error)

	// ImportManifest imports every entry listed in a roster manifest
	ImportManifest(ctx context.Context, path string) ([]*ImportResult, error)

	// Sheet computes the derived sheet of a stored snapshot
	Sheet(ctx context.Context, id string) (*calculators.Sheet, error)

	// Find resolves an ID or a character name to a sheet
	Find(ctx context.Context, query string) (*calculators.Sheet, error)

	// List summarizes every stored snapshot
	List(ctx context.Context) ([]*Summary, error)

	// Search lists snapshots whose name, class or item names contain query
	Search(ctx context.Context, query string) ([]*Summary, error)

	// Delete removes a stored snapshot
	Delete(ctx context.Context, id string) error
}

// TimeProvider stamps imports
type TimeProvider interface {
	Now() time.Time
}

// RealTimeProvider reads the wall clock
type RealTimeProvider struct{}

func (r *RealTimeProvider) Now() time.Time {
	return time.Now()
}

// ImportResult is the outcome of importing one file
type ImportResult struct {
	Path   string
	Record *character.Record
	Err    error
}

// importInput is one document on its way into the vault
type importInput struct {
	Raw    []byte
	Source string
	ID     string // Optional, overrides the export's own ID
}

// service implements the Service interface
type service struct {
	repository    Repository
	uuidGenerator uuid.Generator
	timeProvider  TimeProvider
	logger        *zap.Logger
	concurrency   int
}

// ServiceConfig holds configuration for the service
type ServiceConfig struct {
	Repository    Repository     // Required
	UUIDGenerator uuid.Generator // Optional, will use default if nil
	TimeProvider  TimeProvider   // Optional, defaults to the wall clock
	Logger        *zap.Logger    // Optional, defaults to a no-op logger
	Concurrency   int            // Optional, defaults to DefaultConcurrency
}

// NewService creates a new vault service
func NewService(cfg *ServiceConfig) Service {
	if cfg == nil {
		panic("ServiceConfig cannot be nil")
	}
	if cfg.Repository == nil {
		panic("repository is required")
	}

	svc := &service{
		repository:    cfg.Repository,
		uuidGenerator: cfg.UUIDGenerator,
		timeProvider:  cfg.TimeProvider,
		logger:        cfg.Logger,
		concurrency:   cfg.Concurrency,
	}

	if svc.uuidGenerator == nil {
		svc.uuidGenerator = uuid.NewGoogleUUIDGenerator()
	}
	if svc.timeProvider == nil {
		svc.timeProvider = &RealTimeProvider{}
	}
	if svc.logger == nil {
		svc.logger = zap.NewNop()
	}
	if svc.concurrency <= 0 {
		svc.concurrency = DefaultConcurrency
	}

	return svc
}

// Import stores one raw export
func (s *service) Import(ctx context.Context, raw []byte) (*character.Record, error) {
	return s.store(ctx, &importInput{Raw: raw})
}

func (s *service) store(ctx context.Context, input *importInput) (*character.Record, error) {
	snapshot, err := character.Parse(input.Raw)
	if err != nil {
		return nil, dnderr.Wrap(err, "failed to read export").
			WithMeta("source", input.Source)
	}

	id := strings.TrimSpace(input.ID)
	if id == "" {
		id = snapshot.ID
	}
	if id == "" {
		id = s.uuidGenerator.FromContent(input.Raw)
	}

	name := strings.TrimSpace(snapshot.Name)
	if name == "" {
		name = UnnamedCharacter
	}

	record := &character.Record{
		ID:         id,
		Name:       name,
		Source:     input.Source,
		ImportedAt: s.timeProvider.Now().UTC(),
		Raw:        append([]byte(nil), input.Raw...),
	}

	if err := s.repository.Create(ctx, record); err != nil {
		return nil, dnderr.Wrap(err, "failed to store snapshot").
			WithMeta("snapshot_id", id).
			WithMeta("source", input.Source)
	}

	s.logger.Info("imported snapshot",
		zap.String("id", id),
		zap.String("name", name),
		zap.String("source", input.Source))

	return record, nil
}

// ImportFiles imports files concurrently, keeping results in input order
func (s *service) ImportFiles(ctx context.Context, paths []string) ([]*ImportResult, error) {
	files, err := expandPaths(paths)
	if err != nil {
		return nil, err
	}

	inputs := make([]*importInput, len(files))
	for i, file := range files {
		inputs[i] = &importInput{Source: file}
	}

	return s.importAll(ctx, inputs)
}

// ImportManifest imports the entries of a roster manifest
func (s *service) ImportManifest(ctx context.Context, path string) ([]*ImportResult, error) {
	manifest, err := LoadManifest(path)
	if err != nil {
		return nil, err
	}

	inputs := make([]*importInput, len(manifest.Characters))
	for i, entry := range manifest.Characters {
		inputs[i] = &importInput{Source: entry.Path, ID: entry.ID}
	}

	s.logger.Debug("loaded manifest",
		zap.String("path", path),
		zap.Int("entries", len(inputs)))

	return s.importAll(ctx, inputs)
}

// importAll reads and stores inputs whose Raw is still empty from disk
func (s *service) importAll(ctx context.Context, inputs []*importInput) ([]*ImportResult, error) {
	results := make([]*ImportResult, len(inputs))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.concurrency)

	for i, input := range inputs {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}

			result := &ImportResult{Path: input.Source}
			results[i] = result

			if input.Source == "" {
				result.Err = dnderr.InvalidArgument("path is required")
				return nil
			}

			raw, err := os.ReadFile(input.Source)
			if err != nil {
				result.Err = readError(err, input.Source)
				s.logger.Warn("failed to read export", zap.String("path", input.Source), zap.Error(err))
				return nil
			}
			input.Raw = raw

			record, err := s.store(gctx, input)
			if err != nil {
				result.Err = err
				s.logger.Warn("failed to import export", zap.String("path", input.Source), zap.Error(err))
				return nil
			}
			result.Record = record
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, dnderr.Wrap(err, "import cancelled")
	}

	return results, nil
}

// Sheet computes the derived sheet of a stored snapshot
func (s *service) Sheet(ctx context.Context, id string) (*calculators.Sheet, error) {
	if strings.TrimSpace(id) == "" {
		return nil, dnderr.InvalidArgument("snapshot ID is required")
	}

	record, err := s.repository.Get(ctx, id)
	if err != nil {
		return nil, dnderr.Wrapf(err, "failed to get snapshot '%s'", id).
			WithMeta("snapshot_id", id)
	}

	return sheetOf(record)
}

// Find resolves an ID first, then an exact name, then a unique partial name
func (s *service) Find(ctx context.Context, query string) (*calculators.Sheet, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return nil, dnderr.InvalidArgument("query is required")
	}

	record, err := s.repository.Get(ctx, query)
	if err == nil {
		return sheetOf(record)
	}
	if !dnderr.IsNotFound(err) {
		return nil, dnderr.Wrapf(err, "failed to get snapshot '%s'", query)
	}

	matches, err := s.Search(ctx, query)
	if err != nil {
		return nil, err
	}

	var exact []*Summary
	for _, m := range matches {
		if strings.EqualFold(m.Name, query) {
			exact = append(exact, m)
		}
	}
	if len(exact) > 0 {
		matches = exact
	}

	switch len(matches) {
	case 0:
		return nil, dnderr.NotFoundf("no character matches '%s'", query).
			WithMeta("query", query)
	case 1:
		return s.Sheet(ctx, matches[0].ID)
	default:
		return nil, dnderr.InvalidArgumentf("'%s' matches %d characters", query, len(matches)).
			WithMeta("query", query).
			WithMeta("matches", summaryIDs(matches))
	}
}

// List summarizes every stored snapshot
func (s *service) List(ctx context.Context) ([]*Summary, error) {
	records, err := s.repository.List(ctx)
	if err != nil {
		return nil, dnderr.Wrap(err, "failed to list snapshots")
	}

	summaries := make([]*Summary, 0, len(records))
	for _, record := range records {
		summary, err := summarize(record)
		if err != nil {
			s.logger.Warn("skipping unreadable snapshot",
				zap.String("id", record.ID),
				zap.Error(err))
			continue
		}
		summaries = append(summaries, summary)
	}

	return summaries, nil
}

// Search matches case-insensitively on name, class names and item names
func (s *service) Search(ctx context.Context, query string) ([]*Summary, error) {
	summaries, err := s.List(ctx)
	if err != nil {
		return nil, err
	}

	needle := strings.ToLower(strings.TrimSpace(query))
	if needle == "" {
		return summaries, nil
	}

	var matches []*Summary
	for _, summary := range summaries {
		if summary.matches(needle) {
			matches = append(matches, summary)
		}
	}

	return matches, nil
}

// Delete removes a stored snapshot
func (s *service) Delete(ctx context.Context, id string) error {
	if strings.TrimSpace(id) == "" {
		return dnderr.InvalidArgument("snapshot ID is required")
	}

	if err := s.repository.Delete(ctx, id); err != nil {
		return dnderr.Wrapf(err, "failed to delete snapshot '%s'", id).
			WithMeta("snapshot_id", id)
	}

	s.logger.Info("deleted snapshot", zap.String("id", id))
	return nil
}

func sheetOf(record *character.Record) (*calculators.Sheet, error) {
	snapshot, err := record.Snapshot()
	if err != nil {
		return nil, dnderr.WrapWithCode(err, dnderr.CodeInternal, "stored snapshot is unreadable").
			WithMeta("snapshot_id", record.ID)
	}
	return calculators.Compute(snapshot), nil
}

// expandPaths replaces directories with the *.json files they contain
func expandPaths(paths []string) ([]string, error) {
	var files []string
	for _, path := range paths {
		info, err := os.Stat(path)
		if err != nil || !info.IsDir() {
			files = append(files, path)
			continue
		}

		matches, err := filepath.Glob(filepath.Join(path, "*.json"))
		if err != nil {
			return nil, dnderr.Wrapf(err, "failed to list %s", path)
		}
		sort.Strings(matches)
		files = append(files, matches...)
	}
	return files, nil
}

func readError(err error, path string) error {
	if os.IsNotExist(err) {
		return dnderr.NotFoundf("file %s not found", path).WithMeta("path", path)
	}
	return dnderr.Wrapf(err, "failed to read %s", path).WithMeta("path", path)
}

func summaryIDs(summaries []*Summary) []string {
	ids := make([]string, 0, len(summaries))
	for _, s := range summaries {
		ids = append(ids, s.ID)
	}
	return ids
}
