package vault

import (
	"strings"
	"time"

	"github.com/Anomanderiz/wdh-character-vault/internal/domain/character"
	"github.com/Anomanderiz/wdh-character-vault/internal/domain/rulebook/dnd5e/calculators"
)

// Summary is a one-line view of a stored snapshot
type Summary struct {
	ID         string
	Name       string
	Classes    string
	Level      int
	ArmorClass int
	Source     string
	ImportedAt time.Time

	classNames []string
	itemNames  []string
}

func summarize(record *character.Record) (*Summary, error) {
	snapshot, err := record.Snapshot()
	if err != nil {
		return nil, err
	}
	sheet := calculators.Compute(snapshot)

	summary := &Summary{
		ID:         record.ID,
		Name:       record.Name,
		Classes:    snapshot.ClassSummary(),
		Level:      sheet.Stats.Level,
		ArmorClass: sheet.ArmorClass.Value,
		Source:     record.Source,
		ImportedAt: record.ImportedAt,
	}

	for _, item := range snapshot.Items {
		if item.IsClass() {
			summary.classNames = append(summary.classNames, strings.ToLower(item.Name))
			continue
		}
		summary.itemNames = append(summary.itemNames, strings.ToLower(item.Name))
	}

	return summary, nil
}

// matches reports whether the lower-cased needle appears in the name, a class
// name or an item name
func (s *Summary) matches(needle string) bool {
	if strings.Contains(strings.ToLower(s.Name), needle) {
		return true
	}
	for _, names := range [][]string{s.classNames, s.itemNames} {
		for _, name := range names {
			if strings.Contains(name, needle) {
				return true
			}
		}
	}
	return false
}
