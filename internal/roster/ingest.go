package roster

import (
	"strings"

	"github.com/google/uuid"

	"github.com/abrezinsky/rosterdraw/internal/models"
)

const headerToken = "name"

// sampleNames is the demo roster; the repeats exercise duplicate detection
var sampleNames = []string{
	"陳大文", "林小明", "王美麗", "張志豪", "李佳佳",
	"劉一龍", "黃曉彤", "周杰西", "吳佩珊", "趙子龍",
	"林小明", "陳大文", "孫悟空", "豬八戒", "沙悟淨",
}

// FromNames builds participants with fresh IDs, keeping input order.
// Names are trimmed and blank names dropped.
func FromNames(names []string) []models.Participant {
	list := make([]models.Participant, 0, len(names))
	for _, name := range names {
		name = strings.TrimSpace(name)
		if name == "" {
			continue
		}
		list = append(list, models.Participant{ID: uuid.NewString(), Name: name})
	}
	return list
}

// FromText parses one name per line
func FromText(text string) []models.Participant {
	return FromNames(splitLines(text))
}

// FromFile parses an uploaded CSV or plain text file. The name is the first
// comma-separated field; quotes are stripped and a "name" header row is skipped.
func FromFile(content string) []models.Participant {
	content = strings.TrimPrefix(content, "\ufeff")

	var names []string
	for _, line := range splitLines(content) {
		field, _, _ := strings.Cut(line, ",")
		field = strings.TrimSpace(strings.ReplaceAll(field, `"`, ""))
		if field == "" || strings.EqualFold(field, headerToken) {
			continue
		}
		names = append(names, field)
	}
	return FromNames(names)
}

// Dedupe keeps the first participant for each name and reissues IDs
func Dedupe(list []models.Participant) []models.Participant {
	seen := make(map[string]struct{}, len(list))
	names := make([]string, 0, len(list))
	for _, p := range list {
		if _, ok := seen[p.Name]; ok {
			continue
		}
		seen[p.Name] = struct{}{}
		names = append(names, p.Name)
	}
	return FromNames(names)
}

// Sample returns the demo roster with fresh IDs
func Sample() []models.Participant {
	return FromNames(sampleNames)
}

// Names returns the display names in roster order
func Names(list []models.Participant) []string {
	names := make([]string, len(list))
	for i, p := range list {
		names[i] = p.Name
	}
	return names
}

func splitLines(text string) []string {
	return strings.Split(strings.ReplaceAll(text, "\r\n", "\n"), "\n")
}
