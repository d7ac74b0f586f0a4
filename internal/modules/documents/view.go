package documents

import (
	"fmt"
	"html/template"
	"math"
	"sort"
	"time"

	"github.com/intentified/web/internal/models"
	"github.com/intentified/web/internal/pkg/markdown"
)

// Drawer tabs.
const (
	TabAnalysis = "analysis"
	TabChunks   = "chunks"
	TabEntities = "entities"
	TabOriginal = "original"
)

var tabs = []string{TabAnalysis, TabChunks, TabEntities, TabOriginal}

// Progress is the share of processed tasks, rounded to a whole percent.
func Progress(tasks []models.ProcessingTask) int {
	if len(tasks) == 0 {
		return 0
	}
	done := 0
	for _, t := range tasks {
		if t.Status == models.TaskStatusProcessed {
			done++
		}
	}
	return int(math.Round(float64(done) / float64(len(tasks)) * 100))
}

// LatestTask returns the task with the greatest created_at, the earliest
// listed on ties. The input slice is left untouched.
func LatestTask(tasks []models.ProcessingTask) *models.ProcessingTask {
	if len(tasks) == 0 {
		return nil
	}
	latest := tasks[0]
	for _, t := range tasks[1:] {
		if t.CreatedAt.After(latest.CreatedAt) {
			latest = t
		}
	}
	return &latest
}

var sizeUnits = []string{"B", "KB", "MB", "GB"}

// FormatFileSize renders a byte count with one decimal in B, KB, MB or GB.
func FormatFileSize(bytes int64) string {
	size := float64(bytes)
	unit := 0
	for size >= 1024 && unit < len(sizeUnits)-1 {
		size /= 1024
		unit++
	}
	return fmt.Sprintf("%.1f %s", size, sizeUnits[unit])
}

// EntityGroup holds the entities of one type.
type EntityGroup struct {
	Type     string
	Entities []models.DocumentEntity
}

// GroupEntities groups by entity type. Groups are sorted by type; entities
// keep their input order within a group.
func GroupEntities(entities []models.DocumentEntity) []EntityGroup {
	index := make(map[string]int)
	var groups []EntityGroup
	for _, e := range entities {
		i, ok := index[e.EntityType]
		if !ok {
			i = len(groups)
			index[e.EntityType] = i
			groups = append(groups, EntityGroup{Type: e.EntityType})
		}
		groups[i].Entities = append(groups[i].Entities, e)
	}
	sort.SliceStable(groups, func(a, b int) bool { return groups[a].Type < groups[b].Type })
	return groups
}

// TotalTokens sums token_count over chunks.
func TotalTokens(chunks []models.DocumentChunk) int {
	total := 0
	for _, c := range chunks {
		total += c.TokenCount
	}
	return total
}

// OrderedChunks returns a copy of chunks sorted by chunk_index.
func OrderedChunks(chunks []models.DocumentChunk) []models.DocumentChunk {
	out := make([]models.DocumentChunk, len(chunks))
	copy(out, chunks)
	sort.SliceStable(out, func(a, b int) bool { return out[a].ChunkIndex < out[b].ChunkIndex })
	return out
}

// StatusVariant maps a document status to a badge style.
func StatusVariant(status models.DocumentStatus) string {
	switch status {
	case models.StatusProcessing:
		return "secondary"
	case models.StatusCompleted, models.StatusProcessed:
		return "outline"
	case models.StatusError:
		return "destructive"
	default:
		return "default"
	}
}

// FileIcon describes how a file type is drawn.
type FileIcon struct {
	Label string
	Color string
}

var fileIcons = map[string]FileIcon{
	models.FileTypePDF:  {Label: "PDF", Color: "red"},
	models.FileTypeDOCX: {Label: "DOC", Color: "green"},
	models.FileTypeTXT:  {Label: "TXT", Color: "blue"},
}

// IconFor falls back to the txt icon for unknown types.
func IconFor(fileType string) FileIcon {
	if icon, ok := fileIcons[fileType]; ok {
		return icon
	}
	return fileIcons[models.FileTypeTXT]
}

// RelativeTime phrases the distance between t and now, e.g. "3 days ago".
func RelativeTime(t, now time.Time) string {
	d := now.Sub(t)
	future := d < 0
	if future {
		d = -d
	}
	phrase := distance(d)
	if future {
		return "in " + phrase
	}
	return phrase + " ago"
}

func distance(d time.Duration) string {
	minutes := int(math.Round(d.Minutes()))
	switch {
	case d < 30*time.Second:
		return "less than a minute"
	case minutes < 2:
		return "1 minute"
	case minutes < 45:
		return fmt.Sprintf("%d minutes", minutes)
	case minutes < 90:
		return "about 1 hour"
	case minutes < 1440:
		return fmt.Sprintf("about %d hours", int(math.Round(float64(minutes)/60)))
	case minutes < 2520:
		return "1 day"
	case minutes < 43200:
		return fmt.Sprintf("%d days", int(math.Round(float64(minutes)/1440)))
	case minutes < 64800:
		return "about 1 month"
	case minutes < 86400:
		return "about 2 months"
	case minutes < 525600:
		return fmt.Sprintf("%d months", int(math.Round(float64(minutes)/43200)))
	}
	months := minutes / 43200
	years, rest := months/12, months%12
	switch {
	case rest < 3:
		return fmt.Sprintf("about %d %s", years, plural(years, "year"))
	case rest < 9:
		return fmt.Sprintf("over %d %s", years, plural(years, "year"))
	default:
		return fmt.Sprintf("almost %d %s", years+1, plural(years+1, "year"))
	}
}

func plural(n int, word string) string {
	if n == 1 {
		return word
	}
	return word + "s"
}

// NormalizeTab returns tab when it names a drawer tab, TabAnalysis otherwise.
func NormalizeTab(tab string) string {
	for _, t := range tabs {
		if t == tab {
			return tab
		}
	}
	return TabAnalysis
}

// Card is the list entry of a document.
type Card struct {
	ID            string
	Title         string
	FileType      string
	Icon          FileIcon
	Status        string
	StatusVariant string
	Uploaded      string
	UploadedOn    string
	SizeLabel     string
	Processing    bool
	Progress      int
	CurrentStep   string
	Error         string
	HasFile       bool
}

// Detail is the drawer content of a document.
type Detail struct {
	Card
	Tab           string
	Summary       template.HTML
	Keywords      []string
	HasAnalysis   bool
	WordCount     *int
	PageCount     *int
	Chunks        []models.DocumentChunk
	TotalTokens   int
	EntityGroups  []EntityGroup
	ExtractedText string
}

// NewCard derives the list entry of a bundle.
func NewCard(b Bundle, now time.Time) Card {
	d := b.Document
	card := Card{
		ID:            d.ID,
		Title:         d.Title,
		FileType:      d.FileType,
		Icon:          IconFor(d.FileType),
		Status:        string(d.Status),
		StatusVariant: StatusVariant(d.Status),
		Uploaded:      RelativeTime(d.CreatedAt, now),
		UploadedOn:    d.CreatedAt.Format("January 2, 2006"),
		SizeLabel:     FormatFileSize(d.FileSize),
		Processing:    d.Status == models.StatusProcessing,
		Error:         d.ErrorMessage(),
		HasFile:       d.FilePath != nil && *d.FilePath != "",
	}
	if card.Processing {
		card.Progress = Progress(b.Tasks)
		if t := LatestTask(b.Tasks); t != nil {
			card.CurrentStep = t.TaskType
		}
	}
	return card
}

// NewDetail derives the drawer content of a bundle.
func NewDetail(b Bundle, tab string, now time.Time) Detail {
	d := b.Document
	detail := Detail{
		Card:          NewCard(b, now),
		Tab:           NormalizeTab(tab),
		Chunks:        OrderedChunks(b.Chunks),
		TotalTokens:   TotalTokens(b.Chunks),
		EntityGroups:  GroupEntities(b.Entities),
		ExtractedText: d.ExtractedText,
	}
	if a := d.ParsedAnalysis(); a != nil {
		detail.HasAnalysis = true
		detail.Summary = markdown.Render(a.Summary)
		detail.Keywords = a.Keywords
	}
	if m := d.ParsedMetadata(); m != nil {
		detail.WordCount = m.WordCount
		detail.PageCount = m.PageCount
	}
	return detail
}
