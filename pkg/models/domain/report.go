package domain

import "time"

// Color marks a value as good or bad news for the buyer.
type Color string

const (
	ColorNone Color = ""
	ColorGood Color = "good"
	ColorBad  Color = "bad"
)

// GridEntry is a resolved label/value pair ready for layout.
type GridEntry struct {
	Path  string
	Label string
	Value string
	Color Color
}

// Report represents a complete rendered vehicle history report
type Report struct {
	Context  RenderContext
	Sections []Section
}

// Section represents a logical section, or a nested sub-section, of the report
type Section struct {
	Doc      string // document name used for package visibility, empty for sub-sections
	Title    string
	Entries  []GridEntry
	Blocks   []Block
	Children []Section
	Blurred  bool
	Empty    string // shown when the section has nothing else to show
}

// IsEmpty reports whether the section would render nothing but its title.
func (s Section) IsEmpty() bool {
	return len(s.Entries) == 0 && len(s.Blocks) == 0 && len(s.Children) == 0 && s.Empty == "" && !s.Blurred
}

// Block is composite content laid out after a section's grid.
// The set of blocks is closed: Card, LineChart, BarChart, Paragraph, Image.
type Block interface {
	block()
}

// Note is one line of free text inside a card.
type Note struct {
	Text  string
	Color Color
}

// Card is a block that must never be split across pages, such as an MOT test.
type Card struct {
	Title   string
	Badge   string
	Color   Color
	Entries []GridEntry
	Groups  []NoteGroup
}

// NoteGroup is a titled list of notes inside a card, e.g. advisories.
type NoteGroup struct {
	Title string
	Notes []Note
}

// Point is one sample of a line chart.
type Point struct {
	Label string
	Value float64
}

type LineChart struct {
	Title  string
	Unit   string
	Points []Point
}

// Bar is one category of a bar chart.
type Bar struct {
	Label string
	Value float64
}

type BarChart struct {
	Title string
	Unit  string
	Bars  []Bar
}

type Paragraph struct {
	Text string
}

// Image is pre-decoded image data supplied by a collaborator.
type Image struct {
	Name    string
	Caption string
	Data    []byte
}

func (*Card) block()      {}
func (*LineChart) block() {}
func (*BarChart) block()  {}
func (*Paragraph) block() {}
func (*Image) block()     {}

// RenderContext is the small record that accompanies a payload.
type RenderContext struct {
	Registration string
	DateOfCheck  time.Time
	Reference    string
	Premium      bool
	Package      string
	Assets       Assets
}

// Assets are pre-resolved binary resources. The renderer never loads them itself.
type Assets struct {
	Logo   []byte
	Images map[string][]byte // keyed by image URL as it appears in the payload
}
