package program

import "errors"

var (
	ErrNotFound      = errors.New("program not found")
	ErrScaleMismatch = errors.New("subscale score out of range: questionnaire does not match program scale")
)

// Track identifies one of the fixed 4-week therapeutic curricula.
type Track string

const (
	TrackCulpa         Track = "culpa"
	TrackAngustia      Track = "angustia"
	TrackIrritabilidad Track = "irritabilidad"
)

// ProgramWeeks is the fixed length of every track.
const ProgramWeeks = 4

type Program struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
	Price       int    `json:"price"`
	Track       Track  `json:"track"`
}

// Resource kinds
const (
	KindAudio = "AUDIO"
	KindGuide = "GUIA"
	KindTest  = "TEST"
)

// Resource is a consumable piece of weekly content.
type Resource struct {
	ID    string `json:"id"`
	Kind  string `json:"kind"`
	Title string `json:"title"`
	URL   string `json:"url"`
}

// Session is the content unit for one program week.
type Session struct {
	ID        string     `json:"id"`
	ProgramID string     `json:"program_id"`
	Order     int        `json:"order"` // week 1..4
	Title     string     `json:"title"`
	Resources []Resource `json:"resources,omitempty"`
}

// QuestionnaireItem is a single Likert-scale statement of a track's weekly test.
type QuestionnaireItem struct {
	ID       int    `json:"id"`
	Text     string `json:"text"`
	Category string `json:"category"`
}

// Subscale identifies one of the four aggregate clinical scores.
type Subscale int

const (
	SubscaleSelfJudgment Subscale = iota
	SubscaleMaladaptiveGuilt
	SubscaleConsciousResponsibility
	SubscaleErrorHumanization
)

// SubscaleTable is the fixed category→subscale partition of a track.
// Categories not listed feed SubscaleErrorHumanization.
type SubscaleTable struct {
	SelfJudgment            []string
	MaladaptiveGuilt        []string
	ConsciousResponsibility []string
}

// SubscaleFor resolves the subscale bucket a category feeds.
func (t SubscaleTable) SubscaleFor(category string) Subscale {
	for _, c := range t.SelfJudgment {
		if c == category {
			return SubscaleSelfJudgment
		}
	}
	for _, c := range t.MaladaptiveGuilt {
		if c == category {
			return SubscaleMaladaptiveGuilt
		}
	}
	for _, c := range t.ConsciousResponsibility {
		if c == category {
			return SubscaleConsciousResponsibility
		}
	}
	return SubscaleErrorHumanization
}

// Scores holds the four subscale totals of one test submission.
type Scores struct {
	SelfJudgment            int `json:"score_autojuicio"`
	MaladaptiveGuilt        int `json:"score_culpa_no_adaptativa"`
	ConsciousResponsibility int `json:"score_responsabilidad_consciente"`
	ErrorHumanization       int `json:"score_humanizacion_error"`
}

// subscale bounds derive from item count × Likert range: 6/5/7/2 items ∈ [1,5]
var scoreBounds = []struct {
	name     string
	min, max int
}{
	{"score_autojuicio", 6, 30},
	{"score_culpa_no_adaptativa", 5, 25},
	{"score_responsabilidad_consciente", 7, 35},
	{"score_humanizacion_error", 2, 10},
}
