package models

import "time"

// Frame identifies one narrative treatment of the workshop news story.
type Frame string

const (
	FrameNeutral      Frame = "neutral"
	FrameDistrust     Frame = "desconfianza"
	FramePolarization Frame = "polarizacion"
	FrameFear         Frame = "miedo"
)

// FramedFrames are the three manipulated variants, in the order the
// participants see them (noticia 1, 2, 3).
var FramedFrames = []Frame{FrameDistrust, FramePolarization, FrameFear}

var frameLabels = map[Frame]string{
	FrameNeutral:      "Noticia neutral",
	FrameDistrust:     "Desconfianza y responsabilización de actores",
	FramePolarization: "Polarización social y exclusión",
	FrameFear:         "Miedo y control",
}

// Label returns the Spanish display name of the frame (the "encuadre").
func (f Frame) Label() string {
	if l, ok := frameLabels[f]; ok {
		return l
	}
	return string(f)
}

// FrameByIndex maps the 1-based narrative number used in the Form 2
// questionnaire to its frame.
func FrameByIndex(n int) (Frame, bool) {
	switch n {
	case 1:
		return FrameDistrust, true
	case 2:
		return FramePolarization, true
	case 3:
		return FrameFear, true
	}
	return "", false
}

// WorkshopSession groups all responses belonging to one facilitated run,
// scoped by the selected calendar date. Immutable after creation.
type WorkshopSession struct {
	ID        string    `json:"id"`
	Date      string    `json:"date"` // YYYY-MM-DD
	CreatedAt time.Time `json:"created_at"`
}

// ThemeAnalysis is the classifier output: the dominant topic across the
// Form 1 free-text answers plus the associated emotional reading.
type ThemeAnalysis struct {
	DominantTheme         string   `json:"dominant_theme"`
	Rationale             string   `json:"rationale"`
	EmotionalTone         string   `json:"emotional_tone"`
	TopKeywords           []string `json:"top_keywords"`
	RepresentativeAnswers []string `json:"representative_answers"`
}

// NewsArticle is one generated text artifact. Text is markdown.
type NewsArticle struct {
	Frame Frame  `json:"frame"`
	Label string `json:"label"`
	Text  string `json:"text"`
}

// ParticipantResponse is one Form 1 row after field detection.
type ParticipantResponse struct {
	Timestamp string            `json:"timestamp"`
	Card      string            `json:"card,omitempty"`
	Gender    string            `json:"gender,omitempty"`
	FreeText  string            `json:"free_text,omitempty"`
	Fields    map[string]string `json:"fields"`
}

// ParticipantReaction is one long-format Form 2 row: a single answer to a
// single question about a single framed narrative.
type ParticipantReaction struct {
	Workshop   string `json:"workshop"`
	Timestamp  string `json:"timestamp"`
	Frame      Frame  `json:"frame"`
	FrameLabel string `json:"frame_label"`
	Card       string `json:"card"`
	Gender     string `json:"gender,omitempty"`
	Question   string `json:"question"` // Emociones | Elementos | Confianza
	Value      string `json:"value"`
}

// Reaction question kinds.
const (
	QuestionEmotions   = "Emociones"
	QuestionElements   = "Elementos"
	QuestionConfidence = "Confianza"
)
