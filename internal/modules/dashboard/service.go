package dashboard

import (
	"context"
	"sort"
	"strconv"
	"strings"

	"go.uber.org/zap"

	"github.com/integridad-lab/taller-core/internal/models"
	"github.com/integridad-lab/taller-core/internal/modules/forms"
	"github.com/integridad-lab/taller-core/internal/modules/session"
)

// Summary is the aggregated view of one workshop session the facilitator
// projects between activities.
type Summary struct {
	Date              string                    `json:"date"`
	ResponseCount     int                       `json:"response_count"`
	ReactionCount     int                       `json:"reaction_count"`
	Participants      int                       `json:"participants"`
	GenderBreakdown   map[string]int            `json:"gender_breakdown"`
	EmotionsByFrame   map[string]map[string]int `json:"emotions_by_frame"`
	ElementsByFrame   map[string]map[string]int `json:"elements_by_frame"`
	ConfidenceByFrame map[string]float64        `json:"confidence_by_frame"`
	WordFrequencies   []WordCount               `json:"word_frequencies"`
	Keywords          []string                  `json:"keywords"`
	DominantTheme     string                    `json:"dominant_theme,omitempty"`
}

// WordCount is one entry of the free-text word cloud.
type WordCount struct {
	Word  string `json:"word"`
	Count int    `json:"count"`
}

type Service struct {
	forms  *forms.Service
	logger *zap.Logger
}

func NewService(formsSvc *forms.Service, logger *zap.Logger) *Service {
	return &Service{forms: formsSvc, logger: logger}
}

// Build assembles the dashboard for the session's workshop date. Sheet data
// is always re-read; only the AI artifacts come from the session cache.
func (s *Service) Build(ctx context.Context, sess *session.Session) (*Summary, error) {
	responses, err := s.forms.Responses(ctx, sess.Date)
	if err != nil {
		return nil, err
	}
	reactions, err := s.forms.Reactions(ctx, sess.Date)
	if err != nil {
		return nil, err
	}

	summary := &Summary{
		Date:              sess.Date,
		ResponseCount:     len(responses),
		ReactionCount:     len(reactions),
		GenderBreakdown:   genderBreakdown(responses),
		EmotionsByFrame:   countByFrame(reactions, models.QuestionEmotions),
		ElementsByFrame:   countByFrame(reactions, models.QuestionElements),
		ConfidenceByFrame: confidenceByFrame(reactions),
		WordFrequencies:   wordFrequencies(responses),
	}
	summary.Participants = len(distinctCards(responses))

	if analysis := sess.Analysis(); analysis != nil {
		summary.DominantTheme = analysis.DominantTheme
		summary.Keywords = analysis.TopKeywords
	}
	return summary, nil
}

func distinctCards(responses []models.ParticipantResponse) map[string]struct{} {
	cards := make(map[string]struct{})
	for _, r := range responses {
		if r.Card != "" {
			cards[r.Card] = struct{}{}
		}
	}
	return cards
}

// genderBreakdown counts distinct participants per gender, keyed by card so
// a duplicate submission does not double-count a person.
func genderBreakdown(responses []models.ParticipantResponse) map[string]int {
	seen := make(map[string]string)
	for _, r := range responses {
		if r.Card == "" || r.Gender == "" {
			continue
		}
		seen[r.Card] = r.Gender
	}
	out := make(map[string]int)
	for _, gender := range seen {
		out[gender]++
	}
	return out
}

func countByFrame(reactions []models.ParticipantReaction, question string) map[string]map[string]int {
	out := make(map[string]map[string]int)
	for _, r := range reactions {
		if r.Question != question || r.Value == "" {
			continue
		}
		frame := string(r.Frame)
		if out[frame] == nil {
			out[frame] = make(map[string]int)
		}
		out[frame][r.Value]++
	}
	return out
}

// confidenceByFrame averages the numeric trust scores per frame. Values that
// do not parse as numbers are skipped.
func confidenceByFrame(reactions []models.ParticipantReaction) map[string]float64 {
	sums := make(map[string]float64)
	counts := make(map[string]int)
	for _, r := range reactions {
		if r.Question != models.QuestionConfidence {
			continue
		}
		v, err := strconv.ParseFloat(strings.TrimSpace(r.Value), 64)
		if err != nil {
			continue
		}
		frame := string(r.Frame)
		sums[frame] += v
		counts[frame]++
	}
	out := make(map[string]float64)
	for frame, sum := range sums {
		out[frame] = sum / float64(counts[frame])
	}
	return out
}

// spanishStopwords filters connective words out of the word cloud.
var spanishStopwords = map[string]struct{}{}

func init() {
	for _, w := range []string{
		"a", "al", "algo", "como", "con", "cuando", "de", "del", "donde",
		"el", "ella", "ellos", "en", "es", "esa", "ese", "eso", "esta",
		"este", "esto", "hay", "la", "las", "le", "lo", "los", "más",
		"mas", "me", "mi", "muy", "no", "nos", "o", "para", "pero",
		"por", "porque", "que", "qué", "se", "ser", "si", "sí", "sin",
		"son", "su", "sus", "también", "te", "tu", "un", "una", "uno",
		"y", "ya", "yo",
	} {
		spanishStopwords[w] = struct{}{}
	}
}

const wordCloudLimit = 40

func wordFrequencies(responses []models.ParticipantResponse) []WordCount {
	counts := make(map[string]int)
	for _, r := range responses {
		for _, word := range strings.Fields(strings.ToLower(r.FreeText)) {
			word = strings.Trim(word, ".,;:¡!¿?\"'()[]…")
			if len([]rune(word)) < 3 {
				continue
			}
			if _, stop := spanishStopwords[word]; stop {
				continue
			}
			counts[word]++
		}
	}

	out := make([]WordCount, 0, len(counts))
	for word, count := range counts {
		out = append(out, WordCount{Word: word, Count: count})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Count != out[j].Count {
			return out[i].Count > out[j].Count
		}
		return out[i].Word < out[j].Word
	})
	if len(out) > wordCloudLimit {
		out = out[:wordCloudLimit]
	}
	return out
}
