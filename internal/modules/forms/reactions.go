package forms

import (
	"strings"

	"github.com/integridad-lab/taller-core/internal/models"
	"github.com/integridad-lab/taller-core/internal/modules/sheets"
)

// reactionPatterns are the Form 2 question headers, verbatim. The numbered
// suffix identifies which framed narrative the answer refers to, so no
// per-participant assignment bookkeeping is needed.
var reactionPatterns = []struct {
	header   string
	frame    int
	question string
}{
	{"¿Qué emociones identificas en ti en reacción a la noticia? (1)", 1, models.QuestionEmotions},
	{"¿Cuáles son los elementos de este mensaje que atraen más tu atención? (1)", 1, models.QuestionElements},
	{"¿Qué tan confiable consideras que es la información contenida en la noticia 1?", 1, models.QuestionConfidence},
	{"¿Qué emociones identificas en ti en reacción a la noticia 2?", 2, models.QuestionEmotions},
	{"¿Cuáles son los elementos de este mensaje que atraen más tu atención? (2)", 2, models.QuestionElements},
	{"¿Qué tan confiable consideras que es la información contenida en la noticia 2?", 2, models.QuestionConfidence},
	{"¿Qué emociones identificas en ti en reacción a la noticia? (3)", 3, models.QuestionEmotions},
	{"¿Cuáles son los elementos de este mensaje que atraen más tu atención? (3)", 3, models.QuestionElements},
	{"¿Qué tan confiable consideras que es la información contenida en la noticia 3?", 3, models.QuestionConfidence},
}

// NormalizeReactions flattens raw Form 2 rows into one row per answered
// question per framed narrative. Multi-select answers are split on commas
// into separate rows; gender is joined from Form 1 by card number.
func NormalizeReactions(form1, form2 *sheets.Table, workshop string) []models.ParticipantReaction {
	if form2.Empty() {
		return nil
	}

	genderByCard := genderIndex(form1)
	cardCol := CardColumn(form2.Headers)
	dateCol := DateColumn(form2.Headers)
	columnFor := matchReactionColumns(form2.Headers)

	var out []models.ParticipantReaction
	for _, row := range form2.Rows {
		card := strings.TrimSpace(row[cardCol])
		ts := strings.TrimSpace(row[dateCol])
		if card == "" || ts == "" {
			continue
		}

		for i, pattern := range reactionPatterns {
			col := columnFor[i]
			if col == "" {
				continue
			}
			value := strings.TrimSpace(row[col])
			if value == "" {
				continue
			}
			frame, ok := models.FrameByIndex(pattern.frame)
			if !ok {
				continue
			}
			for _, v := range splitMultiSelect(value) {
				out = append(out, models.ParticipantReaction{
					Workshop:   workshop,
					Timestamp:  ts,
					Frame:      frame,
					FrameLabel: frame.Label(),
					Card:       card,
					Gender:     genderByCard[card],
					Question:   pattern.question,
					Value:      v,
				})
			}
		}
	}
	return out
}

// matchReactionColumns resolves each question pattern to the actual sheet
// header once, tolerating case and surrounding whitespace.
func matchReactionColumns(headers []string) []string {
	cols := make([]string, len(reactionPatterns))
	for i, pattern := range reactionPatterns {
		want := strings.ToLower(strings.TrimSpace(pattern.header))
		for _, h := range headers {
			if strings.ToLower(strings.TrimSpace(h)) == want {
				cols[i] = h
				break
			}
		}
	}
	return cols
}

func genderIndex(form1 *sheets.Table) map[string]string {
	idx := make(map[string]string)
	if form1.Empty() {
		return idx
	}
	cardCol := CardColumn(form1.Headers)
	genderCol := GenderColumn(form1.Headers)
	if cardCol == "" || genderCol == "" {
		return idx
	}
	for _, row := range form1.Rows {
		card := strings.TrimSpace(row[cardCol])
		if card == "" {
			continue
		}
		idx[card] = strings.TrimSpace(row[genderCol])
	}
	return idx
}

func splitMultiSelect(value string) []string {
	parts := strings.Split(value, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if v := strings.TrimSpace(p); v != "" {
			out = append(out, v)
		}
	}
	return out
}
