package dashboard

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/integridad-lab/taller-core/internal/models"
)

func TestGenderBreakdownCountsDistinctCards(t *testing.T) {
	responses := []models.ParticipantResponse{
		{Card: "7", Gender: "Mujer"},
		{Card: "7", Gender: "Mujer"}, // duplicate submission
		{Card: "12", Gender: "Hombre"},
		{Card: "15", Gender: "Mujer"},
		{Gender: "Hombre"}, // no card, skipped
	}

	breakdown := genderBreakdown(responses)
	assert.Equal(t, map[string]int{"Mujer": 2, "Hombre": 1}, breakdown)
}

func TestCountByFrame(t *testing.T) {
	reactions := []models.ParticipantReaction{
		{Frame: models.FrameDistrust, Question: models.QuestionEmotions, Value: "Miedo"},
		{Frame: models.FrameDistrust, Question: models.QuestionEmotions, Value: "Miedo"},
		{Frame: models.FrameDistrust, Question: models.QuestionEmotions, Value: "Enojo"},
		{Frame: models.FrameFear, Question: models.QuestionEmotions, Value: "Miedo"},
		{Frame: models.FrameFear, Question: models.QuestionElements, Value: "Emojis"},
	}

	emotions := countByFrame(reactions, models.QuestionEmotions)
	assert.Equal(t, 2, emotions["desconfianza"]["Miedo"])
	assert.Equal(t, 1, emotions["desconfianza"]["Enojo"])
	assert.Equal(t, 1, emotions["miedo"]["Miedo"])
	assert.NotContains(t, emotions["miedo"], "Emojis")
}

func TestConfidenceByFrame(t *testing.T) {
	reactions := []models.ParticipantReaction{
		{Frame: models.FrameDistrust, Question: models.QuestionConfidence, Value: "2"},
		{Frame: models.FrameDistrust, Question: models.QuestionConfidence, Value: "4"},
		{Frame: models.FrameFear, Question: models.QuestionConfidence, Value: "no sé"},
		{Frame: models.FrameFear, Question: models.QuestionConfidence, Value: "1"},
	}

	avg := confidenceByFrame(reactions)
	assert.InDelta(t, 3.0, avg["desconfianza"], 0.001)
	assert.InDelta(t, 1.0, avg["miedo"], 0.001)
}

func TestWordFrequencies(t *testing.T) {
	responses := []models.ParticipantResponse{
		{FreeText: "el robo en el transporte público"},
		{FreeText: "me preocupa el robo y los asaltos."},
	}

	words := wordFrequencies(responses)
	assert.Equal(t, WordCount{Word: "robo", Count: 2}, words[0])
	for _, w := range words {
		assert.NotEqual(t, "el", w.Word, "las stopwords no deben aparecer")
	}
}
