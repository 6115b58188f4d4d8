package analysis

import (
	"fmt"
	"strings"

	"github.com/integridad-lab/taller-core/internal/models"
)

const classifierSystemPrompt = "Eres un analista de datos cualitativos especializado en emociones sociales."

const insightsSystemPrompt = "Eres un analista pedagógico experto en alfabetización mediática."

// buildClassifierPrompt asks for the dominant insecurity theme across the
// group context (Form 0) and the free-text answers (Form 1). The JSON block
// doubles as the contract for providers without native structured output.
func buildClassifierPrompt(groupContext string, answers []string) string {
	context := strings.TrimSpace(groupContext)
	if context == "" {
		context = "(vacío)"
	}
	sample := "(vacío)"
	if len(answers) > 0 {
		var b strings.Builder
		for i, a := range answers {
			fmt.Fprintf(&b, "%d) %s\n", i+1, a)
		}
		sample = strings.TrimSpace(b.String())
	}

	return fmt.Sprintf(`Actúa como un analista de datos cualitativos experto en comunicación social, seguridad y percepción pública.
Tu tarea es interpretar información proveniente de talleres educativos sobre integridad de la información, desinformación y emociones sociales.

Dispones de dos fuentes de entrada:

[Formulario 0 – Contexto del grupo y del entorno local]
%s

[Formulario 1 – Percepciones de inseguridad y consumo informativo]
%s

Objetivo del análisis:
Identificar el tema o fenómeno dominante que genera inseguridad entre las personas participantes, entendiendo el contexto y el tipo específico de problema, no solo la categoría general.

Tareas específicas:
1. Determina el tema o fenómeno dominante con su contexto: tipo de hecho, actores, causas y entorno social o mediático.
2. Distingue las subdimensiones del fenómeno (por ejemplo, "violencia" → "violencia de género" o "violencia digital").
3. Describe las emociones predominantes (miedo, enojo, desconfianza, indignación, tristeza, etc.) y su relación con el contexto del grupo.
4. Resume las causas percibidas y los actores involucrados (autoridades, grupos delictivos, comunidad, medios, etc.).
5. Sugiere hasta 10 palabras clave representativas del tema y su entorno.
6. Incluye 2 respuestas representativas de los formularios que ilustren el fenómeno y su tono emocional.

Formato de salida (JSON válido y estructurado):
{
"dominant_theme": "<tema o fenómeno dominante, frase corta y contextualizada>",
"rationale": "<explicación breve en 2-4 oraciones que justifique por qué se identificó este tema y cómo se manifiesta en contexto>",
"emotional_tone": "<emociones predominantes detectadas>",
"top_keywords": ["<palabra1>", "<palabra2>", "<palabra3>"],
"representative_answers": ["<cita1>", "<cita2>"]
}

Reglas:
- El tema debe ser específico y contextual, no solo "violencia" o "inseguridad". Ejemplo: "violencia de género en espacios públicos", "corrupción policial asociada al narcotráfico".
- Usa solo información que pueda inferirse de los datos.
- Mantén tono analítico, educativo y en español mexicano natural.
- Devuelve únicamente JSON estructurado.`, context, sample)
}

// insightsSampleLimit caps the rows fed into the reactions prompt.
const insightsSampleLimit = 200

func buildInsightsPrompt(groupContext string, reactions []models.ParticipantReaction) string {
	context := strings.TrimSpace(groupContext)
	if context == "" {
		context = "(vacío)"
	}

	var sample strings.Builder
	limit := len(reactions)
	if limit > insightsSampleLimit {
		limit = insightsSampleLimit
	}
	for i := 0; i < limit; i++ {
		r := reactions[i]
		fmt.Fprintf(&sample, "%d) encuadre=%s | tarjeta=%s | género=%s | pregunta=%s | valor=%s\n",
			i+1, r.FrameLabel, r.Card, r.Gender, r.Question, r.Value)
	}

	return fmt.Sprintf(`Eres un analista de talleres educativos sobre desinformación.

Tienes datos combinados de tres formularios:
- [Form 0] Contexto del grupo y del docente.
- [Form 1] Percepciones de inseguridad y emociones previas.
- [Form 2] Reacciones ante las noticias con diferentes encuadres narrativos.

Cada fila puede estar vinculada por un número de tarjeta que representa a una persona.

Tu tarea:
1. Identifica patrones de reacción emocional ante las tres noticias (miedo, enojo, empatía, desconfianza, indiferencia, etc.).
2. Distingue qué encuadres (desconfianza, polarización, miedo/control) provocaron más reacciones emocionales fuertes o reflexivas.
3. Detecta diferencias por contexto del grupo (según Form 0).
4. Resume los hallazgos en 4 secciones:
- "Principales patrones emocionales"
- "Comparación entre encuadres"
- "Factores del contexto que influyen"
- "Recomendaciones pedagógicas para la siguiente sesión"
5. Agrega un breve párrafo de síntesis general para el reporte final.

Contexto del grupo:
%s

Datos:
%s

Responde en Markdown estructurado.`, context, strings.TrimSpace(sample.String()))
}
