package news

import (
	"fmt"
	"strings"

	"github.com/integridad-lab/taller-core/internal/models"
)

const generatorSystemPrompt = "Eres un experto en narrativa persuasiva. Adaptas historias manteniendo los hechos, cambiando sólo el enfoque emocional."

// buildNeutralPrompt produces the factual base article from the dominant
// theme. The three framed versions are rewrites of this text, so it always
// comes first.
func buildNeutralPrompt(analysis *models.ThemeAnalysis, groupContext string) string {
	context := strings.TrimSpace(groupContext)
	if context == "" {
		context = "(sin contexto adicional)"
	}
	keywords := "(sin palabras clave)"
	if len(analysis.TopKeywords) > 0 {
		keywords = strings.Join(analysis.TopKeywords, ", ")
	}

	return fmt.Sprintf(`Redacta una noticia breve y neutral, en español mexicano natural, sobre el siguiente tema identificado en un taller comunitario:

Tema dominante: %s
Emociones detectadas en el grupo: %s
Palabras clave: %s

Contexto del grupo:
%s

Instrucciones:
- Estilo periodístico informativo, sin opiniones ni juicios de valor.
- Presenta los hechos de forma equilibrada, citando el tipo de actores involucrados de manera genérica.
- No inventes cifras, nombres propios ni fuentes específicas.
- Máximo 220 palabras. Evita listas.
- Incluye un titular en la primera línea.`,
		analysis.DominantTheme, analysis.EmotionalTone, keywords, context)
}

// frameElements carries the persuasion-technique checklist each framed
// rewrite must exhibit, so participants can later spot the markers.
var frameElements = map[models.Frame]struct {
	role         string
	instructions string
	elements     string
}{
	models.FrameDistrust: {
		role: "Redacta esta misma noticia como una persona que busca sembrar desconfianza y responsabilizar a actores específicos.",
		instructions: `- Mantén los hechos principales sin inventar datos nuevos.
- Reescribe la narrativa enfatizando la desconfianza institucional y señalando culpables explícitos.
- Máximo 220 palabras. Evita listas.`,
		elements: `Atribuye la responsabilidad a ciertos actores, culpando y/o exigiendo.
Usa un lenguaje causal ("por", "debido a", "por culpa de").
Orienta desconfianza institucional.
Duda sobre la imparcialidad o transparencia institucional.
Utiliza un lenguaje de reclamo generalizado ("todos son corruptos", "nunca dicen la verdad").
Usa referencias a traición, manipulación o colusión.
Suele deslegitimar fuentes oficiales o periodísticas, justificando que están cooptadas.
Presencia de emojis con expresión escéptica o de advertencia (🤔 😒 ⚠️ 👀).
Usa signos como "¿?" y "…" para enfatizar la sospecha o ironía.
Incorpora mayúsculas parciales o exclamaciones para representar hartazgo y desconfianza.`,
	},
	models.FramePolarization: {
		role: `Redacta esta noticia con un encuadre que polariza a dos grupos sociales, fomentando la exclusión del "otro".`,
		instructions: `- Conserva los hechos clave sin inventar nueva información.
- Usa lenguaje que contraste claramente "nosotros vs. ellos", apelando a emociones intensas.
- Máximo 220 palabras. Evita listas.`,
		elements: `Usa un lenguaje emocional y alarmista.
Acentúa la contraposición de grupos usando palabras como "ellos" vs "nosotros".
Refuerza prejuicios y resentimientos.
Busca una validación emocional más que racional.
Hace uso de la culpabilización generalizada ("los migrantes", "los jóvenes", "las mujeres").
Ausencia de pluralidad de voces, sólo se cuenta un lado de la historia.
Usa un lenguaje discriminatorio o juicios sin pruebas.
Contiene asociaciones repetitivas entre grupo y problema.
Usa signos de exclamación, mayúsculas parciales, puntos suspensivos y emojis de conflicto (😡 😤 🔥 ⚔️ 🚫).`,
	},
	models.FrameFear: {
		role: "Reescribe la noticia utilizando un encuadre que enfatice el miedo y la necesidad de control o medidas extremas.",
		instructions: `- Mantén los hechos originales, pero magnifica las consecuencias negativas y la sensación de amenaza.
- Sugiere medidas de control o vigilancia como respuesta.
- Máximo 220 palabras. Evita listas.`,
		elements: `Usa un lenguaje apocalíptico, de urgencia y totalizador.
Imágenes impactantes o repetición de violencia.
Ausencia de datos verificables.
Justificación del control o vigilancia.
Uso exagerado de signos de puntuación para remarcar desesperación o urgencia (‼️, ❗❗❗, ???, !!!).
Emojis que usa: 😱 😨 😰 💀 🔥 ⚠️ 🚨 🔒 📹.
Usa mayúsculas parciales para enfatizar un tono de alarma.
Limita la libertad a través de sugerencias y recomendaciones usando el peligro como justificación.
Usa la repetición de palabras o frases: "Ya es tarde… demasiado tarde… 😨".`,
	},
}

func buildFramePrompt(frame models.Frame, neutralStory string) string {
	spec := frameElements[frame]
	base := strings.TrimSpace(neutralStory)
	if base == "" {
		base = "(Sin noticia neutral generada; describe de forma objetiva el tema dominante)"
	}

	return fmt.Sprintf(`Contexto:
Esta es la noticia neutral que debes reinterpretar:
---
%s
---

Rol:
%s

Instrucciones:
%s
- Usa estos elementos del encuadre:
%s`, base, spec.role, spec.instructions, spec.elements)
}
