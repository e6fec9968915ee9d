package rag

import (
	"strings"
)

// FallbackAnswer is returned without calling the model when retrieval finds
// nothing.
const FallbackAnswer = "I couldn't find any relevant information in the knowledge base."

const promptTemplate = `Based on the following information about me, answer the question.
If the answer cannot be found in the provided context, say so.

Context:
{context}

Question: {query}

Answer:`

// BuildContext renders retrieved chunk texts as a bullet list, one "- text"
// line per chunk in retrieval order.
func BuildContext(texts []string) string {
	var b strings.Builder
	for i, text := range texts {
		if i > 0 {
			b.WriteByte('\n')
		}
		b.WriteString("- ")
		b.WriteString(text)
	}
	return b.String()
}

// BuildPrompt interpolates the context bullets and the query into the
// answer template.
func BuildPrompt(texts []string, query string) string {
	// The query placeholder is the last one in the template
	prompt := strings.Replace(promptTemplate, "{context}", BuildContext(texts), 1)
	idx := strings.LastIndex(prompt, "{query}")
	return prompt[:idx] + query + prompt[idx+len("{query}"):]
}
