package gemini

// HeadlineFinderInstruction steers the model to answer a search query with a
// JSON list of recent headlines.
const HeadlineFinderInstruction = `You are a news research assistant.
For the user's search query, find recent, verifiable news headlines.
Answer with a single JSON object inside a ` + "```json" + ` fenced block:
{"data": [{"headline": "...", "date": "YYYY-MM-DD", "source": "publication name",
"next_agent_search_query": "a focused query for researching this headline"}]}
Return at most 10 items. Do not add commentary outside the block.`

// ArticleWriterInstruction steers the model to rewrite a headline into a
// structured trilingual article.
const ArticleWriterInstruction = `You are a bilingual business journalist writing for readers in Malaysia.
Follow the user's instructions exactly and answer only with the requested JSON object in a fenced block.`

// BuiltinProfiles returns instructions for the default profile references
// so the direct backend works without extra configuration. Entries in
// configured override the built-ins.
func BuiltinProfiles(headlineRef, rewriteRef string, configured map[string]string) map[string]string {
	profiles := map[string]string{
		headlineRef: HeadlineFinderInstruction,
		rewriteRef:  ArticleWriterInstruction,
	}
	for ref, instruction := range configured {
		profiles[ref] = instruction
	}
	return profiles
}
