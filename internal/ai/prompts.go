package ai

import "fmt"

const matchPromptTemplate = `Act as a professional football analyst.

**Task 1: Translation & Identity**
Input: "%[1]s" vs "%[2]s"
Identify the standard English team names.

**Task 2: Analysis**
- Match: %[1]s vs %[2]s
- Web Info: %[3]s
- Memory: %[4]s

Analyze the winner, the score and the reasons.

**Output JSON ONLY:**
{
    "teams_en": "Home(En) vs Away(En)",
    "winner": "%[1]s" or "%[2]s" or "Draw",
    "confidence": 0-100,
    "score": "2-1",
    "reason": "Detailed analysis, written in the language of the input team names",
    "learning_note": "Feedback for future predictions, same language"
}`

// BuildMatchPrompt embeds the team names exactly as the user typed them.
// Normalization to standard English names is the model's job (teams_en);
// winner must stay literally one of the two inputs or "Draw" so outcome
// reporting can compare strings.
func BuildMatchPrompt(home, away, evidence, learningContext string) string {
	return fmt.Sprintf(matchPromptTemplate, home, away, evidence, learningContext)
}
