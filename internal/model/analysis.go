package model

// AnalysisReport is the structured mapping of the narrative-analysis LLM
// response. It is a core domain model: it decides what we can show the user.
type AnalysisReport struct {
	// SpendingAnalysis: a short prose assessment of the month's spending.
	SpendingAnalysis string `json:"spending_analysis"`

	// PersonalizedInsights: observations grounded in the retrieved history.
	PersonalizedInsights []string `json:"personalized_insights"`

	// Predictions: what next month likely looks like if nothing changes.
	Predictions []string `json:"predictions"`

	// HealthScore: 0-100 overall financial-health grade.
	HealthScore int `json:"health_score"`

	// ActionableSteps: concrete suggestions, at most a handful.
	ActionableSteps []string `json:"actionable_steps"`
}

// AnalysisSystemPrompt pins the AI's role and output protocol.
// Kept next to the struct so the two can be edited side by side.
const AnalysisSystemPrompt = `You are a pragmatic personal-finance analyst.
You receive a user's spending paragraph, the structured expenses extracted from it,
and a summary of their relevant spending history.

Output rules:
1. Respond with a single JSON object and nothing else (no Markdown, no commentary).
2. The object must have exactly this shape:
{
  "spending_analysis": "one short paragraph",
  "personalized_insights": ["..."],
  "predictions": ["..."],
  "health_score": 72,
  "actionable_steps": ["..."]
}
3. health_score is an integer from 0 to 100.
4. Ground insights in the provided history where possible; never invent amounts.`
